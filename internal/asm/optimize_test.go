package asm

import (
	"math/big"
	"testing"
)

func pushCmd(n int64) Cmd { return pushInt(n) }

func TestOptimizePushDupScenario(t *testing.T) {
	// Scenario: [Push 5, Push 2, Push 2, Push 2, Push 8, Push 8]
	// optimizes to [Push 5, Push 2, Dup, Dup, Push 8, Dup].
	a := &PietAsm{Cmds: []Cmd{
		pushCmd(5), pushCmd(2), pushCmd(2), pushCmd(2), pushCmd(8), pushCmd(8),
	}, JumpCounts: map[LabelID]int{}}
	Optimize(a)

	want := []Cmd{
		pushCmd(5), pushCmd(2), simple(MDuplicate), simple(MDuplicate), pushCmd(8), simple(MDuplicate),
	}
	if len(a.Cmds) != len(want) {
		t.Fatalf("got %+v, want %+v", a.Cmds, want)
	}
	for i := range want {
		if a.Cmds[i].Op != want[i].Op {
			t.Fatalf("cmd %d: got %+v, want %+v", i, a.Cmds[i], want[i])
		}
		if a.Cmds[i].Op == MPush && a.Cmds[i].Value.Cmp(want[i].Value) != 0 {
			t.Fatalf("cmd %d: got Push(%v), want Push(%v)", i, a.Cmds[i].Value, want[i].Value)
		}
	}
}

func TestOptimizeNotTriple(t *testing.T) {
	a := &PietAsm{Cmds: []Cmd{simple(MNot), simple(MNot), simple(MNot)}, JumpCounts: map[LabelID]int{}}
	Optimize(a)
	if len(a.Cmds) != 1 || a.Cmds[0].Op != MNot {
		t.Fatalf("got %+v, want single Not", a.Cmds)
	}
}

func TestOptimizeUnusedLabelScenario(t *testing.T) {
	// Scenario: [Label 0, Push 1, Label 1, Push 2, Label 2, Jump 1]
	// optimizes to [Push 1, Label 1, Push 2, Jump 1].
	a := &PietAsm{
		Cmds: []Cmd{
			label(0), pushCmd(1), label(1), pushCmd(2), label(2), jump(1),
		},
		JumpCounts: map[LabelID]int{0: 0, 1: 1, 2: 0},
	}
	Optimize(a)

	if len(a.Cmds) != 4 {
		t.Fatalf("got %+v, want 4 cmds", a.Cmds)
	}
	if a.Cmds[0].Op != MPush || a.Cmds[0].Value.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("cmd 0 = %+v, want Push(1)", a.Cmds[0])
	}
	if a.Cmds[1].Op != MLabel || a.Cmds[1].Label != 1 {
		t.Fatalf("cmd 1 = %+v, want Label(1)", a.Cmds[1])
	}
	if a.Cmds[2].Op != MPush || a.Cmds[2].Value.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("cmd 2 = %+v, want Push(2)", a.Cmds[2])
	}
	if a.Cmds[3].Op != MJump || a.Cmds[3].Label != 1 {
		t.Fatalf("cmd 3 = %+v, want Jump(1)", a.Cmds[3])
	}
}

func TestOptimizeCollapseJumpLabel(t *testing.T) {
	// Jump(0);Label(0) collapses to Label(0) with count decremented to
	// zero, and the now-unused Label(0) is then dropped on the next
	// fixpoint pass: the two rules cascade to an empty program when
	// label 0 has no other referents.
	a := &PietAsm{
		Cmds:       []Cmd{jump(0), label(0)},
		JumpCounts: map[LabelID]int{0: 1},
	}
	Optimize(a)
	if len(a.Cmds) != 0 {
		t.Fatalf("got %+v, want empty program", a.Cmds)
	}
	if a.JumpCounts[0] != 0 {
		t.Fatalf("jump count = %d, want 0", a.JumpCounts[0])
	}
}

func TestOptimizeCollapseJumpLabelWithOtherReferent(t *testing.T) {
	// A second, non-adjacent Jump(0) keeps the label's count above zero
	// after the adjacent pair collapses, so Label(0) survives.
	a := &PietAsm{
		Cmds:       []Cmd{jump(0), simple(MPop), jump(0), label(0)},
		JumpCounts: map[LabelID]int{0: 2},
	}
	Optimize(a)
	want := []Cmd{jump(0), simple(MPop), label(0)}
	if len(a.Cmds) != len(want) {
		t.Fatalf("got %+v, want %+v", a.Cmds, want)
	}
	if a.Cmds[0].Op != MJump || a.Cmds[1].Op != MPop || a.Cmds[2].Op != MLabel {
		t.Fatalf("got %+v, want [Jump(0), Pop, Label(0)]", a.Cmds)
	}
	if a.JumpCounts[0] != 1 {
		t.Fatalf("jump count = %d, want 1", a.JumpCounts[0])
	}
}
