package gen

import (
	"math/big"
	"testing"

	"github.com/orezstudent/piet/internal/asm"
	"github.com/orezstudent/piet/internal/color"
)

func TestGenerateSeedsControlColor(t *testing.T) {
	prog := &asm.PietAsm{Cmds: []asm.Cmd{{Op: asm.MStop}}}
	g, err := Generate(prog, 20, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, p := range [][2]int{{0, 0}, {0, 1}, {1, 1}} {
		if got := g.At(p[0], p[1]); got != color.ControlColor {
			t.Errorf("At(%d,%d) = %v, want ControlColor", p[0], p[1], got)
		}
	}
}

func TestGeneratePushThenStop(t *testing.T) {
	prog := &asm.PietAsm{Cmds: []asm.Cmd{
		{Op: asm.MPush, Value: big.NewInt(5)},
		{Op: asm.MStop},
	}}
	g, err := Generate(prog, 30, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var painted int
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if c := g.At(x, y); c.IsProgram() {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("expected at least one program-color codel to be painted")
	}
}

func TestGenerateBackwardJump(t *testing.T) {
	prog := &asm.PietAsm{
		Cmds: []asm.Cmd{
			{Op: asm.MLabel, Label: 0},
			{Op: asm.MPop},
			{Op: asm.MJump, Label: 0},
		},
		JumpCounts: map[asm.LabelID]int{0: 1},
	}
	if _, err := Generate(prog, 30, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestGenerateJumpIfToExistingLabel(t *testing.T) {
	prog := &asm.PietAsm{
		Cmds: []asm.Cmd{
			{Op: asm.MLabel, Label: 0},
			{Op: asm.MNot},
			{Op: asm.MNot},
			{Op: asm.MJumpIf, Label: 0},
		},
		JumpCounts: map[asm.LabelID]int{0: 1},
	}
	if _, err := Generate(prog, 30, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestGenerateForwardJumpIsTodo(t *testing.T) {
	prog := &asm.PietAsm{
		Cmds: []asm.Cmd{
			{Op: asm.MJump, Label: 0},
			{Op: asm.MLabel, Label: 0},
		},
		JumpCounts: map[asm.LabelID]int{0: 1},
	}
	_, err := Generate(prog, 30, nil)
	if err == nil {
		t.Fatal("expected a TodoError for a forward jump, got nil")
	}
	if _, ok := err.(*TodoError); !ok {
		t.Errorf("expected *TodoError, got %T: %v", err, err)
	}
}

func TestGenerateRowWrap(t *testing.T) {
	cmds := []asm.Cmd{}
	for i := int64(1); i <= 40; i++ {
		cmds = append(cmds, asm.Cmd{Op: asm.MPush, Value: big.NewInt(i)}, asm.Cmd{Op: asm.MPop})
	}
	cmds = append(cmds, asm.Cmd{Op: asm.MStop})
	prog := &asm.PietAsm{Cmds: cmds}
	g, err := Generate(prog, DefaultWidth, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.Height <= RowHeight {
		t.Errorf("expected the buffer to have wrapped past one row, height = %d", g.Height)
	}
}
