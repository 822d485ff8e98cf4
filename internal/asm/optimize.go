package asm

import "math/big"

// Optimize runs the fixed-point peephole rewrite set over a, mutating it
// in place and returning it for chaining. It repeats the full rewrite
// pass until a pass makes no change.
func Optimize(a *PietAsm) *PietAsm {
	for {
		changed := false
		changed = dropUnusedLabels(a) || changed
		changed = collapseJumpLabel(a) || changed
		changed = pushPushToDup(a) || changed
		changed = collapseNotTriples(a) || changed
		if !changed {
			return a
		}
	}
}

// dropUnusedLabels removes every Label(id) whose jump_counts entry is
// zero.
func dropUnusedLabels(a *PietAsm) bool {
	changed := false
	out := a.Cmds[:0]
	for _, c := range a.Cmds {
		if c.Op == MLabel && a.JumpCounts[c.Label] == 0 {
			changed = true
			continue
		}
		out = append(out, c)
	}
	a.Cmds = out
	return changed
}

// collapseJumpLabel rewrites adjacent Jump(id); Label(id) to Label(id),
// decrementing jump_counts[id].
func collapseJumpLabel(a *PietAsm) bool {
	changed := false
	out := make([]Cmd, 0, len(a.Cmds))
	for i := 0; i < len(a.Cmds); i++ {
		if i+1 < len(a.Cmds) &&
			a.Cmds[i].Op == MJump && a.Cmds[i+1].Op == MLabel &&
			a.Cmds[i].Label == a.Cmds[i+1].Label {
			id := a.Cmds[i].Label
			a.JumpCounts[id]--
			out = append(out, a.Cmds[i+1])
			i++
			changed = true
			continue
		}
		out = append(out, a.Cmds[i])
	}
	a.Cmds = out
	return changed
}

// pushPushToDup rewrites the rightmost adjacent Push(x); Push(x) pair
// (equal bignum) into Push(x); Duplicate. It replaces only one pair per
// call, matching the source's "find rightmost, replace, rescan"
// algorithm: Optimize's outer fixpoint loop calls it again until no
// pair remains, which is what correctly collapses a run of three or
// more equal pushes (a single greedy left-to-right sweep would skip
// every other pair in such a run).
func pushPushToDup(a *PietAsm) bool {
	idx := -1
	for i := 0; i+1 < len(a.Cmds); i++ {
		if a.Cmds[i].Op == MPush && a.Cmds[i+1].Op == MPush &&
			a.Cmds[i].Value.Cmp(a.Cmds[i+1].Value) == 0 {
			idx = i
		}
	}
	if idx < 0 {
		return false
	}
	a.Cmds[idx+1] = simple(MDuplicate)
	return true
}

// collapseNotTriples rewrites any run of three or more consecutive Not
// commands by applying Not;Not;Not -> Not until fewer than three remain
// (Not;Not;Not is a no-op composed with one more Not): an odd run
// becomes one Not, an even run two.
func collapseNotTriples(a *PietAsm) bool {
	changed := false
	out := make([]Cmd, 0, len(a.Cmds))
	i := 0
	for i < len(a.Cmds) {
		if a.Cmds[i].Op == MNot {
			j := i
			for j < len(a.Cmds) && a.Cmds[j].Op == MNot {
				j++
			}
			run := j - i
			if run >= 3 {
				changed = true
				out = append(out, simple(MNot))
				if run%2 == 0 {
					out = append(out, simple(MNot))
				}
			} else {
				out = append(out, a.Cmds[i:j]...)
			}
			i = j
			continue
		}
		out = append(out, a.Cmds[i])
		i++
	}
	a.Cmds = out
	return changed
}

var bigOne = big.NewInt(1)
