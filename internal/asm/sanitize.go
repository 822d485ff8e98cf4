package asm

import "math/big"

// BigNumber is the threshold at or above which a Push literal must be
// factored into a multiply/add chain rather than emitted directly; it
// bounds the generator's region-cardinality encoding.
const BigNumber = 100

// Sanitize legalizes every Push literal so that 0 < n < BigNumber, and
// appends a trailing Stop if the program does not already end in Stop
// or Jump. It mutates a in place and returns it for chaining.
func Sanitize(a *PietAsm) *PietAsm {
	factorNegatives(a)
	factorOversized(a)
	ensureTerminator(a)
	return a
}

// factorNegatives replaces every Push(n) with n <= 0 by a short
// sequence of positive pushes and arithmetic, iterating left to right
// to a fixpoint (a replacement can itself introduce a smaller negative
// literal that needs the same treatment).
func factorNegatives(a *PietAsm) {
	for {
		idx := -1
		for i, c := range a.Cmds {
			if c.Op == MPush && c.Value.Sign() <= 0 {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		n := a.Cmds[idx].Value
		var replace []Cmd
		if n.Sign() == 0 {
			replace = []Cmd{push(big.NewInt(1)), simple(MNot)}
		} else {
			replace = []Cmd{
				push(big.NewInt(1)),
				push(new(big.Int).Add(n, bigOne)),
				simple(MSubtract),
			}
		}
		a.Cmds = spliceCmds(a.Cmds, idx, 1, replace)
	}
}

var bigNumber = big.NewInt(BigNumber)

// factorOversized replaces every Push(n) with n >= BigNumber by
// Push(floor(sqrt(n))); Duplicate; Multiply, with an added remainder
// term when n is not a perfect square, iterating to a fixpoint.
func factorOversized(a *PietAsm) {
	for {
		idx := -1
		for i, c := range a.Cmds {
			if c.Op == MPush && c.Value.Cmp(bigNumber) >= 0 {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		n := a.Cmds[idx].Value
		sqrt := new(big.Int).Sqrt(n)
		sq := new(big.Int).Mul(sqrt, sqrt)
		diff := new(big.Int).Sub(n, sq)
		replace := []Cmd{push(new(big.Int).Set(sqrt)), simple(MDuplicate), simple(MMultiply)}
		if diff.Sign() != 0 {
			replace = append(replace, push(diff), simple(MAdd))
		}
		a.Cmds = spliceCmds(a.Cmds, idx, 1, replace)
	}
}

// ensureTerminator appends a Stop if the last command is neither Stop
// nor Jump.
func ensureTerminator(a *PietAsm) {
	if len(a.Cmds) > 0 {
		last := a.Cmds[len(a.Cmds)-1]
		if last.Op == MStop || last.Op == MJump {
			return
		}
	}
	a.Cmds = append(a.Cmds, simple(MStop))
}

func spliceCmds(cmds []Cmd, idx, del int, replace []Cmd) []Cmd {
	out := make([]Cmd, 0, len(cmds)-del+len(replace))
	out = append(out, cmds[:idx]...)
	out = append(out, replace...)
	out = append(out, cmds[idx+del:]...)
	return out
}
