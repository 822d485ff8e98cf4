package vm

import (
	"bufio"
	"fmt"
	"math"
	"math/big"

	"github.com/orezstudent/piet/internal/color"
	"github.com/orezstudent/piet/internal/region"
)

func opNoop(v *VM, r *region.Region) error {
	return nil
}

func opPush(v *VM, r *region.Region) error {
	v.push(r.Value())
	return nil
}

func opPop(v *VM, r *region.Region) error {
	if err := v.need(color.Pop, 1); err != nil {
		return err
	}
	v.pop()
	return nil
}

func opAdd(v *VM, r *region.Region) error {
	return binOp(v, color.Add, func(a, b *big.Int) *big.Int {
		return new(big.Int).Add(a, b)
	})
}

func opSubtract(v *VM, r *region.Region) error {
	return binOp(v, color.Subtract, func(a, b *big.Int) *big.Int {
		return new(big.Int).Sub(a, b)
	})
}

func opMultiply(v *VM, r *region.Region) error {
	return binOp(v, color.Multiply, func(a, b *big.Int) *big.Int {
		return new(big.Int).Mul(a, b)
	})
}

func opDivide(v *VM, r *region.Region) error {
	if err := v.need(color.Divide, 2); err != nil {
		return err
	}
	b, a := v.stack[len(v.stack)-1], v.stack[len(v.stack)-2]
	if b.Sign() == 0 {
		return runtimeErrorf(color.Divide, "DivisionByZero")
	}
	v.pop()
	v.pop()
	q, _ := flooredDivMod(a, b)
	v.push(q)
	return nil
}

func opMod(v *VM, r *region.Region) error {
	if err := v.need(color.Mod, 2); err != nil {
		return err
	}
	b, a := v.stack[len(v.stack)-1], v.stack[len(v.stack)-2]
	if b.Sign() == 0 {
		return runtimeErrorf(color.Mod, "DivisionByZero")
	}
	v.pop()
	v.pop()
	_, m := flooredDivMod(a, b)
	v.push(m)
	return nil
}

// flooredDivMod computes floor division and its matching remainder,
// e.g. floor(-7/2) = -4, with remainder -7 - (-4*2) = 1.
func flooredDivMod(a, b *big.Int) (q, m *big.Int) {
	q, m = new(big.Int), new(big.Int)
	q.QuoRem(a, b, m)
	if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		m.Add(m, b)
	}
	return q, m
}

func opNot(v *VM, r *region.Region) error {
	if err := v.need(color.Not, 1); err != nil {
		return err
	}
	top := v.pop()
	if top.Sign() == 0 {
		v.push(big.NewInt(1))
	} else {
		v.push(big.NewInt(0))
	}
	return nil
}

func opGreater(v *VM, r *region.Region) error {
	if err := v.need(color.Greater, 2); err != nil {
		return err
	}
	b := v.pop()
	a := v.pop()
	if a.Cmp(b) > 0 {
		v.push(big.NewInt(1))
	} else {
		v.push(big.NewInt(0))
	}
	return nil
}

func opPointer(v *VM, r *region.Region) error {
	if err := v.need(color.Pointer, 1); err != nil {
		return err
	}
	steps, err := smallInt(color.Pointer, v.stack[len(v.stack)-1])
	if err != nil {
		return err
	}
	v.pop()
	v.ip.DP = v.ip.DP.Rotate(steps)
	return nil
}

func opSwitch(v *VM, r *region.Region) error {
	if err := v.need(color.Switch, 1); err != nil {
		return err
	}
	steps, err := smallInt(color.Switch, v.stack[len(v.stack)-1])
	if err != nil {
		return err
	}
	v.pop()
	if mod2(steps) != 0 {
		v.ip.CC = v.ip.CC.Flip()
	}
	return nil
}

func opDuplicate(v *VM, r *region.Region) error {
	if err := v.need(color.Duplicate, 1); err != nil {
		return err
	}
	top := v.stack[len(v.stack)-1]
	v.push(new(big.Int).Set(top))
	return nil
}

func opRoll(v *VM, r *region.Region) error {
	if err := v.need(color.Roll, 2); err != nil {
		return err
	}
	rollN := v.stack[len(v.stack)-1]
	depthN := v.stack[len(v.stack)-2]
	depth, err := smallInt(color.Roll, depthN)
	if err != nil {
		return err
	}
	if depth < 1 {
		return runtimeErrorf(color.Roll, "NegativeRoll(depth=%d)", depth)
	}
	// depth and rollN themselves occupy two stack slots; the rotated
	// window sits beneath them.
	if len(v.stack)-2 < depth {
		return runtimeErrorf(color.Roll, "NotEnoughStack(need=%d, have=%d)", depth+2, len(v.stack))
	}
	roll, err := smallInt(color.Roll, rollN)
	if err != nil {
		return err
	}
	v.pop()
	v.pop()
	base := len(v.stack) - depth
	window := v.stack[base:]
	r2 := mod(roll, depth)
	rotated := make([]*big.Int, depth)
	for i, x := range window {
		rotated[(i+r2)%depth] = x
	}
	copy(window, rotated)
	return nil
}

func opInNum(v *VM, r *region.Region) error {
	n, err := readDecimal(v.in)
	if err != nil {
		return runtimeErrorf(color.InNum, "IoError(%v)", err)
	}
	v.push(n)
	return nil
}

func opInChar(v *VM, r *region.Region) error {
	b, err := v.in.ReadByte()
	if err != nil {
		return runtimeErrorf(color.InChar, "IoError(%v)", err)
	}
	v.push(big.NewInt(int64(b)))
	return nil
}

func opOutNum(v *VM, r *region.Region) error {
	if err := v.need(color.OutNum, 1); err != nil {
		return err
	}
	n := v.pop()
	fmt.Fprint(v.out, n.String())
	return nil
}

func opOutChar(v *VM, r *region.Region) error {
	if err := v.need(color.OutChar, 1); err != nil {
		return err
	}
	n := v.stack[len(v.stack)-1]
	if !n.IsInt64() || n.Int64() < 0 || n.Int64() > 255 {
		return runtimeErrorf(color.OutChar, "EncodeError(%s)", n.String())
	}
	v.pop()
	v.out.WriteByte(byte(n.Int64()))
	return nil
}

func binOp(v *VM, op color.Command, f func(a, b *big.Int) *big.Int) error {
	if err := v.need(op, 2); err != nil {
		return err
	}
	b := v.pop()
	a := v.pop()
	v.push(f(a, b))
	return nil
}

// smallInt reduces n to a machine-sized int for use as a rotation count
// or depth, reporting IntegerOverflow if it doesn't fit.
func smallInt(op color.Command, n *big.Int) (int, error) {
	if !n.IsInt64() {
		return 0, runtimeErrorf(op, "IntegerOverflow(%s)", n.String())
	}
	v := n.Int64()
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, runtimeErrorf(op, "IntegerOverflow(%s)", n.String())
	}
	return int(v), nil
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func mod2(a int) int {
	return mod(a, 2)
}

// readDecimal skips leading ASCII whitespace, then reads an optional
// sign and a run of decimal digits into a bignum. Returning an error on
// immediate EOF (no digits consumed at all).
func readDecimal(r *bufio.Reader) (*big.Int, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			continue
		}
		r.UnreadByte()
		break
	}
	var buf []byte
	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if b == '-' || b == '+' {
		buf = append(buf, b)
		b, err = r.ReadByte()
		if err != nil {
			return nil, err
		}
	}
	if b < '0' || b > '9' {
		return nil, fmt.Errorf("expected a digit, got %q", b)
	}
	buf = append(buf, b)
	for {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if b < '0' || b > '9' {
			r.UnreadByte()
			break
		}
		buf = append(buf, b)
	}
	n, ok := new(big.Int).SetString(string(buf), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", buf)
	}
	return n, nil
}
