package vm

import (
	"math/big"
	"testing"
)

func ints(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func newTestVM() *VM {
	return New(nil, Options{})
}

func setStack(v *VM, vals ...int64) {
	v.stack = ints(vals...)
}

func assertStack(t *testing.T, v *VM, want ...int64) {
	t.Helper()
	if len(v.stack) != len(want) {
		t.Fatalf("stack = %v, want %v", v.stack, want)
	}
	for i, w := range want {
		if v.stack[i].Int64() != w {
			t.Fatalf("stack = %v, want %v", v.stack, want)
		}
	}
}

func TestFlooredDivision(t *testing.T) {
	v := newTestVM()
	setStack(v, -7, 2)
	if err := opDivide(v, nil); err != nil {
		t.Fatalf("opDivide: %v", err)
	}
	assertStack(t, v, -4)
}

func TestRollConcreteScenario(t *testing.T) {
	v := newTestVM()
	setStack(v, 4, 5, 6, 7, 8, 9, 3, 2)
	if err := opRoll(v, nil); err != nil {
		t.Fatalf("opRoll: %v", err)
	}
	assertStack(t, v, 4, 5, 6, 8, 9, 7)
}

func TestDivByZeroPrecedence(t *testing.T) {
	v := newTestVM()
	setStack(v, 0)
	err := opDivide(v, nil)
	if err == nil {
		t.Fatalf("opDivide with 1 operand succeeded, want NotEnoughStack error")
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("error type = %T, want *RuntimeError", err)
	}
	if want := "NotEnoughStack(need=2, have=1)"; re.Message != want {
		t.Fatalf("message = %q, want %q", re.Message, want)
	}
	assertStack(t, v, 0)
}

func TestDivByZero(t *testing.T) {
	v := newTestVM()
	setStack(v, 5, 0)
	err := opDivide(v, nil)
	if err == nil {
		t.Fatalf("opDivide by zero succeeded, want DivisionByZero error")
	}
	assertStack(t, v, 5, 0)
}

func TestNot(t *testing.T) {
	v := newTestVM()
	setStack(v, 0)
	if err := opNot(v, nil); err != nil {
		t.Fatalf("opNot: %v", err)
	}
	assertStack(t, v, 1)

	v = newTestVM()
	setStack(v, 7)
	if err := opNot(v, nil); err != nil {
		t.Fatalf("opNot: %v", err)
	}
	assertStack(t, v, 0)
}

func TestGreater(t *testing.T) {
	v := newTestVM()
	setStack(v, 5, 3)
	if err := opGreater(v, nil); err != nil {
		t.Fatalf("opGreater: %v", err)
	}
	assertStack(t, v, 1)
}

func TestDuplicate(t *testing.T) {
	v := newTestVM()
	setStack(v, 9)
	if err := opDuplicate(v, nil); err != nil {
		t.Fatalf("opDuplicate: %v", err)
	}
	assertStack(t, v, 9, 9)
}

func TestOutCharEncodeError(t *testing.T) {
	v := newTestVM()
	setStack(v, 300)
	err := opOutChar(v, nil)
	if err == nil {
		t.Fatalf("opOutChar(300) succeeded, want EncodeError")
	}
}
