package gen

import (
	"fmt"

	"github.com/orezstudent/piet/internal/color"
)

// OutOfBoundsError: a draw call targeted a coordinate outside the
// buffer's current extent.
type OutOfBoundsError struct {
	X, Y int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("out of bounds: (%d, %d)", e.X, e.Y)
}

// ColorMismatchError: a codel already held a color incompatible with
// the one a gadget tried to paint there.
type ColorMismatchError struct {
	Desired, Existing color.Color
	X, Y              int
}

func (e *ColorMismatchError) Error() string {
	return fmt.Sprintf("color mismatch at (%d, %d): wanted %s, found %s", e.X, e.Y, e.Desired, e.Existing)
}

// AllocationError: the row-advance retry limit was exhausted while
// routing around reserved jump columns.
type AllocationError struct{}

func (e *AllocationError) Error() string { return "allocation error: routing retry limit exceeded" }

// TodoError: a jump this layout engine cannot route: a Jump to a label
// not yet emitted, or a JumpIf to a label whose earlier forward JumpIf
// is still unmatched. A first forward JumpIf is supported. The generator
// also returns it for a mnemonic it has no drawing for.
type TodoError struct {
	Label string
}

func (e *TodoError) Error() string {
	return fmt.Sprintf("unsupported forward jump to label %q", e.Label)
}
