// Package vm implements the Piet stack machine: a two-component
// instruction pointer walking a codel grid, white-codel sliding with
// cycle detection, and arbitrary-precision stack opcodes.
package vm

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/orezstudent/piet/internal/color"
	"github.com/orezstudent/piet/internal/grid"
	"github.com/orezstudent/piet/internal/region"
	"go.uber.org/zap"
)

// RuntimeError is a non-fatal opcode failure: the offending opcode
// becomes a no-op and execution continues. It implements error so
// callers that do want to treat it as fatal may still do so.
type RuntimeError struct {
	Op      color.Command
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%v: %s", e.Op, e.Message)
}

func runtimeErrorf(op color.Command, format string, args ...any) *RuntimeError {
	return &RuntimeError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// MaxSteps, when non-zero, bounds Run to at most that many calls to
// Step, as a supplemental safety rail for test harnesses and fuzzing.
// It is never required for ordinary execution and defaults to
// unbounded (0).
type Options struct {
	Stdin    io.Reader
	Stdout   io.Writer
	MaxSteps int
	Log      *zap.SugaredLogger
}

// VM holds the full execution state: the immutable grid, the current
// instruction pointer and position, and the arbitrary-precision stack.
type VM struct {
	grid  *grid.Grid
	ip    region.IP
	pos   region.Coord
	stack []*big.Int

	in  *bufio.Reader
	out *bufio.Writer
	log *zap.SugaredLogger

	maxSteps int
	steps    int

	// visited records (position, ip) pairs seen at a white-slide
	// blockage, for cycle detection.
	visited map[whiteKey]bool
}

type whiteKey struct {
	pos region.Coord
	ip  region.IP
}

// New builds a VM positioned at the grid's origin with the canonical
// initial instruction pointer (Right, Left).
func New(g *grid.Grid, opts Options) *VM {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = io.MultiReader()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	return &VM{
		grid:     g,
		ip:       region.IP{DP: region.Right, CC: region.CCLeft},
		pos:      region.Coord{X: 0, Y: 0},
		in:       bufio.NewReader(stdin),
		out:      bufio.NewWriter(stdout),
		log:      log,
		maxSteps: opts.MaxSteps,
		visited:  make(map[whiteKey]bool),
	}
}

// Run repeatedly invokes Step until it returns false, then flushes any
// buffered output.
func (v *VM) Run() error {
	for {
		ok, err := v.Step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		v.steps++
		if v.maxSteps > 0 && v.steps >= v.maxSteps {
			v.log.Infow("max steps reached, halting", "steps", v.steps)
			break
		}
	}
	return v.out.Flush()
}

// Step executes a single transition. It returns (true, nil) if
// execution should continue, (false, nil) on normal termination
// (8 failed color-exit probes or a white-slide cycle), and a non-nil
// error only for conditions that are not part of the language's own
// halting semantics (i.e. never, in practice, since runtime faults are
// recovered locally per the spec's non-fatal error taxonomy).
func (v *VM) Step() (bool, error) {
	c := v.grid.At(v.pos.X, v.pos.Y)
	if c.Kind == color.White {
		return v.whiteSlide()
	}
	return v.colorStep()
}

// colorStep extracts the region at the current position and attempts
// to exit it via the 8-probe (DP, CC) scheme.
func (v *VM) colorStep() (bool, error) {
	r := region.Extract(v.grid, v.pos.X, v.pos.Y)
	ip := v.ip
	for rotation := 0; rotation < 4; rotation++ {
		for probe := 0; probe < 2; probe++ {
			coord := r.ExitTo(ip)
			if v.acceptableExit(coord) {
				op := color.StepTo(r.Color, v.grid.At(coord.X, coord.Y))
				v.ip = ip
				v.pos = coord
				v.dispatch(op, r)
				return true, nil
			}
			ip.CC = ip.CC.Flip()
		}
		ip.DP = ip.DP.Rotate(1)
	}
	v.log.Debugw("halt: 8 failed color-exit probes", "pos", v.pos)
	return false, nil
}

func (v *VM) acceptableExit(c region.Coord) bool {
	if !v.grid.InBounds(c.X, c.Y) {
		return false
	}
	col := v.grid.At(c.X, c.Y)
	return col.Kind != color.Black && col.Kind != color.Other
}

// whiteSlide walks through White codels in the current DP until a
// program-color codel is reached (success, Noop) or a cycle at a
// blockage point is detected (halt).
func (v *VM) whiteSlide() (bool, error) {
	clear(v.visited)
	for {
		dx, dy := v.ip.DP.delta()
		next := region.Coord{X: v.pos.X + dx, Y: v.pos.Y + dy}
		if v.blocked(next) {
			key := whiteKey{pos: v.pos, ip: v.ip}
			if v.visited[key] {
				v.log.Debugw("halt: white-slide cycle", "pos", v.pos, "ip", v.ip)
				return false, nil
			}
			v.visited[key] = true
			v.ip.CC = v.ip.CC.Flip()
			v.ip.DP = v.ip.DP.Rotate(1)
			continue
		}
		v.pos = next
		if v.grid.At(next.X, next.Y).Kind != color.White {
			return true, nil
		}
	}
}

func (v *VM) blocked(c region.Coord) bool {
	if !v.grid.InBounds(c.X, c.Y) {
		return true
	}
	return v.grid.At(c.X, c.Y).Kind == color.Black
}

// dispatch applies the opcode's effect. Preconditions are checked
// before any mutation; a failed precondition logs a warning and leaves
// the stack untouched (the opcode becomes a no-op), per the non-fatal
// runtime error taxonomy.
func (v *VM) dispatch(op color.Command, r *region.Region) {
	fn, ok := dispatchTable[op]
	if !ok {
		return
	}
	if err := fn(v, r); err != nil {
		v.log.Warnw("runtime error", "error", err)
	}
}

type opFunc func(v *VM, r *region.Region) error

var dispatchTable = map[color.Command]opFunc{
	color.Noop:      opNoop,
	color.Push:      opPush,
	color.Pop:       opPop,
	color.Add:       opAdd,
	color.Subtract:  opSubtract,
	color.Multiply:  opMultiply,
	color.Divide:    opDivide,
	color.Mod:       opMod,
	color.Not:       opNot,
	color.Greater:   opGreater,
	color.Pointer:   opPointer,
	color.Switch:    opSwitch,
	color.Duplicate: opDuplicate,
	color.Roll:      opRoll,
	color.InNum:     opInNum,
	color.InChar:    opInChar,
	color.OutNum:    opOutNum,
	color.OutChar:   opOutChar,
}

func (v *VM) push(n *big.Int) {
	v.stack = append(v.stack, n)
}

func (v *VM) pop() *big.Int {
	n := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return n
}

func (v *VM) need(op color.Command, n int) error {
	if len(v.stack) < n {
		return runtimeErrorf(op, "NotEnoughStack(need=%d, have=%d)", n, len(v.stack))
	}
	return nil
}

// Stack exposes the current stack contents, bottom-to-top, for tests
// and CLI inspection.
func (v *VM) Stack() []*big.Int {
	return v.stack
}
