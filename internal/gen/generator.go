package gen

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/orezstudent/piet/internal/asm"
	"github.com/orezstudent/piet/internal/color"
	"github.com/orezstudent/piet/internal/grid"
)

// Layout parameters governing the generated image's geometry.
const (
	DefaultWidth  = 100
	RowHeight     = 10
	RowFillHeight = 5
	allocAttempts = 10
)

// mnemonicToCommand maps the assembly mnemonics emitted directly as a
// single opcode codel onto their color.Command. Push, Label, Jump,
// JumpIf and Stop are handled as dedicated gadgets instead.
var mnemonicToCommand = map[asm.Mnemonic]color.Command{
	asm.MPop:       color.Pop,
	asm.MAdd:       color.Add,
	asm.MSubtract:  color.Subtract,
	asm.MMultiply:  color.Multiply,
	asm.MDivide:    color.Divide,
	asm.MMod:       color.Mod,
	asm.MNot:       color.Not,
	asm.MGreater:   color.Greater,
	asm.MDuplicate: color.Duplicate,
	asm.MRoll:      color.Roll,
	asm.MInNum:     color.InNum,
	asm.MInChar:    color.InChar,
	asm.MOutNum:    color.OutNum,
	asm.MOutChar:   color.OutChar,
}

func labelName(id asm.LabelID) string {
	return fmt.Sprintf("#%d", id)
}

type labelPos struct {
	x, y0 int
}

// gen carries the buffer plus label bookkeeping across the linear scan
// over asm.Cmds.
type gen struct {
	buf            *buffer
	labels         map[asm.LabelID]labelPos
	unmatchedJumps map[asm.LabelID]labelPos
	log            *zap.SugaredLogger
}

// Generate lays out prog as a 2D codel grid of the given width (the
// image's execution track is one row tall at this width; additional
// rows accumulate downward as row-wrap gadgets fire). log may be nil.
func Generate(prog *asm.PietAsm, width int, log *zap.SugaredLogger) (*grid.Grid, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	g := &gen{
		buf:            newBuffer(width, RowHeight),
		labels:         make(map[asm.LabelID]labelPos),
		unmatchedJumps: make(map[asm.LabelID]labelPos),
		log:            log,
	}

	if err := g.seedControlColor(); err != nil {
		return nil, err
	}
	for _, cmd := range prog.Cmds {
		if err := g.emit(cmd); err != nil {
			return nil, err
		}
	}
	return g.toGrid(), nil
}

// seedControlColor paints the fixed three-codel L-shaped seed that
// every generated program opens with, establishing the first region of
// the control color so the very first opcode delta has a predecessor
// to measure from.
func (g *gen) seedControlColor() error {
	edit, _, err := g.buf.allocate(3)
	if err != nil {
		return err
	}
	if err := edit.drawPixel(0, 0, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixel(0, 1, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixel(1, 1, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	edit.commit()
	g.buf.x += 2
	seeded := color.ControlColor
	g.buf.lastColor = &seeded
	return nil
}

func (g *gen) toGrid() *grid.Grid {
	out := grid.New(g.buf.width, g.buf.height)
	for y := 0; y < g.buf.height; y++ {
		for x := 0; x < g.buf.width; x++ {
			out.Set(x, y, g.buf.cells[g.buf.index(x, y)])
		}
	}
	return out
}

func (g *gen) emit(cmd asm.Cmd) error {
	switch cmd.Op {
	case asm.MPush:
		return g.emitPush(cmd.Value)
	case asm.MLabel:
		return g.emitLabel(cmd.Label)
	case asm.MJump:
		return g.emitJump(cmd.Label)
	case asm.MJumpIf:
		return g.emitJumpIf(cmd.Label)
	case asm.MStop:
		return g.emitStop()
	default:
		op, ok := mnemonicToCommand[cmd.Op]
		if !ok {
			return &TodoError{Label: "unsupported mnemonic in generator"}
		}
		return g.buf.drawCommand(op)
	}
}

// emitPush draws a region of cardinality n in the control color
// followed by the Push-opcode delta codel; the region is a
// w x RowFillHeight rectangle plus a partial column of the remainder.
func (g *gen) emitPush(n *big.Int) error {
	num := int(n.Int64())
	sansDangle := num - 1
	width := sansDangle / RowFillHeight
	extra := sansDangle % RowFillHeight

	hasColor := g.buf.lastColor != nil
	edit, _, err := g.buf.allocate(width + 5)
	if err != nil {
		return err
	}
	x := 0
	if hasColor {
		if err := edit.drawPixel(0, 1, color.WhiteColor); err != nil {
			edit.commit()
			return err
		}
		x = 1
	}
	if err := edit.drawRect(x, 1, width, RowFillHeight, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	x += width
	if extra > 0 {
		if err := edit.drawRect(x, 1, 1, extra, color.ControlColor); err != nil {
			edit.commit()
			return err
		}
		x++
	}
	if err := edit.drawPixel(x, 1, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	next := color.NextForOpcode(color.ControlColor, color.Push)
	if err := edit.drawPixel(x+1, 1, next); err != nil {
		edit.commit()
		return err
	}
	edit.commit()
	g.buf.x += x + 2
	g.buf.lastColor = &next
	return nil
}

func (g *gen) emitStop() error {
	edit, _, err := g.buf.allocate(4)
	if err != nil {
		return err
	}
	if err := edit.drawRect(0, 0, 4, 4, color.BlackColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixelOverwrite(0, 1, color.WhiteColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixelOverwrite(1, 1, color.WhiteColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixelOverwrite(2, 1, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixelOverwrite(2, 2, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	if err := edit.drawPixelOverwrite(1, 2, color.ControlColor); err != nil {
		edit.commit()
		return err
	}
	edit.commit()
	g.buf.x += 4
	g.buf.lastColor = nil
	return nil
}

// paintLabelGadget draws the shared L-notch landing shape used both for
// a label that closes a prior forward jump and for a bare forward
// label with no jump to meet yet.
func paintLabelGadget(edit *gadget) error {
	if err := edit.drawPixel(0, 1, color.WhiteColor); err != nil {
		return err
	}
	if err := edit.drawRect(1, 1, 2, 2, color.WhiteColor); err != nil {
		return err
	}
	if err := edit.drawPixel(1, 0, color.BlackColor); err != nil {
		return err
	}
	if err := edit.drawPixel(0, 2, color.BlackColor); err != nil {
		return err
	}
	return edit.drawPixel(2, 3, color.BlackColor)
}

// emitLabel closes out any jump that already referenced this label by
// wiring a vertical White corridor from the jump's column to this
// label's landing row; a label with no prior jump just reserves its
// column so later allocation routes around it.
func (g *gen) emitLabel(id asm.LabelID) error {
	if lp, ok := g.unmatchedJumps[id]; ok {
		if err := g.buf.advanceTo(lp.x - 2); err != nil {
			return err
		}
		edit := g.buf.allocateHere(4)
		if err := paintLabelGadget(edit); err != nil {
			edit.commit()
			return err
		}
		edit.commit()
		if err := g.buf.drawJump(lp.x, lp.y0+2, g.buf.y+1); err != nil {
			return err
		}
		g.labels[id] = labelPos{x: g.buf.x + 1, y0: g.buf.y + 1}
		g.buf.x += 3
		white := color.WhiteColor
		g.buf.lastColor = &white
		return nil
	}

	edit, _, err := g.buf.allocate(4)
	if err != nil {
		return err
	}
	if err := paintLabelGadget(edit); err != nil {
		edit.commit()
		return err
	}
	edit.commit()
	g.labels[id] = labelPos{x: g.buf.x + 1, y0: g.buf.y + 1}
	g.buf.jumpXs[g.buf.x+1] = true
	g.buf.x += 3
	white := color.WhiteColor
	g.buf.lastColor = &white
	return nil
}

// emitJump draws an unconditional jump gadget back to an already-seen
// label. Forward jumps (to a label not yet emitted) are unsupported by
// this layout engine and surface as a TodoError.
func (g *gen) emitJump(id asm.LabelID) error {
	lp, ok := g.labels[id]
	if !ok {
		return &TodoError{Label: labelName(id)}
	}
	if err := g.buf.advanceTo(lp.x - 1); err != nil {
		return err
	}
	edit := g.buf.allocateHere(4)
	paintErr := func() error {
		if err := edit.drawRect(1, 1, 2, 2, color.WhiteColor); err != nil {
			return err
		}
		if err := edit.drawPixel(0, 1, color.WhiteColor); err != nil {
			return err
		}
		if err := edit.drawPixel(3, 1, color.BlackColor); err != nil {
			return err
		}
		if err := edit.drawPixel(2, 3, color.BlackColor); err != nil {
			return err
		}
		return edit.drawPixel(0, 2, color.BlackColor)
	}()
	edit.commit()
	if paintErr != nil {
		return paintErr
	}
	if err := g.buf.drawJump(lp.x, lp.y0, g.buf.y+1); err != nil {
		return err
	}
	g.buf.x += 5
	g.buf.lastColor = nil
	return nil
}

// emitJumpIf draws a conditional jump: a Pointer-opcode delta codel
// that rotates the DP by the sign of the popped value, followed by the
// same vertical wire a plain jump uses. A JumpIf to a label not yet
// seen registers an unmatched reservation for a later emitLabel to
// close; a JumpIf to another still-unmatched jump's column is not
// supported by this layout engine.
func (g *gen) emitJumpIf(id asm.LabelID) error {
	if lp, ok := g.labels[id]; ok {
		if err := g.buf.advanceTo(lp.x - 1); err != nil {
			return err
		}
		edit := g.buf.allocateHere(5)
		next := color.NextForOpcode(color.ControlColor, color.Pointer)
		paintErr := func() error {
			if err := edit.drawRect(0, 1, 4, 2, color.WhiteColor); err != nil {
				return err
			}
			if err := edit.drawPixelOverwrite(2, 1, color.ControlColor); err != nil {
				return err
			}
			if err := edit.drawPixelOverwrite(3, 1, next); err != nil {
				return err
			}
			if err := edit.drawPixelOverwrite(0, 2, color.BlackColor); err != nil {
				return err
			}
			return edit.drawPixel(3, 3, color.BlackColor)
		}()
		edit.commit()
		if paintErr != nil {
			return paintErr
		}
		if err := g.buf.drawJump(lp.x, lp.y0, g.buf.y+1); err != nil {
			return err
		}
		g.buf.x += 4
		g.buf.lastColor = &next
		return nil
	}

	if lp, ok := g.unmatchedJumps[id]; ok {
		if err := g.buf.advanceTo(lp.x - 1); err != nil {
			return err
		}
		return &TodoError{Label: labelName(id)}
	}

	x := 0
	edit, lastColor, err := g.buf.allocate(4)
	if err != nil {
		return err
	}
	var base color.Color
	if lastColor == nil || *lastColor == color.WhiteColor {
		if err := edit.drawPixel(0, 1, color.ControlColor); err != nil {
			edit.commit()
			return err
		}
		x = 1
		base = color.ControlColor
	} else {
		base = *lastColor
	}
	next := color.NextForOpcode(base, color.Pointer)
	paintErr := func() error {
		if err := edit.drawPixel(x, 1, next); err != nil {
			return err
		}
		if err := edit.drawPixel(x, 2, next); err != nil {
			return err
		}
		return edit.drawPixel(x+1, 1, next)
	}()
	edit.commit()
	if paintErr != nil {
		return paintErr
	}
	g.buf.jumpXs[g.buf.x+x] = true
	g.unmatchedJumps[id] = labelPos{x: g.buf.x + x, y0: g.buf.y + 1}
	g.buf.x += x + 2
	g.buf.lastColor = &next
	return nil
}
