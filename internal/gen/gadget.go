package gen

import "github.com/orezstudent/piet/internal/color"

// gadget groups a set of draw calls into one transaction: it edits a
// scratch copy of a rectangle of the parent buffer, and only commit()
// blits the scratch copy back. Any failed draw call poisons the
// gadget so commit() becomes a no-op, the Go equivalent of the source
// toolchain's poison-unless-committed Drop discipline, made explicit
// since Go has no destructor to run it implicitly.
type gadget struct {
	original *buffer
	edited   *buffer
	poisoned bool
	area     Rect
}

// newGadget opens a transaction over the parent's entire current
// extent.
func newGadget(b *buffer) *gadget {
	return newGadgetSlice(b, Rect{X: 0, Y: 0, Width: b.width, Height: b.height})
}

// newGadgetSlice opens a transaction over just area, the common case
// for a freshly allocated row-height rectangle.
func newGadgetSlice(b *buffer, area Rect) *gadget {
	return &gadget{original: b, edited: b.cloneSlice(area), area: area}
}

// commit blits the scratch copy back into the parent buffer unless the
// gadget was poisoned by a failed draw call; callers must call this
// exactly once after every gadget use, successful or not.
func (g *gadget) commit() {
	if !g.poisoned {
		g.original.blit(g.edited, g.area)
	}
}

func (g *gadget) poisonOnErr(err error) error {
	if err != nil {
		g.poisoned = true
	}
	return err
}

func (g *gadget) drawPixel(x, y int, c color.Color) error {
	return g.poisonOnErr(g.edited.drawPixel(x, y, c))
}

func (g *gadget) drawPixelOverwrite(x, y int, c color.Color) error {
	return g.poisonOnErr(g.edited.drawPixelOverwrite(x, y, c))
}

func (g *gadget) drawRect(left, top, width, height int, c color.Color) error {
	for x := left; x < left+width; x++ {
		for y := top; y < top+height; y++ {
			if err := g.drawPixel(x, y, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *gadget) drawHoriz(y int) error {
	for x := 0; x < g.edited.width; x++ {
		if err := g.drawPixel(x, y, color.WhiteColor); err != nil {
			return err
		}
	}
	return nil
}

// drawNewline paints the row-wrap U-turn gadget at (x,y): a vertical
// White corridor down the right edge of the row, a Black cap top and
// bottom, and a small Black/White landing notch that the next row's
// cursor resumes from at column 2.
func (g *gadget) drawNewline(x, y int) error {
	if err := g.drawRect(x, y, 1, RowHeight-2, color.WhiteColor); err != nil {
		return err
	}
	if err := g.drawHoriz(y + RowHeight - 2); err != nil {
		return err
	}
	if err := g.drawPixel(x+1, y, color.BlackColor); err != nil {
		return err
	}
	if err := g.drawPixel(x, y+RowHeight-1, color.BlackColor); err != nil {
		return err
	}
	if err := g.drawPixel(0, y+RowHeight-4, color.BlackColor); err != nil {
		return err
	}
	if err := g.drawPixel(2, y+RowHeight-3, color.BlackColor); err != nil {
		return err
	}
	if err := g.drawPixel(1, y+RowHeight+2, color.BlackColor); err != nil {
		return err
	}
	if err := g.drawRect(0, y+RowHeight-3, 2, 5, color.WhiteColor); err != nil {
		return err
	}
	return g.drawPixelOverwrite(0, y+RowHeight-1, color.BlackColor)
}
