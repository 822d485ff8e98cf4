package gen

import "github.com/orezstudent/piet/internal/color"

// allocate reserves a width x RowHeight rectangle at the cursor,
// wrapping to a new row (via a newline gadget) if it would overflow the
// buffer's width, and routing around any reserved jump columns that
// fall inside it by painting White and nudging the cursor forward. It
// gives up after allocAttempts retries rather than looping forever.
func (b *buffer) allocate(width int) (*gadget, *color.Color, error) {
	attempts := 0
	for attempts < allocAttempts {
		if b.x+width >= b.width {
			b.reserve(RowHeight)
			x, y := b.x, b.y
			edit := newGadget(b)
			err := edit.drawNewline(x, y+1)
			edit.commit()
			if err != nil {
				return nil, nil, err
			}
			b.x = 2
			b.y += RowHeight
			white := color.WhiteColor
			b.lastColor = &white
		}

		idx := -1
		for w := width - 1; w >= 0; w-- {
			x := w + b.x
			if b.jumpXs[x] {
				idx = x
				break
			}
		}
		if idx < 0 {
			break
		}
		x, y := b.x, b.y
		edit := newGadget(b)
		err := edit.drawRect(x, y+1, idx-x+1, 1, color.WhiteColor)
		edit.commit()
		if err != nil {
			return nil, nil, err
		}
		b.x = idx + 1
		white := color.WhiteColor
		b.lastColor = &white
		attempts++
	}
	if attempts >= allocAttempts {
		return nil, nil, &AllocationError{}
	}

	area := Rect{X: b.x, Y: b.y, Width: width, Height: RowHeight}
	lastColor := b.lastColor
	return newGadgetSlice(b, area), lastColor, nil
}

// allocateHere reserves a width x RowHeight rectangle at the cursor
// without any row-wrap or jump-column routing, used when the caller
// already knows exactly where a gadget must land (a matched label or
// jump target).
func (b *buffer) allocateHere(width int) *gadget {
	area := Rect{X: b.x, Y: b.y, Width: width, Height: RowHeight}
	return newGadgetSlice(b, area)
}

// advanceTo fast-forwards the cursor to column toX, painting a White
// corridor along the way (wrapping to a new row first if toX lies
// behind the current cursor).
func (b *buffer) advanceTo(toX int) error {
	doDraw := b.lastColor != nil
	if toX < b.x {
		b.reserve(RowHeight)
		x, y := b.x, b.y
		if doDraw {
			edit := newGadget(b)
			err := edit.drawNewline(x, y+1)
			edit.commit()
			if err != nil {
				return err
			}
		}
		b.x = 2
		b.y += RowHeight
	}
	x, y := b.x, b.y
	dist := toX - x
	if doDraw {
		edit := newGadget(b)
		err := edit.drawRect(x, y+1, dist, 1, color.WhiteColor)
		edit.commit()
		if err != nil {
			return err
		}
	}
	b.x += dist
	return nil
}

// drawJump paints the one-codel-wide vertical White wire connecting a
// jump's origin row to a label's landing row.
func (b *buffer) drawJump(x, y0, y1 int) error {
	edit := newGadget(b)
	err := edit.drawRect(x, y0, 1, y1-y0, color.WhiteColor)
	edit.commit()
	return err
}

// drawCommand emits a single data-opcode codel: a control-color seed
// codel if the cursor isn't already sitting on a program color, followed
// by the color-delta codel for cmd.
func (b *buffer) drawCommand(cmd color.Command) error {
	x := 0
	edit, lastColor, err := b.allocate(3)
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
	next := color.NextForOpcode(base, cmd)
	if err := edit.drawPixel(x, 1, next); err != nil {
		edit.commit()
		return err
	}
	edit.commit()
	b.x += x + 1
	b.lastColor = &next
	return nil
}
