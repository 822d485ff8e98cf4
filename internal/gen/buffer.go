// Package gen synthesizes a 2D colored-codel image from an assembled
// program: a layout engine that walks the sanitized command stream left
// to right, choosing codel colors as a color-delta from whatever codel
// preceded them, and wiring label/jump gadgets so that white-sliding and
// pointer rotation connect them correctly at execution time.
package gen

import "github.com/orezstudent/piet/internal/color"

// Rect is an axis-aligned region of codel coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// buffer is the generator's working canvas: a resizable grid of colors
// plus the cursor/bookkeeping state the layout passes thread through
// every draw call.
type buffer struct {
	width, height int
	cells         []color.Color

	lastColor *color.Color
	x, y      int
	jumpXs    map[int]bool
}

func newBuffer(width, height int) *buffer {
	cells := make([]color.Color, width*height)
	for i := range cells {
		cells[i] = color.Color{Kind: color.Other}
	}
	return &buffer{width: width, height: height, cells: cells, jumpXs: make(map[int]bool)}
}

// reserve grows the buffer downward by additionalHeight rows, filled
// with Other (anomaly) cells until painted over.
func (b *buffer) reserve(additionalHeight int) {
	b.height += additionalHeight
	for i := 0; i < b.width*additionalHeight; i++ {
		b.cells = append(b.cells, color.Color{Kind: color.Other})
	}
}

func (b *buffer) index(x, y int) int { return y*b.width + x }

// drawPixel paints (x,y) with c, requiring the existing cell to be
// either Other (unpainted) or already equal to c; any other existing
// color is a ColorMismatchError. A Black pixel that falls outside the
// buffer is silently accepted (the buffer's bottom/right edge is
// treated as implicitly Black), matching the layout's habit of drawing
// border gadgets slightly past the allocated rectangle.
func (b *buffer) drawPixel(x, y int, c color.Color) error {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		if c.Kind == color.Black {
			return nil
		}
		return &OutOfBoundsError{X: x, Y: y}
	}
	idx := b.index(x, y)
	existing := b.cells[idx]
	switch {
	case existing.Kind == color.Other:
		b.cells[idx] = c
	case existing == c:
		// already painted with the same color; no-op
	default:
		return &ColorMismatchError{Desired: c, Existing: existing, X: x, Y: y}
	}
	return nil
}

// drawPixelOverwrite paints (x,y) with c unconditionally, used for
// gadget details (border Black corners) that are allowed to replace an
// already-painted cell.
func (b *buffer) drawPixelOverwrite(x, y int, c color.Color) error {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		if c.Kind == color.Black {
			return nil
		}
		return &OutOfBoundsError{X: x, Y: y}
	}
	b.cells[b.index(x, y)] = c
	return nil
}

// cloneSlice extracts the rectangle area as a standalone buffer for a
// gadget's scratch copy.
func (b *buffer) cloneSlice(area Rect) *buffer {
	out := &buffer{width: area.Width, height: area.Height, jumpXs: make(map[int]bool)}
	out.cells = make([]color.Color, 0, area.Width*area.Height)
	for dy := area.Y; dy < area.Y+area.Height; dy++ {
		for dx := area.X; dx < area.X+area.Width; dx++ {
			out.cells = append(out.cells, b.cells[b.index(dx, dy)])
		}
	}
	return out
}

// blit copies source's cells into dest, overwriting whatever was there;
// this is the single atomic commit point for a gadget's scratch canvas.
func (b *buffer) blit(source *buffer, dest Rect) {
	src := 0
	for dy := dest.Y; dy < dest.Y+dest.Height; dy++ {
		for dx := dest.X; dx < dest.X+dest.Width; dx++ {
			if dx >= 0 && dy >= 0 && dx < b.width && dy < b.height {
				b.cells[b.index(dx, dy)] = source.cells[src]
			}
			src++
		}
	}
}
