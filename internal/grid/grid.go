// Package grid converts between a codel grid (a rectangular array of
// program colors) and a raster image, where each codel is a K×K block
// of identical pixels ("codel size" K).
package grid

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"image/png"
	"io"

	"github.com/orezstudent/piet/internal/color"
)

// Grid is a rectangular, row-major array of codel colors.
type Grid struct {
	Width, Height int
	cells         []color.Color
}

// New returns a Width x Height grid filled with White.
func New(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, cells: make([]color.Color, width*height)}
	for i := range g.cells {
		g.cells[i] = color.WhiteColor
	}
	return g
}

func (g *Grid) index(x, y int) int { return y*g.Width + x }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the color at (x, y). Callers must check InBounds first;
// out-of-range coordinates are a programming error.
func (g *Grid) At(x, y int) color.Color {
	return g.cells[g.index(x, y)]
}

// Set writes the color at (x, y).
func (g *Grid) Set(x, y int, c color.Color) {
	g.cells[g.index(x, y)] = c
}

// Decode reads a PNG image and resamples it into a codel grid at the
// given codel size. Each K×K block of pixels must be uniform to map to
// a palette color; a non-uniform block maps to Other. Image dimensions
// that aren't an exact multiple of codelSize are rejected.
func Decode(r io.Reader, codelSize int) (*Grid, error) {
	if codelSize <= 0 {
		return nil, fmt.Errorf("grid: codel size must be positive, got %d", codelSize)
	}
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("grid: decode png: %w", err)
	}
	bounds := img.Bounds()
	pw, ph := bounds.Dx(), bounds.Dy()
	if pw%codelSize != 0 || ph%codelSize != 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d for codel size %d", pw, ph, codelSize)
	}
	width, height := pw/codelSize, ph/codelSize
	g := New(width, height)
	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			g.Set(cx, cy, sampleBlock(img, bounds.Min.X+cx*codelSize, bounds.Min.Y+cy*codelSize, codelSize))
		}
	}
	return g, nil
}

// sampleBlock inspects the K×K pixel block whose top-left corner is
// (px, py) and returns the uniform palette color, or Other if any pixel
// in the block differs from the first.
func sampleBlock(img image.Image, px, py, k int) color.Color {
	r0, g0, b0, _ := rgb8(img, px, py)
	first := color.FromRGB(r0, g0, b0)
	for dy := 0; dy < k; dy++ {
		for dx := 0; dx < k; dx++ {
			r, g, b, _ := rgb8(img, px+dx, py+dy)
			if color.FromRGB(r, g, b) != first {
				return color.OtherColor
			}
		}
	}
	return first
}

func rgb8(img image.Image, x, y int) (r, g, b, a uint8) {
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)
}

// Encode writes the grid as a PNG image, upscaling each codel to a
// codelSize x codelSize block of solid color. Other codels render as
// OtherSentinelRGB, a gray outside the 20-color palette.
func (g *Grid) Encode(w io.Writer, codelSize int) error {
	if codelSize <= 0 {
		return fmt.Errorf("grid: codel size must be positive, got %d", codelSize)
	}
	img := image.NewRGBA(image.Rect(0, 0, g.Width*codelSize, g.Height*codelSize))
	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			r, gr, b := blockRGB(g.At(cx, cy))
			px := stdcolor.RGBA{R: r, G: gr, B: b, A: 0xFF}
			for dy := 0; dy < codelSize; dy++ {
				for dx := 0; dx < codelSize; dx++ {
					img.Set(cx*codelSize+dx, cy*codelSize+dy, px)
				}
			}
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("grid: encode png: %w", err)
	}
	return nil
}

func blockRGB(c color.Color) (r, g, b uint8) {
	if rr, gg, bb, ok := color.ToRGB(c); ok {
		return rr, gg, bb
	}
	s := color.OtherSentinelRGB
	return s.R, s.G, s.B
}
