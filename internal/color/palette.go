package color

import stdcolor "image/color"

// rgb is a convenience constructor for the palette table below.
func rgb(r, g, b uint8) stdcolor.RGBA {
	return stdcolor.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// paletteEntry pairs a Color with its fixed RGB triple.
type paletteEntry struct {
	color Color
	rgb   stdcolor.RGBA
}

// palette lists the full 20-entry table: for Light, non-peaked channels
// floor at 0xC0 and peaked ones hit 0xFF; for Normal, floor is 0x00 and
// peak is 0xFF; for Dark, floor is 0x00 and peak is 0xC0. This mirrors
// the fixed literal table in the external interface rather than
// deriving it arithmetically, since the mapping is a fixed constant,
// not a computation.
var palette = [...]paletteEntry{
	{WhiteColor, rgb(0xFF, 0xFF, 0xFF)},
	{BlackColor, rgb(0x00, 0x00, 0x00)},

	{LightRed, rgb(0xFF, 0xC0, 0xC0)},
	{PlainRed, rgb(0xFF, 0x00, 0x00)},
	{DarkRed, rgb(0xC0, 0x00, 0x00)},

	{LightYellow, rgb(0xFF, 0xFF, 0xC0)},
	{PlainYellow, rgb(0xFF, 0xFF, 0x00)},
	{DarkYellow, rgb(0xC0, 0xC0, 0x00)},

	{LightGreen, rgb(0xC0, 0xFF, 0xC0)},
	{PlainGreen, rgb(0x00, 0xFF, 0x00)},
	{DarkGreen, rgb(0x00, 0xC0, 0x00)},

	{LightCyan, rgb(0xC0, 0xFF, 0xFF)},
	{PlainCyan, rgb(0x00, 0xFF, 0xFF)},
	{DarkCyan, rgb(0x00, 0xC0, 0xC0)},

	{LightBlue, rgb(0xC0, 0xC0, 0xFF)},
	{PlainBlue, rgb(0x00, 0x00, 0xFF)},
	{DarkBlue, rgb(0x00, 0x00, 0xC0)},

	{LightMagenta, rgb(0xFF, 0xC0, 0xFF)},
	{PlainMagenta, rgb(0xFF, 0x00, 0xFF)},
	{DarkMagenta, rgb(0xC0, 0x00, 0xC0)},
}

var rgbToColor = func() map[stdcolor.RGBA]Color {
	m := make(map[stdcolor.RGBA]Color, len(palette))
	for _, e := range palette {
		m[e.rgb] = e.color
	}
	return m
}()

var colorToRGB = func() map[Color]stdcolor.RGBA {
	m := make(map[Color]stdcolor.RGBA, len(palette))
	for _, e := range palette {
		m[e.color] = e.rgb
	}
	return m
}()

// OtherSentinelRGB is the RGB value used to render an Other codel when
// writing an image. It deliberately falls outside the 20-color palette
// and outside Black/White.
var OtherSentinelRGB = rgb(0x7F, 0x7F, 0x7F)

// FromRGB maps a 24-bit color to its palette Color, or Other if the
// triple doesn't match any of the 20 entries. Alpha is ignored by
// callers; grid sampling is expected to have already rejected
// non-opaque pixels upstream if that distinction matters.
func FromRGB(r, g, b uint8) Color {
	if c, ok := rgbToColor[rgb(r, g, b)]; ok {
		return c
	}
	return OtherColor
}

// ToRGB returns the palette RGB triple for c. It fails (ok=false) for
// Other, which has no canonical RGB representation.
func ToRGB(c Color) (r, g, b uint8, ok bool) {
	v, found := colorToRGB[c]
	if !found {
		return 0, 0, 0, false
	}
	return v.R, v.G, v.B, true
}
