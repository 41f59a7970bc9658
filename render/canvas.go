// Package render implements the canvas backend and viewport the painter's
// display list is drawn onto, per spec.md §4.H and §6.2.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/lukehoban/go-browser/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// PNGCanvas is the Canvas backend spec.md §6.2 treats as an external
// windowing collaborator, narrowed to an in-memory image.RGBA: CreateText
// and CreateRectangle queue drawing into the backing image immediately
// (there is no deferred command list to retain), and Clear wipes it.
type PNGCanvas struct {
	Width, Height int
	img           *image.RGBA
}

// NewPNGCanvas creates a canvas of the given pixel dimensions.
func NewPNGCanvas(width, height int) *PNGCanvas {
	c := &PNGCanvas{Width: width, Height: height}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.Clear()
	return c
}

// Clear wipes all pending drawings, filling the canvas white.
func (c *PNGCanvas) Clear() {
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			c.img.SetRGBA(x, y, white)
		}
	}
}

// CreateText draws text at (x, y) with anchor "nw" (y is the top of the
// glyph box, not the baseline) using f, per spec.md §6.2.
func (c *PNGCanvas) CreateText(x, y float64, text string, f *font.Handle, colorName string) {
	col := parseColor(colorName)
	m := f.Metrics()

	drawer := &xfont.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: f.Face(),
		Dot: fixed.Point26_6{
			X: fixed.I(int(x)),
			Y: fixed.I(int(y + m.Ascent)),
		},
	}
	drawer.DrawString(text)

	if f.Underline() {
		underlineY := int(y+m.Ascent) + 2
		c.fillRect(int(x), underlineY, f.Measure(text), 1, col)
	}
}

// CreateRectangle fills the rectangle [x1,y1]-[x2,y2] with color, per
// spec.md §6.2.
func (c *PNGCanvas) CreateRectangle(x1, y1, x2, y2 float64, colorName string) {
	col := parseColor(colorName)
	c.fillRect(int(x1), int(y1), int(x2-x1), int(y2-y1), col)
}

func (c *PNGCanvas) fillRect(x, y, width, height int, col color.RGBA) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			px, py := x+dx, y+dy
			if px >= 0 && px < c.Width && py >= 0 && py < c.Height {
				c.img.SetRGBA(px, py, col)
			}
		}
	}
}

// Image returns the canvas's backing image.
func (c *PNGCanvas) Image() image.Image { return c.img }

// SavePNG writes the canvas to filename as a PNG.
func (c *PNGCanvas) SavePNG(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("render: creating %s: %w", filename, err)
	}
	if err := png.Encode(file, c.img); err != nil {
		_ = file.Close()
		return fmt.Errorf("render: encoding PNG to %s: %w", filename, err)
	}
	return file.Close()
}

// parseColor resolves a CSS color keyword or #hex literal to color.RGBA,
// per CSS 2.1 §4.3.6. Unknown values default to black.
func parseColor(value string) color.RGBA {
	value = strings.TrimSpace(strings.ToLower(value))

	if col, ok := namedColors[value]; ok {
		return col
	}
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	return color.RGBA{0, 0, 0, 255}
}

var namedColors = map[string]color.RGBA{
	"black": {0, 0, 0, 255}, "white": {255, 255, 255, 255},
	"red": {255, 0, 0, 255}, "green": {0, 128, 0, 255}, "blue": {0, 0, 255, 255},
	"yellow": {255, 255, 0, 255}, "cyan": {0, 255, 255, 255}, "magenta": {255, 0, 255, 255},
	"gray": {128, 128, 128, 255}, "grey": {128, 128, 128, 255}, "silver": {192, 192, 192, 255},
	"maroon": {128, 0, 0, 255}, "navy": {0, 0, 128, 255}, "olive": {128, 128, 0, 255},
	"purple": {128, 0, 128, 255}, "teal": {0, 128, 128, 255}, "orange": {255, 165, 0, 255},
	"orangered": {255, 69, 0, 255}, "lime": {0, 255, 0, 255}, "transparent": {0, 0, 0, 0},
}

func parseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	switch len(hex) {
	case 3:
		r = hexPairFromNibble(hex[0])
		g = hexPairFromNibble(hex[1])
		b = hexPairFromNibble(hex[2])
	case 6:
		if v, err := strconv.ParseUint(hex[0:2], 16, 8); err == nil {
			r = uint8(v)
		}
		if v, err := strconv.ParseUint(hex[2:4], 16, 8); err == nil {
			g = uint8(v)
		}
		if v, err := strconv.ParseUint(hex[4:6], 16, 8); err == nil {
			b = uint8(v)
		}
	}
	return color.RGBA{r, g, b, 255}
}

func hexPairFromNibble(c byte) uint8 {
	v, err := strconv.ParseUint(string(c)+string(c), 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}
