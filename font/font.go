// Package font is the font service: given a (size, weight, slant,
// underline) request it returns an immutable handle that can measure text
// and report line metrics. It is the single source of truth for text
// dimensions shared by layout (to compute line breaks) and render (to
// actually draw the glyphs).
package font

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight and Slant are the only axes the browser's font model varies
// along; spec.md deliberately does not model font-family.
type Weight string
type Slant string

const (
	Normal Weight = "normal"
	Bold   Weight = "bold"

	Roman  Slant = "roman"
	Italic Slant = "italic"
)

// Key identifies one cache entry, per spec.md §6.4.
type Key struct {
	Size      int
	Weight    Weight
	Slant     Slant
	Underline bool
}

// Metrics reports a font's vertical extents, in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Handle is an immutable, process-wide-cached font reference.
type Handle struct {
	key  Key
	face font.Face
}

// Underline reports whether text drawn with this handle should be
// underlined; render, not layout, acts on it, but it travels with the
// handle since it is part of the cache key.
func (h *Handle) Underline() bool { return h.key.Underline }

// Face exposes the underlying golang.org/x/image/font.Face for render to
// draw with.
func (h *Handle) Face() font.Face { return h.face }

// Measure returns the pixel width text would occupy when drawn with h.
func (h *Handle) Measure(text string) int {
	if text == "" {
		return 0
	}
	drawer := &font.Drawer{Face: h.face}
	return drawer.MeasureString(text).Ceil()
}

// Metrics returns h's ascent/descent, in pixels.
func (h *Handle) Metrics() Metrics {
	m := h.face.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Ceil()),
		Descent: float64(m.Descent.Ceil()),
	}
}

var (
	goRegularFont, goBoldFont, goItalicFont, goBoldItalicFont *opentype.Font
	loadOnce                                                  sync.Once
	loadErr                                                   error

	cacheMu sync.Mutex
	cache   = make(map[Key]*Handle)
)

// loadGoFonts parses the embedded Go font family exactly once. These are
// the only typefaces the browser knows how to draw; font-family is
// otherwise unmodeled (spec.md Non-goals).
func loadGoFonts() error {
	loadOnce.Do(func() {
		var err error
		if goRegularFont, err = opentype.Parse(goregular.TTF); err != nil {
			loadErr = err
			return
		}
		if goBoldFont, err = opentype.Parse(gobold.TTF); err != nil {
			loadErr = err
			return
		}
		if goItalicFont, err = opentype.Parse(goitalic.TTF); err != nil {
			loadErr = err
			return
		}
		if goBoldItalicFont, err = opentype.Parse(gobolditalic.TTF); err != nil {
			loadErr = err
			return
		}
	})
	return loadErr
}

func selectFont(weight Weight, slant Slant) *opentype.Font {
	bold := weight == Bold
	italic := slant == Italic
	switch {
	case bold && italic:
		return goBoldItalicFont
	case bold:
		return goBoldFont
	case italic:
		return goItalicFont
	default:
		return goRegularFont
	}
}

// Get returns the cached handle for key, constructing and caching it on
// first use. Per spec.md §7, entries are never evicted; execution is
// single-threaded everywhere except this cache, which is guarded in case
// a future caller parallelizes layout.
func Get(key Key) *Handle {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if h, ok := cache[key]; ok {
		return h
	}

	h := &Handle{key: key, face: buildFace(key)}
	cache[key] = h
	return h
}

func buildFace(key Key) font.Face {
	if err := loadGoFonts(); err == nil {
		f := selectFont(key.Weight, key.Slant)
		if face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    float64(key.Size),
			DPI:     72,
			Hinting: font.HintingFull,
		}); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}
