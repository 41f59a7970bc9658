package render

import (
	"github.com/lukehoban/go-browser/css"
	"github.com/lukehoban/go-browser/dom"
	"github.com/lukehoban/go-browser/html"
	"github.com/lukehoban/go-browser/layout"
	"github.com/lukehoban/go-browser/log"
	"github.com/lukehoban/go-browser/style"
)

const (
	initialWidth  = layout.DefaultWidth
	initialHeight = 600
	minWidth      = 400
	minHeight     = 250
)

// Viewport owns the scroll offset and viewport size, drives the A→B→C→E→
// F→G pipeline on Load, and re-runs F→G (layout and paint) on a
// width-changing Resize, per spec.md §4.H. It is not safe for concurrent use: spec.md §5 models a single
// event loop serializing load/scroll/resize callbacks.
type Viewport struct {
	canvas *PNGCanvas

	scroll float64
	width  float64
	height float64

	root        *dom.Node
	document    *layout.Document
	displayList []layout.Instruction
}

// NewViewport creates an empty viewport at the §6.3 initial size.
func NewViewport() *Viewport {
	v := &Viewport{width: initialWidth, height: initialHeight}
	v.canvas = NewPNGCanvas(initialWidth, initialHeight)
	return v
}

// Load fetches rawURL, parses it, resolves its linked stylesheets and the
// user-agent sheet, builds the layout tree and display list, and draws.
// It performs all network I/O synchronously, per spec.md §5.
func (v *Viewport) Load(rawURL string) error {
	u, err := dom.ParseURL(rawURL)
	if err != nil {
		return err
	}
	body, err := dom.Fetch(u)
	if err != nil {
		return err
	}

	root := html.Parse(body)

	rules := style.SortRules(style.DefaultUserAgentStylesheet(), v.linkedStylesheets(u, root))
	style.Resolve(root, rules)

	v.root = root
	v.scroll = 0
	v.relayout()
	v.Draw()
	return nil
}

// linkedStylesheets fetches and parses every <link rel=stylesheet> in
// root, relative to base. A failed fetch logs and is skipped, per
// spec.md §7 — it never aborts the whole load.
func (v *Viewport) linkedStylesheets(base *dom.URL, root *dom.Node) *css.Stylesheet {
	sheet := &css.Stylesheet{}
	for _, link := range findStylesheetLinks(root) {
		href, ok := link.Attributes["href"]
		if !ok {
			continue
		}
		linkURL, err := base.Resolve(href)
		if err != nil {
			log.Warnf("render: resolving stylesheet link %q: %v", href, err)
			continue
		}
		// FetchString re-parses the already-resolved URL and logs its own
		// Warn on failure, so a dead stylesheet link is skipped without a
		// duplicate warning here.
		body, err := dom.FetchString(linkURL.String())
		if err != nil {
			continue
		}
		parsed := css.Parse(body)
		sheet.Rules = append(sheet.Rules, parsed.Rules...)
	}
	return sheet
}

func findStylesheetLinks(node *dom.Node) []*dom.Node {
	var links []*dom.Node
	var walk func(n *dom.Node)
	walk = func(n *dom.Node) {
		if n.Type == dom.ElementNode && n.Data == "link" && n.Attributes["rel"] == "stylesheet" {
			links = append(links, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(node)
	return links
}

// relayout rebuilds the layout tree and display list at the current
// width. Called from Load and from a width-changing Resize.
func (v *Viewport) relayout() {
	v.document = layout.NewDocument(v.root, v.width)
	v.document.Layout()
	v.displayList = layout.Paint(v.document)
}

// Draw clears the canvas and executes every display-list instruction that
// is visible at the current scroll offset, per spec.md §4.H.
func (v *Viewport) Draw() {
	v.canvas.Clear()
	for _, instr := range v.displayList {
		if instr.Top() > v.scroll+v.height {
			continue
		}
		if instr.Bottom() < v.scroll {
			continue
		}
		switch i := instr.(type) {
		case layout.DrawText:
			v.canvas.CreateText(i.Left, i.Top()-v.scroll, i.Text, i.Font, i.Color)
		case layout.DrawRect:
			v.canvas.CreateRectangle(i.Left, i.Top()-v.scroll, i.Right, i.Bottom()-v.scroll, i.Color)
		}
	}
}

// maxScroll is the largest scroll offset that still shows content, per
// spec.md §4.H.
func (v *Viewport) maxScroll() float64 {
	if v.document == nil {
		return 0
	}
	m := v.document.Height() + 2*layout.VSTEP - v.height
	if m < 0 {
		return 0
	}
	return m
}

func (v *Viewport) clampScroll() {
	if v.scroll < 0 {
		v.scroll = 0
	}
	if max := v.maxScroll(); v.scroll > max {
		v.scroll = max
	}
}

// ScrollUp scrolls up by step, clamped at 0. There is no default step; the
// caller always supplies it (layout.ScrollStep is not applied here).
func (v *Viewport) ScrollUp(step float64) {
	v.scroll -= step
	v.clampScroll()
	v.Draw()
}

// ScrollDown scrolls down by step, clamped at maxScroll.
func (v *Viewport) ScrollDown(step float64) {
	v.scroll += step
	v.clampScroll()
	v.Draw()
}

// HandleMouseWheel dispatches a wheel delta to ScrollUp/ScrollDown per
// spec.md §4.H: a positive delta scrolls up, negative scrolls down.
func (v *Viewport) HandleMouseWheel(delta float64) {
	if delta > 0 {
		v.ScrollUp(delta)
	} else {
		v.ScrollDown(-delta)
	}
}

// Resize handles a width/height change: unchanged dimensions are a no-op;
// a width change triggers relayout and repaint; a height-only change
// redraws without relayout, per spec.md §4.H.
func (v *Viewport) Resize(width, height float64) {
	width = clampMin(width, minWidth)
	height = clampMin(height, minHeight)

	if width == v.width && height == v.height {
		return
	}

	widthChanged := width != v.width
	v.width, v.height = width, height
	v.canvas = NewPNGCanvas(int(width), int(height))

	if widthChanged && v.root != nil {
		v.relayout()
	}
	v.clampScroll()
	v.Draw()
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

// Canvas exposes the current backing canvas, e.g. for saving a snapshot.
func (v *Viewport) Canvas() *PNGCanvas { return v.canvas }

// Scroll reports the current scroll offset.
func (v *Viewport) Scroll() float64 { return v.scroll }

// Size reports the current viewport width and height.
func (v *Viewport) Size() (width, height float64) { return v.width, v.height }
