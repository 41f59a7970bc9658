// Package layout builds a tree of absolutely-positioned boxes from a
// styled DOM, in two phases: top-down construction and positioning,
// followed by a recursive pass that either lays out block children or
// performs an inline word-wrapping walk.
package layout

import (
	"strconv"
	"strings"

	"github.com/lukehoban/go-browser/dom"
	"github.com/lukehoban/go-browser/font"
)

// HSTEP and VSTEP are the document's fixed horizontal/vertical insets.
// ScrollStep is the keyboard scroll delta, in pixels. Layout does not
// consume it, and the viewport's ScrollUp/ScrollDown take their step as an
// argument rather than reading this constant.
const (
	HSTEP      = 13
	VSTEP      = 18
	ScrollStep = 100
)

// DefaultWidth is the initial viewport width (before the 2*HSTEP insets
// are subtracted), used before any resize event narrows or widens it.
const DefaultWidth = 800

// blockElements is the fixed set of tags that force block layout mode,
// per spec.md §4.F. There is no "display" property in this model.
var blockElements = map[string]bool{
	"html": true, "body": true, "article": true, "section": true, "nav": true,
	"aside": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hgroup": true, "header": true, "footer": true, "address": true, "p": true, "hr": true,
	"pre": true, "blockquote": true, "ol": true, "ul": true, "menu": true, "li": true,
	"dl": true, "dt": true, "dd": true, "figure": true, "figcaption": true, "main": true,
	"div": true, "table": true, "form": true, "fieldset": true, "legend": true,
	"details": true, "summary": true,
}

// Mode is a Block's layout mode.
type Mode int

const (
	ModeBlock Mode = iota
	ModeInline
)

// word is one entry in a Block's inline display list: a laid-out word
// positioned relative to the document, ready for the painter.
type word struct {
	X, Y  float64
	Text  string
	Font  *font.Handle
	Color string
}

// Node is the layout tree's tagged variant: Document or Block.
type Node interface {
	layout()
	X() float64
	Y() float64
	Width() float64
	Height() float64
	DOMNode() *dom.Node
	Children() []Node
}

// Document is the layout tree's root: a single Block wrapping the styled
// DOM root, offset by the document's fixed insets.
type Document struct {
	root  *dom.Node
	child *Block
	x, y  float64
	width float64
}

// NewDocument constructs the root of a layout tree for root, given the
// viewport width. The Block receives width-2*HSTEP, neither the raw
// viewport width nor a hard-coded 800.
func NewDocument(root *dom.Node, width float64) *Document {
	d := &Document{root: root, x: HSTEP, y: VSTEP, width: width - 2*HSTEP}
	d.child = newBlock(root, nil, d.width, d.x, d.y)
	return d
}

// Layout runs phase 2 (the recursive layout pass) starting from the
// document's single child.
func (d *Document) Layout() {
	d.child.layout()
}

// Height is the document's total content height, used both for scroll
// bounds and as the implicit height of the page.
func (d *Document) Height() float64 { return d.child.height }

func (d *Document) X() float64          { return d.x }
func (d *Document) Y() float64          { return d.y }
func (d *Document) Width() float64      { return d.width }
func (d *Document) DOMNode() *dom.Node  { return d.root }
func (d *Document) Children() []Node    { return []Node{d.child} }
func (d *Document) layout()             { d.Layout() }

// Block is a block- or inline-mode layout box over one DOM node.
type Block struct {
	node     *dom.Node
	parent   *Block
	previous *Block // previous in-flow sibling, for vertical stacking

	x, y, width, height float64
	mode                Mode

	children []*Block
	words    []word // populated only when mode == ModeInline

	// inline-walk state, live only while this block is being laid out
	cursorX, cursorY float64
	line             []pendingWord
}

type pendingWord struct {
	xRel  float64
	text  string
	font  *font.Handle
	color string
}

// newBlock constructs (but does not yet lay out) a Block for node,
// positioning it beneath previous's bottom edge if a previous in-flow
// sibling exists, else at the parent's own top. Since previous may not be
// laid out yet, layout re-derives y from previous once its height is known.
func newBlock(node *dom.Node, previous *Block, width, x, y float64) *Block {
	b := &Block{node: node, previous: previous, width: width, x: x}
	if previous != nil {
		b.y = previous.y + previous.height
	} else {
		b.y = y
	}
	b.mode = layoutMode(node)
	return b
}

// layoutMode classifies node per spec.md §4.F: a text node is always
// inline; an element with a block-element child is block; otherwise an
// element with any children is inline, and a childless element is block.
func layoutMode(node *dom.Node) Mode {
	if node.Type == dom.TextNode {
		return ModeInline
	}
	for _, c := range node.Children {
		if c.Type == dom.ElementNode && blockElements[c.Data] {
			return ModeBlock
		}
	}
	if len(node.Children) > 0 {
		return ModeInline
	}
	return ModeBlock
}

// layout performs phase 2: in block mode, construct and recurse into one
// child Block per non-<head> DOM child; in inline mode, walk the subtree
// placing words. Either way, height is computed after children are laid
// out.
func (b *Block) layout() {
	if b.previous != nil {
		b.y = b.previous.y + b.previous.height
	}

	switch b.mode {
	case ModeBlock:
		var previous *Block
		for _, child := range b.node.Children {
			if child.Type == dom.ElementNode && child.Data == "head" {
				continue
			}
			cb := newBlock(child, previous, b.width, b.x, b.y)
			cb.parent = b
			b.children = append(b.children, cb)
			previous = cb
		}
		for _, cb := range b.children {
			cb.layout()
		}
		b.height = 0
		for _, cb := range b.children {
			b.height += cb.height
		}

	case ModeInline:
		b.cursorX, b.cursorY = 0, 0
		b.line = nil
		b.inlineWalk(b.node)
		b.flush()
		b.height = b.cursorY
	}
}

// inlineWalk preorder-walks the DOM subtree rooted at node, splitting
// text into words and flushing the current line on <br>.
func (b *Block) inlineWalk(node *dom.Node) {
	switch node.Type {
	case dom.TextNode:
		for _, w := range strings.Fields(node.Data) {
			b.placeWord(w, node)
		}
	case dom.ElementNode:
		if node.Data == "br" {
			b.flush()
			return
		}
		for _, c := range node.Children {
			b.inlineWalk(c)
		}
	}
}

// placeWord looks up the font for source's computed style, measures w,
// wraps to a new line if it would overflow, and appends it to the
// pending line buffer.
func (b *Block) placeWord(w string, source *dom.Node) {
	f := fontForStyle(source.Style, textDecoration(source))
	width := f.Measure(w)

	if b.cursorX+float64(width) > b.width {
		b.flush()
	}

	color := source.Style["color"]
	b.line = append(b.line, pendingWord{xRel: b.cursorX, text: w, font: f, color: color})

	spaceWidth := f.Measure(" ")
	b.cursorX += float64(width) + float64(spaceWidth)
}

// flush performs two-phase baseline alignment over the pending line: find
// the tallest ascent/descent among its fonts, compute a shared baseline,
// and emit one word record per buffered entry at its absolute position.
func (b *Block) flush() {
	if len(b.line) == 0 {
		return
	}

	maxAscent, maxDescent := 0.0, 0.0
	for _, pw := range b.line {
		m := pw.font.Metrics()
		if m.Ascent > maxAscent {
			maxAscent = m.Ascent
		}
		if m.Descent > maxDescent {
			maxDescent = m.Descent
		}
	}

	baseline := b.cursorY + 1.25*maxAscent
	for _, pw := range b.line {
		x := b.x + pw.xRel
		y := b.y + baseline - pw.font.Metrics().Ascent
		b.words = append(b.words, word{X: x, Y: y, Text: pw.text, Font: pw.font, Color: pw.color})
	}

	b.cursorY = baseline + 1.25*maxDescent
	b.cursorX = 0
	b.line = nil
}

// fontForStyle derives a font.Key from a computed style map, per spec.md
// §4.F's word-placement rule: size is 0.75 of the resolved pixel
// font-size; decoration is the nearest ancestor element's text-decoration,
// passed in separately since it is not one of the inherited properties a
// text node's own Style map carries (see textDecoration).
func fontForStyle(computed map[string]string, decoration string) *font.Handle {
	weight := font.Normal
	if computed["font-weight"] == "bold" {
		weight = font.Bold
	}
	slant := font.Roman
	if computed["font-style"] == "italic" {
		slant = font.Italic
	}
	size := int(pixelSize(computed["font-size"]) * 0.75)
	underline := decoration == "underline"

	return font.Get(font.Key{Size: size, Weight: weight, Slant: slant, Underline: underline})
}

// textDecoration finds the nearest Element at or above source and returns
// its resolved text-decoration. A Text node never carries this property in
// its own Style map (it is not one of the inherited defaults), so this
// reads it from the text node's parent element, per spec.md §4.F. Only that
// nearest element is consulted: if it does not set text-decoration, the
// result is "" even when an element further up sets it.
func textDecoration(source *dom.Node) string {
	for n := source; n != nil; n = n.Parent {
		if n.Type == dom.ElementNode {
			return n.Style["text-decoration"]
		}
	}
	return ""
}

func pixelSize(v string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 16
	}
	return n
}

func (b *Block) X() float64         { return b.x }
func (b *Block) Y() float64         { return b.y }
func (b *Block) Width() float64     { return b.width }
func (b *Block) Height() float64    { return b.height }
func (b *Block) DOMNode() *dom.Node { return b.node }
func (b *Block) Children() []Node {
	out := make([]Node, len(b.children))
	for i, c := range b.children {
		out[i] = c
	}
	return out
}
