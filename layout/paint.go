package layout

import "github.com/lukehoban/go-browser/font"

// Instruction is the display list's tagged variant: DrawText or DrawRect.
// Every instruction exposes Top/Bottom so the viewport can cull it
// against the visible scroll range without inspecting its kind.
type Instruction interface {
	Top() float64
	Bottom() float64
}

// DrawText draws one word at an absolute position.
type DrawText struct {
	Left, Top_, Bottom_ float64
	Font                *font.Handle
	Color               string
	Text                string
}

func (d DrawText) Top() float64    { return d.Top_ }
func (d DrawText) Bottom() float64 { return d.Bottom_ }

// DrawRect fills an axis-aligned rectangle.
type DrawRect struct {
	Left, Top_, Right, Bottom_ float64
	Color                      string
}

func (d DrawRect) Top() float64    { return d.Top_ }
func (d DrawRect) Bottom() float64 { return d.Bottom_ }

// Paint walks a layout tree in preorder and returns its flattened display
// list, per spec.md §4.G.
func Paint(n Node) []Instruction {
	var out []Instruction
	paint(n, &out)
	return out
}

func paint(n Node, out *[]Instruction) {
	if b, ok := n.(*Block); ok {
		if bg := b.node.Style["background-color"]; bg != "" && bg != "transparent" {
			*out = append(*out, DrawRect{
				Left: b.x, Top_: b.y, Right: b.x + b.width, Bottom_: b.y + b.height,
				Color: bg,
			})
		}
		if b.mode == ModeInline {
			for _, w := range b.words {
				m := w.Font.Metrics()
				*out = append(*out, DrawText{
					Left: w.X, Top_: w.Y, Bottom_: w.Y + m.Ascent + m.Descent,
					Font: w.Font, Color: w.Color, Text: w.Text,
				})
			}
		}
	}
	for _, c := range n.Children() {
		paint(c, out)
	}
}
