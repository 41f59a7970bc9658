package css

import "github.com/lukehoban/go-browser/dom"

// Selector matches a DOM node and reports its cascade specificity.
type Selector interface {
	Matches(n *dom.Node) bool
	Priority() int
}

// Tag matches an Element by its lowercased tag name. Specificity 1.
type Tag string

func (t Tag) Matches(n *dom.Node) bool {
	return n.Type == dom.ElementNode && n.Data == string(t)
}

func (t Tag) Priority() int { return 1 }

// Descendant matches a chain of ancestor tags, rightmost first (the
// subject). Specificity is the sum of its parts' specificities.
type Descendant []Tag

// Matches walks the chain right to left while walking up the DOM from n,
// advancing the chain index whenever the current ancestor matches the
// current part. It succeeds once every part has matched, and fails if the
// ancestor chain runs out first — linear in depth × len(d), not the
// quadratic nested-pair form.
func (d Descendant) Matches(n *dom.Node) bool {
	i := len(d) - 1
	node := n
	for i >= 0 && node != nil {
		if d[i].Matches(node) {
			i--
		}
		node = node.Parent
	}
	return i < 0
}

func (d Descendant) Priority() int {
	total := 0
	for _, t := range d {
		total += t.Priority()
	}
	return total
}
