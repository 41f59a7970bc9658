// Package html implements a minimal, deliberately non-standard HTML parser.
//
// It is a single-pass character scan, not the HTML5 tokenizer/tree
// construction state machine: there is no separate tokenization phase, no
// insertion modes beyond the three implicit-tag rules below, and attribute
// parsing is whitespace-split rather than a proper HTML5 attribute state
// machine (quoted attribute values containing spaces are not handled
// correctly — this is a known, intentional limitation, not a bug to fix).
package html

import (
	"strings"

	"github.com/lukehoban/go-browser/dom"
)

// selfClosingTags cannot have children and are never pushed onto the open
// elements stack.
var selfClosingTags = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// headTags belong inside <head> when no explicit <head> or <body> is
// present; anything else triggers an implicit <body>.
var headTags = map[string]bool{
	"base":     true,
	"basefont": true,
	"bgsound":  true,
	"noscript": true,
	"link":     true,
	"meta":     true,
	"title":    true,
	"style":    true,
	"script":   true,
}

// Parser turns an HTML string into a DOM tree.
type Parser struct {
	input      string
	unfinished []*dom.Node // stack of open elements, root-first
}

// NewParser creates a parser over input.
func NewParser(input string) *Parser {
	return &Parser{input: input}
}

// Parse is a convenience wrapper around NewParser(input).Parse().
func Parse(input string) *dom.Node {
	return NewParser(input).Parse()
}

// Parse scans the input exactly once, buffering characters between '<' and
// '>' as a tag body and everything else as text, and returns the root of
// the resulting DOM tree (per spec.md §3, always an Element).
func (p *Parser) Parse() *dom.Node {
	var buf strings.Builder
	inTag := false

	for _, c := range p.input {
		switch {
		case c == '<':
			inTag = true
			if buf.Len() > 0 {
				p.addText(buf.String())
			}
			buf.Reset()
		case c == '>':
			inTag = false
			p.addTag(buf.String())
			buf.Reset()
		default:
			buf.WriteRune(c)
		}
	}
	if !inTag && buf.Len() > 0 {
		p.addText(buf.String())
	}

	return p.finish()
}

// addText appends a text node as a child of the innermost open element.
// Whitespace-only runs are dropped rather than producing empty text nodes.
func (p *Parser) addText(text string) {
	if isAllWhitespace(text) {
		return
	}
	p.implicitTags("")

	parent := p.unfinished[len(p.unfinished)-1]
	parent.AppendChild(dom.NewText(text))
}

// addTag processes one buffered tag body (without the angle brackets),
// e.g. "div", "img src=girl.jpg", or "/p".
func (p *Parser) addTag(tag string) {
	tagName, attrs := getAttributes(tag)
	if strings.HasPrefix(tagName, "!") {
		return // <!DOCTYPE html>, <!-- comments --> are dropped
	}

	p.implicitTags(tagName)

	switch {
	case strings.HasPrefix(tagName, "/"):
		if len(p.unfinished) == 1 {
			return // closing the implicit root has no parent to attach to
		}
		node := p.unfinished[len(p.unfinished)-1]
		p.unfinished = p.unfinished[:len(p.unfinished)-1]
		parent := p.unfinished[len(p.unfinished)-1]
		parent.AppendChild(node)

	case selfClosingTags[tagName]:
		node := dom.NewElement(tagName)
		for k, v := range attrs {
			node.SetAttribute(k, v)
		}
		parent := p.unfinished[len(p.unfinished)-1]
		parent.AppendChild(node)

	default:
		node := dom.NewElement(tagName)
		for k, v := range attrs {
			node.SetAttribute(k, v)
		}
		p.unfinished = append(p.unfinished, node)
	}
}

// finish closes any tags left open at end of input and returns the root.
func (p *Parser) finish() *dom.Node {
	if len(p.unfinished) == 0 {
		p.implicitTags("")
	}
	for len(p.unfinished) > 1 {
		node := p.unfinished[len(p.unfinished)-1]
		p.unfinished = p.unfinished[:len(p.unfinished)-1]
		parent := p.unfinished[len(p.unfinished)-1]
		parent.AppendChild(node)
	}
	return p.unfinished[0]
}

// getAttributes splits a tag body into its lowercased tag name and an
// attribute map, whitespace-separating attrpairs and stripping a single
// layer of surrounding quotes from values. It does not understand quoted
// values that themselves contain spaces — such a value is split across
// multiple "attributes", matching the original implementation.
func getAttributes(tag string) (string, map[string]string) {
	parts := strings.Fields(tag)
	if len(parts) == 0 {
		return "", map[string]string{}
	}
	tagName := strings.ToLower(parts[0])

	attrs := make(map[string]string, len(parts)-1)
	for _, pair := range parts[1:] {
		key, value, ok := strings.Cut(pair, "=")
		if ok {
			attrs[strings.ToLower(key)] = strings.Trim(value, `"'`)
		} else {
			attrs[strings.ToLower(pair)] = ""
		}
	}
	return tagName, attrs
}

// implicitTags inserts <html>, <head>, and </head> as needed so that every
// tree has a well-formed backbone even when the input omits them. It loops
// because inserting one implicit tag can make another necessary (e.g.
// inserting <html> when the stack is empty, then <head> or <body>).
func (p *Parser) implicitTags(tagName string) {
	for {
		var open []string
		for _, n := range p.unfinished {
			open = append(open, n.Data)
		}

		switch {
		case len(open) == 0 && tagName != "html":
			p.addTag("html")
		case equalStrings(open, []string{"html"}) && tagName != "head" && tagName != "body" && tagName != "/html":
			if headTags[tagName] {
				p.addTag("head")
			} else {
				p.addTag("body")
			}
		case equalStrings(open, []string{"html", "head"}) && tagName != "/head" && !headTags[tagName]:
			p.addTag("/head")
		default:
			return
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isAllWhitespace(s string) bool {
	for _, c := range s {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}
