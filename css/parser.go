// Package css implements a small, tolerant CSS parser: a stylesheet is
// parsed into an ordered list of (selector, declaration block) rules, with
// error recovery that skips to the next rule boundary rather than aborting
// the whole stylesheet.
package css

import (
	"fmt"
	"strings"
	"unicode"
)

// Declarations maps a lowercased property name to its raw value; a later
// assignment to the same property overwrites the earlier one. It is a plain
// Go map, so insertion order is not kept and iteration order is not defined.
type Declarations map[string]string

// Rule pairs a selector with the declaration block that applies when it
// matches.
type Rule struct {
	Selector Selector
	Body     Declarations
}

// Stylesheet is an ordered list of rules, in source order.
type Stylesheet struct {
	Rules []Rule
}

// Parser is a recursive-descent CSS parser over a rune slice index.
type Parser struct {
	css []rune
	pos int
}

// NewParser creates a parser over input.
func NewParser(input string) *Parser {
	return &Parser{css: []rune(input)}
}

// Parse parses input as a full stylesheet.
func Parse(input string) *Stylesheet {
	return NewParser(input).Parse()
}

func (p *Parser) done() bool { return p.pos >= len(p.css) }

// whitespace advances over any run of whitespace characters.
func (p *Parser) whitespace() {
	for !p.done() && unicode.IsSpace(p.css[p.pos]) {
		p.pos++
	}
}

// isWordChar reports whether c can appear in a CSS "word": an identifier,
// number, percentage, hex color, or ID/class selector.
func isWordChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '#' || c == '-' || c == '.' || c == '%'
}

// word consumes the longest run of word characters at the current
// position. It fails (returns an error) if it consumes nothing.
func (p *Parser) word() (string, error) {
	start := p.pos
	for !p.done() && isWordChar(p.css[p.pos]) {
		p.pos++
	}
	if p.pos <= start {
		return "", fmt.Errorf("css: expected a word at index %d", p.pos)
	}
	return string(p.css[start:p.pos]), nil
}

// literal asserts that s occurs at the current position and advances past
// it, or fails without consuming anything.
func (p *Parser) literal(s string) error {
	end := p.pos + len([]rune(s))
	if end > len(p.css) || string(p.css[p.pos:end]) != s {
		return fmt.Errorf("css: expected %q at index %d", s, p.pos)
	}
	p.pos = end
	return nil
}

// pair parses "word ws ':' ws word" into a lowercased property name and
// its raw value.
func (p *Parser) pair() (string, string, error) {
	prop, err := p.word()
	if err != nil {
		return "", "", err
	}
	p.whitespace()
	if err := p.literal(":"); err != nil {
		return "", "", err
	}
	p.whitespace()
	value, err := p.word()
	if err != nil {
		return "", "", err
	}
	return strings.ToLower(prop), value, nil
}

// ignoreUntil advances past characters until one of chars is next (without
// consuming it), returning that character, or -1 at end of input.
func (p *Parser) ignoreUntil(chars string) rune {
	for !p.done() {
		if strings.ContainsRune(chars, p.css[p.pos]) {
			return p.css[p.pos]
		}
		p.pos++
	}
	return -1
}

// body parses the interior of a declaration block, up to (but not
// consuming) the closing '}'. A malformed pair is skipped to the next ';'
// or '}' so the rest of the block still parses.
func (p *Parser) body() Declarations {
	pairs := make(Declarations)
	for !p.done() && p.css[p.pos] != '}' {
		prop, value, err := p.pair()
		if err == nil {
			pairs[prop] = value
			p.whitespace()
			err = p.literal(";")
		}
		if err != nil {
			switch p.ignoreUntil(";}") {
			case ';':
				p.literal(";")
				p.whitespace()
			default:
				return pairs
			}
			continue
		}
		p.whitespace()
	}
	return pairs
}

// selector parses a tag-name selector, optionally followed by
// whitespace-separated tag names forming a descendant chain (rightmost is
// the subject, per the source order parsed).
func (p *Parser) selector() (Selector, error) {
	first, err := p.word()
	if err != nil {
		return nil, err
	}
	var sel Selector = Tag(strings.ToLower(first))
	p.whitespace()

	var parts []Tag
	for !p.done() && p.css[p.pos] != '{' {
		tag, err := p.word()
		if err != nil {
			return nil, err
		}
		parts = append(parts, Tag(strings.ToLower(tag)))
		p.whitespace()
	}
	if len(parts) > 0 {
		chain := append([]Tag{sel.(Tag)}, parts...)
		sel = Descendant(chain)
	}
	return sel, nil
}

// Parse parses the whole input as a stylesheet, recovering from any
// malformed rule by skipping to its closing '}'.
func (p *Parser) Parse() *Stylesheet {
	sheet := &Stylesheet{}
	for !p.done() {
		p.whitespace()
		if p.done() {
			break
		}

		sel, err := p.parseRuleHeader()
		if err != nil {
			if p.ignoreUntil("}") == -1 {
				break
			}
			p.literal("}")
			p.whitespace()
			continue
		}

		body := p.body()
		p.literal("}")
		sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Body: body})
		p.whitespace()
	}
	return sheet
}

// parseRuleHeader parses "selector '{' ws" and returns the selector.
func (p *Parser) parseRuleHeader() (Selector, error) {
	sel, err := p.selector()
	if err != nil {
		return nil, err
	}
	if err := p.literal("{"); err != nil {
		return nil, err
	}
	p.whitespace()
	return sel, nil
}

// ParseInlineStyle parses the body of a style="..." attribute (no
// surrounding braces) into a declaration block.
func ParseInlineStyle(body string) Declarations {
	p := &Parser{css: []rune(body)}
	return p.body()
}
