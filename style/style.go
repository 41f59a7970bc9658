// Package style implements the cascade: matching CSS rules against DOM
// nodes, resolving inheritance, and writing the result into each node's
// computed style map.
package style

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lukehoban/go-browser/css"
	"github.com/lukehoban/go-browser/dom"
)

// inheritedDefaults is the fixed table of properties every node inherits
// from its parent (or takes this default for, at the root).
var inheritedDefaults = map[string]string{
	"font-size":   "16px",
	"font-style":  "normal",
	"font-weight": "normal",
	"color":       "black",
}

// SortRules merges the user-agent stylesheet with a page stylesheet into a
// single cascade order: user-agent rules first (so they are overridden by
// page rules of equal specificity), then a stable sort by ascending
// specificity so source order breaks ties among equal-specificity rules.
func SortRules(userAgent, page *css.Stylesheet) []css.Rule {
	rules := make([]css.Rule, 0, len(userAgent.Rules)+len(page.Rules))
	rules = append(rules, userAgent.Rules...)
	rules = append(rules, page.Rules...)

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Selector.Priority() < rules[j].Selector.Priority()
	})
	return rules
}

// Resolve walks root in preorder and populates every node's Style map, per
// the cascade: inherited defaults, then matching rules in the order given
// (rules is expected in SortRules' ascending-specificity order; Resolve does
// not sort it), then an inline style="" overlay, then percentage font-size
// resolution against the parent's already-resolved size.
func Resolve(root *dom.Node, rules []css.Rule) {
	resolve(root, rules, nil)
}

func resolve(node *dom.Node, rules []css.Rule, parent *dom.Node) {
	node.Style = make(map[string]string, len(inheritedDefaults))

	for prop, def := range inheritedDefaults {
		if parent != nil {
			if v, ok := parent.Style[prop]; ok {
				node.Style[prop] = v
				continue
			}
		}
		node.Style[prop] = def
	}

	if node.Type == dom.ElementNode {
		for _, rule := range rules {
			if rule.Selector.Matches(node) {
				for prop, val := range rule.Body {
					node.Style[prop] = val
				}
			}
		}

		if styleAttr := node.GetAttribute("style"); styleAttr != "" {
			for prop, val := range css.ParseInlineStyle(styleAttr) {
				node.Style[prop] = val
			}
		}
	}

	resolveFontSizePercentage(node, parent)

	for _, child := range node.Children {
		resolve(child, rules, node)
	}
}

// resolveFontSizePercentage rewrites a "<n>%" font-size into an absolute
// "<px>px" value, computed against the parent's resolved font-size (or the
// 16px default when there is no parent). This must happen before
// recursing into children so the resolved value, not the percentage, is
// what gets inherited.
func resolveFontSizePercentage(node *dom.Node, parent *dom.Node) {
	size := node.Style["font-size"]
	if !strings.HasSuffix(size, "%") {
		return
	}

	parentPx := 16.0
	if parent != nil {
		parentPx = pixelValue(parent.Style["font-size"])
	}

	pct, err := strconv.ParseFloat(strings.TrimSuffix(size, "%"), 64)
	if err != nil {
		return
	}
	node.Style["font-size"] = strconv.FormatFloat(parentPx*pct/100, 'f', 1, 64) + "px"
}

// pixelValue extracts the leading numeric prefix of a "<n>px" value.
func pixelValue(size string) float64 {
	numeric := strings.TrimSuffix(size, "px")
	v, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 16.0
	}
	return v
}
