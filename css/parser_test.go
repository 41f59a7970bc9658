package css

import "testing"

func TestParseSimpleRule(t *testing.T) {
	sheet := Parse("div { color: red; }")

	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	rule := sheet.Rules[0]
	tag, ok := rule.Selector.(Tag)
	if !ok || tag != "div" {
		t.Fatalf("expected Tag(div), got %#v", rule.Selector)
	}
	if rule.Body["color"] != "red" {
		t.Errorf("expected color:red, got %v", rule.Body)
	}
}

func TestParseMultipleDeclarations(t *testing.T) {
	sheet := Parse("p { color: blue; font-size: 16px; }")

	rule := sheet.Rules[0]
	if rule.Body["color"] != "blue" || rule.Body["font-size"] != "16px" {
		t.Errorf("unexpected body: %v", rule.Body)
	}
}

func TestParseDescendantSelector(t *testing.T) {
	sheet := Parse("body p { color: green; }")

	rule := sheet.Rules[0]
	chain, ok := rule.Selector.(Descendant)
	if !ok {
		t.Fatalf("expected Descendant, got %#v", rule.Selector)
	}
	if len(chain) != 2 || chain[0] != "body" || chain[1] != "p" {
		t.Fatalf("unexpected chain: %v", chain)
	}
}

func TestParseMultipleRules(t *testing.T) {
	sheet := Parse("div { color: red; }\np { color: blue; }")

	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
	}
}

func TestParseSkipsMalformedDeclaration(t *testing.T) {
	sheet := Parse("div { color red; font-size: 12px; }")

	rule := sheet.Rules[0]
	if rule.Body["font-size"] != "12px" {
		t.Errorf("expected font-size to survive a malformed sibling, got %v", rule.Body)
	}
	if _, ok := rule.Body["color"]; ok {
		t.Errorf("expected the malformed declaration to be dropped, got %v", rule.Body)
	}
}

func TestParseSkipsMalformedRule(t *testing.T) {
	sheet := Parse("!!! not a rule !!! { color: red; }\np { color: blue; }")

	if len(sheet.Rules) != 1 {
		t.Fatalf("expected the malformed rule to be skipped, got %d rules", len(sheet.Rules))
	}
	tag, ok := sheet.Rules[0].Selector.(Tag)
	if !ok || tag != "p" {
		t.Fatalf("expected surviving rule to be 'p', got %#v", sheet.Rules[0].Selector)
	}
}

func TestParseEmptyStylesheet(t *testing.T) {
	sheet := Parse("")
	if len(sheet.Rules) != 0 {
		t.Errorf("expected no rules, got %d", len(sheet.Rules))
	}
}

func TestParseHexColorAndPercentValues(t *testing.T) {
	sheet := Parse("div { color: #ff0000; width: 50%; }")

	rule := sheet.Rules[0]
	if rule.Body["color"] != "#ff0000" {
		t.Errorf("expected color #ff0000, got %v", rule.Body["color"])
	}
	if rule.Body["width"] != "50%" {
		t.Errorf("expected width 50%%, got %v", rule.Body["width"])
	}
}

func TestParseInlineStyle(t *testing.T) {
	decls := ParseInlineStyle("color: red; font-weight: bold")

	if decls["color"] != "red" || decls["font-weight"] != "bold" {
		t.Errorf("unexpected declarations: %v", decls)
	}
}

func TestWordRejectsEmpty(t *testing.T) {
	p := NewParser("{ color: red; }")
	if _, err := p.word(); err == nil {
		t.Error("expected an error parsing a word at '{'")
	}
}
