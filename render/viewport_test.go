package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lukehoban/go-browser/dom"
)

func writeFixture(t *testing.T, html string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return "file://" + path
}

func TestLoadBuildsDisplayList(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hello world</p></body></html>")

	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(v.displayList) == 0 {
		t.Fatal("expected a non-empty display list after Load")
	}
}

func TestScrollDownClampsToMaxScroll(t *testing.T) {
	var lines string
	for i := 0; i < 200; i++ {
		lines += "<p>line</p>"
	}
	url := writeFixture(t, "<html><body>"+lines+"</body></html>")

	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v.ScrollDown(1_000_000)
	if v.Scroll() != v.maxScroll() {
		t.Errorf("expected scroll to clamp at maxScroll=%v, got %v", v.maxScroll(), v.Scroll())
	}
}

func TestScrollUpClampsToZero(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hi</p></body></html>")
	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v.ScrollUp(1_000_000)
	if v.Scroll() != 0 {
		t.Errorf("expected scroll to clamp at 0, got %v", v.Scroll())
	}
}

func TestHandleMouseWheelDirections(t *testing.T) {
	var lines string
	for i := 0; i < 200; i++ {
		lines += "<p>line</p>"
	}
	url := writeFixture(t, "<html><body>"+lines+"</body></html>")

	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v.HandleMouseWheel(-50)
	afterDown := v.Scroll()
	if afterDown <= 0 {
		t.Fatalf("expected a negative wheel delta to scroll down, got %v", afterDown)
	}

	v.HandleMouseWheel(20)
	if v.Scroll() != afterDown-20 {
		t.Errorf("expected a positive wheel delta to scroll up by its magnitude, got %v want %v", v.Scroll(), afterDown-20)
	}
}

func TestResizeUnchangedIsNoop(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hi</p></body></html>")
	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := v.document

	v.Resize(initialWidth, initialHeight)
	if v.document != before {
		t.Error("expected an unchanged resize to be a no-op")
	}
}

func TestResizeWidthTriggersRelayout(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hello world this wraps differently at a narrower width</p></body></html>")
	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := v.document

	v.Resize(300, initialHeight)
	if v.document == before {
		t.Error("expected a width change to rebuild the layout tree")
	}
	if w, _ := v.Size(); w != 300 {
		t.Errorf("expected width to update to 300, got %v", w)
	}
}

func TestResizeHeightOnlyDoesNotRelayout(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hi</p></body></html>")
	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := v.document

	v.Resize(initialWidth, 300)
	if v.document != before {
		t.Error("expected a height-only resize not to rebuild the layout tree")
	}
	if _, h := v.Size(); h != 300 {
		t.Errorf("expected height to update to 300, got %v", h)
	}
}

func TestResizeClampsBelowMinimum(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hi</p></body></html>")
	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("Load: %v", err)
	}

	v.Resize(10, 10)
	w, h := v.Size()
	if w != minWidth || h != minHeight {
		t.Errorf("expected resize to clamp to minimums (%v,%v), got (%v,%v)", minWidth, minHeight, w, h)
	}
}

func TestLoadSkipsDeadStylesheetLink(t *testing.T) {
	url := writeFixture(t, `<html><head><link rel="stylesheet" href="missing.css"></head><body><p>hi</p></body></html>`)

	v := NewViewport()
	if err := v.Load(url); err != nil {
		t.Fatalf("expected a dead stylesheet link to be skipped, not fail Load: %v", err)
	}
	if len(v.displayList) == 0 {
		t.Fatal("expected a non-empty display list even with a missing linked stylesheet")
	}
}

func TestLoadAppliesLinkedStylesheet(t *testing.T) {
	dir := t.TempDir()
	cssPath := filepath.Join(dir, "style.css")
	if err := os.WriteFile(cssPath, []byte("p { color: red; }"), 0644); err != nil {
		t.Fatalf("writing stylesheet fixture: %v", err)
	}
	htmlPath := filepath.Join(dir, "page.html")
	page := `<html><head><link rel="stylesheet" href="file://` + cssPath + `"></head><body><p>hi</p></body></html>`
	if err := os.WriteFile(htmlPath, []byte(page), 0644); err != nil {
		t.Fatalf("writing html fixture: %v", err)
	}

	v := NewViewport()
	if err := v.Load("file://" + htmlPath); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var findP func(n *dom.Node) *dom.Node
	findP = func(n *dom.Node) *dom.Node {
		if n.Type == dom.ElementNode && n.Data == "p" {
			return n
		}
		for _, c := range n.Children {
			if f := findP(c); f != nil {
				return f
			}
		}
		return nil
	}
	p := findP(v.root)
	if p == nil {
		t.Fatal("expected to find <p> in the parsed tree")
	}
	if p.Style["color"] != "red" {
		t.Errorf("expected the linked stylesheet to apply color:red, got %v", p.Style["color"])
	}
}

func TestLoadRebuildsFromScratch(t *testing.T) {
	firstURL := writeFixture(t, "<html><body><p>first</p></body></html>")
	secondURL := writeFixture(t, "<html><body><p>second page with different content</p></body></html>")

	v := NewViewport()
	if err := v.Load(firstURL); err != nil {
		t.Fatalf("Load: %v", err)
	}
	v.ScrollDown(50)

	if err := v.Load(secondURL); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.Scroll() != 0 {
		t.Errorf("expected a fresh Load to reset scroll, got %v", v.Scroll())
	}
}
