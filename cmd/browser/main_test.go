package main

import (
	"os"
	"path/filepath"
	"testing"
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

func TestRunWritesSnapshot(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hello world</p></body></html>")
	out := filepath.Join(t.TempDir(), "out.png")

	code := run([]string{"-out", out, url})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected snapshot to be written: %v", err)
	}
}

func TestRunFailsOnUnsupportedScheme(t *testing.T) {
	code := run([]string{"ftp://example.com/"})
	if code == 0 {
		t.Error("expected a nonzero exit code for an unsupported scheme")
	}
}

func TestRunAcceptsScrollAndResizeFlags(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hello world</p></body></html>")
	out := filepath.Join(t.TempDir(), "out.png")

	code := run([]string{"-out", out, "-scroll", "50", "-resize", "600x400", url})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunIgnoresMalformedScrollFlag(t *testing.T) {
	url := writeFixture(t, "<html><body><p>hi</p></body></html>")
	out := filepath.Join(t.TempDir(), "out.png")

	code := run([]string{"-out", out, "-scroll", "not-a-number", url})
	if code != 0 {
		t.Fatalf("expected a malformed --scroll to be logged and skipped, not fail the run, got code %d", code)
	}
}
