package dom

import (
	"bufio"
	"net"
	"os"
	"strings"
	"testing"
)

// serveOnce starts a one-shot TCP server that writes response verbatim to
// the first connection it accepts, and returns its address.
func serveOnce(t *testing.T, response string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		defer ln.Close()
		// Drain the request line and headers before replying.
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil || strings.TrimRight(line, "\r\n") == "" {
				break
			}
		}
		conn.Write([]byte(response))
	}()
	return ln.Addr().String()
}

func TestFetchHTTP(t *testing.T) {
	addr := serveOnce(t, "HTTP/1.0 200 OK\r\nContent-Type: text/html\r\n\r\nhello")
	host, port, _ := strings.Cut(addr, ":")
	u := &URL{Scheme: "http", Host: host, Path: "/"}
	var p int
	for _, c := range port {
		p = p*10 + int(c-'0')
	}
	u.Port = p

	body, err := Fetch(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "hello" {
		t.Errorf("expected body 'hello', got %q", body)
	}
}

func TestFetchRejectsTransferEncoding(t *testing.T) {
	addr := serveOnce(t, "HTTP/1.0 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n")
	host, port, _ := strings.Cut(addr, ":")
	u := &URL{Scheme: "http", Host: host, Path: "/"}
	var p int
	for _, c := range port {
		p = p*10 + int(c-'0')
	}
	u.Port = p

	if _, err := Fetch(u); err == nil {
		t.Error("expected error for transfer-encoding header")
	}
}

func TestFetchRejectsContentEncoding(t *testing.T) {
	addr := serveOnce(t, "HTTP/1.0 200 OK\r\nContent-Encoding: gzip\r\n\r\nbinary")
	host, port, _ := strings.Cut(addr, ":")
	u := &URL{Scheme: "http", Host: host, Path: "/"}
	var p int
	for _, c := range port {
		p = p*10 + int(c-'0')
	}
	u.Port = p

	if _, err := Fetch(u); err == nil {
		t.Error("expected error for content-encoding header")
	}
}

func TestFetchFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.html")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer f.Close()
	f.WriteString("<html><body>hi</body></html>")

	u := &URL{Scheme: "file", Path: f.Name()}
	body, err := Fetch(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "<html><body>hi</body></html>" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetchStringParsesAndFetches(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.css")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer f.Close()
	f.WriteString("p { color: red; }")

	body, err := FetchString("file://" + f.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "p { color: red; }" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetchStringReturnsErrorOnUnsupportedScheme(t *testing.T) {
	if _, err := FetchString("ftp://example.com/style.css"); err == nil {
		t.Error("expected an error for an unsupported scheme")
	}
}

func TestFetchStringReturnsErrorOnMissingFile(t *testing.T) {
	if _, err := FetchString("file:///no/such/file.css"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
