package dom

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/lukehoban/go-browser/log"
)

// Fetch retrieves the document body at u, per spec.md §6.1.
//
// For http/https it opens a raw TCP (or TLS, with SNI) connection, sends a
// bare HTTP/1.0 GET, and reads the status line, headers, and body by hand —
// deliberately not net/http, which would transparently decode the very
// transfer/content encodings this must instead refuse. For file it reads
// the path as UTF-8.
func Fetch(u *URL) (string, error) {
	if u.Scheme == "file" {
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return "", fmt.Errorf("dom: reading file %q: %w", u.Path, err)
		}
		return string(data), nil
	}

	addr := fmt.Sprintf("%s:%d", u.Host, u.Port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("dom: connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	if u.Scheme == "https" {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: u.Host})
		if err := tlsConn.Handshake(); err != nil {
			return "", fmt.Errorf("dom: TLS handshake with %s: %w", u.Host, err)
		}
		conn = tlsConn
	}

	request := "GET " + u.Path + " HTTP/1.0\r\n" +
		"Host: " + u.Host + "\r\n" +
		"\r\n"
	if _, err := io.WriteString(conn, request); err != nil {
		return "", fmt.Errorf("dom: sending request to %s: %w", addr, err)
	}

	reader := bufio.NewReader(conn)

	statusLine, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("dom: reading status line from %s: %w", addr, err)
	}
	_ = statusLine // version, status code, reason — not inspected further

	headers := make(map[string]string)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("dom: reading headers from %s: %w", addr, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	if _, ok := headers["transfer-encoding"]; ok {
		return "", fmt.Errorf("dom: chunked transfer encoding is not supported")
	}
	if _, ok := headers["content-encoding"]; ok {
		return "", fmt.Errorf("dom: content encoding is not supported")
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("dom: reading body from %s: %w", addr, err)
	}

	return string(body), nil
}

// FetchString is Fetch preceded by URL parsing, logging the failure at Warn
// level and returning it — callers that can tolerate a missing linked
// resource (e.g. a <link rel=stylesheet>) use this to skip and continue
// per spec.md §7, rather than treating the error as fatal.
func FetchString(rawURL string) (string, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		log.Warnf("dom: %v", err)
		return "", err
	}
	body, err := Fetch(u)
	if err != nil {
		log.Warnf("dom: %v", err)
		return "", err
	}
	return body, nil
}
