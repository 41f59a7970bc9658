// Command browser loads a URL through the rendering pipeline and writes a
// PNG snapshot of the result, per spec.md §6.6.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lukehoban/go-browser/log"
	"github.com/lukehoban/go-browser/render"
)

const defaultURL = "http://example.com/"

// repeatFlag collects every occurrence of a repeated CLI flag, in order,
// letting --scroll/--resize drive a scripted sequence of viewport events
// without a real windowing event loop.
type repeatFlag []string

func (r *repeatFlag) String() string     { return strings.Join(*r, ",") }
func (r *repeatFlag) Set(v string) error { *r = append(*r, v); return nil }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("browser", flag.ContinueOnError)
	var scrolls, resizes repeatFlag
	out := fs.String("out", "snapshot.png", "path to write the rendered PNG snapshot")
	fs.Var(&scrolls, "scroll", "scroll down by this many pixels (repeatable, negative scrolls up)")
	fs.Var(&resizes, "resize", "resize the viewport to WxH (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	url := defaultURL
	if fs.NArg() > 0 {
		url = fs.Arg(0)
	}

	v := render.NewViewport()
	if err := v.Load(url); err != nil {
		log.Errorf("browser: loading %s: %v", url, err)
		return 1
	}

	for _, s := range scrolls {
		delta, err := strconv.ParseFloat(s, 64)
		if err != nil {
			log.Warnf("browser: ignoring malformed --scroll %q: %v", s, err)
			continue
		}
		if delta >= 0 {
			v.ScrollDown(delta)
		} else {
			v.ScrollUp(-delta)
		}
	}

	for _, r := range resizes {
		w, h, ok := parseSize(r)
		if !ok {
			log.Warnf("browser: ignoring malformed --resize %q, want WxH", r)
			continue
		}
		v.Resize(w, h)
	}

	if err := v.Canvas().SavePNG(*out); err != nil {
		log.Errorf("browser: saving snapshot: %v", err)
		return 1
	}

	w, h := v.Size()
	fmt.Printf("rendered %s at %.0fx%.0f (scroll=%.0f) to %s\n", url, w, h, v.Scroll(), *out)
	return 0
}

func parseSize(s string) (w, h float64, ok bool) {
	before, after, found := strings.Cut(s, "x")
	if !found {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(before, 64)
	h, err2 := strconv.ParseFloat(after, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}
