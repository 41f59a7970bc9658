package style

import "github.com/lukehoban/go-browser/css"

// defaultUserAgentCSS covers only the properties the style resolver,
// layout builder, and painter actually read: the four inherited
// properties (font-size, font-style, font-weight, color), plus
// text-decoration and background-color. There is no "display" property —
// layout mode is classified structurally, from the fixed block-elements
// set (see the layout package), not from CSS. Font sizes are expressed as
// percentages, the only relative unit the style resolver understands.
const defaultUserAgentCSS = `
h1 { font-size: 200%; font-weight: bold; }
h2 { font-size: 150%; font-weight: bold; }
h3 { font-size: 117%; font-weight: bold; }
h4 { font-size: 100%; font-weight: bold; }
h5 { font-size: 83%; font-weight: bold; }
h6 { font-size: 67%; font-weight: bold; }

b { font-weight: bold; }
strong { font-weight: bold; }
i { font-style: italic; }
em { font-style: italic; }

a { color: #0000ee; text-decoration: underline; }

small { font-size: 83%; }
big { font-size: 117%; }

pre { font-weight: normal; font-style: normal; }
`

// userAgentStylesheet is defaultUserAgentCSS, parsed once at package init.
var userAgentStylesheet = css.Parse(defaultUserAgentCSS)

// DefaultUserAgentStylesheet returns the browser's built-in stylesheet,
// applied before any linked or inline styles (§4.E). Every call returns the
// same parsed *css.Stylesheet.
func DefaultUserAgentStylesheet() *css.Stylesheet {
	return userAgentStylesheet
}
