package styledtree

import (
	"sync"

	"github.com/npillmayer/webcore/engine/dom/style/cssom"
)

// userAgentCSS is the default stylesheet for HTML documents, following the
// rendering section of the HTML standard.
const userAgentCSS = `
html, address, blockquote, body, center, dialog, div, figure, figcaption,
footer, form, header, hr, legend, listing, main, p, plaintext, pre, search, xmp,
article, aside, h1, h2, h3, h4, h5, h6, hgroup, nav, section,
dir, dd, dl, dt, menu, ol, ul, fieldset, details, summary, optgroup {
	display: block
}
area, base, basefont, datalist, head, link, meta, noembed, noframes,
param, rp, script, style, template, title, [hidden] {
	display: none
}
li { display: list-item }
table { display: table }
caption { display: table-caption }
colgroup { display: table-column-group }
col { display: table-column }
thead { display: table-header-group }
tbody { display: table-row-group }
tfoot { display: table-footer-group }
tr { display: table-row }
td, th { display: table-cell }
button, input, select, textarea, img, video, canvas, iframe { display: inline-block }

body { margin: 8px }
p, blockquote, dl, figure, listing, plaintext, pre, xmp { margin-top: 1em; margin-bottom: 1em }
blockquote, figure { margin-left: 40px; margin-right: 40px }
dd { margin-left: 40px }
dir, menu, ol, ul { margin-top: 1em; margin-bottom: 1em; padding-left: 40px }
ol ol, ol ul, ul ol, ul ul { margin-top: 0; margin-bottom: 0 }
ol { list-style-type: decimal }
hr { border-style: inset; border-width: 1px; margin-top: 0.5em; margin-bottom: 0.5em; color: gray }

h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em }
h4 { margin-top: 1.33em; margin-bottom: 1.33em }
h5 { font-size: 0.83em; margin-top: 1.67em; margin-bottom: 1.67em }
h6 { font-size: 0.67em; margin-top: 2.33em; margin-bottom: 2.33em }
h1, h2, h3, h4, h5, h6, b, strong, th { font-weight: bold }

i, cite, em, var, dfn, address { font-style: italic }
code, kbd, samp, tt, pre, listing, plaintext, xmp { font-family: monospace }
pre, listing, plaintext, xmp { white-space: pre }
textarea { white-space: pre-wrap }
small { font-size: smaller }
big { font-size: larger }
sub, sup { font-size: smaller }
center, th { text-align: center }
u, ins { text-decoration: underline }
s, strike, del { text-decoration: line-through }
a:link { color: #0000ee; text-decoration: underline }
mark { background-color: yellow; color: black }
nobr { white-space: nowrap }
table { border-collapse: separate; box-sizing: border-box }
td, th { padding: 1px }
`

var uaSheet struct {
	once  sync.Once
	sheet *cssom.StyleSheet
}

// UserAgentStyleSheet returns the default stylesheet for HTML documents.
// It is parsed once and shared; clients must not modify it.
func UserAgentStyleSheet() *cssom.StyleSheet {
	uaSheet.once.Do(func() {
		uaSheet.sheet = cssom.MustParse(userAgentCSS)
	})
	return uaSheet.sheet
}
