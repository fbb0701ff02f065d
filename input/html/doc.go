/*
Package html implements an error-tolerant HTML tokenizer and tree builder.

The tokenizer is a state machine over the (decoded) byte stream. It emits
start tags, end tags, text, comments and doctype declarations. Input may
arrive in chunks of arbitrary size: a chunk boundary may split a tag, an
attribute value, a character reference or a UTF-8 sequence.

The tree builder consumes tokens and inserts nodes into a dom.Document. It
runs an explicit insertion-mode state machine. Each mode is a transition
function from (mode, token) to the next mode, telling the driver whether to
consume the token or reprocess it. A stack of open elements and a list of
active formatting elements implement implied end tags, the adoption agency
for misnested formatting elements, and foster parenting inside tables.

Parsing never fails because of malformed markup. Recovered problems are
collected as ParseError diagnostics. The only errors returned to clients are
cancellation and I/O errors.

Typical usage:

	result, err := html.Parse(ctx, reader, html.BaseURL("https://example.org/"))
	doc := result.Document

or, for streaming sources:

	p := html.NewParser()
	for chunk := range chunks {
	    if err := p.Feed(ctx, chunk); err != nil { … }
	}
	result, err := p.Close(ctx)

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package html

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'webcore.html'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.html")
}
