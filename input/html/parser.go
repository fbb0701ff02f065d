package html

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/config"
	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is the number of bytes inspected to determine the encoding.
const sniffLen = 1024

// Option configures a parser.
type Option func(*Parser)

// BaseURL sets the URL relative references of the document are resolved
// against. A <base> element in the document takes precedence.
func BaseURL(u string) Option {
	return func(p *Parser) {
		if base, err := url.Parse(u); err == nil {
			p.baseURL = base
		} else {
			p.diag.add(0, 0, "invalid base URL "+u)
		}
	}
}

// MaxErrors limits the number of parse errors kept. Zero means no limit.
func MaxErrors(n int) Option {
	return func(p *Parser) {
		p.diag.max = n
	}
}

// Encoding forces a character encoding by label, e.g. "iso-8859-1".
// Unknown labels are ignored.
func Encoding(label string) Option {
	return func(p *Parser) {
		p.label = label
	}
}

// ContentType passes the Content-Type header of a document, which may
// specify the encoding.
func ContentType(ct string) Option {
	return func(p *Parser) {
		p.contentType = ct
	}
}

// WithParameters applies engine parameters.
func WithParameters(params *config.Parameters) Option {
	return func(p *Parser) {
		if params == nil {
			return
		}
		p.diag.max = params.N(config.MaxParseErrors)
		if src := params.S(config.DocumentSource); src != "" && p.baseURL == nil {
			if u, err := url.Parse(src); err == nil {
				p.baseURL = u
			}
		}
	}
}

// Parser parses an HTML document from a byte stream. Input may be fed in
// chunks of any size; chunk boundaries may split tags, character references
// or multi-byte characters.
type Parser struct {
	doc         *dom.Document
	z           *Tokenizer
	tb          *TreeBuilder
	rc          *resourceCollector
	diag        diagnostics
	baseURL     *url.URL
	label       string
	contentType string
	sniff       []byte         // input held back until the encoding is known
	input       io.WriteCloser // decoding writer into the tokenizer
	encoding    string
	tokens      int
	closed      bool
}

// Result is the outcome of parsing a document.
type Result struct {
	Document      *dom.Document
	Resources     []Resource
	Errors        []ParseError
	DroppedErrors int      // parse errors beyond the configured maximum
	Encoding      string   // name of the input encoding
	BaseURL       *url.URL // effective base URL, or nil
}

// NewParser creates a parser for a new document.
func NewParser(opts ...Option) *Parser {
	doc := dom.NewDocument()
	p := &Parser{
		doc:  doc,
		z:    NewTokenizer(),
		tb:   NewTreeBuilder(doc),
		rc:   &resourceCollector{doc: doc},
		diag: diagnostics{max: DefaultMaxErrors},
	}
	p.tb.tokenizer = p.z
	p.tb.errorf = p.diag.tokenError
	p.tb.onElement = p.rc.element
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Document returns the document under construction. It is a valid tree at
// any time.
func (p *Parser) Document() *dom.Document {
	return p.doc
}

// Feed hands the next chunk of input to the parser and processes all tokens
// which are complete. If ctx is canceled, Feed stops between two tokens and
// returns an error with code ECANCELED; the document stays a valid partial
// tree.
func (p *Parser) Feed(ctx context.Context, chunk []byte) error {
	if p.closed {
		return core.Error(core.EINVALID, "feeding a closed parser")
	}
	if p.input == nil {
		p.sniff = append(p.sniff, chunk...)
		if len(p.sniff) < sniffLen && p.label == "" {
			return nil
		}
		p.startDecoding()
		chunk = p.sniff
		p.sniff = nil
	}
	if _, err := p.input.Write(chunk); err != nil {
		return core.WrapError(err, core.EMALFORMED, "cannot decode input")
	}
	return p.pump(ctx)
}

// Close signals the end of input and completes the document. The result is
// returned even if ctx has been canceled, holding the partial tree.
func (p *Parser) Close(ctx context.Context) (*Result, error) {
	if !p.closed {
		p.closed = true
		if p.input == nil {
			p.startDecoding()
			if _, err := p.input.Write(p.sniff); err != nil {
				p.diag.add(p.z.Offset(), p.z.Line(), "cannot decode input: "+err.Error())
			}
			p.sniff = nil
		}
		if err := p.input.Close(); err != nil {
			p.diag.add(p.z.Offset(), p.z.Line(), "cannot decode input: "+err.Error())
		}
		p.z.CloseInput()
	}
	err := p.pump(ctx)
	resources, base := p.rc.resolve(p.baseURL)
	tracer().Infof("html: parsed %d tokens into %d nodes, %d errors", p.tokens, p.doc.Len(),
		len(p.diag.errors)+p.diag.dropped)
	return &Result{
		Document:      p.doc,
		Resources:     resources,
		Errors:        p.diag.errors,
		DroppedErrors: p.diag.dropped,
		Encoding:      p.encoding,
		BaseURL:       base,
	}, err
}

// pump runs complete tokens through the tree builder.
func (p *Parser) pump(ctx context.Context) error {
	for !p.tb.Done() {
		if err := core.Canceled(ctx); err != nil {
			return err
		}
		tok, ok := p.z.Next()
		for _, e := range p.z.takeErrors() {
			p.diag.add(e.offset, e.line, e.msg)
		}
		if !ok {
			return nil
		}
		p.tokens++
		p.tb.Process(&tok)
	}
	return nil
}

// startDecoding determines the input encoding from the bytes seen so far and
// sets up the decoding writer.
func (p *Parser) startDecoding() {
	var enc encoding.Encoding
	var name string
	if p.label != "" {
		enc, name = charset.Lookup(p.label)
		if enc == nil {
			p.diag.add(0, 1, "unknown encoding "+p.label)
		}
	}
	if enc == nil {
		var certain bool
		enc, name, certain = charset.DetermineEncoding(p.sniff, p.contentType)
		if !certain && name == "windows-1252" && !hasHighBit(p.sniff) {
			enc, name = encoding.Nop, "utf-8"
		}
	}
	p.encoding = name
	tracer().Debugf("html: input encoding is %s", name)
	if name == "utf-8" {
		p.sniff = bytes.TrimPrefix(p.sniff, []byte("\xef\xbb\xbf"))
		p.input = nopCloser{p.z}
		return
	}
	p.input = transform.NewWriter(p.z, unicode.BOMOverride(enc.NewDecoder()))
}

func hasHighBit(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return true
		}
	}
	return false
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Parse parses a complete document from r.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	p := NewParser(opts...)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := p.Feed(ctx, buf[:n]); ferr != nil {
				res, _ := p.Close(ctx)
				return res, ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			res, _ := p.Close(ctx)
			return res, core.WrapError(err, core.EMISSING, "cannot read document")
		}
	}
	return p.Close(ctx)
}

// ParseString parses a document from a string, which has to be UTF-8.
func ParseString(ctx context.Context, s string, opts ...Option) (*Result, error) {
	opts = append([]Option{Encoding("utf-8")}, opts...)
	return Parse(ctx, strings.NewReader(s), opts...)
}

// ParseBytes parses a document from a byte slice, sniffing its encoding.
func ParseBytes(ctx context.Context, b []byte, opts ...Option) (*Result, error) {
	return Parse(ctx, bytes.NewReader(b), opts...)
}
