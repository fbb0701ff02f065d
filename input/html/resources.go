package html

import (
	"net/url"
	"strings"

	"github.com/npillmayer/webcore/engine/dom"
	"golang.org/x/net/html/atom"
)

// ResourceKind tells what a document references a resource for.
type ResourceKind uint8

// Kinds of external and inline resources.
const (
	StylesheetLink ResourceKind = iota // <link rel=stylesheet href=…>
	InlineStyle                        // <style>…</style>
	ScriptSource                       // <script src=…>
	ImageSource                        // <img src=…>
)

func (k ResourceKind) String() string {
	switch k {
	case StylesheetLink:
		return "stylesheet"
	case InlineStyle:
		return "style"
	case ScriptSource:
		return "script"
	case ImageSource:
		return "image"
	}
	return "unknown"
}

// Resource is a resource referenced by a document. The core does not fetch
// resources; they are handed to the network collaborator.
type Resource struct {
	Kind  ResourceKind
	Node  dom.NodeID // element referencing the resource
	Href  string     // reference as written in the document
	URL   *url.URL   // Href resolved against the document base URL, or nil
	Media string     // media attribute of <link> and <style>
	Text  string     // content of inline style elements
}

// resourceCollector discovers resources while elements are created.
type resourceCollector struct {
	doc       *dom.Document
	resources []Resource
	base      string // href of the first <base> element
}

// element is hooked into the tree builder's element creation.
func (rc *resourceCollector) element(el dom.NodeID, tok *Token) {
	switch tok.Atom {
	case atom.Base:
		if href, ok := tok.Attribute("href"); ok && rc.base == "" {
			rc.base = strings.TrimSpace(href)
		}
	case atom.Link:
		rel, _ := tok.Attribute("rel")
		href, ok := tok.Attribute("href")
		if ok && hasToken(rel, "stylesheet") && !hasToken(rel, "alternate") {
			media, _ := tok.Attribute("media")
			rc.add(StylesheetLink, el, href, media)
		}
	case atom.Style:
		media, _ := tok.Attribute("media")
		rc.add(InlineStyle, el, "", media)
	case atom.Script:
		if src, ok := tok.Attribute("src"); ok {
			rc.add(ScriptSource, el, src, "")
		}
	case atom.Img:
		if src, ok := tok.Attribute("src"); ok {
			rc.add(ImageSource, el, src, "")
		}
	}
}

func (rc *resourceCollector) add(kind ResourceKind, el dom.NodeID, href, media string) {
	rc.resources = append(rc.resources, Resource{
		Kind:  kind,
		Node:  el,
		Href:  strings.TrimSpace(href),
		Media: media,
	})
}

// resolve completes resources after parsing: references are resolved
// against the base URL, and the contents of inline style elements are read.
// Elements which have been dropped from the tree during recovery are skipped.
func (rc *resourceCollector) resolve(docURL *url.URL) ([]Resource, *url.URL) {
	base := docURL
	if rc.base != "" {
		if u, err := parseRef(docURL, rc.base); err == nil {
			base = u
		} else {
			tracer().Errorf("html: ignoring <base href=%q>: %v", rc.base, err)
		}
	}
	resources := make([]Resource, 0, len(rc.resources))
	for _, r := range rc.resources {
		if !rc.doc.IsConnected(r.Node) {
			continue
		}
		if r.Kind == InlineStyle {
			r.Text = rc.doc.TextContent(r.Node)
		} else if r.Href != "" {
			if u, err := parseRef(base, r.Href); err == nil {
				r.URL = u
			} else {
				tracer().Errorf("html: cannot resolve %q: %v", r.Href, err)
			}
		}
		resources = append(resources, r)
	}
	return resources, base
}

func parseRef(base *url.URL, ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return u, nil
	}
	return base.ResolveReference(u), nil
}

// hasToken checks if a space separated list contains tok, ignoring case.
func hasToken(list, tok string) bool {
	for _, t := range strings.Fields(list) {
		if strings.EqualFold(t, tok) {
			return true
		}
	}
	return false
}
