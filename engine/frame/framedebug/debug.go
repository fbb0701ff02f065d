/*
Package framedebug writes box trees in formats suited for debugging.

ToGraphViz produces input for Graphviz (https://graphviz.org), Dump an
indented text rendition with the geometry of every box.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package framedebug

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/frame"
	"github.com/npillmayer/webcore/engine/frame/boxtree"
	"github.com/npillmayer/webcore/engine/frame/layout"
	tp "github.com/xlab/treeprint"
)

// tracer traces with key 'webcore.frame'.
func tracer() tracing.Trace {
	return tracing.Select("webcore.frame")
}

// maxBoxes guards against erroneous cycles.
const maxBoxes = 4096

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	BoxTmpl  *template.Template
	EdgeTmpl *template.Template
	cnt      int
}

// ToGraphViz creates a graphical representation of a box tree.
// It produces a DOT file format suitable as input for Graphviz, given a Writer.
func ToGraphViz(root *boxtree.Box, w io.Writer) error {
	header, err := template.New("boxTree").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.BoxTmpl, err = template.New("box").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"label":       label,
		}).Parse(boxTmpl)
	if err != nil {
		return err
	}
	gparams.EdgeTmpl = template.Must(template.New("boxedge").Parse(edgeTmpl))
	if err = header.Execute(w, gparams); err != nil {
		return err
	}
	if root != nil {
		dict := make(map[*boxtree.Box]string, 256)
		if err = boxes(root, w, dict, &gparams); err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

func boxes(b *boxtree.Box, w io.Writer, dict map[*boxtree.Box]string, gparams *graphParamsType) error {
	gparams.cnt++
	if gparams.cnt > maxBoxes {
		return nil
	}
	if err := box(b, w, dict, gparams); err != nil {
		return err
	}
	tracer().Debugf("box = %v", b)
	for _, child := range b.Children {
		if err := boxes(child, w, dict, gparams); err != nil {
			return err
		}
		e := cedge{N1: dict[b], N2: dict[child]}
		if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
			return err
		}
	}
	return nil
}

// Helper structs
type cbox struct {
	B     *boxtree.Box
	Name  string
	Fill  string
	Color string
}

type cedge struct {
	N1, N2 string
}

func box(b *boxtree.Box, w io.Writer, dict map[*boxtree.Box]string, gparams *graphParamsType) error {
	name := fmt.Sprintf("node%05d", len(dict)+1)
	dict[b] = name
	cb := &cbox{B: b, Name: name, Fill: "lightblue3", Color: "black"}
	switch {
	case b.IsText():
		cb.Fill = "grey95"
	case b.IsAnonymous():
		cb.Fill = "grey90"
	case b.Styles != nil:
		if !frame.IsTransparent(b.Styles.Colors.Background) {
			cb.Fill = string(style.FormatColor(b.Styles.Colors.Background))
		}
		if b.BorderWidth[frame.Top].UnwrapOr(0) > 0 {
			cb.Color = string(style.FormatColor(b.Styles.Border[frame.Top].LineColor))
		}
	}
	return gparams.BoxTmpl.Execute(w, cb)
}

func shortText(b *boxtree.Box) string {
	txt := b.Text
	s := fmt.Sprintf("\"%s \\\"", "T")
	if r := []rune(txt); len(r) > 10 {
		s += string(r[:10]) + "…\\\"\""
	} else {
		s += txt + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

func label(b *boxtree.Box) string {
	if b.IsAnonymous() {
		return fmt.Sprintf("%q", AnonLabel(b))
	}
	return fmt.Sprintf("%q", PrincipalLabel(b))
}

// PrincipalLabel returns a short label for a box generated for an element,
// made up of the symbols for its outer and inner display mode and its tag.
func PrincipalLabel(b *boxtree.Box) string {
	if b == nil {
		return "<empty box>"
	}
	innerSym := b.DisplayMode().Inner().Symbol()
	outerSym := b.DisplayMode().Outer().Symbol()
	return fmt.Sprintf("%s %s %s", outerSym, innerSym, b.Tag)
}

// AnonLabel returns a short label for an anonymous box.
func AnonLabel(b *boxtree.Box) string {
	if b == nil {
		return "<empty anon box>"
	}
	innerSym := b.DisplayMode().Inner().Symbol()
	outerSym := b.DisplayMode().Outer().Symbol()
	return fmt.Sprintf("%s %s", outerSym, innerSym)
}

// --- Text dump --------------------------------------------------------

// Dump returns an indented text rendition of a box tree. Every box is
// listed with its border box in absolute coordinates, in pixels.
func Dump(root *boxtree.Box) string {
	p := tp.New()
	if root == nil {
		p.SetValue("<empty>")
		return p.String()
	}
	p.SetValue(describe(root))
	for _, c := range root.Children {
		dump(p, c)
	}
	return p.String()
}

func dump(p tp.Tree, b *boxtree.Box) {
	if len(b.Children) == 0 {
		p.AddNode(describe(b))
		return
	}
	branch := p.AddBranch(describe(b))
	for _, c := range b.Children {
		dump(branch, c)
	}
}

func describe(b *boxtree.Box) string {
	var r dimen.Rect
	if b.IsText() || b.Kind == boxtree.InlineBox {
		frags := layout.Fragments(b)
		if len(frags) == 0 {
			return b.String()
		}
		r = frags[0]
		for _, f := range frags[1:] {
			r = r.Union(f)
		}
	} else {
		r = layout.BorderBox(b)
	}
	return fmt.Sprintf("%s (%s,%s) %s×%s", b, px(r.TopL.X), px(r.TopL.Y), px(r.Width()), px(r.Height()))
}

func px(d dimen.Dimen) string {
	if d%dimen.PX == 0 {
		return fmt.Sprintf("%d", d/dimen.PX)
	}
	return fmt.Sprintf("%.2f", float64(d)/float64(dimen.PX))
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=12] ;
   node [fontname = "{{ .Fontname }}" fontsize=12] ;
   edge [fontname = "{{ .Fontname }}" fontsize=12] ;
`

const boxTmpl = `{{ if .B.IsText }}
{{ .Name }}	[ label={{ shortstring .B }} shape=box style=filled fillcolor="{{ .Fill }}" fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ label .B }} shape=box style=filled fillcolor="{{ .Fill }}" color="{{ .Color }}" ] ;
{{ end }}
`

const edgeTmpl = `{{ .N1 }} -> {{ .N2 }} [weight=1] ;
`
