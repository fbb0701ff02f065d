/*
Boxdump lays out an HTML document and prints the resulting box tree.

Usage:

	boxdump [flags] document.html

Flags:

	-format tree|dot|paint   output format (default tree)
	-css file,...            additional stylesheets, applied after the document's own
	-width px, -height px    viewport size
	-parallel                lay out independent subtrees concurrently
	-trace selector=level,…  trace levels, e.g. webcore.layout=Debug

Parameters may as well be set in a configuration file boxdump.yaml (or any
other format supported by viper), located in the working directory,
$HOME/.boxdump or $HOME/.config/boxdump. Flags take precedence.

Linked stylesheets are loaded if they resolve to local files. The document
itself is not fetched from the network.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/viperadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/webcore/core"
	"github.com/npillmayer/webcore/core/config"
	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/frame/framedebug"
	"github.com/npillmayer/webcore/engine/frame/paint"
	"github.com/npillmayer/webcore/engine/page"
	"github.com/npillmayer/webcore/input/html"
	"github.com/pterm/pterm"
)

// tracer traces with key 'webcore.layout'
func tracer() tracing.Trace {
	return tracing.Select("webcore.layout")
}

func main() {
	initDisplay()

	// command line flags
	format := flag.String("format", "tree", "Output format [tree|dot|paint]")
	css := flag.String("css", "", "Comma separated list of additional stylesheets")
	width := flag.Int("width", 0, "Viewport width in pixels")
	height := flag.Int("height", 0, "Viewport height in pixels")
	parallel := flag.Bool("parallel", false, "Lay out independent subtrees concurrently")
	trace := flag.String("trace", "", "Trace levels, e.g. webcore.layout=Debug")
	flag.Parse()

	// set up configuration; flags override configuration files
	conf := viperadapter.New("boxdump")
	conf.Init()
	if flag.NArg() > 0 {
		conf.Set("webcore.document", flag.Arg(0))
	}
	if *width > 0 {
		conf.Set("webcore.viewport.width", fmt.Sprintf("%dpx", *width))
	}
	if *height > 0 {
		conf.Set("webcore.viewport.height", fmt.Sprintf("%dpx", *height))
	}
	if *parallel {
		conf.Set("webcore.parallel-layout", "true")
	}
	if *trace != "" {
		conf.Set("webcore.trace", *trace)
	}
	params := config.FromConfiguration(conf)
	if err := config.InitTracing(conf, params); err != nil {
		pterm.Error.Println("cannot configure tracing: " + err.Error())
		os.Exit(1)
	}
	src := params.S(config.DocumentSource)
	if src == "" {
		pterm.Error.Println("no document given")
		flag.Usage()
		os.Exit(2)
	}
	ctx, cancel := context.WithTimeout(context.Background(), params.Duration(config.FetchTimeout))
	defer cancel()
	p, err := load(ctx, src, params)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	for _, sheet := range splitList(*css) {
		if err := addStyleSheet(ctx, p, sheet); err != nil {
			pterm.Warning.Println(err.Error())
		}
	}
	if err := p.Layout(ctx); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(4)
	}
	if n := len(p.ParseErrors()); n > 0 {
		pterm.Warning.Printfln("%d markup errors recovered from", n)
	}
	switch *format {
	case "dot":
		err = framedebug.ToGraphViz(p.BoxTree(), os.Stdout)
	case "paint":
		list, perr := p.Paint(ctx)
		if err = perr; err == nil {
			err = printPaintList(list)
		}
	default:
		pterm.Info.Printfln("box tree for %s, viewport %s×%s", src,
			params.D(config.ViewportWidth), params.D(config.ViewportHeight))
		fmt.Print(framedebug.Dump(p.BoxTree()))
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(5)
	}
	tracer().Infof("%d boxes laid out", p.LaidOut())
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// load parses the document and loads the stylesheets it links to.
func load(ctx context.Context, src string, params *config.Parameters) (*page.Page, error) {
	path, err := localPath(src)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open document %s", src)
	}
	defer f.Close()
	p, err := page.New(ctx, f, params)
	if err != nil {
		return nil, err
	}
	for _, rsc := range p.Resources() {
		if rsc.Kind != html.StylesheetLink {
			continue
		}
		ref := rsc.Href
		if rsc.URL != nil {
			ref = rsc.URL.String()
		} else if !filepath.IsAbs(ref) {
			ref = filepath.Join(filepath.Dir(path), ref)
		}
		if err := addStyleSheet(ctx, p, ref); err != nil {
			pterm.Warning.Println(err.Error())
		}
	}
	return p, nil
}

func addStyleSheet(ctx context.Context, p *page.Page, ref string) error {
	path, err := localPath(ref)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "cannot read stylesheet %s", ref)
	}
	sheet, err := p.AddStyleSheet(ctx, string(source))
	if err != nil {
		return err
	}
	if n := len(sheet.Errors); n > 0 {
		pterm.Warning.Printfln("%s: %d stylesheet errors recovered from", ref, n)
	}
	return nil
}

// localPath maps a document reference to a file path. Only file URLs and
// plain paths are supported.
func localPath(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" {
		return ref, nil
	}
	if u.Scheme != "file" {
		return "", core.Error(core.EUNSUPPORTED, "cannot fetch %s: only local files are supported", ref)
	}
	return u.Path, nil
}

func splitList(s string) []string {
	var l []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			l = append(l, e)
		}
	}
	return l
}

func printPaintList(list paint.List) error {
	data := pterm.TableData{{"#", "Layer", "Z", "Box", "Rect", "Background", "Text"}}
	for i, it := range list {
		bg := ""
		if it.HasBackground() {
			bg = string(style.FormatColor(it.Background))
		}
		var txt []string
		for _, run := range it.Text {
			txt = append(txt, run.Text)
		}
		box := it.Box.String()
		if it.Hidden {
			box += " (hidden)"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			it.Layer.String(),
			fmt.Sprintf("%d", it.ZIndex),
			box,
			rect(it),
			bg,
			strings.Join(txt, "⏎"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func rect(it paint.Item) string {
	r := it.Rect
	px := func(d dimen.Dimen) string {
		return fmt.Sprintf("%g", float64(d)/float64(dimen.PX))
	}
	return fmt.Sprintf("(%s,%s) %s×%s", px(r.TopL.X), px(r.TopL.Y), px(r.Width()), px(r.Height()))
}
