package styledtree

import (
	"strconv"

	"github.com/npillmayer/webcore/core/dimen"
	"github.com/npillmayer/webcore/engine/dom/style"
	"github.com/npillmayer/webcore/engine/dom/style/css"
)

// FormatPixels formats a dimension as a CSS pixel value, e.g. "12.5px".
func FormatPixels(d dimen.Dimen) style.Property {
	return style.Property(strconv.FormatFloat(d.Pixels(), 'f', -1, 64) + "px")
}

var borderWidthKeywords = map[style.Property]dimen.Dimen{
	"thin": 1 * dimen.PX, "medium": 3 * dimen.PX, "thick": 5 * dimen.PX,
}

var borderSides = [4]string{"top", "right", "bottom", "left"}

// computeValues converts specified values to computed values: font size
// first, then lengths in absolute pixels, colors in canonical form.
// Percentages are kept, as they refer to the containing block.
func computeValues(cs *style.ComputedStyle, parent *style.ComputedStyle, env Env) {
	parentFont := env.DefaultFontSize
	if parent != nil {
		if d := css.DimenOption(parent.GetPropertyValue("font-size")); d.IsAbsolute() {
			parentFont = d.Unwrap()
		}
	}
	fontSize := computeFontSize(cs.GetPropertyValue("font-size"), parentFont, env)
	cs.Set("font-size", FormatPixels(fontSize))
	ctx := css.UnitContext{
		FontSize:       fontSize,
		RootFontSize:   env.RootFontSize,
		ViewportWidth:  env.ViewportWidth,
		ViewportHeight: env.ViewportHeight,
	}
	for _, kv := range cs.Properties() {
		if isLengthProperty(kv.Key) {
			cs.Set(kv.Key, computeLength(kv.Value, ctx))
		}
	}
	// line-height: numbers and normal are inherited as they are
	if lh := cs.GetPropertyValue("line-height"); lh != "normal" && !style.IsNumber(lh) {
		d := css.DimenOption(lh).Resolve(ctx).ResolvePercent(fontSize)
		if d.IsAbsolute() {
			cs.Set("line-height", FormatPixels(d.Unwrap()))
		}
	}
	for _, key := range []string{"letter-spacing", "word-spacing"} {
		if v := cs.GetPropertyValue(key); v != "normal" {
			cs.Set(key, computeLength(v, ctx))
		}
	}
	// color first, as other colors may refer to it as currentcolor
	color := cs.GetPropertyValue("color")
	if color == "currentcolor" {
		color = "#000000"
		if parent != nil {
			color = parent.GetPropertyValue("color")
		}
	} else {
		color = computeColor(color, color)
	}
	cs.Set("color", color)
	cs.Set("background-color", computeColor(cs.GetPropertyValue("background-color"), color))
	for _, side := range borderSides {
		key := "border-" + side + "-color"
		cs.Set(key, computeColor(cs.GetPropertyValue(key), color))
		wkey, skey := "border-"+side+"-width", "border-"+side+"-style"
		bstyle := cs.GetPropertyValue(skey)
		if bstyle == "none" || bstyle == "hidden" {
			cs.Set(wkey, "0px")
			continue
		}
		w := cs.GetPropertyValue(wkey)
		if d, ok := borderWidthKeywords[w]; ok {
			cs.Set(wkey, FormatPixels(d))
		} else {
			cs.Set(wkey, computeLength(w, ctx))
		}
	}
}

// computeFontSize resolves a font-size value against the parent's font size.
func computeFontSize(v style.Property, parentFont dimen.Dimen, env Env) dimen.Dimen {
	if f, ok := fontSizeKeywords[v]; ok {
		return env.DefaultFontSize.Scale(f)
	}
	switch v {
	case "smaller":
		return parentFont.Scale(1 / 1.2)
	case "larger":
		return parentFont.Scale(1.2)
	}
	d := css.DimenOption(v)
	if d.IsPercent() {
		return d.ResolvePercent(parentFont).Unwrap()
	}
	ctx := css.UnitContext{
		FontSize:       parentFont, // em refers to the parent's font size
		RootFontSize:   env.RootFontSize,
		ViewportWidth:  env.ViewportWidth,
		ViewportHeight: env.ViewportHeight,
	}
	if d = d.Resolve(ctx); d.IsAbsolute() {
		return dimen.Max(0, d.Unwrap())
	}
	tracer().Errorf("cannot compute font-size %q, using parent's", v)
	return parentFont
}

// computeLength resolves font- and viewport-relative lengths to pixels.
// Keywords and percentages are returned unchanged.
func computeLength(v style.Property, ctx css.UnitContext) style.Property {
	d := css.DimenOption(v)
	if d.IsPercent() || !(d.IsAbsolute() || d.IsRelative()) {
		return v
	}
	d = d.Resolve(ctx)
	if !d.IsAbsolute() {
		return v
	}
	return FormatPixels(d.Unwrap())
}

// computeColor converts a color to canonical form. currentcolor is replaced
// by current, unknown values are kept.
func computeColor(v style.Property, current style.Property) style.Property {
	if v == "currentcolor" {
		return current
	}
	if c, ok := style.ParseColor(v); ok {
		return style.FormatColor(c)
	}
	return v
}
