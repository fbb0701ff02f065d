package style

import (
	"fmt"
	"sort"
	"strings"
)

// Property is a raw value for a CSS property. For example, with
//
//	color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsUnset denotes if a property is of inheritence-type "unset"
func (p Property) IsUnset() bool {
	return p == "unset"
}

// IsGlobalKeyword is true for the keywords valid for any property.
func (p Property) IsGlobalKeyword() bool {
	return p.IsInitial() || p.IsInherit() || p.IsUnset()
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// Normalize trims a raw value and converts it to lower case, except for the
// contents of quoted strings and url(…) references.
func Normalize(raw string) Property {
	raw = strings.TrimSpace(raw)
	if !strings.ContainsAny(raw, `"'`) && !strings.Contains(strings.ToLower(raw), "url(") {
		return Property(strings.ToLower(raw))
	}
	var b strings.Builder
	var quote byte
	parens := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case parens > 0:
			if c == ')' {
				parens--
			}
		case c == '(' && strings.HasSuffix(strings.ToLower(b.String()), "url"):
			parens++
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return Property(b.String())
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

func (kv KeyValue) String() string {
	return fmt.Sprintf("%s: %s", kv.Key, kv.Value)
}

// --- Property registry -----------------------------------------------------

// Symbolic names for property groups.
const (
	PGMargins   = "Margins"
	PGPadding   = "Padding"
	PGBorder    = "Border"
	PGDimension = "Dimension"
	PGDisplay   = "Display"
	PGFlex      = "Flex"
	PGColor     = "Color"
	PGFont      = "Font"
	PGText      = "Text"
	PGX         = "X"
)

// Definition describes a longhand property known to the engine.
type Definition struct {
	Name      string
	Initial   Property // initial value as defined by CSS
	Inherited bool     // inherited by default
	Group     string   // organisatorial group
}

var registry = map[string]Definition{}

func define(group string, inherited bool, initial Property, names ...string) {
	for _, name := range names {
		registry[name] = Definition{Name: name, Initial: initial, Inherited: inherited, Group: group}
	}
}

func init() {
	define(PGDisplay, false, "inline", "display")
	define(PGDisplay, false, "static", "position")
	define(PGDisplay, false, "none", "float", "clear")
	define(PGDisplay, true, "visible", "visibility")
	define(PGDisplay, false, "visible", "overflow")
	define(PGDisplay, false, "auto", "z-index", "top", "right", "bottom", "left")
	define(PGDisplay, false, "1", "opacity")
	define(PGDimension, false, "auto", "width", "height")
	define(PGDimension, false, "0", "min-width", "min-height")
	define(PGDimension, false, "none", "max-width", "max-height")
	define(PGDimension, false, "content-box", "box-sizing")
	define(PGMargins, false, "0", "margin-top", "margin-right", "margin-bottom", "margin-left")
	define(PGPadding, false, "0", "padding-top", "padding-right", "padding-bottom", "padding-left")
	define(PGBorder, false, "medium", "border-top-width", "border-right-width",
		"border-bottom-width", "border-left-width")
	define(PGBorder, false, "none", "border-top-style", "border-right-style",
		"border-bottom-style", "border-left-style")
	define(PGBorder, false, "currentcolor", "border-top-color", "border-right-color",
		"border-bottom-color", "border-left-color")
	define(PGBorder, false, "0", "border-top-left-radius", "border-top-right-radius",
		"border-bottom-left-radius", "border-bottom-right-radius")
	define(PGColor, true, "black", "color")
	define(PGColor, false, "transparent", "background-color")
	define(PGFont, true, "medium", "font-size")
	define(PGFont, true, "serif", "font-family")
	define(PGFont, true, "normal", "font-weight", "font-style", "font-variant", "line-height")
	define(PGText, true, "left", "text-align")
	define(PGText, true, "normal", "white-space", "letter-spacing", "word-spacing", "word-break")
	define(PGText, true, "0", "text-indent")
	define(PGText, true, "ltr", "direction")
	define(PGText, false, "none", "text-decoration", "text-transform")
	define(PGText, true, "disc", "list-style-type")
	define(PGText, true, "outside", "list-style-position")
	define(PGText, true, "auto", "cursor")
	define(PGFlex, false, "row", "flex-direction")
	define(PGFlex, false, "nowrap", "flex-wrap")
	define(PGFlex, false, "flex-start", "justify-content")
	define(PGFlex, false, "stretch", "align-items")
	define(PGFlex, false, "normal", "align-content", "row-gap", "column-gap")
	define(PGFlex, false, "auto", "align-self", "flex-basis")
	define(PGFlex, false, "0", "flex-grow", "order")
	define(PGFlex, false, "1", "flex-shrink")
}

// Lookup returns the definition of a longhand property.
func Lookup(key string) (Definition, bool) {
	def, ok := registry[key]
	return def, ok
}

// IsKnown is true for longhand properties in the registry.
func IsKnown(key string) bool {
	_, ok := registry[key]
	return ok
}

// IsCascading returns wether the standard behaviour for a propery is to be
// inherited or not, i.e., a call to retrieve its value will cascade.
// Unknown properties are not inherited.
func IsCascading(key string) bool {
	return registry[key].Inherited
}

// InitialValue returns the initial value of a property, or NullStyle for
// unknown properties.
func InitialValue(key string) Property {
	return registry[key].Initial
}

// GroupNameFromPropertyKey returns the style property group name for a
// style property.
// Example:
//
//	GroupNameFromPropertyKey("margin-top") => "Margins"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	if def, ok := registry[key]; ok {
		return def.Group
	}
	return PGX
}

// Properties returns the names of all known longhand properties, sorted.
func Properties() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Computed styles -------------------------------------------------------

// ComputedStyle maps properties to computed values for a node.
// Properties not set explicitly report their initial value.
type ComputedStyle struct {
	props map[string]Property
}

// NewComputedStyle creates an empty style.
func NewComputedStyle() *ComputedStyle {
	return &ComputedStyle{props: make(map[string]Property, len(registry))}
}

// GetPropertyValue returns the value of a property. Properties which are not
// set return their initial value.
func (cs *ComputedStyle) GetPropertyValue(key string) Property {
	if cs != nil {
		if p, ok := cs.props[key]; ok {
			return p
		}
	}
	return InitialValue(key)
}

// Get returns the value of a property and whether it has been set.
func (cs *ComputedStyle) Get(key string) (Property, bool) {
	if cs == nil {
		return NullStyle, false
	}
	p, ok := cs.props[key]
	return p, ok
}

// Set sets a property value. It must not be called on a style which has
// already been published.
func (cs *ComputedStyle) Set(key string, p Property) {
	cs.props[key] = p
}

// Len returns the number of properties set.
func (cs *ComputedStyle) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.props)
}

// Properties returns all properties set, sorted by key.
func (cs *ComputedStyle) Properties() []KeyValue {
	if cs == nil {
		return nil
	}
	kv := make([]KeyValue, 0, len(cs.props))
	for k, v := range cs.props {
		kv = append(kv, KeyValue{k, v})
	}
	sort.Slice(kv, func(i, j int) bool { return kv[i].Key < kv[j].Key })
	return kv
}

// Equal compares two styles property by property.
func (cs *ComputedStyle) Equal(other *ComputedStyle) bool {
	if cs.Len() != other.Len() {
		return false
	}
	if cs == nil || other == nil {
		return cs == other
	}
	for k, v := range cs.props {
		if w, ok := other.props[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Clone creates a mutable copy of a style.
func (cs *ComputedStyle) Clone() *ComputedStyle {
	c := NewComputedStyle()
	if cs != nil {
		for k, v := range cs.props {
			c.props[k] = v
		}
	}
	return c
}

func (cs *ComputedStyle) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, kv := range cs.Properties() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(kv.String())
	}
	b.WriteString("}")
	return b.String()
}
