package css

import (
	"bytes"
	"fmt"
)

// DisplayMode is a type for CSS property "display".
type DisplayMode uint16

// Flags for box context and display mode (outer and inner).
const (
	NoMode          DisplayMode = iota   // unset or error condition
	DisplayNone     DisplayMode = 0x0001 // CSS outer display = none
	BlockMode       DisplayMode = 0x0002 // CSS block context (inner or outer)
	InlineMode      DisplayMode = 0x0004 // CSS inline context
	ContentsMode    DisplayMode = 0x0008 // CSS display = contents: no box, children are hoisted
	FlowRootMode    DisplayMode = 0x0010 // CSS flow-root display property
	ListItemMode    DisplayMode = 0x0020 // CSS list-item display
	FlexMode        DisplayMode = 0x0040 // CSS inner display = flex
	GridMode        DisplayMode = 0x0080 // CSS inner display = grid
	TableMode       DisplayMode = 0x0100 // CSS table display property (inner or outer)
	InnerBlockMode  DisplayMode = 0x0200 // CSS inner block mode (inline-block)
	InnerInlineMode DisplayMode = 0x0400 // CSS inner inline mode (paragraphs)
)

var allDisplayModes = []DisplayMode{
	DisplayNone, BlockMode, InlineMode, ContentsMode, FlowRootMode, ListItemMode, FlexMode,
	GridMode, TableMode, InnerBlockMode, InnerInlineMode,
}

var displayModeNames = map[DisplayMode]string{
	NoMode:          "NoMode",
	DisplayNone:     "DisplayNone",
	BlockMode:       "BlockMode",
	InlineMode:      "InlineMode",
	ContentsMode:    "ContentsMode",
	FlowRootMode:    "FlowRootMode",
	ListItemMode:    "ListItemMode",
	FlexMode:        "FlexMode",
	GridMode:        "GridMode",
	TableMode:       "TableMode",
	InnerBlockMode:  "InnerBlockMode",
	InnerInlineMode: "InnerInlineMode",
}

func (disp DisplayMode) String() string {
	if s, ok := displayModeNames[disp]; ok {
		return s
	}
	return fmt.Sprintf("DisplayMode(%#04x)", uint16(disp))
}

// Outer returns outer mode
func (disp DisplayMode) Outer() DisplayMode {
	return disp & 0x000f
}

// Inner returns inner mode
func (disp DisplayMode) Inner() DisplayMode {
	return disp & 0xfff0
}

// IsBlockLevel return true if it has outer display level of BlockMode.
//
// Block-level elements are those elements of the source document that are formatted visually
// as blocks (e.g., paragraphs). The following values of the 'display' property make an element
// block-level: 'block', 'list-item', 'flex' and 'table'.
func (disp DisplayMode) IsBlockLevel() bool {
	return disp.Outer() == BlockMode
}

// IsInlineLevel return true if it has outer display level of InlineMode.
func (disp DisplayMode) IsInlineLevel() bool {
	return disp.Outer() == InlineMode
}

// IsFlexContainer is true for flex and inline-flex.
func (disp DisplayMode) IsFlexContainer() bool {
	return disp.Contains(FlexMode)
}

// IsAtomicInline is true for inline-level boxes which are laid out as a
// single unit within a line, e.g. inline-block.
func (disp DisplayMode) IsAtomicInline() bool {
	return disp.IsInlineLevel() && disp.Inner() != InnerInlineMode && disp.Inner() != NoMode
}

// Set sets a given atomic mode within this display mode.
func (disp *DisplayMode) Set(d DisplayMode) {
	*disp = (*disp) | d
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// Overlaps returns true if a given display mode shares at least one atomic
// mode flag with disp (excluding NoMode).
func (disp DisplayMode) Overlaps(d DisplayMode) bool {
	for _, m := range allDisplayModes {
		if disp.Contains(m) && d.Contains(m) {
			return true
		}
	}
	return false
}

// FullString returns all atomic modes set in a display mode.
func (disp DisplayMode) FullString() string {
	var b bytes.Buffer
	first := true
	for _, m := range allDisplayModes {
		if disp.Contains(m) {
			if !first {
				b.WriteString(" ")
			}
			first = false
			b.WriteString(m.String())
		}
	}
	return b.String()
}

// Symbol returns a Unicode symbol for a mode.
func (disp DisplayMode) Symbol() string {
	if disp.Contains(FlexMode) {
		return "▤"
	} else if disp.Contains(GridMode) {
		return "◰"
	} else if disp.Contains(ListItemMode) {
		return "▣"
	} else if disp.Contains(TableMode) {
		return "▥"
	} else if disp.Contains(BlockMode) || disp.Contains(InnerBlockMode) {
		return "▩"
	} else if disp.Contains(InlineMode) || disp.Contains(InnerInlineMode) {
		return "►"
	} else if disp == NoMode {
		return "–"
	}
	return "?"
}

// ParseDisplay returns mode flags from a display property string (outer and inner).
// Unknown values yield an error and a display mode of inline, which is the
// initial value of the property.
func ParseDisplay(display string) (DisplayMode, error) {
	switch display {
	case "":
		return NoMode, nil
	case "none":
		return DisplayNone, nil
	case "contents":
		return ContentsMode, nil
	case "block":
		return BlockMode | InnerBlockMode, nil
	case "inline":
		return InlineMode | InnerInlineMode, nil
	case "flow-root":
		return BlockMode | FlowRootMode, nil
	case "list-item":
		return ListItemMode | BlockMode | InnerBlockMode, nil
	case "inline-block":
		return InlineMode | InnerBlockMode, nil
	case "flex":
		return BlockMode | FlexMode, nil
	case "inline-flex":
		return InlineMode | FlexMode, nil
	case "grid":
		return BlockMode | GridMode, nil
	case "inline-grid":
		return InlineMode | GridMode, nil
	case "table":
		return BlockMode | TableMode, nil
	case "inline-table":
		return InlineMode | TableMode, nil
	case "table-row-group", "table-header-group", "table-footer-group", "table-row",
		"table-cell", "table-caption", "table-column", "table-column-group":
		return BlockMode | InnerBlockMode, nil
	}
	return InlineMode | InnerInlineMode, fmt.Errorf("unknown display mode: %s", display)
}
