// Package term holds the primitive value types shared by every layer of
// the terminal core: screen size, cursor position, color, text attributes,
// and the cell those attributes decorate. Nothing in this package owns a
// mutex or a goroutine; it is pure data.
package term

// Size is a terminal's visible dimensions in character cells. Either field
// may be transiently zero (e.g. before the first Resize); callers that
// depend on a writable area must check for that explicitly.
type Size struct {
	Rows uint16
	Cols uint16
}

// Empty reports whether the size has no writable area.
func (s Size) Empty() bool {
	return s.Rows == 0 || s.Cols == 0
}

// Position is a 0-indexed cell coordinate. Cursor.Row may legitimately hold
// Rows (one past the last row) as a sentinel meaning "pending scroll";
// Position values read by anything outside the state engine must be
// clamped first.
type Position struct {
	Row uint16
	Col uint16
}

// Clamp returns p clamped to the last valid cell of a screen of size sz.
func (p Position) Clamp(sz Size) Position {
	out := p
	if sz.Rows > 0 {
		out.Row = clampMax(out.Row, sz.Rows-1)
	} else {
		out.Row = 0
	}
	if sz.Cols > 0 {
		out.Col = clampMax(out.Col, sz.Cols-1)
	} else {
		out.Col = 0
	}
	return out
}

func clampMax(v, max uint16) uint16 {
	if v > max {
		return max
	}
	return v
}

// NamedColor enumerates the 16 classic ANSI colors.
type NamedColor uint8

const (
	Black NamedColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// ColorKind discriminates the Color sum type.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorNamed
	ColorIndexed
	ColorRGB
)

// Color is the sum type `Default | Named(16) | Indexed(u8) | Rgb(u8,u8,u8)`
// from the data model. Only the fields relevant to Kind are meaningful.
type Color struct {
	Kind    ColorKind
	Named   NamedColor
	Index   uint8
	R, G, B uint8
}

// DefaultColor is the zero value of Color and represents "use the
// terminal's default foreground/background".
var DefaultColor = Color{Kind: ColorDefault}

// NamedColorOf builds a Color carrying a named ANSI color.
func NamedColorOf(n NamedColor) Color { return Color{Kind: ColorNamed, Named: n} }

// IndexedColor builds a Color carrying a palette index.
func IndexedColor(i uint8) Color { return Color{Kind: ColorIndexed, Index: i} }

// RGBColor builds a Color carrying an exact RGB triple, clamping each
// component to 0..=255 (trivially true for uint8, kept explicit because
// SGR decoding computes these from parameter lists that may overflow).
func RGBColor(r, g, b int) Color {
	return Color{Kind: ColorRGB, R: clampByte(r), G: clampByte(g), B: clampByte(b)}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// AttributeFlags is a bit set of SGR text attributes.
type AttributeFlags uint16

const (
	AttrBold AttributeFlags = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrDoubleUnderline
	AttrCurlyUnderline
	AttrDottedUnderline
	AttrDashedUnderline
	AttrBlinkSlow
	AttrBlinkFast
	AttrReverse
	AttrHidden
	AttrStrikethrough
)

// Has reports whether all bits in mask are set.
func (f AttributeFlags) Has(mask AttributeFlags) bool { return f&mask == mask }

// Set returns f with mask set.
func (f AttributeFlags) Set(mask AttributeFlags) AttributeFlags { return f | mask }

// Clear returns f with mask cleared.
func (f AttributeFlags) Clear(mask AttributeFlags) AttributeFlags { return f &^ mask }

// UnderlineStyleMask covers the five mutually exclusive underline styles so
// SGR 24 can clear whichever one is active without disturbing other flags.
const UnderlineStyleMask = AttrUnderline | AttrDoubleUnderline | AttrCurlyUnderline |
	AttrDottedUnderline | AttrDashedUnderline

// CellAttributes is the full set of rendering attributes a Cell carries.
type CellAttributes struct {
	Fg             Color
	Bg             Color
	Flags          AttributeFlags
	UnderlineColor *Color // nil means "use Fg"
}

// DefaultAttributes is the attribute set a freshly reset terminal starts
// with and that blank/erased cells carry.
func DefaultAttributes() CellAttributes {
	return CellAttributes{Fg: DefaultColor, Bg: DefaultColor}
}

// HyperlinkID is an opaque handle into the terminal's hyperlink table
// (OSC 8). Zero means "no hyperlink".
type HyperlinkID uint64

// Cell is a single terminal grid slot. The zero value is not a valid cell
// on its own; use BlankCell for the canonical blank.
type Cell struct {
	Ch        rune
	Attrs     CellAttributes
	Hyperlink HyperlinkID
}

// BlankCell returns the canonical blank cell: a space with default
// attributes and no hyperlink. Every grid slot always holds a valid Cell;
// this is what "valid" means at rest.
func BlankCell() Cell {
	return Cell{Ch: ' ', Attrs: DefaultAttributes()}
}

// CursorShape is the visible glyph DECSCUSR selects.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// CursorStyle pairs a shape with its blink state, both set by DECSCUSR
// (CSI Ps SP q).
type CursorStyle struct {
	Shape CursorShape
	Blink bool
}

// DefaultCursorStyle is a blinking block, xterm's power-on default.
var DefaultCursorStyle = CursorStyle{Shape: CursorBlock, Blink: true}
