package state

import (
	"testing"

	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/term"
)

func feed(t *testing.T, s *TerminalState, p *parser.Parser, input string) {
	t.Helper()
	for _, ev := range p.Parse([]byte(input)) {
		s.Apply(ev)
	}
}

func TestClearScreenHomesCursor(t *testing.T) {
	s := New(term.Size{Rows: 24, Cols: 80}, 100)
	p := parser.New()
	feed(t, s, p, "hello\x1b[2J\x1b[H")

	snap := s.Snapshot()
	if snap.Cursor != (term.Position{Row: 0, Col: 0}) {
		t.Fatalf("cursor = %+v, want origin", snap.Cursor)
	}
	cell := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0})
	if cell.Ch != ' ' {
		t.Fatalf("cell(0,0) = %q, want blank", cell.Ch)
	}
}

func TestCursorPositioning(t *testing.T) {
	s := New(term.Size{Rows: 24, Cols: 80}, 100)
	p := parser.New()
	feed(t, s, p, "\x1b[10;20HA")

	cell := s.PrimaryBuffer().GetCell(term.Position{Row: 9, Col: 19})
	if cell.Ch != 'A' {
		t.Fatalf("cell(9,19) = %q, want 'A'", cell.Ch)
	}
}

func TestCursorPositioningClampsToScreen(t *testing.T) {
	s := New(term.Size{Rows: 24, Cols: 80}, 100)
	p := parser.New()
	feed(t, s, p, "\x1b[999;999HA")

	snap := s.Snapshot()
	if snap.Cursor.Row != 23 || snap.Cursor.Col != 79 {
		t.Fatalf("cursor = %+v, want (23,79)", snap.Cursor)
	}
	cell := s.PrimaryBuffer().GetCell(term.Position{Row: 23, Col: 79})
	if cell.Ch != 'A' {
		t.Fatalf("cell(23,79) = %q, want 'A'", cell.Ch)
	}
}

func TestSgrColors(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[31;1mX\x1b[0mY")

	red := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0})
	if red.Attrs.Fg != term.NamedColorOf(term.Red) {
		t.Fatalf("fg = %+v, want Red", red.Attrs.Fg)
	}
	if !red.Attrs.Flags.Has(term.AttrBold) {
		t.Fatalf("expected bold flag set")
	}

	plain := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 1})
	if plain.Attrs.Fg != term.DefaultColor {
		t.Fatalf("fg after reset = %+v, want default", plain.Attrs.Fg)
	}
}

func TestScrollbackEviction(t *testing.T) {
	s := New(term.Size{Rows: 3, Cols: 80}, 100)
	p := parser.New()
	feed(t, s, p, "Line 0\nLine 1\nLine 2\nLine 3\n")

	if got := s.Scrollback.Len(); got != 1 {
		t.Fatalf("scrollback length = %d, want 1", got)
	}
	line := s.Scrollback.GetLine(0)
	if line == nil || line[0].Ch != 'L' {
		t.Fatalf("scrollback[0] does not start with 'Line 0'")
	}
	snap := s.Snapshot()
	if snap.Cursor.Row != 2 {
		t.Fatalf("cursor row = %d, want 2", snap.Cursor.Row)
	}
}

func TestAlternateScreenRoundTrip(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "primary content")
	before := s.PrimaryBuffer().GetLine(0)

	feed(t, s, p, "\x1b[?1049h")
	if !s.AlternateScreenActive() {
		t.Fatalf("expected alternate screen active")
	}
	feed(t, s, p, "alt content")
	feed(t, s, p, "\x1b[?1049l")
	if s.AlternateScreenActive() {
		t.Fatalf("expected alternate screen inactive")
	}

	after := s.PrimaryBuffer().GetLine(0)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("primary buffer changed across alt screen round trip at col %d", i)
		}
	}
}

func TestCursorSaveRestore(t *testing.T) {
	s := New(term.Size{Rows: 24, Cols: 80}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[5;5H\x1b7\x1b[10;10H\x1b8")

	snap := s.Snapshot()
	if snap.Cursor != (term.Position{Row: 4, Col: 4}) {
		t.Fatalf("cursor after restore = %+v, want (4,4)", snap.Cursor)
	}
}

func TestLineWrap(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 3}, 10)
	p := parser.New()
	feed(t, s, p, "abcd")

	row0 := s.PrimaryBuffer().GetLine(0)
	if string([]rune{row0[0].Ch, row0[1].Ch, row0[2].Ch}) != "abc" {
		t.Fatalf("row0 = %v, want abc", row0)
	}
	row1 := s.PrimaryBuffer().GetLine(1)
	if row1[0].Ch != 'd' {
		t.Fatalf("row1[0] = %q, want 'd'", row1[0].Ch)
	}
}

func TestResetClearsModeAndAttributes(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[31mX\x1bc")

	if s.ActiveAttributes().Fg != term.DefaultColor {
		t.Fatalf("attributes not reset")
	}
	if s.Mode() != DefaultMode {
		t.Fatalf("mode = %v, want default", s.Mode())
	}
}

func TestDsrCursorPositionReport(t *testing.T) {
	s := New(term.Size{Rows: 24, Cols: 80}, 10)
	p := parser.New()
	var got []byte
	s.SetReplyWriter(func(b []byte) { got = append(got, b...) })

	feed(t, s, p, "\x1b[3;4H\x1b[6n")
	want := "\x1b[3;4R"
	if string(got) != want {
		t.Fatalf("dsr reply = %q, want %q", got, want)
	}
}

func TestSgrIndexedColor(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[38;5;123mZ")

	cell := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0})
	if cell.Attrs.Fg != term.IndexedColor(123) {
		t.Fatalf("fg = %+v, want Indexed(123)", cell.Attrs.Fg)
	}
}

func TestSgrRgbColor(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[48;2;10;20;300mZ")

	cell := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0})
	want := term.RGBColor(10, 20, 255)
	if cell.Attrs.Bg != want {
		t.Fatalf("bg = %+v, want %+v (components clamped)", cell.Attrs.Bg, want)
	}
}

func TestSgrForegroundBackgroundPair(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[31;44mX\x1b[0mY")

	x := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0})
	if x.Attrs.Fg != term.NamedColorOf(term.Red) || x.Attrs.Bg != term.NamedColorOf(term.Blue) {
		t.Fatalf("X attrs = %+v, want red on blue", x.Attrs)
	}
	y := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 1})
	if y.Attrs != term.DefaultAttributes() {
		t.Fatalf("Y attrs = %+v, want defaults", y.Attrs)
	}
}

func TestCursorBackSaturates(t *testing.T) {
	s := New(term.Size{Rows: 24, Cols: 80}, 10)
	p := parser.New()
	feed(t, s, p, "A\x1b[5D")

	snap := s.Snapshot()
	if snap.Cursor != (term.Position{Row: 0, Col: 0}) {
		t.Fatalf("cursor = %+v, want origin", snap.Cursor)
	}
}

func TestLoneNewlineAtBottomDoesNotScroll(t *testing.T) {
	s := New(term.Size{Rows: 2, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "a\r\nb\r\n")

	// The cursor sits on the virtual row below the screen; nothing has
	// scrolled yet.
	if s.Scrollback.Len() != 0 {
		t.Fatalf("scrollback = %d lines, want 0 before the next printable write", s.Scrollback.Len())
	}
	feed(t, s, p, "c")
	if s.Scrollback.Len() != 1 {
		t.Fatalf("scrollback = %d lines, want 1 after the deferred scroll", s.Scrollback.Len())
	}
	if got := s.PrimaryBuffer().GetCell(term.Position{Row: 1, Col: 0}); got.Ch != 'c' {
		t.Fatalf("cell(1,0) = %q, want 'c'", got.Ch)
	}
}

func TestTabAdvancesToNextStop(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 40}, 10)
	p := parser.New()
	feed(t, s, p, "ab\t")

	if got := s.Snapshot().Cursor.Col; got != 8 {
		t.Fatalf("col after tab = %d, want 8", got)
	}
	feed(t, s, p, "\t\t\t\t\t")
	if got := s.Snapshot().Cursor.Col; got != 39 {
		t.Fatalf("col after tabbing past the last stop = %d, want 39", got)
	}
}

func TestTabSetAddsCustomStop(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 40}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[1;4H\x1bH\x1b[1;1H\t")

	if got := s.Snapshot().Cursor.Col; got != 3 {
		t.Fatalf("col after tab = %d, want the custom stop at 3", got)
	}
}

func TestEraseLineModes(t *testing.T) {
	s := New(term.Size{Rows: 1, Cols: 5}, 10)
	p := parser.New()
	feed(t, s, p, "abcd\x1b[1;3H\x1b[1K")

	for c := uint16(0); c <= 2; c++ {
		if got := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: c}); got.Ch != ' ' {
			t.Fatalf("cell(0,%d) = %q, want blank after EL left", c, got.Ch)
		}
	}
	if got := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 3}); got.Ch != 'd' {
		t.Fatalf("cell(0,3) = %q, want 'd' untouched", got.Ch)
	}

	feed(t, s, p, "\x1b[2K")
	if got := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 3}); got.Ch != ' ' {
		t.Fatalf("cell(0,3) = %q, want blank after EL all", got.Ch)
	}
}

func TestEraseDisplayPreservesCursorAndScrollback(t *testing.T) {
	s := New(term.Size{Rows: 2, Cols: 5}, 10)
	p := parser.New()
	feed(t, s, p, "aaaaabbbbbccccc") // wraps and scrolls twice
	before := s.Scrollback.Len()
	feed(t, s, p, "\x1b[1;3H\x1b[2J")

	snap := s.Snapshot()
	if snap.Cursor != (term.Position{Row: 0, Col: 2}) {
		t.Fatalf("cursor = %+v, want unchanged (0,2)", snap.Cursor)
	}
	if s.Scrollback.Len() != before {
		t.Fatalf("scrollback changed across ED All: %d -> %d", before, s.Scrollback.Len())
	}
	sz := s.Size()
	for r := uint16(0); r < sz.Rows; r++ {
		for c := uint16(0); c < sz.Cols; c++ {
			if got := s.PrimaryBuffer().GetCell(term.Position{Row: r, Col: c}); got != term.BlankCell() {
				t.Fatalf("cell(%d,%d) = %+v, want default blank", r, c, got)
			}
		}
	}
}

func TestEraseScrollback(t *testing.T) {
	s := New(term.Size{Rows: 2, Cols: 3}, 10)
	p := parser.New()
	feed(t, s, p, "aaabbbccc")
	if s.Scrollback.Len() == 0 {
		t.Fatalf("expected scrollback content before ED 3")
	}
	feed(t, s, p, "\x1b[3J")
	if s.Scrollback.Len() != 0 {
		t.Fatalf("scrollback = %d lines after ED 3, want 0", s.Scrollback.Len())
	}
}

func TestFullWrapProperty(t *testing.T) {
	const rows, cols = 4, 5
	s := New(term.Size{Rows: rows, Cols: cols}, 100)
	p := parser.New()

	const n = 13 // n < rows*cols
	for i := 0; i < n; i++ {
		feed(t, s, p, "x")
	}
	snap := s.Snapshot()
	if snap.Cursor != (term.Position{Row: n / cols, Col: n % cols}) {
		t.Fatalf("cursor = %+v, want (%d,%d)", snap.Cursor, n/cols, n%cols)
	}
}

func TestReverseIndexAtTopScrollsDown(t *testing.T) {
	s := New(term.Size{Rows: 3, Cols: 5}, 10)
	p := parser.New()
	feed(t, s, p, "top\x1b[1;1H\x1bM")

	if got := s.Snapshot().Cursor.Row; got != 0 {
		t.Fatalf("cursor row = %d, want 0", got)
	}
	if got := s.PrimaryBuffer().GetCell(term.Position{Row: 1, Col: 0}); got.Ch != 't' {
		t.Fatalf("cell(1,0) = %q, want 't' pushed down", got.Ch)
	}
	if got := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0}); got.Ch != ' ' {
		t.Fatalf("cell(0,0) = %q, want blank inserted row", got.Ch)
	}
}

func TestDecscusrSelectsCursorStyle(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 5}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[4 q")

	want := term.CursorStyle{Shape: term.CursorUnderline, Blink: false}
	if got := s.CursorStyle(); got != want {
		t.Fatalf("cursor style = %+v, want %+v", got, want)
	}
}

func TestCursorVisibilityMode(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 5}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[?25l")
	if s.Snapshot().CursorVisible {
		t.Fatalf("cursor still visible after ?25l")
	}
	feed(t, s, p, "\x1b[?25h")
	if !s.Snapshot().CursorVisible {
		t.Fatalf("cursor not visible after ?25h")
	}
}

func TestBracketedPasteMode(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 5}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[?2004h")
	if !s.Mode().Has(ModeBracketedPaste) {
		t.Fatalf("bracketed paste not set")
	}
	feed(t, s, p, "\x1b[?2004l")
	if s.Mode().Has(ModeBracketedPaste) {
		t.Fatalf("bracketed paste not cleared")
	}
}

func TestResizePreservesOverlap(t *testing.T) {
	s := New(term.Size{Rows: 4, Cols: 6}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b[2;2Hkeep")

	s.Resize(term.Size{Rows: 2, Cols: 4})
	if got := s.PrimaryBuffer().GetCell(term.Position{Row: 1, Col: 1}); got.Ch != 'k' {
		t.Fatalf("cell(1,1) = %q, want 'k' preserved", got.Ch)
	}
	snap := s.Snapshot()
	if snap.Cursor.Row >= 2 || snap.Cursor.Col >= 4 {
		t.Fatalf("cursor = %+v, want inside the new screen", snap.Cursor)
	}
}

func TestZeroSizeDropsWrites(t *testing.T) {
	s := New(term.Size{Rows: 0, Cols: 0}, 10)
	p := parser.New()
	feed(t, s, p, "hello\x1b[5;5H")
	// Nothing to assert beyond "no panic": there is no writable area.
	if got := s.Snapshot().Size; !got.Empty() {
		t.Fatalf("size = %+v, want empty", got)
	}
}

func TestApplyChunkingIndependence(t *testing.T) {
	input := "ab\x1b[31mcd\x1b[2;2Hef\ngh"

	one := New(term.Size{Rows: 5, Cols: 10}, 10)
	pOne := parser.New()
	feed(t, one, pOne, input)

	many := New(term.Size{Rows: 5, Cols: 10}, 10)
	pMany := parser.New()
	for _, b := range []byte(input) {
		for _, ev := range pMany.Parse([]byte{b}) {
			many.Apply(ev)
		}
	}

	if one.Snapshot() != many.Snapshot() {
		t.Fatalf("snapshots differ: %+v vs %+v", one.Snapshot(), many.Snapshot())
	}
	for r := uint16(0); r < 5; r++ {
		for c := uint16(0); c < 10; c++ {
			pos := term.Position{Row: r, Col: c}
			if one.PrimaryBuffer().GetCell(pos) != many.PrimaryBuffer().GetCell(pos) {
				t.Fatalf("cell(%d,%d) differs across chunking", r, c)
			}
		}
	}
}

func TestOscTitleLatched(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	before := s.PrimaryBuffer().GetLine(0)
	feed(t, s, p, "\x1b]0;hello\x07")

	if s.Title() != "hello" {
		t.Fatalf("title = %q, want %q", s.Title(), "hello")
	}
	after := s.PrimaryBuffer().GetLine(0)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("screen changed on a title-only sequence at col %d", i)
		}
	}
}

func TestOscPaletteOverride(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 10}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b]4;17;#0a0b0c\x07")

	got := s.palette.Resolve(term.IndexedColor(17))
	if got != term.RGBColor(10, 11, 12) {
		t.Fatalf("palette[17] = %+v, want #0a0b0c", got)
	}
}

func TestInsertDeleteChars(t *testing.T) {
	s := New(term.Size{Rows: 1, Cols: 6}, 10)
	p := parser.New()
	feed(t, s, p, "abcde\x1b[1;2H\x1b[2P")

	want := "ade   "
	for i, ch := range want {
		got := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: uint16(i)})
		if got.Ch != ch {
			t.Fatalf("after DCH cell(0,%d) = %q, want %q", i, got.Ch, ch)
		}
	}

	feed(t, s, p, "\x1b[2@")
	want = "a  de "
	for i, ch := range want {
		got := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: uint16(i)})
		if got.Ch != ch {
			t.Fatalf("after ICH cell(0,%d) = %q, want %q", i, got.Ch, ch)
		}
	}
}

func TestHyperlink(t *testing.T) {
	s := New(term.Size{Rows: 5, Cols: 20}, 10)
	p := parser.New()
	feed(t, s, p, "\x1b]8;;https://example.com\x07link\x1b]8;;\x07plain")

	linked := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 0})
	if linked.Hyperlink == 0 {
		t.Fatalf("expected hyperlink id set on 'l'")
	}
	if s.HyperlinkURI(linked.Hyperlink) != "https://example.com" {
		t.Fatalf("hyperlink uri = %q", s.HyperlinkURI(linked.Hyperlink))
	}
	plain := s.PrimaryBuffer().GetCell(term.Position{Row: 0, Col: 4})
	if plain.Hyperlink != 0 {
		t.Fatalf("expected no hyperlink after reset, got %d", plain.Hyperlink)
	}
}
