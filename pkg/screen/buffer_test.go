package screen

import (
	"testing"

	"github.com/vibetunnel/termcore/pkg/term"
)

func TestSetGetCell(t *testing.T) {
	b := New(term.Size{Rows: 3, Cols: 3})
	b.SetCell(term.Position{Row: 1, Col: 1}, term.Cell{Ch: 'x'})
	if got := b.GetCell(term.Position{Row: 1, Col: 1}); got.Ch != 'x' {
		t.Fatalf("got %q, want 'x'", got.Ch)
	}
	if got := b.GetCell(term.Position{Row: 0, Col: 0}); got.Ch != ' ' {
		t.Fatalf("default cell not blank: %q", got.Ch)
	}
}

func TestOutOfBoundsIsNoop(t *testing.T) {
	b := New(term.Size{Rows: 2, Cols: 2})
	b.SetCell(term.Position{Row: 5, Col: 5}, term.Cell{Ch: 'x'})
	if got := b.GetCell(term.Position{Row: 5, Col: 5}); got.Ch != ' ' {
		t.Fatalf("out of bounds read should return blank, got %q", got.Ch)
	}
}

func TestScrollUpPair(t *testing.T) {
	b := New(term.Size{Rows: 3, Cols: 2})
	b.SetCell(term.Position{Row: 0, Col: 0}, term.Cell{Ch: 'a'})
	b.SetCell(term.Position{Row: 1, Col: 0}, term.Cell{Ch: 'b'})

	evicted := b.RemoveTopLine()
	b.AddBlankLine()

	if evicted[0].Ch != 'a' {
		t.Fatalf("evicted line = %+v, want starting with 'a'", evicted)
	}
	if got := b.GetCell(term.Position{Row: 0, Col: 0}); got.Ch != 'b' {
		t.Fatalf("row0 after scroll = %q, want 'b'", got.Ch)
	}
	if got := b.Size(); got.Rows != 3 {
		t.Fatalf("row count changed across the scroll pair: %+v", got)
	}
}

func TestInsertBlankLine(t *testing.T) {
	b := New(term.Size{Rows: 3, Cols: 2})
	b.SetCell(term.Position{Row: 0, Col: 0}, term.Cell{Ch: 'a'})
	b.InsertBlankLine(0)
	if got := b.GetCell(term.Position{Row: 0, Col: 0}); got.Ch != ' ' {
		t.Fatalf("row0 after insert = %q, want blank", got.Ch)
	}
	if got := b.GetCell(term.Position{Row: 1, Col: 0}); got.Ch != 'a' {
		t.Fatalf("row1 after insert = %q, want 'a'", got.Ch)
	}
}

func TestResizeWidthFirstThenHeight(t *testing.T) {
	b := New(term.Size{Rows: 2, Cols: 2})
	b.SetCell(term.Position{Row: 0, Col: 0}, term.Cell{Ch: 'a'})
	b.SetCell(term.Position{Row: 1, Col: 1}, term.Cell{Ch: 'b'})

	b.Resize(term.Size{Rows: 3, Cols: 1})

	if got := b.GetCell(term.Position{Row: 0, Col: 0}); got.Ch != 'a' {
		t.Fatalf("row0col0 lost across resize: %q", got.Ch)
	}
	if got := b.Size(); got != (term.Size{Rows: 3, Cols: 1}) {
		t.Fatalf("size = %+v, want {3 1}", got)
	}
}
