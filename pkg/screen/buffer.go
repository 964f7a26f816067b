// Package screen implements the row-major grid of cells that backs a
// terminal's primary or alternate buffer.
package screen

import "github.com/vibetunnel/termcore/pkg/term"

// Buffer is a rectangular vector of rows*cols cells. Every slot always
// holds a valid term.Cell; reads out of bounds return a blank cell and
// writes out of bounds are no-ops.
//
// RemoveTopLine, AddBlankLine, InsertBlankLine, and RemoveBottomLine are
// individually row-count-changing primitives: the state engine pairs them
// (RemoveTopLine+AddBlankLine for ScrollUp, InsertBlankLine+RemoveBottomLine
// for ScrollDown) to scroll without changing the buffer's advertised Size.
// The buffer is only guaranteed to match Size between state-engine calls,
// never mid-pair.
type Buffer struct {
	cols uint16
	rows [][]term.Cell
}

// New creates a blank buffer of the given size.
func New(sz term.Size) *Buffer {
	b := &Buffer{cols: sz.Cols}
	b.rows = make([][]term.Cell, sz.Rows)
	for i := range b.rows {
		b.rows[i] = blankRow(sz.Cols)
	}
	return b
}

func blankRow(cols uint16) []term.Cell {
	row := make([]term.Cell, cols)
	for i := range row {
		row[i] = term.BlankCell()
	}
	return row
}

// Size returns the buffer's current shape.
func (b *Buffer) Size() term.Size {
	return term.Size{Rows: uint16(len(b.rows)), Cols: b.cols}
}

func (b *Buffer) inBounds(pos term.Position) bool {
	return int(pos.Row) < len(b.rows) && pos.Col < b.cols
}

// SetCell writes a cell at pos. Out-of-bounds writes are silently dropped.
func (b *Buffer) SetCell(pos term.Position, c term.Cell) {
	if !b.inBounds(pos) {
		return
	}
	b.rows[pos.Row][pos.Col] = c
}

// GetCell reads the cell at pos, or a blank cell if pos is out of bounds.
func (b *Buffer) GetCell(pos term.Position) term.Cell {
	if !b.inBounds(pos) {
		return term.BlankCell()
	}
	return b.rows[pos.Row][pos.Col]
}

// GetLine returns a copy of the row-th line, or nil if row is out of bounds.
func (b *Buffer) GetLine(row uint16) []term.Cell {
	if int(row) >= len(b.rows) {
		return nil
	}
	line := make([]term.Cell, len(b.rows[row]))
	copy(line, b.rows[row])
	return line
}

// RemoveTopLine drops row 0, shifting every other row up by one, and
// shrinks the buffer's row count by one. It returns the removed line so
// callers can push it into scrollback.
func (b *Buffer) RemoveTopLine() []term.Cell {
	if len(b.rows) == 0 {
		return nil
	}
	top := b.rows[0]
	b.rows = b.rows[1:]
	return top
}

// AddBlankLine appends a blank row at the bottom, growing the row count
// by one.
func (b *Buffer) AddBlankLine() {
	b.rows = append(b.rows, blankRow(b.cols))
}

// InsertBlankLine inserts a blank row at the given index, shifting rows at
// and below it down by one and growing the row count by one. Out-of-range
// indices beyond the current row count are clamped to the end.
func (b *Buffer) InsertBlankLine(row uint16) {
	at := int(row)
	if at > len(b.rows) {
		at = len(b.rows)
	}
	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = blankRow(b.cols)
}

// RemoveBottomLine drops the last row, shrinking the row count by one. It
// returns the removed line.
func (b *Buffer) RemoveBottomLine() []term.Cell {
	if len(b.rows) == 0 {
		return nil
	}
	last := len(b.rows) - 1
	bottom := b.rows[last]
	b.rows = b.rows[:last]
	return bottom
}

// Clear blanks every cell in the buffer.
func (b *Buffer) Clear() {
	for r := range b.rows {
		b.rows[r] = blankRow(b.cols)
	}
}

// SetLine overwrites an entire row with line, padding with blanks or
// truncating to fit the buffer's column count. A no-op if row is out of
// bounds.
func (b *Buffer) SetLine(row uint16, line []term.Cell) {
	if int(row) >= len(b.rows) {
		return
	}
	dst := blankRow(b.cols)
	copy(dst, line)
	b.rows[row] = dst
}

// ClearLine blanks an entire row.
func (b *Buffer) ClearLine(row uint16) {
	if int(row) >= len(b.rows) {
		return
	}
	b.rows[row] = blankRow(b.cols)
}

// ClearCell blanks a single cell to the default blank cell.
func (b *Buffer) ClearCell(pos term.Position) {
	b.SetCell(pos, term.BlankCell())
}

// Resize reshapes the buffer: width changes first (right-extend or
// truncate each row), then height changes (append or drop rows from the
// tail). No reflow: pre-existing cells at (r,c) with r<min(oldRows,newRows)
// and c<min(oldCols,newCols) are preserved.
func (b *Buffer) Resize(newSize term.Size) {
	oldCols := b.cols
	if newSize.Cols != oldCols {
		for r := range b.rows {
			row := b.rows[r]
			if newSize.Cols > oldCols {
				extended := make([]term.Cell, newSize.Cols)
				copy(extended, row)
				for c := oldCols; c < newSize.Cols; c++ {
					extended[c] = term.BlankCell()
				}
				b.rows[r] = extended
			} else {
				b.rows[r] = row[:newSize.Cols]
			}
		}
		b.cols = newSize.Cols
	}

	oldRows := uint16(len(b.rows))
	if newSize.Rows > oldRows {
		for r := oldRows; r < newSize.Rows; r++ {
			b.rows = append(b.rows, blankRow(b.cols))
		}
	} else if newSize.Rows < oldRows {
		b.rows = b.rows[:newSize.Rows]
	}
}
