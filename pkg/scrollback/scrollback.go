// Package scrollback implements the bounded FIFO of screen lines evicted
// off the top of the screen by scrolling.
package scrollback

import "github.com/vibetunnel/termcore/pkg/term"

// DefaultMaxLines is the default capacity when none is configured.
const DefaultMaxLines = 10000

// Buffer is a bounded FIFO of lines. Pushing at capacity evicts the oldest
// line. Lines retain the width they had at eviction time; consumers must
// tolerate width drift across the buffer.
type Buffer struct {
	maxLines int
	lines    [][]term.Cell
}

// New creates a scrollback buffer with the given capacity. A non-positive
// maxLines falls back to DefaultMaxLines.
func New(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Buffer{maxLines: maxLines}
}

// Push appends a line, evicting the oldest line first if the buffer is at
// capacity.
func (b *Buffer) Push(line []term.Cell) {
	if len(b.lines) >= b.maxLines {
		b.lines = b.lines[1:]
	}
	cp := make([]term.Cell, len(line))
	copy(cp, line)
	b.lines = append(b.lines, cp)
}

// Len reports how many lines are currently stored.
func (b *Buffer) Len() int { return len(b.lines) }

// MaxLines reports the configured capacity.
func (b *Buffer) MaxLines() int { return b.maxLines }

// GetLine returns the i-th oldest line (0 = oldest), or nil if i is out of
// range.
func (b *Buffer) GetLine(i int) []term.Cell {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return b.lines[i]
}

// Clear discards every stored line, used by EraseDisplay(Saved). A full
// terminal reset (RIS) replaces the buffer with a new one instead.
func (b *Buffer) Clear() {
	b.lines = nil
}
