// Package cursor implements the cursor position, its single-slot
// save/restore, and the visibility flag.
package cursor

import (
	"github.com/vibetunnel/termcore/internal/clamp"
	"github.com/vibetunnel/termcore/pkg/term"
)

// Cursor tracks position, a single saved-position slot, and visibility.
// Arithmetic on both axes saturates at zero; upper bounds (row/col must
// stay inside the screen, except the row==rows sentinel) are enforced by
// the state engine, not here.
type Cursor struct {
	Position term.Position
	saved    *term.Position
	Visible  bool
}

// New creates a cursor at the origin, visible, as a fresh terminal starts.
func New() *Cursor {
	return &Cursor{Visible: true}
}

// MoveBy applies signed deltas to row and col, saturating at zero.
func (c *Cursor) MoveBy(dRow, dCol int) {
	c.Position.Row = clamp.AddInt(c.Position.Row, dRow)
	c.Position.Col = clamp.AddInt(c.Position.Col, dCol)
}

// SetCol sets the column directly, saturating at zero (negative values
// clamp to 0 rather than wrapping).
func (c *Cursor) SetCol(col int) {
	c.Position.Col = clamp.AddInt(0, col)
}

// SetPosition sets both axes directly.
func (c *Cursor) SetPosition(pos term.Position) {
	c.Position = pos
}

// Save copies the current position into the single save slot, overwriting
// any previous save. Only position is captured, never attributes.
func (c *Cursor) Save() {
	pos := c.Position
	c.saved = &pos
}

// Restore copies the saved position back, if one exists. Restoring with
// nothing saved is a no-op, matching xterm's behavior of leaving the
// cursor where it is.
func (c *Cursor) Restore() {
	if c.saved == nil {
		return
	}
	c.Position = *c.saved
}

// HasSaved reports whether a position has been saved since the last reset.
func (c *Cursor) HasSaved() bool { return c.saved != nil }

// Reset returns the cursor to its power-on state: origin, visible, no
// saved position. Used by RIS (ESC c).
func (c *Cursor) Reset() {
	c.Position = term.Position{}
	c.saved = nil
	c.Visible = true
}
