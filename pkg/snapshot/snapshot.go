// Package snapshot defines the cheap-to-copy view callers can poll between
// StateChanged events.
package snapshot

import "github.com/vibetunnel/termcore/pkg/term"

// TerminalSnapshot is a point-in-time, value-typed view of a terminal's
// externally relevant state. It carries no buffers (those are read a line
// at a time via the state engine's own accessors) because a full-screen
// copy on every poll would defeat the point of a "cheap" snapshot.
type TerminalSnapshot struct {
	Size                  term.Size
	Cursor                term.Position
	CursorVisible         bool
	CursorStyle           term.CursorStyle
	Mode                  uint32
	ActiveAttributes      term.CellAttributes
	AlternateScreenActive bool
}
