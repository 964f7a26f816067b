// Package state implements the terminal state model (cursor, screen
// buffers, scrollback, modes, attributes, palette, tab stops) and the
// ANSI/VT rules that govern how each parser.ParsedEvent mutates it.
package state

import (
	"github.com/vibetunnel/termcore/pkg/cursor"
	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/screen"
	"github.com/vibetunnel/termcore/pkg/scrollback"
	"github.com/vibetunnel/termcore/pkg/snapshot"
	"github.com/vibetunnel/termcore/pkg/term"
)

// TabStopInterval is the default spacing between tab stops on a freshly
// constructed or reset terminal.
const TabStopInterval = 8

// ReplyWriter is called by Apply when a parsed event requires the
// terminal to talk back to the PTY (currently only DSR, CSI n). The
// coordinator supplies this so replies travel through the same write path
// as any other outbound command.
type ReplyWriter func([]byte)

// TerminalState owns every piece of mutable terminal state: size, cursor,
// primary/alternate screen buffers, scrollback, mode flags, active
// attributes, palette, and tab stops. It is mutated only by Apply and is
// not internally synchronized: it is owned exclusively by the coordinator
// goroutine and must never be mutated from another one.
type TerminalState struct {
	size term.Size

	Cur *cursor.Cursor

	primary   *screen.Buffer
	alt       *screen.Buffer
	altActive bool

	Scrollback *scrollback.Buffer

	mode        Mode
	cursorStyle term.CursorStyle
	active      term.CellAttributes
	palette     term.Palette
	tabStops    map[uint16]bool

	currentHyperlink term.HyperlinkID
	nextHyperlinkID  term.HyperlinkID
	hyperlinks       map[term.HyperlinkID]string

	osc oscState

	reply ReplyWriter
}

// New constructs a TerminalState with default palette, tab stops every
// TabStopInterval columns, and a scrollback buffer of the given capacity
// (0 or negative uses scrollback.DefaultMaxLines).
func New(size term.Size, scrollbackMax int) *TerminalState {
	s := &TerminalState{
		size:        size,
		Cur:         cursor.New(),
		primary:     screen.New(size),
		Scrollback:  scrollback.New(scrollbackMax),
		mode:        DefaultMode,
		cursorStyle: term.DefaultCursorStyle,
		active:      term.DefaultAttributes(),
		palette:     term.DefaultPalette(),
		hyperlinks:  make(map[term.HyperlinkID]string),
	}
	s.resetTabStops()
	return s
}

// SetReplyWriter installs the callback Apply uses to answer device status
// reports. A nil writer silently drops replies.
func (s *TerminalState) SetReplyWriter(w ReplyWriter) { s.reply = w }

func (s *TerminalState) resetTabStops() {
	s.tabStops = make(map[uint16]bool)
	for c := uint16(TabStopInterval); c < s.size.Cols; c += TabStopInterval {
		s.tabStops[c] = true
	}
}

// Size returns the current screen size.
func (s *TerminalState) Size() term.Size { return s.size }

// Mode returns the current mode bit set.
func (s *TerminalState) Mode() Mode { return s.mode }

// CursorStyle returns the current DECSCUSR-selected style.
func (s *TerminalState) CursorStyle() term.CursorStyle { return s.cursorStyle }

// ActiveAttributes returns the attributes new printable writes will carry.
func (s *TerminalState) ActiveAttributes() term.CellAttributes { return s.active }

// AlternateScreenActive reports whether the alternate screen is in use.
func (s *TerminalState) AlternateScreenActive() bool { return s.altActive }

// ActiveBuffer returns whichever screen buffer is currently being drawn
// to: the alternate buffer if active, otherwise the primary.
func (s *TerminalState) ActiveBuffer() *screen.Buffer {
	if s.altActive {
		return s.alt
	}
	return s.primary
}

// PrimaryBuffer returns the primary screen buffer directly, regardless of
// which buffer is active. Useful for tests asserting the alternate-screen
// round-trip property.
func (s *TerminalState) PrimaryBuffer() *screen.Buffer { return s.primary }

// Snapshot returns a cheap, value-typed view of externally relevant state.
func (s *TerminalState) Snapshot() snapshot.TerminalSnapshot {
	return snapshot.TerminalSnapshot{
		Size:                  s.size,
		Cursor:                s.Cur.Position.Clamp(s.size),
		CursorVisible:         s.Cur.Visible && s.mode.Has(ModeCursorVisible),
		CursorStyle:           s.cursorStyle,
		Mode:                  uint32(s.mode),
		ActiveAttributes:      s.active,
		AlternateScreenActive: s.altActive,
	}
}

// Resize reshapes both screen buffers and the cursor: content is preserved
// in the overlapping region, the cursor ends inside the new screen, and
// tab stops are recomputed against the new width (preserving stale stops
// beyond the new width would be observably wrong).
func (s *TerminalState) Resize(newSize term.Size) {
	s.primary.Resize(newSize)
	if s.alt != nil {
		s.alt.Resize(newSize)
	}
	s.size = newSize
	s.Cur.Position = s.Cur.Position.Clamp(newSize)
	s.resetTabStops()
}

// Apply consumes one parser.ParsedEvent and advances the state. Every
// branch handles its full input domain (out-of-range parameters clamp,
// unknown sequences drop), so Apply never fails and never returns a
// termerror.KindState.
func (s *TerminalState) Apply(ev parser.ParsedEvent) {
	switch ev.Kind {
	case parser.EventText:
		s.writeText(ev.Text)
	case parser.EventControl:
		s.applyControl(ev.Control)
	case parser.EventCsi:
		s.applyCsi(ev.Csi)
	case parser.EventOsc:
		s.applyOsc(ev.Osc)
	case parser.EventEsc:
		s.applyEsc(ev.Esc)
	}
}
