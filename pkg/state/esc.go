package state

import (
	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/screen"
	"github.com/vibetunnel/termcore/pkg/scrollback"
	"github.com/vibetunnel/termcore/pkg/term"
)

// applyEsc dispatches a recognized single-byte ESC sequence.
func (s *TerminalState) applyEsc(seq parser.EscSequence) {
	switch seq.Kind {
	case parser.EscIndex: // IND, ESC D
		s.index()
	case parser.EscNextLine: // NEL, ESC E
		s.index()
		s.Cur.Position.Col = 0
	case parser.EscTabSet: // HTS, ESC H
		if s.Cur.Position.Col < s.size.Cols {
			s.tabStops[s.Cur.Position.Col] = true
		}
	case parser.EscReverseIndex: // RI, ESC M
		s.reverseIndex()
	case parser.EscSaveCursor: // DECSC, ESC 7
		s.Cur.Save()
	case parser.EscRestoreCursor: // DECRC, ESC 8
		s.Cur.Restore()
	case parser.EscKeypadApplication:
		s.mode = s.mode.Set(ModeApplicationKeypad)
	case parser.EscKeypadNumeric:
		s.mode = s.mode.Clear(ModeApplicationKeypad)
	case parser.EscReset: // RIS, ESC c
		s.reset()
	}
}

// index moves the cursor down one row, scrolling the active buffer when
// already at the last row. Unlike the C0 line feed handled in
// applyControl, IND/NEL scroll immediately rather than deferring to the
// next printable write.
func (s *TerminalState) index() {
	if s.Cur.Position.Row+1 >= s.size.Rows {
		s.scrollUp(1)
		return
	}
	s.Cur.Position.Row++
}

// reverseIndex moves the cursor up one row, scrolling the active buffer
// down when already at the top row so RI stays the exact mirror of IND.
func (s *TerminalState) reverseIndex() {
	if s.Cur.Position.Row == 0 {
		s.scrollDown(1)
		return
	}
	s.Cur.Position.Row--
}

// reset implements RIS (ESC c): a full power-on reset at the current size.
// Fresh buffers, default mode/attributes/palette, cleared scrollback,
// recomputed tab stops, and a reset cursor and hyperlink table.
func (s *TerminalState) reset() {
	s.primary = screen.New(s.size)
	s.alt = nil
	s.altActive = false
	s.Scrollback = scrollback.New(s.Scrollback.MaxLines())
	s.mode = DefaultMode
	s.cursorStyle = term.DefaultCursorStyle
	s.active = term.DefaultAttributes()
	s.palette = term.DefaultPalette()
	s.currentHyperlink = 0
	s.nextHyperlinkID = 0
	s.hyperlinks = make(map[term.HyperlinkID]string)
	s.Cur.Reset()
	s.resetTabStops()
}
