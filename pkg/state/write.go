package state

import (
	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/term"
)

// writeText writes a run of decoded printable characters at the cursor,
// advancing and wrapping it as it goes. With no writable area the run is
// dropped.
func (s *TerminalState) writeText(text string) {
	if s.size.Empty() {
		return
	}
	for _, ch := range text {
		s.writeChar(ch)
	}
}

func (s *TerminalState) writeChar(ch rune) {
	if s.Cur.Position.Row >= s.size.Rows {
		s.scrollUp(1)
		s.Cur.Position.Row = s.size.Rows - 1
	}

	buf := s.ActiveBuffer()
	buf.SetCell(s.Cur.Position, term.Cell{
		Ch:        ch,
		Attrs:     s.active,
		Hyperlink: s.currentHyperlink,
	})

	s.Cur.Position.Col++
	if s.Cur.Position.Col >= s.size.Cols {
		if s.mode.Has(ModeLineWrap) {
			s.Cur.Position.Col = 0
			s.Cur.Position.Row++
			if s.Cur.Position.Row >= s.size.Rows {
				s.scrollUp(1)
				s.Cur.Position.Row = s.size.Rows - 1
			}
		} else {
			if s.size.Cols > 0 {
				s.Cur.Position.Col = s.size.Cols - 1
			}
		}
	}
}

// applyControl handles the C0 controls. A line feed only moves the cursor;
// it may land on the virtual row one past the bottom of the screen, and the
// deferred scroll happens on the next printable write. This keeps the
// cursor position well-defined after an isolated newline at the bottom.
func (s *TerminalState) applyControl(c parser.ControlEvent) {
	switch c {
	case parser.ControlNewLine:
		s.Cur.Position.Row++
	case parser.ControlCarriageReturn:
		s.Cur.Position.Col = 0
	case parser.ControlTab:
		s.Cur.Position.Col = s.nextTabStop(s.Cur.Position.Col)
	case parser.ControlBackspace:
		s.Cur.MoveBy(0, -1)
	case parser.ControlBell:
		// No visible effect; the coordinator may choose to surface this.
	case parser.ControlFormFeed:
		s.eraseDisplay(eraseAll)
	case parser.ControlVerticalTab:
		s.Cur.Position.Row++
	}
}

func (s *TerminalState) nextTabStop(col uint16) uint16 {
	if s.size.Cols == 0 {
		return 0
	}
	for c := col + 1; c < s.size.Cols; c++ {
		if s.tabStops[c] {
			return c
		}
	}
	return s.size.Cols - 1
}

// scrollUp repeats N times: evict the top row into scrollback (primary
// screen only; the alternate screen has no history) and append a blank
// row.
func (s *TerminalState) scrollUp(n int) {
	buf := s.ActiveBuffer()
	intoScrollback := !s.altActive
	for i := 0; i < n; i++ {
		evicted := buf.RemoveTopLine()
		if intoScrollback && evicted != nil {
			s.Scrollback.Push(evicted)
		}
		buf.AddBlankLine()
	}
}

// scrollDown repeats N times: insert a blank row at the top and drop the
// bottom row.
func (s *TerminalState) scrollDown(n int) {
	buf := s.ActiveBuffer()
	for i := 0; i < n; i++ {
		buf.InsertBlankLine(0)
		buf.RemoveBottomLine()
	}
}

type eraseMode int

const (
	eraseBelow eraseMode = iota
	eraseAbove
	eraseAll
	eraseSaved
)

func (s *TerminalState) eraseDisplay(mode eraseMode) {
	buf := s.ActiveBuffer()
	row := s.Cur.Position.Row
	col := s.Cur.Position.Col
	blank := term.Cell{Ch: ' ', Attrs: term.DefaultAttributes()}

	switch mode {
	case eraseBelow:
		for c := col; c < s.size.Cols; c++ {
			buf.SetCell(term.Position{Row: row, Col: c}, blank)
		}
		for r := row + 1; r < s.size.Rows; r++ {
			buf.ClearLine(r)
		}
	case eraseAbove:
		for r := uint16(0); r < row; r++ {
			buf.ClearLine(r)
		}
		for c := uint16(0); c <= col && c < s.size.Cols; c++ {
			buf.SetCell(term.Position{Row: row, Col: c}, blank)
		}
	case eraseAll:
		buf.Clear()
	case eraseSaved:
		s.Scrollback.Clear()
	}
}

func (s *TerminalState) eraseLine(mode eraseMode) {
	buf := s.ActiveBuffer()
	row := s.Cur.Position.Row
	col := s.Cur.Position.Col
	blank := term.Cell{Ch: ' ', Attrs: term.DefaultAttributes()}

	switch mode {
	case eraseBelow:
		for c := col; c < s.size.Cols; c++ {
			buf.SetCell(term.Position{Row: row, Col: c}, blank)
		}
	case eraseAbove:
		for c := uint16(0); c <= col && c < s.size.Cols; c++ {
			buf.SetCell(term.Position{Row: row, Col: c}, blank)
		}
	case eraseAll:
		buf.ClearLine(row)
	}
}
