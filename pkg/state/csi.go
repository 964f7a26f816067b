package state

import (
	"fmt"
	"log"

	"github.com/vibetunnel/termcore/internal/clamp"
	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/screen"
	"github.com/vibetunnel/termcore/pkg/term"
)

// applyCsi dispatches a fully parsed CSI sequence on its final byte.
func (s *TerminalState) applyCsi(seq parser.CsiSequence) {
	if seq.Private != 0 {
		s.applyPrivateCsi(seq)
		return
	}

	switch seq.Final {
	case 'A':
		s.Cur.MoveBy(-param1(seq, 1), 0)
	case 'B':
		s.Cur.MoveBy(param1(seq, 1), 0)
	case 'C':
		s.Cur.MoveBy(0, param1(seq, 1))
	case 'D':
		s.Cur.MoveBy(0, -param1(seq, 1))
	case 'E': // CNL
		s.Cur.MoveBy(param1(seq, 1), 0)
		s.Cur.Position.Col = 0
	case 'F': // CPL
		s.Cur.MoveBy(-param1(seq, 1), 0)
		s.Cur.Position.Col = 0
	case 'G': // CHA
		s.Cur.SetCol(s.clampCol(param1(seq, 1) - 1))
	case 'H', 'f': // CUP / HVP
		row, col := param2(seq, 1, 1)
		s.Cur.SetPosition(term.Position{
			Row: uint16(s.clampRow(clampNonNeg(row - 1))),
			Col: uint16(s.clampCol(clampNonNeg(col - 1))),
		})
	case 'J': // ED
		s.eraseDisplay(eraseModeFromParam(param1(seq, 0)))
	case 'K': // EL
		s.eraseLine(eraseModeFromParam(param1(seq, 0)))
	case 'S': // SU
		s.scrollUp(param1(seq, 1))
	case 'T': // SD
		s.scrollDown(param1(seq, 1))
	case 'L': // IL - insert blank line(s) at cursor row
		for i := 0; i < param1(seq, 1); i++ {
			s.ActiveBuffer().InsertBlankLine(s.Cur.Position.Row)
			s.ActiveBuffer().RemoveBottomLine()
		}
	case 'M': // DL - delete line(s) at cursor row
		for i := 0; i < param1(seq, 1); i++ {
			s.deleteLineAt(s.Cur.Position.Row)
		}
	case 'P': // DCH - delete character(s)
		s.deleteChars(param1(seq, 1))
	case '@': // ICH - insert character(s)
		s.insertChars(param1(seq, 1))
	case 'X': // ECH - erase character(s)
		s.eraseChars(param1(seq, 1))
	case 'd': // VPA - vertical position absolute
		s.Cur.Position.Row = uint16(s.clampRow(clampNonNeg(param1(seq, 1) - 1)))
	case 'm': // SGR
		s.applySgr(seq.Params)
	case 'n': // DSR
		s.applyDsr(param1(seq, 0))
	case 'q':
		if len(seq.Intermediate) == 1 && seq.Intermediate[0] == ' ' {
			s.applyDecscusr(param1(seq, 0))
		}
	case 's': // SCP
		s.Cur.Save()
	case 'u': // RCP
		s.Cur.Restore()
	case 'h': // SM
		for _, p := range seq.Params {
			if bit, ok := ansiModeTable[p]; ok {
				s.mode = s.mode.Set(bit)
			} else {
				log.Printf("[WARN] ignoring unknown ANSI mode %d", p)
			}
		}
	case 'l': // RM
		for _, p := range seq.Params {
			if bit, ok := ansiModeTable[p]; ok {
				s.mode = s.mode.Clear(bit)
			} else {
				log.Printf("[WARN] ignoring unknown ANSI mode %d", p)
			}
		}
	default:
		// Unrecognized final byte, dropped.
	}
}

// applyPrivateCsi handles DEC private sequences: CSI ? Ps h/l (DECSET/RST).
// Other private markers are dropped. DECSCUSR (CSI Ps SP q) carries an
// intermediate byte rather than a private marker and is handled in applyCsi.
func (s *TerminalState) applyPrivateCsi(seq parser.CsiSequence) {
	if seq.Private != '?' {
		return
	}
	switch seq.Final {
	case 'h':
		for _, p := range seq.Params {
			s.setDecMode(p, true)
		}
	case 'l':
		for _, p := range seq.Params {
			s.setDecMode(p, false)
		}
	}
}

func (s *TerminalState) setDecMode(code int, enabled bool) {
	switch code {
	case altScreenCode47, altScreenCode1047:
		s.setAlternateScreen(enabled, false)
		return
	case altScreenCode1049:
		s.setAlternateScreen(enabled, true)
		return
	}
	bit, ok := decModeTable[code]
	if !ok {
		log.Printf("[WARN] ignoring unknown DEC private mode %d", code)
		return
	}
	if enabled {
		s.mode = s.mode.Set(bit)
	} else {
		s.mode = s.mode.Clear(bit)
	}
	if bit == ModeCursorVisible {
		s.Cur.Visible = enabled
	}
}

// setAlternateScreen implements CSI ?47/1047/1049 h/l. The 1049 variant
// additionally saves/restores the cursor around the switch; 47 and 1047
// leave the cursor alone.
func (s *TerminalState) setAlternateScreen(enabled, saveCursor bool) {
	if enabled == s.altActive {
		return
	}
	if enabled {
		if s.alt == nil {
			s.alt = screen.New(s.size)
		} else {
			s.alt.Clear()
		}
		if saveCursor {
			s.Cur.Save()
		}
		s.altActive = true
	} else {
		s.altActive = false
		if saveCursor {
			s.Cur.Restore()
		}
	}
	s.mode = s.mode.SetIf(ModeAlternateScreen, s.altActive)
}

// applyDsr answers a device status report via the installed ReplyWriter.
// Ps=5 reports "terminal OK"; Ps=6 reports the cursor position.
func (s *TerminalState) applyDsr(ps int) {
	if s.reply == nil {
		return
	}
	switch ps {
	case 5:
		s.reply([]byte("\x1b[0n"))
	case 6:
		pos := s.Cur.Position.Clamp(s.size)
		s.reply([]byte(fmt.Sprintf("\x1b[%d;%dR", pos.Row+1, pos.Col+1)))
	}
}

// applyDecscusr implements CSI Ps SP q, selecting the cursor's shape and
// blink state per the standard DECSCUSR numbering.
func (s *TerminalState) applyDecscusr(ps int) {
	switch ps {
	case 0, 1:
		s.cursorStyle = term.CursorStyle{Shape: term.CursorBlock, Blink: true}
	case 2:
		s.cursorStyle = term.CursorStyle{Shape: term.CursorBlock, Blink: false}
	case 3:
		s.cursorStyle = term.CursorStyle{Shape: term.CursorUnderline, Blink: true}
	case 4:
		s.cursorStyle = term.CursorStyle{Shape: term.CursorUnderline, Blink: false}
	case 5:
		s.cursorStyle = term.CursorStyle{Shape: term.CursorBar, Blink: true}
	case 6:
		s.cursorStyle = term.CursorStyle{Shape: term.CursorBar, Blink: false}
	}
}

func (s *TerminalState) deleteLineAt(row uint16) {
	buf := s.ActiveBuffer()
	sz := buf.Size()
	if row >= sz.Rows {
		return
	}
	for r := row; r+1 < sz.Rows; r++ {
		buf.SetLine(r, buf.GetLine(r+1))
	}
	buf.ClearLine(sz.Rows - 1)
}

func (s *TerminalState) deleteChars(n int) {
	buf := s.ActiveBuffer()
	sz := buf.Size()
	row := s.Cur.Position.Row
	col := s.Cur.Position.Col
	if row >= sz.Rows || n <= 0 {
		return
	}
	for c := col; c < sz.Cols; c++ {
		src := c + uint16(n)
		if src < sz.Cols {
			buf.SetCell(term.Position{Row: row, Col: c}, buf.GetCell(term.Position{Row: row, Col: src}))
		} else {
			buf.SetCell(term.Position{Row: row, Col: c}, term.BlankCell())
		}
	}
}

func (s *TerminalState) insertChars(n int) {
	buf := s.ActiveBuffer()
	sz := buf.Size()
	row := s.Cur.Position.Row
	col := s.Cur.Position.Col
	if row >= sz.Rows || n <= 0 {
		return
	}
	for c := sz.Cols; c > col; c-- {
		idx := c - 1
		src := idx - uint16(n)
		if idx >= uint16(n) && src >= col {
			buf.SetCell(term.Position{Row: row, Col: idx}, buf.GetCell(term.Position{Row: row, Col: src}))
		} else {
			buf.SetCell(term.Position{Row: row, Col: idx}, term.BlankCell())
		}
	}
}

func (s *TerminalState) eraseChars(n int) {
	buf := s.ActiveBuffer()
	sz := buf.Size()
	row := s.Cur.Position.Row
	col := s.Cur.Position.Col
	if row >= sz.Rows {
		return
	}
	end := col + uint16(n)
	if end > sz.Cols {
		end = sz.Cols
	}
	for c := col; c < end; c++ {
		buf.SetCell(term.Position{Row: row, Col: c}, term.BlankCell())
	}
}

func eraseModeFromParam(p int) eraseMode {
	switch p {
	case 1:
		return eraseAbove
	case 2:
		return eraseAll
	case 3:
		return eraseSaved
	default:
		return eraseBelow
	}
}

// param1 returns the first CSI parameter, or def if it is absent or zero
// (movement counts promote 0 to their default).
func param1(seq parser.CsiSequence, def int) int {
	if len(seq.Params) == 0 || seq.Params[0] == 0 {
		return def
	}
	return seq.Params[0]
}

func param2(seq parser.CsiSequence, def1, def2 int) (int, int) {
	p1, p2 := def1, def2
	if len(seq.Params) > 0 && seq.Params[0] != 0 {
		p1 = seq.Params[0]
	}
	if len(seq.Params) > 1 && seq.Params[1] != 0 {
		p2 = seq.Params[1]
	}
	return p1, p2
}

func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// clampRow/clampCol bound an absolute-position target (CUP/HVP/CHA/VPA) to
// the screen, so CSI 999;999H lands on the bottom-right cell rather than
// past it. v is already non-negative in every caller; clamp.Max supplies
// the upper bound.
func (s *TerminalState) clampRow(v int) int {
	max := uint16(0)
	if s.size.Rows > 0 {
		max = s.size.Rows - 1
	}
	return int(clamp.Max(uint16(v), max))
}

func (s *TerminalState) clampCol(v int) int {
	max := uint16(0)
	if s.size.Cols > 0 {
		max = s.size.Cols - 1
	}
	return int(clamp.Max(uint16(v), max))
}
