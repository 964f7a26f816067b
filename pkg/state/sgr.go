package state

import "github.com/vibetunnel/termcore/pkg/term"

// applySgr walks an SGR parameter list left to right, mutating s.active.
// An empty list is equivalent to a single 0 (full reset).
func (s *TerminalState) applySgr(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s.active = term.DefaultAttributes()
		case p == 1:
			s.active.Flags = s.active.Flags.Set(term.AttrBold)
		case p == 2:
			s.active.Flags = s.active.Flags.Set(term.AttrDim)
		case p == 3:
			s.active.Flags = s.active.Flags.Set(term.AttrItalic)
		case p == 4:
			s.active.Flags = s.active.Flags.Set(term.AttrUnderline)
		case p == 5:
			s.active.Flags = s.active.Flags.Set(term.AttrBlinkSlow)
		case p == 6:
			s.active.Flags = s.active.Flags.Set(term.AttrBlinkFast)
		case p == 7:
			s.active.Flags = s.active.Flags.Set(term.AttrReverse)
		case p == 8:
			s.active.Flags = s.active.Flags.Set(term.AttrHidden)
		case p == 9:
			s.active.Flags = s.active.Flags.Set(term.AttrStrikethrough)
		case p == 21:
			// 21 is treated as "not bold", not as xterm's double-underline
			// reuse of the code.
			s.active.Flags = s.active.Flags.Clear(term.AttrBold)
		case p == 22:
			s.active.Flags = s.active.Flags.Clear(term.AttrBold | term.AttrDim)
		case p == 23:
			s.active.Flags = s.active.Flags.Clear(term.AttrItalic)
		case p == 24:
			s.active.Flags = s.active.Flags.Clear(term.UnderlineStyleMask)
		case p == 25:
			s.active.Flags = s.active.Flags.Clear(term.AttrBlinkSlow | term.AttrBlinkFast)
		case p == 27:
			s.active.Flags = s.active.Flags.Clear(term.AttrReverse)
		case p == 28:
			s.active.Flags = s.active.Flags.Clear(term.AttrHidden)
		case p == 29:
			s.active.Flags = s.active.Flags.Clear(term.AttrStrikethrough)
		case p >= 30 && p <= 37:
			s.active.Fg = term.NamedColorOf(term.NamedColor(p - 30))
		case p == 38:
			c, consumed := decodeExtendedColor(params[i+1:])
			s.active.Fg = c
			i += consumed
		case p == 39:
			s.active.Fg = term.DefaultColor
		case p >= 40 && p <= 47:
			s.active.Bg = term.NamedColorOf(term.NamedColor(p - 40))
		case p == 48:
			c, consumed := decodeExtendedColor(params[i+1:])
			s.active.Bg = c
			i += consumed
		case p == 49:
			s.active.Bg = term.DefaultColor
		case p == 58:
			c, consumed := decodeExtendedColor(params[i+1:])
			s.active.UnderlineColor = &c
			i += consumed
		case p == 59:
			s.active.UnderlineColor = nil
		case p >= 90 && p <= 97:
			s.active.Fg = term.NamedColorOf(term.NamedColor(p - 90 + 8))
		case p >= 100 && p <= 107:
			s.active.Bg = term.NamedColorOf(term.NamedColor(p - 100 + 8))
		default:
			// Unrecognized SGR code, dropped.
		}
	}
}

// decodeExtendedColor decodes the "5;n" (indexed) or "2;r;g;b" (RGB) run
// following a 38/48/58 code. It returns the decoded color and how many of
// the following params it consumed.
func decodeExtendedColor(rest []int) (term.Color, int) {
	if len(rest) == 0 {
		return term.DefaultColor, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return term.DefaultColor, len(rest)
		}
		return term.IndexedColor(uint8(clampParam(rest[1]))), 2
	case 2:
		if len(rest) < 4 {
			return term.DefaultColor, len(rest)
		}
		return term.RGBColor(rest[1], rest[2], rest[3]), 4
	default:
		return term.DefaultColor, 1
	}
}

func clampParam(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
