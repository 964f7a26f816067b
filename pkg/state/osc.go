package state

import (
	"github.com/vibetunnel/termcore/pkg/parser"
	"github.com/vibetunnel/termcore/pkg/term"
)

// oscState holds the title and clipboard content, which have no
// representation inside the screen buffers (there is nowhere to render a
// title). Apply has no event-publish path of its own, so the most recent
// value of each is simply latched here and read through the exported
// accessors below; the coordinator does not publish them as events.
type oscState struct {
	title     string
	clipboard string
}

// applyOsc dispatches a fully parsed OSC sequence.
func (s *TerminalState) applyOsc(seq parser.OscSequence) {
	switch seq.Kind {
	case parser.OscSetTitle:
		s.osc.title = seq.Title
	case parser.OscSetHyperlink:
		s.beginHyperlink(seq.Params, seq.URI)
	case parser.OscResetHyperlink:
		s.currentHyperlink = 0
	case parser.OscSetColor:
		s.applySetColor(seq.Index, seq.Spec)
	case parser.OscClipboard:
		s.osc.clipboard = seq.Spec
	}
}

// beginHyperlink mints or reuses a HyperlinkID for the given OSC 8
// parameters/URI pair and makes it the active hyperlink for subsequent
// printable writes. An empty URI resets to "no hyperlink", matching
// OscResetHyperlink.
func (s *TerminalState) beginHyperlink(params, uri string) {
	if uri == "" {
		s.currentHyperlink = 0
		return
	}
	if id, ok := parser.ParseHyperlinkID(params); ok && id != 0 {
		s.hyperlinks[term.HyperlinkID(id)] = uri
		s.currentHyperlink = term.HyperlinkID(id)
		return
	}
	s.nextHyperlinkID++
	id := s.nextHyperlinkID
	s.hyperlinks[id] = uri
	s.currentHyperlink = id
}

// HyperlinkURI returns the URI a hyperlink ID was bound to, or "" if none.
func (s *TerminalState) HyperlinkURI(id term.HyperlinkID) string {
	return s.hyperlinks[id]
}

// Title returns the most recent OSC 0/2 window title.
func (s *TerminalState) Title() string { return s.osc.title }

// Clipboard returns the data of the most recent OSC 52 sequence.
func (s *TerminalState) Clipboard() string { return s.osc.clipboard }

// applySetColor implements OSC 4;index;spec. Only the "#rrggbb" colorspec
// form is parsed; anything else is dropped.
func (s *TerminalState) applySetColor(index int, spec string) {
	if index < 0 || index > 255 {
		return
	}
	c, ok := parseHexColor(spec)
	if !ok {
		return
	}
	s.palette.Set(uint8(index), c)
}

func parseHexColor(spec string) (term.Color, bool) {
	if len(spec) != 7 || spec[0] != '#' {
		return term.Color{}, false
	}
	r, okR := hexByte(spec[1:3])
	g, okG := hexByte(spec[3:5])
	b, okB := hexByte(spec[5:7])
	if !okR || !okG || !okB {
		return term.Color{}, false
	}
	return term.RGBColor(int(r), int(g), int(b)), true
}

func hexByte(s string) (uint8, bool) {
	v := 0
	for _, c := range s {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		default:
			return 0, false
		}
	}
	return uint8(v), true
}
