package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIgnore
	stateOscString
	stateOscEscape
	stateDcsIgnore
)

// Parser is a Williams VT500-style byte automaton. It is incremental:
// state persists between Parse calls, so a sequence split arbitrarily
// across chunks parses identically to the same bytes delivered in one
// call. Callers must reuse the same Parser instance across every read
// from one PTY.
type Parser struct {
	st state

	pendingText []byte

	params       []int
	curParam     int
	curParamSet  bool
	anyParam     bool
	inSubParam   bool
	intermediate []byte
	private      byte

	oscBuf []byte

	events []ParsedEvent
}

// New creates a parser in the Ground state.
func New() *Parser {
	return &Parser{}
}

// Parse consumes data, advancing the state machine, and returns the
// ordered ParsedEvent sequence produced by this call. A printable run still
// pending at the end of the call is flushed as a Text event, so a run split
// across calls arrives as several Text events; once adjacent Text events
// are merged, streaming and single-shot parsing of the same bytes produce
// the same event sequence.
func (p *Parser) Parse(data []byte) []ParsedEvent {
	p.events = p.events[:0]
	for _, b := range data {
		p.step(b)
	}
	// End of call: flush whatever complete runes are pending so a caller
	// sees printable output without waiting on a trailing control byte.
	// Any incomplete multi-byte UTF-8 tail is held for the next Parse call
	// rather than decoded early, so a rune split across chunk boundaries
	// still produces the same event sequence as one delivered whole.
	p.flushText()
	out := make([]ParsedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *Parser) emit(ev ParsedEvent) {
	p.events = append(p.events, ev)
}

// flushText emits whatever complete runes are accumulated in pendingText as
// a single Text event, retaining any incomplete trailing UTF-8 sequence for
// the next call. Must be called before any non-text event is emitted.
func (p *Parser) flushText() {
	if len(p.pendingText) == 0 {
		return
	}
	var sb strings.Builder
	sb.Grow(len(p.pendingText))
	buf := p.pendingText
	consumed := 0
	for len(buf) > 0 && utf8.FullRune(buf) {
		r, size := utf8.DecodeRune(buf)
		sb.WriteRune(r)
		buf = buf[size:]
		consumed += size
	}
	if sb.Len() > 0 {
		p.emit(ParsedEvent{Kind: EventText, Text: sb.String()})
	}
	remaining := len(p.pendingText) - consumed
	copy(p.pendingText, p.pendingText[consumed:])
	p.pendingText = p.pendingText[:remaining]
}

func (p *Parser) step(b byte) {
	switch p.st {
	case stateGround:
		p.stepGround(b)
	case stateEscape:
		p.stepEscape(b)
	case stateEscapeIntermediate:
		p.stepEscapeIntermediate(b)
	case stateCsiEntry, stateCsiParam:
		p.stepCsi(b)
	case stateCsiIgnore:
		p.stepCsiIgnore(b)
	case stateOscString:
		p.stepOsc(b)
	case stateOscEscape:
		p.stepOscEscape(b)
	case stateDcsIgnore:
		p.stepDcsIgnore(b)
	}
}

func (p *Parser) stepGround(b byte) {
	switch b {
	case 0x00: // NUL, dropped
	case 0x07:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlBell})
	case 0x08:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlBackspace})
	case 0x09:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlTab})
	case 0x0A:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlNewLine})
	case 0x0B:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlVerticalTab})
	case 0x0C:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlFormFeed})
	case 0x0D:
		p.flushText()
		p.emit(ParsedEvent{Kind: EventControl, Control: ControlCarriageReturn})
	case 0x1B:
		p.flushText()
		p.st = stateEscape
	default:
		if b == 0x7F {
			return // DEL, not printable, dropped
		}
		if b < 0x20 {
			return // unrecognized C0, dropped
		}
		p.pendingText = append(p.pendingText, b)
	}
}

func (p *Parser) resetCsi() {
	p.params = p.params[:0]
	p.curParam = 0
	p.curParamSet = false
	p.anyParam = false
	p.inSubParam = false
	p.intermediate = p.intermediate[:0]
	p.private = 0
}

func (p *Parser) stepEscape(b byte) {
	switch b {
	case '[':
		p.resetCsi()
		p.st = stateCsiEntry
	case ']':
		p.oscBuf = p.oscBuf[:0]
		p.st = stateOscString
	case 'P', 'X', '^', '_': // DCS, SOS, PM, APC: swallow until ST
		p.st = stateDcsIgnore
	case 'D':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscIndex}})
		p.st = stateGround
	case 'E':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscNextLine}})
		p.st = stateGround
	case 'H':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscTabSet}})
		p.st = stateGround
	case 'M':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscReverseIndex}})
		p.st = stateGround
	case '7':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscSaveCursor}})
		p.st = stateGround
	case '8':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscRestoreCursor}})
		p.st = stateGround
	case '=':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscKeypadApplication}})
		p.st = stateGround
	case '>':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscKeypadNumeric}})
		p.st = stateGround
	case 'c':
		p.emit(ParsedEvent{Kind: EventEsc, Esc: EscSequence{Kind: EscReset}})
		p.st = stateGround
	default:
		if b >= 0x20 && b <= 0x2F {
			// Intermediate byte, e.g. ESC ( B (charset designation).
			// Charset switching is not modeled; swallow to the final byte.
			p.st = stateEscapeIntermediate
			return
		}
		// Unknown escape, dropped.
		p.st = stateGround
	}
}

func (p *Parser) stepEscapeIntermediate(b byte) {
	if b >= 0x20 && b <= 0x2F {
		return // more intermediates
	}
	p.st = stateGround // final byte, sequence dropped
}

func (p *Parser) stepCsi(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if !p.inSubParam {
			p.curParam = p.curParam*10 + int(b-'0')
			p.curParamSet = true
		}
		p.anyParam = true
		p.st = stateCsiParam
	case b == ';':
		p.params = append(p.params, p.curParam)
		p.curParam = 0
		p.curParamSet = false
		p.inSubParam = false
		p.anyParam = true
		p.st = stateCsiParam
	case b == ':':
		// Sub-parameter separator. Whole-parameter granularity is all the
		// recognized CSI set needs, so the sub-parameter digits are
		// swallowed rather than merged into the current parameter.
		p.inSubParam = true
		p.anyParam = true
		p.st = stateCsiParam
	case (b == '?' || b == '>' || b == '=' || b == '<') && p.st == stateCsiEntry:
		p.private = b
		p.st = stateCsiParam
	case b >= 0x20 && b <= 0x2F:
		p.intermediate = append(p.intermediate, b)
		p.st = stateCsiParam
	case b >= 0x40 && b <= 0x7E:
		p.finishCsi(b)
	case b == 0x1B:
		// ESC cancels the sequence in progress and starts a new one.
		p.st = stateEscape
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIgnore(b byte) {
	if b >= 0x40 && b <= 0x7E {
		p.st = stateGround
		return
	}
	if b == 0x1B {
		p.st = stateEscape
	}
}

func (p *Parser) finishCsi(final byte) {
	if p.anyParam {
		p.params = append(p.params, p.curParam)
	}
	seq := CsiSequence{
		Params:       append([]int(nil), p.params...),
		Intermediate: append([]byte(nil), p.intermediate...),
		Final:        final,
		Private:      p.private,
	}
	p.emit(ParsedEvent{Kind: EventCsi, Csi: seq})
	p.st = stateGround
}

func (p *Parser) stepOsc(b byte) {
	switch b {
	case 0x07:
		p.finishOsc()
	case 0x1B:
		p.st = stateOscEscape
	default:
		p.oscBuf = append(p.oscBuf, b)
	}
}

func (p *Parser) stepOscEscape(b byte) {
	if b == '\\' {
		p.finishOsc()
		return
	}
	// Not a valid ST: abort the OSC with no event and reprocess this byte
	// as a fresh escape sequence.
	p.st = stateEscape
	p.stepEscape(b)
}

func (p *Parser) finishOsc() {
	raw := string(p.oscBuf)
	p.oscBuf = p.oscBuf[:0]
	p.emit(ParsedEvent{Kind: EventOsc, Osc: parseOsc(raw)})
	p.st = stateGround
}

func (p *Parser) stepDcsIgnore(b byte) {
	if b == 0x1B {
		p.st = stateEscape // tentative ST: stepEscape drops '\\' back to ground; any other byte starts a new escape
	}
}

func parseOsc(raw string) OscSequence {
	parts := strings.SplitN(raw, ";", 3)
	ps := ""
	if len(parts) > 0 {
		ps = parts[0]
	}
	switch ps {
	case "0", "2":
		title := ""
		if len(parts) > 1 {
			title = strings.Join(parts[1:], ";")
		}
		return OscSequence{Kind: OscSetTitle, Raw: parts, Title: title}
	case "8":
		linkParams := ""
		uri := ""
		if len(parts) > 1 {
			linkParams = parts[1]
		}
		if len(parts) > 2 {
			uri = parts[2]
		}
		if uri == "" {
			return OscSequence{Kind: OscResetHyperlink, Raw: parts}
		}
		return OscSequence{Kind: OscSetHyperlink, Raw: parts, Params: linkParams, URI: uri}
	case "4":
		idx := 0
		spec := ""
		if len(parts) > 1 {
			idx, _ = strconv.Atoi(parts[1])
		}
		if len(parts) > 2 {
			spec = parts[2]
		}
		return OscSequence{Kind: OscSetColor, Raw: parts, Index: idx, Spec: spec}
	case "52":
		sel := ""
		data := ""
		if len(parts) > 1 {
			sel = parts[1]
		}
		if len(parts) > 2 {
			data = parts[2]
		}
		return OscSequence{Kind: OscClipboard, Raw: parts, Params: sel, Spec: data}
	default:
		return OscSequence{Kind: OscUnknown, Raw: parts}
	}
}

// ParseHyperlinkID extracts the numeric "id=" field xterm's OSC 8 carries
// in its colon-separated params string, returning 0 if absent or
// unparsable; the state engine then mints its own ID for that link.
func ParseHyperlinkID(params string) (uint64, bool) {
	for _, kv := range strings.Split(params, ":") {
		if strings.HasPrefix(kv, "id=") {
			v, err := strconv.ParseUint(kv[len("id="):], 10, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
