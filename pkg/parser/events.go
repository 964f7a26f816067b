// Package parser implements the VT500-style byte-level state machine that
// demultiplexes a raw PTY byte stream into a typed ParsedEvent sequence:
// printable text runs, C0 controls, and CSI/OSC/ESC escape sequences. The
// parser only classifies; interpreting a sequence against terminal state is
// the state engine's job.
package parser

// ControlEvent enumerates the C0 controls the state engine must act on.
// NUL and unrecognized C0 bytes never reach this type; they are dropped at
// the parser. Bell has no effect on the state but is still surfaced (the
// coordinator may want to relay it).
type ControlEvent int

const (
	ControlNewLine ControlEvent = iota
	ControlCarriageReturn
	ControlTab
	ControlBackspace
	ControlBell
	ControlFormFeed
	ControlVerticalTab
)

func (c ControlEvent) String() string {
	switch c {
	case ControlNewLine:
		return "NewLine"
	case ControlCarriageReturn:
		return "CarriageReturn"
	case ControlTab:
		return "Tab"
	case ControlBackspace:
		return "Backspace"
	case ControlBell:
		return "Bell"
	case ControlFormFeed:
		return "FormFeed"
	case ControlVerticalTab:
		return "VerticalTab"
	default:
		return "Unknown"
	}
}

// CsiSequence is a fully accumulated CSI sequence: the final byte, any
// numeric parameters (already split on ';', 0 left as literal 0; default
// promotion is per-command and belongs to the state engine), and the
// intermediate bytes seen (e.g. ' ' for DECSCUSR).
type CsiSequence struct {
	Params       []int
	Intermediate []byte
	Final        byte
	Private      byte // '?', '>', '=', '<', or 0 if none
}

// OscKind enumerates the recognized OSC sequences.
type OscKind int

const (
	OscSetTitle OscKind = iota
	OscSetHyperlink
	OscResetHyperlink
	OscSetColor
	OscClipboard
	OscUnknown
)

// OscSequence is a fully accumulated OSC sequence.
type OscSequence struct {
	Kind   OscKind
	Raw    []string // the ';'-split parameters, including the leading Ps
	Params string   // the field after "Ps;": SetHyperlink's params (id=...), Clipboard's selection
	URI    string    // SetHyperlink's URI field
	Index  int       // SetColor's palette index
	Spec   string    // SetColor's color spec, Clipboard's data
	Title  string    // SetTitle's text
}

// EscKind enumerates the recognized single-byte ESC sequences.
type EscKind int

const (
	EscIndex EscKind = iota
	EscNextLine
	EscTabSet
	EscReverseIndex
	EscSaveCursor
	EscRestoreCursor
	EscKeypadApplication
	EscKeypadNumeric
	EscReset
)

// EscSequence wraps a recognized single-byte ESC dispatch.
type EscSequence struct {
	Kind EscKind
}

// EventKind discriminates the ParsedEvent sum type.
type EventKind int

const (
	EventText EventKind = iota
	EventControl
	EventCsi
	EventOsc
	EventEsc
)

// ParsedEvent is the sum type the parser emits:
//
//	Text(string) | Control(ControlEvent) | Csi(CsiSequence) |
//	Osc(OscSequence) | Esc(EscSequence)
//
// Only the field matching Kind is populated.
type ParsedEvent struct {
	Kind    EventKind
	Text    string
	Control ControlEvent
	Csi     CsiSequence
	Osc     OscSequence
	Esc     EscSequence
}
