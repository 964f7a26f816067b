package state

// decModeTable maps a DEC private mode number (CSI ? Ps h/l) to a Mode
// bit. Codes that need special handling beyond a bit flip (47/1047/1049,
// the alternate-screen family) are not in this table and are handled
// directly by setDecMode.
var decModeTable = map[int]Mode{
	1:    ModeApplicationCursor, // DECCKM
	5:    ModeReverseVideo,      // DECSCNM
	6:    ModeOrigin,            // DECOM
	7:    ModeLineWrap,          // DECAWM
	12:   ModeCursorBlinking,    // att610 cursor blink
	66:   ModeApplicationKeypad, // DECNKM
	1000: ModeMouseReporting,    // normal (X10/VT200) mouse tracking
	1002: ModeMouseMotion,       // button-event mouse tracking
	1004: ModeFocusReporting,
	1006: ModeMouseSgr, // SGR extended mouse mode
	2004: ModeBracketedPaste,
	25:   ModeCursorVisible, // DECTCEM
}

// ansiModeTable maps a standard (non-DEC-private) mode number (CSI Ps h/l)
// to a Mode bit.
var ansiModeTable = map[int]Mode{
	4: ModeInsert, // IRM
}

// decAltScreenCodes are the DEC private modes that toggle the alternate
// screen buffer; 1049 additionally saves/restores the cursor.
const (
	altScreenCode47   = 47
	altScreenCode1047 = 1047
	altScreenCode1049 = 1049
)
