package term

// Palette is the 256-entry indexed color table a TerminalState owns. Index
// 0-15 are seeded with the named ANSI colors (and remain overridable, e.g.
// by OSC 4, for Indexed lookups; Resolve renders a Named color from the
// fixed defaults, not from these entries), 16-231 are the standard 6x6x6
// RGB cube, and 232-255 are a 24-step
// grayscale ramp. This is the xterm convention every terminal emulator in
// the wild reproduces; it is not configurable per-instance beyond OSC 4
// overrides.
type Palette [256]Color

// DefaultPalette builds the standard xterm 256-color table.
func DefaultPalette() Palette {
	var p Palette
	copy(p[:16], defaultNamed16[:])
	cubeSteps := [6]int{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[idx] = RGBColor(cubeSteps[r], cubeSteps[g], cubeSteps[b])
				idx++
			}
		}
	}
	for i := 0; i < 24; i++ {
		level := 8 + i*10
		p[232+i] = RGBColor(level, level, level)
	}
	return p
}

// defaultNamed16 gives the 16 named ANSI colors their conventional RGB
// values, used both to seed the palette and anywhere a Named color needs
// to be rendered as concrete RGB (e.g. a snapshot consumer without its own
// color scheme).
var defaultNamed16 = [16]Color{
	RGBColor(0, 0, 0),
	RGBColor(205, 0, 0),
	RGBColor(0, 205, 0),
	RGBColor(205, 205, 0),
	RGBColor(0, 0, 238),
	RGBColor(205, 0, 205),
	RGBColor(0, 205, 205),
	RGBColor(229, 229, 229),
	RGBColor(127, 127, 127),
	RGBColor(255, 0, 0),
	RGBColor(0, 255, 0),
	RGBColor(255, 255, 0),
	RGBColor(92, 92, 255),
	RGBColor(255, 0, 255),
	RGBColor(0, 255, 255),
	RGBColor(255, 255, 255),
}

// Resolve looks up a palette entry. Indexed colors outside 0-255 cannot
// occur (the field is a uint8) but a Named lookup beyond BrightWhite
// degrades to Black rather than panicking.
func (p Palette) Resolve(c Color) Color {
	switch c.Kind {
	case ColorIndexed:
		return p[c.Index]
	case ColorNamed:
		if int(c.Named) < len(defaultNamed16) {
			return defaultNamed16[c.Named]
		}
		return defaultNamed16[Black]
	default:
		return c
	}
}

// Set overrides palette entry i (OSC 4).
func (p *Palette) Set(i uint8, c Color) {
	p[i] = c
}
