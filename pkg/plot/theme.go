package plot

// Theme supplies the drawing styles. The default follows the KiCad 2020
// color scheme.
type Theme struct {
	Wire      Stroke
	Junction  Stroke
	NoConnect Stroke
	Outline   Stroke
	Fill      Color
	Pin       Stroke
	Label     Effects
	Property  Effects
	Text      Effects
}

// DefaultTheme returns the KiCad 2020 palette.
func DefaultTheme() Theme {
	green := Color{R: 0, G: 150, B: 0, A: 1}
	maroon := Color{R: 132, B: 0, A: 1}
	background := Color{R: 255, G: 255, B: 194, A: 1}
	return Theme{
		Wire:      Stroke{Width: 0.1524, Color: green},
		Junction:  Stroke{Width: 0, Color: green, Fill: green},
		NoConnect: Stroke{Width: 0.1524, Color: Color{B: 132, A: 1}},
		Outline:   Stroke{Width: 0.254, Color: maroon},
		Fill:      background,
		Pin:       Stroke{Width: 0.1524, Color: maroon},
		Label:     Effects{Size: 1.27, Color: Color{A: 1}, Justify: "left"},
		Property:  Effects{Size: 1.27, Color: Color{R: 8, G: 76, B: 110, A: 1}, Justify: "left"},
		Text:      Effects{Size: 1.27, Color: Color{A: 1}, Justify: "left"},
	}
}
