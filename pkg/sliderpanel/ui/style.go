package ui

import "image/color"

// Style is the screen's palette. Widgets pick it up from the screen
// they're created on.
type Style struct {
	Background color.Color
	Track      color.Color
	Accent     color.Color
	Knob       color.Color
	Text       color.Color
}

// DefaultStyle matches the panel's stock look: black background, blue
// accents, white text.
func DefaultStyle() Style {
	return Style{
		Background: color.Black,
		Track:      color.RGBA{R: 0x3A, G: 0x3A, B: 0x3A, A: 0xFF},
		Accent:     color.RGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF},
		Knob:       color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF},
		Text:       color.White,
	}
}
