package ui

import "github.com/fogleman/gg"

// Label draws a single line of text anchored to the screen center plus
// a fixed offset.
type Label struct {
	screen  *Screen
	style   Style
	text    string
	offsetX int
	offsetY int
	x       float64
	y       float64
}

func NewLabel(screen *Screen, text string) *Label {
	l := &Label{
		screen: screen,
		style:  screen.style,
		text:   text,
	}

	screen.add(l)

	return l
}

func (l *Label) Text() string {
	return l.text
}

// SetText replaces the label text in place. A no-op when the text is
// already showing.
func (l *Label) SetText(text string) {
	if text == l.text {
		return
	}

	l.text = text
	l.screen.invalidate()
}

// SetOffset anchors the label relative to the screen center.
func (l *Label) SetOffset(x, y int) {
	l.offsetX, l.offsetY = x, y
	l.screen.relayout()
}

func (l *Label) Layout(width, height int) {
	l.x = float64(width)/2 + float64(l.offsetX)
	l.y = float64(height)/2 + float64(l.offsetY)
}

func (l *Label) Draw(dc *gg.Context) {
	dc.SetFontFace(l.screen.face)
	dc.SetColor(l.style.Text)
	dc.DrawStringAnchored(l.text, l.x, l.y, 0.5, 0.5)
}
