package ui

import (
	"image"
	"math"

	"github.com/fogleman/gg"
)

const (
	sliderMaxValue = 100

	defaultSliderWidth  = 400
	defaultSliderHeight = 16
)

// Slider is a horizontal drag control over the fixed 0-100 range. The
// stored value is always in range; pointer presses on the track (or the
// knob sticking out of it) start a drag, and while dragging the pointer's
// x position maps linearly onto the range. Actual value changes fire the
// registered callback synchronously, from the loop's dispatch.
type Slider struct {
	screen *Screen
	style  Style

	value    int
	width    int
	height   int
	offsetX  int
	offsetY  int
	rect     image.Rectangle
	dragging bool

	onValueChanged func(value int)
}

// NewSlider creates a slider on the screen, anchored to its center.
func NewSlider(screen *Screen) *Slider {
	s := &Slider{
		screen: screen,
		style:  screen.style,
		width:  defaultSliderWidth,
		height: defaultSliderHeight,
	}

	screen.add(s)

	return s
}

// OnValueChanged registers the change callback. It runs inline during
// pointer dispatch, so it must be quick and must not block.
func (s *Slider) OnValueChanged(callback func(value int)) {
	s.onValueChanged = callback
}

func (s *Slider) Value() int {
	return s.value
}

// SetValue moves the slider programmatically. The value is clamped into
// range; no change callback fires.
func (s *Slider) SetValue(value int) {
	value = clampValue(value)
	if value == s.value {
		return
	}

	s.value = value
	s.screen.invalidate()
}

// SetOffset anchors the slider relative to the screen center.
func (s *Slider) SetOffset(x, y int) {
	s.offsetX, s.offsetY = x, y
	s.screen.relayout()
}

// SetSize resizes the track box.
func (s *Slider) SetSize(width, height int) {
	s.width, s.height = width, height
	s.screen.relayout()
}

func (s *Slider) Layout(width, height int) {
	x := (width-s.width)/2 + s.offsetX
	y := (height-s.height)/2 + s.offsetY
	s.rect = image.Rect(x, y, x+s.width, y+s.height)
}

func (s *Slider) HandlePointer(p Pointer) {
	if !p.Pressed {
		s.dragging = false
		return
	}

	if !s.dragging {
		if !s.hit(p.X, p.Y) {
			return
		}

		s.dragging = true
	}

	s.dragTo(p.X)
}

// hit tests against the track inflated by the knob radius, so grabbing
// the knob at either end works.
func (s *Slider) hit(x, y int) bool {
	pad := s.knobRadius()
	target := image.Rect(s.rect.Min.X-pad, s.rect.Min.Y-pad, s.rect.Max.X+pad, s.rect.Max.Y+pad)

	return image.Pt(x, y).In(target)
}

// dragTo maps the pointer's x position onto the range: track left edge
// is 0, right edge is 100. Only actual changes invalidate and fire the
// callback.
func (s *Slider) dragTo(x int) {
	ratio := float64(x-s.rect.Min.X) / float64(s.rect.Dx())
	value := clampValue(int(math.Round(ratio * sliderMaxValue)))

	if value == s.value {
		return
	}

	s.value = value
	s.screen.invalidate()

	if s.onValueChanged != nil {
		s.onValueChanged(value)
	}
}

func (s *Slider) Draw(dc *gg.Context) {
	radius := float64(s.rect.Dy()) / 2

	dc.SetColor(s.style.Track)
	dc.DrawRoundedRectangle(float64(s.rect.Min.X), float64(s.rect.Min.Y), float64(s.rect.Dx()), float64(s.rect.Dy()), radius)
	dc.Fill()

	knobX := s.rect.Min.X + s.rect.Dx()*s.value/sliderMaxValue

	if knobX > s.rect.Min.X {
		dc.SetColor(s.style.Accent)
		dc.DrawRoundedRectangle(float64(s.rect.Min.X), float64(s.rect.Min.Y), float64(knobX-s.rect.Min.X), float64(s.rect.Dy()), radius)
		dc.Fill()
	}

	dc.SetColor(s.style.Knob)
	dc.DrawCircle(float64(knobX), float64(s.rect.Min.Y)+radius, float64(s.knobRadius()))
	dc.Fill()
}

func (s *Slider) knobRadius() int {
	return s.rect.Dy()
}

func clampValue(value int) int {
	if value < 0 {
		return 0
	}

	if value > sliderMaxValue {
		return sliderMaxValue
	}

	return value
}
