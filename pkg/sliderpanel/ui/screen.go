package ui

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Screen holds the widget tree for one fixed-size display. Widgets
// register themselves on creation; any widget mutation marks the whole
// screen dirty and the next loop step repaints everything (the panel is
// small enough that partial repaints buy nothing).
type Screen struct {
	style   Style
	face    font.Face
	width   int
	height  int
	widgets []Widget
	dirty   bool
}

func NewScreen(width, height int, style Style, face font.Face) *Screen {
	if face == nil {
		face = basicfont.Face7x13
	}

	return &Screen{
		style:  style,
		face:   face,
		width:  width,
		height: height,
		dirty:  true,
	}
}

func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

// Dirty reports whether anything changed since the last Draw.
func (s *Screen) Dirty() bool {
	return s.dirty
}

// HandlePointer feeds one pointer reading to every widget that cares.
// Value-changed callbacks run inline, on the caller's goroutine.
func (s *Screen) HandlePointer(p Pointer) {
	for _, w := range s.widgets {
		if handler, ok := w.(PointerHandler); ok {
			handler.HandlePointer(p)
		}
	}
}

// Draw repaints the full screen into the drawing context and clears the
// dirty mark.
func (s *Screen) Draw(dc *gg.Context) {
	dc.SetColor(s.style.Background)
	dc.Clear()

	for _, w := range s.widgets {
		w.Draw(dc)
	}

	s.dirty = false
}

func (s *Screen) add(w Widget) {
	w.Layout(s.width, s.height)
	s.widgets = append(s.widgets, w)
	s.dirty = true
}

func (s *Screen) relayout() {
	for _, w := range s.widgets {
		w.Layout(s.width, s.height)
	}

	s.dirty = true
}

func (s *Screen) invalidate() {
	s.dirty = true
}
