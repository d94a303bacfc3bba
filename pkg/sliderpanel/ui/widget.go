package ui

import "github.com/fogleman/gg"

// Widget is anything the screen lays out and draws. There is no layout
// engine: Layout receives the screen dimensions and the widget anchors
// itself, typically to the center plus a fixed offset.
type Widget interface {
	Layout(width, height int)
	Draw(dc *gg.Context)
}

// PointerHandler is implemented by widgets that react to pointer input.
type PointerHandler interface {
	HandlePointer(p Pointer)
}
