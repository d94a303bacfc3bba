// Package ui is the panel's retained widget layer: a screen of widgets
// (slider, labels) and the single-threaded cooperative loop that polls
// the pointer, dispatches input, repaints and presents. One goroutine
// owns all widget state; callbacks run inline during dispatch and their
// effects land in the same step's repaint.
package ui

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Pointer is one input reading delivered to the loop.
type Pointer struct {
	Pressed bool
	X       int
	Y       int
}

// Surface is where the screen renders: a backbuffer to draw into and a
// way to push it at the display.
type Surface interface {
	Size() (width, height int)
	Frame() *image.RGBA
	Present() error
}

// PollFunc reads the current pointer state.
type PollFunc func() (Pointer, error)

// Loop runs the cooperative UI turn. Step is called from exactly one
// goroutine (the board's drive loop); nothing else may touch the screen.
type Loop struct {
	logger  *zap.SugaredLogger
	surface Surface
	poll    PollFunc
	screen  *Screen
	dc      *gg.Context
}

func NewLoop(logger *zap.SugaredLogger, surface Surface, poll PollFunc, screen *Screen) *Loop {
	return &Loop{
		logger:  logger.Named("ui"),
		surface: surface,
		poll:    poll,
		screen:  screen,
		dc:      gg.NewContextForRGBA(surface.Frame()),
	}
}

func (l *Loop) Screen() *Screen {
	return l.screen
}

// Step is one turn: poll the pointer, dispatch it through the widgets
// (change callbacks fire in here), then repaint and present if anything
// changed. A failed poll skips dispatch for this turn and the panel
// keeps running.
func (l *Loop) Step() error {
	pointer, err := l.poll()
	if err != nil {
		l.logger.Warnw("Failed to poll pointer", "error", err)
	} else {
		l.screen.HandlePointer(pointer)
	}

	if l.screen.Dirty() {
		l.screen.Draw(l.dc)

		if err := l.surface.Present(); err != nil {
			return fmt.Errorf("present frame: %w", err)
		}
	}

	return nil
}
