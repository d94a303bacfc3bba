// Package board is the hardware layer of the panel: a memory-mapped
// framebuffer display, a GT911 touch controller and a PWM backlight on
// linux builds, or an ebiten desktop window standing in for all three
// when built with -tags preview.
package board

import (
	"errors"
	"image"
	"time"
)

// ErrStop is returned by a drive step to end the loop without error.
var ErrStop = errors.New("board: stop requested")

// Sample is a single pointer reading. While Touched is false the
// coordinates carry the last touched position.
type Sample struct {
	Touched bool
	X       int
	Y       int
}

// Board bundles the panel hardware behind one surface: a backbuffer to
// draw into, a pointer to poll and a backlight to dim. Drive owns the
// cooperative cadence, calling step on a single goroutine until it
// returns ErrStop (or fails).
type Board interface {
	Size() (width, height int)
	Frame() *image.RGBA
	Present() error
	Pointer() (Sample, error)
	Backlight(percent int) error
	Drive(step func() error, interval time.Duration) error
	Close() error
}

// DefaultTouchAddress is the GT911's primary bus address.
const DefaultTouchAddress uint16 = 0x5D

// Config selects the board wiring. All of it comes from the user config
// file; zero values fall back to the reference hardware's defaults.
type Config struct {

	// Width and Height size the preview window. Device builds take the
	// real geometry from the framebuffer instead.
	Width  int
	Height int

	// FramebufferDevice is the fbdev node, usually /dev/fb0.
	FramebufferDevice string

	// TouchBus names the I2C bus the touch controller sits on ("1",
	// "/dev/i2c-1"); empty selects the first available bus.
	TouchBus string

	// TouchAddress is the controller's bus address.
	TouchAddress uint16

	// TouchFrequency is the bus speed in hertz.
	TouchFrequency int

	// TouchResetPin and TouchInterruptPin drive the controller's reset
	// sequence when set (pin names as the host registry knows them,
	// "GPIO38").
	TouchResetPin     string
	TouchInterruptPin string

	// BacklightPin carries the PWM backlight signal; empty disables
	// backlight control.
	BacklightPin string

	// BacklightFrequency is the PWM frequency in hertz.
	BacklightFrequency int
}
