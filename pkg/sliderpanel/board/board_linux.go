//go:build linux && !preview

package board

import (
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// device is the real panel: fbdev display, GT911 touch and PWM backlight.
type device struct {
	logger *zap.SugaredLogger
	fb     *framebuffer
	bus    i2c.BusCloser
	touch  *gt911
	light  *backlight
}

// Open brings the panel hardware up, wired per the supplied
// configuration. Any piece failing tears the rest down again.
func Open(logger *zap.SugaredLogger, config Config) (Board, error) {
	logger = logger.Named("board")

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize host drivers: %w", err)
	}

	fb, err := openFramebuffer(logger, config.FramebufferDevice)
	if err != nil {
		return nil, fmt.Errorf("bring up display: %w", err)
	}

	bus, err := i2creg.Open(config.TouchBus)
	if err != nil {
		fb.Close()
		return nil, fmt.Errorf("open touch bus: %w", err)
	}

	if config.TouchFrequency > 0 {
		if err := bus.SetSpeed(physic.Frequency(config.TouchFrequency) * physic.Hertz); err != nil {
			logger.Warnw("Failed to set touch bus speed",
				"error", err,
				"frequency", config.TouchFrequency)
		}
	}

	resetPin, err := pinByName(config.TouchResetPin)
	if err != nil {
		bus.Close()
		fb.Close()
		return nil, fmt.Errorf("look up touch reset pin: %w", err)
	}

	interruptPin, err := pinByName(config.TouchInterruptPin)
	if err != nil {
		bus.Close()
		fb.Close()
		return nil, fmt.Errorf("look up touch interrupt pin: %w", err)
	}

	touch, err := newGT911(logger, bus, config.TouchAddress, resetPin, interruptPin)
	if err != nil {
		bus.Close()
		fb.Close()
		return nil, fmt.Errorf("bring up touch controller: %w", err)
	}

	var light *backlight
	if config.BacklightPin != "" {
		pin, err := pinByName(config.BacklightPin)
		if err != nil {
			bus.Close()
			fb.Close()
			return nil, fmt.Errorf("look up backlight pin: %w", err)
		}

		light = newBacklight(logger, pin, physic.Frequency(config.BacklightFrequency)*physic.Hertz)
	}

	d := &device{
		logger: logger,
		fb:     fb,
		bus:    bus,
		touch:  touch,
		light:  light,
	}

	logger.Debug("Board up")

	return d, nil
}

// pinByName resolves a pin through the host registry. An empty name is
// not an error, the pin is simply absent.
func pinByName(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin: %s", name)
	}

	return pin, nil
}

func (d *device) Size() (int, int) {
	return d.fb.Size()
}

func (d *device) Frame() *image.RGBA {
	return d.fb.Frame()
}

func (d *device) Present() error {
	return d.fb.Present()
}

func (d *device) Pointer() (Sample, error) {
	return d.touch.Poll()
}

func (d *device) Backlight(percent int) error {
	if d.light == nil {
		return nil
	}

	return d.light.Set(percent)
}

// Drive runs the cooperative loop on the calling goroutine, one step
// per tick, until a step asks to stop or fails.
func (d *device) Drive(step func() error, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := step(); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}

			return err
		}
	}

	return nil
}

func (d *device) Close() error {
	if d.light != nil {
		if err := d.light.Off(); err != nil {
			d.logger.Warnw("Failed to turn backlight off", "error", err)
		}
	}

	if err := d.bus.Close(); err != nil {
		d.logger.Warnw("Failed to close touch bus", "error", err)
	}

	return d.fb.Close()
}
