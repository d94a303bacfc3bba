package board

import (
	"fmt"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// backlight dims the panel by driving a PWM signal on a GPIO pin.
type backlight struct {
	logger *zap.SugaredLogger
	pin    gpio.PinOut
	freq   physic.Frequency
}

func newBacklight(logger *zap.SugaredLogger, pin gpio.PinOut, freq physic.Frequency) *backlight {
	return &backlight{
		logger: logger.Named("backlight"),
		pin:    pin,
		freq:   freq,
	}
}

// Set drives the duty cycle, 0-100 percent. Out-of-range requests are
// clamped rather than rejected.
func (b *backlight) Set(percent int) error {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	duty := gpio.Duty(int64(gpio.DutyMax) * int64(percent) / 100)

	if err := b.pin.PWM(duty, b.freq); err != nil {
		return fmt.Errorf("set backlight duty cycle: %w", err)
	}

	b.logger.Debugw("Backlight set", "percent", percent)

	return nil
}

func (b *backlight) Off() error {
	return b.Set(0)
}
