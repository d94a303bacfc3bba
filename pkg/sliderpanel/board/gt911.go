package board

import (
	"bytes"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

// GT911 register map. The controller takes 16-bit big-endian register
// pointers on the wire.
const (
	gt911RegProductID = 0x8140
	gt911RegStatus    = 0x814E
	gt911RegPoint     = 0x814F

	gt911BufferReady = 0x80
	gt911PointCount  = 0x0F
)

// gt911 talks to a Goodix GT911 (or GT1151) capacitive touch controller
// over I2C. Only the first touch point is reported, the panel has no use
// for multitouch.
type gt911 struct {
	logger *zap.SugaredLogger
	dev    *i2c.Dev
	last   Sample
}

func newGT911(logger *zap.SugaredLogger, bus i2c.Bus, address uint16, reset, interrupt gpio.PinOut) (*gt911, error) {
	if address == 0 {
		address = DefaultTouchAddress
	}

	t := &gt911{
		logger: logger.Named("gt911"),
		dev:    &i2c.Dev{Bus: bus, Addr: address},
	}

	if reset != nil {
		if err := t.reset(reset, interrupt); err != nil {
			return nil, fmt.Errorf("reset touch controller: %w", err)
		}
	}

	product, err := t.productID()
	if err != nil {
		return nil, fmt.Errorf("probe touch controller: %w", err)
	}

	t.logger.Debugw("Touch controller online", "product", product, "address", address)

	return t, nil
}

// reset runs the controller's power-on sequence. Holding INT low across
// the reset edge selects the primary bus address.
func (t *gt911) reset(reset, interrupt gpio.PinOut) error {
	if interrupt != nil {
		if err := interrupt.Out(gpio.Low); err != nil {
			return fmt.Errorf("pull interrupt pin low: %w", err)
		}
	}

	if err := reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("pull reset pin low: %w", err)
	}

	time.Sleep(10 * time.Millisecond)

	if err := reset.Out(gpio.High); err != nil {
		return fmt.Errorf("release reset pin: %w", err)
	}

	time.Sleep(50 * time.Millisecond)

	return nil
}

func (t *gt911) productID() (string, error) {
	buf := make([]byte, 4)
	if err := t.read(gt911RegProductID, buf); err != nil {
		return "", err
	}

	return string(bytes.TrimRight(buf, "\x00")), nil
}

// Poll reads the controller's point buffer. When the controller has
// nothing new the previous sample stands; a fresh buffer with zero
// points is a release.
func (t *gt911) Poll() (Sample, error) {
	status := make([]byte, 1)
	if err := t.read(gt911RegStatus, status); err != nil {
		return Sample{}, fmt.Errorf("read touch status: %w", err)
	}

	if status[0]&gt911BufferReady == 0 {
		return t.last, nil
	}

	sample := Sample{X: t.last.X, Y: t.last.Y}

	if count := int(status[0] & gt911PointCount); count > 0 {
		point := make([]byte, 8)
		if err := t.read(gt911RegPoint, point); err != nil {
			return Sample{}, fmt.Errorf("read touch point: %w", err)
		}

		sample.Touched = true
		sample.X = int(point[1]) | int(point[2])<<8
		sample.Y = int(point[3]) | int(point[4])<<8
	}

	// hand the buffer back so the controller resumes reporting
	if err := t.write(gt911RegStatus, 0x00); err != nil {
		return Sample{}, fmt.Errorf("clear touch status: %w", err)
	}

	t.last = sample

	return sample, nil
}

func (t *gt911) read(register uint16, buf []byte) error {
	return t.dev.Tx([]byte{byte(register >> 8), byte(register)}, buf)
}

func (t *gt911) write(register uint16, values ...byte) error {
	return t.dev.Tx(append([]byte{byte(register >> 8), byte(register)}, values...), nil)
}
