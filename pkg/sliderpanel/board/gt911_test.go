package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// testGT911 builds a driver over a playback bus. The probe transaction
// the constructor performs is prepended to the supplied ops.
func testGT911(t *testing.T, ops []i2ctest.IO) (*gt911, *i2ctest.Playback) {
	t.Helper()

	probe := i2ctest.IO{
		Addr: DefaultTouchAddress,
		W:    []byte{0x81, 0x40},
		R:    []byte{'9', '1', '1', 0x00},
	}

	bus := &i2ctest.Playback{
		Ops:       append([]i2ctest.IO{probe}, ops...),
		DontPanic: true,
	}

	touch, err := newGT911(zap.S(), bus, 0, nil, nil)
	assert.NoError(t, err)
	assert.NotNil(t, touch)

	return touch, bus
}

func TestGT911ProbesProductID(t *testing.T) {
	_, bus := testGT911(t, nil)

	// all playback ops consumed means the probe hit exactly the
	// product ID register
	assert.NoError(t, bus.Close())
}

func TestGT911DecodesTouchPoint(t *testing.T) {
	touch, bus := testGT911(t, []i2ctest.IO{
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E}, R: []byte{0x81}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4F}, R: []byte{0x00, 0x90, 0x01, 0xF0, 0x00, 0x20, 0x00, 0x00}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E, 0x00}},
	})

	sample, err := touch.Poll()
	assert.NoError(t, err)
	assert.Equal(t, Sample{Touched: true, X: 400, Y: 240}, sample)
	assert.NoError(t, bus.Close())
}

func TestGT911ReportsRelease(t *testing.T) {
	touch, bus := testGT911(t, []i2ctest.IO{
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E}, R: []byte{0x81}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4F}, R: []byte{0x00, 0x64, 0x00, 0x32, 0x00, 0x20, 0x00, 0x00}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E, 0x00}},

		// buffer ready, zero points: the finger lifted
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E}, R: []byte{0x80}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E, 0x00}},
	})

	sample, err := touch.Poll()
	assert.NoError(t, err)
	assert.True(t, sample.Touched)

	sample, err = touch.Poll()
	assert.NoError(t, err)
	assert.False(t, sample.Touched)

	// release keeps the last known position
	assert.Equal(t, 100, sample.X)
	assert.Equal(t, 50, sample.Y)

	assert.NoError(t, bus.Close())
}

func TestGT911KeepsLastSampleWhileBufferNotReady(t *testing.T) {
	touch, bus := testGT911(t, []i2ctest.IO{
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E}, R: []byte{0x81}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4F}, R: []byte{0x00, 0x2C, 0x01, 0xC8, 0x00, 0x20, 0x00, 0x00}},
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E, 0x00}},

		// controller hasn't refilled the buffer yet
		{Addr: DefaultTouchAddress, W: []byte{0x81, 0x4E}, R: []byte{0x00}},
	})

	first, err := touch.Poll()
	assert.NoError(t, err)
	assert.Equal(t, Sample{Touched: true, X: 300, Y: 200}, first)

	second, err := touch.Poll()
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoError(t, bus.Close())
}
