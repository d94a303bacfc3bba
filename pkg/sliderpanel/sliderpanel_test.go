package sliderpanel

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel/board"
)

func TestPercentText(t *testing.T) {
	type testCase struct {
		expectedText string
		givenValue   int
	}

	testCases := map[string]testCase{
		"zero": {
			expectedText: "0%",
			givenValue:   0,
		},
		"single-digit": {
			expectedText: "7%",
			givenValue:   7,
		},
		"double-digit": {
			expectedText: "42%",
			givenValue:   42,
		},
		"full": {
			expectedText: "100%",
			givenValue:   100,
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, testCase.expectedText, percentText(testCase.givenValue))
		})
	}
}

type fakeBoard struct {
	frame     *image.RGBA
	sample    board.Sample
	presented int
	backlight int
	closed    bool
}

func newFakeBoard(width, height int) *fakeBoard {
	return &fakeBoard{
		frame:     image.NewRGBA(image.Rect(0, 0, width, height)),
		backlight: -1,
	}
}

func (b *fakeBoard) Size() (int, int)               { return b.frame.Rect.Dx(), b.frame.Rect.Dy() }
func (b *fakeBoard) Frame() *image.RGBA             { return b.frame }
func (b *fakeBoard) Present() error                 { b.presented++; return nil }
func (b *fakeBoard) Pointer() (board.Sample, error) { return b.sample, nil }
func (b *fakeBoard) Backlight(percent int) error    { b.backlight = percent; return nil }
func (b *fakeBoard) Close() error                   { b.closed = true; return nil }

func (b *fakeBoard) Drive(step func() error, interval time.Duration) error {
	for {
		if err := step(); err != nil {
			if errors.Is(err, board.ErrStop) {
				return nil
			}

			return err
		}
	}
}

func testPanel(t *testing.T) (*Panel, *fakeBoard) {
	t.Helper()

	b := newFakeBoard(800, 480)

	p := &Panel{
		logger:      zap.S(),
		notifier:    testNotifier{},
		config:      &CanonicalConfig{},
		board:       b,
		stopChannel: make(chan bool, 1),
	}

	targets, err := newTargetRouter(p, zap.S())
	assert.NoError(t, err)
	p.targets = targets

	p.buildUI()

	return p, b
}

func TestPanelStartsWithZeroLabel(t *testing.T) {
	p, _ := testPanel(t)

	assert.Equal(t, 0, p.slider.Value())
	assert.Equal(t, "0%", p.valueLabel.Text())
}

// a touch on the slider track must move the knob, rewrite the label and
// reach the targets all within one step
func TestPanelStepUpdatesLabelAndRoutesEvent(t *testing.T) {
	p, b := testPanel(t)

	events := make(chan SliderMoveEvent, sliderEventBufferSize)
	p.targets.running = []*runningTarget{{name: targetNameLog, events: events}}

	b.sample = board.Sample{Touched: true, X: 500, Y: 240}

	assert.NoError(t, p.step())

	assert.Equal(t, 75, p.slider.Value())
	assert.Equal(t, "75%", p.valueLabel.Text())
	assert.Equal(t, 1, b.presented)

	event := <-events
	assert.Equal(t, 0, event.SliderID)
	assert.Equal(t, float32(0.75), event.PercentValue)
}

func TestPanelStepStopsWhenSignaled(t *testing.T) {
	p, _ := testPanel(t)

	p.signalStop()

	assert.ErrorIs(t, p.step(), board.ErrStop)
}

func TestPanelRepeatStopSignalsDoNotBlock(t *testing.T) {
	p, _ := testPanel(t)

	p.signalStop()
	p.signalStop()

	assert.ErrorIs(t, p.step(), board.ErrStop)
}
