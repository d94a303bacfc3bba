package sliderpanel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestEncodeSliderLine(t *testing.T) {
	type testCase struct {
		expectedLine string
		givenScalars []float32
	}

	testCases := map[string]testCase{
		"zero": {
			expectedLine: "0",
			givenScalars: []float32{0},
		},
		"full": {
			expectedLine: "1023",
			givenScalars: []float32{1},
		},
		"midpoint": {
			expectedLine: "512",
			givenScalars: []float32{0.5},
		},
		"typical-value": {
			expectedLine: "430",
			givenScalars: []float32{0.42},
		},
		"multiple-values": {
			expectedLine: "0|1023",
			givenScalars: []float32{0, 1},
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, testCase.expectedLine, encodeSliderLine(testCase.givenScalars))
		})
	}
}

func testRouter(noiseReduction string, invert bool) *targetRouter {
	return &targetRouter{
		logger: zap.S(),
		panel: &Panel{
			config: &CanonicalConfig{
				InvertSlider:        invert,
				NoiseReductionLevel: noiseReduction,
			},
		},
		lock:          &sync.Mutex{},
		currentScalar: impossibleScalar,
		running: []*runningTarget{
			{name: targetNameLog, events: make(chan SliderMoveEvent, sliderEventBufferSize)},
		},
	}
}

func TestTargetRouterFiltersNoise(t *testing.T) {
	type testCase struct {
		expectedEvents int
		givenPositions []int
		noiseReduction string
	}

	testCases := map[string]testCase{
		"first-move-always-passes": {
			expectedEvents: 1,
			givenPositions: []int{50},
			noiseReduction: "default",
		},
		"jitter-is-dropped": {
			expectedEvents: 1,
			givenPositions: []int{50, 51},
			noiseReduction: "default",
		},
		"clear-move-passes": {
			expectedEvents: 2,
			givenPositions: []int{50, 100},
			noiseReduction: "default",
		},
		"snaps-to-full": {
			expectedEvents: 2,
			givenPositions: []int{99, 100},
			noiseReduction: "default",
		},
		"snaps-to-zero": {
			expectedEvents: 2,
			givenPositions: []int{3, 0},
			noiseReduction: "default",
		},
		"low-reduction-passes-smaller-moves": {
			expectedEvents: 2,
			givenPositions: []int{50, 53},
			noiseReduction: "low",
		},
		"high-reduction-drops-larger-moves": {
			expectedEvents: 1,
			givenPositions: []int{50, 53},
			noiseReduction: "high",
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {

			tr := testRouter(testCase.noiseReduction, false)

			for _, position := range testCase.givenPositions {
				tr.handleSliderValue(0, position)
			}

			assert.Len(t, tr.running[0].events, testCase.expectedEvents)
		})
	}
}

func TestTargetRouterInvertsSlider(t *testing.T) {
	tr := testRouter("default", true)

	tr.handleSliderValue(0, 25)

	event := <-tr.running[0].events
	assert.Equal(t, 0, event.SliderID)
	assert.Equal(t, float32(0.75), event.PercentValue)
}

func TestTargetRouterDispatchNeverBlocks(t *testing.T) {
	stale := SliderMoveEvent{SliderID: 0, PercentValue: 0.1}

	events := make(chan SliderMoveEvent, 1)
	events <- stale

	tr := testRouter("default", false)
	tr.running = []*runningTarget{{name: targetNameDeej, events: events}}

	// this move passes the noise filter, but the target's buffer is full -
	// the dispatch must drop the event rather than stall
	tr.handleSliderValue(0, 100)

	assert.Len(t, events, 1)
	assert.Equal(t, stale, <-events)
}

func TestTargetRouterRejectsUnknownTarget(t *testing.T) {
	tr := testRouter("default", false)

	target, err := tr.createTarget("spotify")
	assert.Nil(t, target)
	assert.Error(t, err)
}
