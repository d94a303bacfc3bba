package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSlider() (*Screen, *Slider) {
	screen := NewScreen(800, 480, DefaultStyle(), nil)
	slider := NewSlider(screen)

	// defaults on an 800x480 screen: track from x=200 to x=600, y
	// centered on 240
	return screen, slider
}

func TestSliderSetValueClamps(t *testing.T) {
	testCases := map[string]struct {
		value int
		want  int
	}{
		"in range":    {value: 42, want: 42},
		"low edge":    {value: 0, want: 0},
		"high edge":   {value: 100, want: 100},
		"below range": {value: -3, want: 0},
		"above range": {value: 150, want: 100},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, slider := testSlider()

			slider.SetValue(testCase.value)
			assert.Equal(t, testCase.want, slider.Value())
		})
	}
}

func TestSliderSetValueFiresNoCallback(t *testing.T) {
	_, slider := testSlider()

	fired := 0
	slider.OnValueChanged(func(int) { fired++ })

	slider.SetValue(80)
	assert.Equal(t, 80, slider.Value())
	assert.Zero(t, fired)
}

func TestSliderPressMapsTrackToRange(t *testing.T) {
	testCases := map[string]struct {
		x    int
		want int
	}{
		"left edge":      {x: 200, want: 0},
		"right edge":     {x: 600, want: 100},
		"middle":         {x: 400, want: 50},
		"three quarters": {x: 500, want: 75},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			_, slider := testSlider()

			var seen []int
			slider.OnValueChanged(func(value int) { seen = append(seen, value) })

			slider.HandlePointer(Pointer{Pressed: true, X: testCase.x, Y: 240})
			assert.Equal(t, testCase.want, slider.Value())

			for _, value := range seen {
				assert.GreaterOrEqual(t, value, 0)
				assert.LessOrEqual(t, value, 100)
			}
		})
	}
}

func TestSliderIgnoresPressOutsideTrack(t *testing.T) {
	_, slider := testSlider()

	fired := 0
	slider.OnValueChanged(func(int) { fired++ })

	slider.HandlePointer(Pointer{Pressed: true, X: 10, Y: 10})
	assert.Zero(t, slider.Value())
	assert.Zero(t, fired)
}

func TestSliderCallbackFiresOnChangeOnly(t *testing.T) {
	_, slider := testSlider()

	fired := 0
	slider.OnValueChanged(func(int) { fired++ })

	slider.HandlePointer(Pointer{Pressed: true, X: 400, Y: 240})
	slider.HandlePointer(Pointer{Pressed: true, X: 400, Y: 240})
	slider.HandlePointer(Pointer{Pressed: true, X: 400, Y: 241})

	assert.Equal(t, 50, slider.Value())
	assert.Equal(t, 1, fired)
}

func TestSliderDragFollowsXOffTrack(t *testing.T) {
	_, slider := testSlider()

	slider.HandlePointer(Pointer{Pressed: true, X: 400, Y: 240})
	assert.Equal(t, 50, slider.Value())

	// once dragging, only x matters
	slider.HandlePointer(Pointer{Pressed: true, X: 300, Y: 470})
	assert.Equal(t, 25, slider.Value())
}

func TestSliderDragClampsPastTrackEnds(t *testing.T) {
	_, slider := testSlider()

	var seen []int
	slider.OnValueChanged(func(value int) { seen = append(seen, value) })

	slider.HandlePointer(Pointer{Pressed: true, X: 400, Y: 240})
	slider.HandlePointer(Pointer{Pressed: true, X: 790, Y: 240})
	assert.Equal(t, 100, slider.Value())

	slider.HandlePointer(Pointer{Pressed: true, X: 5, Y: 240})
	assert.Equal(t, 0, slider.Value())

	for _, value := range seen {
		assert.GreaterOrEqual(t, value, 0)
		assert.LessOrEqual(t, value, 100)
	}
}

func TestSliderReleaseEndsDrag(t *testing.T) {
	_, slider := testSlider()

	slider.HandlePointer(Pointer{Pressed: true, X: 400, Y: 240})
	slider.HandlePointer(Pointer{Pressed: false})

	// pressing again far off the track must not resume the drag
	slider.HandlePointer(Pointer{Pressed: true, X: 700, Y: 240})
	assert.Equal(t, 50, slider.Value())
}
