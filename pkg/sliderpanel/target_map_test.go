package sliderpanel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetMapFromConfigs(t *testing.T) {
	type testCase struct {
		expectedTargets map[int][]string
		userMapping     map[string][]string
		internalMapping map[string][]string
	}

	testCases := map[string]testCase{
		"user-only": {
			expectedTargets: map[int][]string{0: {"volume"}},
			userMapping:     map[string][]string{"0": {"volume"}},
			internalMapping: map[string][]string{},
		},
		"internal-merges-into-user": {
			expectedTargets: map[int][]string{0: {"volume", "deej"}},
			userMapping:     map[string][]string{"0": {"volume"}},
			internalMapping: map[string][]string{"0": {"deej"}},
		},
		"internal-duplicates-are-dropped": {
			expectedTargets: map[int][]string{0: {"volume", "log"}},
			userMapping:     map[string][]string{"0": {"volume"}},
			internalMapping: map[string][]string{"0": {"volume", "log"}},
		},
		"empty-values-are-dropped": {
			expectedTargets: map[int][]string{0: {"volume"}},
			userMapping:     map[string][]string{"0": {"", "volume"}},
			internalMapping: map[string][]string{"0": {""}},
		},
		"internal-only-slider": {
			expectedTargets: map[int][]string{1: {"log"}},
			userMapping:     map[string][]string{},
			internalMapping: map[string][]string{"1": {"log"}},
		},
	}

	for testName, testCase := range testCases {
		t.Run(testName, func(t *testing.T) {

			result := targetMapFromConfigs(testCase.userMapping, testCase.internalMapping)

			for sliderIdx, expected := range testCase.expectedTargets {
				actual, ok := result.get(sliderIdx)

				assert.True(t, ok)
				assert.Equal(t, expected, actual)
			}
		})
	}
}

func TestTargetMapString(t *testing.T) {
	m := newTargetMap()
	m.set(0, []string{"volume", "deej"})

	assert.Equal(t, "<1 sliders mapped to 2 targets>", m.String())
}
