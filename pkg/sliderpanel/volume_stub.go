//go:build !linux

package sliderpanel

import (
	"errors"

	"go.uber.org/zap"
)

// newVolumeTarget has no backend off linux: the panel's volume target
// talks to PulseAudio. Previews on other platforms pair the slider with
// the deej or log targets instead.
func newVolumeTarget(logger *zap.SugaredLogger) (Target, error) {
	return nil, errors.New("volume target is only supported on linux")
}
