package sliderpanel

import (
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel/ui"
	"github.com/jax-b/sliderpanel/pkg/sliderpanel/util"
)

// Notifier provides generic notification sending
type Notifier interface {
	Notify(title string, message string)
}

// ToastNotifier sends desktop toast notifications. On the panel itself
// there's usually no notification daemon and sends just fail into the
// log, which is fine - config problems still reach whoever runs a
// preview build.
type ToastNotifier struct {
	logger *zap.SugaredLogger
}

// NewToastNotifier creates a new ToastNotifier
func NewToastNotifier(logger *zap.SugaredLogger) (*ToastNotifier, error) {
	logger = logger.Named("notifier")
	tn := &ToastNotifier{logger: logger}

	logger.Debug("Created toast notifier instance")

	return tn, nil
}

// Notify sends a toast notification with the app icon
func (tn *ToastNotifier) Notify(title string, message string) {

	// we need an icon file on disk to remain portable - render it once into the temp dir
	appIconPath := filepath.Join(os.TempDir(), "sliderpanel.png")

	if !util.FileExists(appIconPath) {
		tn.logger.Debugw("Notification icon missing, rendering it", "path", appIconPath)

		if err := renderIcon(appIconPath); err != nil {
			tn.logger.Errorw("Failed to render notification icon", "error", err)
		}
	}

	tn.logger.Infow("Sending toast notification", "title", title, "message", message)

	// send the actual notification
	if err := beeep.Notify(title, message, appIconPath); err != nil {
		tn.logger.Errorw("Failed to send toast notification", "error", err)
	}
}

// renderIcon draws the app icon - a slider track with its knob at about
// two thirds - as a PNG at the given path.
func renderIcon(path string) error {
	const (
		size   = 64
		margin = 10
		knobX  = size - 24
	)

	style := ui.DefaultStyle()

	dc := gg.NewContext(size, size)

	dc.SetColor(style.Background)
	dc.DrawRoundedRectangle(0, 0, size, size, 12)
	dc.Fill()

	dc.SetColor(style.Track)
	dc.DrawRoundedRectangle(margin, size/2-3, size-2*margin, 6, 3)
	dc.Fill()

	dc.SetColor(style.Accent)
	dc.DrawRoundedRectangle(margin, size/2-3, knobX-margin, 6, 3)
	dc.Fill()

	dc.SetColor(style.Knob)
	dc.DrawCircle(knobX, size/2, 8)
	dc.Fill()

	return dc.SavePNG(path)
}
