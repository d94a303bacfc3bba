//go:build preview

package board

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// preview swaps the panel hardware for a desktop window: ebiten blits
// the backbuffer every frame and the mouse stands in for the touch
// panel. Build with -tags preview.
type preview struct {
	logger  *zap.SugaredLogger
	width   int
	height  int
	frame   *image.RGBA
	step    func() error
	stepErr error
}

func Open(logger *zap.SugaredLogger, config Config) (Board, error) {
	width, height := config.Width, config.Height
	if width <= 0 || height <= 0 {
		width, height = 800, 480
	}

	p := &preview{
		logger: logger.Named("board"),
		width:  width,
		height: height,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("sliderpanel preview")

	p.logger.Debugw("Preview window ready", "width", width, "height", height)

	return p, nil
}

func (p *preview) Size() (int, int) {
	return p.width, p.height
}

func (p *preview) Frame() *image.RGBA {
	return p.frame
}

// Present is a no-op: Draw blits the backbuffer on every window frame.
func (p *preview) Present() error {
	return nil
}

func (p *preview) Pointer() (Sample, error) {
	x, y := ebiten.CursorPosition()

	return Sample{
		Touched: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		X:       x,
		Y:       y,
	}, nil
}

func (p *preview) Backlight(percent int) error {
	p.logger.Debugw("Backlight has no preview equivalent", "percent", percent)
	return nil
}

// Drive hands the loop to the window: ebiten calls Update once per tick
// on its own single goroutine, which is where step runs. Closing the
// window ends the loop cleanly.
func (p *preview) Drive(step func() error, interval time.Duration) error {
	p.step = step

	if interval > 0 {
		ebiten.SetTPS(int(time.Second / interval))
	}

	if err := ebiten.RunGame(p); err != nil {
		return fmt.Errorf("run preview window: %w", err)
	}

	return p.stepErr
}

func (p *preview) Close() error {
	return nil
}

func (p *preview) Update() error {
	if err := p.step(); err != nil {
		if errors.Is(err, ErrStop) {
			return ebiten.Termination
		}

		p.stepErr = err

		return ebiten.Termination
	}

	return nil
}

func (p *preview) Draw(screen *ebiten.Image) {
	screen.WritePixels(p.frame.Pix)
}

func (p *preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.width, p.height
}
