// Package sliderpanel implements a touchscreen volume panel: one
// full-screen slider whose value is mirrored to a percentage label and
// fanned out to configurable targets.
package sliderpanel

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel/board"
	"github.com/jax-b/sliderpanel/pkg/sliderpanel/ui"
	"github.com/jax-b/sliderpanel/pkg/sliderpanel/util"
)

const (
	captionText = "Speaker Volume"

	labelOffsetY   = -40
	captionOffsetY = 40
)

// Panel is the main entity managing access to all sub-components
type Panel struct {
	logger   *zap.SugaredLogger
	notifier Notifier
	config   *CanonicalConfig
	board    board.Board
	loop     *ui.Loop
	targets  *targetRouter

	slider     *ui.Slider
	valueLabel *ui.Label

	boardConfig board.Config

	stopChannel chan bool
	version     string
	verbose     bool
}

// NewPanel creates a Panel instance
func NewPanel(logger *zap.SugaredLogger, verbose bool) (*Panel, error) {
	logger = logger.Named("panel")

	notifier, err := NewToastNotifier(logger)
	if err != nil {
		logger.Errorw("Failed to create ToastNotifier", "error", err)
		return nil, fmt.Errorf("create new ToastNotifier: %w", err)
	}

	config, err := NewConfig(logger, notifier)
	if err != nil {
		logger.Errorw("Failed to create Config", "error", err)
		return nil, fmt.Errorf("create new Config: %w", err)
	}

	p := &Panel{
		logger:      logger,
		notifier:    notifier,
		config:      config,
		stopChannel: make(chan bool, 1),
		verbose:     verbose,
	}

	targets, err := newTargetRouter(p, logger)
	if err != nil {
		logger.Errorw("Failed to create target router", "error", err)
		return nil, fmt.Errorf("create new target router: %w", err)
	}

	p.targets = targets

	logger.Debug("Created panel instance")

	return p, nil
}

// Initialize sets up components and starts the run loop, which only
// returns when the panel shuts down
func (p *Panel) Initialize() error {
	defer p.recoverFromPanic()

	p.logger.Debug("Initializing")

	// load the config for the first time
	if err := p.config.Load(); err != nil {
		p.logger.Errorw("Failed to load config during initialization", "error", err)
		return fmt.Errorf("load config during init: %w", err)
	}

	// bring up the display, touch and backlight hardware
	b, err := board.Open(p.logger, p.config.Board)
	if err != nil {
		p.logger.Errorw("Failed to open board", "error", err)
		return fmt.Errorf("open board: %w", err)
	}

	p.board = b
	p.boardConfig = p.config.Board

	p.buildUI()

	// start the slider targets
	if err := p.targets.initialize(); err != nil {
		p.logger.Errorw("Failed to initialize target router", "error", err)
		return fmt.Errorf("init target router: %w", err)
	}

	if p.version != "" {
		p.logger.Infow("Starting", "version", p.version)
	}

	p.setupOnConfigReload()
	p.setupInterruptHandler()
	p.run()

	return nil
}

// SetVersion causes the panel to log a version string on startup if called before Initialize
func (p *Panel) SetVersion(version string) {
	p.version = version
}

// Verbose returns a boolean indicating whether the panel is running in verbose mode
func (p *Panel) Verbose() bool {
	return p.verbose
}

func (p *Panel) buildUI() {
	width, height := p.board.Size()

	face, err := ui.LoadFace(p.config.FontPath, p.config.FontSize)
	if err != nil {
		p.logger.Warnw("Failed to load font, falling back to the built-in face",
			"fontPath", p.config.FontPath,
			"error", err)

		face, _ = ui.LoadFace("", 0)
	}

	screen := ui.NewScreen(width, height, ui.DefaultStyle(), face)

	p.slider = ui.NewSlider(screen)

	p.valueLabel = ui.NewLabel(screen, percentText(p.slider.Value()))
	p.valueLabel.SetOffset(0, labelOffsetY)

	caption := ui.NewLabel(screen, captionText)
	caption.SetOffset(0, captionOffsetY)

	// the label updates inline during the slider's own dispatch, so the
	// frame that shows the moved knob always shows the matching text
	p.slider.OnValueChanged(func(value int) {
		p.valueLabel.SetText(percentText(value))
		p.targets.handleSliderValue(0, value)
	})

	p.loop = ui.NewLoop(p.logger, p.board, p.pollPointer, screen)
}

func (p *Panel) pollPointer() (ui.Pointer, error) {
	sample, err := p.board.Pointer()
	if err != nil {
		return ui.Pointer{}, err
	}

	return ui.Pointer{Pressed: sample.Touched, X: sample.X, Y: sample.Y}, nil
}

// step is a single turn of the cooperative loop: poll input, dispatch,
// repaint if needed
func (p *Panel) step() error {
	select {
	case <-p.stopChannel:
		p.logger.Debug("Stop channel signaled, terminating")
		return board.ErrStop
	default:
	}

	return p.loop.Step()
}

func (p *Panel) setupInterruptHandler() {
	interruptChannel := util.SetupCloseHandler()

	go func() {
		signal := <-interruptChannel
		p.logger.Debugw("Interrupted", "signal", signal)
		p.signalStop()
	}()
}

func (p *Panel) setupOnConfigReload() {
	configReloadedChannel := p.config.SubscribeToChanges()

	go func() {
		for {
			select {
			case <-configReloadedChannel:
				if err := p.board.Backlight(p.config.BacklightPercent); err != nil {
					p.logger.Warnw("Failed to re-apply backlight level", "error", err)
				}

				// pin and bus changes can't be applied to an already-open board
				if p.config.Board != p.boardConfig {
					p.logger.Warnw("Board config changed, restart required for it to take effect",
						"current", p.boardConfig,
						"new", p.config.Board)
				}
			}
		}
	}()
}

func (p *Panel) run() {
	p.logger.Info("Run loop starting")

	// watch the config file for changes
	go p.config.WatchConfigFileChanges()

	if err := p.board.Backlight(p.config.BacklightPercent); err != nil {
		p.logger.Warnw("Failed to set initial backlight level", "error", err)
	}

	// drive the UI until stopped (gracefully) or a step fails
	if err := p.board.Drive(p.step, p.config.TickInterval); err != nil {
		p.logger.Errorw("Run loop failed", "error", err)

		if stopErr := p.stop(); stopErr != nil {
			p.logger.Warnw("Failed to stop panel", "error", stopErr)
		}

		os.Exit(1)
	}

	if err := p.stop(); err != nil {
		p.logger.Warnw("Failed to stop panel", "error", err)
		os.Exit(1)
	} else {
		// exit with 0
		os.Exit(0)
	}
}

func (p *Panel) signalStop() {
	p.logger.Debug("Signalling stop channel")

	// the run loop polls this channel between steps, so a repeat signal
	// must not block the interrupt handler
	select {
	case p.stopChannel <- true:
	default:
	}
}

func (p *Panel) stop() error {
	p.logger.Info("Stopping")

	p.config.StopWatchingConfigFile()
	p.targets.stopAll()

	// release the board, turning the backlight off with it
	if err := p.board.Close(); err != nil {
		p.logger.Errorw("Failed to close board", "error", err)
		return fmt.Errorf("close board: %w", err)
	}

	// attempt to sync on exit - this won't necessarily work but can't harm
	p.logger.Sync()

	return nil
}

func percentText(value int) string {
	return fmt.Sprintf("%d%%", value)
}
