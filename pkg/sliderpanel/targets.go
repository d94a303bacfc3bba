package sliderpanel

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel/util"
)

// target names recognized in the target mapping config
const (
	targetNameVolume = "volume"
	targetNameDeej   = "deej"
	targetNameLog    = "log"
)

const (
	// events queued per target before the dispatch starts dropping
	sliderEventBufferSize = 64

	// forces the first accepted move to always produce an event
	impossibleScalar float32 = -1.0
)

// SliderMoveEvent represents a single accepted slider move, published to
// every running target
type SliderMoveEvent struct {
	SliderID     int
	PercentValue float32
}

// Target consumes slider move events. HandleEvent runs on the target's
// own consumer goroutine, never on the UI loop.
type Target interface {
	HandleEvent(event SliderMoveEvent)
	Stop()
}

type runningTarget struct {
	name   string
	target Target
	events chan SliderMoveEvent
}

// targetRouter fans accepted slider moves out to the targets named in the
// config's target mapping
type targetRouter struct {
	panel  *Panel
	logger *zap.SugaredLogger

	running []*runningTarget
	lock    sync.Locker

	currentScalar float32
}

func newTargetRouter(panel *Panel, logger *zap.SugaredLogger) (*targetRouter, error) {
	logger = logger.Named("targets")

	tr := &targetRouter{
		panel:         panel,
		logger:        logger,
		lock:          &sync.Mutex{},
		currentScalar: impossibleScalar,
	}

	logger.Debug("Created target router instance")

	return tr, nil
}

func (tr *targetRouter) initialize() error {
	if err := tr.applyMapping(); err != nil {
		tr.logger.Warnw("Failed to apply target mapping during router initialization", "error", err)
		return fmt.Errorf("apply target mapping during init: %w", err)
	}

	tr.setupOnConfigReload()

	return nil
}

// applyMapping starts a consumer for every target the config maps the
// slider to. Targets that fail to come up are skipped with a warning,
// the panel is still usable without them.
func (tr *targetRouter) applyMapping() error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.panel.config.TargetMapping.iterate(func(sliderIdx int, names []string) {
		if sliderIdx != 0 {
			tr.logger.Warnw("Ignoring mapping for nonexistent slider", "sliderIdx", sliderIdx)
			return
		}

		for _, name := range names {
			tr.startTarget(name)
		}
	})

	tr.logger.Infow("Applied target mapping", "runningTargets", len(tr.running))

	return nil
}

// startTarget must be called with the router lock held.
func (tr *targetRouter) startTarget(name string) {
	target, err := tr.createTarget(name)
	if err != nil {
		tr.logger.Warnw("Failed to create target, skipping it", "target", name, "error", err)
		return
	}

	rt := &runningTarget{
		name:   name,
		target: target,
		events: make(chan SliderMoveEvent, sliderEventBufferSize),
	}

	go func() {
		for event := range rt.events {
			rt.target.HandleEvent(event)
		}
	}()

	tr.running = append(tr.running, rt)
	tr.logger.Debugw("Target running", "target", name)
}

func (tr *targetRouter) createTarget(name string) (Target, error) {
	switch name {
	case targetNameVolume:
		return newVolumeTarget(tr.logger)
	case targetNameDeej:
		return newDeejTarget(tr.logger, tr.panel.config.DeejAddress)
	case targetNameLog:
		return newLogTarget(tr.logger), nil
	}

	return nil, fmt.Errorf("unknown target: %s", name)
}

// handleSliderValue runs inside the UI loop's dispatch, so it must never
// block: each running target gets the event only if its buffer has room.
func (tr *targetRouter) handleSliderValue(sliderID int, position int) {

	// map the slider position to a volume-style scalar between 0.0 and 1.0
	scalar := util.NormalizeScalar(float32(position) / 100)

	if tr.panel.config.InvertSlider {
		scalar = 1 - scalar
	}

	// drop jitter the same way a physical fader would
	if !util.SignificantlyDifferent(tr.currentScalar, scalar, tr.panel.config.NoiseReductionLevel) {
		return
	}

	tr.currentScalar = scalar

	event := SliderMoveEvent{
		SliderID:     sliderID,
		PercentValue: scalar,
	}

	if tr.panel.Verbose() {
		tr.logger.Debugw("Slider moved", "event", event)
	}

	tr.lock.Lock()
	defer tr.lock.Unlock()

	for _, rt := range tr.running {
		select {
		case rt.events <- event:
		default:
			tr.logger.Debugw("Target not keeping up, dropping event", "target", rt.name)
		}
	}
}

func (tr *targetRouter) setupOnConfigReload() {
	configReloadedChannel := tr.panel.config.SubscribeToChanges()

	const stopDelay = 50 * time.Millisecond

	go func() {
		for {
			select {
			case <-configReloadedChannel:
				tr.logger.Debug("Detected config reload, rebuilding targets")

				// let the other reload consumers settle before tearing targets down
				<-time.After(stopDelay)

				tr.stopAll()

				if err := tr.applyMapping(); err != nil {
					tr.logger.Warnw("Failed to re-apply target mapping", "error", err)
				} else {
					tr.logger.Debug("Rebuilt targets successfully")
				}

				// make sure the next accepted move reaches the new targets
				tr.currentScalar = impossibleScalar
			}
		}
	}()
}

func (tr *targetRouter) stopAll() {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	for _, rt := range tr.running {
		close(rt.events)
		rt.target.Stop()
	}

	tr.running = nil
}

// logTarget just logs every move, mostly useful when setting a panel up
type logTarget struct {
	logger *zap.SugaredLogger
}

func newLogTarget(logger *zap.SugaredLogger) *logTarget {
	return &logTarget{logger: logger.Named("log")}
}

func (t *logTarget) HandleEvent(event SliderMoveEvent) {
	t.logger.Infow("Slider moved",
		"sliderID", event.SliderID,
		"percentValue", fmt.Sprintf("%.2f", event.PercentValue))
}

func (t *logTarget) Stop() {}

// deejTarget forwards moves to a desktop deej instance over UDP, encoded
// the way deej's own slider controllers put them on the wire
type deejTarget struct {
	logger     *zap.SugaredLogger
	address    string
	connection *net.UDPConn
}

func newDeejTarget(logger *zap.SugaredLogger, address string) (*deejTarget, error) {
	logger = logger.Named("deej")

	udpAddress, err := net.ResolveUDPAddr("udp4", address)
	if err != nil {
		logger.Warnw("Failed to resolve deej peer address", "error", err, "address", address)
		return nil, fmt.Errorf("resolve deej peer address: %w", err)
	}

	connection, err := net.DialUDP("udp4", nil, udpAddress)
	if err != nil {
		logger.Warnw("Failed to dial deej peer", "error", err)
		return nil, fmt.Errorf("dial deej peer: %w", err)
	}

	t := &deejTarget{
		logger:     logger,
		address:    address,
		connection: connection,
	}

	t.logger.Infow("Connected", "address", address)

	return t, nil
}

func (t *deejTarget) HandleEvent(event SliderMoveEvent) {
	line := encodeSliderLine([]float32{event.PercentValue})

	if _, err := t.connection.Write([]byte(line)); err != nil {
		t.logger.Warnw("Failed to send slider line", "error", err, "line", line)
	}
}

func (t *deejTarget) Stop() {
	if err := t.connection.Close(); err != nil {
		t.logger.Warnw("Failed to close UDP connection", "error", err)
	} else {
		t.logger.Debug("UDP connection closed")
	}
}

// encodeSliderLine renders scalars in the deej wire format: raw 0-1023
// readings joined by pipes, with no terminator over UDP.
func encodeSliderLine(scalars []float32) string {
	raws := make([]string, len(scalars))

	for i, scalar := range scalars {
		raws[i] = strconv.Itoa(int(math.Round(float64(scalar) * 1023)))
	}

	return strings.Join(raws, "|")
}
