//go:build linux

package sliderpanel

import (
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

// normal PulseAudio volume (100%)
const maxVolume = 0x10000

// paVolumeTarget applies slider moves to the master sink over the
// PulseAudio native protocol.
type paVolumeTarget struct {
	logger *zap.SugaredLogger

	client *proto.Client
	conn   net.Conn

	sinkIndex    uint32
	sinkChannels byte
}

func newVolumeTarget(logger *zap.SugaredLogger) (Target, error) {
	logger = logger.Named("volume")

	client, conn, err := proto.Connect("")
	if err != nil {
		logger.Warnw("Failed to establish PulseAudio connection", "error", err)
		return nil, fmt.Errorf("establish PulseAudio connection: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString("sliderpanel"),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		conn.Close()
		return nil, err
	}

	t := &paVolumeTarget{
		logger: logger,
		client: client,
		conn:   conn,
	}

	if err := t.resolveMasterSink(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("resolve master sink: %w", err)
	}

	t.logger.Debugw("Created PA volume target instance",
		"sinkIndex", t.sinkIndex,
		"currentVolume", fmt.Sprintf("%.2f", t.getVolume()))

	return t, nil
}

func (t *paVolumeTarget) resolveMasterSink() error {
	request := proto.GetSinkInfo{
		SinkIndex: proto.Undefined,
	}
	reply := proto.GetSinkInfoReply{}

	if err := t.client.Request(&request, &reply); err != nil {
		t.logger.Warnw("Failed to get master sink info", "error", err)
		return fmt.Errorf("get master sink info: %w", err)
	}

	t.sinkIndex = reply.SinkIndex
	t.sinkChannels = reply.Channels

	return nil
}

func (t *paVolumeTarget) getVolume() float32 {
	request := proto.GetSinkInfo{
		SinkIndex: t.sinkIndex,
	}
	reply := proto.GetSinkInfoReply{}

	if err := t.client.Request(&request, &reply); err != nil {
		t.logger.Warnw("Failed to get master sink volume", "error", err)
		return 0
	}

	return parseChannelVolumes(reply.ChannelVolumes)
}

func (t *paVolumeTarget) setVolume(v float32) error {
	request := proto.SetSinkVolume{
		SinkIndex:      t.sinkIndex,
		ChannelVolumes: createChannelVolumes(t.sinkChannels, v),
	}

	if err := t.client.Request(&request, nil); err != nil {
		t.logger.Warnw("Failed to set master sink volume",
			"error", err,
			"volume", v)

		return fmt.Errorf("adjust master sink volume: %w", err)
	}

	t.logger.Debugw("Adjusting master sink volume", "to", fmt.Sprintf("%.2f", v))

	return nil
}

func (t *paVolumeTarget) HandleEvent(event SliderMoveEvent) {
	// a failed request was already logged, and the next move retries anyway
	_ = t.setVolume(event.PercentValue)
}

func (t *paVolumeTarget) Stop() {
	if err := t.conn.Close(); err != nil {
		t.logger.Warnw("Failed to close PulseAudio connection", "error", err)
	}

	t.logger.Debug("Released PA volume target instance")
}

func createChannelVolumes(channels byte, volume float32) []uint32 {
	volumes := make([]uint32, channels)

	for i := range volumes {
		volumes[i] = uint32(volume * maxVolume)
	}

	return volumes
}

func parseChannelVolumes(volumes []uint32) float32 {
	var level uint32

	for _, volume := range volumes {
		level += volume
	}

	return float32(level) / float32(len(volumes)) / float32(maxVolume)
}
