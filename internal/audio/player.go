package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"tomato/internal/core/pomodoro"

	"github.com/ebitengine/oto/v3"
)

// ErrUnavailable is returned when no audio output could be opened.
var ErrUnavailable = errors.New("audio output unavailable")

// Player plays alarms on the default audio device. Playback runs in the
// background; a new alarm cuts off the previous one.
type Player struct {
	mu         sync.Mutex
	context    *oto.Context
	sampleRate int
	current    *oto.Player
}

// NewPlayer opens the default output device.
func NewPlayer(sampleRate int) (*Player, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	<-ready
	return &Player{context: context, sampleRate: sampleRate}, nil
}

// Play starts the alarm and returns immediately.
func (player *Player) Play(alarm pomodoro.Alarm) error {
	pcm := Synthesize(alarm, player.sampleRate)

	player.mu.Lock()
	defer player.mu.Unlock()
	if player.current != nil {
		_ = player.current.Close()
	}
	player.current = player.context.NewPlayer(bytes.NewReader(pcm))
	player.current.Play()
	if err := player.context.Err(); err != nil {
		return fmt.Errorf("play %s alarm: %w", alarm.Phase, err)
	}
	return nil
}

// Close stops any playing alarm.
func (player *Player) Close() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.current == nil {
		return nil
	}
	err := player.current.Close()
	player.current = nil
	return err
}

// Silent discards alarms. It stands in when no device is available.
type Silent struct{}

func (Silent) Play(pomodoro.Alarm) error {
	return ErrUnavailable
}
