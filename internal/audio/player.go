package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/anca-ferro/tts/internal/tts"
)

const defaultPollInterval = 100 * time.Millisecond

// Player plays audio files and buffers on a Device, blocking until
// playback completes.
type Player struct {
	device       Device
	pollInterval time.Duration
	tempDir      string
	volume       float64
}

// Option configures a Player.
type Option func(*Player)

// WithPollInterval sets how often playback completion is checked.
func WithPollInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}

// WithTempDir sets where PlayBytes stages audio.
func WithTempDir(dir string) Option {
	return func(p *Player) { p.tempDir = dir }
}

// WithVolume sets playback volume, clamped to [0, 1].
func WithVolume(v float64) Option {
	return func(p *Player) { p.volume = clamp(v, 0, 1) }
}

// NewPlayer returns a Player writing to device.
func NewPlayer(device Device, opts ...Option) *Player {
	p := &Player{
		device:       device,
		pollInterval: defaultPollInterval,
		volume:       1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlayFile decodes and plays the MP3 or WAV file at path.
func (p *Player) PlayFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return tts.AudioFileNotFound(path)
	}
	if err != nil {
		return tts.PlaybackUnavailable(fmt.Errorf("read %s: %w", path, err))
	}

	format := SniffFormat(data, path)
	pcm, err := Decode(data, format)
	if err != nil {
		return tts.PlaybackUnavailable(err).WithContext("path", path)
	}

	return p.play(ctx, pcm)
}

// PlayBytes stages data in a temporary file and plays it. The file is
// removed once playback ends.
func (p *Player) PlayBytes(ctx context.Context, data []byte, format tts.AudioFormat) error {
	return tts.WithTempFile(p.tempDir, "tts-play-*."+format.Extension(), func(path string) error {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return tts.PlaybackUnavailable(fmt.Errorf("stage audio: %w", err))
		}
		return p.PlayFile(ctx, path)
	})
}

func (p *Player) play(ctx context.Context, pcm *PCM) error {
	pcm, err := Convert(pcm, p.device.Format())
	if err != nil {
		return tts.PlaybackUnavailable(err)
	}

	// pcm.Data must stay referenced until the stream drains
	stream, err := p.device.NewStream(pcm.Format, bytes.NewReader(pcm.Data))
	if err != nil {
		var te *tts.TTSError
		if errors.As(err, &te) {
			return err
		}
		return tts.PlaybackUnavailable(err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Debug("Failed to close audio stream", "error", err)
		}
	}()

	log.Debug("Starting playback",
		"sample_rate", pcm.Format.SampleRate,
		"channels", pcm.Format.Channels,
		"duration", pcm.Duration())

	stream.SetVolume(p.volume)
	stream.Play()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for stream.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	log.Debug("Playback finished")
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
