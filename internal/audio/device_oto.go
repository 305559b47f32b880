//go:build !nocgo
// +build !nocgo

package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/anca-ferro/tts/internal/tts"
)

// oto allows a single context per process, so every otoDevice shares
// one, opened on first use at OutputFormat.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

type otoDevice struct {
	platform *PlatformInfo
}

// NewDevice returns the oto-backed output device.
func NewDevice(platform *PlatformInfo) Device {
	if platform == nil {
		platform = DetectPlatform()
	}
	return &otoDevice{platform: platform}
}

func (d *otoDevice) Format() tts.PCMFormat { return OutputFormat }

func (d *otoDevice) NewStream(format tts.PCMFormat, r io.Reader) (Stream, error) {
	if format != OutputFormat {
		return nil, tts.PlaybackUnavailable(fmt.Errorf(
			"device plays %d Hz/%d ch, got %d Hz/%d ch",
			OutputFormat.SampleRate, OutputFormat.Channels, format.SampleRate, format.Channels))
	}

	otoOnce.Do(func() {
		otoContext, otoErr = openContext(d.platform)
	})
	if otoErr != nil {
		return nil, tts.PlaybackUnavailable(otoErr)
	}
	return otoContext.NewPlayer(r), nil
}

func openContext(platform *PlatformInfo) (*oto.Context, error) {
	options := &oto.NewContextOptions{
		SampleRate:   OutputFormat.SampleRate,
		ChannelCount: OutputFormat.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   platform.BufferSize(),
	}

	log.Debug("Initializing audio context",
		"platform", platform.OS,
		"audio_subsystem", platform.AudioSubsystem,
		"sample_rate", options.SampleRate,
		"channels", options.ChannelCount,
		"buffer_size", options.BufferSize)

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	readyTimeout := 5 * time.Second
	if platform.OS == PlatformDarwin {
		// CoreAudio can take longer to come up
		readyTimeout = 10 * time.Second
	}

	select {
	case <-ready:
	case <-time.After(readyTimeout):
		return nil, fmt.Errorf("audio context initialization timeout after %v", readyTimeout)
	}
	return ctx, nil
}
