package tts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// PCMFormat describes signed 16-bit little-endian PCM produced by the
// neural backends.
type PCMFormat struct {
	SampleRate int
	Channels   int
}

// BytesPerFrame returns the size of one sample across all channels.
func (f PCMFormat) BytesPerFrame() int {
	return 2 * f.Channels
}

// Duration returns the playback length of n bytes of PCM.
func (f PCMFormat) Duration(n int) time.Duration {
	if f.SampleRate == 0 || f.Channels == 0 {
		return 0
	}
	frames := n / f.BytesPerFrame()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// Validate checks that data is non-empty and frame aligned.
func (f PCMFormat) Validate(data []byte) error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("invalid PCM format: %d Hz, %d channels", f.SampleRate, f.Channels)
	}
	if len(data) == 0 {
		return errors.New("empty PCM data")
	}
	if len(data)%f.BytesPerFrame() != 0 {
		return fmt.Errorf("PCM data length %d is not aligned to %d-byte frames",
			len(data), f.BytesPerFrame())
	}
	return nil
}

// EncodeWAV wraps raw PCM into a WAV container, staged in os.TempDir.
func EncodeWAV(pcm []byte, format PCMFormat) ([]byte, error) {
	return EncodeWAVIn("", pcm, format)
}

// EncodeWAVIn is EncodeWAV staging in dir. The encoder needs a seekable
// writer, so the container is assembled in a temp file.
func EncodeWAVIn(dir string, pcm []byte, format PCMFormat) ([]byte, error) {
	if err := format.Validate(pcm); err != nil {
		return nil, err
	}

	var out []byte
	err := WithTempFile(dir, "pcm-*.wav", func(path string) error {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("open wav file: %w", err)
		}
		if err := writePCMToWav(f, pcm, format); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close wav file: %w", err)
		}
		out, err = os.ReadFile(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func writePCMToWav(f *os.File, pcm []byte, format PCMFormat) error {
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(f, format.SampleRate, 16, format.Channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
