//go:build nocgo
// +build nocgo

package audio

import (
	"errors"
	"io"

	"github.com/anca-ferro/tts/internal/tts"
)

type nocgoDevice struct{}

// NewDevice returns a device that always reports playback as unavailable.
func NewDevice(*PlatformInfo) Device {
	return nocgoDevice{}
}

func (nocgoDevice) Format() tts.PCMFormat { return OutputFormat }

func (nocgoDevice) NewStream(tts.PCMFormat, io.Reader) (Stream, error) {
	return nil, tts.PlaybackUnavailable(errors.New("audio not available in nocgo build"))
}
