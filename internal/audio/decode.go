package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/anca-ferro/tts/internal/tts"
)

// PCM is decoded signed 16-bit little-endian audio.
type PCM struct {
	Data   []byte
	Format tts.PCMFormat
}

// Duration returns the playback length.
func (p PCM) Duration() time.Duration {
	return p.Format.Duration(len(p.Data))
}

// SniffFormat guesses the container from the leading bytes, falling back
// to the file extension of path.
func SniffFormat(data []byte, path string) tts.AudioFormat {
	switch {
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return tts.FormatWAV
	case len(data) >= 3 && string(data[:3]) == "ID3":
		return tts.FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return tts.FormatMP3
	}
	return tts.FormatFromExtension(filepath.Ext(path))
}

// Decode converts an MP3 or WAV container into PCM.
func Decode(data []byte, format tts.AudioFormat) (*PCM, error) {
	if len(data) == 0 {
		return nil, errors.New("no audio data")
	}
	switch format {
	case tts.FormatMP3:
		return decodeMP3(data)
	default:
		return decodeWAV(data)
	}
}

// decodeMP3 always yields stereo; go-mp3 duplicates mono streams.
func decodeMP3(data []byte) (*PCM, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	return &PCM{
		Data:   pcm,
		Format: tts.PCMFormat{SampleRate: d.SampleRate(), Channels: 2},
	}, nil
}

func decodeWAV(data []byte) (*PCM, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errors.New("decode wav: not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	shift, err := depthShift(int(d.BitDepth))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(buf.Data)*2)
	for i, v := range buf.Data {
		if d.BitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		var s int
		if shift >= 0 {
			s = v >> shift
		} else {
			s = v << -shift
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s)))
	}

	return &PCM{
		Data:   out,
		Format: tts.PCMFormat{SampleRate: int(d.SampleRate), Channels: int(d.NumChans)},
	}, nil
}

// depthShift returns the right shift that scales samples to 16 bits.
func depthShift(bitDepth int) (int, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return bitDepth - 16, nil
	default:
		return 0, fmt.Errorf("decode wav: unsupported bit depth %d", bitDepth)
	}
}
