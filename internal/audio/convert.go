package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/anca-ferro/tts/internal/tts"
)

// OutputFormat is the shape the output device is opened with. Every
// stream is converted to it, so backends with different sample rates
// can share one device.
var OutputFormat = tts.PCMFormat{SampleRate: 48000, Channels: 2}

// Convert remixes and resamples pcm to target. A zero target, or one
// equal to the source, returns pcm unchanged.
func Convert(pcm *PCM, target tts.PCMFormat) (*PCM, error) {
	if target == (tts.PCMFormat{}) || target == pcm.Format {
		return pcm, nil
	}
	if target.SampleRate <= 0 || target.Channels <= 0 {
		return nil, fmt.Errorf("invalid target format: %d Hz, %d channels", target.SampleRate, target.Channels)
	}
	if err := pcm.Format.Validate(pcm.Data); err != nil {
		return nil, err
	}

	buf := toIntBuffer(pcm)
	buf = remix(buf, target.Channels)
	buf = resample(buf, target.SampleRate)

	return &PCM{Data: fromIntBuffer(buf), Format: target}, nil
}

func toIntBuffer(pcm *PCM) *goaudio.IntBuffer {
	data := make([]int, len(pcm.Data)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(pcm.Data[2*i:])))
	}
	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: pcm.Format.Channels,
			SampleRate:  pcm.Format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
}

func fromIntBuffer(buf *goaudio.IntBuffer) []byte {
	out := make([]byte, 2*len(buf.Data))
	for i, v := range buf.Data {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(clampSample(v))))
	}
	return out
}

// remix maps frames onto channels outputs. Mono targets average every
// source channel; wider targets repeat source channels in order.
func remix(buf *goaudio.IntBuffer, channels int) *goaudio.IntBuffer {
	src := buf.Format.NumChannels
	if src == channels {
		return buf
	}

	frames := buf.NumFrames()
	out := make([]int, frames*channels)
	for f := 0; f < frames; f++ {
		frame := buf.Data[f*src : (f+1)*src]
		if channels == 1 {
			sum := 0
			for _, v := range frame {
				sum += v
			}
			out[f] = sum / src
			continue
		}
		for c := 0; c < channels; c++ {
			out[f*channels+c] = frame[c%src]
		}
	}

	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: buf.Format.SampleRate},
		Data:           out,
		SourceBitDepth: buf.SourceBitDepth,
	}
}

// resample changes the sample rate with linear interpolation.
func resample(buf *goaudio.IntBuffer, rate int) *goaudio.IntBuffer {
	src := buf.Format.SampleRate
	if src == rate {
		return buf
	}

	ch := buf.Format.NumChannels
	frames := buf.NumFrames()
	outFrames := int(int64(frames) * int64(rate) / int64(src))
	if outFrames == 0 && frames > 0 {
		outFrames = 1
	}

	step := float64(src) / float64(rate)
	out := make([]int, outFrames*ch)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		next := j + 1
		if next >= frames {
			next = frames - 1
		}
		for c := 0; c < ch; c++ {
			s0 := float64(buf.Data[j*ch+c])
			s1 := float64(buf.Data[next*ch+c])
			out[i*ch+c] = int(math.Round(s0 + (s1-s0)*frac))
		}
	}

	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: ch, SampleRate: rate},
		Data:           out,
		SourceBitDepth: buf.SourceBitDepth,
	}
}

func clampSample(v int) int {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return v
}
