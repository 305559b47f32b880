package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anca-ferro/tts/internal/tts"
)

func samples(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return out
}

func pcmOf(values ...int16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

func TestConvert_Passthrough(t *testing.T) {
	pcm := &PCM{Data: testPCM(8), Format: tts.PCMFormat{SampleRate: 22050, Channels: 1}}

	same, err := Convert(pcm, pcm.Format)
	require.NoError(t, err)
	assert.Same(t, pcm, same)

	zero, err := Convert(pcm, tts.PCMFormat{})
	require.NoError(t, err)
	assert.Same(t, pcm, zero)
}

func TestConvert_MonoToStereoUpsample(t *testing.T) {
	values := make([]int16, 240)
	for i := range values {
		values[i] = 1000
	}
	pcm := &PCM{Data: pcmOf(values...), Format: tts.PCMFormat{SampleRate: 24000, Channels: 1}}

	out, err := Convert(pcm, OutputFormat)
	require.NoError(t, err)
	assert.Equal(t, OutputFormat, out.Format)

	got := samples(out.Data)
	require.Len(t, got, 480*2)
	for _, v := range got {
		assert.Equal(t, int16(1000), v)
	}
	assert.Equal(t, pcm.Duration(), out.Duration())
}

func TestConvert_StereoToMonoAverages(t *testing.T) {
	pcm := &PCM{Data: pcmOf(100, 300, -200, 0), Format: tts.PCMFormat{SampleRate: 16000, Channels: 2}}

	out, err := Convert(pcm, tts.PCMFormat{SampleRate: 16000, Channels: 1})
	require.NoError(t, err)
	assert.Equal(t, []int16{200, -100}, samples(out.Data))
}

func TestConvert_Downsample(t *testing.T) {
	pcm := &PCM{Data: pcmOf(0, 10, 20, 30, 40, 50, 60, 70), Format: tts.PCMFormat{SampleRate: 48000, Channels: 1}}

	out, err := Convert(pcm, tts.PCMFormat{SampleRate: 24000, Channels: 1})
	require.NoError(t, err)
	assert.Equal(t, []int16{0, 20, 40, 60}, samples(out.Data))
}

func TestConvert_Interpolates(t *testing.T) {
	pcm := &PCM{Data: pcmOf(0, 100), Format: tts.PCMFormat{SampleRate: 8000, Channels: 1}}

	out, err := Convert(pcm, tts.PCMFormat{SampleRate: 16000, Channels: 1})
	require.NoError(t, err)
	assert.Equal(t, []int16{0, 50, 100, 100}, samples(out.Data))
}

func TestConvert_Errors(t *testing.T) {
	pcm := &PCM{Data: testPCM(4), Format: tts.PCMFormat{SampleRate: 8000, Channels: 1}}

	_, err := Convert(pcm, tts.PCMFormat{SampleRate: -1, Channels: 2})
	assert.Error(t, err)

	misaligned := &PCM{Data: []byte{1, 2, 3}, Format: tts.PCMFormat{SampleRate: 8000, Channels: 1}}
	_, err = Convert(misaligned, OutputFormat)
	assert.Error(t, err)
}
