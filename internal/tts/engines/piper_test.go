package engines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

// fakePiperPCM emits four 16-bit samples.
const fakePiperPCM = `printf '\001\000\002\000\003\000\004\000'`

func newTestPiper(command, voicesDir string) *Piper {
	return NewPiper(config.PiperConfig{
		Command:         command,
		VoicesDir:       voicesDir,
		DownloadBaseURL: "https://huggingface.co/rhasspy/piper-voices/resolve/v1.0.0",
		Timeout:         5 * time.Second,
	}, "")
}

func installVoice(t *testing.T, dir, voice string, sampleRate int) string {
	t.Helper()
	model := filepath.Join(dir, voice+".onnx")
	require.NoError(t, os.WriteFile(model, []byte("onnx"), 0o644))
	if sampleRate > 0 {
		cfg := `{"audio": {"sample_rate": ` + strconv.Itoa(sampleRate) + `}}`
		require.NoError(t, os.WriteFile(model+".json", []byte(cfg), 0o644))
	}
	return model
}

func TestPiperVoice(t *testing.T) {
	assert.Equal(t, "ru_RU-ruslan-medium", PiperVoice("ru"))
	assert.Equal(t, "uk_UA-ukrainian_tts-medium", PiperVoice("UK"))
	assert.Equal(t, piperDefaultVoice, PiperVoice("pt"))
}

func TestPiperVoiceFiles(t *testing.T) {
	files, err := PiperVoiceFiles("https://example.com/voices/", "en_US-lessac-medium")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "https://example.com/voices/en/en_US/lessac/medium/en_US-lessac-medium.onnx", files[0].URL)
	assert.Equal(t, "en_US-lessac-medium.onnx.json", files[1].Name)

	_, err = PiperVoiceFiles("https://example.com", "lessac")
	assert.Error(t, err)
}

func TestLengthScale(t *testing.T) {
	assert.Equal(t, "1.00", lengthScale(150))
	assert.Equal(t, "0.75", lengthScale(200))
	assert.Equal(t, "2.00", lengthScale(75))
	assert.Equal(t, "1.00", lengthScale(0))
}

func TestPiper_Synthesize(t *testing.T) {
	script, argsFile := fakeBackend(t, "cat > /dev/null\n"+fakePiperPCM)
	voices := t.TempDir()
	model := installVoice(t, voices, "ru_RU-ruslan-medium", 16000)

	e := newTestPiper(script, voices)
	audio, err := e.Synthesize(context.Background(), "привет", tts.SynthesisConfig{Language: "ru", Rate: 200})
	require.NoError(t, err)

	rate, channels := wavInfo(t, audio)
	assert.Equal(t, 16000, rate)
	assert.Equal(t, 1, channels)

	args := readArgs(t, argsFile)
	assert.Equal(t, model, argAfter(args, "--model"))
	assert.Contains(t, args, "--output-raw")
	assert.Equal(t, "0.75", argAfter(args, "--length_scale"))
	assert.NotContains(t, args, "--speaker")
}

func TestPiper_StagesWAVInTempDir(t *testing.T) {
	script, _ := fakeBackend(t, fakePiperPCM)
	voices := t.TempDir()
	installVoice(t, voices, "en_US-lessac-medium", 0)

	e := newTestPiper(script, voices)
	e.tempDir = filepath.Join(t.TempDir(), "missing")

	_, err := e.Synthesize(context.Background(), "hello", tts.SynthesisConfig{Language: "en", Rate: 150})
	require.Error(t, err)
	assert.ErrorIs(t, err, tts.ErrGenerationFailed)
}

func TestPiper_DefaultSampleRateAndSpeaker(t *testing.T) {
	script, argsFile := fakeBackend(t, fakePiperPCM)
	voices := t.TempDir()
	installVoice(t, voices, "en_US-lessac-medium", 0)

	e := newTestPiper(script, voices)
	e.speakerID = 3
	audio, err := e.Synthesize(context.Background(), "hello", tts.SynthesisConfig{Language: "en", Rate: 150})
	require.NoError(t, err)

	rate, _ := wavInfo(t, audio)
	assert.Equal(t, piperDefaultSampleRate, rate)
	assert.Equal(t, "3", argAfter(readArgs(t, argsFile), "--speaker"))
}

func TestPiper_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	script, argsFile := fakeBackend(t, fakePiperPCM)
	voices := t.TempDir()
	model := installVoice(t, voices, piperDefaultVoice, 22050)

	_, err := newTestPiper(script, voices).Synthesize(context.Background(), "olá", tts.SynthesisConfig{Language: "pt", Rate: 150})
	require.NoError(t, err)
	assert.Equal(t, model, argAfter(readArgs(t, argsFile), "--model"))
}

func TestPiper_MissingVoice(t *testing.T) {
	setHome(t)
	script, _ := fakeBackend(t, fakePiperPCM)
	voices := t.TempDir()

	_, err := newTestPiper(script, voices).Synthesize(context.Background(), "hi", tts.SynthesisConfig{Language: "de", Rate: 150})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tts.ErrModelNotFound))

	var te *tts.TTSError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Guidance, "de/de_DE/thorsten/medium/de_DE-thorsten-medium.onnx")
	assert.Contains(t, te.Guidance, voices)
}

func TestPiper_AutoDownload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, ".onnx.json") {
			_, _ = w.Write([]byte(`{"audio": {"sample_rate": 24000}}`))
			return
		}
		_, _ = w.Write([]byte("onnx-weights"))
	}))
	defer srv.Close()

	script, _ := fakeBackend(t, fakePiperPCM)
	voices := t.TempDir()
	e := newTestPiper(script, voices)
	e.autoDownload = true
	e.baseURL = srv.URL

	audio, err := e.Synthesize(context.Background(), "bonjour", tts.SynthesisConfig{Language: "fr", Rate: 150})
	require.NoError(t, err)
	rate, _ := wavInfo(t, audio)
	assert.Equal(t, 24000, rate)
	assert.Equal(t, int32(2), hits.Load())
	assert.FileExists(t, filepath.Join(voices, "fr_FR-siwis-medium.onnx"))

	// second call finds the voice locally
	_, err = e.Synthesize(context.Background(), "encore", tts.SynthesisConfig{Language: "fr", Rate: 150})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestPiper_EmptyOutput(t *testing.T) {
	script, _ := fakeBackend(t, "exit 0")
	voices := t.TempDir()
	installVoice(t, voices, piperDefaultVoice, 22050)

	_, err := newTestPiper(script, voices).Synthesize(context.Background(), "hi", tts.SynthesisConfig{Language: "en", Rate: 150})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tts.ErrEngineOutputEmpty))
}

func TestPiper_Probe(t *testing.T) {
	err := newTestPiper("nonexistent_piper_xyz", "").Probe(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, tts.ErrEngineNotAvailable))

	script, _ := fakeBackend(t, "exit 0")
	assert.NoError(t, newTestPiper(script, "").Probe(context.Background()))
}
