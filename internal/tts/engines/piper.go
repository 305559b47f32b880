package engines

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

const (
	piperDefaultVoice      = "en_US-lessac-medium"
	piperDefaultSampleRate = 22050
)

var piperVoices = map[string]string{
	"en": "en_US-lessac-medium",
	"ru": "ru_RU-ruslan-medium",
	"es": "es_ES-davefx-medium",
	"de": "de_DE-thorsten-medium",
	"fr": "fr_FR-siwis-medium",
	"it": "it_IT-riccardo-medium",
	"uk": "uk_UA-ukrainian_tts-medium",
	"zh": "zh_CN-huayan-medium",
}

// PiperVoice returns the voice used for language, falling back to the
// English voice.
func PiperVoice(language string) string {
	if v, ok := piperVoices[strings.ToLower(language)]; ok {
		return v
	}
	return piperDefaultVoice
}

// PiperVoiceFiles returns the model and config downloads of a voice named
// <locale>-<speaker>-<quality>, e.g. en_US-lessac-medium.
func PiperVoiceFiles(baseURL, voice string) ([]RemoteFile, error) {
	parts := strings.Split(voice, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("voice %q is not <locale>-<speaker>-<quality>", voice)
	}
	locale, speaker, quality := parts[0], parts[1], parts[2]
	lang, _, _ := strings.Cut(locale, "_")

	prefix := strings.TrimRight(baseURL, "/") + "/" + strings.Join([]string{lang, locale, speaker, quality, voice}, "/")
	return []RemoteFile{
		{URL: prefix + ".onnx", Name: voice + ".onnx"},
		{URL: prefix + ".onnx.json", Name: voice + ".onnx.json"},
	}, nil
}

// Piper drives the piper binary. Piper streams raw 16-bit mono PCM on
// stdout, which is wrapped into a WAV container.
type Piper struct {
	command      string
	voicesDir    string
	voice        string
	speakerID    int
	autoDownload bool
	baseURL      string
	tempDir      string
	runner       *Runner
	downloader   *Downloader
}

// NewPiper creates the piper adapter. WAV containers are staged in tempDir.
func NewPiper(cfg config.PiperConfig, tempDir string) *Piper {
	return &Piper{
		command:      cfg.Command,
		voicesDir:    cfg.VoicesDir,
		voice:        cfg.Voice,
		speakerID:    cfg.SpeakerID,
		autoDownload: cfg.AutoDownload,
		baseURL:      cfg.DownloadBaseURL,
		tempDir:      tempDir,
		runner:       NewRunner(cfg.Timeout),
		downloader:   NewDownloader(cfg.Timeout, 0),
	}
}

func (e *Piper) ID() tts.EngineID { return tts.EnginePiper }

func (e *Piper) Descriptor() tts.EngineDescriptor {
	return tts.EngineDescriptor{
		ID:                tts.EnginePiper,
		NativeOutput:      tts.TensorOnly,
		DefaultExtension:  "wav",
		DefaultSampleRate: piperDefaultSampleRate,
	}
}

// Probe checks the binary only. Voices are resolved per language at
// synthesis time.
func (e *Piper) Probe(context.Context) error {
	args, err := ParseCommand(e.command, nil)
	if err == nil {
		_, err = LookupProgram(args)
	}
	if err != nil {
		return tts.NotAvailable(tts.EnginePiper, BuildPiperGuidance())
	}
	return nil
}

func (e *Piper) Synthesize(ctx context.Context, text string, cfg tts.SynthesisConfig) ([]byte, error) {
	args, err := ParseCommand(e.command, nil)
	if err != nil {
		return nil, tts.GenerationFailed(tts.EnginePiper, err)
	}

	model, err := e.ensureVoice(ctx, cfg.Language)
	if err != nil {
		return nil, err
	}
	sampleRate := piperSampleRate(model + ".json")

	args = append(args,
		"--model", model,
		"--output-raw",
		"--length_scale", lengthScale(cfg.Rate),
	)
	if e.speakerID > 0 {
		args = append(args, "--speaker", strconv.Itoa(e.speakerID))
	}

	pcm, err := e.runner.Run(ctx, Command{Args: args, Stdin: text})
	if err != nil {
		return nil, tts.GenerationFailed(tts.EnginePiper, err).WithContext("model", model)
	}
	return pcmToWAV(tts.EnginePiper, e.tempDir, pcm, sampleRate)
}

// ensureVoice returns the .onnx path of the voice for language, fetching
// it when auto download is enabled.
func (e *Piper) ensureVoice(ctx context.Context, language string) (string, error) {
	voice := e.voice
	if strings.HasSuffix(voice, ".onnx") {
		if _, err := os.Stat(voice); err != nil {
			return "", tts.ModelNotFound(tts.EnginePiper, voice, fmt.Sprintf("Voice file %s does not exist.", voice))
		}
		return voice, nil
	}
	if voice == "" {
		voice = PiperVoice(language)
	}

	for _, dir := range PiperVoiceDirs(e.voicesDir) {
		path := filepath.Join(dir, voice+".onnx")
		if _, err := os.Stat(path); err == nil {
			log.Debug("Using piper voice", "voice", voice, "path", path)
			return path, nil
		}
	}

	files, err := PiperVoiceFiles(e.baseURL, voice)
	if err != nil {
		return "", tts.ModelNotFound(tts.EnginePiper, voice, err.Error())
	}
	dir := PiperDownloadDir(e.voicesDir)
	if !e.autoDownload {
		return "", tts.ModelNotFound(tts.EnginePiper, voice, BuildPiperVoiceGuidance(voice, dir, files))
	}

	if _, err := e.downloader.FetchAll(ctx, dir, files); err != nil {
		return "", tts.ModelNotFound(tts.EnginePiper, voice, BuildPiperVoiceGuidance(voice, dir, files)).
			WithContext("download_error", err.Error())
	}
	return filepath.Join(dir, voice+".onnx"), nil
}

type piperVoiceConfig struct {
	Audio struct {
		SampleRate int `json:"sample_rate"`
	} `json:"audio"`
}

// piperSampleRate reads audio.sample_rate from a voice config file.
func piperSampleRate(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return piperDefaultSampleRate
	}
	var vc piperVoiceConfig
	if err := json.Unmarshal(data, &vc); err != nil || vc.Audio.SampleRate <= 0 {
		log.Debug("Unusable piper voice config", "path", path, "error", err)
		return piperDefaultSampleRate
	}
	return vc.Audio.SampleRate
}

// lengthScale converts words per minute into piper's phoneme length
// multiplier, 150 wpm being 1.0.
func lengthScale(rate int) string {
	if rate <= 0 {
		rate = 150
	}
	return strconv.FormatFloat(150/float64(rate), 'f', 2, 64)
}

// pcmToWAV wraps mono 16-bit PCM. A trailing odd byte is dropped.
func pcmToWAV(engine tts.EngineID, tempDir string, pcm []byte, sampleRate int) ([]byte, error) {
	pcm = pcm[:len(pcm)-len(pcm)%2]
	if len(pcm) == 0 {
		return nil, tts.OutputEmpty(engine)
	}
	data, err := tts.EncodeWAVIn(tempDir, pcm, tts.PCMFormat{SampleRate: sampleRate, Channels: 1})
	if err != nil {
		return nil, tts.GenerationFailed(engine, err)
	}
	return data, nil
}

var _ tts.Engine = (*Piper)(nil)
