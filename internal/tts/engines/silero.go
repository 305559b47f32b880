package engines

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

const sileroSampleRate = 48000

// SileroModel identifies the weights and speaker for a language.
type SileroModel struct {
	// Dir is the language directory on the model host
	Dir        string
	ID         string
	Speaker    string
	SampleRate int
}

var sileroModels = map[string]SileroModel{
	"ru": {Dir: "ru", ID: "v3_1_ru", Speaker: "aidar", SampleRate: sileroSampleRate},
	"en": {Dir: "en", ID: "v3_en", Speaker: "en_0", SampleRate: sileroSampleRate},
	"de": {Dir: "de", ID: "v3_de", Speaker: "bernd_ungerer", SampleRate: sileroSampleRate},
	"es": {Dir: "es", ID: "v3_es", Speaker: "es_0", SampleRate: sileroSampleRate},
	"fr": {Dir: "fr", ID: "v3_fr", Speaker: "fr_0", SampleRate: sileroSampleRate},
	"ua": {Dir: "ua", ID: "v3_ua", Speaker: "mykyta", SampleRate: sileroSampleRate},
	"uk": {Dir: "ua", ID: "v3_ua", Speaker: "mykyta", SampleRate: sileroSampleRate},
}

// SileroModelFor returns the model for language, falling back to English.
func SileroModelFor(language string) SileroModel {
	if m, ok := sileroModels[strings.ToLower(language)]; ok {
		return m
	}
	return sileroModels["en"]
}

// Silero runs Silero models through an external helper command that reads
// text on stdin and writes raw 16-bit mono PCM on stdout.
type Silero struct {
	command      string
	modelsDir    string
	autoDownload bool
	baseURL      string
	tempDir      string
	runner       *Runner
	downloader   *Downloader
}

// NewSilero creates the Silero adapter.
func NewSilero(cfg config.SileroConfig, tempDir string) *Silero {
	return &Silero{
		command:      cfg.Command,
		modelsDir:    SileroModelsDir(cfg.ModelsDir),
		autoDownload: cfg.AutoDownload,
		baseURL:      strings.TrimRight(cfg.DownloadBaseURL, "/"),
		tempDir:      tempDir,
		runner:       NewRunner(cfg.Timeout),
		downloader:   NewDownloader(cfg.Timeout, 0),
	}
}

func (e *Silero) ID() tts.EngineID { return tts.EngineSilero }

func (e *Silero) Descriptor() tts.EngineDescriptor {
	return tts.EngineDescriptor{
		ID:                tts.EngineSilero,
		NativeOutput:      tts.TensorOnly,
		DefaultExtension:  "wav",
		DefaultSampleRate: sileroSampleRate,
	}
}

func (e *Silero) Probe(context.Context) error {
	args, err := ParseCommand(e.command, nil)
	if err == nil {
		_, err = LookupProgram(args)
	}
	if err != nil {
		return tts.NotAvailable(tts.EngineSilero, BuildSileroGuidance(e.command))
	}
	return nil
}

// ModelsDir is where weights are looked up and downloaded to.
func (e *Silero) ModelsDir() string { return e.modelsDir }

func (e *Silero) Synthesize(ctx context.Context, text string, cfg tts.SynthesisConfig) ([]byte, error) {
	model := SileroModelFor(cfg.Language)

	modelPath, err := e.ensureModel(ctx, model)
	if err != nil {
		return nil, err
	}

	args, err := ParseCommand(e.command, map[string]string{
		"model":       model.ID,
		"model_path":  modelPath,
		"speaker":     model.Speaker,
		"language":    cfg.Language,
		"sample_rate": strconv.Itoa(model.SampleRate),
	})
	if err != nil {
		return nil, tts.GenerationFailed(tts.EngineSilero, err)
	}

	pcm, err := e.runner.Run(ctx, Command{Args: args, Stdin: text})
	if err != nil {
		return nil, tts.GenerationFailed(tts.EngineSilero, err).WithContext("model", model.ID)
	}
	return pcmToWAV(tts.EngineSilero, e.tempDir, pcm, model.SampleRate)
}

func (e *Silero) modelURL(m SileroModel) string {
	return e.baseURL + "/" + m.Dir + "/" + m.ID + ".pt"
}

// ensureModel returns the local weights path, fetching it when allowed.
func (e *Silero) ensureModel(ctx context.Context, m SileroModel) (string, error) {
	path := filepath.Join(e.modelsDir, m.ID+".pt")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	guidance := BuildSileroModelGuidance(m.ID, e.modelsDir, e.modelURL(m))
	if !e.autoDownload {
		return "", tts.ModelNotFound(tts.EngineSilero, m.ID, guidance)
	}

	files := []RemoteFile{{URL: e.modelURL(m), Name: m.ID + ".pt"}}
	if _, err := e.downloader.FetchAll(ctx, e.modelsDir, files); err != nil {
		return "", tts.ModelNotFound(tts.EngineSilero, m.ID, guidance).
			WithContext("download_error", err.Error())
	}
	return path, nil
}

var _ tts.Engine = (*Silero)(nil)
