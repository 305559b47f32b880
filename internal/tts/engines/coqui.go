package engines

import (
	"context"
	"strings"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

const coquiMultilingualModel = "tts_models/multilingual/multi-dataset/xtts_v2"

// coquiLanguageModels are single-language models with better quality
// than the multilingual one.
var coquiLanguageModels = map[string]string{
	"en": "tts_models/en/ljspeech/tacotron2-DDC",
	"es": "tts_models/es/mai/tacotron2-DDC",
	"fr": "tts_models/fr/mai/tacotron2-DDC",
	"de": "tts_models/de/thorsten/tacotron2-DDC",
}

// CoquiModel returns the model used for language. Languages without a
// dedicated model use the multilingual one.
func CoquiModel(language string) string {
	if m, ok := coquiLanguageModels[strings.ToLower(language)]; ok {
		return m
	}
	return coquiMultilingualModel
}

// Coqui drives the Coqui TTS command line. It writes to a file only; the
// backend downloads model weights itself into TTS_HOME.
type Coqui struct {
	command   string
	modelsDir string
	model     string
	tempDir   string
	runner    *Runner
}

// NewCoqui creates the Coqui adapter.
func NewCoqui(cfg config.CoquiConfig, tempDir string) *Coqui {
	return &Coqui{
		command:   cfg.Command,
		modelsDir: CoquiModelsDir(cfg.ModelsDir),
		model:     cfg.Model,
		tempDir:   tempDir,
		runner:    NewRunner(cfg.Timeout),
	}
}

func (e *Coqui) ID() tts.EngineID { return tts.EngineCoqui }

func (e *Coqui) RequiresFileRoundTrip() bool { return true }

func (e *Coqui) Descriptor() tts.EngineDescriptor {
	return tts.EngineDescriptor{
		ID:                    tts.EngineCoqui,
		NativeOutput:          tts.FileOnly,
		DefaultExtension:      "wav",
		RequiresFileRoundTrip: true,
	}
}

func (e *Coqui) Probe(context.Context) error {
	args, err := ParseCommand(e.command, nil)
	if err == nil {
		_, err = LookupProgram(args)
	}
	if err != nil {
		return tts.NotAvailable(tts.EngineCoqui, BuildCoquiGuidance(e.command))
	}
	return nil
}

// ModelsDir is the directory handed to the backend as TTS_HOME.
func (e *Coqui) ModelsDir() string { return e.modelsDir }

func (e *Coqui) Synthesize(ctx context.Context, text string, cfg tts.SynthesisConfig) ([]byte, error) {
	args, err := ParseCommand(e.command, nil)
	if err != nil {
		return nil, tts.GenerationFailed(tts.EngineCoqui, err)
	}

	model := e.model
	if model == "" {
		model = CoquiModel(cfg.Language)
	}

	var audio []byte
	err = tts.WithTempFile(e.tempDir, "tts-coqui-*.wav", func(path string) error {
		cmdArgs := append(args, "--text", text, "--model_name", model, "--out_path", path)
		if strings.Contains(model, "multilingual") {
			cmdArgs = append(cmdArgs, "--language_idx", cfg.Language)
		}

		cmd := Command{Args: cmdArgs}
		if e.modelsDir != "" {
			cmd.Env = []string{"TTS_HOME=" + e.modelsDir}
		}
		if _, err := e.runner.Run(ctx, cmd); err != nil {
			return tts.GenerationFailed(tts.EngineCoqui, err).WithContext("model", model)
		}

		data, err := tts.ReadOutputFile(tts.EngineCoqui, path)
		if err != nil {
			return err
		}
		audio = data
		return nil
	})
	return audio, err
}

var _ tts.Engine = (*Coqui)(nil)
