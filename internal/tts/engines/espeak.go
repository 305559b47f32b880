package engines

import (
	"context"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

// Espeak drives espeak-ng (or classic espeak). The backend can only
// write to a file, so every call goes through a scoped temp file.
type Espeak struct {
	command    string
	voice      string
	flushDelay time.Duration
	tempDir    string
	runner     *Runner
}

// NewEspeak creates the espeak adapter. An empty command picks espeak-ng,
// then espeak, from PATH.
func NewEspeak(cfg config.EspeakConfig, tempDir string) *Espeak {
	return &Espeak{
		command:    cfg.Command,
		voice:      cfg.Voice,
		flushDelay: cfg.FlushDelay,
		tempDir:    tempDir,
		runner:     NewRunner(cfg.Timeout),
	}
}

func (e *Espeak) ID() tts.EngineID { return tts.EngineEspeak }

func (e *Espeak) RequiresFileRoundTrip() bool { return true }

func (e *Espeak) Descriptor() tts.EngineDescriptor {
	return tts.EngineDescriptor{
		ID:                    tts.EngineEspeak,
		NativeOutput:          tts.FileOnly,
		DefaultExtension:      "wav",
		DefaultSampleRate:     22050,
		RequiresFileRoundTrip: true,
	}
}

func (e *Espeak) Probe(context.Context) error {
	if _, err := e.baseArgs(); err != nil {
		return tts.NotAvailable(tts.EngineEspeak, BuildEspeakGuidance())
	}
	return nil
}

// baseArgs resolves the program and any fixed arguments.
func (e *Espeak) baseArgs() ([]string, error) {
	if e.command != "" {
		args, err := ParseCommand(e.command, nil)
		if err != nil {
			return nil, err
		}
		if _, err := LookupProgram(args); err != nil {
			return nil, err
		}
		return args, nil
	}

	var lastErr error
	for _, name := range []string{"espeak-ng", "espeak"} {
		path, err := exec.LookPath(name)
		if err == nil {
			return []string{path}, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Synthesize writes a WAV file with espeak and returns its contents.
func (e *Espeak) Synthesize(ctx context.Context, text string, cfg tts.SynthesisConfig) ([]byte, error) {
	args, err := e.baseArgs()
	if err != nil {
		return nil, tts.NotAvailable(tts.EngineEspeak, BuildEspeakGuidance())
	}

	voice := e.voice
	if voice == "" {
		voice = cfg.Language
	}

	var audio []byte
	err = tts.WithTempFile(e.tempDir, "tts-espeak-*.wav", func(path string) error {
		cmd := Command{
			Args: append(args,
				"-w", path,
				"-s", strconv.Itoa(cfg.Rate),
				"-a", strconv.Itoa(amplitude(cfg.Volume)),
				"-v", voice,
			),
			Stdin: text,
		}
		if _, err := e.runner.Run(ctx, cmd); err != nil {
			return tts.GenerationFailed(tts.EngineEspeak, err)
		}

		// espeak may still be flushing the file after exit
		if e.flushDelay > 0 {
			select {
			case <-time.After(e.flushDelay):
			case <-ctx.Done():
				return tts.GenerationFailed(tts.EngineEspeak, ctx.Err())
			}
		}

		data, err := tts.ReadOutputFile(tts.EngineEspeak, path)
		if err != nil {
			return err
		}
		audio = data
		return nil
	})
	return audio, err
}

// amplitude maps a 0..1 volume onto espeak's 0..200 scale, 100 being normal.
func amplitude(volume float64) int {
	return int(math.Round(math.Max(0, math.Min(volume, 2)) * 100))
}

var _ tts.Engine = (*Espeak)(nil)
