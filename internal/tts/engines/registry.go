package engines

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/tts"
)

// All returns one adapter per supported backend, built from cfg.
func All(cfg config.Config) []tts.Engine {
	tempDir := cfg.Playback.TempDir
	return []tts.Engine{
		NewGTTS(cfg.GTTS),
		NewEspeak(cfg.Espeak, tempDir),
		NewCoqui(cfg.Coqui, tempDir),
		NewPiper(cfg.Piper, tempDir),
		NewSilero(cfg.Silero, tempDir),
	}
}

// NewRegistry registers every adapter, probing each one once.
func NewRegistry(ctx context.Context, cfg config.Config) (*tts.Registry, error) {
	reg := tts.NewRegistry()
	for _, e := range All(cfg) {
		if err := reg.RegisterProbed(ctx, e); err != nil {
			return nil, fmt.Errorf("register %s: %w", e.ID(), err)
		}
	}
	log.Debug("Engine registry ready", "available", len(reg.ListAvailable()), "total", len(reg.IDs()))
	return reg, nil
}
