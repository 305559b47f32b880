package tts

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
)

// Settings are the effective synthesis settings. Values given to a
// Dispatcher act as configured defaults, call options override them.
type Settings struct {
	Engine   EngineID
	Language string
	Rate     int
	Volume   float64
	Slow     bool
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Engine:   EngineGTTS,
		Language: "en",
		Rate:     150,
		Volume:   0.9,
		Slow:     false,
	}
}

// withFallback fills unset fields from the built-in defaults. Volume 0
// mutes, so only a negative volume counts as unset.
func (s Settings) withFallback() Settings {
	def := DefaultSettings()
	if s.Engine == "" {
		s.Engine = def.Engine
	}
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.Rate <= 0 {
		s.Rate = def.Rate
	}
	if s.Volume < 0 {
		s.Volume = def.Volume
	}
	return s
}

// Option overrides one setting for a single Dispatch call.
type Option func(*Settings)

// WithRate sets the speech rate in words per minute.
func WithRate(rate int) Option {
	return func(s *Settings) { s.Rate = rate }
}

// WithVolume sets the output volume between 0 and 1.
func WithVolume(volume float64) Option {
	return func(s *Settings) { s.Volume = volume }
}

// WithSlow selects the slow speaking mode of backends that support it.
func WithSlow(slow bool) Option {
	return func(s *Settings) { s.Slow = slow }
}

// Dispatcher validates requests, resolves adapters and invokes them.
// It never retries: a failing backend surfaces immediately.
type Dispatcher struct {
	registry *Registry
	defaults Settings
	metrics  *MetricsLogger
}

// NewDispatcher creates a dispatcher over registry. Unset fields in
// defaults take the built-in values.
func NewDispatcher(registry *Registry, defaults Settings, metrics *MetricsLogger) *Dispatcher {
	if metrics == nil {
		metrics = NewMetricsLogger(nil)
	}
	return &Dispatcher{
		registry: registry,
		defaults: defaults.withFallback(),
		metrics:  metrics,
	}
}

// Defaults returns the configured defaults after fallback.
func (d *Dispatcher) Defaults() Settings {
	return d.defaults
}

// Registry returns the registry the dispatcher resolves engines from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch synthesizes text with engine in language. Empty engine or
// language arguments take the configured defaults.
func (d *Dispatcher) Dispatch(ctx context.Context, text, engine, language string, opts ...Option) (*AudioArtifact, error) {
	settings := d.defaults
	if strings.TrimSpace(engine) != "" {
		settings.Engine = EngineID(engine)
	}
	if language != "" {
		settings.Language = language
	}
	for _, opt := range opts {
		opt(&settings)
	}

	req, err := Validate(text, string(settings.Engine), settings.Language, d.registry)
	if err != nil {
		return nil, err
	}

	adapter, err := d.registry.Resolve(req.Engine())
	if err != nil {
		return nil, err
	}
	desc, err := d.registry.Describe(req.Engine())
	if err != nil {
		return nil, err
	}

	cfg := SynthesisConfig{
		Language: req.Language(),
		Rate:     settings.Rate,
		Volume:   settings.Volume,
		Slow:     settings.Slow,
	}
	log.Debug("Dispatching synthesis",
		"engine", req.Engine(),
		"language", cfg.Language,
		"rate", cfg.Rate,
		"volume", cfg.Volume,
		"slow", cfg.Slow)

	m := d.metrics.StartSynthesis(req.Engine(), req.Text())
	data, err := adapter.Synthesize(ctx, req.Text(), cfg)
	if err == nil && len(data) == 0 {
		err = OutputEmpty(req.Engine())
	}
	if err != nil {
		err = wrapEngineError(req.Engine(), err)
		m.EndSynthesis(0, err)
		return nil, err
	}
	m.EndSynthesis(len(data), nil)

	return NewAudioArtifact(data, desc.Format(), req.Engine()), nil
}

// wrapEngineError keeps typed errors as they are and wraps everything
// else as a generation failure.
func wrapEngineError(engine EngineID, err error) error {
	var te *TTSError
	if errors.As(err, &te) {
		return err
	}
	return GenerationFailed(engine, err)
}
