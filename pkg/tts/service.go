package tts

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/anca-ferro/tts/internal/audio"
	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/output"
	itts "github.com/anca-ferro/tts/internal/tts"
	"github.com/anca-ferro/tts/internal/tts/engines"
)

// Service wires the engine registry, dispatcher, player and output fanout
// built from one Config.
type Service struct {
	cfg        config.Config
	dispatcher *itts.Dispatcher
	metrics    *itts.MetricsLogger
	player     *audio.Player
	stdout     io.Writer
	defaults   []output.SinkSpec
}

type options struct {
	ctx      context.Context
	registry *itts.Registry
	device   audio.Device
	stdout   io.Writer
	logger   *log.Logger
}

// Option configures New.
type Option func(*options)

// WithContext bounds the engine availability probes run by New.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithRegistry replaces the built-in engines.
func WithRegistry(r *itts.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithDevice replaces the audio output device.
func WithDevice(d audio.Device) Option {
	return func(o *options) { o.device = d }
}

// WithStdout replaces os.Stdout for the Stdout sink.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithLogger sets the logger synthesis metrics are written to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New validates cfg and builds a Service. Unless WithRegistry is given,
// every backend is registered and probed once.
func New(cfg config.Config, opts ...Option) (*Service, error) {
	o := options{ctx: context.Background(), stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	defaults, err := output.ParseSinks(cfg.SinkSet())
	if err != nil {
		return nil, fmt.Errorf("invalid default sinks: %w", err)
	}

	registry := o.registry
	if registry == nil {
		registry, err = engines.NewRegistry(o.ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	device := o.device
	if device == nil {
		device = defaultDevice()
	}

	metrics := itts.NewMetricsLogger(o.logger)
	settings := itts.Settings{
		Engine:   itts.EngineID(cfg.Engine),
		Language: cfg.Language,
		Rate:     cfg.Rate,
		Volume:   cfg.Volume,
		Slow:     cfg.Slow,
	}

	return &Service{
		cfg:        cfg,
		dispatcher: itts.NewDispatcher(registry, settings, metrics),
		metrics:    metrics,
		player: audio.NewPlayer(device,
			audio.WithPollInterval(cfg.Playback.PollInterval),
			audio.WithTempDir(cfg.Playback.TempDir),
			audio.WithVolume(cfg.Volume)),
		stdout:   o.stdout,
		defaults: defaults,
	}, nil
}

// defaultDevice uses the oto device. TTS_MOCK_AUDIO opts into a silent
// mock device; anything else that prevents playback surfaces as a Play
// sink error.
func defaultDevice() audio.Device {
	if os.Getenv("TTS_MOCK_AUDIO") != "" {
		log.Info("Using mock audio device", "reason", "TTS_MOCK_AUDIO set")
		return audio.NewMockDevice()
	}
	platform := audio.DetectPlatform()
	if reason := platform.Unavailable(); reason != "" {
		log.Debug("Audio output may be unavailable", "reason", reason)
	}
	return audio.NewDevice(platform)
}

// Synthesize converts text to audio. Empty engine or language take the
// configured defaults.
func (s *Service) Synthesize(ctx context.Context, text, engine, language string, opts ...SynthesisOption) ([]byte, AudioFormat, error) {
	artifact, err := s.dispatcher.Dispatch(ctx, text, engine, language, opts...)
	if err != nil {
		return nil, 0, err
	}
	return artifact.Bytes(), artifact.Format, nil
}

// Deliver sends data to each sink. fileTarget applies to SinkFile and
// audioDir overrides the configured directory for generated names. With
// no sinks the configured default set is used. The returned maps hold
// the written path and the failure of each sink respectively.
func (s *Service) Deliver(ctx context.Context, data []byte, format AudioFormat, sinks []SinkKind, fileTarget, audioDir string) (map[SinkKind]string, map[SinkKind]error) {
	specs := make([]output.SinkSpec, 0, len(sinks))
	for _, kind := range sinks {
		spec := output.SinkSpec{Kind: kind}
		if kind == output.SinkFile {
			spec.Target = fileTarget
		}
		specs = append(specs, spec)
	}

	report := s.fanout(audioDir).Deliver(ctx, itts.NewAudioArtifact(data, format, ""), specs)
	return report.Paths, report.Errors
}

// DeliverReport is Deliver returning the full report, including whether
// audio went to stdout.
func (s *Service) DeliverReport(ctx context.Context, data []byte, format AudioFormat, sinks []output.SinkSpec, audioDir string) *output.DeliveryReport {
	return s.fanout(audioDir).Deliver(ctx, itts.NewAudioArtifact(data, format, ""), sinks)
}

func (s *Service) fanout(audioDir string) *output.Fanout {
	if audioDir == "" {
		audioDir = s.cfg.Output.AudioDir
	}
	return output.NewFanout(
		output.WithAudioDir(audioDir),
		output.WithPrefix(s.cfg.Output.FilenamePrefix),
		output.WithPlayer(s.player),
		output.WithStdout(s.stdout),
		output.WithDefaultSinks(s.defaults),
	)
}

// ListEngines reports every registered engine and whether it can be used.
func (s *Service) ListEngines() []EngineStatus {
	descs := s.dispatcher.Registry().List()
	out := make([]EngineStatus, 0, len(descs))
	for _, d := range descs {
		out = append(out, EngineStatus{
			ID:        string(d.ID),
			Available: d.Available,
			Remote:    d.Remote,
			Guidance:  d.Guidance,
		})
	}
	return out
}

// Describe returns the full descriptor of one engine.
func (s *Service) Describe(engine string) (itts.EngineDescriptor, error) {
	return s.dispatcher.Registry().Describe(itts.EngineID(engine))
}

// Player returns the service's audio player.
func (s *Service) Player() *audio.Player {
	return s.player
}
