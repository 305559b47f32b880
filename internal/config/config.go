// Package config holds the tts configuration: built-in defaults, the
// YAML config file, .env files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
)

// Config contains all configuration options.
type Config struct {
	// Synthesis defaults; explicit CLI arguments override these
	Engine   string  `yaml:"engine" mapstructure:"engine" env:"TTS_ENGINE"`
	Language string  `yaml:"language" mapstructure:"language" env:"TTS_LANGUAGE"`
	Rate     int     `yaml:"rate" mapstructure:"rate" env:"TTS_RATE"`
	Volume   float64 `yaml:"volume" mapstructure:"volume" env:"TTS_VOLUME"`
	Slow     bool    `yaml:"slow" mapstructure:"slow" env:"TTS_SLOW"`

	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Playback PlaybackConfig `yaml:"playback" mapstructure:"playback"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`

	// Engine-specific configurations
	GTTS   GTTSConfig   `yaml:"gtts" mapstructure:"gtts"`
	Espeak EspeakConfig `yaml:"espeak" mapstructure:"espeak"`
	Coqui  CoquiConfig  `yaml:"coqui" mapstructure:"coqui"`
	Piper  PiperConfig  `yaml:"piper" mapstructure:"piper"`
	Silero SileroConfig `yaml:"silero" mapstructure:"silero"`
}

// OutputConfig controls where and how audio is delivered.
type OutputConfig struct {
	AudioDir       string   `yaml:"audio_dir" mapstructure:"audio_dir" env:"AUDIO_DIRECTORY"`
	FilenamePrefix string   `yaml:"filename_prefix" mapstructure:"filename_prefix" env:"FILENAME_PREFIX"`
	DefaultSinks   []string `yaml:"default_sinks" mapstructure:"default_sinks" env:"TTS_DEFAULT_SINKS" envSeparator:","`
	AutoPlay       bool     `yaml:"auto_play" mapstructure:"auto_play" env:"AUTO_PLAY"`
}

// PlaybackConfig contains audio device settings.
type PlaybackConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" env:"TTS_PLAYBACK_POLL_INTERVAL"`
	TempDir      string        `yaml:"temp_dir" mapstructure:"temp_dir" env:"TTS_TEMP_DIR"`
}

// LogConfig controls the optional debug log file.
type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file" env:"TTS_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// GTTSConfig contains Google Translate TTS settings.
type GTTSConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url" env:"GTTS_BASE_URL"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout" env:"GTTS_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// EspeakConfig contains espeak-ng settings.
type EspeakConfig struct {
	// Command is empty to pick espeak-ng, then espeak, from PATH
	Command    string        `yaml:"command" mapstructure:"command" env:"ESPEAK_COMMAND"`
	Voice      string        `yaml:"voice" mapstructure:"voice"`
	FlushDelay time.Duration `yaml:"flush_delay" mapstructure:"flush_delay"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CoquiConfig contains Coqui TTS settings.
type CoquiConfig struct {
	Command   string        `yaml:"command" mapstructure:"command" env:"COQUI_COMMAND"`
	ModelsDir string        `yaml:"models_dir" mapstructure:"models_dir" env:"COQUI_TTS_CACHE_DIR"`
	Model     string        `yaml:"model" mapstructure:"model" env:"COQUI_MODEL"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PiperConfig contains Piper TTS settings.
type PiperConfig struct {
	Command         string        `yaml:"command" mapstructure:"command" env:"PIPER_COMMAND"`
	VoicesDir       string        `yaml:"voices_dir" mapstructure:"voices_dir" env:"PIPER_VOICES_DIR"`
	Voice           string        `yaml:"voice" mapstructure:"voice" env:"PIPER_VOICE"`
	SpeakerID       int           `yaml:"speaker_id" mapstructure:"speaker_id"`
	AutoDownload    bool          `yaml:"auto_download" mapstructure:"auto_download" env:"PIPER_AUTO_DOWNLOAD"`
	DownloadBaseURL string        `yaml:"download_base_url" mapstructure:"download_base_url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SileroConfig contains Silero TTS settings.
type SileroConfig struct {
	// Command is a shell-words template with {model}, {model_path},
	// {speaker}, {language} and {sample_rate} placeholders
	Command         string        `yaml:"command" mapstructure:"command" env:"SILERO_COMMAND"`
	ModelsDir       string        `yaml:"models_dir" mapstructure:"models_dir" env:"SILERO_MODELS_DIR"`
	AutoDownload    bool          `yaml:"auto_download" mapstructure:"auto_download" env:"SILERO_AUTO_DOWNLOAD"`
	DownloadBaseURL string        `yaml:"download_base_url" mapstructure:"download_base_url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Default returns a Config with the built-in defaults.
func Default() Config {
	return Config{
		Engine:   "gtts",
		Language: "en",
		Rate:     150,
		Volume:   0.9,
		Slow:     false,

		Output: OutputConfig{
			AudioDir:     "audio",
			DefaultSinks: []string{"play"},
		},
		Playback: PlaybackConfig{
			PollInterval: 100 * time.Millisecond,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},

		GTTS:   DefaultGTTSConfig(),
		Espeak: DefaultEspeakConfig(),
		Coqui:  DefaultCoquiConfig(),
		Piper:  DefaultPiperConfig(),
		Silero: DefaultSileroConfig(),
	}
}

// DefaultGTTSConfig returns default gTTS configuration.
func DefaultGTTSConfig() GTTSConfig {
	return GTTSConfig{
		BaseURL:           "https://translate.google.com",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 2,
	}
}

// DefaultEspeakConfig returns default espeak configuration.
func DefaultEspeakConfig() EspeakConfig {
	return EspeakConfig{
		FlushDelay: 500 * time.Millisecond,
		Timeout:    30 * time.Second,
	}
}

// DefaultCoquiConfig returns default Coqui configuration.
func DefaultCoquiConfig() CoquiConfig {
	return CoquiConfig{
		Command: "tts",
		Timeout: 5 * time.Minute,
	}
}

// DefaultPiperConfig returns default Piper configuration.
func DefaultPiperConfig() PiperConfig {
	return PiperConfig{
		Command:         "piper",
		DownloadBaseURL: "https://huggingface.co/rhasspy/piper-voices/resolve/v1.0.0",
		Timeout:         60 * time.Second,
	}
}

// DefaultSileroConfig returns default Silero configuration.
func DefaultSileroConfig() SileroConfig {
	return SileroConfig{
		Command:         "silero-tts --model-path {model_path} --speaker {speaker} --sample-rate {sample_rate}",
		AutoDownload:    true,
		DownloadBaseURL: "https://models.silero.ai/models/tts",
		Timeout:         5 * time.Minute,
	}
}

// sinkNames are the accepted entries of output.default_sinks.
var sinkNames = []string{"file", "play", "stdout"}

// Validate checks if the configuration is valid and normalizes names.
func (c *Config) Validate() error {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if c.Engine == "" {
		return fmt.Errorf("engine cannot be empty")
	}

	if utf8.RuneCountInString(c.Language) != 2 {
		return fmt.Errorf("language code must be 2 characters, got %q", c.Language)
	}
	c.Language = strings.ToLower(c.Language)

	if c.Rate < 1 || c.Rate > 1000 {
		return fmt.Errorf("rate must be between 1 and 1000 words per minute, got %d", c.Rate)
	}

	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", c.Volume)
	}

	for i, s := range c.Output.DefaultSinks {
		s = strings.ToLower(strings.TrimSpace(s))
		if !contains(sinkNames, s) {
			return fmt.Errorf("invalid default sink %q: must be one of %v", s, sinkNames)
		}
		c.Output.DefaultSinks[i] = s
	}

	if c.Playback.PollInterval <= 0 {
		return fmt.Errorf("playback poll_interval must be positive, got %v", c.Playback.PollInterval)
	}

	if c.GTTS.RequestsPerSecond <= 0 {
		return fmt.Errorf("gtts requests_per_second must be positive, got %f", c.GTTS.RequestsPerSecond)
	}
	if c.GTTS.Timeout < time.Second {
		return fmt.Errorf("gtts timeout must be at least 1 second, got %v", c.GTTS.Timeout)
	}

	if c.Espeak.FlushDelay < 0 {
		return fmt.Errorf("espeak flush_delay cannot be negative, got %v", c.Espeak.FlushDelay)
	}

	if c.Piper.Command == "" {
		return fmt.Errorf("piper command cannot be empty")
	}
	if c.Coqui.Command == "" {
		return fmt.Errorf("coqui command cannot be empty")
	}
	if c.Silero.Command == "" {
		return fmt.Errorf("silero command cannot be empty")
	}

	return nil
}

// SinkSet returns the default sinks with AUTO_PLAY folded in.
func (c *Config) SinkSet() []string {
	sinks := append([]string(nil), c.Output.DefaultSinks...)
	if c.Output.AutoPlay && !contains(sinks, "play") {
		sinks = append(sinks, "play")
	}
	return sinks
}

// expandPaths resolves a leading ~ in every configured path.
func (c *Config) expandPaths() error {
	paths := []*string{
		&c.Output.AudioDir,
		&c.Playback.TempDir,
		&c.Log.File,
		&c.Coqui.ModelsDir,
		&c.Piper.VoicesDir,
		&c.Silero.ModelsDir,
	}
	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
