package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration. Layers, lowest first:
// built-in defaults, the config file already read into v, then
// process environment variables. v may be nil.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v != nil {
		if err := v.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("unable to decode configuration: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path and exports the ones that
// are not already set in the process environment. A missing file is
// not an error unless required is true.
func LoadDotEnv(path string, required bool) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if required {
			return fmt.Errorf("env file %s does not exist", path)
		}
		return nil
	}

	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		return fmt.Errorf("could not parse env file %s: %w", path, err)
	}

	exported := 0
	for _, key := range dv.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, dv.GetString(key)); err != nil {
			return fmt.Errorf("could not export %s: %w", name, err)
		}
		exported++
	}
	log.Debug("Loaded env file", "path", path, "exported", exported)
	return nil
}

// DefaultYAML renders the built-in defaults as a commented config file.
func DefaultYAML() ([]byte, error) {
	body, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("unable to render default config: %w", err)
	}
	header := "# tts configuration\n" +
		"# Values here are overridden by environment variables (TTS_ENGINE,\n" +
		"# TTS_LANGUAGE, AUDIO_DIRECTORY, ...) and by command line flags.\n\n"
	return append([]byte(header), body...), nil
}
