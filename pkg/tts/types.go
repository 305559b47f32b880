package tts

import (
	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/output"
	itts "github.com/anca-ferro/tts/internal/tts"
)

// Config is the full tts configuration.
type Config = config.Config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return config.Default()
}

// AudioFormat is the container of synthesized audio.
type AudioFormat = itts.AudioFormat

const (
	FormatWAV = itts.FormatWAV
	FormatMP3 = itts.FormatMP3
)

// SinkKind selects a delivery destination.
type SinkKind = output.SinkKind

const (
	SinkFile   = output.SinkFile
	SinkPlay   = output.SinkPlay
	SinkStdout = output.SinkStdout
)

// SynthesisOption overrides a synthesis setting for one call.
type SynthesisOption = itts.Option

var (
	WithRate   = itts.WithRate
	WithVolume = itts.WithVolume
	WithSlow   = itts.WithSlow
)

// EngineStatus is one entry of ListEngines.
type EngineStatus struct {
	ID        string
	Available bool
	Remote    bool
	Guidance  string
}
