package tts

import (
	"bytes"
	"io"
	"strings"
)

// EngineID identifies a compiled-in synthesis backend.
type EngineID string

const (
	// EngineGTTS is the Google Translate network backend.
	EngineGTTS EngineID = "gtts"

	// EngineEspeak is the offline formant synthesizer (espeak-ng).
	EngineEspeak EngineID = "espeak"

	// EngineCoqui is the Coqui neural TTS backend.
	EngineCoqui EngineID = "coqui"

	// EnginePiper is the lightweight offline neural backend.
	EnginePiper EngineID = "piper"

	// EngineSilero is the Silero neural backend, tuned for Russian.
	EngineSilero EngineID = "silero"
)

// AllEngines returns every known engine id in listing order.
func AllEngines() []EngineID {
	return []EngineID{EngineGTTS, EngineEspeak, EngineCoqui, EnginePiper, EngineSilero}
}

// ParseEngineID maps a user supplied name to a known engine id.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseEngineID(name string) (EngineID, bool) {
	id := EngineID(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllEngines() {
		if id == known {
			return id, true
		}
	}
	return "", false
}

// String returns the engine id as a string.
func (id EngineID) String() string {
	return string(id)
}

// NativeOutput describes how a backend hands back audio.
type NativeOutput int

const (
	// FileOnly backends can only write audio to a file path.
	FileOnly NativeOutput = iota

	// BufferOnly backends return encoded audio in memory.
	BufferOnly

	// TensorOnly backends return raw samples that need a container.
	TensorOnly
)

// String returns the string representation of the output shape
func (n NativeOutput) String() string {
	switch n {
	case FileOnly:
		return "file"
	case BufferOnly:
		return "buffer"
	case TensorOnly:
		return "tensor"
	default:
		return "unknown"
	}
}

// AudioFormat is the container of a synthesized artifact.
type AudioFormat int

const (
	// FormatWAV is an uncompressed RIFF/WAVE container.
	FormatWAV AudioFormat = iota

	// FormatMP3 is an MPEG-1 Layer III stream.
	FormatMP3
)

// Extension returns the file extension for the format, without a dot.
func (f AudioFormat) Extension() string {
	if f == FormatMP3 {
		return "mp3"
	}
	return "wav"
}

// MIMEType returns the media type for the format.
func (f AudioFormat) MIMEType() string {
	if f == FormatMP3 {
		return "audio/mpeg"
	}
	return "audio/wav"
}

// String returns the upper-case format name.
func (f AudioFormat) String() string {
	return strings.ToUpper(f.Extension())
}

// FormatFromExtension maps a file extension to a format. Anything that
// is not mp3 is treated as a lossless wav container.
func FormatFromExtension(ext string) AudioFormat {
	if strings.EqualFold(strings.TrimPrefix(ext, "."), "mp3") {
		return FormatMP3
	}
	return FormatWAV
}

// EngineDescriptor is the static and probed metadata of one engine.
type EngineDescriptor struct {
	// ID is the unique engine identifier
	ID EngineID

	// Available is the result of the start-up probe
	Available bool

	// NativeOutput is the backend's native output shape
	NativeOutput NativeOutput

	// DefaultExtension is the container extension of produced audio
	DefaultExtension string

	// DefaultSampleRate is zero when the backend decides at runtime
	DefaultSampleRate int

	// RequiresFileRoundTrip marks backends that only write to files
	RequiresFileRoundTrip bool

	// Remote marks backends that need network access
	Remote bool

	// Guidance holds remediation text when the engine is unavailable
	Guidance string
}

// Format returns the artifact format implied by the default extension.
func (d EngineDescriptor) Format() AudioFormat {
	return FormatFromExtension(d.DefaultExtension)
}

// SynthesisConfig carries the per-call settings handed to an adapter.
// Adapters ignore the fields their backend has no control for.
type SynthesisConfig struct {
	Language string
	Rate     int
	Volume   float64
	Slow     bool
}

// Request is a validated synthesis request. It can only be built by
// Validate, so every Request that exists is well formed.
type Request struct {
	text     string
	engine   EngineID
	language string
}

// Text returns the trimmed input text.
func (r Request) Text() string { return r.text }

// Engine returns the resolved engine id.
func (r Request) Engine() EngineID { return r.engine }

// Language returns the lower-cased two letter language code.
func (r Request) Language() string { return r.language }

// AudioArtifact is the in-memory result of one synthesis call.
type AudioArtifact struct {
	data         []byte
	Format       AudioFormat
	SourceEngine EngineID
}

// NewAudioArtifact takes ownership of data.
func NewAudioArtifact(data []byte, format AudioFormat, engine EngineID) *AudioArtifact {
	return &AudioArtifact{data: data, Format: format, SourceEngine: engine}
}

// Bytes returns a copy of the audio bytes.
func (a *AudioArtifact) Bytes() []byte {
	return bytes.Clone(a.data)
}

// NewReader returns an independent read-only view of the audio bytes.
func (a *AudioArtifact) NewReader() io.Reader {
	return bytes.NewReader(a.data)
}

// Len returns the size of the audio in bytes.
func (a *AudioArtifact) Len() int {
	return len(a.data)
}

// Extension returns the file extension matching the artifact format.
func (a *AudioArtifact) Extension() string {
	return a.Format.Extension()
}
