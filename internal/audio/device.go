package audio

import (
	"io"

	"github.com/anca-ferro/tts/internal/tts"
)

// Device is an audio output able to play PCM streams.
type Device interface {
	// Format is the PCM shape streams must have. The zero value accepts
	// any shape.
	Format() tts.PCMFormat

	// NewStream prepares r, holding PCM of the given shape, for playback.
	NewStream(format tts.PCMFormat, r io.Reader) (Stream, error)
}

// Stream is one playback on a Device. *oto.Player satisfies it.
type Stream interface {
	// Play starts playback asynchronously
	Play()

	// IsPlaying reports whether samples remain to be played
	IsPlaying() bool

	// SetVolume sets the playback volume (0.0 to 1.0)
	SetVolume(volume float64)

	// Close releases the stream
	Close() error
}
