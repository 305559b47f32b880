package audio

import (
	"io"
	"sync"

	"github.com/anca-ferro/tts/internal/tts"
)

// MockDevice is an in-memory Device for tests and hosts without sound.
// Each stream reports playing for PlayingPolls checks, then finishes.
type MockDevice struct {
	// Err, when set, is returned by NewStream
	Err error

	PlayingPolls int

	// Output is reported by Format; zero keeps streams in their source shape
	Output tts.PCMFormat

	mu      sync.Mutex
	streams []*MockStream
}

// NewMockDevice returns a MockDevice whose streams finish immediately.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

func (d *MockDevice) Format() tts.PCMFormat { return d.Output }

func (d *MockDevice) NewStream(format tts.PCMFormat, r io.Reader) (Stream, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	s := &MockStream{Format: format, Data: data, remaining: d.PlayingPolls}

	d.mu.Lock()
	d.streams = append(d.streams, s)
	d.mu.Unlock()
	return s, nil
}

// Streams returns every stream opened so far.
func (d *MockDevice) Streams() []*MockStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*MockStream(nil), d.streams...)
}

// MockStream records what a Player did with it.
type MockStream struct {
	Format tts.PCMFormat
	Data   []byte

	mu        sync.Mutex
	played    bool
	closed    bool
	volume    float64
	remaining int
}

func (s *MockStream) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = true
}

func (s *MockStream) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.played || s.remaining <= 0 {
		return false
	}
	s.remaining--
	return true
}

func (s *MockStream) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Played reports whether Play was called.
func (s *MockStream) Played() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played
}

// Closed reports whether Close was called.
func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Volume returns the last volume set.
func (s *MockStream) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}
