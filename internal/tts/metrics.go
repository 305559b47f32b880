package tts

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// MetricsLogger tracks and logs synthesis metrics.
type MetricsLogger struct {
	mu      sync.Mutex
	logger  *log.Logger
	history []Metrics
}

// Metrics holds the measurements of one synthesis call.
type Metrics struct {
	Engine            EngineID
	TextLength        int
	SynthesisStart    time.Time
	SynthesisDuration time.Duration
	AudioBytes        int
	ErrorOccurred     bool
	ErrorMessage      string

	owner *MetricsLogger
}

// NewMetricsLogger returns a metrics logger writing to logger, or to the
// package default logger when logger is nil.
func NewMetricsLogger(logger *log.Logger) *MetricsLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &MetricsLogger{logger: logger}
}

// StartSynthesis starts tracking one synthesis call.
func (ml *MetricsLogger) StartSynthesis(engine EngineID, text string) *Metrics {
	m := &Metrics{
		Engine:         engine,
		TextLength:     len([]rune(text)),
		SynthesisStart: time.Now(),
		owner:          ml,
	}
	ml.logger.Debug("Synthesis started", "engine", engine, "textLength", m.TextLength)
	return m
}

// EndSynthesis completes tracking and logs the outcome.
func (m *Metrics) EndSynthesis(audioBytes int, err error) {
	m.SynthesisDuration = time.Since(m.SynthesisStart)
	m.AudioBytes = audioBytes
	if err != nil {
		m.ErrorOccurred = true
		m.ErrorMessage = err.Error()
	}

	ml := m.owner
	if ml == nil {
		return
	}
	ml.mu.Lock()
	ml.history = append(ml.history, *m)
	ml.mu.Unlock()

	if m.ErrorOccurred {
		ml.logger.Debug("Synthesis failed",
			"engine", m.Engine,
			"duration", m.SynthesisDuration,
			"error", m.ErrorMessage)
		return
	}
	ml.logger.Info("Synthesis completed",
		"engine", m.Engine,
		"textLength", m.TextLength,
		"audioBytes", m.AudioBytes,
		"duration", m.SynthesisDuration.Round(time.Millisecond),
		"bytesPerSecond", bytesPerSecond(m.AudioBytes, m.SynthesisDuration))
}

// History returns a copy of the recorded metrics.
func (ml *MetricsLogger) History() []Metrics {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return append([]Metrics(nil), ml.history...)
}

// Summary returns a short human readable digest of the recorded calls.
func (ml *MetricsLogger) Summary() string {
	history := ml.History()
	if len(history) == 0 {
		return "No synthesis metrics available"
	}

	var total time.Duration
	var bytes, failures int
	for _, m := range history {
		total += m.SynthesisDuration
		bytes += m.AudioBytes
		if m.ErrorOccurred {
			failures++
		}
	}
	return fmt.Sprintf("calls=%d avg=%v bytes=%d errors=%d",
		len(history), total/time.Duration(len(history)), bytes, failures)
}

func bytesPerSecond(n int, d time.Duration) string {
	if d <= 0 {
		return "N/A"
	}
	return humanize.Bytes(uint64(float64(n)/d.Seconds())) + "/s"
}
