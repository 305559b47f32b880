package tts

import (
	itts "github.com/anca-ferro/tts/internal/tts"
)

// Metrics is the record of one synthesis call.
type Metrics = itts.Metrics

// MetricsHistory returns every synthesis call made through the service.
func (s *Service) MetricsHistory() []Metrics {
	return s.metrics.History()
}

// MetricsSummary returns a one line digest of the synthesis calls.
func (s *Service) MetricsSummary() string {
	return s.metrics.Summary()
}
