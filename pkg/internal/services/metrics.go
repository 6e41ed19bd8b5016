package services

import (
	"errors"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/meeting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MeetingsCreated  *prometheus.CounterVec
	CodeResolutions  *prometheus.CounterVec
	ChatbotRequests  *prometheus.CounterVec
	StaleCallsEnded  prometheus.Counter
	MetadataWatchers prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MeetingsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_calls_created_total",
				Help: "Calls created per meeting type",
			},
			[]string{"type"},
		),
		CodeResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_code_resolutions_total",
				Help: "Meeting code lookups by outcome",
			},
			[]string{"outcome"},
		),
		ChatbotRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_chatbot_requests_total",
				Help: "Chatbot completions by status",
			},
			[]string{"status"},
		),
		StaleCallsEnded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meeting_stale_calls_ended_total",
				Help: "Calls ended by the cleanup job",
			},
		),
		MetadataWatchers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "meeting_metadata_watchers",
				Help: "Open metadata watch streams",
			},
		),
	}
}

var M = NewMetrics(prometheus.DefaultRegisterer)

// ResolutionOutcome is the metric label of a join attempt result.
func ResolutionOutcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case meeting.IsValidation(err):
		return "invalid"
	case errors.Is(err, meeting.ErrNotFound):
		return "not_found"
	case errors.Is(err, meeting.ErrEnded):
		return "ended"
	case meeting.IsTransport(err):
		return "transport"
	default:
		return "error"
	}
}
