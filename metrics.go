package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// TransitionsTotal tracks matched transitions by machine, endpoint states, event, and kind.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of matched transitions by machine, from_state, to_state, event, and kind (external or internal)",
	}, []string{"machine", "from_state", "to_state", "event", "kind"})

	// EventsIgnoredTotal tracks events with no matching transition.
	eventsIgnoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_events_ignored_total",
		Help: "Total number of events silently ignored because the current state declares no matching transition",
	}, []string{"machine", "state", "event"})

	// NotificationsTotal tracks subscriber notification rounds.
	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_notifications_total",
		Help: "Total number of subscriber notification rounds delivered after matched transitions",
	}, []string{"machine"})

	// ActionDuration tracks individual action execution time.
	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fsm_action_duration_seconds",
		Help:    "Duration of action execution by machine, action, state, and phase",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"machine", "action", "state", "phase"})
)

// sanitizeMachine keeps unnamed machines from producing empty metric labels.
func sanitizeMachine(name string) string {
	if name == "" {
		return "unnamed"
	}

	return name
}
