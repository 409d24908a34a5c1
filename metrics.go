package arbor

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts projection, focus and dispatch activity. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	projections  prometheus.Counter
	accessNodes  prometheus.Gauge
	focusChanges prometheus.Counter
	focusDropped prometheus.Counter
	eventsByName *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		projections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_projections_total",
			Help: "Total number of accessibility tree projections",
		}),
		accessNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arbor_accessibility_nodes",
			Help: "Accessible nodes in the most recent projection, excluding the window root",
		}),
		focusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_focus_changes_total",
			Help: "Total number of committed focus changes",
		}),
		focusDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_focus_requests_dropped_total",
			Help: "Focus requests for ids absent from the accessibility tree",
		}),
		eventsByName: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_events_dispatched_total",
				Help: "Total number of dispatched DOM events",
			},
			[]string{"name"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.projections, m.accessNodes, m.focusChanges, m.focusDropped, m.eventsByName)
	}
	return m
}

func (m *Metrics) observeProjection(nodes int) {
	if m == nil {
		return
	}
	m.projections.Inc()
	m.accessNodes.Set(float64(nodes))
}

func (m *Metrics) observeFocusChange() {
	if m == nil {
		return
	}
	m.focusChanges.Inc()
}

func (m *Metrics) observeFocusDropped() {
	if m == nil {
		return
	}
	m.focusDropped.Inc()
}

func (m *Metrics) observeEvent(name EventName) {
	if m == nil {
		return
	}
	m.eventsByName.WithLabelValues(string(name)).Inc()
}
