package metrics

import "github.com/prometheus/client_golang/prometheus"

// FlowMetrics exposes counters/histograms for the booking workflow.
type FlowMetrics struct {
	checkoutTotal       *prometheus.CounterVec
	availabilityDegrade prometheus.Counter
	collaboratorLatency *prometheus.HistogramVec
}

func NewFlowMetrics(reg prometheus.Registerer) *FlowMetrics {
	m := &FlowMetrics{
		checkoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowbook",
			Subsystem: "checkout",
			Name:      "submissions_total",
			Help:      "Checkout submissions by terminal state",
		}, []string{"state"}),
		availabilityDegrade: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glowbook",
			Subsystem: "availability",
			Name:      "degraded_total",
			Help:      "Availability resolutions served optimistically after a booked-slots fetch failure",
		}),
		collaboratorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glowbook",
			Subsystem: "gateway",
			Name:      "collaborator_latency_seconds",
			Help:      "Latency of platform collaborator calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.checkoutTotal, m.availabilityDegrade, m.collaboratorLatency)
	return m
}

func (m *FlowMetrics) ObserveCheckout(state string) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(state).Inc()
}

func (m *FlowMetrics) ObserveAvailabilityDegrade() {
	if m == nil {
		return
	}
	m.availabilityDegrade.Inc()
}

func (m *FlowMetrics) ObserveCollaboratorLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.collaboratorLatency.WithLabelValues(operation).Observe(seconds)
}
