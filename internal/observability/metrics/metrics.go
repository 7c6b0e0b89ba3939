package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard.
type BookingMetrics struct {
	sessionsStarted  prometheus.Counter
	submissionsTotal *prometheus.CounterVec
	staleSlotQueries prometheus.Counter
	slotQueryLatency prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookngon",
			Subsystem: "booking",
			Name:      "sessions_started_total",
			Help:      "Total booking wizard sessions created",
		}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookngon",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total appointment submissions by outcome",
		}, []string{"status"}),
		staleSlotQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookngon",
			Subsystem: "booking",
			Name:      "stale_slot_responses_discarded_total",
			Help:      "Availability responses dropped because the selection changed mid-flight",
		}),
		slotQueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookngon",
			Subsystem: "booking",
			Name:      "slot_query_duration_seconds",
			Help:      "Latency of upstream availability queries",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.submissionsTotal, m.staleSlotQueries, m.slotQueryLatency)
	return m
}

func (m *BookingMetrics) ObserveSessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *BookingMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveStaleSlotResponse() {
	if m == nil {
		return
	}
	m.staleSlotQueries.Inc()
}

func (m *BookingMetrics) ObserveSlotQueryLatency(seconds float64) {
	if m == nil {
		return
	}
	m.slotQueryLatency.Observe(seconds)
}
