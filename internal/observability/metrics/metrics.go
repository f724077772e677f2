// Package metrics exposes Prometheus instrumentation for the booking flow.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the free-trial booking flow.
type BookingMetrics struct {
	webhookTotal     *prometheus.CounterVec
	webhookLatency   *prometheus.HistogramVec
	bookingsTotal    *prometheus.CounterVec
	calendarFailures prometheus.Counter
	emailsDropped    prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymchat",
			Subsystem: "booking",
			Name:      "webhook_total",
			Help:      "Total inbound chat webhooks by session step and outcome",
		}, []string{"step", "outcome"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gymchat",
			Subsystem: "booking",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of chat webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymchat",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Bookings by terminal status",
		}, []string{"status"}),
		calendarFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gymchat",
			Subsystem: "booking",
			Name:      "calendar_sync_failures_total",
			Help:      "Calendar operations that failed and were downgraded to warnings",
		}),
		emailsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gymchat",
			Subsystem: "booking",
			Name:      "emails_dropped_total",
			Help:      "Emails dropped after exhausting delivery retries",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.webhookLatency, m.bookingsTotal, m.calendarFailures, m.emailsDropped)
	return m
}

func (m *BookingMetrics) ObserveWebhook(step, outcome string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(step, outcome).Inc()
}

func (m *BookingMetrics) ObserveWebhookLatency(step string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(step).Observe(seconds)
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveCalendarFailure() {
	if m == nil {
		return
	}
	m.calendarFailures.Inc()
}

func (m *BookingMetrics) ObserveEmailDropped() {
	if m == nil {
		return
	}
	m.emailsDropped.Inc()
}
