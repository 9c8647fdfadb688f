package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the playback coordinator.
type Metrics struct {
	registry         *prometheus.Registry
	cuesFired        *prometheus.CounterVec
	handoffs         *prometheus.CounterVec
	illegalRequests  *prometheus.CounterVec
	driverErrors     *prometheus.CounterVec
	streamsCompleted *prometheus.CounterVec
	activeSession    *prometheus.GaugeVec
}

// New creates and registers the coordinator metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	cuesFired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couchbreak_cues_fired_total",
		Help: "Scheduled cues fired, by signal name",
	}, []string{"signal"})
	handoffs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couchbreak_handoffs_total",
		Help: "Active session handoffs, by target session",
	}, []string{"to"})
	illegalRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couchbreak_illegal_requests_total",
		Help: "Requests ignored because the player state did not allow them",
	}, []string{"player", "op"})
	driverErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couchbreak_driver_errors_total",
		Help: "Errors returned or reported by the playback device",
	}, []string{"player"})
	streamsCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "couchbreak_streams_completed_total",
		Help: "Streams that played to the end",
	}, []string{"player"})
	activeSession := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "couchbreak_active_session",
		Help: "1 for the session currently holding the device, 0 otherwise",
	}, []string{"player"})

	registry.MustRegister(
		cuesFired,
		handoffs,
		illegalRequests,
		driverErrors,
		streamsCompleted,
		activeSession,
	)

	return &Metrics{
		registry:         registry,
		cuesFired:        cuesFired,
		handoffs:         handoffs,
		illegalRequests:  illegalRequests,
		driverErrors:     driverErrors,
		streamsCompleted: streamsCompleted,
		activeSession:    activeSession,
	}
}

// IncCueFired counts a fired cue.
func (m *Metrics) IncCueFired(signal string) {
	m.cuesFired.WithLabelValues(signal).Inc()
}

// IncHandoff counts a switch to the named session.
func (m *Metrics) IncHandoff(to string) {
	m.handoffs.WithLabelValues(to).Inc()
}

// IncIllegalRequest counts an operation ignored for the player's state.
func (m *Metrics) IncIllegalRequest(player, op string) {
	m.illegalRequests.WithLabelValues(player, op).Inc()
}

// IncDriverError counts a device error.
func (m *Metrics) IncDriverError(player string) {
	m.driverErrors.WithLabelValues(player).Inc()
}

// IncStreamCompleted counts a stream that reached its end.
func (m *Metrics) IncStreamCompleted(player string) {
	m.streamsCompleted.WithLabelValues(player).Inc()
}

// SetActive marks active as the session holding the device and clears the others.
func (m *Metrics) SetActive(active string, all ...string) {
	for _, name := range all {
		m.activeSession.WithLabelValues(name).Set(0)
	}
	m.activeSession.WithLabelValues(active).Set(1)
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handoffs returns the handoff counter for the named target session.
func (m *Metrics) Handoffs(to string) prometheus.Counter {
	return m.handoffs.WithLabelValues(to)
}

// Active returns the active-session gauge for the named session.
func (m *Metrics) Active(player string) prometheus.Gauge {
	return m.activeSession.WithLabelValues(player)
}

// DriverErrors returns the device error counter for the named session.
func (m *Metrics) DriverErrors(player string) prometheus.Counter {
	return m.driverErrors.WithLabelValues(player)
}

// IllegalRequests returns the ignored-request counter for a session and op.
func (m *Metrics) IllegalRequests(player, op string) prometheus.Counter {
	return m.illegalRequests.WithLabelValues(player, op)
}
