package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы резервирования слота
const (
	OutcomeAdmitted = "admitted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeNotFound = "not_found"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ReservationsTotal   *prometheus.CounterVec
	HoldWriteDuration   prometheus.Histogram
	ProviderFailures    *prometheus.CounterVec
	BusyIntervalsTotal  prometheus.Counter
}

// New регистрирует метрики в переданном registerer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Slot reservation attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		HoldWriteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "slot_hold_write_duration_seconds",
			Help:        "Duration of the parallel per-user hold write",
			ConstLabels: labels,
			Buckets:     []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),

		ProviderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_provider_fetch_failures_total",
			Help:        "Failed busy-time fetches from external calendar providers",
			ConstLabels: labels,
		}, []string{"provider"}),

		BusyIntervalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "busy_intervals_returned_total",
			Help:        "Busy intervals returned by availability aggregation",
			ConstLabels: labels,
		}),
	}
}

// ObserveReservation увеличивает счетчик исходов резервирования
func (m *Metrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHoldWrite фиксирует длительность записи удержаний
func (m *Metrics) ObserveHoldWrite(seconds float64) {
	if m == nil {
		return
	}
	m.HoldWriteDuration.Observe(seconds)
}

// ProviderFetchFailed фиксирует неудачный запрос к календарному провайдеру
func (m *Metrics) ProviderFetchFailed(provider string) {
	if m == nil {
		return
	}
	m.ProviderFailures.WithLabelValues(provider).Inc()
}

// AddBusyIntervals увеличивает счетчик возвращенных интервалов
func (m *Metrics) AddBusyIntervals(n int) {
	if m == nil {
		return
	}
	m.BusyIntervalsTotal.Add(float64(n))
}
