// Package metrics содержит prometheus коллекторы сервиса: метрики HTTP
// запросов, метрики запросов к базе, gauge пула соединений и бизнес
// счётчики бронирований
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics объединяет все коллекторы, которые публикует сервис
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	DBPoolOpenConnections *prometheus.GaugeVec
	DBPoolInUse           *prometheus.GaugeVec
	DBPoolIdle            *prometheus.GaugeVec

	BookingsCreatedTotal       *prometheus.CounterVec
	BookingsCancelledTotal     *prometheus.CounterVec
	ConfirmationsDroppedTotal  *prometheus.CounterVec
	CheckoutSessionsTotal      *prometheus.CounterVec
	WebhookEventsReceivedTotal *prometheus.CounterVec
}

// New создает и регистрирует все коллекторы в реестре по умолчанию
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests processed.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries executed.",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBPoolOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Open connections in the database pool.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBPoolInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Connections currently in use.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBPoolIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Idle connections in the pool.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		BookingsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created, labelled by creation path.",
			ConstLabels: constLabels,
		}, []string{"source"}),

		BookingsCancelledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Bookings soft-cancelled by their owners.",
			ConstLabels: constLabels,
		}, []string{}),

		// ConfirmationsDroppedTotal считает оплаченные подтверждения, не
		// создавшие бронирование из-за занятого слота. Деньги получены без
		// оказанной услуги: на этот счётчик production должен алертить
		ConfirmationsDroppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_confirmations_dropped_total",
			Help:        "Confirmed payments dropped because the slot was no longer available.",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		CheckoutSessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "checkout_sessions_created_total",
			Help:        "Hosted checkout sessions requested from the payment provider.",
			ConstLabels: constLabels,
		}, []string{"status"}),

		WebhookEventsReceivedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_webhook_events_total",
			Help:        "Webhook events received, labelled by verification/handling outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBPoolOpenConnections,
		m.DBPoolInUse,
		m.DBPoolIdle,
		m.BookingsCreatedTotal,
		m.BookingsCancelledTotal,
		m.ConfirmationsDroppedTotal,
		m.CheckoutSessionsTotal,
		m.WebhookEventsReceivedTotal,
	)

	return m
}

// ObserveHTTPRequest записывает один обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает один запрос к базе данных
func (m *Metrics) ObserveDBQuery(operation, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// BookingCreated записывает созданное бронирование; source это "direct" или "webhook"
func (m *Metrics) BookingCreated(source string) {
	m.BookingsCreatedTotal.WithLabelValues(source).Inc()
}

// BookingCancelled записывает отмену владельцем
func (m *Metrics) BookingCancelled() {
	m.BookingsCancelledTotal.WithLabelValues().Inc()
}

// ConfirmationDropped записывает оплаченное подтверждение без бронирования
func (m *Metrics) ConfirmationDropped(reason string) {
	m.ConfirmationsDroppedTotal.WithLabelValues(reason).Inc()
}

// CheckoutSessionCreated записывает исход запроса checkout сессии
func (m *Metrics) CheckoutSessionCreated(status string) {
	m.CheckoutSessionsTotal.WithLabelValues(status).Inc()
}

// WebhookEventReceived записывает исход доставки вебхука
func (m *Metrics) WebhookEventReceived(outcome string) {
	m.WebhookEventsReceivedTotal.WithLabelValues(outcome).Inc()
}
