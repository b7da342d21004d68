// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "avicola"

// Resultados de una asignación.
const (
	ResultadoOK        = "ok"
	ResultadoRechazada = "rechazada"
	ResultadoError     = "error"
)

// Metrics groups the HTTP and domain collectors.
type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	asignaciones     *prometheus.CounterVec
	montoAsignado    *prometheus.CounterVec
	movimientosStock *prometheus.CounterVec
	cierresCaja      *prometheus.CounterVec
	emailJobs        *prometheus.CounterVec
}

var (
	once    sync.Once
	current *Metrics
)

// Default returns the singleton registered on prometheus.DefaultRegisterer.
func Default() *Metrics {
	once.Do(func() {
		current = New(prometheus.DefaultRegisterer)
	})
	return current
}

// New builds a Metrics set registered on registerer. Tests pass a fresh registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		asignaciones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asignaciones_total",
			Help:      "Payment allocations by invoice type and result.",
		}, []string{"tipo", "resultado"}),
		montoAsignado: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monto_asignado_guaranies_total",
			Help:      "Guaranies allocated to invoices by invoice type.",
		}, []string{"tipo"}),
		movimientosStock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movimientos_stock_total",
			Help:      "Stock ledger entries by kind and origin.",
		}, []string{"tipo", "origen"}),
		cierresCaja: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cierres_caja_total",
			Help:      "Cash session closes by variance classification.",
		}, []string{"clasificacion"}),
		emailJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_jobs_total",
			Help:      "Email jobs by result.",
		}, []string{"resultado"}),
	}
	registerer.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.asignaciones,
		m.montoAsignado,
		m.movimientosStock,
		m.cierresCaja,
		m.emailJobs,
	)
	return m
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Asignacion records one allocation attempt. monto is only added on success.
func (m *Metrics) Asignacion(tipo, resultado string, monto int64) {
	if m == nil {
		return
	}
	m.asignaciones.WithLabelValues(tipo, resultado).Inc()
	if resultado == ResultadoOK && monto > 0 {
		m.montoAsignado.WithLabelValues(tipo).Add(float64(monto))
	}
}

func (m *Metrics) MovimientoStock(tipo, origen string) {
	if m == nil {
		return
	}
	m.movimientosStock.WithLabelValues(tipo, origen).Inc()
}

func (m *Metrics) CierreCaja(clasificacion string) {
	if m == nil {
		return
	}
	m.cierresCaja.WithLabelValues(clasificacion).Inc()
}

func (m *Metrics) EmailJob(resultado string) {
	if m == nil {
		return
	}
	m.emailJobs.WithLabelValues(resultado).Inc()
}
