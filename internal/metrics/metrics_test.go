package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAsignacion_SumaMontoSoloEnExito(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Asignacion("compra", ResultadoOK, 50000)
	m.Asignacion("compra", ResultadoRechazada, 90000)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.asignaciones.WithLabelValues("compra", ResultadoOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.asignaciones.WithLabelValues("compra", ResultadoRechazada)))
	assert.Equal(t, 50000.0, testutil.ToFloat64(m.montoAsignado.WithLabelValues("compra")))
}

func TestObserveHTTP_RutaVacia(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Asignacion("venta", ResultadoOK, 1)
		m.MovimientoStock("entrada", "factura_compra")
		m.CierreCaja("normal")
		m.EmailJob("ok")
		m.ObserveHTTP("GET", "/x", 200, time.Second)
	})
}
