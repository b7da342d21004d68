package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"avicola/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validacion", apperror.Validation("monto_invalido", "monto"), http.StatusBadRequest, "monto_invalido"},
		{"no encontrado", apperror.NotFound("factura_no_encontrada", "x"), http.StatusNotFound, "factura_no_encontrada"},
		{"estado", apperror.State("caja_cerrada", "x"), http.StatusConflict, "caja_cerrada"},
		{"consistencia", apperror.Consistency("saldo_negativo", "x"), http.StatusConflict, "saldo_negativo"},
		{"credenciales", apperror.Unauthorized("credenciales_invalidas", "x"), http.StatusUnauthorized, "credenciales_invalidas"},
		{"envuelto", fmt.Errorf("pago: %w", apperror.State("factura_anulada", "x")), http.StatusConflict, "factura_anulada"},
		{"desconocido", errors.New("pq: connection refused"), http.StatusInternalServerError, "error_interno"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := FromError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestFromError_NoFiltraDetalleInterno(t *testing.T) {
	_, body := FromError(errors.New("ERROR: relation \"facturas\" does not exist"))
	assert.NotContains(t, body.Detail, "relation")
}
