package apperror

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKindUnwraps(t *testing.T) {
	base := State("caja_cerrada", "la caja %s está cerrada", "2026-01-02")
	wrapped := fmt.Errorf("registrar gasto: %w", base)

	assert.True(t, IsKind(wrapped, KindState))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.Equal(t, "la caja 2026-01-02 está cerrada", base.Error())

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "caja_cerrada", e.Code)
}

func TestIsMatchesKindAndCode(t *testing.T) {
	sentinel := NotFound("factura_no_encontrada", "factura no encontrada")
	err := fmt.Errorf("x: %w", NotFound("factura_no_encontrada", "factura %s no encontrada", "000123"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, NotFound("pago_no_encontrado", "pago no encontrado"))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindNotFound))
}
