package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularAlertas(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	e.producto(t, "POLLO-01", 50)
	bajo := e.producto(t, "POLLO-02", 4)
	agotado := e.producto(t, "POLLO-03", 0)

	vieja := e.compra(t, prov, agotado, 80000, dias(45))
	e.compra(t, prov, agotado, 80000, dias(5))
	pagada := e.compra(t, prov, agotado, 50000, dias(60))
	p := e.nuevoPago(t, 50000, &prov, "transferencia")
	_, err := asignar(t, e, p.ID, pagada.ID, 50000)
	require.NoError(t, err)
	// the purchases above put stock on POLLO-03; bring it back to zero
	_, err = e.stock.Ajustar(ctx, e.usuario, agotado, dto.AjusteStockRequest{Tipo: "ajuste", Cantidad: 0})
	require.NoError(t, err)

	snap, err := e.alertas.Calcular(ctx)
	require.NoError(t, err)
	require.Len(t, snap.StockBajo, 1)
	assert.Equal(t, bajo.String(), snap.StockBajo[0].ID)
	assert.Equal(t, 10, snap.StockBajo[0].StockMinimo)
	require.Len(t, snap.Agotados, 1)
	assert.Equal(t, agotado.String(), snap.Agotados[0].ID)

	require.Len(t, snap.FacturasVencidas, 1)
	v := snap.FacturasVencidas[0]
	assert.Equal(t, vieja.ID, v.ID)
	assert.Equal(t, "Granja San José", v.Contraparte)
	assert.Equal(t, int64(80000), v.SaldoPendiente)
	assert.GreaterOrEqual(t, v.DiasVencida, 44)
	assert.Equal(t, 30, snap.DiasVencimiento)
}

func TestNotificarAlertas(t *testing.T) {
	e := nuevoEntorno(t)
	e.producto(t, "POLLO-02", 4)
	e.producto(t, "POLLO-03", 0)

	resp, err := e.alertas.Notificar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Notificaciones)
	assert.True(t, resp.EmailEncolado)

	enviados := e.emails.enviados()
	require.Len(t, enviados, 1)
	assert.Equal(t, []string{"admin@avicola.test"}, enviados[0].To)
	assert.Contains(t, enviados[0].Body, "Productos agotados")
	assert.Contains(t, enviados[0].Body, "POLLO-02")

	ns, err := e.alertas.ListarNotificaciones(ctx, true, 10)
	require.NoError(t, err)
	require.Len(t, ns, 2)
	tipos := []string{ns[0].Tipo, ns[1].Tipo}
	assert.ElementsMatch(t, []string{"warning", "danger"}, tipos)

	require.NoError(t, e.alertas.MarcarLeida(ctx, uuid.MustParse(ns[0].ID)))
	noLeidas, err := e.alertas.ListarNotificaciones(ctx, true, 10)
	require.NoError(t, err)
	assert.Len(t, noLeidas, 1)
	todas, err := e.alertas.ListarNotificaciones(ctx, false, 10)
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestNotificarAlertas_SinAlertas(t *testing.T) {
	e := nuevoEntorno(t)
	e.producto(t, "POLLO-01", 50)

	resp, err := e.alertas.Notificar(ctx)
	require.NoError(t, err)
	assert.Zero(t, resp.Notificaciones)
	assert.False(t, resp.EmailEncolado)
	assert.Empty(t, e.emails.enviados())
}

func TestNotificarAlertas_EmailFallido(t *testing.T) {
	e := nuevoEntorno(t)
	e.producto(t, "POLLO-03", 0)
	e.emails.err = errors.New("cola llena")

	resp, err := e.alertas.Notificar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Notificaciones)
	assert.False(t, resp.EmailEncolado)
}

func TestMarcarLeida_Inexistente(t *testing.T) {
	e := nuevoEntorno(t)
	err := e.alertas.MarcarLeida(ctx, uuid.New())
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindNotFound, Code: "notificacion_no_encontrada"})
}

type cacheFijo struct {
	snap *dto.AlertasResponse
	sets int
}

func (c *cacheFijo) Get(_ context.Context) (*dto.AlertasResponse, bool, error) {
	return c.snap, c.snap != nil, nil
}

func (c *cacheFijo) Set(_ context.Context, v *dto.AlertasResponse, _ time.Duration) error {
	c.snap = v
	c.sets++
	return nil
}

func (c *cacheFijo) Invalidar(_ context.Context) error {
	c.snap = nil
	return nil
}

func TestObtenerAlertas_UsaCache(t *testing.T) {
	e := nuevoEntorno(t)
	c := &cacheFijo{}
	svc := NewAlertaService(
		repository.NewProductoRepository(e.db), repository.NewFacturaRepository(e.db),
		repository.NewNotificacionRepository(e.db), repository.NewUsuarioRepository(e.db),
		c, nil, AlertasConfig{},
	)
	e.producto(t, "POLLO-03", 0)

	primero, err := svc.Obtener(ctx)
	require.NoError(t, err)
	assert.Len(t, primero.Agotados, 1)
	assert.Equal(t, 1, c.sets)

	e.producto(t, "POLLO-04", 0)
	segundo, err := svc.Obtener(ctx)
	require.NoError(t, err)
	assert.Len(t, segundo.Agotados, 1, "servido desde cache")
	assert.Equal(t, 1, c.sets)

	fresco, err := svc.Calcular(ctx)
	require.NoError(t, err)
	assert.Len(t, fresco.Agotados, 2)
}
