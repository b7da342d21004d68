package service

import (
	"testing"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto(t *testing.T) {
	e := nuevoEntorno(t)
	iva5 := model.IVA5
	p, err := e.productos.Crear(ctx, e.usuario, dto.CrearProductoRequest{
		Codigo: "HUEVO-30", Nombre: "Huevo maple x30", Costo: 20000, Precio: 26000, Stock: 40, IVA: &iva5,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, p.Stock)
	assert.Equal(t, model.IVA5, p.IVA)
	assert.Equal(t, 10, p.StockMinimo)
	assert.True(t, p.Activo)

	movs, err := e.stock.ListarMovimientos(ctx, dto.MovimientoStockFilter{ProductoID: p.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, movs.Data, 1)
	assert.Equal(t, "inicial", movs.Data[0].Tipo)
	assert.Equal(t, 0, movs.Data[0].StockAnterior)
	assert.Equal(t, 40, movs.Data[0].StockNuevo)

	_, err = e.productos.Crear(ctx, e.usuario, dto.CrearProductoRequest{Codigo: "HUEVO-30", Nombre: "Otro", Precio: 1})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "codigo_duplicado"})
}

func TestActualizarProducto_NoTocaStock(t *testing.T) {
	e := nuevoEntorno(t)
	id := e.producto(t, "POLLO-01", 12)

	precio, minimo := int64(19000), 3
	p, err := e.productos.Actualizar(ctx, id, dto.ActualizarProductoRequest{Precio: &precio, StockMinimo: &minimo})
	require.NoError(t, err)
	assert.Equal(t, int64(19000), p.Precio)
	assert.Equal(t, 3, p.StockMinimo)
	assert.Equal(t, 12, e.stockDe(t, id))

	_, err = e.productos.Actualizar(ctx, uuid.New(), dto.ActualizarProductoRequest{Precio: &precio})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindNotFound, Code: "producto_no_encontrado"})
}

func TestDesactivarProducto(t *testing.T) {
	e := nuevoEntorno(t)
	a := e.producto(t, "POLLO-01", 12)
	e.producto(t, "POLLO-02", 12)

	require.NoError(t, e.productos.Desactivar(ctx, a))

	activos, err := e.productos.Listar(ctx, dto.ProductoFilter{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), activos.Total)
	assert.Equal(t, "POLLO-02", activos.Data[0].Codigo)
	assert.Equal(t, 1, activos.TotalPages)

	todos, err := e.productos.Listar(ctx, dto.ProductoFilter{Activo: "all", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), todos.Total)

	err = e.productos.Desactivar(ctx, uuid.New())
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindNotFound, Code: "producto_no_encontrado"})
}
