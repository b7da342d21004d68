package service

import (
	"errors"
	"testing"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// verificarInvariantes checks every invoice, payment and party balance in the database.
func verificarInvariantes(t *testing.T, e *entorno) {
	t.Helper()
	var facturas []model.Factura
	require.NoError(t, e.db.Preload("Asignaciones").Find(&facturas).Error)
	esperado := map[uuid.UUID]int64{}
	for i := range facturas {
		f := &facturas[i]
		assert.GreaterOrEqual(t, f.SaldoPendiente(), int64(0), "factura %s con saldo negativo", f.Numero)
		assert.Equal(t, f.Subtotal+f.IVA, f.Total, "factura %s: total != subtotal + iva", f.Numero)
		if f.Estado != model.EstadoAnulada {
			assert.Equal(t, model.EstadoSegunSaldo(f.SaldoPendiente()), f.Estado, "factura %s con estado desfasado", f.Numero)
			esperado[f.Contraparte().ID] += f.SaldoPendiente()
		}
	}

	var pagos []model.Pago
	require.NoError(t, e.db.Preload("Asignaciones").Find(&pagos).Error)
	for i := range pagos {
		assert.GreaterOrEqual(t, pagos[i].MontoDisponible(), int64(0), "pago %s sobreasignado", pagos[i].ID)
	}

	var proveedores []model.Proveedor
	require.NoError(t, e.db.Find(&proveedores).Error)
	for _, p := range proveedores {
		assert.Equal(t, esperado[p.ID], p.Saldo, "saldo del proveedor %s", p.Nombre)
	}
	var clientes []model.Cliente
	require.NoError(t, e.db.Find(&clientes).Error)
	for _, c := range clientes {
		assert.Equal(t, esperado[c.ID], c.Saldo, "saldo del cliente %s", c.Nombre)
	}
}

func asignar(t *testing.T, e *entorno, pagoID string, facturaID string, monto int64) (*dto.PagoResponse, error) {
	t.Helper()
	return e.pagos.Asignar(ctx, uuid.MustParse(pagoID), dto.AsignarPagoRequest{FacturaID: facturaID, Monto: monto})
}

// ── Asignar ───────────────────────────────────────────────────────────────────

func TestAsignar_PagosParcialesHastaCancelarCompra(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 110000, dias(1))

	assert.Equal(t, int64(100000), f.Subtotal)
	assert.Equal(t, int64(10000), f.IVA)
	assert.Equal(t, int64(110000), e.saldo(t, model.ParteProveedor, prov))

	p1 := e.nuevoPago(t, 50000, &prov, "transferencia")
	_, err := asignar(t, e, p1.ID, f.ID, 50000)
	require.NoError(t, err)

	got := e.factura(t, f.ID)
	assert.Equal(t, int64(60000), got.SaldoPendiente)
	assert.Equal(t, "pendiente", got.Estado)
	assert.Equal(t, int64(60000), e.saldo(t, model.ParteProveedor, prov))

	p2 := e.nuevoPago(t, 60000, &prov, "transferencia")
	resp, err := asignar(t, e, p2.ID, f.ID, 60000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.MontoDisponible)

	got = e.factura(t, f.ID)
	assert.Equal(t, int64(0), got.SaldoPendiente)
	assert.Equal(t, "pagada", got.Estado)
	assert.Equal(t, "100", got.PorcentajePagado.String())
	assert.Equal(t, int64(0), e.saldo(t, model.ParteProveedor, prov))
	verificarInvariantes(t, e)
}

func TestAsignar_RechazaMontosFueraDeLimite(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 110000, dias(1))

	grande := e.nuevoPago(t, 200000, &prov, "transferencia")
	_, err := asignar(t, e, grande.ID, f.ID, 120000)
	require.Error(t, err)
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "monto_excede_saldo"})

	chico := e.nuevoPago(t, 10000, &prov, "transferencia")
	_, err = asignar(t, e, chico.ID, f.ID, 20000)
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "monto_excede_disponible"})

	_, err = asignar(t, e, chico.ID, uuid.NewString(), 5000)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = e.pagos.Asignar(ctx, uuid.New(), dto.AsignarPagoRequest{FacturaID: f.ID, Monto: 5000})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// nothing moved
	assert.Equal(t, int64(110000), e.saldo(t, model.ParteProveedor, prov))
	verificarInvariantes(t, e)
}

func TestAsignar_ReemplazaLaAsignacionExistente(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 110000, dias(1))
	p := e.nuevoPago(t, 100000, &prov, "transferencia")

	_, err := asignar(t, e, p.ID, f.ID, 40000)
	require.NoError(t, err)
	// The ceiling excludes the row being replaced: 100000 fits even though 40000 is already allocated.
	resp, err := asignar(t, e, p.ID, f.ID, 100000)
	require.NoError(t, err)
	require.Len(t, resp.Asignaciones, 1)
	assert.Equal(t, int64(100000), resp.Asignaciones[0].Monto)
	assert.Equal(t, int64(10000), e.saldo(t, model.ParteProveedor, prov))

	_, err = asignar(t, e, p.ID, f.ID, 30000)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), e.saldo(t, model.ParteProveedor, prov))
	verificarInvariantes(t, e)
}

func TestAsignar_ContraparteDistinta(t *testing.T) {
	e := nuevoEntorno(t)
	prov1 := e.proveedor(t, "Granja San José")
	prov2 := e.proveedor(t, "Incubadora del Este")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov2, prod, 50000, dias(1))

	p := e.nuevoPago(t, 50000, &prov1, "cheque")
	_, err := asignar(t, e, p.ID, f.ID, 50000)
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "contraparte_distinta"})
}

func TestAsignar_FacturaAnulada(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 50000, dias(1))
	_, err := e.facturas.Anular(ctx, e.usuario, uuid.MustParse(f.ID))
	require.NoError(t, err)

	p := e.nuevoPago(t, 50000, &prov, "transferencia")
	_, err = asignar(t, e, p.ID, f.ID, 50000)
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestAsignar_PagoSinContraparteTomaLaDeLaFactura(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 50000, dias(1))

	p := e.nuevoPago(t, 50000, nil, "transferencia")
	assert.Empty(t, p.ContraparteID)
	resp, err := asignar(t, e, p.ID, f.ID, 20000)
	require.NoError(t, err)
	assert.Equal(t, prov.String(), resp.ContraparteID)
	assert.Equal(t, "proveedor", resp.ContraparteTipo)
}

// ── Distribuir ────────────────────────────────────────────────────────────────

func TestDistribuir_MasAntiguaPrimero(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f1 := e.compra(t, prov, prod, 30000, dias(30))
	f3 := e.compra(t, prov, prod, 40000, dias(10))
	f2 := e.compra(t, prov, prod, 50000, dias(20))

	p := e.nuevoPago(t, 70000, &prov, "transferencia")
	resp, err := e.pagos.Distribuir(ctx, uuid.MustParse(p.ID), nil)
	require.NoError(t, err)

	require.Len(t, resp.Asignaciones, 2)
	assert.Empty(t, resp.Advertencias)
	assert.Equal(t, f1.ID, resp.Asignaciones[0].FacturaID)
	assert.Equal(t, int64(30000), resp.Asignaciones[0].Monto)
	assert.Equal(t, f2.ID, resp.Asignaciones[1].FacturaID)
	assert.Equal(t, int64(40000), resp.Asignaciones[1].Monto)
	assert.Equal(t, int64(50000), resp.Asignaciones[1].SaldoAntes)
	assert.Equal(t, int64(10000), resp.Asignaciones[1].SaldoDespues)
	assert.Equal(t, int64(0), resp.MontoDisponible)

	assert.Equal(t, "pagada", e.factura(t, f1.ID).Estado)
	assert.Equal(t, int64(10000), e.factura(t, f2.ID).SaldoPendiente)
	untouched := e.factura(t, f3.ID)
	assert.Equal(t, int64(40000), untouched.SaldoPendiente)
	assert.Empty(t, untouched.Asignaciones)

	assert.Equal(t, int64(50000), e.saldo(t, model.ParteProveedor, prov))
	verificarInvariantes(t, e)
}

func TestDistribuir_ClienteReduceElSaldo(t *testing.T) {
	e := nuevoEntorno(t)
	cli := e.cliente(t, "Despensa Don Pedro", nil)
	prod := e.producto(t, "POLLO-01", 100)
	e.venta(t, cli, prod, 2, 15000)
	e.venta(t, cli, prod, 1, 15000)
	require.Equal(t, int64(45000), e.saldo(t, model.ParteCliente, cli))

	cid := cli.String()
	p, err := e.pagos.Crear(ctx, e.usuario, dto.CrearPagoRequest{
		MontoTotal: 40000, Metodo: "transferencia", ClienteID: &cid, Distribuir: true,
	})
	require.NoError(t, err)
	require.NotNil(t, p.Distribucion)
	assert.Len(t, p.Distribucion.Asignaciones, 2)
	// partial allocation to a sale invoice is allowed on this path
	assert.Equal(t, int64(5000), e.saldo(t, model.ParteCliente, cli))
	verificarInvariantes(t, e)
}

func TestDistribuir_FallaUnItemYContinua(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f1 := e.compra(t, prov, prod, 30000, dias(30))
	f2 := e.compra(t, prov, prod, 30000, dias(20))
	f3 := e.compra(t, prov, prod, 30000, dias(10))

	rechazada := uuid.MustParse(f2.ID)
	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:rechazar_asignacion", func(tx *gorm.DB) {
		if a, ok := tx.Statement.Dest.(*model.PagoFactura); ok && a.FacturaID == rechazada {
			_ = tx.AddError(apperror.Validation("rechazo_prueba", "asignación rechazada"))
		}
	}))

	p := e.nuevoPago(t, 90000, &prov, "transferencia")
	resp, err := e.pagos.Distribuir(ctx, uuid.MustParse(p.ID), nil)
	require.NoError(t, err)

	require.Len(t, resp.Asignaciones, 2)
	assert.Equal(t, f1.ID, resp.Asignaciones[0].FacturaID)
	assert.Equal(t, f3.ID, resp.Asignaciones[1].FacturaID)
	require.Len(t, resp.Advertencias, 1)
	assert.Equal(t, f2.ID, resp.Advertencias[0].FacturaID)
	assert.Equal(t, int64(30000), resp.MontoDisponible)

	assert.Equal(t, "pagada", e.factura(t, f1.ID).Estado)
	assert.Equal(t, "pendiente", e.factura(t, f2.ID).Estado)
	assert.Equal(t, "pagada", e.factura(t, f3.ID).Estado)
	assert.Equal(t, int64(30000), e.saldo(t, model.ParteProveedor, prov))
	verificarInvariantes(t, e)
}

func TestDistribuir_ErrorDeInfraestructuraCorta(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	e.compra(t, prov, prod, 30000, dias(30))
	e.compra(t, prov, prod, 30000, dias(20))

	falla := errors.New("disco lleno")
	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:falla_asignacion", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*model.PagoFactura); ok {
			_ = tx.AddError(falla)
		}
	}))

	p := e.nuevoPago(t, 60000, &prov, "transferencia")
	resp, err := e.pagos.Distribuir(ctx, uuid.MustParse(p.ID), nil)
	require.ErrorIs(t, err, falla)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Asignaciones)
	assert.Equal(t, int64(60000), e.saldo(t, model.ParteProveedor, prov))
}

func TestDistribuir_SinContraparteNiFactura(t *testing.T) {
	e := nuevoEntorno(t)
	p := e.nuevoPago(t, 10000, nil, "efectivo")
	_, err := e.pagos.Distribuir(ctx, uuid.MustParse(p.ID), nil)
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "pago_sin_contraparte"})
}

func TestCrear_ConFacturaAsignaDirecto(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 30000, dias(3))

	p, err := e.pagos.Crear(ctx, e.usuario, dto.CrearPagoRequest{MontoTotal: 50000, Metodo: "cheque", FacturaID: &f.ID})
	require.NoError(t, err)
	assert.Equal(t, prov.String(), p.ContraparteID)
	assert.Equal(t, int64(30000), p.MontoAsignado)
	assert.Equal(t, int64(20000), p.MontoDisponible)
	assert.Equal(t, "pagada", e.factura(t, f.ID).Estado)
}

func TestCrear_RechazoNoDejaPagoHuerfano(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 30000, dias(3))
	_, err := e.facturas.Anular(ctx, e.usuario, uuid.MustParse(f.ID))
	require.NoError(t, err)

	contarPagos := func() int64 {
		var n int64
		require.NoError(t, e.db.Model(&model.Pago{}).Count(&n).Error)
		return n
	}

	_, err = e.pagos.Crear(ctx, e.usuario, dto.CrearPagoRequest{MontoTotal: 30000, Metodo: "efectivo", FacturaID: &f.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindState), "got %v", err)
	assert.Zero(t, contarPagos())

	_, err = e.pagos.Crear(ctx, e.usuario, dto.CrearPagoRequest{MontoTotal: 30000, Metodo: "efectivo", Distribuir: true})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "pago_sin_contraparte"})
	assert.Zero(t, contarPagos())

	verificarInvariantes(t, e)
}

// ── PagoRapido ────────────────────────────────────────────────────────────────

func TestPagoRapido_VentaExigeElSaldoCompleto(t *testing.T) {
	e := nuevoEntorno(t)
	cli := e.cliente(t, "Despensa Don Pedro", nil)
	prod := e.producto(t, "POLLO-01", 10)
	f := e.venta(t, cli, prod, 1, 82500)
	fid := uuid.MustParse(f.ID)

	_, err := e.pagos.PagoRapido(ctx, e.usuario, fid, dto.PagoRapidoRequest{Monto: 50000, Metodo: "transferencia"})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "monto_debe_cubrir_saldo"})
	assert.Equal(t, int64(82500), e.saldo(t, model.ParteCliente, cli))

	resp, err := e.pagos.PagoRapido(ctx, e.usuario, fid, dto.PagoRapidoRequest{Monto: 82500, Metodo: "transferencia"})
	require.NoError(t, err)
	assert.Equal(t, "pagada", resp.Factura.Estado)
	assert.Equal(t, int64(0), resp.Factura.SaldoPendiente)
	assert.Equal(t, int64(0), e.saldo(t, model.ParteCliente, cli))

	_, err = e.pagos.PagoRapido(ctx, e.usuario, fid, dto.PagoRapidoRequest{Monto: 1, Metodo: "transferencia"})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "factura_pagada"})
	verificarInvariantes(t, e)
}

func TestPagoRapido_CompraAdmiteParcial(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 110000, dias(1))
	fid := uuid.MustParse(f.ID)

	resp, err := e.pagos.PagoRapido(ctx, e.usuario, fid, dto.PagoRapidoRequest{Monto: 50000, Metodo: "cheque"})
	require.NoError(t, err)
	assert.Equal(t, int64(60000), resp.Factura.SaldoPendiente)
	assert.Equal(t, "pendiente", resp.Factura.Estado)

	_, err = e.pagos.PagoRapido(ctx, e.usuario, fid, dto.PagoRapidoRequest{Monto: 70000, Metodo: "cheque"})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "monto_excede_saldo"})
	verificarInvariantes(t, e)
}

func TestPagoRapido_VueltoYMovimientoDeCaja(t *testing.T) {
	e := nuevoEntorno(t)
	email := "pedro@despensa.test"
	cli := e.cliente(t, "Despensa Don Pedro", &email)
	prod := e.producto(t, "POLLO-01", 10)
	f := e.venta(t, cli, prod, 1, 82500)

	caja, err := e.caja.Abrir(ctx, e.usuario, dto.AbrirCajaRequest{})
	require.NoError(t, err)

	billete := int64(100000)
	resp, err := e.pagos.PagoRapido(ctx, e.usuario, uuid.MustParse(f.ID), dto.PagoRapidoRequest{
		Monto: 82500, Metodo: "efectivo", MontoBillete: &billete,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(17500), resp.Vuelto)

	resumen, err := e.caja.ObtenerResumen(ctx, uuid.MustParse(caja.ID))
	require.NoError(t, err)
	require.Len(t, resumen.Movimientos, 1)
	assert.Equal(t, "ingreso", resumen.Movimientos[0].Tipo)
	assert.Equal(t, "venta", resumen.Movimientos[0].Categoria)
	assert.Equal(t, int64(82500), resumen.Movimientos[0].Monto)

	enviados := e.emails.enviados()
	require.Len(t, enviados, 1)
	assert.Equal(t, []string{email}, enviados[0].To)
	assert.Contains(t, enviados[0].Body, f.Numero)

	// Reversing the allocation books the compensating adjustment.
	require.NoError(t, e.pagos.Desasignar(ctx, uuid.MustParse(resp.Pago.Asignaciones[0].ID)))
	resumen, err = e.caja.ObtenerResumen(ctx, uuid.MustParse(caja.ID))
	require.NoError(t, err)
	require.Len(t, resumen.Movimientos, 2)
	var ajuste *dto.MovimientoCajaResponse
	for i := range resumen.Movimientos {
		if resumen.Movimientos[i].Categoria == "ajuste" {
			ajuste = &resumen.Movimientos[i]
		}
	}
	require.NotNil(t, ajuste)
	assert.Equal(t, "egreso", ajuste.Tipo)
	assert.Equal(t, int64(82500), ajuste.Monto)
	assert.Equal(t, int64(0), resumen.SaldoActual)
}

func TestPagoRapido_BilleteInsuficiente(t *testing.T) {
	e := nuevoEntorno(t)
	cli := e.cliente(t, "Despensa Don Pedro", nil)
	prod := e.producto(t, "POLLO-01", 10)
	f := e.venta(t, cli, prod, 1, 82500)

	billete := int64(50000)
	_, err := e.pagos.PagoRapido(ctx, e.usuario, uuid.MustParse(f.ID), dto.PagoRapidoRequest{
		Monto: 82500, Metodo: "efectivo", MontoBillete: &billete,
	})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindValidation, Code: "billete_insuficiente"})
}

func TestPagoEnEfectivoSinCajaNoFalla(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 30000, dias(1))

	_, err := e.pagos.PagoRapido(ctx, e.usuario, uuid.MustParse(f.ID), dto.PagoRapidoRequest{Monto: 30000, Metodo: "efectivo"})
	require.NoError(t, err)
	assert.Equal(t, "pagada", e.factura(t, f.ID).Estado)
}

func TestReciboFallidoNoAfectaElPago(t *testing.T) {
	e := nuevoEntorno(t)
	e.emails.err = errors.New("redis caído")
	email := "pedro@despensa.test"
	cli := e.cliente(t, "Despensa Don Pedro", &email)
	prod := e.producto(t, "POLLO-01", 10)
	f := e.venta(t, cli, prod, 1, 15000)

	_, err := e.pagos.PagoRapido(ctx, e.usuario, uuid.MustParse(f.ID), dto.PagoRapidoRequest{Monto: 15000, Metodo: "transferencia"})
	require.NoError(t, err)
	assert.Equal(t, "pagada", e.factura(t, f.ID).Estado)
}

// ── Desasignar / Eliminar ─────────────────────────────────────────────────────

func TestDesasignar_Idempotente(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 110000, dias(1))
	p := e.nuevoPago(t, 110000, &prov, "transferencia")
	resp, err := asignar(t, e, p.ID, f.ID, 110000)
	require.NoError(t, err)
	require.Equal(t, "pagada", e.factura(t, f.ID).Estado)

	asignacionID := uuid.MustParse(resp.Asignaciones[0].ID)
	require.NoError(t, e.pagos.Desasignar(ctx, asignacionID))
	saldo1 := e.saldo(t, model.ParteProveedor, prov)
	estado1 := e.factura(t, f.ID).Estado

	require.NoError(t, e.pagos.Desasignar(ctx, asignacionID))
	assert.Equal(t, saldo1, e.saldo(t, model.ParteProveedor, prov))
	assert.Equal(t, estado1, e.factura(t, f.ID).Estado)

	assert.Equal(t, int64(110000), saldo1)
	assert.Equal(t, "pendiente", estado1)
	verificarInvariantes(t, e)
}

func TestDesasignar_FacturaAnuladaNoDevuelveSaldo(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f := e.compra(t, prov, prod, 100000, dias(1))
	p := e.nuevoPago(t, 40000, &prov, "transferencia")
	resp, err := asignar(t, e, p.ID, f.ID, 40000)
	require.NoError(t, err)

	_, err = e.facturas.Anular(ctx, e.usuario, uuid.MustParse(f.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.saldo(t, model.ParteProveedor, prov))

	require.NoError(t, e.pagos.Desasignar(ctx, uuid.MustParse(resp.Asignaciones[0].ID)))
	assert.Equal(t, int64(0), e.saldo(t, model.ParteProveedor, prov))
	assert.Equal(t, "anulada", e.factura(t, f.ID).Estado)
	verificarInvariantes(t, e)
}

func TestEliminarPago_RevierteTodo(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.proveedor(t, "Granja San José")
	prod := e.producto(t, "POLLO-01", 0)
	f1 := e.compra(t, prov, prod, 30000, dias(5))
	f2 := e.compra(t, prov, prod, 50000, dias(4))

	p := e.nuevoPago(t, 80000, &prov, "transferencia")
	_, err := e.pagos.Distribuir(ctx, uuid.MustParse(p.ID), nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), e.saldo(t, model.ParteProveedor, prov))

	require.NoError(t, e.pagos.Eliminar(ctx, uuid.MustParse(p.ID)))

	_, err = e.pagos.ObtenerPorID(ctx, uuid.MustParse(p.ID))
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "pendiente", e.factura(t, f1.ID).Estado)
	assert.Equal(t, "pendiente", e.factura(t, f2.ID).Estado)
	assert.Equal(t, int64(80000), e.saldo(t, model.ParteProveedor, prov))

	var n int64
	require.NoError(t, e.db.Model(&model.PagoFactura{}).Count(&n).Error)
	assert.Zero(t, n)
	verificarInvariantes(t, e)
}

func TestEliminarPago_Inexistente(t *testing.T) {
	e := nuevoEntorno(t)
	err := e.pagos.Eliminar(ctx, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
