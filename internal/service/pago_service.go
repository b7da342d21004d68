package service

import (
	"context"
	"fmt"
	"time"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/metrics"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EmailQueue is the async mail sink. worker.Dispatcher implements it.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, msg dto.EmailMensaje) error
}

type PagoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearPagoRequest) (*dto.PagoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error)
	Listar(ctx context.Context, filter dto.PagoFilter) (*dto.PagoListResponse, error)

	// Asignar sets the amount of pago applied to one invoice, creating or
	// replacing the allocation row.
	Asignar(ctx context.Context, pagoID uuid.UUID, req dto.AsignarPagoRequest) (*dto.PagoResponse, error)
	// Distribuir spreads what is left of the payment oldest-first over the
	// party's pending invoices, or over facturaID alone. Every item commits on
	// its own; rejected items come back as warnings.
	Distribuir(ctx context.Context, pagoID uuid.UUID, facturaID *uuid.UUID) (*dto.DistribucionResponse, error)
	// PagoRapido creates and allocates a payment for one invoice atomically.
	PagoRapido(ctx context.Context, usuarioID, facturaID uuid.UUID, req dto.PagoRapidoRequest) (*dto.PagoRapidoResponse, error)
	// Desasignar removes an allocation. A missing allocation is not an error.
	Desasignar(ctx context.Context, asignacionID uuid.UUID) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pagoService struct {
	repo        repository.PagoRepository
	facturaRepo repository.FacturaRepository
	parteRepo   repository.ParteRepository
	cajaRepo    repository.CajaRepository
	facturas    FacturaService
	emails      EmailQueue
	metrics     *metrics.Metrics
}

func NewPagoService(
	repo repository.PagoRepository,
	facturaRepo repository.FacturaRepository,
	parteRepo repository.ParteRepository,
	cajaRepo repository.CajaRepository,
	facturas FacturaService,
	emails EmailQueue,
	m *metrics.Metrics,
) PagoService {
	return &pagoService{
		repo:        repo,
		facturaRepo: facturaRepo,
		parteRepo:   parteRepo,
		cajaRepo:    cajaRepo,
		facturas:    facturas,
		emails:      emails,
		metrics:     m,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *pagoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearPagoRequest) (*dto.PagoResponse, error) {
	if req.MontoTotal <= 0 {
		return nil, apperror.Validation("monto_invalido", "el monto del pago debe ser mayor a cero")
	}
	if req.ProveedorID != nil && req.ClienteID != nil {
		return nil, apperror.Validation("contraparte_doble", "un pago no puede tener proveedor y cliente a la vez")
	}

	pago := &model.Pago{
		Fecha:       time.Now().UTC(),
		MontoTotal:  req.MontoTotal,
		Metodo:      model.MetodoPago(req.Metodo),
		Referencia:  req.Referencia,
		Observacion: req.Observacion,
		UsuarioID:   usuarioID,
	}

	var facturaID *uuid.UUID
	if req.FacturaID != nil {
		id, err := uuid.Parse(*req.FacturaID)
		if err != nil {
			return nil, apperror.Validation("factura_id_invalido", "factura_id inválido")
		}
		facturaID = &id
	}

	var (
		distribucion *dto.DistribucionResponse
		asignada     *resultadoAsignacion
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var c *model.Contraparte
		switch {
		case req.ProveedorID != nil:
			c = &model.Contraparte{Tipo: model.ParteProveedor}
		case req.ClienteID != nil:
			c = &model.Contraparte{Tipo: model.ParteCliente}
		}
		if c != nil {
			raw := *req.ClienteID
			if c.Tipo == model.ParteProveedor {
				raw = *req.ProveedorID
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return apperror.Validation(string(c.Tipo)+"_id_invalido", "%s_id inválido", c.Tipo)
			}
			c.ID = id
		}
		var f *model.Factura
		if facturaID != nil {
			var err error
			f, err = s.facturaRepo.FindForUpdateTx(tx, *facturaID)
			if err != nil {
				return noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
			}
			if f.Estado == model.EstadoAnulada {
				return apperror.State("factura_anulada", "la factura %s está anulada", f.Numero)
			}
			fc := f.Contraparte()
			if c != nil && *c != fc {
				return apperror.Validation("contraparte_distinta", "la factura %s no pertenece a la contraparte del pago", f.Numero)
			}
			c = &fc
		}
		if req.Distribuir && c == nil {
			return apperror.Validation("pago_sin_contraparte", "el pago no tiene proveedor ni cliente; indique una factura")
		}
		if c != nil {
			if _, err := s.parteRepo.ContactoTx(tx, *c); err != nil {
				return noEncontrado(err, string(c.Tipo)+"_no_encontrado", string(c.Tipo)+" no encontrado")
			}
			pago.SetContraparte(*c)
		}
		if err := s.repo.CreateTx(tx, pago); err != nil {
			return err
		}
		if f == nil {
			return nil
		}

		// A payment bound to one invoice is allocated in the same transaction:
		// either both rows exist or neither does.
		monto := min(pago.MontoTotal, f.SaldoPendiente())
		if monto <= 0 {
			return nil
		}
		res, err := s.asignarTx(tx, pago, f.ID, monto)
		if err != nil {
			return err
		}
		asignada = res
		return nil
	})
	if asignada != nil || (err != nil && facturaID != nil) {
		tipo, monto := model.TipoFactura(""), pago.MontoTotal
		if asignada != nil {
			tipo, monto = asignada.factura.Tipo, asignada.delta
		}
		s.registrarMetrica(tipo, err, monto)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case asignada != nil:
		item := dto.AsignacionPlan{
			FacturaID:     asignada.factura.ID.String(),
			NumeroFactura: asignada.factura.Numero,
			Monto:         asignada.delta,
			SaldoAntes:    asignada.saldoAntes,
			SaldoDespues:  asignada.saldoDespues,
		}
		distribucion = &dto.DistribucionResponse{
			PagoID:          pago.ID.String(),
			Asignaciones:    []dto.AsignacionPlan{item},
			Advertencias:    []dto.AdvertenciaAsignacion{},
			MontoDisponible: pago.MontoTotal - asignada.delta,
		}
		s.enviarRecibo(ctx, pago.ID)
	case req.Distribuir:
		distribucion, err = s.Distribuir(ctx, pago.ID, nil)
		if err != nil {
			return nil, err
		}
	}

	resp, err := s.ObtenerPorID(ctx, pago.ID)
	if err != nil {
		return nil, err
	}
	resp.Distribucion = distribucion
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *pagoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "pago_no_encontrado", "pago no encontrado")
	}
	return pagoToResponse(p), nil
}

func (s *pagoService) Listar(ctx context.Context, filter dto.PagoFilter) (*dto.PagoListResponse, error) {
	pagos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.PagoListResponse{
		Data:  make([]dto.PagoResponse, 0, len(pagos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range pagos {
		resp.Data = append(resp.Data, *pagoToResponse(&pagos[i]))
	}
	return resp, nil
}

// ── Asignar ───────────────────────────────────────────────────────────────────

func (s *pagoService) Asignar(ctx context.Context, pagoID uuid.UUID, req dto.AsignarPagoRequest) (*dto.PagoResponse, error) {
	facturaID, err := uuid.Parse(req.FacturaID)
	if err != nil {
		return nil, apperror.Validation("factura_id_invalido", "factura_id inválido")
	}
	var tipo model.TipoFactura
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pago, err := s.repo.FindForUpdateTx(tx, pagoID)
		if err != nil {
			return noEncontrado(err, "pago_no_encontrado", "pago no encontrado")
		}
		res, err := s.asignarTx(tx, pago, facturaID, req.Monto)
		if res != nil {
			tipo = res.factura.Tipo
		}
		return err
	})
	s.registrarMetrica(tipo, err, req.Monto)
	if err != nil {
		return nil, err
	}
	s.enviarRecibo(ctx, pagoID)
	return s.ObtenerPorID(ctx, pagoID)
}

type resultadoAsignacion struct {
	factura      *model.Factura
	delta        int64
	saldoAntes   int64
	saldoDespues int64
}

// asignarTx is the allocation primitive. pago must be locked by the caller so
// concurrent allocations of the same payment serialize. Both ceilings are
// computed excluding the allocation being replaced.
func (s *pagoService) asignarTx(tx *gorm.DB, pago *model.Pago, facturaID uuid.UUID, monto int64) (*resultadoAsignacion, error) {
	if monto <= 0 {
		return nil, apperror.Validation("monto_invalido", "el monto a asignar debe ser mayor a cero")
	}
	f, err := s.facturaRepo.FindForUpdateTx(tx, facturaID)
	if err != nil {
		return nil, noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
	}
	res := &resultadoAsignacion{factura: f}
	if f.Estado == model.EstadoAnulada {
		return res, apperror.State("factura_anulada", "la factura %s está anulada", f.Numero)
	}

	c := f.Contraparte()
	if pc, ok := pago.Contraparte(); ok {
		if pc != c {
			return res, apperror.Validation("contraparte_distinta",
				"la factura %s pertenece a otro %s que el del pago", f.Numero, c.Tipo)
		}
	} else {
		pago.SetContraparte(c)
		if err := s.repo.SetContraparteTx(tx, pago); err != nil {
			return res, err
		}
	}

	var previo int64
	existente, err := s.repo.FindAsignacionTx(tx, pago.ID, f.ID)
	switch {
	case err == nil:
		previo = existente.Monto
	case esNoEncontrado(err):
		existente = nil
	default:
		return res, err
	}

	otrosFactura, err := s.repo.SumPorFacturaTx(tx, f.ID, &pago.ID)
	if err != nil {
		return res, err
	}
	if saldo := f.Total - otrosFactura; monto > saldo {
		return res, apperror.Validation("monto_excede_saldo",
			"el monto %d excede el saldo pendiente %d de la factura %s", monto, saldo, f.Numero)
	}
	otrosPago, err := s.repo.SumPorPagoTx(tx, pago.ID, &f.ID)
	if err != nil {
		return res, err
	}
	if disponible := pago.MontoTotal - otrosPago; monto > disponible {
		return res, apperror.Validation("monto_excede_disponible",
			"el monto %d excede el disponible %d del pago", monto, disponible)
	}

	if existente == nil {
		err = s.repo.CreateAsignacionTx(tx, &model.PagoFactura{PagoID: pago.ID, FacturaID: f.ID, Monto: monto})
	} else {
		err = s.repo.UpdateAsignacionMontoTx(tx, existente.ID, monto)
	}
	if err != nil {
		return res, err
	}

	res.delta = monto - previo
	res.saldoAntes = f.Total - otrosFactura - previo
	res.saldoDespues = f.Total - otrosFactura - monto

	if res.delta != 0 {
		if err := s.parteRepo.AjustarSaldoTx(tx, c, -res.delta); err != nil {
			return res, err
		}
	}
	if _, err := s.facturas.RecalcularEstadoTx(tx, f); err != nil {
		return res, err
	}
	return res, s.registrarEnCajaTx(tx, pago, f, res.delta)
}

// ── Distribuir ────────────────────────────────────────────────────────────────

func (s *pagoService) Distribuir(ctx context.Context, pagoID uuid.UUID, facturaID *uuid.UUID) (*dto.DistribucionResponse, error) {
	pago, err := s.repo.FindByID(ctx, pagoID)
	if err != nil {
		return nil, noEncontrado(err, "pago_no_encontrado", "pago no encontrado")
	}
	if pago.MontoDisponible() <= 0 {
		return nil, apperror.Validation("pago_sin_disponible", "el pago no tiene monto disponible para asignar")
	}

	var candidatas []FacturaPendiente
	if facturaID != nil {
		f, err := s.facturaRepo.FindByID(ctx, *facturaID)
		if err != nil {
			return nil, noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
		}
		if f.Estado == model.EstadoAnulada {
			return nil, apperror.State("factura_anulada", "la factura %s está anulada", f.Numero)
		}
		candidatas = append(candidatas, FacturaPendiente{ID: f.ID, Numero: f.Numero, Saldo: f.SaldoPendiente()})
	} else {
		c, ok := pago.Contraparte()
		if !ok {
			return nil, apperror.Validation("pago_sin_contraparte", "el pago no tiene proveedor ni cliente; indique una factura")
		}
		facturas, err := s.facturaRepo.ListPendientesPorParte(ctx, c)
		if err != nil {
			return nil, err
		}
		for i := range facturas {
			candidatas = append(candidatas, FacturaPendiente{ID: facturas[i].ID, Numero: facturas[i].Numero, Saldo: facturas[i].SaldoPendiente()})
		}
	}

	resp := &dto.DistribucionResponse{
		PagoID:       pagoID.String(),
		Asignaciones: []dto.AsignacionPlan{},
		Advertencias: []dto.AdvertenciaAsignacion{},
	}
	for _, item := range PlanificarAsignacion(pago.MontoDisponible(), candidatas) {
		var res *resultadoAsignacion
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			p, err := s.repo.FindForUpdateTx(tx, pagoID)
			if err != nil {
				return noEncontrado(err, "pago_no_encontrado", "pago no encontrado")
			}
			var previo int64
			if a, err := s.repo.FindAsignacionTx(tx, pagoID, item.Factura.ID); err == nil {
				previo = a.Monto
			} else if !esNoEncontrado(err) {
				return err
			}
			res, err = s.asignarTx(tx, p, item.Factura.ID, previo+item.Monto)
			return err
		})

		var tipo model.TipoFactura
		if res != nil {
			tipo = res.factura.Tipo
		}
		s.registrarMetrica(tipo, err, item.Monto)
		if err != nil {
			if _, ok := apperror.As(err); !ok {
				return resp, err
			}
			log.Warn().Err(err).Str("pago_id", pagoID.String()).Str("factura", item.Factura.Numero).Msg("pago: asignación omitida")
			resp.Advertencias = append(resp.Advertencias, dto.AdvertenciaAsignacion{
				FacturaID:     item.Factura.ID.String(),
				NumeroFactura: item.Factura.Numero,
				Mensaje:       err.Error(),
			})
			continue
		}
		resp.Asignaciones = append(resp.Asignaciones, dto.AsignacionPlan{
			FacturaID:     item.Factura.ID.String(),
			NumeroFactura: item.Factura.Numero,
			Monto:         res.delta,
			SaldoAntes:    res.saldoAntes,
			SaldoDespues:  res.saldoDespues,
		})
	}

	actualizado, err := s.repo.FindByID(ctx, pagoID)
	if err != nil {
		return resp, err
	}
	resp.MontoDisponible = actualizado.MontoDisponible()
	if len(resp.Asignaciones) > 0 {
		s.enviarRecibo(ctx, pagoID)
	}
	return resp, nil
}

// ── PagoRapido ────────────────────────────────────────────────────────────────
// Compras accept partial payments. Ventas must settle the whole pending
// balance in one go; cash sales may report the bill tendered to get change.

func (s *pagoService) PagoRapido(ctx context.Context, usuarioID, facturaID uuid.UUID, req dto.PagoRapidoRequest) (*dto.PagoRapidoResponse, error) {
	var (
		pago   *model.Pago
		vuelto int64
		tipo   model.TipoFactura
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.facturaRepo.FindForUpdateTx(tx, facturaID)
		if err != nil {
			return noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
		}
		tipo = f.Tipo
		if f.Estado == model.EstadoAnulada {
			return apperror.State("factura_anulada", "la factura %s está anulada", f.Numero)
		}
		saldo := f.SaldoPendiente()
		if saldo <= 0 {
			return apperror.Validation("factura_pagada", "la factura %s ya está pagada", f.Numero)
		}
		if req.Monto <= 0 {
			return apperror.Validation("monto_invalido", "el monto debe ser mayor a cero")
		}
		if f.Tipo == model.FacturaCompra && req.Monto > saldo {
			return apperror.Validation("monto_excede_saldo",
				"el monto %d excede el saldo pendiente %d de la factura %s", req.Monto, saldo, f.Numero)
		}
		if f.Tipo == model.FacturaVenta && req.Monto != saldo {
			return apperror.Validation("monto_debe_cubrir_saldo",
				"las facturas de venta se cobran por el saldo completo: %d", saldo)
		}

		metodo := model.MetodoPago(req.Metodo)
		if f.Tipo == model.FacturaVenta && metodo == model.MetodoEfectivo && req.MontoBillete != nil {
			if *req.MontoBillete < req.Monto {
				return apperror.Validation("billete_insuficiente",
					"el monto entregado %d es menor al monto a cobrar %d", *req.MontoBillete, req.Monto)
			}
			vuelto = *req.MontoBillete - req.Monto
		}

		pago = &model.Pago{
			Fecha:       time.Now().UTC(),
			MontoTotal:  req.Monto,
			Metodo:      metodo,
			Referencia:  req.Referencia,
			Observacion: req.Observacion,
			UsuarioID:   usuarioID,
		}
		pago.SetContraparte(f.Contraparte())
		if err := s.repo.CreateTx(tx, pago); err != nil {
			return err
		}
		_, err = s.asignarTx(tx, pago, f.ID, req.Monto)
		return err
	})
	s.registrarMetrica(tipo, err, req.Monto)
	if err != nil {
		return nil, err
	}

	s.enviarRecibo(ctx, pago.ID)

	pagoResp, err := s.ObtenerPorID(ctx, pago.ID)
	if err != nil {
		return nil, err
	}
	facturaResp, err := s.facturas.ObtenerPorID(ctx, facturaID)
	if err != nil {
		return nil, err
	}
	return &dto.PagoRapidoResponse{Pago: *pagoResp, Factura: *facturaResp, Vuelto: vuelto}, nil
}

// ── Desasignar / Eliminar ─────────────────────────────────────────────────────

func (s *pagoService) Desasignar(ctx context.Context, asignacionID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		a, err := s.repo.FindAsignacionByIDTx(tx, asignacionID)
		if esNoEncontrado(err) {
			return nil
		}
		if err != nil {
			return err
		}
		pago, err := s.repo.FindForUpdateTx(tx, a.PagoID)
		if err != nil {
			return err
		}
		// Re-read under the payment lock; a concurrent call may have won.
		a, err = s.repo.FindAsignacionByIDTx(tx, asignacionID)
		if esNoEncontrado(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.desasignarTx(tx, pago, a)
	})
}

func (s *pagoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pago, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "pago_no_encontrado", "pago no encontrado")
		}
		for i := range pago.Asignaciones {
			if err := s.desasignarTx(tx, pago, &pago.Asignaciones[i]); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, pago.ID)
	})
}

// desasignarTx deletes the allocation and gives the amount back to the party
// balance, unless the invoice is void: voiding already settled the balance.
func (s *pagoService) desasignarTx(tx *gorm.DB, pago *model.Pago, a *model.PagoFactura) error {
	f, err := s.facturaRepo.FindForUpdateTx(tx, a.FacturaID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAsignacionTx(tx, a.ID); err != nil {
		return err
	}
	if f.Estado != model.EstadoAnulada {
		if err := s.parteRepo.AjustarSaldoTx(tx, f.Contraparte(), a.Monto); err != nil {
			return err
		}
	}
	if _, err := s.facturas.RecalcularEstadoTx(tx, f); err != nil {
		return err
	}
	return s.registrarEnCajaTx(tx, pago, f, -a.Monto)
}

// ── Caja ──────────────────────────────────────────────────────────────────────

// registrarEnCajaTx mirrors a cash allocation change in the active caja.
// With no open caja the movement is skipped and logged.
func (s *pagoService) registrarEnCajaTx(tx *gorm.DB, pago *model.Pago, f *model.Factura, delta int64) error {
	if pago.Metodo != model.MetodoEfectivo || delta == 0 || s.cajaRepo == nil {
		return nil
	}
	caja, err := s.cajaRepo.FindActivaTx(tx, model.FechaDe(time.Now().UTC()), true)
	if esNoEncontrado(err) {
		log.Warn().Str("pago_id", pago.ID.String()).Str("factura", f.Numero).Int64("monto", delta).
			Msg("pago: no hay caja abierta, movimiento de efectivo no registrado")
		return nil
	}
	if err != nil {
		return err
	}

	tipo, categoria := model.CajaIngreso, model.CategoriaVenta
	descripcion := fmt.Sprintf("Cobro %s", referenciaFactura(f))
	if f.Tipo == model.FacturaCompra {
		tipo, categoria = model.CajaEgreso, model.CategoriaPagoProveedor
		descripcion = fmt.Sprintf("Pago %s", referenciaFactura(f))
	}
	monto := delta
	if delta < 0 {
		tipo, categoria, monto = tipo.Opuesto(), model.CategoriaAjuste, -delta
		descripcion = "Reversión " + descripcion
	}
	ref := pago.ID.String()
	return s.cajaRepo.CreateMovimientoTx(tx, &model.MovimientoCaja{
		CajaID:      caja.ID,
		Tipo:        tipo,
		Categoria:   categoria,
		Monto:       monto,
		Descripcion: descripcion,
		Referencia:  &ref,
		UsuarioID:   pago.UsuarioID,
	})
}

// ── Efectos secundarios ───────────────────────────────────────────────────────

// enviarRecibo enqueues a receipt to the party's email. Failures are logged
// and never reach the caller.
func (s *pagoService) enviarRecibo(ctx context.Context, pagoID uuid.UUID) {
	if s.emails == nil {
		return
	}
	p, err := s.repo.FindByID(ctx, pagoID)
	if err != nil {
		log.Warn().Err(err).Str("pago_id", pagoID.String()).Msg("pago: recibo no enviado")
		return
	}
	c, ok := p.Contraparte()
	if !ok {
		return
	}
	contacto, err := s.parteRepo.ContactoTx(s.parteRepo.DB().WithContext(ctx), c)
	if err != nil || contacto.Email == nil || *contacto.Email == "" {
		return
	}

	body := fmt.Sprintf("Estimado/a %s,\n\nRegistramos un pago de Gs. %d (%s) con fecha %s.\n\nDetalle:\n",
		contacto.Nombre, p.MontoTotal, p.Metodo, p.Fecha.Format("02/01/2006"))
	for _, a := range p.Asignaciones {
		numero := ""
		if a.Factura != nil {
			numero = a.Factura.Numero
		}
		body += fmt.Sprintf("  Factura %s: Gs. %d\n", numero, a.Monto)
	}
	body += fmt.Sprintf("\nSaldo sin asignar: Gs. %d\n", p.MontoDisponible())

	msg := dto.EmailMensaje{
		To:      []string{*contacto.Email},
		Subject: fmt.Sprintf("Recibo de pago %s", p.ID.String()[:8]),
		Body:    body,
	}
	if err := s.emails.EnqueueEmail(ctx, msg); err != nil {
		log.Warn().Err(err).Str("pago_id", pagoID.String()).Msg("pago: no se pudo encolar el recibo")
	}
}

func (s *pagoService) registrarMetrica(tipo model.TipoFactura, err error, monto int64) {
	resultado := metrics.ResultadoOK
	switch {
	case err == nil:
	case apperror.IsKind(err, apperror.KindValidation), apperror.IsKind(err, apperror.KindState):
		resultado = metrics.ResultadoRechazada
	default:
		resultado = metrics.ResultadoError
	}
	if tipo == "" {
		tipo = "desconocido"
	}
	s.metrics.Asignacion(string(tipo), resultado, monto)
}

func pagoToResponse(p *model.Pago) *dto.PagoResponse {
	r := &dto.PagoResponse{
		ID:              p.ID.String(),
		Fecha:           p.Fecha,
		MontoTotal:      p.MontoTotal,
		MontoAsignado:   p.MontoAsignado(),
		MontoDisponible: p.MontoDisponible(),
		Metodo:          string(p.Metodo),
		Referencia:      p.Referencia,
		Observacion:     p.Observacion,
		Asignaciones:    make([]dto.AsignacionResumen, 0, len(p.Asignaciones)),
	}
	if c, ok := p.Contraparte(); ok {
		r.ContraparteTipo = string(c.Tipo)
		r.ContraparteID = c.ID.String()
	}
	switch {
	case p.Proveedor != nil:
		r.Contraparte = p.Proveedor.Nombre
	case p.Cliente != nil:
		r.Contraparte = p.Cliente.Nombre
	}
	for i := range p.Asignaciones {
		a := &p.Asignaciones[i]
		numero := ""
		if a.Factura != nil {
			numero = a.Factura.Numero
		}
		r.Asignaciones = append(r.Asignaciones, asignacionToResumen(a, numero))
	}
	return r
}
