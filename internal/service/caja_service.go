package service

import (
	"context"
	"time"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/metrics"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const topGastosReporte = 10

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResumenResponse, error)
	// AbrirDesdeUltimoCierre opens fecha's session reusing the closing count of
	// the most recent closed session.
	AbrirDesdeUltimoCierre(ctx context.Context, usuarioID uuid.UUID, fecha time.Time) (*dto.CajaResumenResponse, error)
	// ObtenerActiva returns the open session of fecha. With fallback it returns
	// the most recent open session when fecha has none.
	ObtenerActiva(ctx context.Context, fecha time.Time, fallback bool) (*dto.CajaResponse, error)
	UltimoCierre(ctx context.Context) (*dto.UltimoCierreResponse, error)

	RegistrarMovimiento(ctx context.Context, usuarioID, cajaID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	RegistrarGasto(ctx context.Context, usuarioID, cajaID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error)
	EditarGasto(ctx context.Context, usuarioID, gastoID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error)
	EliminarGasto(ctx context.Context, usuarioID, gastoID uuid.UUID) error

	Cerrar(ctx context.Context, usuarioID, cajaID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResumenResponse, error)

	ObtenerResumen(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResumenResponse, error)
	Historial(ctx context.Context, page, limit int) (*dto.CajaHistorialResponse, error)
	ReportePeriodo(ctx context.Context, desde, hasta time.Time) (*dto.ReporteCajaPeriodoResponse, error)
	// Verificar reports today's session and any session left open on an earlier date.
	Verificar(ctx context.Context, hoy time.Time) (*dto.VerificacionCajaResponse, error)
}

type cajaService struct {
	repo    repository.CajaRepository
	metrics *metrics.Metrics
}

func NewCajaService(repo repository.CajaRepository, m *metrics.Metrics) CajaService {
	return &cajaService{repo: repo, metrics: m}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// One session per calendar date, and never while an older one is still open.

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResumenResponse, error) {
	fecha := time.Now().UTC()
	if req.Fecha != nil {
		fecha = req.Fecha.UTC()
	}
	denoms, err := denominacionesDesdeRequest(req.Denominaciones, false)
	if err != nil {
		return nil, err
	}
	caja, err := s.abrir(ctx, usuarioID, model.FechaDe(fecha), denoms, model.SumaDenominaciones(denoms), req.Observaciones)
	if err != nil {
		return nil, err
	}
	return s.ObtenerResumen(ctx, caja.ID)
}

func (s *cajaService) AbrirDesdeUltimoCierre(ctx context.Context, usuarioID uuid.UUID, fecha time.Time) (*dto.CajaResumenResponse, error) {
	var (
		denoms       []model.Denominacion
		saldoInicial int64
	)
	ultima, err := s.repo.FindUltimaCerrada(ctx)
	switch {
	case err == nil:
		for _, d := range ultima.Denominaciones {
			denoms = append(denoms, model.Denominacion{Valor: d.Valor, Cantidad: d.Cantidad})
		}
		// the drawer holds what was counted, not what was expected
		saldoInicial = ultima.SaldoReal
		if len(denoms) > 0 {
			saldoInicial = model.SumaDenominaciones(denoms)
		}
	case esNoEncontrado(err):
		log.Info().Msg("caja: no hay cierres previos, se abre con saldo cero")
	default:
		return nil, err
	}

	caja, err := s.abrir(ctx, usuarioID, model.FechaDe(fecha.UTC()), denoms, saldoInicial, nil)
	if err != nil {
		return nil, err
	}
	return s.ObtenerResumen(ctx, caja.ID)
}

func (s *cajaService) abrir(ctx context.Context, usuarioID uuid.UUID, fecha datatypes.Date, denoms []model.Denominacion, saldoInicial int64, obs *string) (*model.Caja, error) {
	caja := &model.Caja{
		Fecha:             fecha,
		SaldoInicial:      saldoInicial,
		Observaciones:     obs,
		UsuarioAperturaID: usuarioID,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if existente, err := s.repo.FindByFechaTx(tx, fecha); err == nil {
			estado := "abierta"
			if existente.Cerrada {
				estado = "cerrada"
			}
			return apperror.State("caja_existente", "ya existe una caja para el %s (%s)", formatoFecha(fecha), estado)
		} else if !esNoEncontrado(err) {
			return err
		}
		if abierta, err := s.repo.FindAbiertaTx(tx); err == nil {
			return apperror.State("caja_abierta_pendiente",
				"la caja del %s sigue abierta; ciérrela antes de abrir una nueva", formatoFecha(abierta.Fecha))
		} else if !esNoEncontrado(err) {
			return err
		}

		if err := s.repo.CreateTx(tx, caja); err != nil {
			if esDuplicado(err) {
				return apperror.State("caja_existente", "ya existe una caja para el %s", formatoFecha(fecha))
			}
			return err
		}
		for i := range denoms {
			denoms[i].CajaID = caja.ID
			denoms[i].EsCierre = false
		}
		return s.repo.CreateDenominacionesTx(tx, denoms)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("caja_id", caja.ID.String()).Str("fecha", formatoFecha(fecha)).Int64("saldo_inicial", saldoInicial).Msg("caja abierta")
	return caja, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) ObtenerActiva(ctx context.Context, fecha time.Time, fallback bool) (*dto.CajaResponse, error) {
	var resp *dto.CajaResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.repo.FindActivaTx(tx, model.FechaDe(fecha.UTC()), fallback)
		if err != nil {
			return noEncontrado(err, "sin_caja_abierta", "no hay caja abierta")
		}
		ingresos, egresos, err := s.repo.TotalesTx(tx, caja.ID)
		if err != nil {
			return err
		}
		resp = cajaToResponse(caja, ingresos, egresos)
		return nil
	})
	return resp, err
}

func (s *cajaService) UltimoCierre(ctx context.Context) (*dto.UltimoCierreResponse, error) {
	caja, err := s.repo.FindUltimaCerrada(ctx)
	if err != nil {
		return nil, noEncontrado(err, "sin_cierres", "no hay cajas cerradas")
	}
	return &dto.UltimoCierreResponse{
		CajaID:         caja.ID.String(),
		Fecha:          formatoFecha(caja.Fecha),
		SaldoFinal:     caja.SaldoFinal,
		SaldoReal:      caja.SaldoReal,
		Denominaciones: denominacionesToResponse(caja.Denominaciones),
	}, nil
}

// ── Movimientos y gastos ──────────────────────────────────────────────────────
// Movements are append-only. Gastos can be edited or removed while the caja is
// open; the difference is booked as a compensating "ajuste" movement.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID, cajaID uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	if req.Monto <= 0 {
		return nil, apperror.Validation("monto_invalido", "el monto debe ser mayor a cero")
	}
	mov := &model.MovimientoCaja{
		CajaID:      cajaID,
		Tipo:        model.TipoMovimientoCaja(req.Tipo),
		Categoria:   model.CategoriaMovimientoCaja(req.Categoria),
		Monto:       req.Monto,
		Descripcion: req.Descripcion,
		Referencia:  req.Referencia,
		Observacion: req.Observacion,
		UsuarioID:   usuarioID,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.cajaAbiertaTx(tx, cajaID); err != nil {
			return err
		}
		return s.repo.CreateMovimientoTx(tx, mov)
	})
	if err != nil {
		return nil, err
	}
	r := movimientoCajaToResponse(mov)
	return &r, nil
}

func (s *cajaService) RegistrarGasto(ctx context.Context, usuarioID, cajaID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error) {
	if req.Monto <= 0 {
		return nil, apperror.Validation("monto_invalido", "el monto debe ser mayor a cero")
	}
	gasto := &model.Gasto{
		CajaID:      cajaID,
		Categoria:   model.RubroGasto(req.Categoria),
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
		Comprobante: req.Comprobante,
		Observacion: req.Observacion,
		UsuarioID:   usuarioID,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.cajaAbiertaTx(tx, cajaID); err != nil {
			return err
		}
		mov := &model.MovimientoCaja{
			CajaID:      cajaID,
			Tipo:        model.CajaEgreso,
			Categoria:   model.CategoriaGasto,
			Monto:       req.Monto,
			Descripcion: "Gasto: " + req.Descripcion,
			Referencia:  req.Comprobante,
			UsuarioID:   usuarioID,
		}
		if err := s.repo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}
		gasto.MovimientoCajaID = mov.ID
		return s.repo.CreateGastoTx(tx, gasto)
	})
	if err != nil {
		return nil, err
	}
	r := gastoToResponse(gasto)
	return &r, nil
}

func (s *cajaService) EditarGasto(ctx context.Context, usuarioID, gastoID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error) {
	if req.Monto <= 0 {
		return nil, apperror.Validation("monto_invalido", "el monto debe ser mayor a cero")
	}
	var gasto *model.Gasto
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		gasto, err = s.repo.FindGastoTx(tx, gastoID)
		if err != nil {
			return noEncontrado(err, "gasto_no_encontrado", "gasto no encontrado")
		}
		if _, err := s.cajaAbiertaTx(tx, gasto.CajaID); err != nil {
			return err
		}

		if delta := req.Monto - gasto.Monto; delta != 0 {
			tipo, monto := model.CajaEgreso, delta
			if delta < 0 {
				tipo, monto = model.CajaIngreso, -delta
			}
			ref := gasto.ID.String()
			if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
				CajaID:      gasto.CajaID,
				Tipo:        tipo,
				Categoria:   model.CategoriaAjuste,
				Monto:       monto,
				Descripcion: "Ajuste por edición de gasto: " + req.Descripcion,
				Referencia:  &ref,
				UsuarioID:   usuarioID,
			}); err != nil {
				return err
			}
		}

		gasto.Categoria = model.RubroGasto(req.Categoria)
		gasto.Descripcion = req.Descripcion
		gasto.Monto = req.Monto
		gasto.Comprobante = req.Comprobante
		gasto.Observacion = req.Observacion
		return s.repo.UpdateGastoTx(tx, gasto)
	})
	if err != nil {
		return nil, err
	}
	r := gastoToResponse(gasto)
	return &r, nil
}

func (s *cajaService) EliminarGasto(ctx context.Context, usuarioID, gastoID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		gasto, err := s.repo.FindGastoTx(tx, gastoID)
		if err != nil {
			return noEncontrado(err, "gasto_no_encontrado", "gasto no encontrado")
		}
		if _, err := s.cajaAbiertaTx(tx, gasto.CajaID); err != nil {
			return err
		}
		ref := gasto.ID.String()
		if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			CajaID:      gasto.CajaID,
			Tipo:        model.CajaIngreso,
			Categoria:   model.CategoriaAjuste,
			Monto:       gasto.Monto,
			Descripcion: "Anulación de gasto: " + gasto.Descripcion,
			Referencia:  &ref,
			UsuarioID:   usuarioID,
		}); err != nil {
			return err
		}
		return s.repo.DeleteGastoTx(tx, gasto.ID)
	})
}

// cajaAbiertaTx locks the session and rejects closed ones.
func (s *cajaService) cajaAbiertaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.Caja, error) {
	caja, err := s.repo.FindForUpdateTx(tx, cajaID)
	if err != nil {
		return nil, noEncontrado(err, "caja_no_encontrada", "caja no encontrada")
	}
	if caja.Cerrada {
		return nil, apperror.State("caja_cerrada", "la caja del %s está cerrada", formatoFecha(caja.Fecha))
	}
	return caja, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Arqueo: the counted amount comes either raw or as a denomination count.
// saldo_final = inicial + Σ ingresos − Σ egresos, diferencia = real − final.

func (s *cajaService) Cerrar(ctx context.Context, usuarioID, cajaID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResumenResponse, error) {
	var clasificacion string
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.cajaAbiertaTx(tx, cajaID)
		if err != nil {
			return err
		}

		var real int64
		switch {
		case len(req.Denominaciones) > 0:
			denoms, err := denominacionesDesdeRequest(req.Denominaciones, true)
			if err != nil {
				return err
			}
			for i := range denoms {
				denoms[i].CajaID = caja.ID
			}
			if err := s.repo.CreateDenominacionesTx(tx, denoms); err != nil {
				return err
			}
			real = model.SumaDenominaciones(denoms)
		case req.SaldoReal != nil:
			real = *req.SaldoReal
		default:
			return apperror.Validation("saldo_real_requerido", "indique el saldo contado o las denominaciones de cierre")
		}

		ingresos, egresos, err := s.repo.TotalesTx(tx, caja.ID)
		if err != nil {
			return err
		}
		final := caja.SaldoInicial + ingresos - egresos
		diferencia := real - final
		pct := porcentajeDesvio(diferencia, final)
		clasificacion = clasificarDesvio(pct)

		// Cierre con desvío crítico requiere observaciones
		if clasificacion == model.DesvioCritico && (req.Observaciones == nil || *req.Observaciones == "") {
			return apperror.Validation("observaciones_requeridas",
				"desvío crítico de %s%%: se requieren observaciones para cerrar", pct.StringFixed(2))
		}

		ahora := time.Now().UTC()
		caja.SaldoFinal = final
		caja.SaldoReal = real
		caja.Diferencia = diferencia
		caja.DiferenciaPct = &pct
		caja.ClasificacionDesvio = &clasificacion
		if req.Observaciones != nil {
			caja.Observaciones = req.Observaciones
		}
		caja.Cerrada = true
		caja.UsuarioCierreID = &usuarioID
		caja.FechaCierre = &ahora
		return s.repo.UpdateTx(tx, caja)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CierreCaja(clasificacion)
	return s.ObtenerResumen(ctx, cajaID)
}

// porcentajeDesvio returns diferencia as a percentage of the expected balance.
// With nothing expected any difference counts as a full ±100%.
func porcentajeDesvio(diferencia, esperado int64) decimal.Decimal {
	if esperado == 0 {
		switch {
		case diferencia > 0:
			return decimal.NewFromInt(100)
		case diferencia < 0:
			return decimal.NewFromInt(-100)
		}
		return decimal.Zero
	}
	return decimal.NewFromInt(diferencia).
		Div(decimal.NewFromInt(esperado)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// clasificarDesvio returns "normal" | "advertencia" | "critico"
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%
func clasificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return model.DesvioNormal
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return model.DesvioAdvertencia
	default:
		return model.DesvioCritico
	}
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func (s *cajaService) ObtenerResumen(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResumenResponse, error) {
	caja, err := s.repo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, noEncontrado(err, "caja_no_encontrada", "caja no encontrada")
	}
	movs, err := s.repo.ListMovimientos(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.repo.ListGastos(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	porCategoria, err := s.repo.TotalesPorCategoria(ctx, []uuid.UUID{cajaID})
	if err != nil {
		return nil, err
	}

	var ingresos, egresos int64
	resp := &dto.CajaResumenResponse{
		DenominacionesApertura: []dto.DenominacionResponse{},
		DenominacionesCierre:   []dto.DenominacionResponse{},
		Movimientos:            make([]dto.MovimientoCajaResponse, 0, len(movs)),
		Gastos:                 make([]dto.GastoResponse, 0, len(gastos)),
		PorCategoria:           porCategoria,
	}
	for i := range movs {
		if movs[i].Tipo == model.CajaIngreso {
			ingresos += movs[i].Monto
		} else {
			egresos += movs[i].Monto
		}
		resp.Movimientos = append(resp.Movimientos, movimientoCajaToResponse(&movs[i]))
	}
	for i := range gastos {
		resp.Gastos = append(resp.Gastos, gastoToResponse(&gastos[i]))
	}
	var apertura, cierre []model.Denominacion
	for _, d := range caja.Denominaciones {
		if d.EsCierre {
			cierre = append(cierre, d)
		} else {
			apertura = append(apertura, d)
		}
	}
	resp.DenominacionesApertura = denominacionesToResponse(apertura)
	resp.DenominacionesCierre = denominacionesToResponse(cierre)
	resp.CajaResponse = *cajaToResponse(caja, ingresos, egresos)
	return resp, nil
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) (*dto.CajaHistorialResponse, error) {
	cajas, total, err := s.repo.Historial(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.CajaHistorialResponse{
		Data:  make([]dto.CajaResponse, 0, len(cajas)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	db := s.repo.DB().WithContext(ctx)
	for i := range cajas {
		ingresos, egresos, err := s.repo.TotalesTx(db, cajas[i].ID)
		if err != nil {
			return nil, err
		}
		resp.Data = append(resp.Data, *cajaToResponse(&cajas[i], ingresos, egresos))
	}
	return resp, nil
}

func (s *cajaService) ReportePeriodo(ctx context.Context, desde, hasta time.Time) (*dto.ReporteCajaPeriodoResponse, error) {
	d, h := model.FechaDe(desde.UTC()), model.FechaDe(hasta.UTC())
	if time.Time(h).Before(time.Time(d)) {
		return nil, apperror.Validation("periodo_invalido", "la fecha hasta debe ser posterior a desde")
	}
	cajas, err := s.repo.ListPorPeriodo(ctx, d, h)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteCajaPeriodoResponse{Desde: formatoFecha(d), Hasta: formatoFecha(h)}
	ids := make([]uuid.UUID, 0, len(cajas))
	for _, c := range cajas {
		ids = append(ids, c.ID)
		resp.TotalSaldoInicial += c.SaldoInicial
		if c.Cerrada {
			resp.CajasCerradas++
			resp.TotalSaldoFinal += c.SaldoFinal
			resp.TotalDiferencias += c.Diferencia
		} else {
			resp.CajasAbiertas++
		}
	}

	if resp.PorCategoria, err = s.repo.TotalesPorCategoria(ctx, ids); err != nil {
		return nil, err
	}
	for _, t := range resp.PorCategoria {
		if t.Tipo == string(model.CajaIngreso) {
			resp.TotalIngresos += t.Total
		} else {
			resp.TotalEgresos += t.Total
		}
	}
	if resp.GastosPorCategoria, err = s.repo.GastosPorCategoria(ctx, ids); err != nil {
		return nil, err
	}
	if resp.TopGastos, err = s.repo.TopGastos(ctx, ids, topGastosReporte); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *cajaService) Verificar(ctx context.Context, hoy time.Time) (*dto.VerificacionCajaResponse, error) {
	fecha := model.FechaDe(hoy.UTC())
	resp := &dto.VerificacionCajaResponse{Fecha: formatoFecha(fecha), CajasAntiguas: []dto.CajaResponse{}}

	db := s.repo.DB().WithContext(ctx)
	caja, err := s.repo.FindByFechaTx(db, fecha)
	switch {
	case err == nil:
		ingresos, egresos, err := s.repo.TotalesTx(db, caja.ID)
		if err != nil {
			return nil, err
		}
		resp.CajaHoy = cajaToResponse(caja, ingresos, egresos)
	case !esNoEncontrado(err):
		return nil, err
	}

	antiguas, err := s.repo.ListAbiertasAntesDe(ctx, fecha)
	if err != nil {
		return nil, err
	}
	for i := range antiguas {
		ingresos, egresos, err := s.repo.TotalesTx(db, antiguas[i].ID)
		if err != nil {
			return nil, err
		}
		resp.CajasAntiguas = append(resp.CajasAntiguas, *cajaToResponse(&antiguas[i], ingresos, egresos))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func denominacionesDesdeRequest(reqs []dto.DenominacionRequest, cierre bool) ([]model.Denominacion, error) {
	vistos := make(map[int64]bool, len(reqs))
	denoms := make([]model.Denominacion, 0, len(reqs))
	for _, r := range reqs {
		if !model.EsValorDenominacion(r.Valor) {
			return nil, apperror.Validation("denominacion_invalida", "denominación %d no válida", r.Valor)
		}
		if r.Cantidad < 0 {
			return nil, apperror.Validation("cantidad_invalida", "cantidad negativa para la denominación %d", r.Valor)
		}
		if vistos[r.Valor] {
			return nil, apperror.Validation("denominacion_duplicada", "la denominación %d está repetida", r.Valor)
		}
		vistos[r.Valor] = true
		denoms = append(denoms, model.Denominacion{Valor: r.Valor, Cantidad: r.Cantidad, EsCierre: cierre})
	}
	return denoms, nil
}

func formatoFecha(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

func cajaToResponse(c *model.Caja, ingresos, egresos int64) *dto.CajaResponse {
	r := &dto.CajaResponse{
		ID:            c.ID.String(),
		Fecha:         formatoFecha(c.Fecha),
		SaldoInicial:  c.SaldoInicial,
		TotalIngresos: ingresos,
		TotalEgresos:  egresos,
		SaldoActual:   c.SaldoInicial + ingresos - egresos,
		Cerrada:       c.Cerrada,
		Observaciones: c.Observaciones,
		FechaApertura: c.FechaApertura,
		FechaCierre:   c.FechaCierre,
	}
	if c.Cerrada {
		r.SaldoFinal = ptr(c.SaldoFinal)
		r.SaldoReal = ptr(c.SaldoReal)
		d := &dto.DesvioResponse{Monto: c.Diferencia}
		if c.DiferenciaPct != nil {
			d.Porcentaje = *c.DiferenciaPct
		}
		if c.ClasificacionDesvio != nil {
			d.Clasificacion = *c.ClasificacionDesvio
		}
		r.Desvio = d
	}
	return r
}

func denominacionesToResponse(ds []model.Denominacion) []dto.DenominacionResponse {
	out := make([]dto.DenominacionResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, dto.DenominacionResponse{Valor: d.Valor, Cantidad: d.Cantidad, Subtotal: d.Subtotal()})
	}
	return out
}

func movimientoCajaToResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	return dto.MovimientoCajaResponse{
		ID:          m.ID.String(),
		Tipo:        string(m.Tipo),
		Categoria:   string(m.Categoria),
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		Referencia:  m.Referencia,
		Observacion: m.Observacion,
		UsuarioID:   m.UsuarioID.String(),
		CreatedAt:   m.CreatedAt,
	}
}

func gastoToResponse(g *model.Gasto) dto.GastoResponse {
	return dto.GastoResponse{
		ID:               g.ID.String(),
		CajaID:           g.CajaID.String(),
		Categoria:        string(g.Categoria),
		Descripcion:      g.Descripcion,
		Monto:            g.Monto,
		Comprobante:      g.Comprobante,
		Observacion:      g.Observacion,
		MovimientoCajaID: g.MovimientoCajaID.String(),
		CreatedAt:        g.CreatedAt,
	}
}
