package service

import (
	"context"
	"fmt"
	"time"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// intentosNumeracion bounds the retries when two invoices race for the same number.
const intentosNumeracion = 3

type FacturaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	Anular(ctx context.Context, usuarioID, id uuid.UUID) (*dto.FacturaResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
	RecalcularEstados(ctx context.Context) (*dto.RecalculoEstadosResponse, error)

	// RecalcularEstadoTx re-derives pendiente/pagada from the allocations of a
	// locked invoice. Anulada is left untouched. A negative pending balance
	// is a ConsistencyError and aborts the caller's transaction.
	RecalcularEstadoTx(tx *gorm.DB, f *model.Factura) (model.EstadoFactura, error)
}

type facturaService struct {
	repo         repository.FacturaRepository
	productoRepo repository.ProductoRepository
	parteRepo    repository.ParteRepository
	stock        StockService
}

func NewFacturaService(
	repo repository.FacturaRepository,
	productoRepo repository.ProductoRepository,
	parteRepo repository.ParteRepository,
	stock StockService,
) FacturaService {
	return &facturaService{repo: repo, productoRepo: productoRepo, parteRepo: parteRepo, stock: stock}
}

// ── IVA ───────────────────────────────────────────────────────────────────────

// calcularLinea splits an IVA-inclusive line. The tax is gross/11 for 10% and
// gross/21 for 5%, truncated to whole guaraníes; net is the remainder.
func calcularLinea(cantidad int, precioUnitario int64, tasa int) (neto, iva, total int64) {
	total = int64(cantidad) * precioUnitario
	divisor := int64(11)
	if tasa == model.IVA5 {
		divisor = 21
	}
	iva = decimal.NewFromInt(total).Div(decimal.NewFromInt(divisor)).Truncate(0).IntPart()
	return total - iva, iva, total
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One transaction:
//   1. Resolve the counterparty from the invoice type
//   2. Lock every product, check stock on sales, split IVA per line
//   3. Assign max(numero)+1 and insert factura + detalles
//   4. Append one stock movement per line (entrada on compra, salida on venta)
//   5. Increase the party balance by the total

func (s *facturaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	tipo := model.TipoFactura(req.Tipo)
	if !tipo.Valido() {
		return nil, apperror.Validation("tipo_invalido", "tipo de factura %q no válido", req.Tipo)
	}
	c, err := contraparteDeRequest(tipo, req.ProveedorID, req.ClienteID)
	if err != nil {
		return nil, err
	}

	fecha := time.Now().UTC()
	if req.Fecha != nil {
		fecha = req.Fecha.UTC()
	}

	var f *model.Factura
	for intento := 1; ; intento++ {
		f, err = s.crearTx(ctx, usuarioID, tipo, c, fecha, req)
		if err == nil || !esDuplicado(err) || intento == intentosNumeracion {
			break
		}
		log.Warn().Err(err).Int("intento", intento).Str("tipo", string(tipo)).Msg("factura: colisión de numeración, reintentando")
	}
	if err != nil {
		if esDuplicado(err) {
			return nil, apperror.Validation("numero_duplicado", "no se pudo asignar un número de factura, intente nuevamente")
		}
		return nil, err
	}
	return s.ObtenerPorID(ctx, f.ID)
}

func (s *facturaService) crearTx(ctx context.Context, usuarioID uuid.UUID, tipo model.TipoFactura, c model.Contraparte, fecha time.Time, req dto.CrearFacturaRequest) (*model.Factura, error) {
	f := &model.Factura{
		Tipo:        tipo,
		Fecha:       fecha,
		Estado:      model.EstadoPendiente,
		Observacion: req.Observacion,
		UsuarioID:   usuarioID,
	}
	if tipo == model.FacturaCompra {
		f.ProveedorID = &c.ID
	} else {
		f.ClienteID = &c.ID
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		contacto, err := s.parteRepo.ContactoTx(tx, c)
		if err != nil {
			return noEncontrado(err, string(c.Tipo)+"_no_encontrado", string(c.Tipo)+" no encontrado")
		}
		if !contacto.Activo {
			return apperror.Validation(string(c.Tipo)+"_inactivo", "%s %s está inactivo", c.Tipo, contacto.Nombre)
		}

		pedido := make(map[uuid.UUID]int)
		for i, d := range req.Detalles {
			pid, err := uuid.Parse(d.ProductoID)
			if err != nil {
				return apperror.Validation("producto_id_invalido", "detalle %d: producto_id inválido", i+1)
			}
			p, err := s.productoRepo.FindForUpdateTx(tx, pid)
			if err != nil {
				return noEncontrado(err, "producto_no_encontrado", fmt.Sprintf("detalle %d: producto no encontrado", i+1))
			}
			if !p.Activo {
				return apperror.Validation("producto_inactivo", "el producto %s está inactivo", p.Nombre)
			}
			pedido[pid] += d.Cantidad
			if tipo == model.FacturaVenta && p.Stock < pedido[pid] {
				return apperror.Validation("stock_insuficiente",
					"stock insuficiente para %s: disponible %d, solicitado %d", p.Nombre, p.Stock, pedido[pid])
			}

			neto, iva, total := calcularLinea(d.Cantidad, d.PrecioUnitario, p.IVA)
			f.Detalles = append(f.Detalles, model.DetalleFactura{
				ProductoID:     pid,
				Cantidad:       d.Cantidad,
				PrecioUnitario: d.PrecioUnitario,
				TasaIVA:        p.IVA,
				Subtotal:       neto,
				IVA:            iva,
				Total:          total,
			})
			f.Subtotal += neto
			f.IVA += iva
		}
		f.Total = f.Subtotal + f.IVA

		numero, err := s.repo.NextNumeroTx(tx, tipo)
		if err != nil {
			return err
		}
		f.Numero = numero
		if err := s.repo.CreateTx(tx, f); err != nil {
			return err
		}

		ref := referenciaFactura(f)
		for i, d := range f.Detalles {
			in := MovimientoStockInput{
				ProductoID: d.ProductoID,
				Cantidad:   d.Cantidad,
				Referencia: &ref,
				UsuarioID:  usuarioID,
			}
			if tipo == model.FacturaCompra {
				in.Tipo, in.Origen = model.StockEntrada, model.OrigenFacturaCompra
			} else {
				in.Tipo, in.Origen = model.StockSalida, model.OrigenFacturaVenta
			}
			if _, err := s.stock.RegistrarMovimientoTx(tx, in); err != nil {
				return err
			}
			if tipo == model.FacturaCompra {
				if err := s.productoRepo.UpdatePreciosTx(tx, d.ProductoID, d.PrecioUnitario, req.Detalles[i].PrecioVenta); err != nil {
					return err
				}
			}
		}

		return s.parteRepo.AjustarSaldoTx(tx, c, f.Total)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *facturaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
	}
	return facturaToResponse(f, true), nil
}

func (s *facturaService) Listar(ctx context.Context, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	facturas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.FacturaListResponse{
		Data:  make([]dto.FacturaResponse, 0, len(facturas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range facturas {
		resp.Data = append(resp.Data, *facturaToResponse(&facturas[i], false))
	}
	return resp, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Compensates every stock movement and removes what is still owed from the
// party balance. Allocations stay in place; the invoice is terminal afterwards.

func (s *facturaService) Anular(ctx context.Context, usuarioID, id uuid.UUID) (*dto.FacturaResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
		}
		if f.Estado == model.EstadoAnulada {
			return apperror.State("factura_anulada", "la factura %s ya está anulada", f.Numero)
		}

		if err := s.revertirStockTx(tx, usuarioID, f, "Anulación"); err != nil {
			return err
		}
		if pendiente := f.SaldoPendiente(); pendiente > 0 {
			if err := s.parteRepo.AjustarSaldoTx(tx, f.Contraparte(), -pendiente); err != nil {
				return err
			}
		}
		return s.repo.UpdateEstadoTx(tx, f.ID, model.EstadoAnulada)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *facturaService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, "factura_no_encontrada", "factura no encontrada")
		}
		if f.Estado == model.EstadoPagada {
			return apperror.State("factura_pagada", "la factura %s está pagada y no puede eliminarse", f.Numero)
		}
		n, err := s.repo.CountAsignacionesTx(tx, f.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.State("factura_con_pagos", "la factura %s tiene %d pago(s) asignado(s); desasígnelos primero", f.Numero, n)
		}

		if f.Estado != model.EstadoAnulada {
			if err := s.revertirStockTx(tx, usuarioID, f, "Eliminación"); err != nil {
				return err
			}
			if err := s.parteRepo.AjustarSaldoTx(tx, f.Contraparte(), -f.Total); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, f.ID)
	})
}

func (s *facturaService) revertirStockTx(tx *gorm.DB, usuarioID uuid.UUID, f *model.Factura, motivo string) error {
	tipo, origen := model.StockEntrada, model.OrigenFacturaCompra
	if f.Tipo == model.FacturaVenta {
		tipo, origen = model.StockSalida, model.OrigenFacturaVenta
	}
	ref := motivo + " " + referenciaFactura(f)
	for _, d := range f.Detalles {
		_, err := s.stock.RegistrarMovimientoTx(tx, MovimientoStockInput{
			ProductoID: d.ProductoID,
			Tipo:       tipo.Inversa(),
			Origen:     origen,
			Cantidad:   d.Cantidad,
			Referencia: &ref,
			UsuarioID:  usuarioID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ── Máquina de estados ────────────────────────────────────────────────────────

func (s *facturaService) RecalcularEstadoTx(tx *gorm.DB, f *model.Factura) (model.EstadoFactura, error) {
	pagado, err := s.repo.SumAsignadoTx(tx, f.ID)
	if err != nil {
		return f.Estado, err
	}
	saldo := f.Total - pagado
	if saldo < 0 {
		return f.Estado, apperror.Consistency("saldo_negativo",
			"la factura %s quedaría con saldo pendiente negativo (%d)", f.Numero, saldo)
	}
	if f.Estado == model.EstadoAnulada {
		return f.Estado, nil
	}
	nuevo := model.EstadoSegunSaldo(saldo)
	if nuevo != f.Estado {
		if err := s.repo.UpdateEstadoTx(tx, f.ID, nuevo); err != nil {
			return f.Estado, err
		}
		f.Estado = nuevo
	}
	return nuevo, nil
}

// RecalcularEstados walks every non-void invoice, one transaction each.
func (s *facturaService) RecalcularEstados(ctx context.Context) (*dto.RecalculoEstadosResponse, error) {
	ids, err := s.repo.ListIDsNoAnuladas(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.RecalculoEstadosResponse{}
	for _, id := range ids {
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			f, err := s.repo.FindForUpdateTx(tx, id)
			if err != nil {
				return err
			}
			antes := f.Estado
			despues, err := s.RecalcularEstadoTx(tx, f)
			if err != nil {
				return err
			}
			if antes != despues {
				resp.Modificadas++
				log.Info().Str("factura", f.Numero).Str("antes", string(antes)).Str("despues", string(despues)).Msg("factura: estado corregido")
			}
			return nil
		})
		if err != nil {
			return resp, err
		}
		resp.Revisadas++
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func contraparteDeRequest(tipo model.TipoFactura, proveedorID, clienteID *string) (model.Contraparte, error) {
	raw := clienteID
	if tipo == model.FacturaCompra {
		raw = proveedorID
	}
	parte := tipo.TipoParte()
	if raw == nil || *raw == "" {
		return model.Contraparte{}, apperror.Validation(string(parte)+"_requerido", "una factura de %s requiere %s_id", tipo, parte)
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return model.Contraparte{}, apperror.Validation(string(parte)+"_id_invalido", "%s_id inválido", parte)
	}
	return model.Contraparte{Tipo: parte, ID: id}, nil
}

func referenciaFactura(f *model.Factura) string {
	return fmt.Sprintf("Factura %s %s", f.Tipo, f.Numero)
}

func facturaToResponse(f *model.Factura, detalle bool) *dto.FacturaResponse {
	c := f.Contraparte()
	r := &dto.FacturaResponse{
		ID:               f.ID.String(),
		Tipo:             string(f.Tipo),
		Numero:           f.Numero,
		Fecha:            f.Fecha,
		ContraparteTipo:  string(c.Tipo),
		ContraparteID:    c.ID.String(),
		Contraparte:      f.NombreContraparte(),
		Subtotal:         f.Subtotal,
		IVA:              f.IVA,
		Total:            f.Total,
		TotalPagado:      f.TotalPagado(),
		SaldoPendiente:   f.SaldoPendiente(),
		PorcentajePagado: f.PorcentajePagado(),
		Estado:           string(f.Estado),
		Observacion:      f.Observacion,
	}
	if !detalle {
		return r
	}
	for _, d := range f.Detalles {
		dr := dto.DetalleFacturaResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			TasaIVA:        d.TasaIVA,
			Subtotal:       d.Subtotal,
			IVA:            d.IVA,
			Total:          d.Total,
		}
		if d.Producto != nil {
			dr.Producto = d.Producto.Nombre
		}
		r.Detalles = append(r.Detalles, dr)
	}
	for _, a := range f.Asignaciones {
		r.Asignaciones = append(r.Asignaciones, asignacionToResumen(&a, f.Numero))
	}
	return r
}

func asignacionToResumen(a *model.PagoFactura, numero string) dto.AsignacionResumen {
	return dto.AsignacionResumen{
		ID:              a.ID.String(),
		PagoID:          a.PagoID.String(),
		FacturaID:       a.FacturaID.String(),
		NumeroFactura:   numero,
		Monto:           a.Monto,
		FechaAsignacion: a.FechaAsignacion,
	}
}
