package service

import (
	"context"
	"fmt"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/metrics"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MovimientoStockInput describes one ledger entry to append.
type MovimientoStockInput struct {
	ProductoID  uuid.UUID
	Tipo        model.TipoMovimientoStock
	Origen      model.OrigenMovimientoStock
	Cantidad    int
	Referencia  *string
	Observacion *string
	UsuarioID   uuid.UUID
}

type StockService interface {
	// RegistrarMovimientoTx appends the ledger entry and then writes the
	// resulting stock to the product. It does not check for negative stock.
	RegistrarMovimientoTx(tx *gorm.DB, in MovimientoStockInput) (*model.MovimientoStock, error)
	Ajustar(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjusteStockRequest) (*dto.AjusteStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error)
}

type stockService struct {
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoStockRepository
	notifRepo    repository.NotificacionRepository
	metrics      *metrics.Metrics
}

func NewStockService(
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
	notifRepo repository.NotificacionRepository,
	m *metrics.Metrics,
) StockService {
	return &stockService{productoRepo: productoRepo, movRepo: movRepo, notifRepo: notifRepo, metrics: m}
}

// ── RegistrarMovimientoTx ─────────────────────────────────────────────────────

func (s *stockService) RegistrarMovimientoTx(tx *gorm.DB, in MovimientoStockInput) (*model.MovimientoStock, error) {
	switch in.Tipo {
	case model.StockEntrada, model.StockSalida:
		if in.Cantidad <= 0 {
			return nil, apperror.Validation("cantidad_invalida", "la cantidad debe ser mayor a cero")
		}
	case model.StockAjuste, model.StockInicial:
		if in.Cantidad < 0 {
			return nil, apperror.Validation("cantidad_invalida", "la cantidad no puede ser negativa")
		}
	default:
		return nil, apperror.Validation("tipo_invalido", "tipo de movimiento %q no válido", in.Tipo)
	}

	p, err := s.productoRepo.FindForUpdateTx(tx, in.ProductoID)
	if err != nil {
		return nil, noEncontrado(err, "producto_no_encontrado", "producto no encontrado")
	}

	mov := &model.MovimientoStock{
		ProductoID:    p.ID,
		Tipo:          in.Tipo,
		Origen:        in.Origen,
		Cantidad:      in.Cantidad,
		StockAnterior: p.Stock,
		StockNuevo:    in.Tipo.Aplicar(p.Stock, in.Cantidad),
		Referencia:    in.Referencia,
		Observacion:   in.Observacion,
		UsuarioID:     in.UsuarioID,
	}
	if err := s.movRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	if err := s.productoRepo.UpdateStockTx(tx, p.ID, mov.StockNuevo); err != nil {
		return nil, err
	}
	p.Stock = mov.StockNuevo
	mov.Producto = p

	s.metrics.MovimientoStock(string(mov.Tipo), string(mov.Origen))
	return mov, nil
}

// ── Ajustar ───────────────────────────────────────────────────────────────────
// Manual adjustment from the inventory screen. Unlike the ledger primitive it
// refuses to take stock below zero.

func (s *stockService) Ajustar(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjusteStockRequest) (*dto.AjusteStockResponse, error) {
	origen := model.OrigenAjusteManual
	if req.Origen != "" {
		origen = model.OrigenMovimientoStock(req.Origen)
	}

	var mov *model.MovimientoStock
	err := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		p, err := s.productoRepo.FindForUpdateTx(tx, productoID)
		if err != nil {
			return noEncontrado(err, "producto_no_encontrado", "producto no encontrado")
		}
		tipo := model.TipoMovimientoStock(req.Tipo)
		if tipo == model.StockSalida && p.Stock < req.Cantidad {
			return apperror.Validation("stock_insuficiente",
				"stock insuficiente para %s: disponible %d, solicitado %d", p.Nombre, p.Stock, req.Cantidad)
		}
		mov, err = s.RegistrarMovimientoTx(tx, MovimientoStockInput{
			ProductoID:  productoID,
			Tipo:        tipo,
			Origen:      origen,
			Cantidad:    req.Cantidad,
			Referencia:  req.Referencia,
			Observacion: req.Observacion,
			UsuarioID:   usuarioID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	p := mov.Producto
	bajo := p.Stock <= p.StockMinimo
	if bajo && s.notifRepo != nil {
		n := model.Notificacion{
			Mensaje:   fmt.Sprintf("Stock bajo: %s (%s) quedó en %d unidades, mínimo %d", p.Nombre, p.Codigo, p.Stock, p.StockMinimo),
			Tipo:      "warning",
			UsuarioID: &usuarioID,
		}
		if err := s.notifRepo.CreateBatch(ctx, []model.Notificacion{n}); err != nil {
			log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("stock: no se pudo registrar notificación de stock bajo")
		}
	}

	return &dto.AjusteStockResponse{
		Movimiento: movimientoStockToResponse(mov),
		StockBajo:  bajo,
	}, nil
}

// ── ListarMovimientos ─────────────────────────────────────────────────────────

func (s *stockService) ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error) {
	f := repository.MovimientoStockFilter{
		Tipo:   filter.Tipo,
		Origen: filter.Origen,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, apperror.Validation("producto_id_invalido", "producto_id inválido")
		}
		f.ProductoID = &id
	}

	movs, total, err := s.movRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovimientoStockListResponse{
		Data:  make([]dto.MovimientoStockResponse, 0, len(movs)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movs {
		resp.Data = append(resp.Data, movimientoStockToResponse(&movs[i]))
	}
	return resp, nil
}

func movimientoStockToResponse(m *model.MovimientoStock) dto.MovimientoStockResponse {
	r := dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          string(m.Tipo),
		Origen:        string(m.Origen),
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Referencia:    m.Referencia,
		Observacion:   m.Observacion,
		UsuarioID:     m.UsuarioID.String(),
		CreatedAt:     m.CreatedAt,
	}
	if m.Producto != nil {
		r.ProductoNombre = m.Producto.Nombre
	}
	return r
}
