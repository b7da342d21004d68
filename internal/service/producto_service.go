package service

import (
	"context"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

// ProductoDefaults are applied when a create request leaves a field empty.
type ProductoDefaults struct {
	IVA         int
	StockMinimo int
}

type productoService struct {
	repo     repository.ProductoRepository
	stock    StockService
	defaults ProductoDefaults
}

func NewProductoService(repo repository.ProductoRepository, stock StockService, defaults ProductoDefaults) ProductoService {
	if defaults.IVA != model.IVA5 {
		defaults.IVA = model.IVA10
	}
	return &productoService{repo: repo, stock: stock, defaults: defaults}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Stock never gets written directly: the initial quantity is an "inicial"
// ledger entry in the same transaction as the product row.

func (s *productoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Costo:       req.Costo,
		Precio:      req.Precio,
		StockMinimo: s.defaults.StockMinimo,
		IVA:         s.defaults.IVA,
		Activo:      true,
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.IVA != nil {
		p.IVA = *req.IVA
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			if esDuplicado(err) {
				return apperror.Validation("codigo_duplicado", "ya existe un producto con el código %s", req.Codigo)
			}
			return err
		}
		mov, err := s.stock.RegistrarMovimientoTx(tx, MovimientoStockInput{
			ProductoID: p.ID,
			Tipo:       model.StockInicial,
			Origen:     model.OrigenInicial,
			Cantidad:   req.Stock,
			UsuarioID:  usuarioID,
		})
		if err != nil {
			return err
		}
		p.Stock = mov.StockNuevo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto_no_encontrado", "producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.Limit > 0 {
		resp.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Stock is not editable here; use the adjustment endpoint.

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto_no_encontrado", "producto no encontrado")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Costo != nil {
		p.Costo = *req.Costo
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.IVA != nil {
		p.IVA = *req.IVA
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "producto_no_encontrado", "producto no encontrado")
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Costo:       p.Costo,
		Precio:      p.Precio,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		IVA:         p.IVA,
		Activo:      p.Activo,
	}
}
