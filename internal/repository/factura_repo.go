package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"avicola/internal/dto"
	"avicola/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacturaRepository interface {
	// NextNumeroTx returns max(numero)+1 for the invoice type, zero-padded to 6.
	NextNumeroTx(tx *gorm.DB, tipo model.TipoFactura) (string, error)
	CreateTx(tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)

	// ListPendientesPorParte returns the party's pendiente invoices oldest first
	// (fecha, then numero). Anuladas are never included.
	ListPendientesPorParte(ctx context.Context, c model.Contraparte) ([]model.Factura, error)
	// ListVencidas returns pendiente invoices dated before limite.
	ListVencidas(ctx context.Context, limite time.Time) ([]model.Factura, error)
	// ListIDsNoAnuladas feeds the batch status recalculation.
	ListIDsNoAnuladas(ctx context.Context) ([]uuid.UUID, error)

	// Used inside transactions; callers must pass the tx instance
	// FindForUpdateTx locks the invoice row and loads its lines and allocations.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	SumAsignadoTx(tx *gorm.DB, facturaID uuid.UUID) (int64, error)
	CountAsignacionesTx(tx *gorm.DB, facturaID uuid.UUID) (int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoFactura) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) NextNumeroTx(tx *gorm.DB, tipo model.TipoFactura) (string, error) {
	var numeros []string
	err := tx.Model(&model.Factura{}).
		Where("tipo = ?", tipo).
		// numero is text; longer means larger once past six digits
		Order("LENGTH(numero) DESC, numero DESC").
		Limit(1).
		Pluck("numero", &numeros).Error
	if err != nil {
		return "", err
	}
	siguiente := 1
	if len(numeros) > 0 {
		n, err := strconv.Atoi(numeros[0])
		if err != nil {
			return "", fmt.Errorf("numero de factura no numerico %q: %w", numeros[0], err)
		}
		siguiente = n + 1
	}
	return fmt.Sprintf("%06d", siguiente), nil
}

func (r *facturaRepo) CreateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Asignaciones").
		Preload("Proveedor").
		Preload("Cliente").
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Factura{})

	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Desde != nil {
		q = q.Where("fecha >= ?", filter.Desde.UTC())
	}
	if filter.Hasta != nil {
		q = q.Where("fecha < ?", filter.Hasta.UTC().AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 20, 100)
	var facturas []model.Factura
	err := q.Preload("Asignaciones").Preload("Proveedor").Preload("Cliente").
		Order("fecha DESC, numero DESC").
		Offset(offset).Limit(limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) ListPendientesPorParte(ctx context.Context, c model.Contraparte) ([]model.Factura, error) {
	q := r.db.WithContext(ctx).Where("estado = ?", model.EstadoPendiente)
	if c.Tipo == model.ParteProveedor {
		q = q.Where("tipo = ? AND proveedor_id = ?", model.FacturaCompra, c.ID)
	} else {
		q = q.Where("tipo = ? AND cliente_id = ?", model.FacturaVenta, c.ID)
	}
	var facturas []model.Factura
	err := q.Preload("Asignaciones").Order("fecha ASC, numero ASC").Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) ListVencidas(ctx context.Context, limite time.Time) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha < ?", model.EstadoPendiente, limite.UTC()).
		Preload("Asignaciones").Preload("Proveedor").Preload("Cliente").
		Order("fecha ASC").
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) ListIDsNoAnuladas(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("estado <> ?", model.EstadoAnulada).
		Order("fecha ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *facturaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	if err := forUpdate(tx).First(&f, "id = ?", id).Error; err != nil {
		return &f, err
	}
	if err := tx.Where("factura_id = ?", f.ID).Find(&f.Detalles).Error; err != nil {
		return &f, err
	}
	err := tx.Where("factura_id = ?", f.ID).Find(&f.Asignaciones).Error
	return &f, err
}

func (r *facturaRepo) SumAsignadoTx(tx *gorm.DB, facturaID uuid.UUID) (int64, error) {
	var total int64
	err := tx.Model(&model.PagoFactura{}).
		Where("factura_id = ?", facturaID).
		Select("COALESCE(SUM(monto), 0)").
		Scan(&total).Error
	return total, err
}

func (r *facturaRepo) CountAsignacionesTx(tx *gorm.DB, facturaID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.PagoFactura{}).Where("factura_id = ?", facturaID).Count(&n).Error
	return n, err
}

func (r *facturaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoFactura) error {
	return tx.Model(&model.Factura{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *facturaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("factura_id = ?", id).Delete(&model.DetalleFactura{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&model.Factura{}).Error
}
