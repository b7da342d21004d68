package repository

import (
	"context"

	"avicola/internal/dto"
	"avicola/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error)

	// Used inside transactions; callers must pass the tx instance
	// FindForUpdateTx locks the payment row and loads its allocations.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pago, error)
	SetContraparteTx(tx *gorm.DB, p *model.Pago) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// ── Asignaciones ─────────────────────────────────────────────────────────
	FindAsignacionTx(tx *gorm.DB, pagoID, facturaID uuid.UUID) (*model.PagoFactura, error)
	FindAsignacionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.PagoFactura, error)
	ListAsignacionesTx(tx *gorm.DB, pagoID uuid.UUID) ([]model.PagoFactura, error)
	// SumPorFacturaTx sums the allocations to a factura, skipping excluirPago.
	SumPorFacturaTx(tx *gorm.DB, facturaID uuid.UUID, excluirPago *uuid.UUID) (int64, error)
	// SumPorPagoTx sums the allocations of a pago, skipping excluirFactura.
	SumPorPagoTx(tx *gorm.DB, pagoID uuid.UUID, excluirFactura *uuid.UUID) (int64, error)
	CreateAsignacionTx(tx *gorm.DB, a *model.PagoFactura) error
	UpdateAsignacionMontoTx(tx *gorm.DB, id uuid.UUID, monto int64) error
	DeleteAsignacionTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) CreateTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).
		Preload("Asignaciones.Factura").
		Preload("Proveedor").
		Preload("Cliente").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pagoRepo) List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pago{})

	if filter.Metodo != "" {
		q = q.Where("metodo = ?", filter.Metodo)
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
	var pagos []model.Pago
	err := q.Preload("Asignaciones.Factura").Preload("Proveedor").Preload("Cliente").
		Order("fecha DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&pagos).Error
	return pagos, total, err
}

func (r *pagoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	if err := forUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
		return &p, err
	}
	err := tx.Where("pago_id = ?", p.ID).Find(&p.Asignaciones).Error
	return &p, err
}

func (r *pagoRepo) SetContraparteTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Model(&model.Pago{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"proveedor_id": p.ProveedorID,
			"cliente_id":   p.ClienteID,
		}).Error
}

func (r *pagoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&model.Pago{}).Error
}

// ── Asignaciones ─────────────────────────────────────────────────────────────

func (r *pagoRepo) FindAsignacionTx(tx *gorm.DB, pagoID, facturaID uuid.UUID) (*model.PagoFactura, error) {
	var a model.PagoFactura
	err := tx.Where("pago_id = ? AND factura_id = ?", pagoID, facturaID).First(&a).Error
	return &a, err
}

func (r *pagoRepo) FindAsignacionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.PagoFactura, error) {
	var a model.PagoFactura
	err := tx.First(&a, "id = ?", id).Error
	return &a, err
}

func (r *pagoRepo) ListAsignacionesTx(tx *gorm.DB, pagoID uuid.UUID) ([]model.PagoFactura, error) {
	var asignaciones []model.PagoFactura
	err := tx.Where("pago_id = ?", pagoID).Order("fecha_asignacion ASC").Find(&asignaciones).Error
	return asignaciones, err
}

func (r *pagoRepo) SumPorFacturaTx(tx *gorm.DB, facturaID uuid.UUID, excluirPago *uuid.UUID) (int64, error) {
	q := tx.Model(&model.PagoFactura{}).Where("factura_id = ?", facturaID)
	if excluirPago != nil {
		q = q.Where("pago_id <> ?", *excluirPago)
	}
	var total int64
	err := q.Select("COALESCE(SUM(monto), 0)").Scan(&total).Error
	return total, err
}

func (r *pagoRepo) SumPorPagoTx(tx *gorm.DB, pagoID uuid.UUID, excluirFactura *uuid.UUID) (int64, error) {
	q := tx.Model(&model.PagoFactura{}).Where("pago_id = ?", pagoID)
	if excluirFactura != nil {
		q = q.Where("factura_id <> ?", *excluirFactura)
	}
	var total int64
	err := q.Select("COALESCE(SUM(monto), 0)").Scan(&total).Error
	return total, err
}

func (r *pagoRepo) CreateAsignacionTx(tx *gorm.DB, a *model.PagoFactura) error {
	return tx.Create(a).Error
}

func (r *pagoRepo) UpdateAsignacionMontoTx(tx *gorm.DB, id uuid.UUID, monto int64) error {
	return tx.Model(&model.PagoFactura{}).Where("id = ?", id).Update("monto", monto).Error
}

func (r *pagoRepo) DeleteAsignacionTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&model.PagoFactura{}).Error
}
