package repository

import (
	"context"
	"errors"
	"time"

	"avicola/internal/dto"
	"avicola/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CajaRepository interface {
	CreateTx(tx *gorm.DB, c *model.Caja) error
	CreateDenominacionesTx(tx *gorm.DB, ds []model.Denominacion) error
	UpdateTx(tx *gorm.DB, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	// FindUltimaCerrada returns the most recent closed session with its
	// closing denominations.
	FindUltimaCerrada(ctx context.Context) (*model.Caja, error)
	Historial(ctx context.Context, page, limit int) ([]model.Caja, int64, error)
	ListAbiertasAntesDe(ctx context.Context, fecha datatypes.Date) ([]model.Caja, error)
	ListPorPeriodo(ctx context.Context, desde, hasta datatypes.Date) ([]model.Caja, error)

	// Used inside transactions; callers must pass the tx instance
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Caja, error)
	FindByFechaTx(tx *gorm.DB, fecha datatypes.Date) (*model.Caja, error)
	// FindAbiertaTx returns any open session.
	FindAbiertaTx(tx *gorm.DB) (*model.Caja, error)
	// FindActivaTx locks the open session for fecha. With fallback it settles
	// for the most recent open session when that day has none.
	FindActivaTx(tx *gorm.DB, fecha datatypes.Date, fallback bool) (*model.Caja, error)

	// ── Movimientos ──────────────────────────────────────────────────────────
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, cajaID uuid.UUID) ([]model.MovimientoCaja, error)
	// TotalesTx returns Σ ingresos and Σ egresos of a session.
	TotalesTx(tx *gorm.DB, cajaID uuid.UUID) (ingresos, egresos int64, err error)
	TotalesPorCategoria(ctx context.Context, cajaIDs []uuid.UUID) ([]dto.TotalCategoria, error)

	// ── Gastos ───────────────────────────────────────────────────────────────
	CreateGastoTx(tx *gorm.DB, g *model.Gasto) error
	FindGastoTx(tx *gorm.DB, id uuid.UUID) (*model.Gasto, error)
	UpdateGastoTx(tx *gorm.DB, g *model.Gasto) error
	DeleteGastoTx(tx *gorm.DB, id uuid.UUID) error
	ListGastos(ctx context.Context, cajaID uuid.UUID) ([]model.Gasto, error)
	GastosPorCategoria(ctx context.Context, cajaIDs []uuid.UUID) ([]dto.TotalCategoria, error)
	TopGastos(ctx context.Context, cajaIDs []uuid.UUID, n int) ([]dto.GastoTop, error)

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) CreateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Omit("Denominaciones", "Movimientos", "Gastos").Create(c).Error
}

func (r *cajaRepo) CreateDenominacionesTx(tx *gorm.DB, ds []model.Denominacion) error {
	if len(ds) == 0 {
		return nil
	}
	return tx.Create(&ds).Error
}

func (r *cajaRepo) UpdateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Omit("Denominaciones", "Movimientos", "Gastos").Save(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("Denominaciones", func(db *gorm.DB) *gorm.DB { return db.Order("valor DESC") }).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cajaRepo) FindUltimaCerrada(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("Denominaciones", "es_cierre = ?", true).
		Where("cerrada = ?", true).
		Order("fecha DESC").
		First(&c).Error
	return &c, err
}

func (r *cajaRepo) Historial(ctx context.Context, page, limit int) ([]model.Caja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Caja{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(page, limit, 30, 365)
	var cajas []model.Caja
	err := q.Order("fecha DESC").Offset(offset).Limit(limit).Find(&cajas).Error
	return cajas, total, err
}

func (r *cajaRepo) ListAbiertasAntesDe(ctx context.Context, fecha datatypes.Date) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).
		Where("cerrada = ? AND fecha < ?", false, fecha).
		Order("fecha ASC").
		Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) ListPorPeriodo(ctx context.Context, desde, hasta datatypes.Date) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha <= ?", desde, hasta).
		Order("fecha ASC").
		Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := forUpdate(tx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cajaRepo) FindByFechaTx(tx *gorm.DB, fecha datatypes.Date) (*model.Caja, error) {
	var c model.Caja
	err := tx.Where("fecha = ?", fecha).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindAbiertaTx(tx *gorm.DB) (*model.Caja, error) {
	var c model.Caja
	err := tx.Where("cerrada = ?", false).Order("fecha DESC").First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindActivaTx(tx *gorm.DB, fecha datatypes.Date, fallback bool) (*model.Caja, error) {
	var c model.Caja
	err := forUpdate(tx).Where("fecha = ? AND cerrada = ?", fecha, false).First(&c).Error
	if err == nil || !fallback || !errors.Is(err, gorm.ErrRecordNotFound) {
		return &c, err
	}
	c = model.Caja{}
	err = forUpdate(tx).Where("cerrada = ?", false).Order("fecha DESC").First(&c).Error
	return &c, err
}

// ── Movimientos ──────────────────────────────────────────────────────────────

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, cajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) TotalesTx(tx *gorm.DB, cajaID uuid.UUID) (int64, int64, error) {
	var filas []struct {
		Tipo  model.TipoMovimientoCaja
		Total int64
	}
	err := tx.Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("caja_id = ?", cajaID).
		Group("tipo").
		Scan(&filas).Error
	if err != nil {
		return 0, 0, err
	}
	var ingresos, egresos int64
	for _, f := range filas {
		switch f.Tipo {
		case model.CajaIngreso:
			ingresos = f.Total
		case model.CajaEgreso:
			egresos = f.Total
		}
	}
	return ingresos, egresos, nil
}

func (r *cajaRepo) TotalesPorCategoria(ctx context.Context, cajaIDs []uuid.UUID) ([]dto.TotalCategoria, error) {
	totales := []dto.TotalCategoria{}
	if len(cajaIDs) == 0 {
		return totales, nil
	}
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, categoria, SUM(monto) AS total, COUNT(*) AS cantidad").
		Where("caja_id IN ?", cajaIDs).
		Group("tipo, categoria").
		Order("tipo, categoria").
		Scan(&totales).Error
	return totales, err
}

// ── Gastos ───────────────────────────────────────────────────────────────────

func (r *cajaRepo) CreateGastoTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *cajaRepo) FindGastoTx(tx *gorm.DB, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := tx.First(&g, "id = ?", id).Error
	return &g, err
}

func (r *cajaRepo) UpdateGastoTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Save(g).Error
}

func (r *cajaRepo) DeleteGastoTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&model.Gasto{}).Error
}

func (r *cajaRepo) ListGastos(ctx context.Context, cajaID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("created_at ASC").Find(&gastos).Error
	return gastos, err
}

func (r *cajaRepo) GastosPorCategoria(ctx context.Context, cajaIDs []uuid.UUID) ([]dto.TotalCategoria, error) {
	totales := []dto.TotalCategoria{}
	if len(cajaIDs) == 0 {
		return totales, nil
	}
	err := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Select("'egreso' AS tipo, categoria, SUM(monto) AS total, COUNT(*) AS cantidad").
		Where("caja_id IN ?", cajaIDs).
		Group("categoria").
		Order("total DESC").
		Scan(&totales).Error
	return totales, err
}

func (r *cajaRepo) TopGastos(ctx context.Context, cajaIDs []uuid.UUID, n int) ([]dto.GastoTop, error) {
	top := []dto.GastoTop{}
	if len(cajaIDs) == 0 {
		return top, nil
	}
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("caja_id IN ?", cajaIDs).
		Order("monto DESC, created_at ASC").
		Limit(n).
		Find(&gastos).Error
	if err != nil {
		return nil, err
	}
	for _, g := range gastos {
		top = append(top, dto.GastoTop{
			ID:          g.ID.String(),
			Fecha:       g.CreatedAt.In(time.UTC),
			Categoria:   string(g.Categoria),
			Descripcion: g.Descripcion,
			Monto:       g.Monto,
		})
	}
	return top, nil
}
