package repository

import (
	"context"

	"avicola/internal/dto"
	"avicola/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contacto is the subset of a party needed to notify it.
type Contacto struct {
	Nombre string
	Email  *string
	Activo bool
}

// ParteRepository covers proveedores and clientes. Both tables share the same
// shape, so the balance and contact queries address them through a Contraparte.
type ParteRepository interface {
	CreateProveedor(ctx context.Context, p *model.Proveedor) error
	FindProveedorByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	ListProveedores(ctx context.Context, filter dto.ParteFilter) ([]model.Proveedor, int64, error)
	UpdateProveedor(ctx context.Context, p *model.Proveedor) error

	CreateCliente(ctx context.Context, c *model.Cliente) error
	FindClienteByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ListClientes(ctx context.Context, filter dto.ParteFilter) ([]model.Cliente, int64, error)
	UpdateCliente(ctx context.Context, c *model.Cliente) error

	// ContactoTx returns gorm.ErrRecordNotFound when the party does not exist.
	ContactoTx(tx *gorm.DB, c model.Contraparte) (*Contacto, error)
	// AjustarSaldoTx adds delta to the party's saldo in a single UPDATE.
	AjustarSaldoTx(tx *gorm.DB, c model.Contraparte, delta int64) error
	SaldoTx(tx *gorm.DB, c model.Contraparte) (int64, error)

	DB() *gorm.DB
}

type parteRepo struct{ db *gorm.DB }

func NewParteRepository(db *gorm.DB) ParteRepository { return &parteRepo{db: db} }

func (r *parteRepo) DB() *gorm.DB { return r.db }

// ── Proveedores ──────────────────────────────────────────────────────────────

func (r *parteRepo) CreateProveedor(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *parteRepo) FindProveedorByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *parteRepo) ListProveedores(ctx context.Context, filter dto.ParteFilter) ([]model.Proveedor, int64, error) {
	q := filtrarPartes(r.db.WithContext(ctx).Model(&model.Proveedor{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(filter.Page, filter.Limit, 20, 100)
	var proveedores []model.Proveedor
	err := q.Order("nombre ASC").Offset(offset).Limit(limit).Find(&proveedores).Error
	return proveedores, total, err
}

func (r *parteRepo) UpdateProveedor(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Model(p).Select(columnasEditablesParte).Updates(p).Error
}

// ── Clientes ─────────────────────────────────────────────────────────────────

func (r *parteRepo) CreateCliente(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *parteRepo) FindClienteByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *parteRepo) ListClientes(ctx context.Context, filter dto.ParteFilter) ([]model.Cliente, int64, error) {
	q := filtrarPartes(r.db.WithContext(ctx).Model(&model.Cliente{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(filter.Page, filter.Limit, 20, 100)
	var clientes []model.Cliente
	err := q.Order("nombre ASC").Offset(offset).Limit(limit).Find(&clientes).Error
	return clientes, total, err
}

func (r *parteRepo) UpdateCliente(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Model(c).Select(columnasEditablesParte).Updates(c).Error
}

// saldo is written only by AjustarSaldoTx.
var columnasEditablesParte = []string{"nombre", "direccion", "telefono", "email", "activo", "updated_at"}

func filtrarPartes(q *gorm.DB, filter dto.ParteFilter) *gorm.DB {
	q = q.Where("activo = ?", true)
	if filter.Nombre != "" {
		q = q.Where("LOWER(nombre) LIKE LOWER(?)", "%"+filter.Nombre+"%")
	}
	if filter.ConSaldo {
		q = q.Where("saldo <> 0")
	}
	return q
}

// ── Saldo ────────────────────────────────────────────────────────────────────

func (r *parteRepo) ContactoTx(tx *gorm.DB, c model.Contraparte) (*Contacto, error) {
	var rows []Contacto
	err := tx.Table(c.Tabla()).
		Select("nombre, email, activo").
		Where("id = ?", c.ID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *parteRepo) AjustarSaldoTx(tx *gorm.DB, c model.Contraparte, delta int64) error {
	res := tx.Table(c.Tabla()).
		Where("id = ?", c.ID).
		Update("saldo", gorm.Expr("saldo + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *parteRepo) SaldoTx(tx *gorm.DB, c model.Contraparte) (int64, error) {
	var saldos []int64
	if err := tx.Table(c.Tabla()).Where("id = ?", c.ID).Limit(1).Pluck("saldo", &saldos).Error; err != nil {
		return 0, err
	}
	if len(saldos) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return saldos[0], nil
}
