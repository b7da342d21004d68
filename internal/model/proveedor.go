package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor is a supplier. Saldo is what the business owes it: it grows with
// every purchase invoice and shrinks with every payment allocated to one.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(200);not null"`
	RUC       string    `gorm:"column:ruc;type:varchar(20);uniqueIndex;not null"`
	Direccion *string
	Telefono  *string
	Email     *string
	Saldo     int64 `gorm:"not null;default:0"`
	Activo    bool  `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(_ *gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// Cliente is a customer. Saldo is the receivable: it grows with every sale
// invoice and shrinks with every payment allocated to one.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(200);not null"`
	RUC       string    `gorm:"column:ruc;type:varchar(20);uniqueIndex;not null"`
	Direccion *string
	Telefono  *string
	Email     *string
	Saldo     int64 `gorm:"not null;default:0"`
	Activo    bool  `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(_ *gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// TipoParte discriminates the counterparty of an invoice or payment.
type TipoParte string

const (
	ParteProveedor TipoParte = "proveedor"
	ParteCliente   TipoParte = "cliente"
)

// Contraparte identifies either a Proveedor or a Cliente.
type Contraparte struct {
	Tipo TipoParte
	ID   uuid.UUID
}

func (c Contraparte) Tabla() string {
	if c.Tipo == ParteProveedor {
		return Proveedor{}.TableName()
	}
	return Cliente{}.TableName()
}
