package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "efectivo"
	MetodoTransferencia MetodoPago = "transferencia"
	MetodoCheque        MetodoPago = "cheque"
)

// Pago is a fixed amount of money received from a Cliente or paid to a
// Proveedor. It is spread over invoices through PagoFactura rows.
type Pago struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Fecha       time.Time  `gorm:"not null;index"`
	MontoTotal  int64      `gorm:"not null"`
	Metodo      MetodoPago `gorm:"type:varchar(20);not null"`
	Referencia  *string    `gorm:"type:varchar(50)"`
	Observacion *string
	UsuarioID   uuid.UUID  `gorm:"type:uuid;not null"`
	ProveedorID *uuid.UUID `gorm:"type:uuid;index"`
	ClienteID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time

	Asignaciones []PagoFactura `gorm:"foreignKey:PagoID"`
	Proveedor    *Proveedor    `gorm:"foreignKey:ProveedorID"`
	Cliente      *Cliente      `gorm:"foreignKey:ClienteID"`
}

func (Pago) TableName() string { return "pagos" }

func (p *Pago) BeforeCreate(_ *gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// Contraparte returns the party the payment is bound to, if any.
func (p *Pago) Contraparte() (Contraparte, bool) {
	switch {
	case p.ProveedorID != nil:
		return Contraparte{Tipo: ParteProveedor, ID: *p.ProveedorID}, true
	case p.ClienteID != nil:
		return Contraparte{Tipo: ParteCliente, ID: *p.ClienteID}, true
	}
	return Contraparte{}, false
}

// SetContraparte binds the payment to c, clearing the other side.
func (p *Pago) SetContraparte(c Contraparte) {
	id := c.ID
	p.ProveedorID, p.ClienteID = nil, nil
	if c.Tipo == ParteProveedor {
		p.ProveedorID = &id
	} else {
		p.ClienteID = &id
	}
}

func (p *Pago) MontoAsignado() int64 {
	var total int64
	for _, a := range p.Asignaciones {
		total += a.Monto
	}
	return total
}

func (p *Pago) MontoDisponible() int64 { return p.MontoTotal - p.MontoAsignado() }

// PagoFactura is the allocation of part of a Pago to one Factura.
// At most one row exists per (pago, factura).
type PagoFactura struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PagoID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pagos_facturas_pago_factura"`
	FacturaID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pagos_facturas_pago_factura;index"`
	Monto           int64     `gorm:"not null"`
	FechaAsignacion time.Time `gorm:"not null"`

	Factura *Factura `gorm:"foreignKey:FacturaID"`
	Pago    *Pago    `gorm:"foreignKey:PagoID"`
}

func (PagoFactura) TableName() string { return "pagos_facturas" }

func (a *PagoFactura) BeforeCreate(_ *gorm.DB) error {
	asignarID(&a.ID)
	if a.FechaAsignacion.IsZero() {
		a.FechaAsignacion = time.Now().UTC()
	}
	return nil
}
