package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TipoFactura string

const (
	FacturaCompra TipoFactura = "compra"
	FacturaVenta  TipoFactura = "venta"
)

// TipoParte returns the kind of counterparty an invoice of this type belongs to.
func (t TipoFactura) TipoParte() TipoParte {
	if t == FacturaCompra {
		return ParteProveedor
	}
	return ParteCliente
}

func (t TipoFactura) Valido() bool { return t == FacturaCompra || t == FacturaVenta }

type EstadoFactura string

const (
	EstadoPendiente EstadoFactura = "pendiente"
	EstadoPagada    EstadoFactura = "pagada"
	EstadoAnulada   EstadoFactura = "anulada"
)

// EstadoSegunSaldo derives pendiente/pagada from a pending balance.
// Anulada is never derived; it is set explicitly and is terminal.
func EstadoSegunSaldo(saldoPendiente int64) EstadoFactura {
	if saldoPendiente <= 0 {
		return EstadoPagada
	}
	return EstadoPendiente
}

// Factura is a purchase (compra, owned by a Proveedor) or a sale (venta, owned
// by a Cliente). Exactly one of ProveedorID / ClienteID is set, according to Tipo.
type Factura struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Tipo        TipoFactura   `gorm:"type:varchar(10);not null;uniqueIndex:idx_facturas_tipo_numero"`
	Numero      string        `gorm:"type:varchar(20);not null;uniqueIndex:idx_facturas_tipo_numero"`
	Fecha       time.Time     `gorm:"not null;index"`
	ProveedorID *uuid.UUID    `gorm:"type:uuid;index"`
	ClienteID   *uuid.UUID    `gorm:"type:uuid;index"`
	Subtotal    int64         `gorm:"not null"`
	IVA         int64         `gorm:"column:iva;not null"`
	Total       int64         `gorm:"not null"`
	Estado      EstadoFactura `gorm:"type:varchar(10);not null;index"`
	Observacion *string
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Detalles     []DetalleFactura `gorm:"foreignKey:FacturaID"`
	Asignaciones []PagoFactura    `gorm:"foreignKey:FacturaID"`
	Proveedor    *Proveedor       `gorm:"foreignKey:ProveedorID"`
	Cliente      *Cliente         `gorm:"foreignKey:ClienteID"`
}

func (Factura) TableName() string { return "facturas" }

func (f *Factura) BeforeCreate(_ *gorm.DB) error {
	asignarID(&f.ID)
	return nil
}

// Contraparte resolves the owning party from the invoice type.
func (f *Factura) Contraparte() Contraparte {
	if f.Tipo == FacturaCompra && f.ProveedorID != nil {
		return Contraparte{Tipo: ParteProveedor, ID: *f.ProveedorID}
	}
	if f.ClienteID != nil {
		return Contraparte{Tipo: ParteCliente, ID: *f.ClienteID}
	}
	return Contraparte{Tipo: f.Tipo.TipoParte()}
}

// NombreContraparte returns the loaded party's name, or "".
func (f *Factura) NombreContraparte() string {
	switch {
	case f.Proveedor != nil:
		return f.Proveedor.Nombre
	case f.Cliente != nil:
		return f.Cliente.Nombre
	}
	return ""
}

// TotalPagado sums the loaded allocations.
func (f *Factura) TotalPagado() int64 {
	var total int64
	for _, a := range f.Asignaciones {
		total += a.Monto
	}
	return total
}

func (f *Factura) SaldoPendiente() int64 { return f.Total - f.TotalPagado() }

func (f *Factura) PorcentajePagado() decimal.Decimal {
	if f.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.TotalPagado()).
		Div(decimal.NewFromInt(f.Total)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// DetalleFactura is one invoice line. PrecioUnitario includes IVA; Subtotal is
// the net amount, IVA the tax part and Total = Subtotal + IVA.
type DetalleFactura struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	FacturaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad       int       `gorm:"not null"`
	PrecioUnitario int64     `gorm:"not null"`
	TasaIVA        int       `gorm:"not null"`
	Subtotal       int64     `gorm:"not null"`
	IVA            int64     `gorm:"column:iva;not null"`
	Total          int64     `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleFactura) TableName() string { return "detalles_factura" }

func (d *DetalleFactura) BeforeCreate(_ *gorm.DB) error {
	asignarID(&d.ID)
	return nil
}
