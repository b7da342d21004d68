package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipoMovimientoStock string

const (
	StockEntrada TipoMovimientoStock = "entrada"
	StockSalida  TipoMovimientoStock = "salida"
	StockAjuste  TipoMovimientoStock = "ajuste"
	StockInicial TipoMovimientoStock = "inicial"
)

// Inversa returns the compensating kind used when an invoice is voided or deleted.
func (t TipoMovimientoStock) Inversa() TipoMovimientoStock {
	switch t {
	case StockEntrada:
		return StockSalida
	case StockSalida:
		return StockEntrada
	}
	return t
}

// Aplicar computes the stock after a movement of this kind.
// entrada adds, salida subtracts, ajuste and inicial set an absolute value.
func (t TipoMovimientoStock) Aplicar(actual, cantidad int) int {
	switch t {
	case StockEntrada:
		return actual + cantidad
	case StockSalida:
		return actual - cantidad
	default:
		return cantidad
	}
}

type OrigenMovimientoStock string

const (
	OrigenFacturaCompra OrigenMovimientoStock = "factura_compra"
	OrigenFacturaVenta  OrigenMovimientoStock = "factura_venta"
	OrigenAjusteManual  OrigenMovimientoStock = "ajuste_manual"
	OrigenInicial       OrigenMovimientoStock = "inicial"
	OrigenDevolucion    OrigenMovimientoStock = "devolucion"
	OrigenMerma         OrigenMovimientoStock = "merma"
)

// MovimientoStock is an immutable stock ledger entry. StockNuevo always became
// the product's stock when the entry was written.
type MovimientoStock struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	Tipo          TipoMovimientoStock   `gorm:"type:varchar(10);not null"`
	Origen        OrigenMovimientoStock `gorm:"type:varchar(20);not null"`
	Cantidad      int                   `gorm:"not null"`
	StockAnterior int                   `gorm:"not null"`
	StockNuevo    int                   `gorm:"not null"`
	Referencia    *string               `gorm:"type:varchar(100)"`
	Observacion   *string
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(_ *gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
