package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tasas de IVA admitidas por producto.
const (
	IVA5  = 5
	IVA10 = 10
)

// Producto is a sellable item. Stock is only written by the stock ledger;
// every change leaves a MovimientoStock behind.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Nombre      string    `gorm:"type:varchar(200);index;not null"`
	Descripcion *string
	Costo       int64 `gorm:"not null"`
	Precio      int64 `gorm:"not null"`
	Stock       int   `gorm:"not null"`
	StockMinimo int   `gorm:"not null"`
	IVA         int   `gorm:"column:iva;not null"`
	Activo      bool  `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// StockBajo reports whether the product is at or below its reorder threshold
// while still having units on hand.
func (p *Producto) StockBajo() bool {
	return p.Stock > 0 && p.Stock <= p.StockMinimo
}
