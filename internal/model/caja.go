package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ValoresDenominacion are the bills and coins counted in an arqueo, largest first.
var ValoresDenominacion = []int64{100000, 50000, 20000, 10000, 5000, 2000, 1000, 500, 100, 50}

func EsValorDenominacion(v int64) bool {
	for _, d := range ValoresDenominacion {
		if d == v {
			return true
		}
	}
	return false
}

// Clasificación del desvío de cierre.
const (
	DesvioNormal      = "normal"
	DesvioAdvertencia = "advertencia"
	DesvioCritico     = "critico"
)

// Caja is the cash drawer session of one calendar day.
// SaldoFinal = SaldoInicial + Σ ingresos − Σ egresos, computed at close.
// Diferencia = SaldoReal − SaldoFinal.
type Caja struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Fecha               datatypes.Date   `gorm:"uniqueIndex;not null"`
	SaldoInicial        int64            `gorm:"not null"`
	SaldoFinal          int64            `gorm:"not null;default:0"`
	SaldoReal           int64            `gorm:"not null;default:0"`
	Diferencia          int64            `gorm:"not null;default:0"`
	DiferenciaPct       *decimal.Decimal `gorm:"type:decimal(7,2)"`
	ClasificacionDesvio *string          `gorm:"type:varchar(20)"`
	Observaciones       *string
	Cerrada             bool       `gorm:"not null;default:false;index"`
	UsuarioAperturaID   uuid.UUID  `gorm:"type:uuid;not null"`
	UsuarioCierreID     *uuid.UUID `gorm:"type:uuid"`
	FechaApertura       time.Time  `gorm:"not null"`
	FechaCierre         *time.Time

	Denominaciones []Denominacion   `gorm:"foreignKey:CajaID"`
	Movimientos    []MovimientoCaja `gorm:"foreignKey:CajaID"`
	Gastos         []Gasto          `gorm:"foreignKey:CajaID"`
}

func (Caja) TableName() string { return "cajas" }

func (c *Caja) BeforeCreate(_ *gorm.DB) error {
	asignarID(&c.ID)
	if c.FechaApertura.IsZero() {
		c.FechaApertura = time.Now().UTC()
	}
	return nil
}

// Dia returns the session date as time.Time.
func (c *Caja) Dia() time.Time { return time.Time(c.Fecha) }

// Denominacion is one line of a till count. EsCierre separates the opening
// count from the closing count of the same session.
type Denominacion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CajaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_denominaciones_caja_valor_fase"`
	Valor    int64     `gorm:"not null;uniqueIndex:idx_denominaciones_caja_valor_fase"`
	Cantidad int       `gorm:"not null"`
	EsCierre bool      `gorm:"not null;uniqueIndex:idx_denominaciones_caja_valor_fase"`
}

func (Denominacion) TableName() string { return "denominaciones" }

func (d *Denominacion) BeforeCreate(_ *gorm.DB) error {
	asignarID(&d.ID)
	return nil
}

func (d Denominacion) Subtotal() int64 { return d.Valor * int64(d.Cantidad) }

// SumaDenominaciones is Σ valor × cantidad.
func SumaDenominaciones(ds []Denominacion) int64 {
	var total int64
	for _, d := range ds {
		total += d.Subtotal()
	}
	return total
}

type TipoMovimientoCaja string

const (
	CajaIngreso TipoMovimientoCaja = "ingreso"
	CajaEgreso  TipoMovimientoCaja = "egreso"
)

func (t TipoMovimientoCaja) Opuesto() TipoMovimientoCaja {
	if t == CajaIngreso {
		return CajaEgreso
	}
	return CajaIngreso
}

type CategoriaMovimientoCaja string

const (
	CategoriaVenta         CategoriaMovimientoCaja = "venta"
	CategoriaPagoProveedor CategoriaMovimientoCaja = "pago_proveedor"
	CategoriaGasto         CategoriaMovimientoCaja = "gasto"
	CategoriaRetiro        CategoriaMovimientoCaja = "retiro"
	CategoriaDeposito      CategoriaMovimientoCaja = "deposito"
	CategoriaAjuste        CategoriaMovimientoCaja = "ajuste"
	CategoriaOtro          CategoriaMovimientoCaja = "otro"
)

// MovimientoCaja is an append-only cash ledger entry. Monto is always positive;
// Tipo carries the direction.
type MovimientoCaja struct {
	ID          uuid.UUID               `gorm:"type:uuid;primaryKey"`
	CajaID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	Tipo        TipoMovimientoCaja      `gorm:"type:varchar(10);not null"`
	Categoria   CategoriaMovimientoCaja `gorm:"type:varchar(20);not null"`
	Monto       int64                   `gorm:"not null"`
	Descripcion string                  `gorm:"type:varchar(200);not null"`
	Referencia  *string                 `gorm:"type:varchar(100)"`
	Observacion *string
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

func (m *MovimientoCaja) BeforeCreate(_ *gorm.DB) error {
	asignarID(&m.ID)
	return nil
}

type RubroGasto string

const (
	GastoCombustible   RubroGasto = "combustible"
	GastoMantenimiento RubroGasto = "mantenimiento"
	GastoServicios     RubroGasto = "servicios"
	GastoAlimentacion  RubroGasto = "alimentacion"
	GastoTransporte    RubroGasto = "transporte"
	GastoUtiles        RubroGasto = "utiles"
	GastoLimpieza      RubroGasto = "limpieza"
	GastoSeguridad     RubroGasto = "seguridad"
	GastoOtro          RubroGasto = "otro"
)

// Gasto is an expense paid from the drawer. Creating one always appends the
// matching egreso/gasto MovimientoCaja, referenced by MovimientoCajaID.
type Gasto struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CajaID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Categoria        RubroGasto `gorm:"type:varchar(20);not null"`
	Descripcion      string     `gorm:"type:varchar(200);not null"`
	Monto            int64      `gorm:"not null"`
	Comprobante      *string    `gorm:"type:varchar(100)"`
	Observacion      *string
	UsuarioID        uuid.UUID `gorm:"type:uuid;not null"`
	MovimientoCajaID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Gasto) TableName() string { return "gastos" }

func (g *Gasto) BeforeCreate(_ *gorm.DB) error {
	asignarID(&g.ID)
	return nil
}
