package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DenominacionRequest struct {
	Valor    int64 `json:"valor"    validate:"required,oneof=100000 50000 20000 10000 5000 2000 1000 500 100 50"`
	Cantidad int   `json:"cantidad" validate:"min=0"`
}

type AbrirCajaRequest struct {
	// Fecha defaults to today.
	Fecha          *time.Time            `json:"fecha"`
	Denominaciones []DenominacionRequest `json:"denominaciones" validate:"dive"`
	Observaciones  *string               `json:"observaciones"`
}

type MovimientoCajaRequest struct {
	Tipo        string  `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Categoria   string  `json:"categoria"   validate:"required,oneof=venta pago_proveedor gasto retiro deposito ajuste otro"`
	Monto       int64   `json:"monto"       validate:"required,gt=0"`
	Descripcion string  `json:"descripcion" validate:"required,min=3,max=200"`
	Referencia  *string `json:"referencia"  validate:"omitempty,max=100"`
	Observacion *string `json:"observacion"`
}

type GastoRequest struct {
	Categoria   string  `json:"categoria"   validate:"required,oneof=combustible mantenimiento servicios alimentacion transporte utiles limpieza seguridad otro"`
	Descripcion string  `json:"descripcion" validate:"required,min=3,max=200"`
	Monto       int64   `json:"monto"       validate:"required,gt=0"`
	Comprobante *string `json:"comprobante" validate:"omitempty,max=100"`
	Observacion *string `json:"observacion"`
}

// CerrarCajaRequest accepts either a raw counted amount or a denomination count.
type CerrarCajaRequest struct {
	SaldoReal      *int64                `json:"saldo_real" validate:"omitempty,min=0"`
	Denominaciones []DenominacionRequest `json:"denominaciones" validate:"dive"`
	Observaciones  *string               `json:"observaciones"`
}

type ReporteCajaFilter struct {
	Desde time.Time `form:"desde" time_format:"2006-01-02" binding:"required"`
	Hasta time.Time `form:"hasta" time_format:"2006-01-02" binding:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DenominacionResponse struct {
	Valor    int64 `json:"valor"`
	Cantidad int   `json:"cantidad"`
	Subtotal int64 `json:"subtotal"`
}

type MovimientoCajaResponse struct {
	ID          string    `json:"id"`
	Tipo        string    `json:"tipo"`
	Categoria   string    `json:"categoria"`
	Monto       int64     `json:"monto"`
	Descripcion string    `json:"descripcion"`
	Referencia  *string   `json:"referencia"`
	Observacion *string   `json:"observacion"`
	UsuarioID   string    `json:"usuario_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type GastoResponse struct {
	ID               string    `json:"id"`
	CajaID           string    `json:"caja_id"`
	Categoria        string    `json:"categoria"`
	Descripcion      string    `json:"descripcion"`
	Monto            int64     `json:"monto"`
	Comprobante      *string   `json:"comprobante"`
	Observacion      *string   `json:"observacion"`
	MovimientoCajaID string    `json:"movimiento_caja_id"`
	CreatedAt        time.Time `json:"created_at"`
}

type DesvioResponse struct {
	Monto         int64           `json:"monto"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	Clasificacion string          `json:"clasificacion"` // normal | advertencia | critico
}

type TotalCategoria struct {
	Tipo      string `json:"tipo"`
	Categoria string `json:"categoria"`
	Total     int64  `json:"total"`
	Cantidad  int64  `json:"cantidad"`
}

type CajaResponse struct {
	ID            string          `json:"id"`
	Fecha         string          `json:"fecha"` // YYYY-MM-DD
	SaldoInicial  int64           `json:"saldo_inicial"`
	TotalIngresos int64           `json:"total_ingresos"`
	TotalEgresos  int64           `json:"total_egresos"`
	SaldoActual   int64           `json:"saldo_actual"`
	SaldoFinal    *int64          `json:"saldo_final"`
	SaldoReal     *int64          `json:"saldo_real"`
	Desvio        *DesvioResponse `json:"desvio"`
	Cerrada       bool            `json:"cerrada"`
	Observaciones *string         `json:"observaciones"`
	FechaApertura time.Time       `json:"fecha_apertura"`
	FechaCierre   *time.Time      `json:"fecha_cierre"`
}

// CajaResumenResponse is the full session view used by the summary endpoint
// and the arqueo PDF.
type CajaResumenResponse struct {
	CajaResponse
	DenominacionesApertura []DenominacionResponse   `json:"denominaciones_apertura"`
	DenominacionesCierre   []DenominacionResponse   `json:"denominaciones_cierre"`
	Movimientos            []MovimientoCajaResponse `json:"movimientos"`
	Gastos                 []GastoResponse          `json:"gastos"`
	PorCategoria           []TotalCategoria         `json:"por_categoria"`
}

type UltimoCierreResponse struct {
	CajaID         string                 `json:"caja_id"`
	Fecha          string                 `json:"fecha"`
	SaldoFinal     int64                  `json:"saldo_final"`
	SaldoReal      int64                  `json:"saldo_real"`
	Denominaciones []DenominacionResponse `json:"denominaciones"`
}

type CajaHistorialResponse struct {
	Data  []CajaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type GastoTop struct {
	ID          string    `json:"id"`
	Fecha       time.Time `json:"fecha"`
	Categoria   string    `json:"categoria"`
	Descripcion string    `json:"descripcion"`
	Monto       int64     `json:"monto"`
}

type ReporteCajaPeriodoResponse struct {
	Desde              string           `json:"desde"`
	Hasta              string           `json:"hasta"`
	CajasAbiertas      int              `json:"cajas_abiertas"`
	CajasCerradas      int              `json:"cajas_cerradas"`
	TotalSaldoInicial  int64            `json:"total_saldo_inicial"`
	TotalSaldoFinal    int64            `json:"total_saldo_final"`
	TotalDiferencias   int64            `json:"total_diferencias"`
	TotalIngresos      int64            `json:"total_ingresos"`
	TotalEgresos       int64            `json:"total_egresos"`
	PorCategoria       []TotalCategoria `json:"por_categoria"`
	GastosPorCategoria []TotalCategoria `json:"gastos_por_categoria"`
	TopGastos          []GastoTop       `json:"top_gastos"`
}

type VerificacionCajaResponse struct {
	Fecha         string         `json:"fecha"`
	CajaHoy       *CajaResponse  `json:"caja_hoy"`
	CajasAntiguas []CajaResponse `json:"cajas_antiguas_abiertas"`
}
