package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPagoRequest struct {
	MontoTotal  int64   `json:"monto_total" validate:"required,gt=0"`
	Metodo      string  `json:"metodo"      validate:"required,oneof=efectivo transferencia cheque"`
	Referencia  *string `json:"referencia"  validate:"omitempty,max=50"`
	Observacion *string `json:"observacion"`
	ProveedorID *string `json:"proveedor_id" validate:"omitempty,uuid"`
	ClienteID   *string `json:"cliente_id"   validate:"omitempty,uuid"`
	// FacturaID binds the payment to the invoice's party and allocates to it.
	FacturaID *string `json:"factura_id" validate:"omitempty,uuid"`
	// Distribuir runs the oldest-first allocation right after creation.
	Distribuir bool `json:"distribuir"`
}

type AsignarPagoRequest struct {
	FacturaID string `json:"factura_id" validate:"required,uuid"`
	Monto     int64  `json:"monto"      validate:"required,gt=0"`
}

type DistribuirPagoRequest struct {
	FacturaID *string `json:"factura_id" validate:"omitempty,uuid"`
}

type PagoRapidoRequest struct {
	Monto       int64   `json:"monto"       validate:"required,gt=0"`
	Metodo      string  `json:"metodo"      validate:"required,oneof=efectivo transferencia cheque"`
	Referencia  *string `json:"referencia"  validate:"omitempty,max=50"`
	Observacion *string `json:"observacion"`
	// MontoBillete is the cash tendered on a sale; the change is returned.
	MontoBillete *int64 `json:"monto_billete" validate:"omitempty,gt=0"`
}

type PagoFilter struct {
	Metodo      string     `form:"metodo"`
	ProveedorID string     `form:"proveedor_id"`
	ClienteID   string     `form:"cliente_id"`
	Desde       *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta       *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page        int        `form:"page,default=1"`
	Limit       int        `form:"limit,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoResponse struct {
	ID              string              `json:"id"`
	Fecha           time.Time           `json:"fecha"`
	MontoTotal      int64               `json:"monto_total"`
	MontoAsignado   int64               `json:"monto_asignado"`
	MontoDisponible int64               `json:"monto_disponible"`
	Metodo          string              `json:"metodo"`
	Referencia      *string             `json:"referencia"`
	Observacion     *string             `json:"observacion"`
	ContraparteTipo string              `json:"contraparte_tipo,omitempty"`
	ContraparteID   string              `json:"contraparte_id,omitempty"`
	Contraparte     string              `json:"contraparte,omitempty"`
	Asignaciones    []AsignacionResumen `json:"asignaciones"`
	// Distribucion is set when the payment was distributed on creation.
	Distribucion *DistribucionResponse `json:"distribucion,omitempty"`
}

type PagoListResponse struct {
	Data  []PagoResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type AsignacionPlan struct {
	FacturaID     string `json:"factura_id"`
	NumeroFactura string `json:"numero_factura"`
	Monto         int64  `json:"monto"`
	SaldoAntes    int64  `json:"saldo_antes"`
	SaldoDespues  int64  `json:"saldo_despues"`
}

type AdvertenciaAsignacion struct {
	FacturaID     string `json:"factura_id"`
	NumeroFactura string `json:"numero_factura"`
	Mensaje       string `json:"mensaje"`
}

type DistribucionResponse struct {
	PagoID          string                  `json:"pago_id"`
	Asignaciones    []AsignacionPlan        `json:"asignaciones"`
	Advertencias    []AdvertenciaAsignacion `json:"advertencias"`
	MontoDisponible int64                   `json:"monto_disponible"`
}

type PagoRapidoResponse struct {
	Pago    PagoResponse    `json:"pago"`
	Factura FacturaResponse `json:"factura"`
	Vuelto  int64           `json:"vuelto"`
}
