package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleFacturaRequest struct {
	ProductoID     string `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int    `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario int64  `json:"precio_unitario" validate:"required,gt=0"`
	// PrecioVenta updates the product sale price on purchase invoices.
	PrecioVenta *int64 `json:"precio_venta" validate:"omitempty,gt=0"`
}

type CrearFacturaRequest struct {
	Tipo string `json:"tipo" validate:"required,oneof=compra venta"`
	// ProveedorID is required for compra, ClienteID for venta.
	ProveedorID *string                 `json:"proveedor_id" validate:"omitempty,uuid"`
	ClienteID   *string                 `json:"cliente_id"   validate:"omitempty,uuid"`
	Fecha       *time.Time              `json:"fecha"`
	Observacion *string                 `json:"observacion"`
	Detalles    []DetalleFacturaRequest `json:"detalles" validate:"required,min=1,dive"`
}

type FacturaFilter struct {
	Tipo        string     `form:"tipo"   validate:"omitempty,oneof=compra venta"`
	Estado      string     `form:"estado" validate:"omitempty,oneof=pendiente pagada anulada"`
	ProveedorID string     `form:"proveedor_id"`
	ClienteID   string     `form:"cliente_id"`
	Desde       *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta       *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page        int        `form:"page,default=1"`
	Limit       int        `form:"limit,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleFacturaResponse struct {
	ProductoID     string `json:"producto_id"`
	Producto       string `json:"producto"`
	Cantidad       int    `json:"cantidad"`
	PrecioUnitario int64  `json:"precio_unitario"`
	TasaIVA        int    `json:"tasa_iva"`
	Subtotal       int64  `json:"subtotal"`
	IVA            int64  `json:"iva"`
	Total          int64  `json:"total"`
}

type AsignacionResumen struct {
	ID              string    `json:"id"`
	PagoID          string    `json:"pago_id"`
	FacturaID       string    `json:"factura_id"`
	NumeroFactura   string    `json:"numero_factura,omitempty"`
	Monto           int64     `json:"monto"`
	FechaAsignacion time.Time `json:"fecha_asignacion"`
}

type FacturaResponse struct {
	ID               string                   `json:"id"`
	Tipo             string                   `json:"tipo"`
	Numero           string                   `json:"numero"`
	Fecha            time.Time                `json:"fecha"`
	ContraparteTipo  string                   `json:"contraparte_tipo"`
	ContraparteID    string                   `json:"contraparte_id"`
	Contraparte      string                   `json:"contraparte"`
	Subtotal         int64                    `json:"subtotal"`
	IVA              int64                    `json:"iva"`
	Total            int64                    `json:"total"`
	TotalPagado      int64                    `json:"total_pagado"`
	SaldoPendiente   int64                    `json:"saldo_pendiente"`
	PorcentajePagado decimal.Decimal          `json:"porcentaje_pagado"`
	Estado           string                   `json:"estado"`
	Observacion      *string                  `json:"observacion"`
	Detalles         []DetalleFacturaResponse `json:"detalles,omitempty"`
	Asignaciones     []AsignacionResumen      `json:"asignaciones,omitempty"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type RecalculoEstadosResponse struct {
	Revisadas   int `json:"revisadas"`
	Modificadas int `json:"modificadas"`
}
