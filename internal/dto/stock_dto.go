package dto

import "time"

type AjusteStockRequest struct {
	Tipo        string  `json:"tipo"        validate:"required,oneof=entrada salida ajuste"`
	Cantidad    int     `json:"cantidad"    validate:"required,gt=0"`
	Origen      string  `json:"origen"      validate:"omitempty,oneof=ajuste_manual devolucion merma"`
	Referencia  *string `json:"referencia"  validate:"omitempty,max=100"`
	Observacion *string `json:"observacion"`
}

type MovimientoStockFilter struct {
	ProductoID string `form:"producto_id"`
	Tipo       string `form:"tipo"`
	Origen     string `form:"origen"`
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=100"`
}

type MovimientoStockResponse struct {
	ID             string    `json:"id"`
	ProductoID     string    `json:"producto_id"`
	ProductoNombre string    `json:"producto_nombre,omitempty"`
	Tipo           string    `json:"tipo"`
	Origen         string    `json:"origen"`
	Cantidad       int       `json:"cantidad"`
	StockAnterior  int       `json:"stock_anterior"`
	StockNuevo     int       `json:"stock_nuevo"`
	Referencia     *string   `json:"referencia"`
	Observacion    *string   `json:"observacion"`
	UsuarioID      string    `json:"usuario_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type AjusteStockResponse struct {
	Movimiento MovimientoStockResponse `json:"movimiento"`
	StockBajo  bool                    `json:"stock_bajo"`
}
