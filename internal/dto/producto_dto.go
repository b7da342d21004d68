package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string  `json:"codigo"       validate:"required,min=1,max=50"`
	Nombre      string  `json:"nombre"       validate:"required,min=2,max=200"`
	Descripcion *string `json:"descripcion"`
	Costo       int64   `json:"costo"        validate:"min=0"`
	Precio      int64   `json:"precio"       validate:"required,gt=0"`
	Stock       int     `json:"stock"        validate:"min=0"`
	StockMinimo *int    `json:"stock_minimo" validate:"omitempty,min=0"`
	IVA         *int    `json:"iva"          validate:"omitempty,oneof=5 10"`
}

type ActualizarProductoRequest struct {
	Nombre      *string `json:"nombre"       validate:"omitempty,min=2,max=200"`
	Descripcion *string `json:"descripcion"`
	Costo       *int64  `json:"costo"        validate:"omitempty,min=0"`
	Precio      *int64  `json:"precio"       validate:"omitempty,gt=0"`
	StockMinimo *int    `json:"stock_minimo" validate:"omitempty,min=0"`
	IVA         *int    `json:"iva"          validate:"omitempty,oneof=5 10"`
	Activo      *bool   `json:"activo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Codigo string `form:"codigo"`
	Nombre string `form:"nombre"`
	// Activo: "" = activos, "false" = inactivos, "all" = todos
	Activo string `form:"activo"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string  `json:"id"`
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Costo       int64   `json:"costo"`
	Precio      int64   `json:"precio"`
	Stock       int     `json:"stock"`
	StockMinimo int     `json:"stock_minimo"`
	IVA         int     `json:"iva"`
	Activo      bool    `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
