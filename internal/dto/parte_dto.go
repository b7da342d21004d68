package dto

// Proveedores and clientes share the same payloads.

type CrearParteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=200"`
	RUC       string  `json:"ruc"       validate:"required,min=3,max=20"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
}

type ActualizarParteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=200"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Activo    *bool   `json:"activo"`
}

type ParteFilter struct {
	Nombre string `form:"nombre"`
	// ConSaldo limits the list to parties with a non-zero balance.
	ConSaldo bool `form:"con_saldo"`
	Page     int  `form:"page,default=1"`
	Limit    int  `form:"limit,default=20"`
}

type ParteResponse struct {
	ID        string  `json:"id"`
	Tipo      string  `json:"tipo"` // proveedor | cliente
	Nombre    string  `json:"nombre"`
	RUC       string  `json:"ruc"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Saldo     int64   `json:"saldo"`
	Activo    bool    `json:"activo"`
}

type ParteListResponse struct {
	Data  []ParteResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
