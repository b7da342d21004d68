package dto

import "time"

type ProductoAlerta struct {
	ID          string `json:"id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}

type FacturaVencida struct {
	ID             string    `json:"id"`
	Tipo           string    `json:"tipo"`
	Numero         string    `json:"numero"`
	Fecha          time.Time `json:"fecha"`
	Contraparte    string    `json:"contraparte"`
	SaldoPendiente int64     `json:"saldo_pendiente"`
	DiasVencida    int       `json:"dias_vencida"`
}

type AlertasResponse struct {
	StockBajo        []ProductoAlerta `json:"stock_bajo"`
	Agotados         []ProductoAlerta `json:"agotados"`
	FacturasVencidas []FacturaVencida `json:"facturas_vencidas"`
	DiasVencimiento  int              `json:"dias_vencimiento"`
	GeneradoEn       time.Time        `json:"generado_en"`
}

func (a *AlertasResponse) Vacia() bool {
	return len(a.StockBajo) == 0 && len(a.Agotados) == 0 && len(a.FacturasVencidas) == 0
}

type NotificarAlertasResponse struct {
	Notificaciones int  `json:"notificaciones"`
	EmailEncolado  bool `json:"email_encolado"`
}

type NotificacionResponse struct {
	ID        string    `json:"id"`
	Mensaje   string    `json:"mensaje"`
	Tipo      string    `json:"tipo"`
	Leida     bool      `json:"leida"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailMensaje is the payload of an email job.
type EmailMensaje struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	// Adjunto is an optional file path attached to the mail.
	Adjunto string `json:"adjunto,omitempty"`
}
