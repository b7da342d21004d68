package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// asignarID fills a zero primary key before insert. Ids are generated in Go so
// the same models work on postgres and on the sqlite test database.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// FechaDe truncates t to its calendar date in UTC.
func FechaDe(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&Usuario{},
		&Producto{},
		&Proveedor{},
		&Cliente{},
		&Factura{},
		&DetalleFactura{},
		&Pago{},
		&PagoFactura{},
		&MovimientoStock{},
		&Caja{},
		&Denominacion{},
		&MovimientoCaja{},
		&Gasto{},
		&Notificacion{},
	}
}
