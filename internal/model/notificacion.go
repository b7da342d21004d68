package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipo: "info" | "warning" | "danger" | "success"
type Notificacion struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Mensaje   string     `gorm:"not null"`
	Tipo      string     `gorm:"type:varchar(10);not null"`
	Leida     bool       `gorm:"not null;default:false;index"`
	UsuarioID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"index"`
}

func (Notificacion) TableName() string { return "notificaciones" }

func (n *Notificacion) BeforeCreate(_ *gorm.DB) error {
	asignarID(&n.ID)
	return nil
}
