package repository

import (
	"context"

	"avicola/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacionRepository interface {
	CreateBatch(ctx context.Context, ns []model.Notificacion) error
	List(ctx context.Context, soloNoLeidas bool, limit int) ([]model.Notificacion, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) CreateBatch(ctx context.Context, ns []model.Notificacion) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

func (r *notificacionRepo) List(ctx context.Context, soloNoLeidas bool, limit int) ([]model.Notificacion, error) {
	q := r.db.WithContext(ctx).Model(&model.Notificacion{})
	if soloNoLeidas {
		q = q.Where("leida = ?", false)
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var ns []model.Notificacion
	err := q.Order("created_at DESC").Limit(limit).Find(&ns).Error
	return ns, err
}

func (r *notificacionRepo) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("id = ?", id).Update("leida", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
