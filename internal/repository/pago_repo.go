package repository

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pagoRepo) List(ctx context.Context, filter dto.PagoFilter) ([]model.Pago, int64, error) {
	var pagos []model.Pago
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pago{})
	if filter.MovimientoID != "" {
		q = q.Where("movimiento_id = ?", filter.MovimientoID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("fecha DESC, created_at DESC"), filter.Paginacion).Find(&pagos).Error
	return pagos, total, err
}

func (r *pagoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.Pago{}, "id = ?", id).Error
}
