package repository

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, filter dto.OperacionFilter) ([]model.Compra, int64, error)
	Update(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return conn(ctx, r.db, tx).Omit("Proveedor").Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Proveedor").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := forUpdate(conn(ctx, r.db, tx)).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, filter dto.OperacionFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	q = rangoFechas(q, "fecha", filter.Desde, filter.Hasta)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Preload("Proveedor").Order("fecha DESC, created_at DESC"), filter.Paginacion).
		Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return conn(ctx, r.db, tx).Model(c).
		Select("fecha", "total", "metodo_pago", "estado", "observaciones").
		Updates(c).Error
}

func (r *compraRepo) UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado string) error {
	return conn(ctx, r.db, tx).Model(&model.Compra{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *compraRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.Compra{}, "id = ?", id).Error
}
