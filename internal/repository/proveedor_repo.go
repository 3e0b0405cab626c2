package repository

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByCUIT(ctx context.Context, cuit string) (*model.Proveedor, error)
	List(ctx context.Context, filter dto.TitularFilter) ([]model.Proveedor, int64, error)
	Update(ctx context.Context, p *model.Proveedor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Proveedor, error)
	UpdateCuenta(ctx context.Context, tx *gorm.DB, id uuid.UUID, cuenta model.CuentaCorriente) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *proveedorRepo) FindByCUIT(ctx context.Context, cuit string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("cuit = ?", cuit).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context, filter dto.TitularFilter) ([]model.Proveedor, int64, error) {
	var proveedores []model.Proveedor
	var total int64

	q := filtrarTitulares(r.db.WithContext(ctx).Model(&model.Proveedor{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("razon_social ASC"), filter.Paginacion).Find(&proveedores).Error
	return proveedores, total, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Model(p).Select(perfilColumns).Updates(p).Error
}

func (r *proveedorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Proveedor{}, "id = ?", id).Error
}

func (r *proveedorRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := forUpdate(conn(ctx, r.db, tx)).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *proveedorRepo) UpdateCuenta(ctx context.Context, tx *gorm.DB, id uuid.UUID, cuenta model.CuentaCorriente) error {
	return conn(ctx, r.db, tx).Model(&model.Proveedor{}).Where("id = ?", id).
		Updates(cuentaColumns(cuenta)).Error
}
