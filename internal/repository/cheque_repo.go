package repository

import (
	"context"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChequeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cheque) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cheque, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cheque, error)
	// ExisteNumero reports whether another live cheque has the same banco+numero.
	ExisteNumero(ctx context.Context, banco, numero string, excluir *uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.ChequeFilter) ([]model.Cheque, int64, error)
	Update(ctx context.Context, tx *gorm.DB, c *model.Cheque) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	MarcarVencidos(ctx context.Context, hoy time.Time) (int64, error)
	ListPorVencer(ctx context.Context, desde, hasta time.Time) ([]model.Cheque, error)
	DB() *gorm.DB
}

type chequeRepo struct{ db *gorm.DB }

func NewChequeRepository(db *gorm.DB) ChequeRepository { return &chequeRepo{db: db} }

func (r *chequeRepo) DB() *gorm.DB { return r.db }

func (r *chequeRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cheque) error {
	return conn(ctx, r.db, tx).Omit("Cliente", "Proveedor").Create(c).Error
}

func (r *chequeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cheque, error) {
	var c model.Cheque
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *chequeRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cheque, error) {
	var c model.Cheque
	err := forUpdate(conn(ctx, r.db, tx)).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *chequeRepo) ExisteNumero(ctx context.Context, banco, numero string, excluir *uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Cheque{}).
		Where("LOWER(banco) = LOWER(?) AND numero = ?", banco, numero)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *chequeRepo) List(ctx context.Context, filter dto.ChequeFilter) ([]model.Cheque, int64, error) {
	var cheques []model.Cheque
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cheque{})
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.Utilizado != nil {
		q = q.Where("utilizado = ?", *filter.Utilizado)
	}
	if filter.Vencido != nil {
		q = q.Where("vencido = ?", *filter.Vencido)
	}
	if filter.VenceHasta != "" {
		q = q.Where("fecha_vencimiento <= ?", filter.VenceHasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("fecha_vencimiento ASC"), filter.Paginacion).Find(&cheques).Error
	return cheques, total, err
}

func (r *chequeRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Cheque) error {
	return conn(ctx, r.db, tx).Model(c).
		Select("banco", "sucursal", "numero", "monto", "fecha_emision", "fecha_vencimiento",
			"proveedor_id", "utilizado", "vencido").
		Updates(c).Error
}

func (r *chequeRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.Cheque{}, "id = ?", id).Error
}

// MarcarVencidos flags every unused cheque whose fecha_vencimiento is before hoy.
func (r *chequeRepo) MarcarVencidos(ctx context.Context, hoy time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Cheque{}).
		Where("fecha_vencimiento < ? AND utilizado = false AND vencido = false", hoy.Format(dto.FechaLayout)).
		Update("vencido", true)
	return res.RowsAffected, res.Error
}

func (r *chequeRepo) ListPorVencer(ctx context.Context, desde, hasta time.Time) ([]model.Cheque, error) {
	var cheques []model.Cheque
	err := r.db.WithContext(ctx).
		Where(model.EnCarteraSQL).
		Where("fecha_vencimiento BETWEEN ? AND ?", desde.Format(dto.FechaLayout), hasta.Format(dto.FechaLayout)).
		Preload("Cliente").
		Order("fecha_vencimiento ASC").
		Find(&cheques).Error
	return cheques, err
}
