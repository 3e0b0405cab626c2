package repository

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCuenta, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.MovimientoCuenta, error)
	ListByReferencia(ctx context.Context, tx *gorm.DB, origen string, referenciaID uuid.UUID) ([]model.MovimientoCuenta, error)
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoCuenta, int64, error)
	// ListCuenta returns every live movement of a titular, oldest first, with its pagos.
	ListCuenta(ctx context.Context, titular model.Titular) ([]model.MovimientoCuenta, error)
	Update(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

func (r *movimientoRepo) Create(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error {
	return conn(ctx, r.db, tx).Omit("Pagos").Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCuenta, error) {
	var m model.MovimientoCuenta
	err := r.db.WithContext(ctx).Preload("Pagos", ordenPagos).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.MovimientoCuenta, error) {
	var m model.MovimientoCuenta
	err := forUpdate(conn(ctx, r.db, tx)).Preload("Pagos", ordenPagos).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) ListByReferencia(ctx context.Context, tx *gorm.DB, origen string, referenciaID uuid.UUID) ([]model.MovimientoCuenta, error) {
	var movs []model.MovimientoCuenta
	err := conn(ctx, r.db, tx).Preload("Pagos", ordenPagos).
		Where("origen = ? AND referencia_id = ?", origen, referenciaID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoCuenta, int64, error) {
	var movs []model.MovimientoCuenta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoCuenta{})
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Origen != "" {
		q = q.Where("origen = ?", filter.Origen)
	}
	q = rangoFechas(q, "fecha", filter.Desde, filter.Hasta)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Preload("Pagos", ordenPagos).Order("fecha DESC, created_at DESC"), filter.Paginacion).
		Find(&movs).Error
	return movs, total, err
}

func (r *movimientoRepo) ListCuenta(ctx context.Context, titular model.Titular) ([]model.MovimientoCuenta, error) {
	var movs []model.MovimientoCuenta
	q := r.db.WithContext(ctx).Preload("Pagos", ordenPagos)
	if titular.ClienteID != nil {
		q = q.Where("cliente_id = ?", *titular.ClienteID)
	} else {
		q = q.Where("proveedor_id = ?", *titular.ProveedorID)
	}
	err := q.Order("fecha ASC, created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) Update(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error {
	return conn(ctx, r.db, tx).Model(m).
		Select("tipo", "monto", "estado", "tipo_pago", "descripcion", "fecha").
		Updates(m).Error
}

func (r *movimientoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.MovimientoCuenta{}, "id = ?", id).Error
}

func ordenPagos(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC, created_at ASC") }
