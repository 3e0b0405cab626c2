package repository

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// perfilColumns are the columns a profile update may touch; balances are
// written only through UpdateCuenta.
var perfilColumns = []string{"razon_social", "direccion", "cuit", "zona", "telefono", "email"}

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByCUIT(ctx context.Context, cuit string) (*model.Cliente, error)
	List(ctx context.Context, filter dto.TitularFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	UpdateCuenta(ctx context.Context, tx *gorm.DB, id uuid.UUID, cuenta model.CuentaCorriente) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) FindByCUIT(ctx context.Context, cuit string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("cuit = ?", cuit).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, filter dto.TitularFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	q = filtrarTitulares(q, filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("razon_social ASC"), filter.Paginacion).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Model(c).Select(perfilColumns).Updates(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cliente{}, "id = ?", id).Error
}

func (r *clienteRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := forUpdate(conn(ctx, r.db, tx)).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) UpdateCuenta(ctx context.Context, tx *gorm.DB, id uuid.UUID, cuenta model.CuentaCorriente) error {
	return conn(ctx, r.db, tx).Model(&model.Cliente{}).Where("id = ?", id).
		Updates(cuentaColumns(cuenta)).Error
}

func cuentaColumns(c model.CuentaCorriente) map[string]interface{} {
	return map[string]interface{}{"saldo": c.Saldo, "debe": c.Debe, "haber": c.Haber}
}

func filtrarTitulares(q *gorm.DB, filter dto.TitularFilter) *gorm.DB {
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("razon_social ILIKE ? OR cuit LIKE ?", like, like)
	}
	if filter.Zona != "" {
		q = q.Where("zona = ?", filter.Zona)
	}
	if filter.ConSaldo {
		q = q.Where("saldo <> 0")
	}
	return q
}
