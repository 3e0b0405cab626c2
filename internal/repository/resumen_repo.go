package repository

import (
	"context"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totales is the result of a SUM/COUNT aggregate.
type Totales struct {
	Monto    decimal.Decimal
	Cantidad int64
}

type ResumenRepository interface {
	DeudaClientes(ctx context.Context) (Totales, error)
	DeudaProveedores(ctx context.Context) (Totales, error)
	ChequesEnCartera(ctx context.Context) (Totales, error)
	ChequesPorVencer(ctx context.Context, desde, hasta time.Time) (Totales, error)
}

type resumenRepo struct{ db *gorm.DB }

func NewResumenRepository(db *gorm.DB) ResumenRepository { return &resumenRepo{db: db} }

// DeudaClientes sums positive saldos: what clientes owe us.
func (r *resumenRepo) DeudaClientes(ctx context.Context) (Totales, error) {
	var t Totales
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Select("COALESCE(SUM(saldo), 0) AS monto, COUNT(*) AS cantidad").
		Where("saldo > 0").
		Scan(&t).Error
	return t, err
}

// DeudaProveedores sums negative saldos as a positive figure: what we owe proveedores.
func (r *resumenRepo) DeudaProveedores(ctx context.Context) (Totales, error) {
	var t Totales
	err := r.db.WithContext(ctx).Model(&model.Proveedor{}).
		Select("COALESCE(-SUM(saldo), 0) AS monto, COUNT(*) AS cantidad").
		Where("saldo < 0").
		Scan(&t).Error
	return t, err
}

func (r *resumenRepo) ChequesEnCartera(ctx context.Context) (Totales, error) {
	var t Totales
	err := r.db.WithContext(ctx).Model(&model.Cheque{}).
		Select("COALESCE(SUM(monto), 0) AS monto, COUNT(*) AS cantidad").
		Where(model.EnCarteraSQL).
		Scan(&t).Error
	return t, err
}

func (r *resumenRepo) ChequesPorVencer(ctx context.Context, desde, hasta time.Time) (Totales, error) {
	var t Totales
	err := r.db.WithContext(ctx).Model(&model.Cheque{}).
		Select("COALESCE(SUM(monto), 0) AS monto, COUNT(*) AS cantidad").
		Where(model.EnCarteraSQL).
		Where("fecha_vencimiento BETWEEN ? AND ?", desde.Format(dto.FechaLayout), hasta.Format(dto.FechaLayout)).
		Scan(&t).Error
	return t, err
}
