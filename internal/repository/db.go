package repository

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// conn returns tx when the caller runs inside a transaction, db otherwise.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE so balance adjustments on the same row serialize.
func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

func paginar(q *gorm.DB, p dto.Paginacion) *gorm.DB {
	p.Normalizar()
	return q.Offset(p.Offset()).Limit(p.Limit)
}

// rangoFechas filters column between desde and hasta (YYYY-MM-DD, inclusive); empty bounds are open.
func rangoFechas(q *gorm.DB, column, desde, hasta string) *gorm.DB {
	if desde != "" {
		q = q.Where("DATE("+column+") >= ?", desde)
	}
	if hasta != "" {
		q = q.Where("DATE("+column+") <= ?", hasta)
	}
	return q
}
