package service

import (
	"context"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// montoMaximo is the largest amount a decimal(14,2) column holds.
var montoMaximo = decimal.RequireFromString("999999999999.99")

// validarMonto rejects amounts the money columns cannot store exactly.
func validarMonto(m decimal.Decimal) error {
	if !m.IsPositive() {
		return errInvalida("el monto debe ser mayor a cero")
	}
	if !m.Equal(m.Round(2)) {
		return errInvalida("el monto admite como maximo 2 decimales: %s", m.String())
	}
	if m.GreaterThan(montoMaximo) {
		return errInvalida("el monto supera el maximo permitido (%s)", montoMaximo.StringFixed(2))
	}
	return nil
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseFecha parses an optional YYYY-MM-DD date; empty means now.
func parseFecha(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(dto.FechaLayout, s, time.Local)
	if err != nil {
		return time.Time{}, errInvalida("fecha invalida %q: use el formato AAAA-MM-DD", s)
	}
	return t, nil
}

func parseID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errInvalida("%s invalido", campo)
	}
	return id, nil
}

func parseOptionalID(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := parseID(*s, campo)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseTitular requires exactly one of cliente_id / proveedor_id.
func parseTitular(clienteID, proveedorID *string) (model.Titular, error) {
	var t model.Titular
	var err error
	if t.ClienteID, err = parseOptionalID(clienteID, "cliente_id"); err != nil {
		return t, err
	}
	if t.ProveedorID, err = parseOptionalID(proveedorID, "proveedor_id"); err != nil {
		return t, err
	}
	if !t.Valido() {
		return t, ErrTitularRequerido
	}
	return t, nil
}

// inicioDelDia maps t to local midnight of the calendar day t carries in its
// own location. Date columns come back from Postgres as UTC midnight.
func inicioDelDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// antesDe compares calendar days, ignoring time of day and location.
func antesDe(a, b time.Time) bool { return inicioDelDia(a).Before(inicioDelDia(b)) }

func formatFecha(t time.Time) string { return t.Format(dto.FechaLayout) }

func formatTimestamp(t time.Time) string { return t.Format(time.RFC3339) }

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func ptr[T any](v T) *T { return &v }
