package dto

import "github.com/shopspring/decimal"

// EstadoCuentaFilter limits the statement to a date range (inclusive).
type EstadoCuentaFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// LineaCuenta is one row of an estado de cuenta. Exactly one of Debe/Haber is non-zero.
type LineaCuenta struct {
	Fecha        string          `json:"fecha"`
	Concepto     string          `json:"concepto"`
	Origen       string          `json:"origen"`
	Debe         decimal.Decimal `json:"debe"`
	Haber        decimal.Decimal `json:"haber"`
	Saldo        decimal.Decimal `json:"saldo"`
	MovimientoID string          `json:"movimiento_id"`
	PagoID       *string         `json:"pago_id,omitempty"`
}

// EstadoCuentaResponse is the statement of a cliente or proveedor.
// SaldoAnterior is the balance carried from entries before Desde.
type EstadoCuentaResponse struct {
	Titular       string          `json:"titular"` // cliente | proveedor
	TitularID     string          `json:"titular_id"`
	RazonSocial   string          `json:"razon_social"`
	CUIT          string          `json:"cuit"`
	Email         *string         `json:"email,omitempty"`
	Desde         string          `json:"desde,omitempty"`
	Hasta         string          `json:"hasta,omitempty"`
	SaldoAnterior decimal.Decimal `json:"saldo_anterior"`
	Debe          decimal.Decimal `json:"debe"`
	Haber         decimal.Decimal `json:"haber"`
	Saldo         decimal.Decimal `json:"saldo"`
	Lineas        []LineaCuenta   `json:"lineas"`
}

type EnvioEstadoCuentaResponse struct {
	Encolado bool   `json:"encolado"`
	Email    string `json:"email"`
}
