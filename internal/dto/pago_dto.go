package dto

import "github.com/shopspring/decimal"

type PagoFilter struct {
	MovimientoID string `form:"movimiento_id" validate:"omitempty,uuid"`
	Paginacion
}

type RegistrarPagoRequest struct {
	MovimientoID  string          `json:"movimiento_id" validate:"required,uuid"`
	Monto         decimal.Decimal `json:"monto"         validate:"required,gt=0"`
	MetodoPago    string          `json:"metodo_pago"   validate:"required,oneof=efectivo transferencia cheque tarjeta"`
	Fecha         string          `json:"fecha"         validate:"omitempty,datetime=2006-01-02"`
	Observaciones *string         `json:"observaciones" validate:"omitempty,max=500"`
}

type PagoResponse struct {
	ID            string          `json:"id"`
	Monto         decimal.Decimal `json:"monto"`
	MovimientoID  string          `json:"movimiento_id"`
	MetodoPago    string          `json:"metodo_pago"`
	Fecha         string          `json:"fecha"`
	Observaciones *string         `json:"observaciones"`
}
