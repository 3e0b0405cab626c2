package dto

import "github.com/shopspring/decimal"

type RegistrarCompraRequest struct {
	ProveedorID   string          `json:"proveedor_id"  validate:"required,uuid"`
	Fecha         string          `json:"fecha"         validate:"omitempty,datetime=2006-01-02"`
	Total         decimal.Decimal `json:"total"         validate:"required,gt=0"`
	MetodoPago    string          `json:"metodo_pago"   validate:"required,oneof=efectivo transferencia cheque tarjeta cuenta_corriente"`
	Observaciones *string         `json:"observaciones" validate:"omitempty,max=500"`
}

type CompraResponse struct {
	ID            string          `json:"id"`
	Fecha         string          `json:"fecha"`
	Total         decimal.Decimal `json:"total"`
	ProveedorID   string          `json:"proveedor_id"`
	Proveedor     string          `json:"proveedor,omitempty"`
	MetodoPago    string          `json:"metodo_pago"`
	Estado        string          `json:"estado"`
	Observaciones *string         `json:"observaciones"`
	MovimientoID  *string         `json:"movimiento_id"`
	CreatedAt     string          `json:"created_at"`
}
