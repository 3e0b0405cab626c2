package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OperacionFilter is bound from the query string of GET /v1/ventas and /v1/compras.
type OperacionFilter struct {
	ClienteID   string `form:"cliente_id"   validate:"omitempty,uuid"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Estado      string `form:"estado"       validate:"omitempty,oneof=pendiente pagada anulada"`
	Desde       string `form:"desde"        validate:"omitempty,datetime=2006-01-02"`
	Hasta       string `form:"hasta"        validate:"omitempty,datetime=2006-01-02"`
	Paginacion
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarVentaRequest struct {
	ClienteID     string          `json:"cliente_id"    validate:"required,uuid"`
	Fecha         string          `json:"fecha"         validate:"omitempty,datetime=2006-01-02"` // empty = today
	Total         decimal.Decimal `json:"total"         validate:"required,gt=0"`
	MetodoPago    string          `json:"metodo_pago"   validate:"required,oneof=efectivo transferencia cheque tarjeta cuenta_corriente"`
	Observaciones *string         `json:"observaciones" validate:"omitempty,max=500"`
}

// ActualizarOperacionRequest edits a venta or compra. The titular cannot change.
type ActualizarOperacionRequest struct {
	Fecha         *string          `json:"fecha"         validate:"omitempty,datetime=2006-01-02"`
	Total         *decimal.Decimal `json:"total"         validate:"omitempty,gt=0"`
	MetodoPago    *string          `json:"metodo_pago"   validate:"omitempty,oneof=efectivo transferencia cheque tarjeta cuenta_corriente"`
	Observaciones *string          `json:"observaciones" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID            string          `json:"id"`
	Fecha         string          `json:"fecha"`
	Total         decimal.Decimal `json:"total"`
	ClienteID     string          `json:"cliente_id"`
	Cliente       string          `json:"cliente,omitempty"`
	MetodoPago    string          `json:"metodo_pago"`
	Estado        string          `json:"estado"`
	Observaciones *string         `json:"observaciones"`
	MovimientoID  *string         `json:"movimiento_id"`
	CreatedAt     string          `json:"created_at"`
}
