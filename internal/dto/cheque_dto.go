package dto

import "github.com/shopspring/decimal"

// ChequeFilter is bound from the query string of GET /v1/cheques.
type ChequeFilter struct {
	ClienteID   string `form:"cliente_id"   validate:"omitempty,uuid"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Utilizado   *bool  `form:"utilizado"`
	Vencido     *bool  `form:"vencido"`
	VenceHasta  string `form:"vence_hasta"  validate:"omitempty,datetime=2006-01-02"`
	Paginacion
}

// CrearChequeRequest registers a cheque. ClienteID means it was received from a
// cliente; ProveedorID means it was issued to a proveedor. Neither is allowed
// for a cheque kept in cartera without a titular.
type CrearChequeRequest struct {
	Banco            string          `json:"banco"             validate:"required,max=100"`
	Sucursal         string          `json:"sucursal"          validate:"required,max=100"`
	Numero           string          `json:"numero"            validate:"required,max=30"`
	Monto            decimal.Decimal `json:"monto"             validate:"required,gt=0"`
	FechaEmision     string          `json:"fecha_emision"     validate:"required,datetime=2006-01-02"`
	FechaVencimiento string          `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
	ClienteID        *string         `json:"cliente_id"        validate:"omitempty,uuid"`
	ProveedorID      *string         `json:"proveedor_id"      validate:"omitempty,uuid"`
}

type ActualizarChequeRequest struct {
	Banco            *string          `json:"banco"             validate:"omitempty,max=100"`
	Sucursal         *string          `json:"sucursal"          validate:"omitempty,max=100"`
	Numero           *string          `json:"numero"            validate:"omitempty,max=30"`
	Monto            *decimal.Decimal `json:"monto"             validate:"omitempty,gt=0"`
	FechaEmision     *string          `json:"fecha_emision"     validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type EndosarChequeRequest struct {
	ProveedorID string `json:"proveedor_id" validate:"required,uuid"`
}

type ChequeResponse struct {
	ID               string          `json:"id"`
	Banco            string          `json:"banco"`
	Sucursal         string          `json:"sucursal"`
	Numero           string          `json:"numero"`
	Monto            decimal.Decimal `json:"monto"`
	FechaEmision     string          `json:"fecha_emision"`
	FechaVencimiento string          `json:"fecha_vencimiento"`
	ClienteID        *string         `json:"cliente_id"`
	ProveedorID      *string         `json:"proveedor_id"`
	Utilizado        bool            `json:"utilizado"`
	Vencido          bool            `json:"vencido"`
	CreatedAt        string          `json:"created_at"`
}
