package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=200"`
	Direccion   string  `json:"direccion"    validate:"required,max=250"`
	CUIT        string  `json:"cuit"         validate:"required,cuit"`
	Zona        string  `json:"zona"         validate:"required,max=60"`
	Telefono    *string `json:"telefono"     validate:"omitempty,max=40"`
	Email       *string `json:"email"        validate:"omitempty,email"`
}

type ActualizarProveedorRequest struct {
	RazonSocial *string `json:"razon_social" validate:"omitempty,min=2,max=200"`
	Direccion   *string `json:"direccion"    validate:"omitempty,max=250"`
	CUIT        *string `json:"cuit"         validate:"omitempty,cuit"`
	Zona        *string `json:"zona"         validate:"omitempty,max=60"`
	Telefono    *string `json:"telefono"     validate:"omitempty,max=40"`
	Email       *string `json:"email"        validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID          string          `json:"id"`
	RazonSocial string          `json:"razon_social"`
	Direccion   string          `json:"direccion"`
	CUIT        string          `json:"cuit"`
	Zona        string          `json:"zona"`
	Telefono    *string         `json:"telefono"`
	Email       *string         `json:"email"`
	Saldo       decimal.Decimal `json:"saldo"`
	Debe        decimal.Decimal `json:"debe"`
	Haber       decimal.Decimal `json:"haber"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
