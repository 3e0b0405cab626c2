package dto

import "github.com/shopspring/decimal"

// MovimientoFilter is bound from the query string of GET /v1/movimientos.
type MovimientoFilter struct {
	ClienteID   string `form:"cliente_id"   validate:"omitempty,uuid"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Tipo        string `form:"tipo"         validate:"omitempty,oneof=DEBITO CREDITO"`
	Estado      string `form:"estado"       validate:"omitempty,oneof=pendiente pagado aplicado anulado"`
	Origen      string `form:"origen"       validate:"omitempty,oneof=venta compra cheque manual"`
	Desde       string `form:"desde"        validate:"omitempty,datetime=2006-01-02"`
	Hasta       string `form:"hasta"        validate:"omitempty,datetime=2006-01-02"`
	Paginacion
}

// CrearMovimientoRequest registers a manual cuenta corriente entry.
type CrearMovimientoRequest struct {
	Tipo        string          `json:"tipo"         validate:"required,oneof=DEBITO CREDITO"`
	Monto       decimal.Decimal `json:"monto"        validate:"required,gt=0"`
	TipoPago    string          `json:"tipo_pago"    validate:"required,oneof=efectivo transferencia cheque tarjeta cuenta_corriente"`
	ClienteID   *string         `json:"cliente_id"   validate:"omitempty,uuid"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
	Descripcion *string         `json:"descripcion"  validate:"omitempty,max=500"`
	Fecha       string          `json:"fecha"        validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarMovimientoRequest struct {
	Tipo        *string          `json:"tipo"        validate:"omitempty,oneof=DEBITO CREDITO"`
	Monto       *decimal.Decimal `json:"monto"       validate:"omitempty,gt=0"`
	TipoPago    *string          `json:"tipo_pago"   validate:"omitempty,oneof=efectivo transferencia cheque tarjeta cuenta_corriente"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=500"`
	Fecha       *string          `json:"fecha"       validate:"omitempty,datetime=2006-01-02"`
}

type MovimientoResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	Monto        decimal.Decimal `json:"monto"`
	Pagado       decimal.Decimal `json:"pagado"`
	Pendiente    decimal.Decimal `json:"pendiente"`
	Estado       string          `json:"estado"`
	TipoPago     string          `json:"tipo_pago"`
	ClienteID    *string         `json:"cliente_id"`
	ProveedorID  *string         `json:"proveedor_id"`
	Origen       string          `json:"origen"`
	ReferenciaID *string         `json:"referencia_id"`
	Descripcion  *string         `json:"descripcion"`
	Fecha        string          `json:"fecha"`
	Pagos        []PagoResponse  `json:"pagos"`
}
