package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error categories. Handlers map them to 404, 400 and 409; anything else is a 500.
var (
	ErrNoEncontrado      = errors.New("no encontrado")
	ErrSolicitudInvalida = errors.New("solicitud invalida")
	ErrConflicto         = errors.New("conflicto")
)

// negocioError carries a user-facing Spanish message and its category.
type negocioError struct {
	msg       string
	categoria error
}

func (e *negocioError) Error() string { return e.msg }
func (e *negocioError) Unwrap() error { return e.categoria }

// NoEncontrado lets packages that cannot import service (the workers) detect
// a missing record.
func (e *negocioError) NoEncontrado() bool { return e.categoria == ErrNoEncontrado }

func errNoEncontrado(msg string) error {
	return &negocioError{msg: msg, categoria: ErrNoEncontrado}
}

func errInvalida(format string, args ...interface{}) error {
	return &negocioError{msg: fmt.Sprintf(format, args...), categoria: ErrSolicitudInvalida}
}

func errConflicto(format string, args ...interface{}) error {
	return &negocioError{msg: fmt.Sprintf(format, args...), categoria: ErrConflicto}
}

var (
	ErrClienteNoEncontrado    = errNoEncontrado("cliente no encontrado")
	ErrProveedorNoEncontrado  = errNoEncontrado("proveedor no encontrado")
	ErrVentaNoEncontrada      = errNoEncontrado("venta no encontrada")
	ErrCompraNoEncontrada     = errNoEncontrado("compra no encontrada")
	ErrChequeNoEncontrado     = errNoEncontrado("cheque no encontrado")
	ErrMovimientoNoEncontrado = errNoEncontrado("movimiento no encontrado")
	ErrPagoNoEncontrado       = errNoEncontrado("pago no encontrado")
	ErrUsuarioNoEncontrado    = errNoEncontrado("usuario no encontrado")

	ErrTitularRequerido = errInvalida("debe indicar cliente_id o proveedor_id, pero no ambos")
)

// traducir maps gorm.ErrRecordNotFound to the given not-found error and
// passes any other error through.
func traducir(err, noEncontrado error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontrado
	}
	return err
}
