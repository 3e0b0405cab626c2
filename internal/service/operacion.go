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

// operacion is the account side of a venta (DEBITO to a cliente) or a compra
// (CREDITO to a proveedor).
type operacion struct {
	ID          uuid.UUID
	Tipo        string
	Origen      string
	Descripcion string
	Titular     model.Titular
	Total       decimal.Decimal
	MetodoPago  string
	Fecha       time.Time
}

// registrarOperacion books the movement of a new operacion. Anything not sold
// or bought on cuenta_corriente is paid on the spot with a pago for the total.
func (c *Cuentas) registrarOperacion(ctx context.Context, tx *gorm.DB, op operacion) (*model.MovimientoCuenta, error) {
	descripcion := op.Descripcion
	mov := &model.MovimientoCuenta{
		ID:           uuid.New(),
		Tipo:         op.Tipo,
		Monto:        op.Total,
		TipoPago:     op.MetodoPago,
		ClienteID:    op.Titular.ClienteID,
		ProveedorID:  op.Titular.ProveedorID,
		Origen:       op.Origen,
		ReferenciaID: &op.ID,
		Descripcion:  &descripcion,
		Fecha:        op.Fecha,
	}
	if err := c.registrar(ctx, tx, mov); err != nil {
		return nil, err
	}
	if op.MetodoPago != model.MetodoCuentaCorriente {
		pago := &model.Pago{ID: uuid.New(), Monto: op.Total, MetodoPago: op.MetodoPago, Fecha: op.Fecha}
		if err := c.registrarPago(ctx, tx, mov, pago); err != nil {
			return nil, err
		}
	}
	return mov, nil
}

// actualizarOperacion applies an edit to the operacion's movement. A total
// change moves the titular's balance by the difference. The returned movement
// carries the resulting fecha, metodo, monto and estado.
func (c *Cuentas) actualizarOperacion(ctx context.Context, tx *gorm.DB, movID uuid.UUID, req dto.ActualizarOperacionRequest) (*model.MovimientoCuenta, error) {
	mov, err := c.movimientos.FindByIDForUpdate(ctx, tx, movID)
	if err != nil {
		return nil, traducir(err, ErrMovimientoNoEncontrado)
	}
	if req.Fecha != nil {
		if mov.Fecha, err = parseFecha(*req.Fecha); err != nil {
			return nil, err
		}
	}
	if req.MetodoPago != nil {
		mov.TipoPago = *req.MetodoPago
	}
	total := mov.Monto
	if req.Total != nil {
		total = *req.Total
	}
	if err := c.actualizar(ctx, tx, mov, mov.Tipo, total); err != nil {
		return nil, err
	}
	return mov, nil
}

// anularOperacion reverts the operacion's movement and pagos. A nil movID is
// an operacion that never reached the account and has nothing to revert.
func (c *Cuentas) anularOperacion(ctx context.Context, tx *gorm.DB, movID *uuid.UUID) error {
	if movID == nil {
		return nil
	}
	mov, err := c.movimientos.FindByIDForUpdate(ctx, tx, *movID)
	if err != nil {
		return traducir(err, ErrMovimientoNoEncontrado)
	}
	return c.anular(ctx, tx, mov)
}
