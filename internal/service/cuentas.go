package service

import (
	"context"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cuentas applies cuenta corriente effects on clientes and proveedores.
// Every method runs inside the caller's transaction (tx may be nil in unit tests).
type Cuentas struct {
	movimientos repository.MovimientoRepository
	pagos       repository.PagoRepository
	clientes    repository.ClienteRepository
	proveedores repository.ProveedorRepository
}

func NewCuentas(
	movimientos repository.MovimientoRepository,
	pagos repository.PagoRepository,
	clientes repository.ClienteRepository,
	proveedores repository.ProveedorRepository,
) *Cuentas {
	return &Cuentas{movimientos: movimientos, pagos: pagos, clientes: clientes, proveedores: proveedores}
}

// aplicarSaldo locks the titular row, applies tipo by monto and writes
// saldo/debe/haber back. A negative monto reverts a previous application.
func (c *Cuentas) aplicarSaldo(ctx context.Context, tx *gorm.DB, t model.Titular, tipo string, monto decimal.Decimal) error {
	switch {
	case t.ClienteID != nil && t.ProveedorID == nil:
		cli, err := c.clientes.FindByIDForUpdate(ctx, tx, *t.ClienteID)
		if err != nil {
			return traducir(err, ErrClienteNoEncontrado)
		}
		if err := cli.Cuenta.Aplicar(tipo, monto); err != nil {
			return errInvalida("%s", err.Error())
		}
		return c.clientes.UpdateCuenta(ctx, tx, cli.ID, cli.Cuenta)

	case t.ProveedorID != nil && t.ClienteID == nil:
		prov, err := c.proveedores.FindByIDForUpdate(ctx, tx, *t.ProveedorID)
		if err != nil {
			return traducir(err, ErrProveedorNoEncontrado)
		}
		if err := prov.Cuenta.Aplicar(tipo, monto); err != nil {
			return errInvalida("%s", err.Error())
		}
		return c.proveedores.UpdateCuenta(ctx, tx, prov.ID, prov.Cuenta)

	default:
		return ErrTitularRequerido
	}
}

// registrar persists m and applies its effect on the titular.
func (c *Cuentas) registrar(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error {
	if !m.Titular().Valido() {
		return ErrTitularRequerido
	}
	if !model.TipoValido(m.Tipo) {
		return errInvalida("tipo de movimiento invalido: %q", m.Tipo)
	}
	if err := validarMonto(m.Monto); err != nil {
		return err
	}
	if m.Fecha.IsZero() {
		m.Fecha = time.Now()
	}
	if m.Estado == "" {
		m.Estado = model.EstadoMovimientoPendiente
	}
	if err := c.aplicarSaldo(ctx, tx, m.Titular(), m.Tipo, m.Monto); err != nil {
		return err
	}
	if err := c.movimientos.Create(ctx, tx, m); err != nil {
		return err
	}
	log.Debug().Str("movimiento_id", m.ID.String()).Str("tipo", m.Tipo).
		Str("origen", m.Origen).Str("monto", m.Monto.StringFixed(2)).Msg("movimiento registrado")
	return nil
}

// actualizar changes tipo and/or monto of a live movement. The old effect is
// reverted and the new one applied; monto can never drop below what was paid.
func (c *Cuentas) actualizar(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta, tipo string, monto decimal.Decimal) error {
	if m.Estado == model.EstadoMovimientoAnulado {
		return errInvalida("el movimiento esta anulado")
	}
	if !model.TipoValido(tipo) {
		return errInvalida("tipo de movimiento invalido: %q", tipo)
	}
	if err := validarMonto(monto); err != nil {
		return err
	}
	pagado := m.Pagado()
	if monto.LessThan(pagado) {
		return errInvalida("el monto (%s) no puede ser menor a lo ya pagado (%s)",
			monto.StringFixed(2), pagado.StringFixed(2))
	}
	if tipo != m.Tipo && !pagado.IsZero() {
		return errInvalida("no se puede cambiar el tipo de un movimiento con pagos registrados")
	}

	if tipo == m.Tipo {
		if delta := monto.Sub(m.Monto); !delta.IsZero() {
			if err := c.aplicarSaldo(ctx, tx, m.Titular(), tipo, delta); err != nil {
				return err
			}
		}
	} else {
		if err := c.aplicarSaldo(ctx, tx, m.Titular(), m.Tipo, m.Monto.Neg()); err != nil {
			return err
		}
		if err := c.aplicarSaldo(ctx, tx, m.Titular(), tipo, monto); err != nil {
			return err
		}
	}

	m.Tipo = tipo
	m.Monto = monto
	m.Estado = estadoPorPagos(m)
	return c.movimientos.Update(ctx, tx, m)
}

// registrarPago settles part of a pending movement. The pago applies the
// inverse tipo of the movement to the same titular.
func (c *Cuentas) registrarPago(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta, p *model.Pago) error {
	if m.Estado != model.EstadoMovimientoPendiente {
		return errInvalida("el movimiento no admite pagos (estado %s)", m.Estado)
	}
	if err := validarMonto(p.Monto); err != nil {
		return err
	}
	pendiente := m.Pendiente()
	if p.Monto.GreaterThan(pendiente) {
		return errInvalida("el pago (%s) supera el saldo pendiente del movimiento (%s)",
			p.Monto.StringFixed(2), pendiente.StringFixed(2))
	}
	if p.Fecha.IsZero() {
		p.Fecha = time.Now()
	}
	p.MovimientoID = m.ID

	if err := c.aplicarSaldo(ctx, tx, m.Titular(), model.TipoInverso(m.Tipo), p.Monto); err != nil {
		return err
	}
	if err := c.pagos.Create(ctx, tx, p); err != nil {
		return err
	}
	m.Pagos = append(m.Pagos, *p)
	m.Estado = estadoPorPagos(m)
	return c.movimientos.Update(ctx, tx, m)
}

// eliminarPago reverts a pago and reopens its movement.
func (c *Cuentas) eliminarPago(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta, pagoID uuid.UUID) error {
	idx := -1
	for i := range m.Pagos {
		if m.Pagos[i].ID == pagoID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPagoNoEncontrado
	}
	p := m.Pagos[idx]

	if err := c.aplicarSaldo(ctx, tx, m.Titular(), model.TipoInverso(m.Tipo), p.Monto.Neg()); err != nil {
		return err
	}
	if err := c.pagos.Delete(ctx, tx, p.ID); err != nil {
		return err
	}
	m.Pagos = append(m.Pagos[:idx], m.Pagos[idx+1:]...)
	m.Estado = estadoPorPagos(m)
	return c.movimientos.Update(ctx, tx, m)
}

// anular reverts every pago and the movement itself, then soft-deletes it.
func (c *Cuentas) anular(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error {
	if m.Estado == model.EstadoMovimientoAnulado {
		return nil
	}
	for _, p := range m.Pagos {
		if err := c.aplicarSaldo(ctx, tx, m.Titular(), model.TipoInverso(m.Tipo), p.Monto.Neg()); err != nil {
			return err
		}
		if err := c.pagos.Delete(ctx, tx, p.ID); err != nil {
			return err
		}
	}
	if err := c.aplicarSaldo(ctx, tx, m.Titular(), m.Tipo, m.Monto.Neg()); err != nil {
		return err
	}
	m.Pagos = nil
	m.Estado = model.EstadoMovimientoAnulado
	if err := c.movimientos.Update(ctx, tx, m); err != nil {
		return err
	}
	return c.movimientos.Delete(ctx, tx, m.ID)
}

// estadoPorPagos keeps aplicado/anulado and otherwise derives pendiente/pagado.
func estadoPorPagos(m *model.MovimientoCuenta) string {
	switch m.Estado {
	case model.EstadoMovimientoAplicado, model.EstadoMovimientoAnulado:
		return m.Estado
	}
	if m.Pagado().GreaterThanOrEqual(m.Monto) {
		return model.EstadoMovimientoPagado
	}
	return model.EstadoMovimientoPendiente
}
