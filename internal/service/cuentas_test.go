package service

import (
	"context"
	"testing"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMonto(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertCuenta(t *testing.T, c model.CuentaCorriente, saldo, debe, haber string) {
	t.Helper()
	assertMonto(t, saldo, c.Saldo)
	assertMonto(t, debe, c.Debe)
	assertMonto(t, haber, c.Haber)
}

// ── Ventas ────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_CuentaCorriente(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Almacen Don Pepe")

	resp, err := f.ventaSvc().Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("1000"), MetodoPago: model.MetodoCuentaCorriente,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoOperacionPendiente, resp.Estado)
	require.NotNil(t, resp.MovimientoID)

	assertCuenta(t, f.cuentaCliente(cli), "1000", "1000", "0")

	mov := f.movimientos.movimientos[uuid.MustParse(*resp.MovimientoID)]
	assert.Equal(t, model.TipoDebito, mov.Tipo)
	assert.Equal(t, model.OrigenVenta, mov.Origen)
	assert.Equal(t, model.EstadoMovimientoPendiente, mov.Estado)
	assert.Empty(t, f.pagos.pagos)
}

func TestRegistrarVenta_ContadoQuedaPagada(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")

	resp, err := f.ventaSvc().Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("750.50"), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoOperacionPagada, resp.Estado)
	assert.Len(t, f.pagos.pagos, 1)

	// The sale and its pago cancel out.
	assertCuenta(t, f.cuentaCliente(cli), "0", "750.50", "750.50")
}

func TestRegistrarVenta_ClienteInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.ventaSvc().Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: uuid.NewString(), Total: dec("10"), MetodoPago: model.MetodoCuentaCorriente,
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.Empty(t, f.ventas.ventas)
}

func TestRegistrarVenta_FechaInvalida(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")
	_, err := f.ventaSvc().Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Fecha: "31/12/2024", Total: dec("10"), MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
}

func TestActualizarVenta_AjustaSaldoPorDiferencia(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Almacen Don Pepe")
	svc := f.ventaSvc()

	v, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("1000"), MetodoPago: model.MetodoCuentaCorriente,
	})
	require.NoError(t, err)

	nuevo := dec("1500")
	resp, err := svc.Actualizar(context.Background(), uuid.MustParse(v.ID), dto.ActualizarOperacionRequest{Total: &nuevo})
	require.NoError(t, err)
	assertMonto(t, "1500", resp.Total)
	assertCuenta(t, f.cuentaCliente(cli), "1500", "1500", "0")
}

func TestActualizarVenta_TotalMenorAlPagado(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")
	svc := f.ventaSvc()

	v, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("1000"), MetodoPago: model.MetodoTransferencia,
	})
	require.NoError(t, err)

	menor := dec("400")
	_, err = svc.Actualizar(context.Background(), uuid.MustParse(v.ID), dto.ActualizarOperacionRequest{Total: &menor})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
	assertCuenta(t, f.cuentaCliente(cli), "0", "1000", "1000")
}

func TestAnularVenta_RevierteSaldoYPagos(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Almacen Don Pepe")
	svc := f.ventaSvc()

	v, err := svc.Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("1200"), MetodoPago: model.MetodoCuentaCorriente,
	})
	require.NoError(t, err)
	_, err = f.pagoSvc().Registrar(context.Background(), dto.RegistrarPagoRequest{
		MovimientoID: *v.MovimientoID, Monto: dec("200"), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)
	assertCuenta(t, f.cuentaCliente(cli), "1000", "1200", "200")

	require.NoError(t, svc.Anular(context.Background(), uuid.MustParse(v.ID)))

	assertCuenta(t, f.cuentaCliente(cli), "0", "0", "0")
	assert.Empty(t, f.pagos.pagos)
	assert.Empty(t, f.movimientos.movimientos)

	stored := f.ventas.ventas[uuid.MustParse(v.ID)]
	assert.Equal(t, model.EstadoOperacionAnulada, stored.Estado)
	assert.True(t, stored.DeletedAt.Valid)

	_, err = svc.ObtenerPorID(context.Background(), uuid.MustParse(v.ID))
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

// ── Compras y pagos ───────────────────────────────────────────────────────────

func TestCompraCuentaCorriente_PagosParciales(t *testing.T) {
	f := newFixture()
	prov := f.nuevoProveedor("Distribuidora Norte")
	pagos := f.pagoSvc()

	c, err := f.compraSvc().Registrar(context.Background(), dto.RegistrarCompraRequest{
		ProveedorID: prov.String(), Total: dec("800"), MetodoPago: model.MetodoCuentaCorriente,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoOperacionPendiente, c.Estado)
	// A purchase is a CREDITO: we owe the proveedor.
	assertCuenta(t, f.cuentaProveedor(prov), "-800", "0", "800")

	p1, err := pagos.Registrar(context.Background(), dto.RegistrarPagoRequest{
		MovimientoID: *c.MovimientoID, Monto: dec("300"), MetodoPago: model.MetodoTransferencia,
	})
	require.NoError(t, err)
	assertCuenta(t, f.cuentaProveedor(prov), "-500", "300", "800")
	assert.Equal(t, model.EstadoOperacionPendiente, f.compras.compras[uuid.MustParse(c.ID)].Estado)

	_, err = pagos.Registrar(context.Background(), dto.RegistrarPagoRequest{
		MovimientoID: *c.MovimientoID, Monto: dec("500"), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)
	assertCuenta(t, f.cuentaProveedor(prov), "0", "800", "800")
	assert.Equal(t, model.EstadoOperacionPagada, f.compras.compras[uuid.MustParse(c.ID)].Estado)

	mov := f.movimientos.movimientos[uuid.MustParse(*c.MovimientoID)]
	assert.Equal(t, model.EstadoMovimientoPagado, mov.Estado)

	// Removing a pago reopens the purchase.
	require.NoError(t, pagos.Eliminar(context.Background(), uuid.MustParse(p1.ID)))
	assertCuenta(t, f.cuentaProveedor(prov), "-300", "500", "800")
	assert.Equal(t, model.EstadoOperacionPendiente, f.compras.compras[uuid.MustParse(c.ID)].Estado)
}

func TestRegistrarPago_SuperaPendiente(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")

	v, err := f.ventaSvc().Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("100"), MetodoPago: model.MetodoCuentaCorriente,
	})
	require.NoError(t, err)

	_, err = f.pagoSvc().Registrar(context.Background(), dto.RegistrarPagoRequest{
		MovimientoID: *v.MovimientoID, Monto: dec("100.01"), MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
	assertCuenta(t, f.cuentaCliente(cli), "100", "100", "0")
}

func TestRegistrarPago_MovimientoPagado(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")

	v, err := f.ventaSvc().Registrar(context.Background(), dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("100"), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	_, err = f.pagoSvc().Registrar(context.Background(), dto.RegistrarPagoRequest{
		MovimientoID: *v.MovimientoID, Monto: dec("1"), MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
}

func TestRegistrarPago_MovimientoInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.pagoSvc().Registrar(context.Background(), dto.RegistrarPagoRequest{
		MovimientoID: uuid.NewString(), Monto: dec("1"), MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, ErrMovimientoNoEncontrado)
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

func TestValidarMonto(t *testing.T) {
	cases := []struct {
		monto string
		ok    bool
	}{
		{"0.01", true},
		{"100.50", true},
		{"100.500", true},
		{"999999999999.99", true},
		{"0", false},
		{"-5", false},
		{"0.004", false},
		{"100.005", false},
		{"1000000000000", false},
	}
	for _, tc := range cases {
		t.Run(tc.monto, func(t *testing.T) {
			err := validarMonto(dec(tc.monto))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSolicitudInvalida)
			}
		})
	}
}

func TestMontos_FueraDeEscalaSonInvalidos(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Almacen Don Pepe")
	ctx := context.Background()

	_, err := f.ventaSvc().Registrar(ctx, dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("100.005"), MetodoPago: model.MetodoCuentaCorriente,
	})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
	_, err = f.ventaSvc().Registrar(ctx, dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("10000000000000"), MetodoPago: model.MetodoCuentaCorriente,
	})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
	assertCuenta(t, f.cuentaCliente(cli), "0", "0", "0")
	assert.Empty(t, f.movimientos.movimientos)

	v, err := f.ventaSvc().Registrar(ctx, dto.RegistrarVentaRequest{
		ClienteID: cli.String(), Total: dec("100"), MetodoPago: model.MetodoCuentaCorriente,
	})
	require.NoError(t, err)

	_, err = f.pagoSvc().Registrar(ctx, dto.RegistrarPagoRequest{
		MovimientoID: *v.MovimientoID, Monto: dec("0.004"), MetodoPago: model.MetodoEfectivo,
	})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)

	total := dec("100.001")
	_, err = f.ventaSvc().Actualizar(ctx, uuid.MustParse(v.ID), dto.ActualizarOperacionRequest{Total: &total})
	assert.ErrorIs(t, err, ErrSolicitudInvalida)

	sinTitular := chequeDeCliente(cli, "1", "10.125")
	sinTitular.ClienteID = nil
	_, err = f.chequeSvc().Crear(ctx, sinTitular)
	assert.ErrorIs(t, err, ErrSolicitudInvalida)

	assertCuenta(t, f.cuentaCliente(cli), "100", "100", "0")
	assert.Empty(t, f.pagos.pagos)
}

func TestCuentas_ActualizarCambiaTipo(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")
	m := &model.MovimientoCuenta{
		ID: uuid.New(), Tipo: model.TipoDebito, Monto: dec("300"),
		TipoPago: model.MetodoEfectivo, ClienteID: &cli, Origen: model.OrigenManual,
	}
	require.NoError(t, f.cuentas.registrar(context.Background(), nil, m))
	assertCuenta(t, f.cuentaCliente(cli), "300", "300", "0")

	require.NoError(t, f.cuentas.actualizar(context.Background(), nil, m, model.TipoCredito, dec("200")))
	assertCuenta(t, f.cuentaCliente(cli), "-200", "0", "200")
	assert.Equal(t, model.TipoCredito, f.movimientos.movimientos[m.ID].Tipo)
}

func TestCuentas_NoCambiaTipoConPagos(t *testing.T) {
	f := newFixture()
	cli := f.nuevoCliente("Kiosco Sol")
	m := &model.MovimientoCuenta{
		ID: uuid.New(), Tipo: model.TipoDebito, Monto: dec("300"),
		TipoPago: model.MetodoEfectivo, ClienteID: &cli, Origen: model.OrigenManual,
	}
	require.NoError(t, f.cuentas.registrar(context.Background(), nil, m))
	require.NoError(t, f.cuentas.registrarPago(context.Background(), nil, m,
		&model.Pago{ID: uuid.New(), Monto: dec("50"), MetodoPago: model.MetodoEfectivo}))

	err := f.cuentas.actualizar(context.Background(), nil, m, model.TipoCredito, dec("300"))
	assert.ErrorIs(t, err, ErrSolicitudInvalida)
	assertCuenta(t, f.cuentaCliente(cli), "250", "300", "50")
}

func TestCuentas_RegistrarSinTitular(t *testing.T) {
	f := newFixture()
	m := &model.MovimientoCuenta{ID: uuid.New(), Tipo: model.TipoDebito, Monto: dec("1")}
	assert.ErrorIs(t, f.cuentas.registrar(context.Background(), nil, m), ErrTitularRequerido)
	assert.Empty(t, f.movimientos.movimientos)
}

func TestCuentas_AnularEsIdempotente(t *testing.T) {
	f := newFixture()
	prov := f.nuevoProveedor("Distribuidora Norte")
	m := &model.MovimientoCuenta{
		ID: uuid.New(), Tipo: model.TipoCredito, Monto: dec("90"),
		TipoPago: model.MetodoEfectivo, ProveedorID: &prov, Origen: model.OrigenManual,
	}
	require.NoError(t, f.cuentas.registrar(context.Background(), nil, m))
	require.NoError(t, f.cuentas.anular(context.Background(), nil, m))
	require.NoError(t, f.cuentas.anular(context.Background(), nil, m))
	assertCuenta(t, f.cuentaProveedor(prov), "0", "0", "0")
}

func TestEstadoPorPagos(t *testing.T) {
	m := &model.MovimientoCuenta{Monto: dec("100"), Estado: model.EstadoMovimientoPendiente}
	assert.Equal(t, model.EstadoMovimientoPendiente, estadoPorPagos(m))

	m.Pagos = []model.Pago{{Monto: dec("100")}}
	assert.Equal(t, model.EstadoMovimientoPagado, estadoPorPagos(m))

	m.Estado = model.EstadoMovimientoAplicado
	assert.Equal(t, model.EstadoMovimientoAplicado, estadoPorPagos(m))
}
