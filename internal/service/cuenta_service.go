package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/infra"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EstadoCuentaEncolador is implemented by *worker.Dispatcher.
type EstadoCuentaEncolador interface {
	EnqueueEstadoCuenta(ctx context.Context, payload interface{}) error
}

// CuentaService builds the estado de cuenta of a cliente or proveedor.
type CuentaService interface {
	EstadoCuenta(ctx context.Context, t model.Titular, filter dto.EstadoCuentaFilter) (*dto.EstadoCuentaResponse, error)
	ExportarXLSX(ctx context.Context, t model.Titular, filter dto.EstadoCuentaFilter) ([]byte, string, error)
	EnviarEstadoCuenta(ctx context.Context, t model.Titular) (*dto.EnvioEstadoCuentaResponse, error)
}

type cuentaService struct {
	clientes    repository.ClienteRepository
	proveedores repository.ProveedorRepository
	movimientos repository.MovimientoRepository
	encolador   EstadoCuentaEncolador
}

func NewCuentaService(
	clientes repository.ClienteRepository,
	proveedores repository.ProveedorRepository,
	movimientos repository.MovimientoRepository,
	encolador EstadoCuentaEncolador,
) CuentaService {
	return &cuentaService{clientes: clientes, proveedores: proveedores, movimientos: movimientos, encolador: encolador}
}

// cabecera loads the titular data printed on the statement.
func (s *cuentaService) cabecera(ctx context.Context, t model.Titular) (*dto.EstadoCuentaResponse, error) {
	if !t.Valido() {
		return nil, ErrTitularRequerido
	}
	if t.ClienteID != nil {
		c, err := s.clientes.FindByID(ctx, *t.ClienteID)
		if err != nil {
			return nil, traducir(err, ErrClienteNoEncontrado)
		}
		return &dto.EstadoCuentaResponse{
			Titular: "cliente", TitularID: c.ID.String(),
			RazonSocial: c.RazonSocial, CUIT: c.CUIT, Email: c.Email,
		}, nil
	}
	p, err := s.proveedores.FindByID(ctx, *t.ProveedorID)
	if err != nil {
		return nil, traducir(err, ErrProveedorNoEncontrado)
	}
	return &dto.EstadoCuentaResponse{
		Titular: "proveedor", TitularID: p.ID.String(),
		RazonSocial: p.RazonSocial, CUIT: p.CUIT, Email: p.Email,
	}, nil
}

func (s *cuentaService) EstadoCuenta(ctx context.Context, t model.Titular, filter dto.EstadoCuentaFilter) (*dto.EstadoCuentaResponse, error) {
	ec, err := s.cabecera(ctx, t)
	if err != nil {
		return nil, err
	}
	var desde, hasta time.Time
	if filter.Desde != "" {
		if desde, err = parseFecha(filter.Desde); err != nil {
			return nil, err
		}
	}
	if filter.Hasta != "" {
		if hasta, err = parseFecha(filter.Hasta); err != nil {
			return nil, err
		}
	}
	if !desde.IsZero() && !hasta.IsZero() && hasta.Before(desde) {
		return nil, errInvalida("el rango de fechas es invalido")
	}

	movs, err := s.movimientos.ListCuenta(ctx, t)
	if err != nil {
		return nil, err
	}

	ec.Desde, ec.Hasta = filter.Desde, filter.Hasta
	ec.SaldoAnterior, ec.Debe, ec.Haber = decimal.Zero, decimal.Zero, decimal.Zero
	ec.Lineas = []dto.LineaCuenta{}
	saldo := decimal.Zero
	for _, l := range lineasCuenta(movs) {
		dia := l.dia
		if !hasta.IsZero() && dia.After(hasta) {
			continue
		}
		saldo = saldo.Add(l.Debe).Sub(l.Haber)
		if !desde.IsZero() && dia.Before(desde) {
			ec.SaldoAnterior = saldo
			continue
		}
		l.Saldo = saldo
		ec.Debe = ec.Debe.Add(l.Debe)
		ec.Haber = ec.Haber.Add(l.Haber)
		ec.Lineas = append(ec.Lineas, l.LineaCuenta)
	}
	ec.Saldo = saldo
	return ec, nil
}

type lineaOrdenada struct {
	dto.LineaCuenta
	dia time.Time
}

// lineasCuenta flattens movements and their pagos into statement lines ordered
// by day. Within a day a movement precedes its own pagos.
func lineasCuenta(movs []model.MovimientoCuenta) []lineaOrdenada {
	var lineas []lineaOrdenada
	for i := range movs {
		m := &movs[i]
		lineas = append(lineas, nuevaLinea(m.Fecha, conceptoMovimiento(m), m.Origen, m.Tipo, m.Monto, m.ID.String(), nil))
		for j := range m.Pagos {
			p := &m.Pagos[j]
			pagoID := p.ID.String()
			lineas = append(lineas, nuevaLinea(p.Fecha, "Pago "+p.MetodoPago, "pago",
				model.TipoInverso(m.Tipo), p.Monto, m.ID.String(), &pagoID))
		}
	}
	sort.SliceStable(lineas, func(a, b int) bool { return lineas[a].dia.Before(lineas[b].dia) })
	return lineas
}

func nuevaLinea(fecha time.Time, concepto, origen, tipo string, monto decimal.Decimal, movID string, pagoID *string) lineaOrdenada {
	l := lineaOrdenada{
		LineaCuenta: dto.LineaCuenta{
			Fecha:        formatFecha(fecha),
			Concepto:     concepto,
			Origen:       origen,
			Debe:         decimal.Zero,
			Haber:        decimal.Zero,
			MovimientoID: movID,
			PagoID:       pagoID,
		},
		dia: inicioDelDia(fecha),
	}
	if tipo == model.TipoDebito {
		l.Debe = monto
	} else {
		l.Haber = monto
	}
	return l
}

func conceptoMovimiento(m *model.MovimientoCuenta) string {
	if m.Descripcion != nil && *m.Descripcion != "" {
		return *m.Descripcion
	}
	if m.Origen == model.OrigenManual {
		return "Movimiento manual"
	}
	return m.Origen
}

func (s *cuentaService) ExportarXLSX(ctx context.Context, t model.Titular, filter dto.EstadoCuentaFilter) ([]byte, string, error) {
	ec, err := s.EstadoCuenta(ctx, t, filter)
	if err != nil {
		return nil, "", err
	}
	data, err := infra.GenerarEstadoCuentaXLSX(ec)
	if err != nil {
		return nil, "", err
	}
	return data, infra.NombreArchivoEstadoCuenta(ec, "xlsx"), nil
}

// EnviarEstadoCuenta queues the PDF statement to be mailed to the titular's email.
func (s *cuentaService) EnviarEstadoCuenta(ctx context.Context, t model.Titular) (*dto.EnvioEstadoCuentaResponse, error) {
	ec, err := s.cabecera(ctx, t)
	if err != nil {
		return nil, err
	}
	if ec.Email == nil || *ec.Email == "" {
		return nil, errInvalida("el %s no tiene email registrado", ec.Titular)
	}
	if s.encolador == nil {
		return nil, errors.New("cola de envios no disponible")
	}
	payload := worker.EstadoCuentaPayload{
		ClienteID:   idString(t.ClienteID),
		ProveedorID: idString(t.ProveedorID),
		Email:       *ec.Email,
	}
	if err := s.encolador.EnqueueEstadoCuenta(ctx, payload); err != nil {
		return nil, fmt.Errorf("encolar estado de cuenta: %w", err)
	}
	log.Info().Str("titular", ec.Titular).Str("titular_id", ec.TitularID).Str("email", *ec.Email).
		Msg("estado de cuenta encolado")
	return &dto.EnvioEstadoCuentaResponse{Encolado: true, Email: *ec.Email}, nil
}
