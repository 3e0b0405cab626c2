package service

import (
	"context"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MovimientoService interface {
	Crear(ctx context.Context, req dto.CrearMovimientoRequest) (*dto.MovimientoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error)
	Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.ListResponse[dto.MovimientoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMovimientoRequest) (*dto.MovimientoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type movimientoService struct {
	repo    repository.MovimientoRepository
	cuentas *Cuentas
}

func NewMovimientoService(repo repository.MovimientoRepository, cuentas *Cuentas) MovimientoService {
	return &movimientoService{repo: repo, cuentas: cuentas}
}

func mapPago(p *model.Pago) dto.PagoResponse {
	return dto.PagoResponse{
		ID:            p.ID.String(),
		Monto:         p.Monto,
		MovimientoID:  p.MovimientoID.String(),
		MetodoPago:    p.MetodoPago,
		Fecha:         formatFecha(p.Fecha),
		Observaciones: p.Observaciones,
	}
}

func mapMovimiento(m *model.MovimientoCuenta) dto.MovimientoResponse {
	pagos := make([]dto.PagoResponse, 0, len(m.Pagos))
	for i := range m.Pagos {
		pagos = append(pagos, mapPago(&m.Pagos[i]))
	}
	return dto.MovimientoResponse{
		ID:           m.ID.String(),
		Tipo:         m.Tipo,
		Monto:        m.Monto,
		Pagado:       m.Pagado(),
		Pendiente:    m.Pendiente(),
		Estado:       m.Estado,
		TipoPago:     m.TipoPago,
		ClienteID:    idString(m.ClienteID),
		ProveedorID:  idString(m.ProveedorID),
		Origen:       m.Origen,
		ReferenciaID: idString(m.ReferenciaID),
		Descripcion:  m.Descripcion,
		Fecha:        formatFecha(m.Fecha),
		Pagos:        pagos,
	}
}

func (s *movimientoService) Crear(ctx context.Context, req dto.CrearMovimientoRequest) (*dto.MovimientoResponse, error) {
	titular, err := parseTitular(req.ClienteID, req.ProveedorID)
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	m := &model.MovimientoCuenta{
		ID:          uuid.New(),
		Tipo:        req.Tipo,
		Monto:       req.Monto,
		Estado:      model.EstadoMovimientoPendiente,
		TipoPago:    req.TipoPago,
		ClienteID:   titular.ClienteID,
		ProveedorID: titular.ProveedorID,
		Origen:      model.OrigenManual,
		Descripcion: req.Descripcion,
		Fecha:       fecha,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.cuentas.registrar(ctx, tx, m)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("movimiento_id", m.ID.String()).Str("tipo", m.Tipo).
		Str("monto", m.Monto.StringFixed(2)).Msg("movimiento manual registrado")
	resp := mapMovimiento(m)
	return &resp, nil
}

func (s *movimientoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrMovimientoNoEncontrado)
	}
	resp := mapMovimiento(m)
	return &resp, nil
}

func (s *movimientoService) Listar(ctx context.Context, filter dto.MovimientoFilter) (*dto.ListResponse[dto.MovimientoResponse], error) {
	filter.Normalizar()
	movs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, mapMovimiento(&movs[i]))
	}
	return &dto.ListResponse[dto.MovimientoResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar edits a manual movement. Movements generated by ventas, compras
// or cheques are edited through their origin.
func (s *movimientoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMovimientoRequest) (*dto.MovimientoResponse, error) {
	var m *model.MovimientoCuenta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		m, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrMovimientoNoEncontrado)
		}
		if err := soloManual(m); err != nil {
			return err
		}
		if req.Fecha != nil {
			if m.Fecha, err = parseFecha(*req.Fecha); err != nil {
				return err
			}
		}
		if req.TipoPago != nil {
			m.TipoPago = *req.TipoPago
		}
		if req.Descripcion != nil {
			m.Descripcion = req.Descripcion
		}
		tipo, monto := m.Tipo, m.Monto
		if req.Tipo != nil {
			tipo = *req.Tipo
		}
		if req.Monto != nil {
			monto = *req.Monto
		}
		return s.cuentas.actualizar(ctx, tx, m, tipo, monto)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := mapMovimiento(m)
	return &resp, nil
}

// Eliminar anula a manual movement together with its pagos.
func (s *movimientoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		m, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrMovimientoNoEncontrado)
		}
		if err := soloManual(m); err != nil {
			return err
		}
		return s.cuentas.anular(ctx, tx, m)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("movimiento_id", id.String()).Msg("movimiento anulado")
	return nil
}

func soloManual(m *model.MovimientoCuenta) error {
	if m.Origen != model.OrigenManual {
		return errInvalida("el movimiento fue generado por %s; modifiquelo desde su origen", m.Origen)
	}
	return nil
}
