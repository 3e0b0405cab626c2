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

type PagoService interface {
	Registrar(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error)
	Listar(ctx context.Context, filter dto.PagoFilter) (*dto.ListResponse[dto.PagoResponse], error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pagoService struct {
	repo        repository.PagoRepository
	movimientos repository.MovimientoRepository
	ventas      repository.VentaRepository
	compras     repository.CompraRepository
	cuentas     *Cuentas
}

func NewPagoService(
	repo repository.PagoRepository,
	movimientos repository.MovimientoRepository,
	ventas repository.VentaRepository,
	compras repository.CompraRepository,
	cuentas *Cuentas,
) PagoService {
	return &pagoService{repo: repo, movimientos: movimientos, ventas: ventas, compras: compras, cuentas: cuentas}
}

// Registrar applies a pago to a pending movement and keeps the estado of
// the originating venta/compra in sync.
func (s *pagoService) Registrar(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	movID, err := parseID(req.MovimientoID, "movimiento_id")
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	p := &model.Pago{
		ID:            uuid.New(),
		Monto:         req.Monto,
		MetodoPago:    req.MetodoPago,
		Fecha:         fecha,
		Observaciones: req.Observaciones,
	}
	txErr := runTx(ctx, s.movimientos.DB(), func(tx *gorm.DB) error {
		m, err := s.movimientos.FindByIDForUpdate(ctx, tx, movID)
		if err != nil {
			return traducir(err, ErrMovimientoNoEncontrado)
		}
		if err := s.cuentas.registrarPago(ctx, tx, m, p); err != nil {
			return err
		}
		return s.sincronizarOrigen(ctx, tx, m)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("pago_id", p.ID.String()).Str("movimiento_id", movID.String()).
		Str("monto", p.Monto.StringFixed(2)).Str("metodo_pago", p.MetodoPago).Msg("pago registrado")
	resp := mapPago(p)
	return &resp, nil
}

func (s *pagoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PagoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrPagoNoEncontrado)
	}
	resp := mapPago(p)
	return &resp, nil
}

func (s *pagoService) Listar(ctx context.Context, filter dto.PagoFilter) (*dto.ListResponse[dto.PagoResponse], error) {
	filter.Normalizar()
	pagos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PagoResponse, 0, len(pagos))
	for i := range pagos {
		data = append(data, mapPago(&pagos[i]))
	}
	return &dto.ListResponse[dto.PagoResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Eliminar reverts the pago and reopens its movement.
func (s *pagoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducir(err, ErrPagoNoEncontrado)
	}
	txErr := runTx(ctx, s.movimientos.DB(), func(tx *gorm.DB) error {
		m, err := s.movimientos.FindByIDForUpdate(ctx, tx, p.MovimientoID)
		if err != nil {
			return traducir(err, ErrMovimientoNoEncontrado)
		}
		if err := s.cuentas.eliminarPago(ctx, tx, m, p.ID); err != nil {
			return err
		}
		return s.sincronizarOrigen(ctx, tx, m)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("pago_id", id.String()).Msg("pago eliminado")
	return nil
}

func (s *pagoService) sincronizarOrigen(ctx context.Context, tx *gorm.DB, m *model.MovimientoCuenta) error {
	if m.ReferenciaID == nil {
		return nil
	}
	estado := model.EstadoOperacion(m.Estado)
	switch m.Origen {
	case model.OrigenVenta:
		return s.ventas.UpdateEstado(ctx, tx, *m.ReferenciaID, estado)
	case model.OrigenCompra:
		return s.compras.UpdateEstado(ctx, tx, *m.ReferenciaID, estado)
	}
	return nil
}
