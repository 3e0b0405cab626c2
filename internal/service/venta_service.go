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

type VentaService interface {
	Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.OperacionFilter) (*dto.ListResponse[dto.VentaResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOperacionRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, id uuid.UUID) error
}

type ventaService struct {
	repo    repository.VentaRepository
	cuentas *Cuentas
}

func NewVentaService(repo repository.VentaRepository, cuentas *Cuentas) VentaService {
	return &ventaService{repo: repo, cuentas: cuentas}
}

func mapVenta(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:            v.ID.String(),
		Fecha:         formatFecha(v.Fecha),
		Total:         v.Total,
		ClienteID:     v.ClienteID.String(),
		MetodoPago:    v.MetodoPago,
		Estado:        v.Estado,
		Observaciones: v.Observaciones,
		MovimientoID:  idString(v.MovimientoID),
		CreatedAt:     formatTimestamp(v.CreatedAt),
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.RazonSocial
	}
	return resp
}

// Registrar records a sale as a DEBITO in the cliente's cuenta corriente.
// Unless it is sold on cuenta_corriente, the sale is paid on the spot with a
// pago for the full total.
func (s *ventaService) Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	clienteID, err := parseID(req.ClienteID, "cliente_id")
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	v := model.Venta{
		ID:            uuid.New(),
		Fecha:         fecha,
		Total:         req.Total,
		ClienteID:     clienteID,
		MetodoPago:    req.MetodoPago,
		Observaciones: req.Observaciones,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		mov, err := s.cuentas.registrarOperacion(ctx, tx, operacion{
			ID:          v.ID,
			Tipo:        model.TipoDebito,
			Origen:      model.OrigenVenta,
			Descripcion: "Venta",
			Titular:     model.Titular{ClienteID: &clienteID},
			Total:       v.Total,
			MetodoPago:  v.MetodoPago,
			Fecha:       fecha,
		})
		if err != nil {
			return err
		}
		v.MovimientoID = &mov.ID
		v.Estado = model.EstadoOperacion(mov.Estado)
		return s.repo.Create(ctx, tx, &v)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("venta_id", v.ID.String()).Str("cliente_id", clienteID.String()).
		Str("total", v.Total.StringFixed(2)).Str("metodo_pago", v.MetodoPago).Msg("venta registrada")
	resp := mapVenta(&v)
	return &resp, nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrVentaNoEncontrada)
	}
	resp := mapVenta(v)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.OperacionFilter) (*dto.ListResponse[dto.VentaResponse], error) {
	filter.Normalizar()
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, mapVenta(&ventas[i]))
	}
	return &dto.ListResponse[dto.VentaResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar edits fecha, total, metodo_pago and observaciones. A total change
// moves the cliente's balance by the difference.
func (s *ventaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOperacionRequest) (*dto.VentaResponse, error) {
	var v *model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		v, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrVentaNoEncontrada)
		}
		if v.Estado == model.EstadoOperacionAnulada || v.MovimientoID == nil {
			return errInvalida("la venta esta anulada")
		}
		mov, err := s.cuentas.actualizarOperacion(ctx, tx, *v.MovimientoID, req)
		if err != nil {
			return err
		}
		if req.Observaciones != nil {
			v.Observaciones = req.Observaciones
		}
		v.Fecha = mov.Fecha
		v.MetodoPago = mov.TipoPago
		v.Total = mov.Monto
		v.Estado = model.EstadoOperacion(mov.Estado)
		return s.repo.Update(ctx, tx, v)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := mapVenta(v)
	return &resp, nil
}

// Anular reverts the sale and its pagos from the cliente's balance and soft-deletes it.
func (s *ventaService) Anular(ctx context.Context, id uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrVentaNoEncontrada)
		}
		if err := s.cuentas.anularOperacion(ctx, tx, v.MovimientoID); err != nil {
			return err
		}
		if err := s.repo.UpdateEstado(ctx, tx, v.ID, model.EstadoOperacionAnulada); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, v.ID)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("venta_id", id.String()).Msg("venta anulada")
	return nil
}
