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

type CompraService interface {
	Registrar(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.OperacionFilter) (*dto.ListResponse[dto.CompraResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOperacionRequest) (*dto.CompraResponse, error)
	Anular(ctx context.Context, id uuid.UUID) error
}

type compraService struct {
	repo    repository.CompraRepository
	cuentas *Cuentas
}

func NewCompraService(repo repository.CompraRepository, cuentas *Cuentas) CompraService {
	return &compraService{repo: repo, cuentas: cuentas}
}

func mapCompra(c *model.Compra) dto.CompraResponse {
	resp := dto.CompraResponse{
		ID:            c.ID.String(),
		Fecha:         formatFecha(c.Fecha),
		Total:         c.Total,
		ProveedorID:   c.ProveedorID.String(),
		MetodoPago:    c.MetodoPago,
		Estado:        c.Estado,
		Observaciones: c.Observaciones,
		MovimientoID:  idString(c.MovimientoID),
		CreatedAt:     formatTimestamp(c.CreatedAt),
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.RazonSocial
	}
	return resp
}

// Registrar records a purchase as a CREDITO in the proveedor's cuenta corriente.
// Unless it is bought on cuenta_corriente, it is paid on the spot.
func (s *compraService) Registrar(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := parseID(req.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	c := model.Compra{
		ID:            uuid.New(),
		Fecha:         fecha,
		Total:         req.Total,
		ProveedorID:   proveedorID,
		MetodoPago:    req.MetodoPago,
		Observaciones: req.Observaciones,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		mov, err := s.cuentas.registrarOperacion(ctx, tx, operacion{
			ID:          c.ID,
			Tipo:        model.TipoCredito,
			Origen:      model.OrigenCompra,
			Descripcion: "Compra",
			Titular:     model.Titular{ProveedorID: &proveedorID},
			Total:       c.Total,
			MetodoPago:  c.MetodoPago,
			Fecha:       fecha,
		})
		if err != nil {
			return err
		}
		c.MovimientoID = &mov.ID
		c.Estado = model.EstadoOperacion(mov.Estado)
		return s.repo.Create(ctx, tx, &c)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("compra_id", c.ID.String()).Str("proveedor_id", proveedorID.String()).
		Str("total", c.Total.StringFixed(2)).Str("metodo_pago", c.MetodoPago).Msg("compra registrada")
	resp := mapCompra(&c)
	return &resp, nil
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrCompraNoEncontrada)
	}
	resp := mapCompra(c)
	return &resp, nil
}

func (s *compraService) Listar(ctx context.Context, filter dto.OperacionFilter) (*dto.ListResponse[dto.CompraResponse], error) {
	filter.Normalizar()
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, mapCompra(&compras[i]))
	}
	return &dto.ListResponse[dto.CompraResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar edits fecha, total, metodo_pago and observaciones. A total change
// moves the proveedor's balance by the difference.
func (s *compraService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarOperacionRequest) (*dto.CompraResponse, error) {
	var c *model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		c, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrCompraNoEncontrada)
		}
		if c.Estado == model.EstadoOperacionAnulada || c.MovimientoID == nil {
			return errInvalida("la compra esta anulada")
		}
		mov, err := s.cuentas.actualizarOperacion(ctx, tx, *c.MovimientoID, req)
		if err != nil {
			return err
		}
		if req.Observaciones != nil {
			c.Observaciones = req.Observaciones
		}
		c.Fecha = mov.Fecha
		c.MetodoPago = mov.TipoPago
		c.Total = mov.Monto
		c.Estado = model.EstadoOperacion(mov.Estado)
		return s.repo.Update(ctx, tx, c)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := mapCompra(c)
	return &resp, nil
}

// Anular reverts the purchase and its pagos from the proveedor's balance and soft-deletes it.
func (s *compraService) Anular(ctx context.Context, id uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrCompraNoEncontrada)
		}
		if err := s.cuentas.anularOperacion(ctx, tx, c.MovimientoID); err != nil {
			return err
		}
		if err := s.repo.UpdateEstado(ctx, tx, c.ID, model.EstadoOperacionAnulada); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, c.ID)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("compra_id", id.String()).Msg("compra anulada")
	return nil
}
