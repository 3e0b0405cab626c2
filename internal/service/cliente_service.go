package service

import (
	"context"
	"errors"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/cuit"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.TitularFilter) (*dto.ListResponse[dto.ClienteResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func mapCliente(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:          c.ID.String(),
		RazonSocial: c.RazonSocial,
		Direccion:   c.Direccion,
		CUIT:        c.CUIT,
		Zona:        c.Zona,
		Telefono:    c.Telefono,
		Email:       c.Email,
		Saldo:       c.Cuenta.Saldo,
		Debe:        c.Cuenta.Debe,
		Haber:       c.Cuenta.Haber,
		CreatedAt:   formatTimestamp(c.CreatedAt),
		UpdatedAt:   formatTimestamp(c.UpdatedAt),
	}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	numero := cuit.Normalizar(req.CUIT)
	if err := s.cuitDisponible(ctx, numero, uuid.Nil); err != nil {
		return nil, err
	}

	c := &model.Cliente{
		RazonSocial: req.RazonSocial,
		Direccion:   req.Direccion,
		CUIT:        numero,
		Zona:        req.Zona,
		Telefono:    req.Telefono,
		Email:       req.Email,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("cliente_id", c.ID.String()).Str("cuit", c.CUIT).Msg("cliente creado")
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrClienteNoEncontrado)
	}
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.TitularFilter) (*dto.ListResponse[dto.ClienteResponse], error) {
	filter.Normalizar()
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		data = append(data, mapCliente(&clientes[i]))
	}
	return &dto.ListResponse[dto.ClienteResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrClienteNoEncontrado)
	}
	if req.CUIT != nil {
		numero := cuit.Normalizar(*req.CUIT)
		if numero != c.CUIT {
			if err := s.cuitDisponible(ctx, numero, c.ID); err != nil {
				return nil, err
			}
			c.CUIT = numero
		}
	}
	if req.RazonSocial != nil {
		c.RazonSocial = *req.RazonSocial
	}
	if req.Direccion != nil {
		c.Direccion = *req.Direccion
	}
	if req.Zona != nil {
		c.Zona = *req.Zona
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCliente(c)
	return &resp, nil
}

// Eliminar soft-deletes the cliente. A cliente with an open balance cannot be removed.
func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducir(err, ErrClienteNoEncontrado)
	}
	if !c.Cuenta.Saldo.IsZero() {
		return errConflicto("el cliente tiene saldo pendiente (%s)", c.Cuenta.Saldo.StringFixed(2))
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("cliente_id", id.String()).Msg("cliente eliminado")
	return nil
}

func (s *clienteService) cuitDisponible(ctx context.Context, numero string, actual uuid.UUID) error {
	existing, err := s.repo.FindByCUIT(ctx, numero)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != actual {
		return errConflicto("ya existe un cliente con CUIT %s", numero)
	}
	return nil
}
