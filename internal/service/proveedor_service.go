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

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, filter dto.TitularFilter) (*dto.ListResponse[dto.ProveedorResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func mapProveedor(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:          p.ID.String(),
		RazonSocial: p.RazonSocial,
		Direccion:   p.Direccion,
		CUIT:        p.CUIT,
		Zona:        p.Zona,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Saldo:       p.Cuenta.Saldo,
		Debe:        p.Cuenta.Debe,
		Haber:       p.Cuenta.Haber,
		CreatedAt:   formatTimestamp(p.CreatedAt),
		UpdatedAt:   formatTimestamp(p.UpdatedAt),
	}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	numero := cuit.Normalizar(req.CUIT)
	if err := s.cuitDisponible(ctx, numero, uuid.Nil); err != nil {
		return nil, err
	}

	p := &model.Proveedor{
		RazonSocial: req.RazonSocial,
		Direccion:   req.Direccion,
		CUIT:        numero,
		Zona:        req.Zona,
		Telefono:    req.Telefono,
		Email:       req.Email,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("proveedor_id", p.ID.String()).Str("cuit", p.CUIT).Msg("proveedor creado")
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrProveedorNoEncontrado)
	}
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) Listar(ctx context.Context, filter dto.TitularFilter) (*dto.ListResponse[dto.ProveedorResponse], error) {
	filter.Normalizar()
	proveedores, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		data = append(data, mapProveedor(&proveedores[i]))
	}
	return &dto.ListResponse[dto.ProveedorResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrProveedorNoEncontrado)
	}
	if req.CUIT != nil {
		numero := cuit.Normalizar(*req.CUIT)
		if numero != p.CUIT {
			if err := s.cuitDisponible(ctx, numero, p.ID); err != nil {
				return nil, err
			}
			p.CUIT = numero
		}
	}
	if req.RazonSocial != nil {
		p.RazonSocial = *req.RazonSocial
	}
	if req.Direccion != nil {
		p.Direccion = *req.Direccion
	}
	if req.Zona != nil {
		p.Zona = *req.Zona
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProveedor(p)
	return &resp, nil
}

// Eliminar soft-deletes the proveedor. A proveedor with an open balance cannot be removed.
func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducir(err, ErrProveedorNoEncontrado)
	}
	if !p.Cuenta.Saldo.IsZero() {
		return errConflicto("el proveedor tiene saldo pendiente (%s)", p.Cuenta.Saldo.StringFixed(2))
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("proveedor_id", id.String()).Msg("proveedor eliminado")
	return nil
}

func (s *proveedorService) cuitDisponible(ctx context.Context, numero string, actual uuid.UUID) error {
	existing, err := s.repo.FindByCUIT(ctx, numero)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != actual {
		return errConflicto("ya existe un proveedor con CUIT %s", numero)
	}
	return nil
}
