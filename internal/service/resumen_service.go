package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	resumenCacheKey = "resumen:v1"
	resumenCacheTTL = 60 * time.Second
)

type ResumenService interface {
	Obtener(ctx context.Context) (*dto.ResumenResponse, error)
}

type resumenService struct {
	repo      repository.ResumenRepository
	rdb       *redis.Client // nil disables the cache
	diasAviso int
}

func NewResumenService(repo repository.ResumenRepository, rdb *redis.Client, diasAviso int) ResumenService {
	if diasAviso <= 0 {
		diasAviso = 7
	}
	return &resumenService{repo: repo, rdb: rdb, diasAviso: diasAviso}
}

// Obtener serves the dashboard totals from Redis when fresh and recomputes them
// otherwise. Cache failures are logged and never fail the request.
func (s *resumenService) Obtener(ctx context.Context) (*dto.ResumenResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, resumenCacheKey).Bytes(); err == nil {
			var resp dto.ResumenResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("resumen: redis get failed")
		}
	}

	resp, err := s.calcular(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, resumenCacheKey, data, resumenCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("resumen: redis set failed")
			}
		}
	}
	return resp, nil
}

func (s *resumenService) calcular(ctx context.Context) (*dto.ResumenResponse, error) {
	clientes, err := s.repo.DeudaClientes(ctx)
	if err != nil {
		return nil, err
	}
	proveedores, err := s.repo.DeudaProveedores(ctx)
	if err != nil {
		return nil, err
	}
	cartera, err := s.repo.ChequesEnCartera(ctx)
	if err != nil {
		return nil, err
	}
	desde := hoy()
	porVencer, err := s.repo.ChequesPorVencer(ctx, desde, desde.AddDate(0, 0, s.diasAviso))
	if err != nil {
		return nil, err
	}

	return &dto.ResumenResponse{
		DeudaClientes:         clientes.Monto,
		ClientesConSaldo:      clientes.Cantidad,
		DeudaProveedores:      proveedores.Monto,
		ProveedoresConSaldo:   proveedores.Cantidad,
		ChequesEnCartera:      cartera.Cantidad,
		MontoChequesCartera:   cartera.Monto,
		ChequesPorVencer:      porVencer.Cantidad,
		MontoChequesPorVencer: porVencer.Monto,
		DiasAviso:             s.diasAviso,
		GeneradoAt:            formatTimestamp(time.Now()),
	}, nil
}
