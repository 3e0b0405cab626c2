package service

import (
	"context"
	"fmt"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChequeService interface {
	Crear(ctx context.Context, req dto.CrearChequeRequest) (*dto.ChequeResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ChequeResponse, error)
	Listar(ctx context.Context, filter dto.ChequeFilter) (*dto.ListResponse[dto.ChequeResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarChequeRequest) (*dto.ChequeResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Endosar(ctx context.Context, id uuid.UUID, req dto.EndosarChequeRequest) (*dto.ChequeResponse, error)
	MarcarVencidos(ctx context.Context, hoy time.Time) (int64, error)
	PorVencer(ctx context.Context, dias int) ([]dto.ChequeResponse, error)
}

type chequeService struct {
	repo        repository.ChequeRepository
	movimientos repository.MovimientoRepository
	cuentas     *Cuentas
}

func NewChequeService(repo repository.ChequeRepository, movimientos repository.MovimientoRepository, cuentas *Cuentas) ChequeService {
	return &chequeService{repo: repo, movimientos: movimientos, cuentas: cuentas}
}

func mapCheque(c *model.Cheque) dto.ChequeResponse {
	return dto.ChequeResponse{
		ID:               c.ID.String(),
		Banco:            c.Banco,
		Sucursal:         c.Sucursal,
		Numero:           c.Numero,
		Monto:            c.Monto,
		FechaEmision:     formatFecha(c.FechaEmision),
		FechaVencimiento: formatFecha(c.FechaVencimiento),
		ClienteID:        idString(c.ClienteID),
		ProveedorID:      idString(c.ProveedorID),
		Utilizado:        c.Utilizado,
		Vencido:          c.Vencido,
		CreatedAt:        formatTimestamp(c.CreatedAt),
	}
}

func descripcionCheque(prefijo string, c *model.Cheque) *string {
	d := fmt.Sprintf("%s %s N° %s", prefijo, c.Banco, c.Numero)
	return &d
}

// Crear registers a cheque. A cheque received from a cliente credits the
// cliente's account; one issued to a proveedor debits the proveedor's account.
func (s *chequeService) Crear(ctx context.Context, req dto.CrearChequeRequest) (*dto.ChequeResponse, error) {
	if err := validarMonto(req.Monto); err != nil {
		return nil, err
	}
	emision, err := parseFecha(req.FechaEmision)
	if err != nil {
		return nil, err
	}
	vencimiento, err := parseFecha(req.FechaVencimiento)
	if err != nil {
		return nil, err
	}
	if antesDe(vencimiento, emision) {
		return nil, errInvalida("la fecha de vencimiento no puede ser anterior a la de emision")
	}
	clienteID, err := parseOptionalID(req.ClienteID, "cliente_id")
	if err != nil {
		return nil, err
	}
	proveedorID, err := parseOptionalID(req.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}
	if clienteID != nil && proveedorID != nil {
		return nil, errInvalida("un cheque no puede tener cliente_id y proveedor_id a la vez")
	}
	existe, err := s.repo.ExisteNumero(ctx, req.Banco, req.Numero, nil)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, errConflicto("ya existe el cheque %s del banco %s", req.Numero, req.Banco)
	}

	c := model.Cheque{
		ID:               uuid.New(),
		Banco:            req.Banco,
		Sucursal:         req.Sucursal,
		Numero:           req.Numero,
		Monto:            req.Monto,
		FechaEmision:     emision,
		FechaVencimiento: vencimiento,
		ClienteID:        clienteID,
		ProveedorID:      proveedorID,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if clienteID != nil || proveedorID != nil {
			tipo := model.TipoCredito
			if proveedorID != nil {
				tipo = model.TipoDebito
			}
			mov := &model.MovimientoCuenta{
				ID:           uuid.New(),
				Tipo:         tipo,
				Monto:        c.Monto,
				Estado:       model.EstadoMovimientoAplicado,
				TipoPago:     model.MetodoCheque,
				ClienteID:    clienteID,
				ProveedorID:  proveedorID,
				Origen:       model.OrigenCheque,
				ReferenciaID: &c.ID,
				Descripcion:  descripcionCheque("Cheque", &c),
			}
			if err := s.cuentas.registrar(ctx, tx, mov); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, tx, &c)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("cheque_id", c.ID.String()).Str("banco", c.Banco).Str("numero", c.Numero).
		Str("monto", c.Monto.StringFixed(2)).Msg("cheque registrado")
	resp := mapCheque(&c)
	return &resp, nil
}

func (s *chequeService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ChequeResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, ErrChequeNoEncontrado)
	}
	resp := mapCheque(c)
	return &resp, nil
}

func (s *chequeService) Listar(ctx context.Context, filter dto.ChequeFilter) (*dto.ListResponse[dto.ChequeResponse], error) {
	filter.Normalizar()
	cheques, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ChequeResponse, 0, len(cheques))
	for i := range cheques {
		data = append(data, mapCheque(&cheques[i]))
	}
	return &dto.ListResponse[dto.ChequeResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar edits the cheque data. A monto change is propagated to every
// movement the cheque generated (reception, issue or endorsement).
func (s *chequeService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarChequeRequest) (*dto.ChequeResponse, error) {
	var c *model.Cheque
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		c, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrChequeNoEncontrado)
		}

		if req.Banco != nil {
			c.Banco = *req.Banco
		}
		if req.Sucursal != nil {
			c.Sucursal = *req.Sucursal
		}
		if req.Numero != nil {
			c.Numero = *req.Numero
		}
		if req.Banco != nil || req.Numero != nil {
			existe, err := s.repo.ExisteNumero(ctx, c.Banco, c.Numero, &c.ID)
			if err != nil {
				return err
			}
			if existe {
				return errConflicto("ya existe el cheque %s del banco %s", c.Numero, c.Banco)
			}
		}
		if req.FechaEmision != nil {
			if c.FechaEmision, err = parseFecha(*req.FechaEmision); err != nil {
				return err
			}
		}
		if req.FechaVencimiento != nil {
			if c.FechaVencimiento, err = parseFecha(*req.FechaVencimiento); err != nil {
				return err
			}
			if !c.Utilizado {
				c.Vencido = antesDe(c.FechaVencimiento, hoy())
			}
		}
		if antesDe(c.FechaVencimiento, c.FechaEmision) {
			return errInvalida("la fecha de vencimiento no puede ser anterior a la de emision")
		}

		if req.Monto != nil {
			if err := validarMonto(*req.Monto); err != nil {
				return err
			}
		}
		if req.Monto != nil && !req.Monto.Equal(c.Monto) {
			if err := s.ajustarMovimientos(ctx, tx, c.ID, *req.Monto); err != nil {
				return err
			}
			c.Monto = *req.Monto
		}
		return s.repo.Update(ctx, tx, c)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := mapCheque(c)
	return &resp, nil
}

func (s *chequeService) ajustarMovimientos(ctx context.Context, tx *gorm.DB, chequeID uuid.UUID, monto decimal.Decimal) error {
	movs, err := s.movimientos.ListByReferencia(ctx, tx, model.OrigenCheque, chequeID)
	if err != nil {
		return err
	}
	for i := range movs {
		if err := s.cuentas.actualizar(ctx, tx, &movs[i], movs[i].Tipo, monto); err != nil {
			return err
		}
	}
	return nil
}

// Eliminar soft-deletes the cheque and reverts every movement it generated.
func (s *chequeService) Eliminar(ctx context.Context, id uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrChequeNoEncontrado)
		}
		movs, err := s.movimientos.ListByReferencia(ctx, tx, model.OrigenCheque, c.ID)
		if err != nil {
			return err
		}
		for i := range movs {
			if err := s.cuentas.anular(ctx, tx, &movs[i]); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, c.ID)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("cheque_id", id.String()).Msg("cheque eliminado")
	return nil
}

// Endosar hands a cheque en cartera to a proveedor as payment: the cheque becomes
// utilizado and its monto is debited from the proveedor's account.
func (s *chequeService) Endosar(ctx context.Context, id uuid.UUID, req dto.EndosarChequeRequest) (*dto.ChequeResponse, error) {
	proveedorID, err := parseID(req.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}

	var c *model.Cheque
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return traducir(err, ErrChequeNoEncontrado)
		}
		if c.Utilizado {
			return errInvalida("el cheque ya fue utilizado")
		}
		if c.ProveedorID != nil {
			return errInvalida("solo se pueden endosar cheques en cartera")
		}
		if c.Vencido || antesDe(c.FechaVencimiento, hoy()) {
			return errInvalida("el cheque esta vencido")
		}

		mov := &model.MovimientoCuenta{
			ID:           uuid.New(),
			Tipo:         model.TipoDebito,
			Monto:        c.Monto,
			Estado:       model.EstadoMovimientoAplicado,
			TipoPago:     model.MetodoCheque,
			ProveedorID:  &proveedorID,
			Origen:       model.OrigenCheque,
			ReferenciaID: &c.ID,
			Descripcion:  descripcionCheque("Endoso cheque", c),
		}
		if err := s.cuentas.registrar(ctx, tx, mov); err != nil {
			return err
		}
		c.ProveedorID = &proveedorID
		c.Utilizado = true
		return s.repo.Update(ctx, tx, c)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("cheque_id", id.String()).Str("proveedor_id", proveedorID.String()).Msg("cheque endosado")
	resp := mapCheque(c)
	return &resp, nil
}

// MarcarVencidos flags the unused cheques whose fecha_vencimiento is before hoy.
func (s *chequeService) MarcarVencidos(ctx context.Context, hoy time.Time) (int64, error) {
	n, err := s.repo.MarcarVencidos(ctx, hoy)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("cheques", n).Msg("cheques marcados como vencidos")
	}
	return n, nil
}

// PorVencer lists cheques en cartera that fall due between today and today+dias.
func (s *chequeService) PorVencer(ctx context.Context, dias int) ([]dto.ChequeResponse, error) {
	if dias < 0 {
		return nil, errInvalida("dias no puede ser negativo")
	}
	desde := hoy()
	cheques, err := s.repo.ListPorVencer(ctx, desde, desde.AddDate(0, 0, dias))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChequeResponse, 0, len(cheques))
	for i := range cheques {
		out = append(out, mapCheque(&cheques[i]))
	}
	return out, nil
}

// hoy is the start of the current local day.
func hoy() time.Time { return inicioDelDia(time.Now()) }
