package worker

// estado_cuenta_worker.go
// Processes jobs from QueueEstadoCuenta: renders the full statement of a
// cliente or proveedor as PDF and hands it to the email queue.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/infra"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EstadoCuentaPayload identifies the titular (exactly one id set) and the recipient.
type EstadoCuentaPayload struct {
	ClienteID   *string `json:"cliente_id,omitempty"`
	ProveedorID *string `json:"proveedor_id,omitempty"`
	Email       string  `json:"email"`
}

// EstadoCuentaBuilder is implemented by service.CuentaService.
type EstadoCuentaBuilder interface {
	EstadoCuenta(ctx context.Context, t model.Titular, filter dto.EstadoCuentaFilter) (*dto.EstadoCuentaResponse, error)
}

// EmailEncolador is implemented by *Dispatcher.
type EmailEncolador interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

type EstadoCuentaWorker struct {
	builder     EstadoCuentaBuilder
	emails      EmailEncolador
	empresa     string
	storagePath string
}

func NewEstadoCuentaWorker(builder EstadoCuentaBuilder, emails EmailEncolador, empresa, storagePath string) *EstadoCuentaWorker {
	return &EstadoCuentaWorker{builder: builder, emails: emails, empresa: empresa, storagePath: storagePath}
}

func (w *EstadoCuentaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p EstadoCuentaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("%w: payload invalido: %v", ErrPermanente, err)
	}
	t, err := p.titular()
	if err != nil {
		return err
	}
	if p.Email == "" {
		return fmt.Errorf("%w: email vacio", ErrPermanente)
	}

	ec, err := w.builder.EstadoCuenta(ctx, t, dto.EstadoCuentaFilter{})
	if err != nil {
		if noEncontrado(err) {
			return fmt.Errorf("%w: estado de cuenta: %v", ErrPermanente, err)
		}
		return fmt.Errorf("estado de cuenta: %w", err)
	}
	path, err := infra.GenerarEstadoCuentaPDF(ec, w.empresa, w.storagePath)
	if err != nil {
		return err
	}

	email := EmailPayload{
		To:      p.Email,
		Subject: fmt.Sprintf("%s - Estado de cuenta %s", w.empresa, ec.RazonSocial),
		Body: fmt.Sprintf("Estimado/a %s:\n\nAdjuntamos su estado de cuenta corriente. Saldo a la fecha: $%s.\n\nSaludos,\n%s",
			ec.RazonSocial, ec.Saldo.StringFixed(2), w.empresa),
		AttachmentPath: path,
	}
	if err := w.emails.EnqueueEmail(ctx, email); err != nil {
		return fmt.Errorf("encolar email: %w", err)
	}
	log.Info().Str("titular", ec.Titular).Str("titular_id", ec.TitularID).Str("pdf", path).
		Msg("estado_cuenta_worker: PDF generado")
	return nil
}

// noEncontrado reports whether err says the titular does not exist; retrying
// cannot make it appear.
func noEncontrado(err error) bool {
	var nf interface{ NoEncontrado() bool }
	return errors.As(err, &nf) && nf.NoEncontrado()
}

func (p EstadoCuentaPayload) titular() (model.Titular, error) {
	var t model.Titular
	parse := func(s *string) (*uuid.UUID, error) {
		if s == nil {
			return nil, nil
		}
		id, err := uuid.Parse(*s)
		if err != nil {
			return nil, fmt.Errorf("%w: id invalido %q", ErrPermanente, *s)
		}
		return &id, nil
	}
	var err error
	if t.ClienteID, err = parse(p.ClienteID); err != nil {
		return t, err
	}
	if t.ProveedorID, err = parse(p.ProveedorID); err != nil {
		return t, err
	}
	if !t.Valido() {
		return t, fmt.Errorf("%w: se requiere exactamente un titular", ErrPermanente)
	}
	return t, nil
}
