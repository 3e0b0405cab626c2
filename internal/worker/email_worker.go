package worker

// email_worker.go
// Processes jobs from QueueEmail: plain-text notifications with an optional
// attachment (estado de cuenta PDF, vencimientos alert).

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailPayload is the job body sent to QueueEmail.
type EmailPayload struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachment_path,omitempty"`
}

// Mailer is implemented by *infra.Mailer.
type Mailer interface {
	Send(to, subject, body, attachPath string) error
}

// Breaker is implemented by *infra.CircuitBreaker.
type Breaker interface {
	Execute(fn func() error) error
}

// EmailWorker sends emails through the SMTP circuit breaker.
type EmailWorker struct {
	mailer  Mailer
	breaker Breaker
}

func NewEmailWorker(mailer Mailer, breaker Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p EmailPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("%w: payload invalido: %v", ErrPermanente, err)
	}
	if p.To == "" {
		return fmt.Errorf("%w: destinatario vacio", ErrPermanente)
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.Send(p.To, p.Subject, p.Body, p.AttachmentPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", p.To).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", p.To).Str("subject", p.Subject).Msg("email_worker: email sent")
	return nil
}
