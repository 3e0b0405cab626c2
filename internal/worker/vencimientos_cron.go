package worker

// vencimientos_cron.go
// Daily gocron job: flags cheques whose fecha_vencimiento has passed and
// mails the list of cheques en cartera due in the next DiasAviso days.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// ChequeVencimientos is implemented by service.ChequeService.
type ChequeVencimientos interface {
	MarcarVencidos(ctx context.Context, hoy time.Time) (int64, error)
	PorVencer(ctx context.Context, dias int) ([]dto.ChequeResponse, error)
}

type VencimientosConfig struct {
	Cheques      ChequeVencimientos
	Emails       EmailEncolador
	AlertasEmail string // empty disables the alert email
	DiasAviso    int
	Cron         string
	Location     *time.Location
}

// StartVencimientosCron schedules the sweep and returns the running scheduler;
// call Stop on shutdown.
func StartVencimientosCron(cfg VencimientosConfig) (*gocron.Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	s := gocron.NewScheduler(loc)
	_, err := s.Cron(cfg.Cron).Do(func() {
		RevisarVencimientos(context.Background(), cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("vencimientos cron %q: %w", cfg.Cron, err)
	}
	s.StartAsync()
	log.Info().Str("cron", cfg.Cron).Msg("vencimientos_cron: started")
	return s, nil
}

// RevisarVencimientos runs one sweep. Failures are logged; the next tick retries.
func RevisarVencimientos(ctx context.Context, cfg VencimientosConfig) {
	y, m, d := time.Now().Date()
	hoy := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	n, err := cfg.Cheques.MarcarVencidos(ctx, hoy)
	if err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: marcar vencidos")
	} else {
		chequesVencidos.Add(float64(n))
	}

	if cfg.AlertasEmail == "" || cfg.Emails == nil {
		return
	}
	cheques, err := cfg.Cheques.PorVencer(ctx, cfg.DiasAviso)
	if err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: listar por vencer")
		return
	}
	if len(cheques) == 0 {
		return
	}
	email := EmailPayload{
		To:      cfg.AlertasEmail,
		Subject: fmt.Sprintf("%d cheque(s) vencen en los proximos %d dias", len(cheques), cfg.DiasAviso),
		Body:    cuerpoAlerta(cheques),
	}
	if err := cfg.Emails.EnqueueEmail(ctx, email); err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: encolar alerta")
	}
}

func cuerpoAlerta(cheques []dto.ChequeResponse) string {
	var b strings.Builder
	b.WriteString("Cheques en cartera proximos a vencer:\n\n")
	for _, c := range cheques {
		fmt.Fprintf(&b, "- %s  %s N° %s  $%s\n", c.FechaVencimiento, c.Banco, c.Numero, c.Monto.StringFixed(2))
	}
	return b.String()
}
