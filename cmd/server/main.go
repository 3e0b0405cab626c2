// @title          Sistema de Gestion API
// @version        1.0
// @description    Clientes, proveedores, ventas, compras, cheques y cuentas corrientes.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/config"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/infra"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/router"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger; dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid TIMEZONE")
	}
	time.Local = loc

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(rdb)
	svcs := router.NewServices(cfg, db, rdb, dispatcher)

	// Worker handlers are wired here (composition root) so that the pool
	// has access to both the services and the infrastructure.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST not set: email jobs will fail and land in the DLQ")
	}
	smtpCB := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())

	pool := worker.NewPool(rdb, dispatcher)
	pool.Register(worker.JobEstadoCuenta,
		worker.NewEstadoCuentaWorker(svcs.Cuentas, dispatcher, cfg.EmpresaNombre, cfg.PDFStoragePath))
	pool.Register(worker.JobEmail, worker.NewEmailWorker(mailer, smtpCB))
	pool.Start(ctx, cfg.WorkerPoolSize)

	scheduler, err := worker.StartVencimientosCron(worker.VencimientosConfig{
		Cheques:      svcs.Cheques,
		Emails:       dispatcher,
		AlertasEmail: cfg.AlertasEmail,
		DiasAviso:    cfg.DiasAvisoVencimiento,
		Cron:         cfg.VencimientosCron,
		Location:     loc,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule vencimientos cron")
	}
	defer scheduler.Stop()

	r := router.New(cfg, db, rdb, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
