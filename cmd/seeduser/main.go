// cmd/seeduser/main.go: creates or resets the initial administrador.
// Usage: SEED_USERNAME=admin SEED_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/config"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/infra"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	username := envOr("SEED_USERNAME", "admin")
	password := envOr("SEED_PASSWORD", "gestion2026")
	nombre := envOr("SEED_NOMBRE", "Administrador")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (username, nombre, password_hash, rol, activo)
		VALUES (?, ?, ?, ?, true)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre,
		    rol = EXCLUDED.rol,
		    activo = true
	`, username, nombre, string(hash), model.RolAdministrador)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert")
	}
	log.Info().Str("username", username).Msg("usuario administrador creado/actualizado")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
