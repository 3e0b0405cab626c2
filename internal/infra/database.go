package infra

import (
	"fmt"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and tunes the pool.
// Schema creation is done separately by RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// ChequeTitularConstraint keeps a cheque on one side unless it was endorsed.
const ChequeTitularConstraint = "chk_cheques_un_titular"

// RunMigrations creates / updates all tables with AutoMigrate and then applies
// the idempotent SQL patches GORM cannot express (partial unique indexes and
// CHECK constraints).
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Proveedor{},
		&model.MovimientoCuenta{},
		&model.Pago{},
		&model.Venta{},
		&model.Compra{},
		&model.Cheque{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches is fully idempotent: each statement is guarded so that
// re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// CUIT is unique among live titulares only; a soft-deleted cliente
		// must not block re-registering the same CUIT.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_clientes_cuit_activo
		    ON clientes (cuit) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_proveedores_cuit_activo
		    ON proveedores (cuit) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cheques_banco_numero_activo
		    ON cheques (LOWER(banco), numero) WHERE deleted_at IS NULL`,
		// Cartera / por-vencer queries in the resumen and the vencimientos cron
		`CREATE INDEX IF NOT EXISTS idx_cheques_cartera
		    ON cheques (fecha_vencimiento) WHERE utilizado = false AND vencido = false AND deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_movimientos_referencia
		    ON movimientos_cuenta (origen, referencia_id) WHERE referencia_id IS NOT NULL`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimientos_un_titular') THEN
		    ALTER TABLE movimientos_cuenta ADD CONSTRAINT chk_movimientos_un_titular
		        CHECK ((cliente_id IS NULL) <> (proveedor_id IS NULL));
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimientos_monto_positivo') THEN
		    ALTER TABLE movimientos_cuenta ADD CONSTRAINT chk_movimientos_monto_positivo CHECK (monto > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pagos_monto_positivo') THEN
		    ALTER TABLE pagos ADD CONSTRAINT chk_pagos_monto_positivo CHECK (monto > 0);
		  END IF;
		END $$`,
		`ALTER TABLE cheques DROP CONSTRAINT IF EXISTS chk_cheques_titular`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + ChequeTitularConstraint + `') THEN
		    ALTER TABLE cheques ADD CONSTRAINT ` + ChequeTitularConstraint + `
		        CHECK (cliente_id IS NULL OR proveedor_id IS NULL OR utilizado);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
