package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor represents a supplier. Same cuenta corriente shape as Cliente.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null;index"`
	Direccion   string    `gorm:"not null"`
	CUIT        string    `gorm:"column:cuit;type:varchar(13);not null"`
	Zona        string    `gorm:"type:varchar(60);not null;index"`
	Telefono    *string
	Email       *string
	Cuenta      CuentaCorriente `gorm:"embedded"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Proveedor) TableName() string { return "proveedores" }
