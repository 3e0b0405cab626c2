package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cheque is a check held in cartera (received from a cliente or kept without
// titular) or issued to a proveedor. Utilizado marks a cheque that was
// endorsed to a proveedor; ProveedorID then points at the endorsee.
// Vencido is set by the daily sweep once FechaVencimiento has passed.
type Cheque struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Banco            string          `gorm:"not null"`
	Sucursal         string          `gorm:"not null"`
	Numero           string          `gorm:"type:varchar(30);not null"`
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaEmision     time.Time       `gorm:"type:date;not null"`
	FechaVencimiento time.Time       `gorm:"type:date;not null;index"`
	ClienteID        *uuid.UUID      `gorm:"type:uuid;index"`
	ProveedorID      *uuid.UUID      `gorm:"type:uuid;index"`
	Utilizado        bool            `gorm:"not null;default:false"`
	Vencido          bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Cliente   *Cliente   `gorm:"foreignKey:ClienteID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Cheque) TableName() string { return "cheques" }

// EnCarteraSQL is the SQL form of EnCartera.
const EnCarteraSQL = "proveedor_id IS NULL AND utilizado = false AND vencido = false"

// EnCartera reports whether the cheque is still ours to use: not issued to a
// proveedor, not endorsed and not expired. A cheque without titular counts.
func (c *Cheque) EnCartera() bool {
	return c.ProveedorID == nil && !c.Utilizado && !c.Vencido
}

// TitularValido mirrors the database check: both ids are only allowed once a
// cliente cheque has been endorsed.
func (c *Cheque) TitularValido() bool {
	return c.ClienteID == nil || c.ProveedorID == nil || c.Utilizado
}
