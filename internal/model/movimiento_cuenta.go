package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de movimiento.
//   - pendiente: can receive pagos
//   - pagado: fully covered by pagos
//   - aplicado: account-level credit/debit that is not payable (cheques)
//   - anulado: every effect reverted
const (
	EstadoMovimientoPendiente = "pendiente"
	EstadoMovimientoPagado    = "pagado"
	EstadoMovimientoAplicado  = "aplicado"
	EstadoMovimientoAnulado   = "anulado"
)

// Origen de movimiento.
const (
	OrigenVenta  = "venta"
	OrigenCompra = "compra"
	OrigenCheque = "cheque"
	OrigenManual = "manual"
)

// MovimientoCuenta is one entry of a cuenta corriente. Exactly one of
// ClienteID/ProveedorID is set.
type MovimientoCuenta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo         string          `gorm:"type:varchar(10);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	TipoPago     string          `gorm:"type:varchar(20);not null"`
	ClienteID    *uuid.UUID      `gorm:"type:uuid;index"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	Origen       string          `gorm:"type:varchar(20);not null;default:'manual'"`
	ReferenciaID *uuid.UUID      `gorm:"type:uuid;index"`
	Descripcion  *string
	Fecha        time.Time `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Pagos []Pago `gorm:"foreignKey:MovimientoID"`
}

func (MovimientoCuenta) TableName() string { return "movimientos_cuenta" }

// Titular returns the party the movement belongs to.
func (m *MovimientoCuenta) Titular() Titular {
	return Titular{ClienteID: m.ClienteID, ProveedorID: m.ProveedorID}
}

// Pagado sums the non-deleted pagos loaded on the movement.
func (m *MovimientoCuenta) Pagado() decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.Pagos {
		if p.DeletedAt.Valid {
			continue
		}
		total = total.Add(p.Monto)
	}
	return total
}

// Pendiente is Monto minus what has been paid.
func (m *MovimientoCuenta) Pendiente() decimal.Decimal {
	return m.Monto.Sub(m.Pagado())
}

// Pago settles (part of) a MovimientoCuenta.
type Pago struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Monto         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MovimientoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPago    string          `gorm:"type:varchar(20);not null"`
	Fecha         time.Time       `gorm:"not null"`
	Observaciones *string
	CreatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Pago) TableName() string { return "pagos" }
