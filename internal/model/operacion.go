package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de venta y compra.
const (
	EstadoOperacionPendiente = "pendiente"
	EstadoOperacionPagada    = "pagada"
	EstadoOperacionAnulada   = "anulada"
)

// Metodos de pago aceptados en ventas, compras, pagos y movimientos.
const (
	MetodoEfectivo        = "efectivo"
	MetodoTransferencia   = "transferencia"
	MetodoCheque          = "cheque"
	MetodoTarjeta         = "tarjeta"
	MetodoCuentaCorriente = "cuenta_corriente"
)

// Venta is a sale to a Cliente. Every venta owns a DEBITO movement in the
// cliente's cuenta corriente; its Estado mirrors that movement.
type Venta struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha         time.Time       `gorm:"not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPago    string          `gorm:"type:varchar(20);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Observaciones *string
	MovimientoID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }

// Compra is a purchase from a Proveedor; it owns a CREDITO movement in the
// proveedor's cuenta corriente.
type Compra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha         time.Time       `gorm:"not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ProveedorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetodoPago    string          `gorm:"type:varchar(20);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Observaciones *string
	MovimientoID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Compra) TableName() string { return "compras" }

// EstadoOperacion maps a movement estado to the venta/compra estado.
func EstadoOperacion(estadoMovimiento string) string {
	switch estadoMovimiento {
	case EstadoMovimientoPagado:
		return EstadoOperacionPagada
	case EstadoMovimientoAnulado:
		return EstadoOperacionAnulada
	default:
		return EstadoOperacionPendiente
	}
}
