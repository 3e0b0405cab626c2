package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de cuenta corriente.
const (
	TipoDebito  = "DEBITO"
	TipoCredito = "CREDITO"
)

// CuentaCorriente holds the running balance of a cliente or proveedor.
// Saldo is always Debe - Haber; a positive saldo means the party owes us.
type CuentaCorriente struct {
	Saldo decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Debe  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Haber decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// Aplicar adds monto to Debe (DEBITO) or Haber (CREDITO) and recomputes Saldo.
// A negative monto undoes a previous application.
func (c *CuentaCorriente) Aplicar(tipo string, monto decimal.Decimal) error {
	switch tipo {
	case TipoDebito:
		c.Debe = c.Debe.Add(monto)
	case TipoCredito:
		c.Haber = c.Haber.Add(monto)
	default:
		return fmt.Errorf("tipo de movimiento desconocido: %q", tipo)
	}
	c.Saldo = c.Debe.Sub(c.Haber)
	return nil
}

// Revertir undoes Aplicar(tipo, monto).
func (c *CuentaCorriente) Revertir(tipo string, monto decimal.Decimal) error {
	return c.Aplicar(tipo, monto.Neg())
}

// TipoInverso returns the movement type that cancels tipo.
func TipoInverso(tipo string) string {
	if tipo == TipoDebito {
		return TipoCredito
	}
	return TipoDebito
}

// TipoValido reports whether tipo is DEBITO or CREDITO.
func TipoValido(tipo string) bool {
	return tipo == TipoDebito || tipo == TipoCredito
}
