package model

import "github.com/google/uuid"

// Titular identifies the owner of a cuenta corriente entry: a cliente or a proveedor.
type Titular struct {
	ClienteID   *uuid.UUID
	ProveedorID *uuid.UUID
}

// Valido reports whether exactly one side is set.
func (t Titular) Valido() bool {
	return (t.ClienteID == nil) != (t.ProveedorID == nil)
}

func (t Titular) EsCliente() bool { return t.ClienteID != nil }
