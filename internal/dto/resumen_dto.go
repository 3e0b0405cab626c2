package dto

import "github.com/shopspring/decimal"

// ResumenResponse is the dashboard summary served by GET /v1/resumen.
type ResumenResponse struct {
	DeudaClientes         decimal.Decimal `json:"deuda_clientes"`
	DeudaProveedores      decimal.Decimal `json:"deuda_proveedores"`
	ClientesConSaldo      int64           `json:"clientes_con_saldo"`
	ProveedoresConSaldo   int64           `json:"proveedores_con_saldo"`
	ChequesEnCartera      int64           `json:"cheques_en_cartera"`
	MontoChequesCartera   decimal.Decimal `json:"monto_cheques_cartera"`
	ChequesPorVencer      int64           `json:"cheques_por_vencer"`
	MontoChequesPorVencer decimal.Decimal `json:"monto_cheques_por_vencer"`
	DiasAviso             int             `json:"dias_aviso"`
	GeneradoAt            string          `json:"generado_at"`
}
