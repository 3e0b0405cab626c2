package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/infra"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────
//
// Every stub returns copies so services only change stored state through the
// repository methods, as they would against Postgres. DB() returns nil so
// runTx calls the closure directly.

var (
	_ repository.ClienteRepository    = (*stubClienteRepo)(nil)
	_ repository.ProveedorRepository  = (*stubProveedorRepo)(nil)
	_ repository.VentaRepository      = (*stubVentaRepo)(nil)
	_ repository.CompraRepository     = (*stubCompraRepo)(nil)
	_ repository.ChequeRepository     = (*stubChequeRepo)(nil)
	_ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)
	_ repository.PagoRepository       = (*stubPagoRepo)(nil)
	_ repository.ResumenRepository    = (*stubResumenRepo)(nil)
	_ repository.UsuarioRepository    = (*stubUsuarioRepo)(nil)
)

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) FindByCUIT(_ context.Context, cuit string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.CUIT == cuit {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.TitularFilter) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

func (r *stubClienteRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByID(ctx, id)
}

func (r *stubClienteRepo) UpdateCuenta(_ context.Context, _ *gorm.DB, id uuid.UUID, cuenta model.CuentaCorriente) error {
	c, ok := r.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Cuenta = cuenta
	return nil
}

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProveedorRepo) FindByCUIT(_ context.Context, cuit string) (*model.Proveedor, error) {
	for _, p := range r.proveedores {
		if p.CUIT == cuit {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProveedorRepo) List(_ context.Context, _ dto.TitularFilter) ([]model.Proveedor, int64, error) {
	out := make([]model.Proveedor, 0, len(r.proveedores))
	for _, p := range r.proveedores {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.proveedores, id)
	return nil
}

func (r *stubProveedorRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Proveedor, error) {
	return r.FindByID(ctx, id)
}

func (r *stubProveedorRepo) UpdateCuenta(_ context.Context, _ *gorm.DB, id uuid.UUID, cuenta model.CuentaCorriente) error {
	p, ok := r.proveedores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Cuenta = cuenta
	return nil
}

type stubMovimientoRepo struct {
	movimientos map[uuid.UUID]*model.MovimientoCuenta
	orden       []uuid.UUID
}

func newStubMovimientoRepo() *stubMovimientoRepo {
	return &stubMovimientoRepo{movimientos: make(map[uuid.UUID]*model.MovimientoCuenta)}
}

func clonarMovimiento(m *model.MovimientoCuenta) *model.MovimientoCuenta {
	cp := *m
	cp.Pagos = append([]model.Pago(nil), m.Pagos...)
	return &cp
}

func (r *stubMovimientoRepo) Create(_ context.Context, _ *gorm.DB, m *model.MovimientoCuenta) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos[m.ID] = clonarMovimiento(m)
	r.orden = append(r.orden, m.ID)
	return nil
}

func (r *stubMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoCuenta, error) {
	m, ok := r.movimientos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return clonarMovimiento(m), nil
}

func (r *stubMovimientoRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.MovimientoCuenta, error) {
	return r.FindByID(ctx, id)
}

func (r *stubMovimientoRepo) vivos(keep func(*model.MovimientoCuenta) bool) []model.MovimientoCuenta {
	var out []model.MovimientoCuenta
	for _, id := range r.orden {
		m, ok := r.movimientos[id]
		if ok && keep(m) {
			out = append(out, *clonarMovimiento(m))
		}
	}
	return out
}

func (r *stubMovimientoRepo) ListByReferencia(_ context.Context, _ *gorm.DB, origen string, referenciaID uuid.UUID) ([]model.MovimientoCuenta, error) {
	return r.vivos(func(m *model.MovimientoCuenta) bool {
		return m.Origen == origen && m.ReferenciaID != nil && *m.ReferenciaID == referenciaID
	}), nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ dto.MovimientoFilter) ([]model.MovimientoCuenta, int64, error) {
	out := r.vivos(func(*model.MovimientoCuenta) bool { return true })
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) ListCuenta(_ context.Context, t model.Titular) ([]model.MovimientoCuenta, error) {
	out := r.vivos(func(m *model.MovimientoCuenta) bool {
		if t.ClienteID != nil {
			return m.ClienteID != nil && *m.ClienteID == *t.ClienteID
		}
		return m.ProveedorID != nil && *m.ProveedorID == *t.ProveedorID
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

func (r *stubMovimientoRepo) Update(_ context.Context, _ *gorm.DB, m *model.MovimientoCuenta) error {
	if _, ok := r.movimientos[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.movimientos[m.ID] = clonarMovimiento(m)
	return nil
}

func (r *stubMovimientoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.movimientos, id)
	return nil
}

func (r *stubMovimientoRepo) DB() *gorm.DB { return nil }

type stubPagoRepo struct {
	pagos map[uuid.UUID]*model.Pago
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.pagos[p.ID] = &cp
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	p, ok := r.pagos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPagoRepo) List(_ context.Context, f dto.PagoFilter) ([]model.Pago, int64, error) {
	var out []model.Pago
	for _, p := range r.pagos {
		if f.MovimientoID == "" || p.MovimientoID.String() == f.MovimientoID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPagoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.pagos, id)
	return nil
}

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok || v.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(ctx, id)
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.OperacionFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if !v.DeletedAt.Valid {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) Update(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) UpdateEstado(_ context.Context, _ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if v, ok := r.ventas[id]; ok {
		v.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) Create(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	cp := *c
	r.compras[c.ID] = &cp
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok || c.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCompraRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCompraRepo) List(_ context.Context, _ dto.OperacionFilter) ([]model.Compra, int64, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if !c.DeletedAt.Valid {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) Update(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	cp := *c
	r.compras[c.ID] = &cp
	return nil
}

func (r *stubCompraRepo) UpdateEstado(_ context.Context, _ *gorm.DB, id uuid.UUID, estado string) error {
	c, ok := r.compras[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	return nil
}

func (r *stubCompraRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if c, ok := r.compras[id]; ok {
		c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

type stubChequeRepo struct {
	cheques map[uuid.UUID]*model.Cheque
}

func newStubChequeRepo() *stubChequeRepo {
	return &stubChequeRepo{cheques: make(map[uuid.UUID]*model.Cheque)}
}

// guardar stores a copy the way Postgres would: the titular check is enforced
// and date columns come back as UTC midnight.
func (r *stubChequeRepo) guardar(c *model.Cheque) error {
	if !c.TitularValido() {
		return fmt.Errorf("violates check constraint %q", infra.ChequeTitularConstraint)
	}
	cp := *c
	cp.FechaEmision = columnaDate(c.FechaEmision)
	cp.FechaVencimiento = columnaDate(c.FechaVencimiento)
	r.cheques[c.ID] = &cp
	return nil
}

func columnaDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *stubChequeRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cheque) error {
	return r.guardar(c)
}

func (r *stubChequeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cheque, error) {
	c, ok := r.cheques[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubChequeRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Cheque, error) {
	return r.FindByID(ctx, id)
}

func (r *stubChequeRepo) ExisteNumero(_ context.Context, banco, numero string, excluir *uuid.UUID) (bool, error) {
	for _, c := range r.cheques {
		if excluir != nil && c.ID == *excluir {
			continue
		}
		if strings.EqualFold(c.Banco, banco) && c.Numero == numero {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubChequeRepo) List(_ context.Context, _ dto.ChequeFilter) ([]model.Cheque, int64, error) {
	out := make([]model.Cheque, 0, len(r.cheques))
	for _, c := range r.cheques {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubChequeRepo) Update(_ context.Context, _ *gorm.DB, c *model.Cheque) error {
	return r.guardar(c)
}

func (r *stubChequeRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.cheques, id)
	return nil
}

func (r *stubChequeRepo) MarcarVencidos(_ context.Context, hoy time.Time) (int64, error) {
	var n int64
	for _, c := range r.cheques {
		if !c.Utilizado && !c.Vencido && formatFecha(c.FechaVencimiento) < formatFecha(hoy) {
			c.Vencido = true
			n++
		}
	}
	return n, nil
}

func (r *stubChequeRepo) ListPorVencer(_ context.Context, desde, hasta time.Time) ([]model.Cheque, error) {
	var out []model.Cheque
	for _, c := range r.cheques {
		venc := formatFecha(c.FechaVencimiento)
		if c.EnCartera() && venc >= formatFecha(desde) && venc <= formatFecha(hasta) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaVencimiento.Before(out[j].FechaVencimiento) })
	return out, nil
}

func (r *stubChequeRepo) DB() *gorm.DB { return nil }

type stubResumenRepo struct {
	clientes, proveedores, cartera, porVencer repository.Totales
	desde, hasta                              time.Time
}

func (r *stubResumenRepo) DeudaClientes(context.Context) (repository.Totales, error) {
	return r.clientes, nil
}

func (r *stubResumenRepo) DeudaProveedores(context.Context) (repository.Totales, error) {
	return r.proveedores, nil
}

func (r *stubResumenRepo) ChequesEnCartera(context.Context) (repository.Totales, error) {
	return r.cartera, nil
}

func (r *stubResumenRepo) ChequesPorVencer(_ context.Context, desde, hasta time.Time) (repository.Totales, error) {
	r.desde, r.hasta = desde, hasta
	return r.porVencer, nil
}

type stubUsuarioRepo struct {
	users map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	users := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	clientes    *stubClienteRepo
	proveedores *stubProveedorRepo
	movimientos *stubMovimientoRepo
	pagos       *stubPagoRepo
	ventas      *stubVentaRepo
	compras     *stubCompraRepo
	cheques     *stubChequeRepo
	cuentas     *Cuentas
}

func newFixture() *fixture {
	f := &fixture{
		clientes:    newStubClienteRepo(),
		proveedores: newStubProveedorRepo(),
		movimientos: newStubMovimientoRepo(),
		pagos:       newStubPagoRepo(),
		ventas:      newStubVentaRepo(),
		compras:     newStubCompraRepo(),
		cheques:     newStubChequeRepo(),
	}
	f.cuentas = NewCuentas(f.movimientos, f.pagos, f.clientes, f.proveedores)
	return f
}

func (f *fixture) ventaSvc() VentaService {
	return NewVentaService(f.ventas, f.cuentas)
}

func (f *fixture) compraSvc() CompraService {
	return NewCompraService(f.compras, f.cuentas)
}

func (f *fixture) chequeSvc() ChequeService {
	return NewChequeService(f.cheques, f.movimientos, f.cuentas)
}

func (f *fixture) movimientoSvc() MovimientoService {
	return NewMovimientoService(f.movimientos, f.cuentas)
}

func (f *fixture) pagoSvc() PagoService {
	return NewPagoService(f.pagos, f.movimientos, f.ventas, f.compras, f.cuentas)
}

func (f *fixture) nuevoCliente(razonSocial string) uuid.UUID {
	c := &model.Cliente{ID: uuid.New(), RazonSocial: razonSocial, CUIT: "20-12345678-6", Zona: "Centro"}
	_ = f.clientes.Create(context.Background(), c)
	return c.ID
}

func (f *fixture) nuevoProveedor(razonSocial string) uuid.UUID {
	p := &model.Proveedor{ID: uuid.New(), RazonSocial: razonSocial, CUIT: "30-71234567-1", Zona: "Norte"}
	_ = f.proveedores.Create(context.Background(), p)
	return p.ID
}

func (f *fixture) cuentaCliente(id uuid.UUID) model.CuentaCorriente {
	return f.clientes.clientes[id].Cuenta
}

func (f *fixture) cuentaProveedor(id uuid.UUID) model.CuentaCorriente {
	return f.proveedores.proveedores[id].Cuenta
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fechaRelativa(dias int) string {
	return time.Now().AddDate(0, 0, dias).Format(dto.FechaLayout)
}
