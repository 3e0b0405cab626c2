package handler

import (
	"net/http"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ClientesHandler struct {
	svc     service.ClienteService
	cuentas service.CuentaService
}

func NewClientesHandler(svc service.ClienteService, cuentas service.CuentaService) *ClientesHandler {
	return &ClientesHandler{svc: svc, cuentas: cuentas}
}

// Crear godoc
// @Summary      Crear cliente
// @Description  Alta de cliente. El CUIT se valida por digito verificador y debe ser unico.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearClienteRequest true "Datos del cliente"
// @Success      201  {object} dto.ClienteResponse
// @Failure      400  {object} apierror.ValidationError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar clientes
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        q         query string false "Razon social o CUIT"
// @Param        zona      query string false "Zona"
// @Param        con_saldo query bool   false "Solo clientes con saldo distinto de cero"
// @Param        page      query int    false "Pagina (default 1)"
// @Param        limit     query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.ListResponse[dto.ClienteResponse]
// @Router       /v1/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.TitularFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar applies a partial update of the profile; saldo/debe/haber are
// never writable through this endpoint.
func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar cliente
// @Description  Baja logica. Falla con 409 si el cliente tiene saldo.
// @Tags         clientes
// @Security     BearerAuth
// @Param        id path string true "UUID del cliente"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/clientes/{id} [delete]
func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EstadoCuenta godoc
// @Summary      Estado de cuenta del cliente
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del cliente"
// @Param        desde query string false "YYYY-MM-DD"
// @Param        hasta query string false "YYYY-MM-DD"
// @Success      200 {object} dto.EstadoCuentaResponse
// @Router       /v1/clientes/{id}/cuenta [get]
func (h *ClientesHandler) EstadoCuenta(c *gin.Context) {
	estadoCuenta(c, h.cuentas, titularCliente)
}

func (h *ClientesHandler) ExportarCuenta(c *gin.Context) {
	exportarCuenta(c, h.cuentas, titularCliente)
}

func (h *ClientesHandler) EnviarCuenta(c *gin.Context) {
	enviarCuenta(c, h.cuentas, titularCliente)
}

// ── Estado de cuenta (shared by clientes and proveedores) ───────────────────

// titularPorID builds the Titular for the :id path parameter.
type titularPorID func(id uuid.UUID) model.Titular

func titularCliente(id uuid.UUID) model.Titular   { return model.Titular{ClienteID: &id} }
func titularProveedor(id uuid.UUID) model.Titular { return model.Titular{ProveedorID: &id} }

func titularDesdeParam(c *gin.Context, build titularPorID) (model.Titular, bool) {
	id, ok := paramID(c)
	if !ok {
		return model.Titular{}, false
	}
	return build(id), true
}

func estadoCuenta(c *gin.Context, svc service.CuentaService, build titularPorID) {
	t, ok := titularDesdeParam(c, build)
	if !ok {
		return
	}
	var filter dto.EstadoCuentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := svc.EstadoCuenta(c.Request.Context(), t, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func exportarCuenta(c *gin.Context, svc service.CuentaService, build titularPorID) {
	t, ok := titularDesdeParam(c, build)
	if !ok {
		return
	}
	var filter dto.EstadoCuentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, nombre, err := svc.ExportarXLSX(c.Request.Context(), t, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, mimeXLSX, data)
}

func enviarCuenta(c *gin.Context, svc service.CuentaService, build titularPorID) {
	t, ok := titularDesdeParam(c, build)
	if !ok {
		return
	}
	resp, err := svc.EnviarEstadoCuenta(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
