package handler

import (
	"net/http"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ProveedoresHandler struct {
	svc     service.ProveedorService
	cuentas service.CuentaService
}

func NewProveedoresHandler(svc service.ProveedorService, cuentas service.CuentaService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc, cuentas: cuentas}
}

// Crear godoc
// @Summary      Crear proveedor
// @Description  Alta de proveedor. El CUIT se valida por digito verificador y debe ser unico.
// @Tags         proveedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearProveedorRequest true "Datos del proveedor"
// @Success      201  {object} dto.ProveedorResponse
// @Failure      400  {object} apierror.ValidationError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/proveedores [post]
func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearProveedorRequest
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
// @Summary      Listar proveedores
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        q         query string false "Razon social o CUIT"
// @Param        zona      query string false "Zona"
// @Param        con_saldo query bool   false "Solo proveedores con saldo distinto de cero"
// @Param        page      query int    false "Pagina (default 1)"
// @Param        limit     query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.ListResponse[dto.ProveedorResponse]
// @Router       /v1/proveedores [get]
func (h *ProveedoresHandler) Listar(c *gin.Context) {
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

func (h *ProveedoresHandler) ObtenerPorID(c *gin.Context) {
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
func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProveedorRequest
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
// @Summary      Eliminar proveedor
// @Description  Baja logica. Falla con 409 si el proveedor tiene saldo.
// @Tags         proveedores
// @Security     BearerAuth
// @Param        id path string true "UUID del proveedor"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/proveedores/{id} [delete]
func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
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
// @Summary      Estado de cuenta del proveedor
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del proveedor"
// @Param        desde query string false "YYYY-MM-DD"
// @Param        hasta query string false "YYYY-MM-DD"
// @Success      200 {object} dto.EstadoCuentaResponse
// @Router       /v1/proveedores/{id}/cuenta [get]
func (h *ProveedoresHandler) EstadoCuenta(c *gin.Context) {
	estadoCuenta(c, h.cuentas, titularProveedor)
}

func (h *ProveedoresHandler) ExportarCuenta(c *gin.Context) {
	exportarCuenta(c, h.cuentas, titularProveedor)
}

func (h *ProveedoresHandler) EnviarCuenta(c *gin.Context) {
	enviarCuenta(c, h.cuentas, titularProveedor)
}
