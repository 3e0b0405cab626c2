package handler

import (
	"net/http"
	"strconv"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/apierror"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ChequesHandler struct {
	svc       service.ChequeService
	diasAviso int
}

func NewChequesHandler(svc service.ChequeService, diasAviso int) *ChequesHandler {
	return &ChequesHandler{svc: svc, diasAviso: diasAviso}
}

// Crear godoc
// @Summary      Registrar cheque
// @Description  Con cliente_id acredita al cliente; con proveedor_id debita al proveedor; sin titular queda en cartera.
// @Tags         cheques
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearChequeRequest true "Cheque"
// @Success      201  {object} dto.ChequeResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cheques [post]
func (h *ChequesHandler) Crear(c *gin.Context) {
	var req dto.CrearChequeRequest
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

func (h *ChequesHandler) Listar(c *gin.Context) {
	var filter dto.ChequeFilter
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

// PorVencer lists cheques en cartera due within ?dias= days (default DIAS_AVISO_VENCIMIENTO).
func (h *ChequesHandler) PorVencer(c *gin.Context) {
	dias := h.diasAviso
	if q := c.Query("dias"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 || n > 365 {
			c.JSON(http.StatusBadRequest, apierror.New("dias debe ser un entero entre 0 y 365"))
			return
		}
		dias = n
	}
	resp, err := h.svc.PorVencer(c.Request.Context(), dias)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChequesHandler) ObtenerPorID(c *gin.Context) {
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

func (h *ChequesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ActualizarChequeRequest
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

func (h *ChequesHandler) Eliminar(c *gin.Context) {
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

// Endosar godoc
// @Summary      Endosar cheque a un proveedor
// @Description  Solo cheques en cartera (de cliente o sin titular) no utilizados ni vencidos. Debita al proveedor y marca el cheque como utilizado.
// @Tags         cheques
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                   true "UUID del cheque"
// @Param        body body     dto.EndosarChequeRequest true "Proveedor"
// @Success      200  {object} dto.ChequeResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cheques/{id}/endosar [post]
func (h *ChequesHandler) Endosar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.EndosarChequeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Endosar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
