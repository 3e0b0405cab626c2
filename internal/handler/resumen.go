package handler

import (
	"net/http"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ResumenHandler struct{ svc service.ResumenService }

func NewResumenHandler(svc service.ResumenService) *ResumenHandler { return &ResumenHandler{svc: svc} }

// Obtener godoc
// @Summary      Resumen de cuentas corrientes y cheques
// @Description  Deuda de clientes, deuda con proveedores, cheques en cartera y por vencer. Cacheado 60s.
// @Tags         resumen
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ResumenResponse
// @Router       /v1/resumen [get]
func (h *ResumenHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
