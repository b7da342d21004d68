package handler

import (
	"net/http"

	"avicola/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler {
	return &AlertasHandler{svc: svc}
}

// Obtener godoc
// @Summary Stock bajo, productos agotados y facturas vencidas
// @Tags alertas
// @Security BearerAuth
// @Param refrescar query bool false "Ignorar la cache"
// @Success 200 {object} dto.AlertasResponse
// @Router /v1/alertas [get]
func (h *AlertasHandler) Obtener(c *gin.Context) {
	obtener := h.svc.Obtener
	if c.Query("refrescar") == "true" {
		obtener = h.svc.Calcular
	}
	resp, err := obtener(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Notificar godoc
// @Summary Registra notificaciones y encola el resumen por email
// @Tags alertas
// @Security BearerAuth
// @Success 200 {object} dto.NotificarAlertasResponse
// @Router /v1/alertas/notificar [post]
func (h *AlertasHandler) Notificar(c *gin.Context) {
	resp, err := h.svc.Notificar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarNotificaciones godoc
// @Summary Lista notificaciones
// @Tags alertas
// @Security BearerAuth
// @Param no_leidas query bool false "Solo no leídas"
// @Param limit query int false "Máximo, por defecto 50"
// @Success 200 {array} dto.NotificacionResponse
// @Router /v1/notificaciones [get]
func (h *AlertasHandler) ListarNotificaciones(c *gin.Context) {
	resp, err := h.svc.ListarNotificaciones(c.Request.Context(), c.Query("no_leidas") == "true", queryInt(c, "limit", 50))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlertasHandler) MarcarLeida(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarcarLeida(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
