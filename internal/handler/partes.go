package handler

import (
	"net/http"

	"avicola/internal/dto"
	"avicola/internal/model"
	"avicola/internal/service"

	"github.com/gin-gonic/gin"
)

// PartesHandler serves both /proveedores and /clientes; tipo picks the table.
type PartesHandler struct {
	svc  service.ParteService
	tipo model.TipoParte
}

func NewProveedoresHandler(svc service.ParteService) *PartesHandler {
	return &PartesHandler{svc: svc, tipo: model.ParteProveedor}
}

func NewClientesHandler(svc service.ParteService) *PartesHandler {
	return &PartesHandler{svc: svc, tipo: model.ParteCliente}
}

// Crear godoc
// @Summary Alta de proveedor o cliente
// @Tags partes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearParteRequest true "Datos"
// @Success 201 {object} dto.ParteResponse
// @Failure 400 {object} apierror.APIError "ruc_duplicado"
// @Router /v1/proveedores [post]
// @Router /v1/clientes [post]
func (h *PartesHandler) Crear(c *gin.Context) {
	var req dto.CrearParteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), h.tipo, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista proveedores o clientes con su saldo
// @Tags partes
// @Security BearerAuth
// @Param nombre query string false "Nombre (parcial)"
// @Param con_saldo query bool false "Solo con saldo pendiente"
// @Success 200 {object} dto.ParteListResponse
// @Router /v1/proveedores [get]
// @Router /v1/clientes [get]
func (h *PartesHandler) Listar(c *gin.Context) {
	var filter dto.ParteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), h.tipo, filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PartesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), h.tipo, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PartesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarParteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), h.tipo, id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PartesHandler) Desactivar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), h.tipo, id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
