package handler

import (
	"net/http"

	"avicola/internal/dto"
	"avicola/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct {
	svc   service.FacturaService
	pagos service.PagoService
}

func NewFacturasHandler(svc service.FacturaService, pagos service.PagoService) *FacturasHandler {
	return &FacturasHandler{svc: svc, pagos: pagos}
}

// Crear godoc
// @Summary Registra una factura de compra o venta
// @Description Mueve stock por cada línea y suma el total al saldo de la contraparte.
// @Tags facturas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearFacturaRequest true "Factura"
// @Success 201 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.APIError "stock_insuficiente, proveedor_requerido"
// @Router /v1/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), usuarioID(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista facturas
// @Tags facturas
// @Security BearerAuth
// @Param tipo query string false "compra|venta"
// @Param estado query string false "pendiente|pagada|anulada"
// @Param proveedor_id query string false "Proveedor"
// @Param cliente_id query string false "Cliente"
// @Param desde query string false "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD"
// @Success 200 {object} dto.FacturaListResponse
// @Router /v1/facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary Anula una factura
// @Tags facturas
// @Security BearerAuth
// @Param id path string true "Factura"
// @Success 200 {object} dto.FacturaResponse
// @Failure 409 {object} apierror.APIError "factura_anulada"
// @Router /v1/facturas/{id}/anular [post]
func (h *FacturasHandler) Anular(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), usuarioID(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina una factura sin pagos
// @Tags facturas
// @Security BearerAuth
// @Param id path string true "Factura"
// @Success 204
// @Failure 409 {object} apierror.APIError "factura_pagada, factura_con_pagos"
// @Router /v1/facturas/{id} [delete]
func (h *FacturasHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), usuarioID(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PagoRapido godoc
// @Summary Crea y asigna un pago a una factura en una sola operación
// @Tags facturas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Factura"
// @Param body body dto.PagoRapidoRequest true "Pago"
// @Success 201 {object} dto.PagoRapidoResponse
// @Router /v1/facturas/{id}/pago-rapido [post]
func (h *FacturasHandler) PagoRapido(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.PagoRapidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pagos.PagoRapido(c.Request.Context(), usuarioID(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecalcularEstados godoc
// @Summary Recalcula el estado de todas las facturas no anuladas
// @Tags facturas
// @Security BearerAuth
// @Success 200 {object} dto.RecalculoEstadosResponse
// @Router /v1/facturas/recalcular-estados [post]
func (h *FacturasHandler) RecalcularEstados(c *gin.Context) {
	resp, err := h.svc.RecalcularEstados(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
