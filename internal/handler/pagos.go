package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"avicola/internal/dto"
	"avicola/internal/infra"
	"avicola/internal/service"

	"github.com/gin-gonic/gin"
)

type PagosHandler struct {
	svc     service.PagoService
	empresa string
}

func NewPagosHandler(svc service.PagoService, empresa string) *PagosHandler {
	return &PagosHandler{svc: svc, empresa: empresa}
}

// Crear godoc
// @Summary Registra un pago
// @Description Con factura_id se asigna a esa factura; con distribuir=true se reparte entre las pendientes más antiguas.
// @Tags pagos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CrearPagoRequest true "Pago"
// @Success 201 {object} dto.PagoResponse
// @Router /v1/pagos [post]
func (h *PagosHandler) Crear(c *gin.Context) {
	var req dto.CrearPagoRequest
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

func (h *PagosHandler) Listar(c *gin.Context) {
	var filter dto.PagoFilter
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

func (h *PagosHandler) ObtenerPorID(c *gin.Context) {
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

// Asignar godoc
// @Summary Fija el monto del pago aplicado a una factura
// @Tags pagos
// @Security BearerAuth
// @Param id path string true "Pago"
// @Param body body dto.AsignarPagoRequest true "Asignación"
// @Success 200 {object} dto.PagoResponse
// @Failure 400 {object} apierror.APIError "monto_excede_disponible, monto_excede_saldo"
// @Router /v1/pagos/{id}/asignaciones [post]
func (h *PagosHandler) Asignar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AsignarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Asignar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Distribuir godoc
// @Summary Reparte el saldo disponible del pago, facturas más antiguas primero
// @Description Cada asignación se confirma por separado; las rechazadas vuelven como advertencias.
// @Tags pagos
// @Security BearerAuth
// @Param id path string true "Pago"
// @Param body body dto.DistribuirPagoRequest false "Factura opcional"
// @Success 200 {object} dto.DistribucionResponse
// @Router /v1/pagos/{id}/distribuir [post]
func (h *PagosHandler) Distribuir(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.DistribuirPagoRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	facturaID, err := uuidOpcional(req.FacturaID)
	if err != nil {
		responderError(c, err)
		return
	}
	resp, err := h.svc.Distribuir(c.Request.Context(), id, facturaID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PagosHandler) Desasignar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desasignar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PagosHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recibo godoc
// @Summary Recibo del pago en PDF (80mm)
// @Tags pagos
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Pago"
// @Success 200 {file} binary
// @Router /v1/pagos/{id}/recibo.pdf [get]
func (h *PagosHandler) Recibo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.ReciboPDF(&buf, h.empresa, p); err != nil {
		responderError(c, err)
		return
	}
	enviarPDF(c, fmt.Sprintf("recibo-%s.pdf", p.ID[:8]), buf.Bytes())
}

func enviarPDF(c *gin.Context, nombre string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", nombre))
	c.Data(http.StatusOK, "application/pdf", data)
}
