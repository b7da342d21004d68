package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"avicola/internal/apierror"
	"avicola/internal/dto"
	"avicola/internal/infra"
	"avicola/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct {
	svc     service.CajaService
	empresa string
}

func NewCajaHandler(svc service.CajaService, empresa string) *CajaHandler {
	return &CajaHandler{svc: svc, empresa: empresa}
}

// queryFecha reads ?fecha=YYYY-MM-DD, defaulting to today (UTC).
func queryFecha(c *gin.Context) (time.Time, bool) {
	v := c.Query("fecha")
	if v == "" {
		return time.Now().UTC(), true
	}
	f, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewCode("fecha_invalida", "fecha debe tener formato YYYY-MM-DD"))
		return time.Time{}, false
	}
	return f, true
}

// Abrir godoc
// @Summary Abre la caja del día con el conteo inicial por denominación
// @Tags caja
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.AbrirCajaRequest true "Apertura"
// @Success 201 {object} dto.CajaResumenResponse
// @Failure 409 {object} apierror.APIError "caja_existente, caja_abierta_pendiente"
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AbrirDesdeUltimoCierre godoc
// @Summary Abre la caja reutilizando el conteo del último cierre
// @Tags caja
// @Security BearerAuth
// @Param fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Success 201 {object} dto.CajaResumenResponse
// @Router /v1/caja/abrir-desde-ultimo-cierre [post]
func (h *CajaHandler) AbrirDesdeUltimoCierre(c *gin.Context) {
	fecha, ok := queryFecha(c)
	if !ok {
		return
	}
	resp, err := h.svc.AbrirDesdeUltimoCierre(c.Request.Context(), usuarioID(c), fecha)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetActiva godoc
// @Summary Caja abierta de la fecha
// @Tags caja
// @Security BearerAuth
// @Param fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Param fallback query bool false "Devolver la última abierta si la fecha no tiene"
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/activa [get]
func (h *CajaHandler) GetActiva(c *gin.Context) {
	fecha, ok := queryFecha(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerActiva(c.Request.Context(), fecha, c.Query("fallback") == "true")
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) UltimoCierre(c *gin.Context) {
	resp, err := h.svc.UltimoCierre(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un movimiento manual de caja
// @Tags caja
// @Security BearerAuth
// @Param id path string true "Caja"
// @Param body body dto.MovimientoCajaRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoCajaResponse
// @Failure 409 {object} apierror.APIError "caja_cerrada"
// @Router /v1/caja/{id}/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), usuarioID(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Gastos ────────────────────────────────────────────────────────────────────

func (h *CajaHandler) RegistrarGasto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.GastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarGasto(c.Request.Context(), usuarioID(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EditarGasto appends a compensating movement for the difference.
func (h *CajaHandler) EditarGasto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.GastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditarGasto(c.Request.Context(), usuarioID(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) EliminarGasto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarGasto(c.Request.Context(), usuarioID(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cerrar godoc
// @Summary Cierra la caja con el arqueo final
// @Description Un desvío crítico (más de 5%) exige observaciones.
// @Tags caja
// @Security BearerAuth
// @Param id path string true "Caja"
// @Param body body dto.CerrarCajaRequest true "Cierre"
// @Success 200 {object} dto.CajaResumenResponse
// @Failure 400 {object} apierror.APIError "observaciones_requeridas"
// @Failure 409 {object} apierror.APIError "caja_cerrada"
// @Router /v1/caja/{id}/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), usuarioID(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) ObtenerResumen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerResumen(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Historial(c *gin.Context) {
	resp, err := h.svc.Historial(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte godoc
// @Summary Reporte de cajas de un período
// @Tags caja
// @Security BearerAuth
// @Param desde query string true "YYYY-MM-DD"
// @Param hasta query string true "YYYY-MM-DD"
// @Success 200 {object} dto.ReporteCajaPeriodoResponse
// @Router /v1/caja/reporte [get]
func (h *CajaHandler) Reporte(c *gin.Context) {
	var filter dto.ReporteCajaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewCode("periodo_invalido", "desde y hasta son obligatorios (YYYY-MM-DD)"))
		return
	}
	resp, err := h.svc.ReportePeriodo(c.Request.Context(), filter.Desde, filter.Hasta)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Arqueo godoc
// @Summary Planilla de arqueo en PDF
// @Tags caja
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Caja"
// @Success 200 {file} binary
// @Router /v1/caja/{id}/arqueo.pdf [get]
func (h *CajaHandler) Arqueo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.ObtenerResumen(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.ArqueoPDF(&buf, h.empresa, r); err != nil {
		responderError(c, err)
		return
	}
	enviarPDF(c, fmt.Sprintf("arqueo-%s.pdf", r.Fecha), buf.Bytes())
}

// Verificar lists sessions left open on earlier dates.
func (h *CajaHandler) Verificar(c *gin.Context) {
	resp, err := h.svc.Verificar(c.Request.Context(), time.Now().UTC())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
