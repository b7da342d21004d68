package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"avicola/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestResponderError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.Validation("stock_insuficiente", "sin stock"), http.StatusBadRequest, "stock_insuficiente"},
		{apperror.NotFound("factura_no_encontrada", "no existe"), http.StatusNotFound, "factura_no_encontrada"},
		{apperror.State("factura_anulada", "anulada"), http.StatusConflict, "factura_anulada"},
		{fmt.Errorf("tx: %w", apperror.State("caja_cerrada", "cerrada")), http.StatusConflict, "caja_cerrada"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "error_interno"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		responderError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), `"code":"`+tc.code+`"`)
		assert.NotContains(t, w.Body.String(), "pq:")
	}
}

type muestra struct {
	Nombre string `json:"nombre" validate:"required,min=2"`
	Monto  int64  `json:"monto"  validate:"gt=0"`
}

func TestBindAndValidate(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var m muestra
		if !bindAndValidate(c, &m) {
			return
		}
		c.Status(http.StatusNoContent)
	})
	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return w
	}

	assert.Equal(t, http.StatusNoContent, post(`{"nombre":"Pollo","monto":10}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"nombre":`).Code)

	w := post(`{"nombre":"P","monto":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"Nombre":"min"`)
	assert.Contains(t, w.Body.String(), `"Monto":"gt"`)
}

func TestParamIDYUuidOpcional(t *testing.T) {
	r := gin.New()
	r.GET("/:id", func(c *gin.Context) {
		if _, ok := paramID(c, "id"); ok {
			c.Status(http.StatusOK)
		}
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/123", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/0b6f8a36-5d0e-4a53-9a4f-1f3c2e6d7b8a", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	id, err := uuidOpcional(nil)
	assert.NoError(t, err)
	assert.Nil(t, id)

	malo := "x"
	_, err = uuidOpcional(&malo)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
