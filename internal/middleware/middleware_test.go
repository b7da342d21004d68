package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "secreto-de-prueba"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func firmar(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsDe(rol, tipo string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":  "8f7c6c52-6a6c-4bd3-9f4e-1d2b3c4d5e6f",
		"username": "ana",
		"rol":      rol,
		"tipo":     tipo,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func motor(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Username)
	})
	r.GET("/x", handlers...)
	return r
}

func get(r http.Handler, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := motor(JWTAuth(secreto))

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"access válido", firmar(t, jwt.SigningMethodHS256, []byte(secreto), claimsDe(RolCajero, "access")), http.StatusOK},
		{"refresh rechazado", firmar(t, jwt.SigningMethodHS256, []byte(secreto), claimsDe(RolCajero, "refresh")), http.StatusUnauthorized},
		{"otra clave", firmar(t, jwt.SigningMethodHS256, []byte("otra"), claimsDe(RolCajero, "access")), http.StatusUnauthorized},
		{"sin token", "", http.StatusUnauthorized},
		{"basura", "no.es.jwt", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, tc.token)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, "ana", w.Body.String())
			}
		})
	}

	expirado := claimsDe(RolCajero, "access")
	expirado["exp"] = time.Now().Add(-time.Minute).Unix()
	assert.Equal(t, http.StatusUnauthorized, get(r, firmar(t, jwt.SigningMethodHS256, []byte(secreto), expirado)).Code)
}

func TestRequireRole(t *testing.T) {
	r := motor(JWTAuth(secreto), RequireRole(RolSupervisor, RolAdministrador))

	assert.Equal(t, http.StatusForbidden, get(r, firmar(t, jwt.SigningMethodHS256, []byte(secreto), claimsDe(RolCajero, "access"))).Code)
	assert.Equal(t, http.StatusOK, get(r, firmar(t, jwt.SigningMethodHS256, []byte(secreto), claimsDe(RolSupervisor, "access"))).Code)

	// without JWTAuth in front there are no claims
	sinAuth := gin.New()
	sinAuth.GET("/x", RequireRole(RolCajero), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, get(sinAuth, "").Code)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimiter(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestLimitador_VentanaYPurga(t *testing.T) {
	l := newLimitador("test", 1, time.Minute)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ok, _ := l.permitir("10.0.0.1", t0)
	assert.True(t, ok)
	ok, _ = l.permitir("10.0.0.1", t0.Add(time.Second))
	assert.False(t, ok)
	ok, _ = l.permitir("10.0.0.2", t0.Add(time.Second))
	assert.True(t, ok, "otra IP tiene su propia ventana")
	ok, _ = l.permitir("10.0.0.1", t0.Add(2*time.Minute))
	assert.True(t, ok, "la ventana se reinicia")

	purgadas, restantes := l.purgar(t0.Add(10 * time.Minute))
	assert.Equal(t, 2, purgadas)
	assert.Equal(t, 0, restantes)
}

func TestCORS(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	abierto := gin.New()
	abierto.GET("/x", CORS(nil), ok)
	assert.Equal(t, "*", get(abierto, "", "Origin", "http://cualquiera").Header().Get("Access-Control-Allow-Origin"))

	cerrado := gin.New()
	cerrado.GET("/x", CORS([]string{"https://panel.avicola.test"}), ok)
	assert.Equal(t, "https://panel.avicola.test", get(cerrado, "", "Origin", "https://panel.avicola.test").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, get(cerrado, "", "Origin", "https://otro.test").Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	w := get(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
