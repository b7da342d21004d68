package middleware

import (
	"net/http"
	"sync"
	"time"

	"avicola/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana counts requests per IP inside a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
}

type limitador struct {
	nombre string
	limit  int
	window time.Duration

	mu  sync.Mutex
	ips map[string]*ventana
}

func newLimitador(nombre string, limit int, window time.Duration) *limitador {
	l := &limitador{nombre: nombre, limit: limit, window: window, ips: make(map[string]*ventana)}
	registrar(l)
	return l
}

// permitir records one hit for ip and reports whether it is within the limit.
func (l *limitador) permitir(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.ips[ip]
	if !ok {
		v = &ventana{}
		l.ips[ip] = v
	}
	if now.After(v.windowEnd) {
		v.count = 0
		v.windowEnd = now.Add(l.window)
	}
	v.count++
	return v.count <= l.limit, v.windowEnd
}

func (l *limitador) purgar(now time.Time) (purgadas, restantes int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.ips {
		if now.After(v.windowEnd) {
			delete(l.ips, ip)
			purgadas++
		}
	}
	return purgadas, len(l.ips)
}

// ── Login rate limiter ────────────────────────────────────────────────────────

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimitador("login", 20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP(), time.Now()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// ── General API rate limiter ──────────────────────────────────────────────────

func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimitador("api", limit, window)
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────

const purgeInterval = 5 * time.Minute

var (
	limitadoresMu sync.Mutex
	limitadores   []*limitador
	purgaOnce     sync.Once
)

func registrar(l *limitador) {
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	purgaOnce.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		limitadoresMu.Lock()
		ls := append([]*limitador(nil), limitadores...)
		limitadoresMu.Unlock()

		for _, l := range ls {
			purgadas, restantes := l.purgar(now)
			if purgadas > 0 {
				log.Debug().
					Str("limiter", l.nombre).
					Int("purged", purgadas).
					Int("remaining", restantes).
					Msg("rate limiter map purged")
			}
		}
	}
}
