package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ventana counts requests from one IP inside a fixed window.
type ventana struct {
	count int
	fin   time.Time
}

// RateLimiter is a fixed-window per-IP limiter. Each instance has its own
// table, so the login limiter and the API limiter do not share counters.
type RateLimiter struct {
	limit   int
	window  time.Duration
	mensaje string
	now     func() time.Time

	mu  sync.Mutex
	ips map[string]*ventana
}

func NewRateLimiter(limit int, window time.Duration, mensaje string) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		now:     time.Now,
		ips:     make(map[string]*ventana),
	}
}

// permitir registers one request and reports whether it is allowed, plus the
// end of the current window.
func (rl *RateLimiter) permitir(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.ips[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(rl.window)}
		rl.ips[ip] = v
	}
	v.count++
	return v.count <= rl.limit, v.fin
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := rl.permitir(c.ClientIP())
		if !ok {
			segundos := int(time.Until(fin).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.mensaje))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows. Returns the number removed.
func (rl *RateLimiter) Purge() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for ip, v := range rl.ips {
		if now.After(v.fin) {
			delete(rl.ips, ip)
			n++
		}
	}
	return n
}

// StartPurge runs Purge every interval until done is closed.
func (rl *RateLimiter) StartPurge(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if n := rl.Purge(); n > 0 {
					log.Debug().Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() *RateLimiter {
	return NewRateLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// APIRateLimiter limits general API traffic to perMinute requests per IP.
func APIRateLimiter(perMinute int) *RateLimiter {
	return NewRateLimiter(perMinute, time.Minute, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
