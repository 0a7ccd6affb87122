package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"geovista-api/models"
	"geovista-api/services"
	"geovista-api/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "userID"
	ContextTokenKey  = "token"
)

// AuthMiddleware validates the bearer token against the JWT secret and the
// session store, then stashes the user on the context.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.SendError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.SendError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a token is present but lets
// anonymous requests through. Public listings use it to include the caller's
// own drafts.
func OptionalAuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ContextUserKey, user)
				c.Set(ContextUserIDKey, user.ID)
				c.Set(ContextTokenKey, token)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or "" for anonymous
// requests behind OptionalAuthMiddleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// RequireAdmin rejects non-admin callers early. The services repeat the
// check with the full ordering, this just keeps obvious cases off them.
// Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsActiveAdmin() {
			utils.SendError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mutex    sync.RWMutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerMinute int, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
	}
}

func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// CleanupLimiters drops idle limiters so the map does not grow unbounded.
func (rl *RateLimiter) CleanupLimiters() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for key, limiter := range rl.limiters {
		if limiter.Allow() {
			delete(rl.limiters, key)
		}
	}
}

// RateLimit limits requests per client IP.
func RateLimit(requestsPerMinute int, burst int) gin.HandlerFunc {
	rateLimiter := NewRateLimiter(requestsPerMinute, burst)

	go func() {
		ticker := time.NewTicker(time.Minute * 10)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.CleanupLimiters()
		}
	}()

	return func(c *gin.Context) {
		limiter := rateLimiter.GetLimiter(c.ClientIP())
		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
			utils.SendError(c, http.StatusTooManyRequests, "Rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SecurityHeaders adds the standard hardening headers.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

// RequestLogger logs each request through logrus with latency and status.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithFields(logrus.Fields{
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
		}).Info("request")
	}
}
