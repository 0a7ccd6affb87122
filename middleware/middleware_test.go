package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"geovista-api/models"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(1, 2))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	// Burst of 2 passes, the third request in the same minute is rejected.
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(ContextUserKey, &models.User{
				ID:     "u1",
				Role:   models.UserRole(role),
				Status: models.UserStatusActive,
			})
		}
		c.Next()
	})
	router.Use(RequireAdmin())
	router.GET("/admin/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(role string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		if role != "" {
			req.Header.Set("X-Test-Role", role)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, request(""))
	assert.Equal(t, http.StatusForbidden, request(string(models.RoleVisitor)))
	assert.Equal(t, http.StatusForbidden, request(string(models.RoleEditor)))
	assert.Equal(t, http.StatusOK, request(string(models.RoleAdmin)))
}

func TestCurrentUserIDAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, CurrentUserID(c))
	assert.Nil(t, CurrentUser(c))
}
