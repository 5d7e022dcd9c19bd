package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_MemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := NewRateLimiter("2-M", nil)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", RateLimit(lim), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewRateLimiter_InvalidRate(t *testing.T) {
	_, err := NewRateLimiter("five per minute", nil)
	assert.Error(t, err)
}
