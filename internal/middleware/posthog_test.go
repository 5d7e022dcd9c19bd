package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTracker struct {
	mock.Mock
}

func (m *mockTracker) IsInitialized() bool { return true }

func (m *mockTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

func TestPosthogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracker := new(mockTracker)
	tracker.On("Enqueue", "user-1", "api_wallet_transactions_deposit", mock.Anything).Once()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), "user-1"))
		c.Next()
	}, PosthogMiddleware(tracker))
	r.POST("/api/wallet/transactions/deposit", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/api/wallet/transactions/withdraw", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/wallet/transactions/deposit", "/api/wallet/transactions/withdraw"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	tracker.AssertExpectations(t)
	tracker.AssertNumberOfCalls(t, "Enqueue", 1)
}

func TestPosthogMiddleware_NilTracker(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PosthogMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPosthogEvent_ReplacesRouteEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracker := new(mockTracker)
	tracker.On("Enqueue", "user-1", "wallet_transaction_completed", mock.Anything).Once()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), "user-1"))
		c.Next()
	}, PosthogMiddleware(tracker))
	r.POST("/api/wallet/transactions/deposit", func(c *gin.Context) {
		PosthogEvent(c, tracker, "wallet_transaction_completed", map[string]any{"type": "DEPOSIT"})
		c.Status(http.StatusCreated)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/wallet/transactions/deposit", nil))

	tracker.AssertExpectations(t)
	tracker.AssertNumberOfCalls(t, "Enqueue", 1)
}
