package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EventTracker is the analytics sink used by PosthogMiddleware.
// utils.PosthogClientWrapper implements it.
type EventTracker interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

// pathsToSkip contains route patterns that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":        true,
	"/swagger/*any": true,
}

// posthogEventSentKey marks a request whose handler already sent its own event.
const posthogEventSentKey = "posthogEventSent"

// PosthogMiddleware creates a Gin middleware handler that tracks successful
// authenticated API calls with PostHog
func PosthogMiddleware(tracker EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker == nil || !tracker.IsInitialized() || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest || c.GetBool(posthogEventSentKey) {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/wallet/transactions/deposit" -> "api_wallet_transactions_deposit"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.NewReplacer("/", "_", ":", "").Replace(eventName)
		if eventName == "" {
			return
		}

		tracker.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		})
	}
}

// PosthogEvent sends a custom event for the authenticated caller. PosthogMiddleware then
// skips its route-derived event for the same request.
func PosthogEvent(c *gin.Context, tracker EventTracker, eventName string, properties map[string]any) {
	if tracker == nil || !tracker.IsInitialized() {
		return
	}
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["path"] = c.FullPath()
	tracker.Enqueue(userID, eventName, properties)
	c.Set(posthogEventSentKey, true)
}
