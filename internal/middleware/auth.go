package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/wallet_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
// The token is read from the Authorization bearer header, falling back to the
// session cookie named cookieName.
func AuthMiddleware(jwtSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := extractToken(c, cookieName)
		if !ok {
			logger.Warn("Authentication token missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		userID := claims.Subject
		if userID == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctx := WithLogger(WithUserID(c.Request.Context(), userID), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), userID)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookieName == "" {
		return "", false
	}
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
