package middlewares

import (
	"net/http"
	"strings"

	"nwitter_api/session"
	"nwitter_api/types"

	"cloud.google.com/go/logging"
	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware is the route guard: requests without a verifiable ID
// token are rejected with a 401, everything else proceeds with the session
// identity materialized into the context. The token is re-verified on
// every request, so a sign-out or disabled account takes effect on the
// next call.
func AuthMiddleware(logger *logging.Logger, authClient *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken := extractToken(c)
		if idToken == "" {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Unauthorized - No ID token provided",
			})

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - No ID token provided"})
			return
		}

		decodedToken, err := authClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Unauthorized - Invalid ID token: " + err.Error(),
			})

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid ID token, " + err.Error()})
			return
		}

		c.Set(types.CONTEXT_SESSION_USER, session.FromToken(decodedToken))
		c.Next()
	}
}

// Extracts the token from the Authorization header or the session cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("__session"); err == nil {
		return cookie
	}
	return ""
}
