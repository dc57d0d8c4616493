package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proctorhub/proctoring-service/internal/identity"
	"github.com/proctorhub/proctoring-service/internal/services"
	"github.com/proctorhub/proctoring-service/internal/utils"
)

// AuthMiddleware verifies bearer tokens against the identity provider and
// records the sign-in through the store's upsert. When no provider is
// configured the middleware rejects, so protected routes stay closed rather
// than open.
func AuthMiddleware(verifier *identity.Verifier, service services.ProctoringService, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "missing bearer token"})
			return
		}

		upsert, err := verifier.VerifyToken(token)
		if err != nil {
			logger.Warn("token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid token"})
			return
		}

		user, err := service.UpsertUser(c.Request.Context(), *upsert)
		if err != nil {
			logger.LogError(err, "sign-in upsert failed", "open_id", upsert.OpenID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "sign-in failed"})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Next()
	}
}
