package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hluo1267/tripmate-server/internal/models"
	"github.com/hluo1267/tripmate-server/internal/service"
)

// AuthMiddleware returns a Gin middleware that resolves the bearer token
// through the identity store and puts the authenticated user in the
// request context.
func AuthMiddleware(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		// Check if the Authorization header starts with "Bearer "
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid token format",
			})
			c.Abort()
			return
		}

		// Opaque token: look it up in the token store
		user, err := svc.GetCurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid token",
			})
			c.Abort()
			return
		}

		c.Set("userId", user.ID)
		c.Set("currentUser", user)
		c.Next()
	}
}
