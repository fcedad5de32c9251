package handlers

import (
	"net/http"

	"hashbridge/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Session echoes the verified identity back to the client. Token issuance
// and refresh are the auth service's business; this endpoint only confirms
// that the presented token still resolves to a user.
func (h *AuthHandler) Session(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	token := c.GetString(middleware.AccessTokenKey)

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"session": gin.H{
			"access_token": token,
			"user":         user,
		},
		"accessToken": token,
	})
}
