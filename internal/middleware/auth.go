package middleware

import (
	"net/http"
	"strings"

	"hashbridge/internal/authn"
	"hashbridge/internal/errs"

	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const AccessTokenKey = "access_token"

// BearerToken pulls the raw token out of the Authorization header, empty
// when absent.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// AuthRequired verifies the bearer token against the auth service and puts
// the resolved user into the context. Mutating endpoints sit behind this.
func AuthRequired(verifier authn.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No authorization header"})
			return
		}

		user, err := verifier.VerifyToken(token)
		if err != nil {
			status := http.StatusUnauthorized
			if errs.KindOf(err) == errs.KindMisconfigured {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"error": errs.MessageOf(err)})
			return
		}

		c.Set(CheckUserKey, user)
		c.Set(AccessTokenKey, token)
		c.Next()
	}
}

// LoadUser resolves the bearer token when one is present but never rejects
// the request. Read endpoints that personalize for signed-in callers use
// this.
func LoadUser(verifier authn.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token != "" {
			if user, err := verifier.VerifyToken(token); err == nil {
				c.Set(CheckUserKey, user)
				c.Set(AccessTokenKey, token)
			}
		}
		c.Next()
	}
}

// CurrentUser fetches the verified user placed by AuthRequired or LoadUser.
func CurrentUser(c *gin.Context) (*authn.AuthUser, bool) {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*authn.AuthUser)
	return user, ok
}
