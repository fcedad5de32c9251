package handlers

import (
	"log"
	"net/http"

	"hashbridge/internal/errs"

	"github.com/gin-gonic/gin"
)

// WriteError maps the error taxonomy onto HTTP statuses and the `{"error"}`
// JSON shape the theme's front-end expects. Unknown errors become a plain
// 500 with their client-facing message; the wrapped cause stays in the log.
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindUnauthenticated:
		status = http.StatusUnauthorized
	case errs.KindInvalidArgument:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindPermissionDenied:
		// Policy rejections read like generic failures to the client, but
		// carry a hint that row-level authorization said no.
		status = http.StatusInternalServerError
	case errs.KindMisconfigured:
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": errs.MessageOf(err)})
}

// RequireStore answers the deterministic misconfiguration error when the
// database was never configured, instead of letting a nil store panic.
func RequireStore(c *gin.Context, ok bool) bool {
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server configuration error: database not configured",
		})
		return false
	}
	return true
}
