package handlers

import (
	"net/http"

	"hashbridge/internal/middleware"
	"hashbridge/internal/services"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

type likeRequest struct {
	PostID         string `json:"postId"`
	HashnodePostID string `json:"hashnodePostId"`
}

// Toggle serves POST /api/posts/like: one call likes, the next unlikes.
// The response carries the authoritative state the optimistic client
// reconciles against.
func (h *LikeHandler) Toggle(c *gin.Context) {
	if !RequireStore(c, h.likes != nil) {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.likes.Toggle(user.ID, req.PostID, req.HashnodePostID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status serves GET /api/posts/likes/:postId. Works anonymously; a valid
// bearer token additionally reports whether that caller has liked the post.
func (h *LikeHandler) Status(c *gin.Context) {
	if !RequireStore(c, h.likes != nil) {
		return
	}

	userID := ""
	if user, ok := middleware.CurrentUser(c); ok {
		userID = user.ID
	}

	status, err := h.likes.Status(c.Param("postId"), userID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
