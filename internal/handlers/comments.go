package handlers

import (
	"net/http"

	"hashbridge/internal/middleware"
	"hashbridge/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List serves GET /api/comments/:postId. Anonymous: comment threads are
// readable without an account.
func (h *CommentHandler) List(c *gin.Context) {
	if !RequireStore(c, h.comments != nil) {
		return
	}

	views, err := h.comments.GetComments(c.Param("postId"))
	if err != nil {
		WriteError(c, err)
		return
	}
	if views == nil {
		views = []services.CommentView{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

// Create serves POST /api/comments/create. The response is sent once the
// local row exists; the Hashnode mirror happens after, invisibly to the
// author.
func (h *CommentHandler) Create(c *gin.Context) {
	if !RequireStore(c, h.comments != nil) {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var in services.CreateCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.comments.Create(user, in)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment": comment,
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.DisplayName(),
			"avatar_url": user.UserMetadata.AvatarURL,
		},
	})
}
