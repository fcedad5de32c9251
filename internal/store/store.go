// Package store is the local persistence adapter for comments, likes and
// profiles. Every mutating call is scoped to the verified caller's user id;
// the service credential is never used for user-attributed writes.
package store

import (
	"errors"

	"hashbridge/internal/models"
)

var (
	// ErrNotFound covers both a missing row and a row the caller is not
	// allowed to touch; the two are indistinguishable on purpose.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate surfaces a unique-index violation, e.g. a raced second
	// like on the same (post, user) pair.
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the interface both the Postgres and the in-memory implementation
// satisfy. Handlers and services depend on this, never on GORM directly.
type Store interface {
	// Comments.
	InsertComment(c *models.Comment) error
	GetCommentByID(id string) (*models.Comment, error)
	ListTopLevelComments(postID string) ([]models.Comment, error)
	ListReplies(parentIDs []string) ([]models.Comment, error)
	MarkCommentSynced(commentID, hashnodeCommentID string) error

	// Likes. Delete and find are constrained by the caller's user id so one
	// user can never unlike on behalf of another.
	InsertLike(l *models.Like) error
	DeleteLike(postID, userID string) error
	FindLike(postID, userID string) (*models.Like, error)
	CountLikes(postID string) (int64, error)
	MarkLikeSynced(likeID string) error

	// Profiles.
	GetProfiles(userIDs []string) (map[string]models.Profile, error)
}
