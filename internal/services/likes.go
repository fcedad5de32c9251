package services

import (
	"log"

	"hashbridge/internal/errs"
	"hashbridge/internal/hashnode"
	"hashbridge/internal/models"
	"hashbridge/internal/store"
)

// LikeService toggles likes and reads like status. The unique
// (post_id, user_id) index in the store is what makes the toggle safe under
// concurrent duplicate requests: a raced second insert comes back as
// ErrDuplicate instead of a second row, and the count is always recomputed
// from the rows after the mutation rather than maintained incrementally.
type LikeService struct {
	store    store.Store
	hashnode *hashnode.Client
	runAsync func(fn func())
}

func NewLikeService(st store.Store, hn *hashnode.Client) *LikeService {
	return &LikeService{
		store:    st,
		hashnode: hn,
		runAsync: func(fn func()) { go fn() },
	}
}

type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type LikeStatus struct {
	LikeCount int64 `json:"likeCount"`
	UserLiked bool  `json:"userLiked"`
}

// Toggle flips the caller's like on a post. A fresh like is mirrored to
// Hashnode fire-and-forget when a hashnodePostID is supplied and creds are
// configured; unlikes are never mirrored (the upstream API has no
// un-reaction for this flow).
func (s *LikeService) Toggle(userID, postID, hashnodePostID string) (*LikeResult, error) {
	if postID == "" {
		return nil, errs.InvalidArgument("Missing postId")
	}

	existing, err := s.store.FindLike(postID, userID)
	if err != nil && err != store.ErrNotFound {
		return nil, errs.Wrap(errs.KindUnknown, "Failed to like post", err)
	}

	if existing != nil {
		if err := s.store.DeleteLike(postID, userID); err != nil && err != store.ErrNotFound {
			return nil, errs.Wrap(errs.KindUnknown, "Failed to unlike post", err)
		}
		count, err := s.store.CountLikes(postID)
		if err != nil {
			return nil, errs.Wrap(errs.KindUnknown, "Failed to fetch like count", err)
		}
		return &LikeResult{Liked: false, LikeCount: count}, nil
	}

	like := &models.Like{
		PostID:           postID,
		UserID:           userID,
		SyncedToHashnode: false,
	}
	if hashnodePostID != "" {
		like.HashnodePostID = &hashnodePostID
	}

	switch err := s.store.InsertLike(like); err {
	case nil:
		if hashnodePostID != "" && s.mirrorEnabled() {
			likeID := like.ID
			s.runAsync(func() {
				s.syncLikeToHashnode(likeID, hashnodePostID)
			})
		}
	case store.ErrDuplicate:
		// A concurrent request from the same user won the insert. The like
		// exists, which is the state this call wanted.
		log.Printf("Duplicate like for post %s by user %s, treating as liked", postID, userID)
	default:
		return nil, errs.Wrap(errs.KindUnknown, "Failed to like post", err)
	}

	count, err := s.store.CountLikes(postID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "Failed to fetch like count", err)
	}
	return &LikeResult{Liked: true, LikeCount: count}, nil
}

// Status reports the like count and, when userID is non-empty, whether that
// user has liked the post. Anonymous callers always get UserLiked=false.
func (s *LikeService) Status(postID, userID string) (*LikeStatus, error) {
	if postID == "" {
		return nil, errs.InvalidArgument("Invalid post ID")
	}

	count, err := s.store.CountLikes(postID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "Failed to fetch like count", err)
	}

	status := &LikeStatus{LikeCount: count}
	if userID != "" {
		if _, err := s.store.FindLike(postID, userID); err == nil {
			status.UserLiked = true
		}
	}
	return status, nil
}

func (s *LikeService) mirrorEnabled() bool {
	return s.hashnode != nil && s.hashnode.Configured()
}

func (s *LikeService) syncLikeToHashnode(likeID, hashnodePostID string) {
	if err := s.hashnode.LikePost(hashnodePostID); err != nil {
		log.Printf("Error syncing like %s to Hashnode: %v", likeID, err)
		return
	}
	if err := s.store.MarkLikeSynced(likeID); err != nil {
		log.Printf("Error marking like %s as synced: %v", likeID, err)
	}
}
