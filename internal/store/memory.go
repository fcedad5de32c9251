package store

import (
	"sort"
	"sync"
	"time"

	"hashbridge/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in maps behind one mutex. It mirrors the
// Postgres store's semantics closely enough for service and handler tests,
// including the unique (post_id, user_id) invariant on likes.
type MemoryStore struct {
	mu       sync.RWMutex
	comments map[string]models.Comment
	likes    map[string]models.Like
	profiles map[string]models.Profile
	// Monotonic tick so inserts in the same wall-clock instant still have a
	// stable creation order.
	seq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		comments: make(map[string]models.Comment),
		likes:    make(map[string]models.Like),
		profiles: make(map[string]models.Profile),
	}
}

func (s *MemoryStore) nextTime() time.Time {
	s.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(s.seq) * time.Millisecond)
}

func (s *MemoryStore) InsertComment(c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.nextTime()
	}
	c.UpdatedAt = c.CreatedAt
	s.comments[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetCommentByID(id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListTopLevelComments(postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID && c.IsTopLevel() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ListReplies(parentIDs []string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}

	var out []models.Comment
	for _, c := range s.comments {
		if c.ParentCommentID != nil && parents[*c.ParentCommentID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) MarkCommentSynced(commentID, hashnodeCommentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	c.HashnodeCommentID = &hashnodeCommentID
	c.SyncedToHashnode = true
	c.UpdatedAt = s.nextTime()
	s.comments[commentID] = c
	return nil
}

func (s *MemoryStore) InsertLike(l *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.likes {
		if existing.PostID == l.PostID && existing.UserID == l.UserID {
			return ErrDuplicate
		}
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.nextTime()
	}
	s.likes[l.ID] = *l
	return nil
}

func (s *MemoryStore) DeleteLike(postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, l := range s.likes {
		if l.PostID == postID && l.UserID == userID {
			delete(s.likes, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) FindLike(postID, userID string) (*models.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.likes {
		if l.PostID == postID && l.UserID == userID {
			like := l
			return &like, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CountLikes(postID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, l := range s.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkLikeSynced(likeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.likes[likeID]
	if !ok {
		return ErrNotFound
	}
	l.SyncedToHashnode = true
	s.likes[likeID] = l
	return nil
}

func (s *MemoryStore) GetProfiles(userIDs []string) (map[string]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// PutProfile seeds a profile row; used by tests and fixtures.
func (s *MemoryStore) PutProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}
