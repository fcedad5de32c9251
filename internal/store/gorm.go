package store

import (
	"errors"
	"log"

	"hashbridge/internal/models"

	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Store. It expects a connection opened
// with TranslateError so duplicated-key violations arrive as
// gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) InsertComment(c *models.Comment) error {
	return translate(s.db.Create(c).Error)
}

func (s *GormStore) GetCommentByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *GormStore) ListTopLevelComments(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, translate(err)
}

func (s *GormStore) ListReplies(parentIDs []string) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []models.Comment
	err := s.db.
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, translate(err)
}

func (s *GormStore) MarkCommentSynced(commentID, hashnodeCommentID string) error {
	res := s.db.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{
			"hashnode_comment_id": hashnodeCommentID,
			"synced_to_hashnode":  true,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) InsertLike(l *models.Like) error {
	return translate(s.db.Create(l).Error)
}

// DeleteLike removes the caller's own like. Constraining on user_id is the
// row-level authorization analogue: zero rows affected means there was
// nothing of theirs to delete.
func (s *GormStore) DeleteLike(postID, userID string) error {
	res := s.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindLike(postID, userID string) (*models.Like, error) {
	var like models.Like
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
	if err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

func (s *GormStore) CountLikes(postID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) MarkLikeSynced(likeID string) error {
	res := s.db.Model(&models.Like{}).
		Where("id = ?", likeID).
		Update("synced_to_hashnode", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetProfiles(userIDs []string) (map[string]models.Profile, error) {
	profiles := make(map[string]models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}
	var rows []models.Profile
	if err := s.db.Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
		log.Printf("Error fetching profiles: %v", err)
		return nil, translate(err)
	}
	for _, p := range rows {
		profiles[p.ID] = p
	}
	return profiles, nil
}
