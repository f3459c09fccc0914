package store

import (
	"context"
	"fmt"

	"qaboard/internal/models"

	"gorm.io/gorm"
)

type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create validates and inserts a comment. Comments are never updated.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	if err := models.Validate(c); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// FindByIDs returns the comments with the given ids, newest first.
func (s *CommentStore) FindByIDs(ctx context.Context, ids []uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0, len(ids))
	if len(ids) == 0 {
		return comments, nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("comment_date_time DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	return comments, nil
}
