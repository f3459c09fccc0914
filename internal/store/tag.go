package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qaboard/internal/models"

	"gorm.io/gorm"
)

type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

// FindOrCreateMany resolves each name to a tag, creating missing ones. The
// result follows input order; blank names are skipped. Names are processed one
// by one, so a failure can leave earlier tags created.
func (s *TagStore) FindOrCreateMany(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.findOrCreate(ctx, name)
		if err != nil {
			return tags, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *TagStore) findOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发创建同名标签，另一方已插入
		err = s.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	}
	if err != nil {
		return nil, fmt.Errorf("find or create tag %q: %w", name, err)
	}
	return &tag, nil
}

// ValidateTags reports whether the number of stored tags equals len(ids).
// It does not check membership.
func (s *TagStore) ValidateTags(ctx context.Context, ids []uint) (bool, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Count(&total).Error; err != nil {
		return false, fmt.Errorf("count tags: %w", err)
	}
	return total == int64(len(ids)), nil
}

func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *TagStore) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag %q: %w", name, err)
	}
	return &tag, nil
}
