package db

import (
	"context"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

// Append stores the comment and bumps the resource's comment_count in one transaction.
func (r *CommentRepository) Append(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return adjustCounter(tx, c.ResourceKind, c.ResourceID, "comment_count", 1)
	})
}

// ListByResource returns comments oldest first.
func (r *CommentRepository) ListByResource(ctx context.Context, kind model.ResourceKind, resourceID uint64) ([]model.Comment, error) {
	list := make([]model.Comment, 0)
	err := r.DB.WithContext(ctx).
		Where("resource_kind = ? AND resource_id = ?", kind, resourceID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
