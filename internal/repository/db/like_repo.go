package db

import (
	"context"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	DB *gorm.DB
}

var likeConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "resource_kind"}, {Name: "resource_id"}, {Name: "user_id"}},
	DoNothing: true,
}

// Toggle flips the user's like on a resource and returns the new state with the fresh count.
func (r *LikeRepository) Toggle(ctx context.Context, kind model.ResourceKind, resourceID, userID uint64) (liked bool, count int64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := removeLike(tx, kind, resourceID, userID)
		if err != nil {
			return err
		}
		if !removed {
			if _, err := insertLike(tx, kind, resourceID, userID); err != nil {
				return err
			}
			liked = true
		}
		count, err = readCounter(tx, kind, resourceID, "like_count")
		return err
	})
	return liked, count, err
}

// Add is idempotent: a second call for the same user leaves the count unchanged.
func (r *LikeRepository) Add(ctx context.Context, kind model.ResourceKind, resourceID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = insertLike(tx, kind, resourceID, userID)
		return err
	})
	return changed, err
}

func (r *LikeRepository) Remove(ctx context.Context, kind model.ResourceKind, resourceID, userID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = removeLike(tx, kind, resourceID, userID)
		return err
	})
	return changed, err
}

func (r *LikeRepository) IsLiked(ctx context.Context, kind model.ResourceKind, resourceID, userID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Where("resource_kind = ? AND resource_id = ? AND user_id = ?", kind, resourceID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *LikeRepository) Count(ctx context.Context, kind model.ResourceKind, resourceID uint64) (int64, error) {
	return readCounter(r.DB.WithContext(ctx), kind, resourceID, "like_count")
}

func insertLike(tx *gorm.DB, kind model.ResourceKind, resourceID, userID uint64) (bool, error) {
	res := tx.Clauses(likeConflict).Create(&model.Like{ResourceKind: kind, ResourceID: resourceID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, adjustCounter(tx, kind, resourceID, "like_count", 1)
}

func removeLike(tx *gorm.DB, kind model.ResourceKind, resourceID, userID uint64) (bool, error) {
	res := tx.Where("resource_kind = ? AND resource_id = ? AND user_id = ?", kind, resourceID, userID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, adjustCounter(tx, kind, resourceID, "like_count", -1)
}

// adjustCounter moves a counter column by delta; it never goes below zero.
// An increment on a missing resource returns gorm.ErrRecordNotFound so the
// caller's transaction rolls back instead of leaving an orphan row.
func adjustCounter(tx *gorm.DB, kind model.ResourceKind, resourceID uint64, column string, delta int64) error {
	if delta < 0 {
		// MySQL reports 0 affected rows when a counter already at zero stays at zero.
		expr := gorm.Expr("CASE WHEN "+column+" > ? THEN "+column+" - ? ELSE 0 END", -delta, -delta)
		return tx.Table(kind.Table()).Where("id = ?", resourceID).UpdateColumn(column, expr).Error
	}
	res := tx.Table(kind.Table()).Where("id = ?", resourceID).UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func readCounter(tx *gorm.DB, kind model.ResourceKind, resourceID uint64, column string) (int64, error) {
	var counts []int64
	if err := tx.Table(kind.Table()).Where("id = ?", resourceID).Pluck(column, &counts).Error; err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return counts[0], nil
}
