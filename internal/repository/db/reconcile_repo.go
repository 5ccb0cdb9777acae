package db

import (
	"context"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRow is the stored like and comment counters of a resource.
type CounterRow struct {
	ID           uint64
	LikeCount    int64
	CommentCount int64
}

type ReconcileRepository struct {
	DB *gorm.DB
}

// Batch pages through resources by id.
func (r *ReconcileRepository) Batch(ctx context.Context, kind model.ResourceKind, afterID uint64, limit int) ([]CounterRow, error) {
	var rows []CounterRow
	err := r.DB.WithContext(ctx).
		Table(kind.Table()).
		Select("id", "like_count", "comment_count").
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type groupCount struct {
	ResourceID uint64
	N          int64
}

// ActualCounts counts like and comment rows for the given resources.
func (r *ReconcileRepository) ActualCounts(ctx context.Context, kind model.ResourceKind, ids []uint64) (likes, comments map[uint64]int64, err error) {
	count := func(table string) (map[uint64]int64, error) {
		var rows []groupCount
		if err := r.DB.WithContext(ctx).
			Table(table).
			Select("resource_id, COUNT(*) AS n").
			Where("resource_kind = ? AND resource_id IN ?", kind, ids).
			Group("resource_id").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		out := make(map[uint64]int64, len(rows))
		for _, row := range rows {
			out[row.ResourceID] = row.N
		}
		return out, nil
	}
	if likes, err = count("likes"); err != nil {
		return nil, nil, err
	}
	if comments, err = count("comments"); err != nil {
		return nil, nil, err
	}
	return likes, comments, nil
}

// Repair recomputes both counters of one resource from the like and comment rows
// in a single statement, so likes committed meanwhile are never overwritten.
func (r *ReconcileRepository) Repair(ctx context.Context, kind model.ResourceKind, id uint64) error {
	table := kind.Table()
	countExpr := func(rows string) clause.Expr {
		return gorm.Expr("(SELECT COUNT(*) FROM "+rows+" WHERE "+rows+".resource_kind = ? AND "+rows+".resource_id = "+table+".id)", kind)
	}
	return r.DB.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"like_count":    countExpr("likes"),
			"comment_count": countExpr("comments"),
		}).Error
}
