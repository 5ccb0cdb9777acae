package db

import (
	"context"
	"strings"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
)

// Filter narrows a resource listing. Zero values mean "no constraint".
type Filter struct {
	Aircraft  string
	Tag       string
	Search    string
	Sort      string
	AuthorID  uint64
	ExcludeID uint64
}

// ResourceRepository stores liveries and detail kits, which share their listing, like and comment shape.
type ResourceRepository[T model.Livery | model.DetailKit] struct {
	DB   *gorm.DB
	kind model.ResourceKind
}

func NewLiveryRepository(conn *gorm.DB) *ResourceRepository[model.Livery] {
	return &ResourceRepository[model.Livery]{DB: conn, kind: model.KindLivery}
}

func NewDetailKitRepository(conn *gorm.DB) *ResourceRepository[model.DetailKit] {
	return &ResourceRepository[model.DetailKit]{DB: conn, kind: model.KindDetailKit}
}

func (r *ResourceRepository[T]) Kind() model.ResourceKind { return r.kind }

func (r *ResourceRepository[T]) Create(ctx context.Context, row *T) error {
	return r.DB.WithContext(ctx).Create(row).Error
}

func (r *ResourceRepository[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	var row T
	if err := r.DB.WithContext(ctx).Preload("Author").First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Ref loads only the columns needed for authorization and notifications.
func (r *ResourceRepository[T]) Ref(ctx context.Context, id uint64) (model.ResourceRef, error) {
	var ref model.ResourceRef
	err := r.DB.WithContext(ctx).
		Table(r.kind.Table()).
		Select("id", "author_id", "name").
		Where("id = ?", id).
		Take(&ref).Error
	ref.Kind = r.kind
	return ref, err
}

func (r *ResourceRepository[T]) Count(ctx context.Context, f Filter) (int64, error) {
	var total int64
	err := r.filtered(r.DB.WithContext(ctx).Model(new(T)), f).Count(&total).Error
	return total, err
}

func (r *ResourceRepository[T]) List(ctx context.Context, f Filter, offset, limit int) ([]T, error) {
	q := r.filtered(r.DB.WithContext(ctx).Model(new(T)), f).
		Preload("Author").
		Order(r.orderBy(f.Sort))
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	rows := make([]T, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ResourceRepository[T]) Update(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the resource with its likes and comments.
func (r *ResourceRepository[T]) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_kind = ? AND resource_id = ?", r.kind, id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_kind = ? AND resource_id = ?", r.kind, id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(new(T), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ResourceRepository[T]) filtered(q *gorm.DB, f Filter) *gorm.DB {
	table := r.kind.Table()
	if s := strings.TrimSpace(f.Aircraft); s != "" {
		q = q.Where(CaseInsensitiveLikeExpr(r.DB, table+".aircraft"), LikePattern(r.DB, s))
	}
	if tag := strings.ToLower(strings.TrimSpace(f.Tag)); tag != "" {
		q = q.Where(JSONArrayContainsExpr(r.DB, table+".tags"), JSONArrayContainsValue(r.DB, tag))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(CaseInsensitiveLikeExpr(r.DB, table+".name"), LikePattern(r.DB, s))
	}
	if f.AuthorID != 0 {
		q = q.Where(table+".author_id = ?", f.AuthorID)
	}
	if f.ExcludeID != 0 {
		q = q.Where(table+".id <> ?", f.ExcludeID)
	}
	return q
}

func (r *ResourceRepository[T]) orderBy(sort string) string {
	table := r.kind.Table()
	newest := table + ".created_at DESC, " + table + ".id DESC"
	switch sort {
	case model.SortMostLiked:
		return table + ".like_count DESC, " + newest
	case model.SortMostCommented:
		return table + ".comment_count DESC, " + newest
	default:
		return newest
	}
}
