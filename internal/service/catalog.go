package service

import (
	"context"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
)

// catalog holds the operations liveries and detail kits share.
type catalog[T model.Livery | model.DetailKit] struct {
	repo       *db.ResourceRepository[T]
	engagement *EngagementService
	uploads    *UploadService
	folder     string
}

func (c *catalog[T]) Recent(ctx context.Context) ([]T, error) {
	return c.repo.List(ctx, db.Filter{}, 0, RecentLimit)
}

func (c *catalog[T]) List(ctx context.Context, q ListQuery) (*Page[T], error) {
	f := db.Filter{Aircraft: q.Aircraft, Tag: q.Tag, Search: q.Search, Sort: q.Sort}
	limit := normalizeLimit(q.Limit)

	total, err := c.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	totalPages, current := pageBounds(total, q.Page, limit)

	rows, err := c.repo.List(ctx, f, (current-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &Page[T]{Data: rows, Total: total, TotalPages: totalPages, CurrentPage: current}, nil
}

func (c *catalog[T]) Mine(ctx context.Context, actor model.Actor) ([]T, error) {
	return c.repo.List(ctx, db.Filter{AuthorID: actor.ID}, 0, 0)
}

// ByAuthor lists a few other uploads by the same author. excludeID 0 excludes nothing.
func (c *catalog[T]) ByAuthor(ctx context.Context, authorID, excludeID uint64) ([]T, error) {
	return c.repo.List(ctx, db.Filter{AuthorID: authorID, ExcludeID: excludeID}, 0, AuthorShelfLimit)
}

func (c *catalog[T]) ToggleLike(ctx context.Context, actor model.Actor, id uint64) (LikeResult, error) {
	return c.engagement.ToggleLike(ctx, actor, c.repo.Kind(), id)
}

func (c *catalog[T]) AddComment(ctx context.Context, actor model.Actor, id uint64, text string) ([]model.Comment, error) {
	return c.engagement.AddComment(ctx, actor, c.repo.Kind(), id, text)
}

// Delete removes the resource when actor is its author or privileged.
func (c *catalog[T]) Delete(ctx context.Context, actor model.Actor, id uint64) error {
	ref, err := c.repo.Ref(ctx, id)
	if err != nil {
		return notFound(c.repo.Kind().Label(), err)
	}
	if err := authorize(actor, ref.AuthorID); err != nil {
		return err
	}
	return notFound(c.repo.Kind().Label(), c.repo.Delete(ctx, id))
}

func (c *catalog[T]) find(ctx context.Context, id uint64) (*T, []model.Comment, error) {
	row, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(c.repo.Kind().Label(), err)
	}
	comments, err := c.engagement.Comments(ctx, c.repo.Kind(), id)
	if err != nil {
		return nil, nil, err
	}
	return row, comments, nil
}

// authorizeUpdate checks ownership before an update is applied.
func (c *catalog[T]) authorizeUpdate(ctx context.Context, actor model.Actor, id uint64) error {
	ref, err := c.repo.Ref(ctx, id)
	if err != nil {
		return notFound(c.repo.Kind().Label(), err)
	}
	return authorize(actor, ref.AuthorID)
}
