package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"

	"go.uber.org/zap"
)

const MaxCommentLength = 1000

type refLoader interface {
	Ref(ctx context.Context, id uint64) (model.ResourceRef, error)
}

// EngagementService handles likes and comments for every resource kind.
type EngagementService struct {
	likes    *db.LikeRepository
	comments *db.CommentRepository
	notifier *NotificationService
	refs     map[model.ResourceKind]refLoader
	logger   *zap.Logger
}

func NewEngagementService(
	likes *db.LikeRepository,
	comments *db.CommentRepository,
	notifier *NotificationService,
	liveries *db.ResourceRepository[model.Livery],
	details *db.ResourceRepository[model.DetailKit],
	logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		likes:    likes,
		comments: comments,
		notifier: notifier,
		refs: map[model.ResourceKind]refLoader{
			model.KindLivery:    liveries,
			model.KindDetailKit: details,
		},
		logger: logger,
	}
}

type LikeResult struct {
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

func (s *EngagementService) resolve(ctx context.Context, kind model.ResourceKind, id uint64) (model.ResourceRef, error) {
	loader, ok := s.refs[kind]
	if !ok {
		return model.ResourceRef{}, invalid("unknown resource kind %q", kind)
	}
	ref, err := loader.Ref(ctx, id)
	if err != nil {
		return ref, notFound(kind.Label(), err)
	}
	return ref, nil
}

// ToggleLike flips the actor's like. Notification failures are logged and do not undo the like.
func (s *EngagementService) ToggleLike(ctx context.Context, actor model.Actor, kind model.ResourceKind, id uint64) (LikeResult, error) {
	ref, err := s.resolve(ctx, kind, id)
	if err != nil {
		return LikeResult{}, err
	}
	liked, count, err := s.likes.Toggle(ctx, kind, id, actor.ID)
	if err != nil {
		return LikeResult{}, notFound(kind.Label(), err)
	}
	if liked {
		if err := s.notifier.NotifyLike(ctx, actor, ref); err != nil {
			s.logger.Warn("like notification failed",
				zap.String("kind", string(kind)), zap.Uint64("resource_id", id), zap.Error(err))
		}
	}
	return LikeResult{Likes: count, Liked: liked}, nil
}

// AddComment appends a comment and returns the resource's full thread, oldest first.
func (s *EngagementService) AddComment(ctx context.Context, actor model.Actor, kind model.ResourceKind, id uint64, text string) ([]model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, invalid("comment must be at most %d characters", MaxCommentLength)
	}

	ref, err := s.resolve(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Append(ctx, &model.Comment{
		ResourceKind: kind,
		ResourceID:   id,
		AuthorID:     actor.ID,
		Username:     actor.Username,
		Text:         text,
	}); err != nil {
		return nil, notFound(kind.Label(), err)
	}
	if err := s.notifier.NotifyComment(ctx, actor, ref); err != nil {
		s.logger.Warn("comment notification failed",
			zap.String("kind", string(kind)), zap.Uint64("resource_id", id), zap.Error(err))
	}
	return s.comments.ListByResource(ctx, kind, id)
}

func (s *EngagementService) Comments(ctx context.Context, kind model.ResourceKind, id uint64) ([]model.Comment, error) {
	return s.comments.ListByResource(ctx, kind, id)
}
