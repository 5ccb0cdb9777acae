package service

import (
	"context"
	"fmt"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
)

const NotificationListLimit = 50

type NotificationService struct {
	repo *db.NotificationRepository
}

func NewNotificationService(repo *db.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func likeDedupKey(ref model.ResourceRef, actorID uint64) string {
	return fmt.Sprintf("like:%s:%d:%d", ref.Kind, ref.ID, actorID)
}

// NotifyLike tells the resource author about a like. Repeated likes by the same
// actor on the same resource collapse into the first notification.
func (s *NotificationService) NotifyLike(ctx context.Context, actor model.Actor, ref model.ResourceRef) error {
	if actor.ID == ref.AuthorID {
		return nil
	}
	key := likeDedupKey(ref, actor.ID)
	_, err := s.repo.Create(ctx, &model.Notification{
		UserID:       ref.AuthorID,
		ActorID:      actor.ID,
		Kind:         model.NotificationLike,
		ResourceKind: ref.Kind,
		ResourceID:   ref.ID,
		Message:      fmt.Sprintf("%s liked your %s \"%s\"", actor.Username, ref.Kind.Label(), ref.Name),
		Link:         ref.Kind.Link(ref.ID),
		DedupKey:     &key,
	})
	return err
}

func (s *NotificationService) NotifyComment(ctx context.Context, actor model.Actor, ref model.ResourceRef) error {
	if actor.ID == ref.AuthorID {
		return nil
	}
	_, err := s.repo.Create(ctx, &model.Notification{
		UserID:       ref.AuthorID,
		ActorID:      actor.ID,
		Kind:         model.NotificationComment,
		ResourceKind: ref.Kind,
		ResourceID:   ref.ID,
		Message:      fmt.Sprintf("%s commented on your %s \"%s\"", actor.Username, ref.Kind.Label(), ref.Name),
		Link:         ref.Kind.Link(ref.ID),
	})
	return err
}

func (s *NotificationService) List(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, actor.ID, NotificationListLimit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor model.Actor) (int64, error) {
	return s.repo.CountUnread(ctx, actor.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor model.Actor) (int64, error) {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

func (s *NotificationService) Clear(ctx context.Context, actor model.Actor) (int64, error) {
	return s.repo.DeleteAllByUser(ctx, actor.ID)
}
