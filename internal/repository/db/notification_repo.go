package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	DB *gorm.DB
}

// Create inserts the notification and its outbox event together. A notification whose
// dedup key already exists is skipped and reported as created=false.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) (bool, error) {
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if n.DedupKey != nil {
			q = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "dedup_key"}},
				DoNothing: true,
			})
		}
		res := q.Create(n)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return insertOutbox(tx, n)
	})
	return created, err
}

// ListByUser returns the newest notifications first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	list := make([]model.Notification, 0)
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) DeleteAllByUser(ctx context.Context, userID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

// NotificationEvent is the outbox payload relayed to subscribers.
type NotificationEvent struct {
	EventTime      string                 `json:"event_time"`
	NotificationID uint64                 `json:"notification_id"`
	RecipientID    uint64                 `json:"recipient_id"`
	ActorID        uint64                 `json:"actor_id"`
	Kind           model.NotificationKind `json:"kind"`
	ResourceKind   model.ResourceKind     `json:"resource_kind,omitempty"`
	ResourceID     uint64                 `json:"resource_id,omitempty"`
	Message        string                 `json:"message"`
	Link           string                 `json:"link,omitempty"`
}

func insertOutbox(tx *gorm.DB, n *model.Notification) error {
	payload, err := json.Marshal(NotificationEvent{
		EventTime:      time.Now().UTC().Format(time.RFC3339Nano),
		NotificationID: n.ID,
		RecipientID:    n.UserID,
		ActorID:        n.ActorID,
		Kind:           n.Kind,
		ResourceKind:   n.ResourceKind,
		ResourceID:     n.ResourceID,
		Message:        n.Message,
		Link:           n.Link,
	})
	if err != nil {
		return err
	}
	return tx.Create(&model.NotificationOutbox{
		EventType:      "notification." + string(n.Kind),
		NotificationID: n.ID,
		RecipientID:    n.UserID,
		Payload:        string(payload),
		Status:         model.OutboxPending,
	}).Error
}
