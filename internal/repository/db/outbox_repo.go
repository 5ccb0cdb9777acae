package db

import (
	"context"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// ListPending returns the oldest pending events.
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	var list []model.NotificationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}

// MarkRetry records a failed delivery; once retries reach maxRetry the event is parked as failed.
func (r *OutboxRepository) MarkRetry(ctx context.Context, id uint64, maxRetry int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.NotificationOutbox
		if err := tx.Select("id", "retry").First(&row, id).Error; err != nil {
			return err
		}
		status := model.OutboxPending
		if row.Retry+1 >= maxRetry {
			status = model.OutboxFailed
		}
		return tx.Model(&model.NotificationOutbox{}).
			Where("id = ?", id).
			Updates(map[string]any{"retry": row.Retry + 1, "status": status}).Error
	})
}
