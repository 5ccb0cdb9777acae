package service

import (
	"context"
	"time"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"

	"go.uber.org/zap"
)

// Sender delivers one outbox event downstream.
type Sender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer polls pending notification events and hands them to a Sender.
type OutboxRelayer struct {
	repo      *db.OutboxRepository
	sender    Sender
	batchSize int
	interval  time.Duration
	maxRetry  int
	logger    *zap.Logger
}

func NewOutboxRelayer(repo *db.OutboxRepository, sender Sender, batchSize int, interval time.Duration, maxRetry int, logger *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		sender:    sender,
		batchSize: batchSize,
		interval:  interval,
		maxRetry:  maxRetry,
		logger:    logger,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce relays one batch and returns how many events were delivered.
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("outbox query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := &rows[i]
		if err := r.sender(ctx, ob); err != nil {
			r.logger.Warn("outbox delivery failed", zap.Uint64("outbox_id", ob.ID), zap.Int("retry", ob.Retry), zap.Error(err))
			if err := r.repo.MarkRetry(ctx, ob.ID, r.maxRetry); err != nil {
				r.logger.Error("outbox retry update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.logger.Error("outbox sent update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// LogSender writes events to the log when no broker is configured.
func LogSender(logger *zap.Logger) Sender {
	return func(_ context.Context, ob *model.NotificationOutbox) error {
		logger.Info("notification event",
			zap.String("type", ob.EventType),
			zap.Uint64("recipient_id", ob.RecipientID),
			zap.String("payload", ob.Payload))
		return nil
	}
}

type eventProducer interface {
	Send(ctx context.Context, recipientID uint64, value []byte) error
}

// ProducerSender publishes events keyed by recipient.
func ProducerSender(p eventProducer) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		return p.Send(ctx, ob.RecipientID, []byte(ob.Payload))
	}
}
