package service

import (
	"context"
	"time"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"

	"go.uber.org/zap"
)

// CounterReconciler periodically rewrites like_count and comment_count from the
// like and comment rows, repairing drift left by manual edits or partial restores.
type CounterReconciler struct {
	repo      *db.ReconcileRepository
	batchSize int
	interval  time.Duration
	logger    *zap.Logger
}

func NewCounterReconciler(repo *db.ReconcileRepository, batchSize int, interval time.Duration, logger *zap.Logger) *CounterReconciler {
	return &CounterReconciler{repo: repo, batchSize: batchSize, interval: interval, logger: logger}
}

func (r *CounterReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce walks every resource once and returns how many were corrected.
func (r *CounterReconciler) ReconcileOnce(ctx context.Context) int {
	fixed := 0
	for _, kind := range []model.ResourceKind{model.KindLivery, model.KindDetailKit} {
		var last uint64
		for {
			rows, err := r.repo.Batch(ctx, kind, last, r.batchSize)
			if err != nil {
				r.logger.Error("reconcile batch failed", zap.String("kind", string(kind)), zap.Error(err))
				break
			}
			if len(rows) == 0 {
				break
			}
			last = rows[len(rows)-1].ID
			fixed += r.reconcileBatch(ctx, kind, rows)
		}
	}
	if fixed > 0 {
		r.logger.Info("reconciled counters", zap.Int("fixed", fixed))
	}
	return fixed
}

func (r *CounterReconciler) reconcileBatch(ctx context.Context, kind model.ResourceKind, rows []db.CounterRow) int {
	ids := make([]uint64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	likes, comments, err := r.repo.ActualCounts(ctx, kind, ids)
	if err != nil {
		r.logger.Error("reconcile count failed", zap.String("kind", string(kind)), zap.Error(err))
		return 0
	}
	fixed := 0
	for _, row := range rows {
		if likes[row.ID] == row.LikeCount && comments[row.ID] == row.CommentCount {
			continue
		}
		if err := r.repo.Repair(ctx, kind, row.ID); err != nil {
			r.logger.Warn("reconcile update failed", zap.Uint64("id", row.ID), zap.Error(err))
			continue
		}
		fixed++
	}
	return fixed
}
