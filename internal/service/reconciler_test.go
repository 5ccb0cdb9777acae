package service

import (
	"context"
	"testing"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCounterReconcilerRepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "author", model.RoleMember)
	fan := f.actor(t, "fan", model.RoleMember)
	livery, err := f.liveries.Create(ctx, author, LiveryInput{Name: "Retro", Aircraft: "A320"}, nil)
	require.NoError(t, err)
	_, err = f.liveries.ToggleLike(ctx, fan, livery.ID)
	require.NoError(t, err)
	require.NoError(t, f.conn.Model(&model.Livery{}).Where("id = ?", livery.ID).
		UpdateColumns(map[string]any{"like_count": 40, "comment_count": 3}).Error)

	reconciler := NewCounterReconciler(&db.ReconcileRepository{DB: f.conn}, 100, 0, zaptest.NewLogger(t))
	assert.Equal(t, 1, reconciler.ReconcileOnce(ctx))

	got, err := f.liveries.Get(ctx, livery.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.Zero(t, got.CommentCount)

	assert.Zero(t, reconciler.ReconcileOnce(ctx))
}
