package db_test

import (
	"context"
	"testing"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
	"github.com/liverylibrary/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairKeepsLikesCommittedAfterScan(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	fan := testutil.CreateUser(t, conn, "fan", model.RoleMember)
	livery := testutil.CreateLivery(t, conn, author, "Retro", "A320")
	require.NoError(t, conn.Model(&model.Livery{}).Where("id = ?", livery.ID).Update("comment_count", 5).Error)
	repo := &db.ReconcileRepository{DB: conn}

	rows, err := repo.Batch(ctx, model.KindLivery, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	likes, comments, err := repo.ActualCounts(ctx, model.KindLivery, []uint64{livery.ID})
	require.NoError(t, err)
	assert.Zero(t, likes[livery.ID])
	assert.Zero(t, comments[livery.ID])

	// a like lands between the scan and the repair
	_, err = (&db.LikeRepository{DB: conn}).Add(ctx, model.KindLivery, livery.ID, fan.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Repair(ctx, model.KindLivery, livery.ID))

	got, err := db.NewLiveryRepository(conn).FindByID(ctx, livery.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.Zero(t, got.CommentCount)
}
