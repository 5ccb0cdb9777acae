package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
	"github.com/liverylibrary/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeToggleTwiceRestoresState(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	fan := testutil.CreateUser(t, conn, "fan", model.RoleMember)
	livery := testutil.CreateLivery(t, conn, author, "Classic", "A320")
	repo := &db.LikeRepository{DB: conn}

	liked, count, err := repo.Toggle(ctx, model.KindLivery, livery.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = repo.Toggle(ctx, model.KindLivery, livery.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)

	isLiked, err := repo.IsLiked(ctx, model.KindLivery, livery.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, isLiked)
}

func TestLikeAddIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	fan := testutil.CreateUser(t, conn, "fan", model.RoleMember)
	kit := testutil.CreateDetailKit(t, conn, author, "cockpit")
	repo := &db.LikeRepository{DB: conn}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Add(ctx, model.KindDetailKit, kit.ID, fan.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := repo.Count(ctx, model.KindDetailKit, kit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	changed, err := repo.Add(ctx, model.KindDetailKit, kit.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestLikeRemoveNeverGoesNegative(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	livery := testutil.CreateLivery(t, conn, author, "Classic", "A320")
	repo := &db.LikeRepository{DB: conn}

	changed, err := repo.Remove(ctx, model.KindLivery, livery.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	count, err := repo.Count(ctx, model.KindLivery, livery.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLikesAreScopedByKind(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	fan := testutil.CreateUser(t, conn, "fan", model.RoleMember)
	livery := testutil.CreateLivery(t, conn, author, "Classic", "A320")
	kit := testutil.CreateDetailKit(t, conn, author, "cockpit")
	require.Equal(t, livery.ID, kit.ID)
	repo := &db.LikeRepository{DB: conn}

	_, err := repo.Add(ctx, model.KindLivery, livery.ID, fan.ID)
	require.NoError(t, err)

	kitLikes, err := repo.Count(ctx, model.KindDetailKit, kit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), kitLikes)
}
