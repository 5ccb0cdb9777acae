package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
	"github.com/liverylibrary/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResourceListFilters(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	testutil.CreateLivery(t, conn, author, "Delta Classic", "Boeing 737-800", "delta", "retro")
	testutil.CreateLivery(t, conn, author, "United Blue", "Boeing 777", "united")
	testutil.CreateLivery(t, conn, author, "Lufthansa Retro", "A320neo", "retro")
	repo := db.NewLiveryRepository(conn)

	cases := []struct {
		name   string
		filter db.Filter
		want   []string
	}{
		{"aircraft substring ignores case", db.Filter{Aircraft: "boeing"}, []string{"United Blue", "Delta Classic"}},
		{"tag membership", db.Filter{Tag: "RETRO"}, []string{"Lufthansa Retro", "Delta Classic"}},
		{"tag is exact element", db.Filter{Tag: "ret"}, nil},
		{"search by name", db.Filter{Search: "blue"}, []string{"United Blue"}},
		{"combined", db.Filter{Aircraft: "737", Tag: "retro"}, []string{"Delta Classic"}},
		{"percent is not a wildcard", db.Filter{Search: "%"}, nil},
		{"underscore is not a wildcard", db.Filter{Aircraft: "7_7"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := repo.List(ctx, tc.filter, 0, 10)
			require.NoError(t, err)
			var names []string
			for _, r := range rows {
				names = append(names, r.Name)
			}
			assert.Equal(t, tc.want, names)

			total, err := repo.Count(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
		})
	}
}

func TestResourceListSortAndPaging(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	repo := db.NewLiveryRepository(conn)
	var ids []uint64
	for i := 0; i < 5; i++ {
		l := testutil.CreateLivery(t, conn, author, fmt.Sprintf("L%d", i), "A320")
		ids = append(ids, l.ID)
	}
	require.NoError(t, conn.Model(&model.Livery{}).Where("id = ?", ids[1]).Update("like_count", 7).Error)
	require.NoError(t, conn.Model(&model.Livery{}).Where("id = ?", ids[3]).Update("comment_count", 2).Error)

	newest, err := repo.List(ctx, db.Filter{}, 0, 2)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "L4", newest[0].Name)
	assert.Equal(t, "L3", newest[1].Name)
	require.NotNil(t, newest[0].Author)
	assert.Equal(t, "author", newest[0].Author.Username)

	page2, err := repo.List(ctx, db.Filter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "L2", page2[0].Name)

	liked, err := repo.List(ctx, db.Filter{Sort: model.SortMostLiked}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "L1", liked[0].Name)

	commented, err := repo.List(ctx, db.Filter{Sort: model.SortMostCommented}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "L3", commented[0].Name)

	others, err := repo.List(ctx, db.Filter{AuthorID: author.ID, ExcludeID: ids[4]}, 0, 3)
	require.NoError(t, err)
	assert.Len(t, others, 3)
	for _, o := range others {
		assert.NotEqual(t, ids[4], o.ID)
	}
}

func TestResourceDeleteCascades(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	fan := testutil.CreateUser(t, conn, "fan", model.RoleMember)
	livery := testutil.CreateLivery(t, conn, author, "Classic", "A320")
	likes := &db.LikeRepository{DB: conn}
	comments := &db.CommentRepository{DB: conn}
	repo := db.NewLiveryRepository(conn)

	_, err := likes.Add(ctx, model.KindLivery, livery.ID, fan.ID)
	require.NoError(t, err)
	require.NoError(t, comments.Append(ctx, &model.Comment{
		ResourceKind: model.KindLivery, ResourceID: livery.ID, AuthorID: fan.ID, Username: fan.Username, Text: "nice",
	}))

	require.NoError(t, repo.Delete(ctx, livery.ID))

	_, err = repo.FindByID(ctx, livery.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var remaining int64
	require.NoError(t, conn.Model(&model.Like{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, conn.Model(&model.Comment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, repo.Delete(ctx, livery.ID), gorm.ErrRecordNotFound)
}

func TestCommentAppendKeepsOrderAndCount(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	kit := testutil.CreateDetailKit(t, conn, author, "gear")
	comments := &db.CommentRepository{DB: conn}

	for _, text := range []string{"first", "second"} {
		require.NoError(t, comments.Append(ctx, &model.Comment{
			ResourceKind: model.KindDetailKit, ResourceID: kit.ID, AuthorID: author.ID, Username: author.Username, Text: text,
		}))
	}

	list, err := comments.ListByResource(ctx, model.KindDetailKit, kit.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "second", list[1].Text)

	found, err := db.NewDetailKitRepository(conn).FindByID(ctx, kit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.CommentCount)
}

func TestEngagementOnMissingResourceLeavesNoRows(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, conn, "author", model.RoleMember)
	livery := testutil.CreateLivery(t, conn, author, "Gone", "A320")
	require.NoError(t, db.NewLiveryRepository(conn).Delete(ctx, livery.ID))

	err := (&db.CommentRepository{DB: conn}).Append(ctx, &model.Comment{
		ResourceKind: model.KindLivery, ResourceID: livery.ID, AuthorID: author.ID, Username: author.Username, Text: "late",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = (&db.LikeRepository{DB: conn}).Add(ctx, model.KindLivery, livery.ID, author.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments, likes int64
	require.NoError(t, conn.Model(&model.Comment{}).Count(&comments).Error)
	require.NoError(t, conn.Model(&model.Like{}).Count(&likes).Error)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
}
