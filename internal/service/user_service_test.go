package service

import (
	"context"
	"strings"
	"testing"

	"github.com/liverylibrary/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameRequiresPrivilege(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.actor(t, "admin", model.RoleAdmin)
	affiliate := f.actor(t, "partner", model.RoleAffiliate)
	target := f.actor(t, "target", model.RoleMember)
	f.actor(t, "taken", model.RoleMember)

	_, err := f.users.Rename(ctx, affiliate, target.ID, "fresh")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.users.Rename(ctx, admin, target.ID, "taken")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.users.Rename(ctx, admin, target.ID, "no spaces")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.users.Rename(ctx, admin, 999, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	profile, err := f.users.Profile(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, target.ID, profile.User.ID)

	renamed, err := f.users.Rename(ctx, admin, target.ID, "fresh.name")
	require.NoError(t, err)
	assert.Equal(t, "fresh.name", renamed.Username)

	_, err = f.users.Profile(ctx, "target")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.actor(t, "pilot", model.RoleMember)
	mod := f.actor(t, "mod", model.RoleModerator)

	url, err := f.users.SetAvatar(ctx, me, images("me.png")[0])
	require.NoError(t, err)
	assert.Contains(t, url, "users/")

	_, err = f.users.SetBanner(ctx, me, images("banner.png")[0])
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.ClearAvatar(ctx, me, me.ID), ErrForbidden)
	require.NoError(t, f.users.ClearAvatar(ctx, mod, me.ID))
	require.NoError(t, f.users.ClearBanner(ctx, mod, me.ID))

	profile, err := f.users.Profile(ctx, "pilot")
	require.NoError(t, err)
	assert.Empty(t, profile.User.AvatarURL)
	assert.Empty(t, profile.User.BannerURL)
}

func TestUpdateBio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.actor(t, "pilot", model.RoleMember)

	_, err := f.users.UpdateBio(ctx, me, strings.Repeat("a", MaxBioLength+1))
	assert.ErrorIs(t, err, ErrValidation)

	bio, err := f.users.UpdateBio(ctx, me, "  Flying since 2004 ")
	require.NoError(t, err)
	assert.Equal(t, "Flying since 2004", bio)
}

func TestTopAndSearchUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.actor(t, "alpha", model.RoleMember)
	f.actor(t, "alphabet", model.RoleMember)
	_, err := f.liveries.Create(ctx, a, LiveryInput{Name: "x", Aircraft: "A320"}, nil)
	require.NoError(t, err)

	top, err := f.users.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "alpha", top[0].Username)

	found, err := f.users.Search(ctx, "ALPHA")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = f.users.Search(ctx, " ")
	assert.ErrorIs(t, err, ErrValidation)
}
