package pkg

import (
	"testing"
	"time"

	"github.com/liverylibrary/backend/internal/config"
	"github.com/liverylibrary/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer() *TokenIssuer {
	return NewTokenIssuer(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func TestGenerateAndParsePair(t *testing.T) {
	issuer := newIssuer()

	pair, err := issuer.GeneratePair(42, model.RoleModerator)
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, model.RoleModerator, claims.Role)

	refresh, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), refresh.UserID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	issuer := newIssuer()
	pair, err := issuer.GeneratePair(1, model.RoleMember)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestParseAccessExpired(t *testing.T) {
	issuer := newIssuer()
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }
	pair, err := issuer.GeneratePair(1, model.RoleMember)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestNewResetCode(t *testing.T) {
	code, err := NewResetCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
