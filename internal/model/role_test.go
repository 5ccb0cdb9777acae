package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleIsPrivileged(t *testing.T) {
	privileged := map[Role]bool{
		RoleMember:      false,
		RoleVerified:    false,
		RoleTester:      false,
		RoleContributor: false,
		RoleModerator:   true,
		RoleAdmin:       true,
		RoleAffiliate:   false,
		RoleOwner:       true,
	}
	for role, want := range privileged {
		assert.Equal(t, want, role.IsPrivileged(), role)
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestResourceKindLink(t *testing.T) {
	assert.Equal(t, "/liveries/4", KindLivery.Link(4))
	assert.Equal(t, "/details/9", KindDetailKit.Link(9))
	assert.Equal(t, "detail kit", KindDetailKit.Label())
	assert.Equal(t, "detail_kits", KindDetailKit.Table())
}
