package model

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleMember      Role = "member"
	RoleVerified    Role = "verified"
	RoleTester      Role = "tester"
	RoleContributor Role = "contributor"
	RoleModerator   Role = "moderator"
	RoleAdmin       Role = "admin"
	RoleAffiliate   Role = "affiliate"
	RoleOwner       Role = "owner"
)

var ErrUnknownRole = errors.New("unknown role")

var roles = []Role{
	RoleMember, RoleVerified, RoleTester, RoleContributor,
	RoleModerator, RoleAdmin, RoleAffiliate, RoleOwner,
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the role may moderate other users' content.
// Affiliate sits above admin in display order but carries no moderation rights.
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleModerator, RoleAdmin, RoleOwner:
		return true
	}
	return false
}
