package service

import (
	"fmt"

	"github.com/liverylibrary/backend/internal/model"
)

// CanModify reports whether actor may change or delete content owned by authorID.
func CanModify(actor model.Actor, authorID uint64) bool {
	return actor.ID == authorID || actor.Role.IsPrivileged()
}

func authorize(actor model.Actor, authorID uint64) error {
	if !CanModify(actor, authorID) {
		return fmt.Errorf("%w: only the author or a moderator can do this", ErrForbidden)
	}
	return nil
}

func requirePrivileged(actor model.Actor) error {
	if !actor.Role.IsPrivileged() {
		return fmt.Errorf("%w: moderator role required", ErrForbidden)
	}
	return nil
}
