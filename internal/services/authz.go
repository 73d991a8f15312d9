package services

import (
	"errors"

	"github.com/devfolio/apiserver/types"
)

// ErrPermissionDenied is returned when an actor may not mutate a
// resource.
var ErrPermissionDenied = errors.New("permission denied")

// Authorize decides whether the actor may mutate a resource owned by
// ownerID. Admins may mutate anything; otherwise the actor must be the
// owner. An empty ownerID marks an admin-managed resource (skill
// catalog, contact messages) that no regular user may touch.
//
// Callers must confirm the resource exists before invoking the guard so
// an invalid id yields "not found" rather than "forbidden".
func Authorize(actor types.Actor, ownerID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if ownerID != "" && actor.ID == ownerID {
		return nil
	}
	return ErrPermissionDenied
}
