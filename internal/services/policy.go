package services

import (
	"github.com/John-6670/SimpleSocialApp/internal/models"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/google/uuid"
)

// Owned is any resource with a single owning user. Posts and comments
// implement it.
type Owned interface {
	OwnerID() uuid.UUID
}

// CanRead reports whether actor may read resource. Listings are public, so
// an anonymous actor (nil) may read.
func CanRead(actor *models.User, _ Owned) bool {
	return true
}

// CanModify reports whether actor may modify resource. Only the owner may;
// there is no role-based bypass.
func CanModify(actor *models.User, resource Owned) bool {
	if actor == nil {
		return false
	}
	return actor.ID == resource.OwnerID()
}

// CanDelete mirrors CanModify: deletion rights belong to the owner alone.
func CanDelete(actor *models.User, resource Owned) bool {
	return CanModify(actor, resource)
}

// authorizeWrite converts the policy answer into the error taxonomy: an
// anonymous actor is unauthenticated, an identified non-owner is
// forbidden. The two are distinct status classes (401 vs 403).
func authorizeWrite(actor *models.User, resource Owned) error {
	if actor == nil {
		return errs.Errorf(errs.EUNAUTHENTICATED, "You must be logged in.")
	}
	if !CanModify(actor, resource) {
		return errs.Errorf(errs.EFORBIDDEN, "You do not have permission to edit this resource.")
	}
	return nil
}
