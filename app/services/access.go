package services

import (
	"github.com/Rakhulsr/go-shop/app/models"
)

// Policy decides whether caller may act on a resource owned by ownerID.
// A nil caller is anonymous.
type Policy func(caller *models.User, ownerID uint) bool

var (
	Anyone Policy = func(*models.User, uint) bool { return true }

	Authenticated Policy = func(caller *models.User, _ uint) bool {
		return caller != nil && caller.ID != 0
	}

	StaffOnly Policy = func(caller *models.User, _ uint) bool {
		return IsStaff(caller)
	}

	OwnerOrAdmin Policy = func(caller *models.User, ownerID uint) bool {
		if caller == nil {
			return false
		}
		return caller.ID == ownerID || caller.IsStaff
	}
)

func IsStaff(caller *models.User) bool {
	return caller != nil && caller.IsStaff
}

// Authorize passes only when every policy allows the call.
func Authorize(caller *models.User, ownerID uint, policies ...Policy) error {
	for _, allowed := range policies {
		if !allowed(caller, ownerID) {
			return ErrForbidden
		}
	}
	return nil
}

func callerID(caller *models.User) uint {
	if caller == nil {
		return 0
	}
	return caller.ID
}
