package services

import (
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
)

// ProductVisibility hides unavailable products and unmoderated feedback from
// everyone but staff.
func ProductVisibility(caller *models.User) repositories.ProductFilter {
	hidden := !IsStaff(caller)
	return repositories.ProductFilter{
		OnlyAvailable:         hidden,
		OnlyModeratedFeedback: hidden,
	}
}

// FeedbackVisibility hides unmoderated feedback from non-staff callers other
// than its author.
func FeedbackVisibility(caller *models.User) repositories.FeedbackFilter {
	if IsStaff(caller) {
		return repositories.FeedbackFilter{}
	}
	return repositories.FeedbackFilter{
		OnlyModerated:   true,
		VisibleToAuthor: callerID(caller),
	}
}
