package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services; handlers map them onto HTTP statuses.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyOwned       = errors.New("story already in library")
	ErrNotOwned           = errors.New("story not in library")
	ErrAlreadyWishlisted  = errors.New("story already in wishlist")
	ErrInvalidProduct     = errors.New("unknown product")
	ErrInvalidReferral    = errors.New("invalid referral code")
	ErrSelfReferral       = errors.New("cannot use your own referral code")
	ErrAlreadyReferred    = errors.New("account was already referred")
	ErrNoSavedCard        = errors.New("no saved card on file")
	ErrNoSubscription     = errors.New("no active subscription")
	ErrNoNewsAccess       = errors.New("daily briefing requires an active plan")
	ErrAudioNotReady      = errors.New("audio not available")
)

// InsufficientCreditsError carries the balance detail for the error response.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.Required, e.Available)
}
