package handler

import (
	"errors"
	"strconv"

	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps service errors onto HTTP statuses. Anything unmapped is
// an internal error.
func statusForError(err error) int {
	var insufficient *service.InsufficientCreditsError
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrAudioNotReady):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrNoNewsAccess):
		return fiber.StatusForbidden
	// Conflicts (already owned, duplicate wishlist entry, taken email) and
	// insufficient balances render as 400 alongside the other input errors.
	case errors.As(err, &insufficient),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyOwned),
		errors.Is(err, service.ErrAlreadyWishlisted),
		errors.Is(err, service.ErrAlreadyReferred),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidReferral),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, service.ErrNoSavedCard),
		errors.Is(err, service.ErrNoSubscription):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
