package handler

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	referralSvc *service.ReferralService
}

func NewReferralHandler(referralSvc *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		referralSvc: referralSvc,
	}
}

func (h *ReferralHandler) Stats(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	stats, err := h.referralSvc.Stats(userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(stats, ""))
}

// Apply redeems a referral code for an already registered account.
func (h *ReferralHandler) Apply(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.ProcessReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if req.ReferralCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Referral code is required"))
	}

	if err := h.referralSvc.Apply(userID, req.ReferralCode); err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Referral applied"))
}

// CheckCode is public: the signup form validates codes before registration.
func (h *ReferralHandler) CheckCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Referral code is required"))
	}

	check, err := h.referralSvc.CheckCode(code)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(check, ""))
}

// ShareQR returns a PNG image of the caller's referral link.
func (h *ReferralHandler) ShareQR(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	png, err := h.referralSvc.ShareQR(userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
