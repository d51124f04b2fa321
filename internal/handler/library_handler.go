package handler

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type LibraryHandler struct {
	librarySvc *service.LibraryService
	validator  *utils.Validator
}

func NewLibraryHandler(librarySvc *service.LibraryService, validator *utils.Validator) *LibraryHandler {
	return &LibraryHandler{
		librarySvc: librarySvc,
		validator:  validator,
	}
}

func (h *LibraryHandler) Purchase(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.PurchaseStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.librarySvc.PurchaseStory(userID, req.StoryID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(resp, resp.Message))
}

func (h *LibraryHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	entries, err := h.librarySvc.List(userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(entries, ""))
}

func (h *LibraryHandler) UpdateProgress(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid story ID"))
	}

	var req models.UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if err := h.librarySvc.UpdateProgress(userID, storyID, req); err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Progress saved"))
}

// Stream redirects an owner to the full story audio.
func (h *LibraryHandler) Stream(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid story ID"))
	}

	url, err := h.librarySvc.StreamURL(userID, storyID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}
