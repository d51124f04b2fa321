package handler

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type NewsHandler struct {
	newsSvc   *service.NewsService
	validator *utils.Validator
}

func NewNewsHandler(newsSvc *service.NewsService, validator *utils.Validator) *NewsHandler {
	return &NewsHandler{
		newsSvc:   newsSvc,
		validator: validator,
	}
}

// Latest returns the newest published briefing for subscribers.
func (h *NewsHandler) Latest(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	episode, err := h.newsSvc.Latest(userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(episode, ""))
}

// Stream redirects a subscriber to the briefing audio.
func (h *NewsHandler) Stream(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	episodeID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid episode ID"))
	}

	url, err := h.newsSvc.StreamURL(userID, episodeID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

// Generate triggers the briefing pipeline for one edition. Admin only.
func (h *NewsHandler) Generate(c *fiber.Ctx) error {
	var req models.GenerateNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	episode, err := h.newsSvc.Generate(c.Context(), req.Edition, req.ForceRegenerate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(episode, "Briefing generated"))
}

// RunScheduler is the cron entrypoint: generates any editions that have come
// due across the delivery timezones.
func (h *NewsHandler) RunScheduler(c *fiber.Ctx) error {
	if err := h.newsSvc.RunScheduler(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(nil, "Scheduler pass complete"))
}

func (h *NewsHandler) ListEpisodes(c *fiber.Ctx) error {
	episodes, err := h.newsSvc.ListEpisodes(c.QueryInt("limit", 30))
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(episodes, ""))
}

// Archive is the public episode list: titles and dates, no audio.
func (h *NewsHandler) Archive(c *fiber.Ctx) error {
	episodes, err := h.newsSvc.PublicEpisodes(c.QueryInt("limit", 30))
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(episodes, ""))
}

func (h *NewsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.newsSvc.GetSettings()
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(settings, ""))
}

func (h *NewsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req models.UpdateNewsSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	settings, err := h.newsSvc.UpdateSettings(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}
	return c.JSON(models.SuccessResponse(settings, "Settings updated"))
}
