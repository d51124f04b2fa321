package handler

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type StoryHandler struct {
	storySvc  *service.StoryService
	reviewSvc *service.ReviewService
	validator *utils.Validator
}

func NewStoryHandler(storySvc *service.StoryService, reviewSvc *service.ReviewService, validator *utils.Validator) *StoryHandler {
	return &StoryHandler{
		storySvc:  storySvc,
		reviewSvc: reviewSvc,
		validator: validator,
	}
}

// List is the public catalog endpoint. Supports ?genre=, ?featured=,
// ?search= and ?limit=.
func (h *StoryHandler) List(c *fiber.Ctx) error {
	filter := models.StoryFilter{
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true" || v == "1"
		filter.Featured = &featured
	}

	stories, err := h.storySvc.List(filter)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(stories, ""))
}

func (h *StoryHandler) Get(c *fiber.Ctx) error {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid story ID"))
	}

	story, err := h.storySvc.Get(storyID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(story, ""))
}

// Sample redirects to the public preview clip; no auth required.
func (h *StoryHandler) Sample(c *fiber.Ctx) error {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid story ID"))
	}

	url, err := h.storySvc.SampleURL(storyID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (h *StoryHandler) ListReviews(c *fiber.Ctx) error {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid story ID"))
	}

	reviews, err := h.reviewSvc.ListForStory(storyID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(reviews, ""))
}

// Publish is admin-only: add a story to the catalog.
func (h *StoryHandler) Publish(c *fiber.Ctx) error {
	var req models.PublishStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	story, err := h.storySvc.Publish(req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(story, "Story published"))
}
