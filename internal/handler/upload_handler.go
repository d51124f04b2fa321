package handler

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/pkg/storage"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const presignExpiry = time.Hour

type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required,supported_audio"`
}

// UploadHandler covers admin audio ingestion: large masters go through a
// presigned PUT straight to object storage, small files can post directly.
type UploadHandler struct {
	storage   storage.ObjectStorage
	validator *utils.Validator
}

func NewUploadHandler(store storage.ObjectStorage, validator *utils.Validator) *UploadHandler {
	return &UploadHandler{
		storage:   store,
		validator: validator,
	}
}

// Presign hands back a time-limited PUT URL plus the storage key to reference
// when publishing the story.
func (h *UploadHandler) Presign(c *fiber.Ctx) error {
	var req PresignUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	key := fmt.Sprintf("stories/%s%s", uuid.New().String(), filepath.Ext(req.FileName))
	url, err := h.storage.PresignUpload(key, req.ContentType, presignExpiry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{
		"upload_url": url,
		"key":        key,
		"expires_in": int(presignExpiry.Seconds()),
	}, ""))
}

// Direct accepts a multipart upload for smaller files (samples, artwork).
func (h *UploadHandler) Direct(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("file field is required"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read upload"))
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := fmt.Sprintf("samples/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))

	if err := h.storage.Upload(key, src, contentType); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(fiber.Map{
		"key": key,
		"url": h.storage.PublicURL(key),
	}, "Upload complete"))
}
