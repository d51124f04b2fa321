package handler

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/service"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"github.com/drivetimetales/dtt-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentSvc    *service.PaymentService
	catalog       *catalog.Catalog
	validator     *utils.Validator
	logger        *zap.Logger
	webhookSecret string
}

func NewPaymentHandler(paymentSvc *service.PaymentService, cat *catalog.Catalog, validator *utils.Validator, logger *zap.Logger, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		paymentSvc:    paymentSvc,
		catalog:       cat,
		validator:     validator,
		logger:        logger,
		webhookSecret: webhookSecret,
	}
}

// Products is the public pricing endpoint.
func (h *PaymentHandler) Products(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.catalog.Products(), ""))
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	sess, err := h.paymentSvc.CreateCheckoutSession(userID, req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(sess, ""))
}

// HandleStripeWebhook verifies the signature, then applies the event. A bad
// signature is a 400 so Stripe retries; a store failure after a verified
// event is logged and acked with 200, since the idempotency record lets a
// manual replay fix it without double-applying anything else.
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid webhook signature"))
	}

	if err := h.paymentSvc.HandleEvent(event); err != nil {
		h.logger.Error("webhook event failed",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}

	return c.JSON(fiber.Map{"received": true})
}

func (h *PaymentHandler) QuickPurchase(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.QuickPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.paymentSvc.QuickPurchase(userID, req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(resp, resp.Message))
}

func (h *PaymentHandler) CreatePortalSession(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	url, err := h.paymentSvc.CreatePortalSession(userID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"url": url}, ""))
}

func (h *PaymentHandler) CancelSubscription(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	if err := h.paymentSvc.CancelSubscription(userID); err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Subscription will end at the current period"))
}

func (h *PaymentHandler) History(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	purchases, err := h.paymentSvc.History(userID, c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(statusForError(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(purchases, ""))
}
