package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"github.com/drivetimetales/dtt-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	storyRepo    *repository.StoryRepository
	libraryRepo  *repository.LibraryRepository
	purchaseRepo *repository.PurchaseRepository
	webhookRepo  *repository.WebhookEventRepository
	newsRepo     *repository.NewsRepository
	catalog      *catalog.Catalog
	stripeSvc    *payment.StripeService
	logger       *zap.Logger
	baseURL      string
}

func NewPaymentService(db *gorm.DB, userRepo *repository.UserRepository, storyRepo *repository.StoryRepository, libraryRepo *repository.LibraryRepository, purchaseRepo *repository.PurchaseRepository, webhookRepo *repository.WebhookEventRepository, newsRepo *repository.NewsRepository, cat *catalog.Catalog, stripeSvc *payment.StripeService, logger *zap.Logger, baseURL string) *PaymentService {
	return &PaymentService{
		db:           db,
		userRepo:     userRepo,
		storyRepo:    storyRepo,
		libraryRepo:  libraryRepo,
		purchaseRepo: purchaseRepo,
		webhookRepo:  webhookRepo,
		newsRepo:     newsRepo,
		catalog:      cat,
		stripeSvc:    stripeSvc,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// CreateCheckoutSession opens a hosted Stripe checkout for a catalog product.
// The product id, the user id and the credit grant ride the session metadata;
// settlement happens later on the webhook, never here.
func (s *PaymentService) CreateCheckoutSession(userID uint, req models.CreateCheckoutSessionRequest) (*models.CheckoutSession, error) {
	product, ok := s.catalog.Product(req.ProductID)
	if !ok {
		return nil, ErrInvalidProduct
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"user_id":    strconv.FormatUint(uint64(userID), 10),
		"product_id": product.ID,
		"credits":    strconv.Itoa(product.Credits),
	}

	purchaseType := models.PurchaseTypeCreditPack
	description := product.Description
	switch {
	case product.Mode == catalog.ModeSubscription:
		purchaseType = models.PurchaseTypeSubscription
		metadata["plan"] = string(product.Plan)
	case req.StoryID != 0:
		purchaseType = models.PurchaseTypeStory
		story, err := s.storyRepo.GetByID(req.StoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		metadata["story_id"] = strconv.FormatUint(uint64(req.StoryID), 10)
		description = fmt.Sprintf("%s by %s", story.Title, story.Author)
	}

	customerID, err := s.ensureStripeCustomer(user)
	if err != nil {
		return nil, err
	}

	sess, err := s.stripeSvc.CreateCheckoutSession(payment.CheckoutParams{
		CustomerID:  customerID,
		Mode:        string(product.Mode),
		ProductName: product.Name,
		Description: description,
		AmountCents: product.PriceCents,
		Interval:    product.Interval,
		SuccessURL:  s.baseURL + "/purchase/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.baseURL + "/purchase/cancelled",
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.Create(&models.Purchase{
		UserID:          userID,
		Type:            purchaseType,
		ProductID:       product.ID,
		AmountCents:     product.PriceCents,
		CreditsAdded:    product.Credits,
		StripeSessionID: sess.ID,
		Status:          models.PurchaseStatusPending,
	}); err != nil {
		return nil, err
	}

	return &models.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// HandleEvent applies one verified webhook event. Every mutation runs inside
// a transaction that also records the Stripe event id, so a redelivered event
// is a no-op.
func (s *PaymentService) HandleEvent(event stripe.Event) error {
	seen, err := s.webhookRepo.Seen(event.ID)
	if err != nil {
		return err
	}
	if seen {
		s.logger.Info("webhook replay skipped", zap.String("event_id", event.ID))
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		return s.applyCheckoutCompleted(event, &sess)

	case "invoice.paid":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to parse invoice: %w", err)
		}
		return s.applyInvoicePaid(event, &invoice)

	case "customer.subscription.updated":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.applySubscriptionUpdated(event, &subscription)

	case "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.applySubscriptionDeleted(event, &subscription)
	}

	s.logger.Debug("webhook event ignored", zap.String("type", string(event.Type)))
	return nil
}

func (s *PaymentService) applyCheckoutCompleted(event stripe.Event, sess *stripe.CheckoutSession) error {
	userID, err := parseUintMeta(sess.Metadata, "user_id")
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		switch sess.Mode {
		case stripe.CheckoutSessionModeSubscription:
			plan, ok := catalog.ParsePlan(sess.Metadata["plan"])
			if !ok {
				return fmt.Errorf("unknown plan in session %s metadata", sess.ID)
			}
			subscriptionID := ""
			if sess.Subscription != nil {
				subscriptionID = sess.Subscription.ID
			}
			if err := s.userRepo.WithTx(tx).SetSubscription(userID, string(plan), s.catalog.MonthlyCredits(plan), subscriptionID); err != nil {
				return err
			}
			if err := s.newsRepo.WithTx(tx).GrantAccess(userID, nil); err != nil {
				return err
			}

		case stripe.CheckoutSessionModePayment:
			if storyID, err := parseUintMeta(sess.Metadata, "story_id"); err == nil {
				if err := s.libraryRepo.WithTx(tx).Create(&models.UserStory{
					UserID:      userID,
					StoryID:     storyID,
					PurchasedAt: time.Now(),
				}); err != nil {
					return err
				}
			} else {
				credits, err := strconv.Atoi(sess.Metadata["credits"])
				if err != nil || credits <= 0 {
					return fmt.Errorf("bad credit amount in session %s metadata", sess.ID)
				}
				if err := s.userRepo.WithTx(tx).AddCredits(userID, credits); err != nil {
					return err
				}
			}
		}

		paymentID := ""
		if sess.PaymentIntent != nil {
			paymentID = sess.PaymentIntent.ID
		}
		if err := s.purchaseRepo.WithTx(tx).MarkCompleted(sess.ID, paymentID); err != nil {
			return err
		}
		return s.webhookRepo.WithTx(tx).Record(event.ID, string(event.Type))
	})
}

// applyInvoicePaid refreshes the monthly allotment. The plan is resolved from
// the user row, not a Stripe round-trip; unused credits roll over because the
// grant is additive, and the unlimited sentinel is untouched by AddCredits.
func (s *PaymentService) applyInvoicePaid(event stripe.Event, invoice *stripe.Invoice) error {
	if invoice.BillingReason == stripe.InvoiceBillingReasonSubscriptionCreate {
		// The first invoice is settled by checkout.session.completed.
		return nil
	}
	if invoice.Customer == nil {
		return nil
	}

	user, err := s.userRepo.GetByStripeCustomerID(invoice.Customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("invoice for unknown customer", zap.String("customer", invoice.Customer.ID))
			return nil
		}
		return err
	}

	plan := catalog.Plan(user.SubscriptionType)
	allotment := s.catalog.MonthlyCredits(plan)
	if allotment == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if allotment != catalog.UnlimitedCredits {
			if err := s.userRepo.WithTx(tx).AddCredits(user.ID, allotment); err != nil {
				return err
			}
		}
		return s.webhookRepo.WithTx(tx).Record(event.ID, string(event.Type))
	})
}

func (s *PaymentService) applySubscriptionUpdated(event stripe.Event, subscription *stripe.Subscription) error {
	if subscription.Customer == nil {
		return nil
	}
	plan, ok := catalog.ParsePlan(subscription.Metadata["plan"])
	if !ok {
		return nil
	}

	user, err := s.userRepo.GetByStripeCustomerID(subscription.Customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if user.SubscriptionType == string(plan) {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).SetSubscription(user.ID, string(plan), s.catalog.MonthlyCredits(plan), subscription.ID); err != nil {
			return err
		}
		return s.webhookRepo.WithTx(tx).Record(event.ID, string(event.Type))
	})
}

func (s *PaymentService) applySubscriptionDeleted(event stripe.Event, subscription *stripe.Subscription) error {
	if subscription.Customer == nil {
		return nil
	}

	user, err := s.userRepo.GetByStripeCustomerID(subscription.Customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).ResetToFree(user.ID); err != nil {
			return err
		}
		if err := s.newsRepo.WithTx(tx).RevokeAccess(user.ID); err != nil {
			return err
		}
		return s.webhookRepo.WithTx(tx).Record(event.ID, string(event.Type))
	})
}

// QuickPurchase charges the customer's saved card off-session and grants the
// pack immediately; no hosted checkout round-trip.
func (s *PaymentService) QuickPurchase(userID uint, req models.QuickPurchaseRequest) (*models.QuickPurchaseResponse, error) {
	product, ok := s.catalog.Product(req.PackID)
	if !ok || product.Mode != catalog.ModePayment || product.Credits <= 0 {
		return nil, ErrInvalidProduct
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == "" {
		return nil, ErrNoSavedCard
	}

	cardID, err := s.stripeSvc.DefaultCardPaymentMethod(user.StripeCustomerID)
	if err != nil {
		return nil, err
	}
	if cardID == "" {
		return nil, ErrNoSavedCard
	}

	intent, err := s.stripeSvc.CreateOffSessionPayment(user.StripeCustomerID, cardID, product.PriceCents, product.Name, map[string]string{
		"user_id":    strconv.FormatUint(uint64(userID), 10),
		"product_id": product.ID,
	})
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).AddCredits(userID, product.Credits); err != nil {
			return err
		}
		return s.purchaseRepo.WithTx(tx).Create(&models.Purchase{
			UserID:          userID,
			Type:            models.PurchaseTypeCreditPack,
			ProductID:       product.ID,
			AmountCents:     product.PriceCents,
			CreditsAdded:    product.Credits,
			StripeSessionID: intent.ID,
			StripePaymentID: intent.ID,
			Status:          models.PurchaseStatusCompleted,
		})
	})
	if err != nil {
		return nil, err
	}

	balance := user.Credits
	if balance != catalog.UnlimitedCredits {
		balance += product.Credits
	}

	return &models.QuickPurchaseResponse{
		Message:      fmt.Sprintf("%d credits added", product.Credits),
		CreditsAdded: product.Credits,
		Balance:      balance,
	}, nil
}

func (s *PaymentService) CreatePortalSession(userID uint) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if user.StripeCustomerID == "" {
		return "", ErrNoSubscription
	}
	sess, err := s.stripeSvc.CreatePortalSession(user.StripeCustomerID, s.baseURL+"/account")
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// CancelSubscription flags the plan to lapse at period end. The actual
// downgrade happens when Stripe sends customer.subscription.deleted.
func (s *PaymentService) CancelSubscription(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.StripeSubscriptionID == "" {
		return ErrNoSubscription
	}
	_, err = s.stripeSvc.CancelAtPeriodEnd(user.StripeSubscriptionID)
	return err
}

func (s *PaymentService) History(userID uint, limit int) ([]models.Purchase, error) {
	return s.purchaseRepo.ListByUser(userID, limit)
}

func (s *PaymentService) ensureStripeCustomer(user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}
	cust, err := s.stripeSvc.CreateCustomer(user.Email, user.ID)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.SetStripeCustomerID(user.ID, cust.ID); err != nil {
		return "", err
	}
	return cust.ID, nil
}

func parseUintMeta(metadata map[string]string, key string) (uint, error) {
	raw, ok := metadata[key]
	if !ok || raw == "" {
		return 0, fmt.Errorf("metadata key %s missing", key)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("metadata key %s invalid: %w", key, err)
	}
	return uint(v), nil
}
