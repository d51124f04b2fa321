package payment

import (
	"strconv"

	"github.com/stripe/stripe-go/v74"
	portalsession "github.com/stripe/stripe-go/v74/billingportal/session"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/paymentmethod"
	sub "github.com/stripe/stripe-go/v74/subscription"
)

type StripeService struct {
	secretKey string
}

func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey: secretKey,
	}
}

// CheckoutParams describes a hosted checkout session for a catalog product.
// Prices come from the catalog, not the Stripe dashboard, so line items are
// built with inline price data.
type CheckoutParams struct {
	CustomerID  string
	Mode        string // "payment" or "subscription"
	ProductName string
	Description string
	AmountCents int64
	Interval    string // month or year, subscription mode only
	SuccessURL  string
	CancelURL   string
	// Metadata rides the session and comes back on the webhook; it is the
	// only channel connecting this request to the asynchronous settlement.
	Metadata map[string]string
}

func (s *StripeService) CreateCheckoutSession(p CheckoutParams) (*stripe.CheckoutSession, error) {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(p.AmountCents),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(p.ProductName),
			Description: stripe.String(p.Description),
		},
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(p.CustomerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(p.Mode),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: priceData,
				Quantity:  stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}

	if p.Mode == string(stripe.CheckoutSessionModeSubscription) {
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(p.Interval),
		}
		params.AllowPromotionCodes = stripe.Bool(true)
		// Copy the metadata onto the subscription too, so later
		// subscription.updated/deleted events can identify the plan.
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{},
		}
		for k, v := range p.Metadata {
			params.SubscriptionData.Metadata[k] = v
		}
	}

	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	return session.New(params)
}

// CreateCustomer registers the user with Stripe so repeated checkouts reuse
// one billing customer.
func (s *StripeService) CreateCustomer(email string, userID uint) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata("user_id", formatUint(userID))
	return customer.New(params)
}

func (s *StripeService) CreatePortalSession(customerID, returnURL string) (*stripe.BillingPortalSession, error) {
	return portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
}

// CancelAtPeriodEnd flags the subscription to lapse instead of cutting it off
// immediately; the subscription.deleted webhook does the downgrade later.
func (s *StripeService) CancelAtPeriodEnd(subscriptionID string) (*stripe.Subscription, error) {
	return sub.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
}

// DefaultCardPaymentMethod returns the customer's first saved card, or ""
// when none is on file.
func (s *StripeService) DefaultCardPaymentMethod(customerID string) (string, error) {
	iter := paymentmethod.List(&stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String("card"),
	})
	for iter.Next() {
		return iter.PaymentMethod().ID, nil
	}
	return "", iter.Err()
}

// CreateOffSessionPayment charges a saved card without user interaction
// (quick purchase for returning subscribers).
func (s *StripeService) CreateOffSessionPayment(customerID, paymentMethodID string, amountCents int64, description string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Customer:      stripe.String(customerID),
		PaymentMethod: stripe.String(paymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(description),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return paymentintent.New(params)
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
