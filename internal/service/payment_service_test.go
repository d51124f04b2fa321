package service

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"github.com/drivetimetales/dtt-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(
		db,
		repository.NewUserRepository(db),
		repository.NewStoryRepository(db),
		repository.NewLibraryRepository(db),
		repository.NewPurchaseRepository(db),
		repository.NewWebhookEventRepository(db),
		repository.NewNewsRepository(db),
		catalog.Default(),
		payment.NewStripeService("sk_test_unused"),
		zap.NewNop(),
		"https://drivetimetales.test",
	)
}

func webhookEvent(id, eventType, raw string) stripe.Event {
	return stripe.Event{
		ID:   id,
		Type: eventType,
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func expectEventUnseen(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "webhook_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func expectEventRecorded(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`INSERT INTO "webhook_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
}

func expectCustomerLookup(mock sqlmock.Sqlmock, userID uint, credits int, plan string) {
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "credits", "subscription_type", "stripe_customer_id"}).
			AddRow(userID, "driver@example.com", credits, plan, "cus_1"))
}

func TestHandleEventCheckoutCompletedCreditPack(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)
	mock.ExpectBegin()
	// The grant excludes the unlimited sentinel in the WHERE clause.
	mock.ExpectExec(`UPDATE "users" SET "credits"=credits \+ .+ AND credits <> `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "purchases" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventRecorded(mock)
	mock.ExpectCommit()

	event := webhookEvent("evt_1", "checkout.session.completed", `{
		"id": "cs_1",
		"mode": "payment",
		"payment_intent": "pi_1",
		"metadata": {"user_id": "7", "product_id": "credits_medium", "credits": "25"}
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventCheckoutCompletedStory(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "purchases" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventRecorded(mock)
	mock.ExpectCommit()

	event := webhookEvent("evt_2", "checkout.session.completed", `{
		"id": "cs_2",
		"mode": "payment",
		"payment_intent": "pi_2",
		"metadata": {"user_id": "7", "product_id": "story_30", "credits": "0", "story_id": "12"}
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventCheckoutCompletedSubscription(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Briefing access rides along with the plan.
	mock.ExpectQuery(`SELECT \* FROM "news_accesses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "news_accesses"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "purchases" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventRecorded(mock)
	mock.ExpectCommit()

	event := webhookEvent("evt_3", "checkout.session.completed", `{
		"id": "cs_3",
		"mode": "subscription",
		"subscription": "sub_1",
		"metadata": {"user_id": "7", "product_id": "commuter_monthly", "credits": "45", "plan": "commuter"}
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventReplayIsSkipped(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	// Already recorded: nothing else touches the database.
	mock.ExpectQuery(`SELECT \* FROM "webhook_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stripe_event_id"}).AddRow(1, "evt_1"))

	event := webhookEvent("evt_1", "checkout.session.completed", `{
		"id": "cs_1",
		"mode": "payment",
		"metadata": {"user_id": "7", "credits": "25"}
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventInvoicePaidRollsOverCredits(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)
	expectCustomerLookup(mock, 7, 5, "commuter")

	// The monthly allotment is additive: 5 leftover + 45 = 50.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "credits"=credits \+ .+ AND credits <> `).
		WithArgs(45, sqlmock.AnyArg(), 7, catalog.UnlimitedCredits).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventRecorded(mock)
	mock.ExpectCommit()

	event := webhookEvent("evt_4", "invoice.paid", `{
		"id": "in_1",
		"customer": "cus_1",
		"billing_reason": "subscription_cycle"
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventInvoicePaidUnlimitedPlanUntouched(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)
	expectCustomerLookup(mock, 7, catalog.UnlimitedCredits, "road_warrior")

	// Unlimited balance stays at the sentinel: only the event id is recorded.
	mock.ExpectBegin()
	expectEventRecorded(mock)
	mock.ExpectCommit()

	event := webhookEvent("evt_5", "invoice.paid", `{
		"id": "in_2",
		"customer": "cus_1",
		"billing_reason": "subscription_cycle"
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventInvoicePaidSkipsFirstInvoice(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	// subscription_create invoices are settled by the checkout event; the
	// processed-event check never runs because nothing is applied.
	mock.ExpectQuery(`SELECT \* FROM "webhook_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	event := webhookEvent("evt_6", "invoice.paid", `{
		"id": "in_3",
		"customer": "cus_1",
		"billing_reason": "subscription_create"
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventSubscriptionDeletedResetsPlan(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)
	expectCustomerLookup(mock, 7, 30, "commuter")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "news_accesses"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectEventRecorded(mock)
	mock.ExpectCommit()

	event := webhookEvent("evt_7", "customer.subscription.deleted", `{
		"id": "sub_1",
		"customer": "cus_1"
	}`)

	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleEventIgnoresUnknownType(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newPaymentService(db)

	expectEventUnseen(mock)

	event := webhookEvent("evt_8", "charge.refunded", `{}`)
	if err := svc.HandleEvent(event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateCheckoutSessionRejectsUnknownProduct(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newPaymentService(db)

	_, err := svc.CreateCheckoutSession(1, models.CreateCheckoutSessionRequest{ProductID: "gold_plated"})
	if err != ErrInvalidProduct {
		t.Fatalf("err = %v, want ErrInvalidProduct", err)
	}
}
