package usecases_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"registration-service/config"
	"registration-service/internal/module/registration/mocks"
	"registration-service/internal/module/registration/models/entity"
	"registration-service/internal/module/registration/models/request"
	"registration-service/internal/module/registration/models/response"
	"registration-service/internal/module/registration/usecases"
	"registration-service/internal/pkg/errors"
	"registration-service/internal/pkg/helpers"
	log_internal "registration-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	uc       usecases.Usecase
	repoMock *mocks.Repositories
	logMock  log_internal.Logger
	p        message.Publisher

	cfgWorkshop = config.WorkshopConfig{
		CodePrefix:            "CARN",
		BatchCapacity:         20,
		HoldDisplayTTLMinutes: 15,
		HoldDeleteTTLMinutes:  10,
		SweepIntervalMinutes:  5,
		UnlimitedDate:         "2026-03-01",
		FeeAmount:             450,
		FeeCurrency:           "INR",
	}
	cfgGateway = config.GatewayConfig{
		KeyID:         "key_test",
		KeySecret:     "client-secret",
		WebhookSecret: "webhook-secret",
	}
)

type mockPublisher struct{}

// Close implements message.Publisher.
func (m *mockPublisher) Close() error {
	return nil
}

// Publish implements message.Publisher.
func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	return nil
}

func NewMockPublisher() message.Publisher {
	return &mockPublisher{}
}

func setup() {
	repoMock = new(mocks.Repositories)
	p = NewMockPublisher()
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logMock = log_internal.GetLogger()
	uc = usecases.New(repoMock, logMock, p, &cfgWorkshop, &cfgGateway)
}

func teardown() {
	repoMock = nil
	uc = nil
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(cfgGateway.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(cfgGateway.WebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func mockAvailability(ctx context.Context, event, batch string, date time.Time, expired int64, confirmed, activeHolds int) {
	repoMock.On("DeleteExpiredInScope", ctx, event, batch, date, mock.AnythingOfType("time.Time")).Return(expired, nil)
	repoMock.On("CountConfirmedInScope", ctx, event, batch, date).Return(confirmed, nil)
	repoMock.On("CountActiveHoldsInScope", ctx, event, batch, date, mock.AnythingOfType("time.Time")).Return(activeHolds, nil)
}

// mockAvailabilityOnce stages a single availability read so one partition can
// be walked through successive snapshots.
func mockAvailabilityOnce(ctx context.Context, event, batch string, date time.Time, expired int64, confirmed, activeHolds int) {
	repoMock.On("DeleteExpiredInScope", ctx, event, batch, date, mock.AnythingOfType("time.Time")).Return(expired, nil).Once()
	repoMock.On("CountConfirmedInScope", ctx, event, batch, date).Return(confirmed, nil).Once()
	repoMock.On("CountActiveHoldsInScope", ctx, event, batch, date, mock.AnythingOfType("time.Time")).Return(activeHolds, nil).Once()
}

func pendingReservation(code string, age time.Duration) entity.Reservation {
	now := time.Now().UTC()
	date, _ := helpers.ParseActivityDate("2026-02-07")
	return entity.Reservation{
		ID:               1,
		Code:             code,
		EventName:        "Carnival Workshop",
		Batch:            "B1",
		ActivityDate:     date,
		ParentName:       "Jane Doe",
		ParentEmail:      "jane@test.com",
		ParentPhone:      "9999999999",
		ChildName:        "Sam Doe",
		ChildAge:         7,
		Status:           entity.StatusPendingPayment,
		PaymentStatus:    entity.PaymentStatusPending,
		Amount:           450,
		Currency:         "INR",
		PaymentExpiresAt: now.Add(-age).Add(15 * time.Minute),
		CreatedAt:        now.Add(-age),
	}
}

func TestCheckSlot(t *testing.T) {
	setup()
	defer teardown()
	ctx := context.Background()

	date, _ := helpers.ParseActivityDate("2026-02-07")

	t.Run("fully booked batch reports full", func(t *testing.T) {
		mockAvailability(ctx, "Carnival Workshop", "B1", date, 0, 20, 0)

		resp, err := uc.CheckSlot(ctx, &request.SlotQuery{
			EventName: "Carnival Workshop",
			Batch:     "B1",
			Date:      "2026-02-07",
		})

		assert.NoError(t, err)
		assert.True(t, resp.IsFull)
		assert.Equal(t, 0, resp.Remaining)
		assert.Equal(t, "full", resp.Status)
	})

	t.Run("few slots left reports limited", func(t *testing.T) {
		mockAvailability(ctx, "Carnival Workshop", "B2", date, 2, 15, 3)

		resp, err := uc.CheckSlot(ctx, &request.SlotQuery{
			EventName: "Carnival Workshop",
			Batch:     "B2",
			Date:      "2026-02-07",
		})

		assert.NoError(t, err)
		assert.False(t, resp.IsFull)
		assert.Equal(t, 2, resp.Remaining)
		assert.Equal(t, "limited", resp.Status)
		assert.Equal(t, 2, resp.ExpiredHoldCount)
	})

	t.Run("unlimited online date never reports full", func(t *testing.T) {
		unlimitedDate, _ := helpers.ParseActivityDate("2026-03-01")
		mockAvailability(ctx, "Carnival Workshop", "ONLINE", unlimitedDate, 0, 35, 4)

		resp, err := uc.CheckSlot(ctx, &request.SlotQuery{
			EventName: "Carnival Workshop",
			Batch:     "ONLINE",
			Date:      "2026-03-01",
		})

		assert.NoError(t, err)
		assert.False(t, resp.IsFull)
		assert.Equal(t, "available", resp.Status)
	})
}

func TestCreateRegistration(t *testing.T) {
	ctx := context.Background()
	date, _ := helpers.ParseActivityDate("2026-02-07")

	payload := request.CreateRegistration{
		EventName:   "Carnival Workshop",
		Batch:       "B1",
		Date:        "2026-02-07",
		ParentName:  "Jane Doe",
		ParentEmail: "jane@test.com",
		ParentPhone: "9999999999",
		ChildName:   "Sam Doe",
		ChildAge:    7,
	}

	t.Run("success", func(t *testing.T) {
		setup()
		defer teardown()

		repoMock.On("FindPaidDuplicate", ctx, payload.EventName, date, payload.ChildName, payload.ParentEmail, payload.ParentPhone).
			Return(entity.Reservation{}, errors.NotFound("no paid duplicate"))
		mockAvailability(ctx, payload.EventName, payload.Batch, date, 0, 10, 5)
		repoMock.On("CreateReservation", ctx, mock.AnythingOfType("*entity.Reservation")).Return("CARN-00007", nil)

		resp, err := uc.CreateRegistration(ctx, &payload)

		assert.NoError(t, err)
		assert.Equal(t, "CARN-00007", resp.Code)
		assert.Equal(t, int64(15*60), resp.ExpiresInSeconds)
		assert.Equal(t, 4, resp.RemainingSlots)
	})

	t.Run("paid duplicate is rejected", func(t *testing.T) {
		setup()
		defer teardown()

		existing := pendingReservation("CARN-00003", 0)
		existing.Status = entity.StatusRegistered
		existing.PaymentStatus = entity.PaymentStatusPaid

		repoMock.On("FindPaidDuplicate", ctx, payload.EventName, date, payload.ChildName, payload.ParentEmail, payload.ParentPhone).
			Return(existing, nil)

		_, err := uc.CreateRegistration(ctx, &payload)

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "duplicate_registration", e.Reason)
		assert.Equal(t, "CARN-00003", e.Data["existing_code"])
	})

	t.Run("full batch is rejected", func(t *testing.T) {
		setup()
		defer teardown()

		repoMock.On("FindPaidDuplicate", ctx, payload.EventName, date, payload.ChildName, payload.ParentEmail, payload.ParentPhone).
			Return(entity.Reservation{}, errors.NotFound("no paid duplicate"))
		mockAvailability(ctx, payload.EventName, payload.Batch, date, 0, 20, 0)

		_, err := uc.CreateRegistration(ctx, &payload)

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "capacity_exceeded", e.Reason)
		assert.Equal(t, 0, e.Data["remaining"])
	})

	t.Run("unlimited date accepts regardless of occupancy", func(t *testing.T) {
		setup()
		defer teardown()

		unlimitedPayload := payload
		unlimitedPayload.Date = "2026-03-01"
		unlimitedDate, _ := helpers.ParseActivityDate("2026-03-01")

		repoMock.On("FindPaidDuplicate", ctx, unlimitedPayload.EventName, unlimitedDate, unlimitedPayload.ChildName, unlimitedPayload.ParentEmail, unlimitedPayload.ParentPhone).
			Return(entity.Reservation{}, errors.NotFound("no paid duplicate"))
		mockAvailability(ctx, unlimitedPayload.EventName, unlimitedPayload.Batch, unlimitedDate, 0, 40, 3)
		repoMock.On("CreateReservation", ctx, mock.AnythingOfType("*entity.Reservation")).Return("CARN-00044", nil)

		resp, err := uc.CreateRegistration(ctx, &unlimitedPayload)

		assert.NoError(t, err)
		assert.Equal(t, "CARN-00044", resp.Code)
	})
}

// Capacity reads and the insert are not atomic: two creates that both read
// the same one-slot snapshot both succeed, so holds can overshoot capacity by
// the number of in-flight creates. The ledger caps further intake immediately
// and reconverges once the unpaid overshoot ages out and is swept.
func TestCreateRegistrationOverbookWindow(t *testing.T) {
	setup()
	defer teardown()
	ctx := context.Background()
	date, _ := helpers.ParseActivityDate("2026-02-07")

	base := request.CreateRegistration{
		EventName:   "Carnival Workshop",
		Batch:       "B1",
		Date:        "2026-02-07",
		ParentName:  "Jane Doe",
		ParentEmail: "jane@test.com",
		ParentPhone: "9999999999",
		ChildAge:    7,
	}
	first := base
	first.ChildName = "Ann Doe"
	second := base
	second.ChildName = "Ben Doe"

	repoMock.On("FindPaidDuplicate", ctx, base.EventName, date, "Ann Doe", base.ParentEmail, base.ParentPhone).
		Return(entity.Reservation{}, errors.NotFound("no paid duplicate"))
	repoMock.On("FindPaidDuplicate", ctx, base.EventName, date, "Ben Doe", base.ParentEmail, base.ParentPhone).
		Return(entity.Reservation{}, errors.NotFound("no paid duplicate"))

	// both attempts observe 19 confirmed, no holds, one slot left
	mockAvailabilityOnce(ctx, base.EventName, base.Batch, date, 0, 19, 0)
	mockAvailabilityOnce(ctx, base.EventName, base.Batch, date, 0, 19, 0)
	repoMock.On("CreateReservation", ctx, mock.AnythingOfType("*entity.Reservation")).Return("CARN-00101", nil).Once()
	repoMock.On("CreateReservation", ctx, mock.AnythingOfType("*entity.Reservation")).Return("CARN-00102", nil).Once()

	respA, errA := uc.CreateRegistration(ctx, &first)
	respB, errB := uc.CreateRegistration(ctx, &second)

	assert.NoError(t, errA)
	assert.NoError(t, errB)
	assert.Equal(t, "CARN-00101", respA.Code)
	assert.Equal(t, "CARN-00102", respB.Code)

	// with both holds on the books occupancy reads 21 of 20: the partition
	// reports full, so the overshoot never grows past the in-flight burst
	mockAvailabilityOnce(ctx, base.EventName, base.Batch, date, 0, 19, 2)
	avail, err := uc.CheckSlot(ctx, &request.SlotQuery{
		EventName: base.EventName,
		Batch:     base.Batch,
		Date:      "2026-02-07",
	})
	assert.NoError(t, err)
	assert.True(t, avail.IsFull)
	assert.Equal(t, 0, avail.Remaining)

	// once the unpaid holds age out the scoped sweep restores the ledger
	mockAvailabilityOnce(ctx, base.EventName, base.Batch, date, 2, 19, 0)
	avail, err = uc.CheckSlot(ctx, &request.SlotQuery{
		EventName: base.EventName,
		Batch:     base.Batch,
		Date:      "2026-02-07",
	})
	assert.NoError(t, err)
	assert.False(t, avail.IsFull)
	assert.Equal(t, 1, avail.Remaining)
	assert.Equal(t, 2, avail.ExpiredHoldCount)
}

func TestCheckDuplicate(t *testing.T) {
	setup()
	defer teardown()
	ctx := context.Background()
	date, _ := helpers.ParseActivityDate("2026-02-07")

	t.Run("no paid sibling", func(t *testing.T) {
		repoMock.On("FindPaidDuplicate", ctx, "Carnival Workshop", date, "Sam Doe", "jane@test.com", "").
			Return(entity.Reservation{}, errors.NotFound("no paid duplicate")).Once()

		resp, err := uc.CheckDuplicate(ctx, &request.DuplicateCheck{
			EventName:   "Carnival Workshop",
			Date:        "2026-02-07",
			ChildName:   "Sam Doe",
			ParentEmail: "jane@test.com",
		})

		assert.NoError(t, err)
		assert.False(t, resp.Exists)
	})

	t.Run("paid sibling found", func(t *testing.T) {
		existing := pendingReservation("CARN-00003", 0)
		repoMock.On("FindPaidDuplicate", ctx, "Carnival Workshop", date, "Sam Doe", "jane@test.com", "").
			Return(existing, nil).Once()

		resp, err := uc.CheckDuplicate(ctx, &request.DuplicateCheck{
			EventName:   "Carnival Workshop",
			Date:        "2026-02-07",
			ChildName:   "Sam Doe",
			ParentEmail: "jane@test.com",
		})

		assert.NoError(t, err)
		assert.True(t, resp.Exists)
		assert.Equal(t, "CARN-00003", resp.ExistingCode)
	})
}

func TestCreatePaymentOrder(t *testing.T) {
	setup()
	defer teardown()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		repoMock.On("CreateGatewayOrder", ctx, float64(450), "INR", "CARN-00001").
			Return(response.GatewayOrder{ID: "order_abc", Amount: 450, Currency: "INR", Status: "created"}, nil)
		repoMock.On("SetGatewayOrder", ctx, "CARN-00001", "order_abc").Return(nil)

		resp, err := uc.CreatePaymentOrder(ctx, &request.CreatePaymentOrder{ReservationCode: "CARN-00001"})

		assert.NoError(t, err)
		assert.Equal(t, "order_abc", resp.GatewayOrderID)
		assert.Equal(t, "key_test", resp.GatewayKeyID)
		assert.Equal(t, float64(450), resp.Amount)
	})
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success confirms and snapshots payment", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		mockAvailability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate, 0, 10, 3)
		repoMock.On("ConfirmReservationPayment", ctx, "CARN-00001", mock.AnythingOfType("entity.PaymentSnapshot")).
			Return(int64(1), nil)

		resp, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        signPayment("order_abc", "pay_xyz"),
		})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusRegistered, resp.Status)
		assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)
		assert.NotEmpty(t, resp.PaymentConfirmedAt)
	})

	t.Run("second verify is an idempotent success", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		reservation.Status = entity.StatusRegistered
		reservation.PaymentStatus = entity.PaymentStatusPaid
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)

		resp, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        signPayment("order_abc", "pay_xyz"),
		})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusRegistered, resp.Status)
		repoMock.AssertNotCalled(t, "ConfirmReservationPayment", ctx, "CARN-00001", mock.Anything)
	})

	t.Run("tampered signature is rejected without state change", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)

		_, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        "deadbeef",
		})

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "invalid_signature", e.Reason)
		repoMock.AssertNotCalled(t, "ConfirmReservationPayment", ctx, "CARN-00001", mock.Anything)
	})

	t.Run("manual payment sentinel bypasses signature check", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		mockAvailability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate, 0, 10, 3)
		repoMock.On("ConfirmReservationPayment", ctx, "CARN-00001", mock.AnythingOfType("entity.PaymentSnapshot")).
			Return(int64(1), nil)

		_, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_manual",
			Signature:        usecases.ManualPaymentSentinel,
		})

		assert.NoError(t, err)
	})

	t.Run("aged-out hold is deleted and reported expired", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", 11*time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		repoMock.On("DeleteReservation", ctx, "CARN-00001").Return(nil)

		_, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        signPayment("order_abc", "pay_xyz"),
		})

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "reservation_expired", e.Reason)
		assert.GreaterOrEqual(t, e.Data["elapsed_seconds"], int64(11*60))
		repoMock.AssertCalled(t, "DeleteReservation", ctx, "CARN-00001")
		repoMock.AssertNotCalled(t, "ConfirmReservationPayment", ctx, "CARN-00001", mock.Anything)
	})

	t.Run("losing the sweep race reports expired", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		mockAvailability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate, 0, 10, 3)
		repoMock.On("ConfirmReservationPayment", ctx, "CARN-00001", mock.AnythingOfType("entity.PaymentSnapshot")).
			Return(int64(0), nil)

		_, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        signPayment("order_abc", "pay_xyz"),
		})

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "reservation_expired", e.Reason)
	})

	t.Run("confirmed registrations consuming full capacity reject confirmation", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		mockAvailability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate, 0, 20, 0)

		_, err := uc.VerifyPayment(ctx, &request.VerifyPayment{
			ReservationCode:  "CARN-00001",
			GatewayOrderID:   "order_abc",
			GatewayPaymentID: "pay_xyz",
			Signature:        signPayment("order_abc", "pay_xyz"),
		})

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "capacity_exceeded", e.Reason)
	})
}

func TestVerifyWebhookSignature(t *testing.T) {
	setup()
	defer teardown()

	body := []byte(`{"id":"evt_1","event":"payment.captured"}`)

	t.Run("valid signature passes", func(t *testing.T) {
		assert.NoError(t, uc.VerifyWebhookSignature(body, signWebhook(body)))
	})

	t.Run("tampered signature fails", func(t *testing.T) {
		err := uc.VerifyWebhookSignature(body, signWebhook([]byte(`{"id":"evt_2"}`)))
		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "invalid_signature", e.Reason)
	})

	t.Run("missing signature fails", func(t *testing.T) {
		assert.Error(t, uc.VerifyWebhookSignature(body, ""))
	})
}

func webhookEvent(id, eventType, orderID, paymentID string) *request.WebhookEvent {
	event := &request.WebhookEvent{ID: id, Event: eventType}
	event.Payload.Payment.Entity = request.WebhookPaymentEntity{
		ID:       paymentID,
		OrderID:  orderID,
		Amount:   45000,
		Currency: "INR",
		Method:   "upi",
		Status:   "captured",
	}
	return event
}

func TestHandleWebhookEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("captured event confirms reservation", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("MarkWebhookDelivered", ctx, "evt_1").Return(true, nil)
		repoMock.On("FindReservationByOrderID", ctx, "order_abc").Return(reservation, nil)
		mockAvailability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate, 0, 10, 3)
		repoMock.On("ConfirmReservationPayment", ctx, "CARN-00001", mock.AnythingOfType("entity.PaymentSnapshot")).
			Return(int64(1), nil)

		err := uc.HandleWebhookEvent(ctx, webhookEvent("evt_1", "payment.captured", "order_abc", "pay_xyz"), []byte(`{}`))

		assert.NoError(t, err)
	})

	t.Run("redelivered event is skipped", func(t *testing.T) {
		setup()
		defer teardown()

		repoMock.On("MarkWebhookDelivered", ctx, "evt_1").Return(false, nil)

		err := uc.HandleWebhookEvent(ctx, webhookEvent("evt_1", "payment.captured", "order_abc", "pay_xyz"), []byte(`{}`))

		assert.NoError(t, err)
		repoMock.AssertNotCalled(t, "FindReservationByOrderID", ctx, "order_abc")
	})

	t.Run("captured on already paid reservation is a no-op", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		reservation.Status = entity.StatusRegistered
		reservation.PaymentStatus = entity.PaymentStatusPaid
		repoMock.On("MarkWebhookDelivered", ctx, "evt_2").Return(true, nil)
		repoMock.On("FindReservationByOrderID", ctx, "order_abc").Return(reservation, nil)

		err := uc.HandleWebhookEvent(ctx, webhookEvent("evt_2", "payment.captured", "order_abc", "pay_xyz"), []byte(`{}`))

		assert.NoError(t, err)
		repoMock.AssertNotCalled(t, "ConfirmReservationPayment", ctx, "CARN-00001", mock.Anything)
	})

	t.Run("failed event keeps the hold retryable", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("MarkWebhookDelivered", ctx, "evt_3").Return(true, nil)
		repoMock.On("FindReservationByOrderID", ctx, "order_abc").Return(reservation, nil)
		repoMock.On("UpdatePaymentStatus", ctx, "CARN-00001", entity.PaymentStatusPending).Return(nil)

		err := uc.HandleWebhookEvent(ctx, webhookEvent("evt_3", "payment.failed", "order_abc", "pay_xyz"), []byte(`{}`))

		assert.NoError(t, err)
		repoMock.AssertCalled(t, "UpdatePaymentStatus", ctx, "CARN-00001", entity.PaymentStatusPending)
	})

	t.Run("refund event marks terminal state", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		reservation.Status = entity.StatusRegistered
		reservation.PaymentStatus = entity.PaymentStatusPaid
		repoMock.On("MarkWebhookDelivered", ctx, "evt_4").Return(true, nil)
		repoMock.On("FindReservationByOrderID", ctx, "order_abc").Return(reservation, nil)
		repoMock.On("MarkRefunded", ctx, "CARN-00001").Return(nil)

		err := uc.HandleWebhookEvent(ctx, webhookEvent("evt_4", "payment.refunded", "order_abc", "pay_xyz"), []byte(`{}`))

		assert.NoError(t, err)
		repoMock.AssertCalled(t, "MarkRefunded", ctx, "CARN-00001")
	})
}

func TestRegistrationStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pending hold reports countdown and slot flag", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		mockAvailability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate, 0, 10, 3)

		resp, err := uc.RegistrationStatus(ctx, &request.RegistrationStatus{ReservationCode: "CARN-00001"})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusPendingPayment, resp.Status)
		assert.True(t, resp.SlotAvailable)
		assert.Greater(t, resp.RemainingSeconds, int64(0))
	})

	t.Run("aged-out hold is evicted on read", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", 11*time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		repoMock.On("DeleteReservation", ctx, "CARN-00001").Return(nil)

		_, err := uc.RegistrationStatus(ctx, &request.RegistrationStatus{ReservationCode: "CARN-00001"})

		assert.Error(t, err)
		e, ok := err.(*errors.ErrorResp)
		assert.True(t, ok)
		assert.Equal(t, "reservation_expired", e.Reason)
	})
}

func TestSweepExpiredReservations(t *testing.T) {
	setup()
	defer teardown()
	ctx := context.Background()

	repoMock.On("DeleteExpiredReservations", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	resp, err := uc.SweepExpiredReservations(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.Deleted)
}

func TestExpireReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("pending reservation is deleted", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)
		repoMock.On("DeleteReservation", ctx, "CARN-00001").Return(nil)

		resp, err := uc.ExpireReservation(ctx, &request.ExpireReservation{ReservationCode: "CARN-00001"})

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusPendingPayment, resp.PriorStatus)
	})

	t.Run("registered reservation cannot be expired", func(t *testing.T) {
		setup()
		defer teardown()

		reservation := pendingReservation("CARN-00001", time.Minute)
		reservation.Status = entity.StatusRegistered
		repoMock.On("FindReservationByCode", ctx, "CARN-00001").Return(reservation, nil)

		_, err := uc.ExpireReservation(ctx, &request.ExpireReservation{ReservationCode: "CARN-00001"})

		assert.Error(t, err)
		repoMock.AssertNotCalled(t, "DeleteReservation", ctx, "CARN-00001")
	})
}
