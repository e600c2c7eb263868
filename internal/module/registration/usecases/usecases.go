package usecases

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"registration-service/config"
	"registration-service/internal/module/registration/models/entity"
	"registration-service/internal/module/registration/models/request"
	"registration-service/internal/module/registration/models/response"
	"registration-service/internal/module/registration/repositories"
	"registration-service/internal/pkg/errors"
	"registration-service/internal/pkg/helpers"
	"registration-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

const (
	TopicPaymentLog        = "payment_log"
	TopicEmailNotification = "send_email_notification"
	TopicAdminNotification = "admin_notification"
	TopicPoisonedQueue     = "poisoned_queue"

	// ManualPaymentSentinel skips client-signature verification for the
	// legacy manual-payment flow. It is accepted nowhere else.
	ManualPaymentSentinel = "MANUAL_PAYMENT"

	slotStatusFull      = "full"
	slotStatusLimited   = "limited"
	slotStatusAvailable = "available"

	limitedSlotThreshold = 3
)

type usecase struct {
	repo        repositories.Repositories
	log         log.Logger
	publish     message.Publisher
	cfgWorkshop *config.WorkshopConfig
	cfgGateway  *config.GatewayConfig
}

type Usecase interface {
	// slots
	CheckSlot(ctx context.Context, payload *request.SlotQuery) (response.SlotAvailability, error)
	BatchCheckSlots(ctx context.Context, payload *request.BatchSlotCheck) ([]response.SlotAvailability, error)
	// registration lifecycle
	CreateRegistration(ctx context.Context, payload *request.CreateRegistration) (response.CreatedRegistration, error)
	CheckDuplicate(ctx context.Context, payload *request.DuplicateCheck) (response.DuplicateCheckResult, error)
	RegistrationStatus(ctx context.Context, payload *request.RegistrationStatus) (response.RegistrationState, error)
	SweepExpiredReservations(ctx context.Context) (response.SweepResult, error)
	ExpireReservation(ctx context.Context, payload *request.ExpireReservation) (response.ExpireResult, error)
	// payment
	CreatePaymentOrder(ctx context.Context, payload *request.CreatePaymentOrder) (response.PaymentOrder, error)
	VerifyPayment(ctx context.Context, payload *request.VerifyPayment) (response.PaymentVerified, error)
	VerifyWebhookSignature(rawBody []byte, signature string) error
	HandleWebhookEvent(ctx context.Context, event *request.WebhookEvent, rawBody []byte) error
	ConsumePaymentLogQueue(ctx context.Context, payload *request.PaymentLogMessage) error
	// admin
	ListReservations(ctx context.Context, payload *request.ListReservations) (response.ReservationList, error)
	ScopeStats(ctx context.Context, eventName string) ([]response.ScopeStats, error)
}

func New(repo repositories.Repositories, log log.Logger, publish message.Publisher, cfgWorkshop *config.WorkshopConfig, cfgGateway *config.GatewayConfig) Usecase {
	return &usecase{
		repo:        repo,
		log:         log,
		publish:     publish,
		cfgWorkshop: cfgWorkshop,
		cfgGateway:  cfgGateway,
	}
}

func (u *usecase) deleteTTL() time.Duration {
	return time.Duration(u.cfgWorkshop.HoldDeleteTTLMinutes) * time.Minute
}

func (u *usecase) displayTTL() time.Duration {
	return time.Duration(u.cfgWorkshop.HoldDisplayTTLMinutes) * time.Minute
}

func (u *usecase) isUnlimitedDate(date time.Time) bool {
	return u.cfgWorkshop.UnlimitedDate != "" &&
		helpers.FormatActivityDate(date) == u.cfgWorkshop.UnlimitedDate
}

// availability is the slot ledger. As a side effect it deletes aged-out holds
// in the queried partition so the counts stay honest even if the background
// sweep has not run yet. The read-then-act pattern here is deliberately not a
// lock; see the concurrency notes in DESIGN.md.
func (u *usecase) availability(ctx context.Context, eventName, batch string, date time.Time) (response.SlotAvailability, error) {
	cutoff := time.Now().UTC().Add(-u.deleteTTL())

	expired, err := u.repo.DeleteExpiredInScope(ctx, eventName, batch, date, cutoff)
	if err != nil {
		return response.SlotAvailability{}, err
	}

	confirmed, err := u.repo.CountConfirmedInScope(ctx, eventName, batch, date)
	if err != nil {
		return response.SlotAvailability{}, err
	}

	activeHolds, err := u.repo.CountActiveHoldsInScope(ctx, eventName, batch, date, cutoff)
	if err != nil {
		return response.SlotAvailability{}, err
	}

	capacity := u.cfgWorkshop.BatchCapacity
	occupied := confirmed + activeHolds
	remaining := capacity - occupied
	if remaining < 0 {
		remaining = 0
	}
	isFull := remaining == 0

	if u.isUnlimitedDate(date) {
		// designated online session, never sells out
		isFull = false
		remaining = capacity
	}

	status := slotStatusAvailable
	switch {
	case isFull:
		status = slotStatusFull
	case remaining <= limitedSlotThreshold:
		status = slotStatusLimited
	}

	return response.SlotAvailability{
		EventName:        eventName,
		Batch:            batch,
		Date:             helpers.FormatActivityDate(date),
		Capacity:         capacity,
		ConfirmedCount:   confirmed,
		ActiveHoldCount:  activeHolds,
		ExpiredHoldCount: int(expired),
		Remaining:        remaining,
		IsFull:           isFull,
		Status:           status,
	}, nil
}

// evictIfExpired is the single lazy-expiry gate shared by every lookup path.
// A pending hold older than the deletion TTL is removed on sight, payment
// logs included, and the caller gets true back to report it as gone.
func (u *usecase) evictIfExpired(ctx context.Context, reservation *entity.Reservation) (bool, error) {
	if reservation.Status != entity.StatusPendingPayment || reservation.PaymentStatus != entity.PaymentStatusPending {
		return false, nil
	}
	if helpers.ElapsedSince(reservation.CreatedAt) <= u.deleteTTL() {
		return false, nil
	}
	if err := u.repo.DeleteReservation(ctx, reservation.Code); err != nil {
		return false, err
	}
	return true, nil
}

func (u *usecase) expiredError(reservation *entity.Reservation) error {
	elapsed := helpers.ElapsedSince(reservation.CreatedAt)
	return errors.ExpiredReservation("reservation expired, please register again", map[string]interface{}{
		"code":            reservation.Code,
		"elapsed_seconds": int64(elapsed.Seconds()),
		"limit_seconds":   int64(u.deleteTTL().Seconds()),
	})
}

func (u *usecase) CheckSlot(ctx context.Context, payload *request.SlotQuery) (response.SlotAvailability, error) {
	date, err := helpers.ParseActivityDate(payload.Date)
	if err != nil {
		return response.SlotAvailability{}, errors.BadRequest("error parse activity date")
	}
	return u.availability(ctx, payload.EventName, payload.Batch, date)
}

func (u *usecase) BatchCheckSlots(ctx context.Context, payload *request.BatchSlotCheck) ([]response.SlotAvailability, error) {
	date, err := helpers.ParseActivityDate(payload.Date)
	if err != nil {
		return nil, errors.BadRequest("error parse activity date")
	}

	results := make([]response.SlotAvailability, 0, len(payload.Batches))
	for _, batch := range payload.Batches {
		avail, err := u.availability(ctx, payload.EventName, batch, date)
		if err != nil {
			return nil, err
		}
		results = append(results, avail)
	}
	return results, nil
}

func (u *usecase) CreateRegistration(ctx context.Context, payload *request.CreateRegistration) (response.CreatedRegistration, error) {
	date, err := helpers.ParseActivityDate(payload.Date)
	if err != nil {
		return response.CreatedRegistration{}, errors.BadRequest("error parse activity date")
	}

	// duplicate guard: only a registered+paid sibling blocks a new attempt
	existing, err := u.repo.FindPaidDuplicate(ctx, payload.EventName, date, payload.ChildName, payload.ParentEmail, payload.ParentPhone)
	if err == nil {
		return response.CreatedRegistration{}, errors.DuplicateRegistration(
			"child already has a paid registration for this date",
			map[string]interface{}{"existing_code": existing.Code},
		)
	}
	if !errors.IsNotFound(err) {
		return response.CreatedRegistration{}, err
	}

	avail, err := u.availability(ctx, payload.EventName, payload.Batch, date)
	if err != nil {
		return response.CreatedRegistration{}, err
	}
	if avail.IsFull {
		return response.CreatedRegistration{}, errors.CapacityExceeded(
			"batch is fully booked, please pick another batch or date",
			occupancyData(avail),
		)
	}

	attributes := []byte("{}")
	if len(payload.Attributes) > 0 {
		attributes, err = json.Marshal(payload.Attributes)
		if err != nil {
			return response.CreatedRegistration{}, errors.BadRequest("error encode registration attributes")
		}
	}

	now := time.Now().UTC()
	reservation := entity.Reservation{
		EventName:        payload.EventName,
		Batch:            payload.Batch,
		ActivityDate:     date,
		ParentName:       payload.ParentName,
		ParentEmail:      payload.ParentEmail,
		ParentPhone:      payload.ParentPhone,
		ChildName:        payload.ChildName,
		ChildAge:         payload.ChildAge,
		Attributes:       attributes,
		Status:           entity.StatusPendingPayment,
		PaymentStatus:    entity.PaymentStatusPending,
		Amount:           u.cfgWorkshop.FeeAmount,
		Currency:         u.cfgWorkshop.FeeCurrency,
		PaymentExpiresAt: now.Add(u.displayTTL()),
		CreatedAt:        now,
	}

	code, err := u.repo.CreateReservation(ctx, &reservation)
	if err != nil {
		return response.CreatedRegistration{}, err
	}

	u.notify(ctx, payload.ParentEmail, fmt.Sprintf(
		"registration %s received for %s, complete payment within %d minutes",
		code, payload.ChildName, u.cfgWorkshop.HoldDisplayTTLMinutes))

	remainingAfter := avail.Remaining - 1
	if remainingAfter < 0 {
		remainingAfter = 0
	}

	return response.CreatedRegistration{
		Code:             code,
		PaymentExpiresAt: reservation.PaymentExpiresAt.Format(time.RFC3339),
		ExpiresInSeconds: int64(u.displayTTL().Seconds()),
		RemainingSlots:   remainingAfter,
	}, nil
}

func (u *usecase) CheckDuplicate(ctx context.Context, payload *request.DuplicateCheck) (response.DuplicateCheckResult, error) {
	date, err := helpers.ParseActivityDate(payload.Date)
	if err != nil {
		return response.DuplicateCheckResult{}, errors.BadRequest("error parse activity date")
	}

	existing, err := u.repo.FindPaidDuplicate(ctx, payload.EventName, date, payload.ChildName, payload.ParentEmail, payload.ParentPhone)
	if err != nil {
		if errors.IsNotFound(err) {
			return response.DuplicateCheckResult{Exists: false}, nil
		}
		return response.DuplicateCheckResult{}, err
	}

	return response.DuplicateCheckResult{Exists: true, ExistingCode: existing.Code}, nil
}

func (u *usecase) RegistrationStatus(ctx context.Context, payload *request.RegistrationStatus) (response.RegistrationState, error) {
	reservation, err := u.repo.FindReservationByCode(ctx, payload.ReservationCode)
	if err != nil {
		return response.RegistrationState{}, err
	}

	evicted, err := u.evictIfExpired(ctx, &reservation)
	if err != nil {
		return response.RegistrationState{}, err
	}
	if evicted {
		return response.RegistrationState{}, u.expiredError(&reservation)
	}

	avail, err := u.availability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate)
	if err != nil {
		return response.RegistrationState{}, err
	}

	remaining := helpers.DurationCalculation(reservation.PaymentExpiresAt)

	return response.RegistrationState{
		Code:             reservation.Code,
		Status:           reservation.Status,
		PaymentStatus:    reservation.PaymentStatus,
		RemainingSeconds: int64(remaining.Seconds()),
		SlotAvailable:    !avail.IsFull,
	}, nil
}

// SweepExpiredReservations is the sweep cycle body, invoked by the recurring
// scheduler task and by the manual admin trigger. No notification is sent for
// sweep-triggered deletion.
func (u *usecase) SweepExpiredReservations(ctx context.Context) (response.SweepResult, error) {
	cutoff := time.Now().UTC().Add(-u.deleteTTL())
	deleted, err := u.repo.DeleteExpiredReservations(ctx, cutoff)
	if err != nil {
		return response.SweepResult{}, err
	}
	if deleted > 0 {
		u.log.Info(ctx, "expired reservations swept", deleted)
	}
	return response.SweepResult{Deleted: deleted}, nil
}

func (u *usecase) ExpireReservation(ctx context.Context, payload *request.ExpireReservation) (response.ExpireResult, error) {
	reservation, err := u.repo.FindReservationByCode(ctx, payload.ReservationCode)
	if err != nil {
		return response.ExpireResult{}, err
	}

	if reservation.Status != entity.StatusPendingPayment {
		return response.ExpireResult{}, errors.BadRequest("only pending reservations can be expired")
	}

	if err := u.repo.DeleteReservation(ctx, reservation.Code); err != nil {
		return response.ExpireResult{}, err
	}

	return response.ExpireResult{
		Code:        reservation.Code,
		PriorStatus: reservation.Status,
	}, nil
}

func (u *usecase) CreatePaymentOrder(ctx context.Context, payload *request.CreatePaymentOrder) (response.PaymentOrder, error) {
	reservation, err := u.repo.FindReservationByCode(ctx, payload.ReservationCode)
	if err != nil {
		return response.PaymentOrder{}, err
	}

	evicted, err := u.evictIfExpired(ctx, &reservation)
	if err != nil {
		return response.PaymentOrder{}, err
	}
	if evicted {
		return response.PaymentOrder{}, u.expiredError(&reservation)
	}

	if reservation.PaymentStatus == entity.PaymentStatusPaid {
		return response.PaymentOrder{}, errors.BadRequest("reservation is already paid")
	}
	if reservation.Status != entity.StatusPendingPayment {
		return response.PaymentOrder{}, errors.BadRequest("reservation is not awaiting payment")
	}

	// amount always comes from the server-side fee rule, never the client
	order, err := u.repo.CreateGatewayOrder(ctx, reservation.Amount, reservation.Currency, reservation.Code)
	if err != nil {
		return response.PaymentOrder{}, err
	}

	if err := u.repo.SetGatewayOrder(ctx, reservation.Code, order.ID); err != nil {
		return response.PaymentOrder{}, err
	}

	return response.PaymentOrder{
		ReservationCode: reservation.Code,
		GatewayOrderID:  order.ID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		GatewayKeyID:    u.cfgGateway.KeyID,
	}, nil
}

func signaturePayload(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

func computeHMAC(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (u *usecase) verifyClientSignature(payload *request.VerifyPayment) error {
	if payload.Signature == ManualPaymentSentinel {
		// legacy manual-payment flow, recorded by staff without a gateway
		// checkout; the admin surface is the only producer of this value
		return nil
	}
	expected := computeHMAC(u.cfgGateway.KeySecret, []byte(signaturePayload(payload.GatewayOrderID, payload.GatewayPaymentID)))
	if !hmac.Equal([]byte(expected), []byte(payload.Signature)) {
		return errors.SignatureVerification("payment signature mismatch")
	}
	return nil
}

// VerifyWebhookSignature checks the gateway signature header against an HMAC
// of the raw request body. Constant-time comparison.
func (u *usecase) VerifyWebhookSignature(rawBody []byte, signature string) error {
	if signature == "" {
		return errors.SignatureVerification("missing webhook signature")
	}
	expected := computeHMAC(u.cfgGateway.WebhookSecret, rawBody)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.SignatureVerification("webhook signature mismatch")
	}
	return nil
}

func (u *usecase) VerifyPayment(ctx context.Context, payload *request.VerifyPayment) (response.PaymentVerified, error) {
	reservation, err := u.repo.FindReservationByCode(ctx, payload.ReservationCode)
	if err != nil {
		return response.PaymentVerified{}, err
	}

	// idempotent short-circuit: a second verify for a paid reservation is a
	// success, not a conflict
	if reservation.PaymentStatus == entity.PaymentStatusPaid {
		return paymentVerifiedResponse(&reservation), nil
	}

	if err := u.verifyClientSignature(payload); err != nil {
		return response.PaymentVerified{}, err
	}

	snapshot := entity.PaymentSnapshot{
		GatewayPaymentID: payload.GatewayPaymentID,
		GatewayOrderID:   payload.GatewayOrderID,
		GatewaySignature: payload.Signature,
		Amount:           reservation.Amount,
		Currency:         reservation.Currency,
		Method:           "gateway",
		ConfirmedAt:      time.Now().UTC(),
	}

	if err := u.confirmPayment(ctx, &reservation, snapshot, nil); err != nil {
		return response.PaymentVerified{}, err
	}

	reservation.Status = entity.StatusRegistered
	reservation.PaymentStatus = entity.PaymentStatusPaid
	reservation.PaymentConfirmedAt.Time = snapshot.ConfirmedAt
	reservation.PaymentConfirmedAt.Valid = true

	return paymentVerifiedResponse(&reservation), nil
}

func paymentVerifiedResponse(reservation *entity.Reservation) response.PaymentVerified {
	confirmedAt := ""
	if reservation.PaymentConfirmedAt.Valid {
		confirmedAt = reservation.PaymentConfirmedAt.Time.Format(time.RFC3339)
	}
	return response.PaymentVerified{
		Code:               reservation.Code,
		Status:             reservation.Status,
		PaymentStatus:      reservation.PaymentStatus,
		PaymentConfirmedAt: confirmedAt,
	}
}

// confirmPayment is the single transition both ingress paths converge on.
// Preconditions: reservation loaded, signature already verified, not yet paid.
func (u *usecase) confirmPayment(ctx context.Context, reservation *entity.Reservation, snapshot entity.PaymentSnapshot, rawPayload []byte) error {
	if reservation.Status != entity.StatusPendingPayment {
		return errors.BadRequest("reservation is not awaiting payment")
	}

	evicted, err := u.evictIfExpired(ctx, reservation)
	if err != nil {
		return err
	}
	if evicted {
		return u.expiredError(reservation)
	}

	avail, err := u.availability(ctx, reservation.EventName, reservation.Batch, reservation.ActivityDate)
	if err != nil {
		return err
	}
	// the hold itself still counts toward occupancy here; only reject when
	// confirmed registrations alone have consumed the whole capacity
	if avail.IsFull && avail.ConfirmedCount >= avail.Capacity {
		return errors.CapacityExceeded("batch filled up before payment completed", occupancyData(avail))
	}

	affected, err := u.repo.ConfirmReservationPayment(ctx, reservation.Code, snapshot)
	if err != nil {
		return err
	}
	if affected == 0 {
		// lost the race against the sweep or a concurrent confirmation
		return u.expiredError(reservation)
	}

	// best-effort side effects: the confirmation above is the durable fact,
	// none of these may roll it back
	u.publishPaymentLog(ctx, reservation.Code, &snapshot, "captured", rawPayload)
	u.notifyConfirmation(ctx, reservation, &snapshot)
	u.notify(ctx, "", fmt.Sprintf("reservation %s confirmed for %s / %s",
		reservation.Code, reservation.EventName, reservation.Batch))

	return nil
}

func (u *usecase) HandleWebhookEvent(ctx context.Context, event *request.WebhookEvent, rawBody []byte) error {
	if event.ID != "" {
		fresh, err := u.repo.MarkWebhookDelivered(ctx, event.ID)
		if err != nil {
			return err
		}
		if !fresh {
			u.log.Info(ctx, "webhook event already processed", event.ID)
			return nil
		}
	}

	payment := event.Payload.Payment.Entity
	if payment.OrderID == "" {
		return errors.BadRequest("webhook event carries no order id")
	}

	reservation, err := u.repo.FindReservationByOrderID(ctx, payment.OrderID)
	if err != nil {
		return err
	}

	switch event.Event {
	case "payment.captured", "payment.authorized":
		if reservation.PaymentStatus == entity.PaymentStatusPaid {
			return nil
		}
		snapshot := entity.PaymentSnapshot{
			GatewayPaymentID: payment.ID,
			GatewayOrderID:   payment.OrderID,
			Amount:           payment.Amount / 100,
			Currency:         payment.Currency,
			Method:           payment.Method,
			ConfirmedAt:      time.Now().UTC(),
		}
		return u.confirmPayment(ctx, &reservation, snapshot, rawBody)

	case "payment.failed":
		// the hold stays live for a retry until it ages out
		if reservation.Status == entity.StatusPendingPayment {
			if err := u.repo.UpdatePaymentStatus(ctx, reservation.Code, entity.PaymentStatusPending); err != nil {
				return err
			}
		}
		u.publishPaymentLog(ctx, reservation.Code, &entity.PaymentSnapshot{
			GatewayPaymentID: payment.ID,
			GatewayOrderID:   payment.OrderID,
			Amount:           payment.Amount / 100,
			Currency:         payment.Currency,
			Method:           payment.Method,
		}, "failed", rawBody)
		return nil

	case "payment.refunded", "refund.processed":
		if err := u.repo.MarkRefunded(ctx, reservation.Code); err != nil {
			return err
		}
		u.publishPaymentLog(ctx, reservation.Code, &entity.PaymentSnapshot{
			GatewayPaymentID: payment.ID,
			GatewayOrderID:   payment.OrderID,
			Amount:           payment.Amount / 100,
			Currency:         payment.Currency,
			Method:           payment.Method,
		}, "refunded", rawBody)
		return nil

	default:
		u.log.Info(ctx, "ignoring unhandled webhook event", event.Event)
		return nil
	}
}

func (u *usecase) ConsumePaymentLogQueue(ctx context.Context, payload *request.PaymentLogMessage) error {
	raw := payload.RawPayload
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	entry := entity.PaymentLog{
		ReservationCode:  payload.ReservationCode,
		GatewayPaymentID: payload.GatewayPaymentID,
		GatewayOrderID:   payload.GatewayOrderID,
		Event:            payload.Event,
		Amount:           payload.Amount,
		Currency:         payload.Currency,
		Method:           payload.Method,
		RawPayload:       raw,
		CreatedAt:        time.Now().UTC(),
	}
	return u.repo.InsertPaymentLog(ctx, &entry)
}

func (u *usecase) ListReservations(ctx context.Context, payload *request.ListReservations) (response.ReservationList, error) {
	var date *time.Time
	if payload.Date != "" {
		parsed, err := helpers.ParseActivityDate(payload.Date)
		if err != nil {
			return response.ReservationList{}, errors.BadRequest("error parse activity date")
		}
		date = &parsed
	}

	reservations, total, err := u.repo.ListReservations(ctx, payload, date)
	if err != nil {
		return response.ReservationList{}, err
	}

	items := make([]response.ReservationSummary, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, response.ReservationSummary{
			Code:          r.Code,
			EventName:     r.EventName,
			Batch:         r.Batch,
			Date:          helpers.FormatActivityDate(r.ActivityDate),
			ParentName:    r.ParentName,
			ChildName:     r.ChildName,
			Status:        r.Status,
			PaymentStatus: r.PaymentStatus,
			Amount:        r.Amount,
			CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		})
	}

	page := payload.Page
	if page < 1 {
		page = 1
	}
	perPage := payload.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return response.ReservationList{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

func (u *usecase) ScopeStats(ctx context.Context, eventName string) ([]response.ScopeStats, error) {
	stats, err := u.repo.ScopeStats(ctx, eventName)
	if err != nil {
		return nil, err
	}

	results := make([]response.ScopeStats, 0, len(stats))
	for _, s := range stats {
		results = append(results, response.ScopeStats{
			EventName:      s.EventName,
			Batch:          s.Batch,
			Date:           helpers.FormatActivityDate(s.ActivityDate),
			ConfirmedCount: s.ConfirmedCount,
			PendingCount:   s.PendingCount,
			PaidRevenue:    s.PaidRevenue,
		})
	}
	return results, nil
}

func occupancyData(avail response.SlotAvailability) map[string]interface{} {
	return map[string]interface{}{
		"capacity":  avail.Capacity,
		"confirmed": avail.ConfirmedCount,
		"pending":   avail.ActiveHoldCount,
		"remaining": avail.Remaining,
	}
}

func (u *usecase) publishPaymentLog(ctx context.Context, code string, snapshot *entity.PaymentSnapshot, event string, rawPayload []byte) {
	msg := request.PaymentLogMessage{
		ReservationCode:  code,
		GatewayPaymentID: snapshot.GatewayPaymentID,
		GatewayOrderID:   snapshot.GatewayOrderID,
		Event:            event,
		Amount:           snapshot.Amount,
		Currency:         snapshot.Currency,
		Method:           snapshot.Method,
		RawPayload:       rawPayload,
	}
	jsonPayload, err := json.Marshal(msg)
	if err != nil {
		u.log.Error(ctx, "error marshal payment log message", err)
		return
	}
	if err := u.publish.Publish(TopicPaymentLog, message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
		u.log.Error(ctx, "error publish payment log message", err)
	}
}

func (u *usecase) notifyConfirmation(ctx context.Context, reservation *entity.Reservation, snapshot *entity.PaymentSnapshot) {
	msg := request.NotificationConfirmation{
		ReservationCode: reservation.Code,
		EventName:       reservation.EventName,
		Batch:           reservation.Batch,
		Date:            helpers.FormatActivityDate(reservation.ActivityDate),
		ChildName:       reservation.ChildName,
		Amount:          snapshot.Amount,
		EmailRecipient:  reservation.ParentEmail,
	}
	jsonPayload, err := json.Marshal(msg)
	if err != nil {
		u.log.Error(ctx, "error marshal confirmation notification", err)
		return
	}
	if err := u.publish.Publish(TopicEmailNotification, message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
		u.log.Error(ctx, "error publish confirmation notification", err)
	}
}

// notify publishes a plain message; empty recipient goes to the admin topic.
func (u *usecase) notify(ctx context.Context, emailRecipient, text string) {
	topic := TopicEmailNotification
	if emailRecipient == "" {
		topic = TopicAdminNotification
	}
	msg := request.NotificationMessage{
		Message:        text,
		EmailRecipient: emailRecipient,
	}
	jsonPayload, err := json.Marshal(msg)
	if err != nil {
		u.log.Error(ctx, "error marshal notification message", err)
		return
	}
	if err := u.publish.Publish(topic, message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
		u.log.Error(ctx, "error publish notification message", err)
	}
}
