package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"registration-service/config"
	"registration-service/internal/module/registration/models/entity"
	"registration-service/internal/module/registration/models/request"
	"registration-service/internal/module/registration/models/response"
	"registration-service/internal/pkg/errors"
	"registration-service/internal/pkg/log"

	"github.com/go-redsync/redsync/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
)

type repositories struct {
	db          *sqlx.DB
	log         log.Logger
	httpClient  *circuit.HTTPClient
	redisClient *redis.Client
	rs          *redsync.Redsync
	cfgGateway  *config.GatewayConfig
	cfgWorkshop *config.WorkshopConfig
}

type Repositories interface {
	// db
	CreateReservation(ctx context.Context, reservation *entity.Reservation) (string, error)
	FindReservationByCode(ctx context.Context, code string) (entity.Reservation, error)
	FindReservationByOrderID(ctx context.Context, orderID string) (entity.Reservation, error)
	FindPaidDuplicate(ctx context.Context, eventName string, date time.Time, childName, email, phone string) (entity.Reservation, error)
	CountConfirmedInScope(ctx context.Context, eventName, batch string, date time.Time) (int, error)
	CountActiveHoldsInScope(ctx context.Context, eventName, batch string, date time.Time, cutoff time.Time) (int, error)
	DeleteExpiredInScope(ctx context.Context, eventName, batch string, date time.Time, cutoff time.Time) (int64, error)
	DeleteExpiredReservations(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteReservation(ctx context.Context, code string) error
	SetGatewayOrder(ctx context.Context, code, orderID string) error
	ConfirmReservationPayment(ctx context.Context, code string, snapshot entity.PaymentSnapshot) (int64, error)
	UpdatePaymentStatus(ctx context.Context, code, paymentStatus string) error
	MarkRefunded(ctx context.Context, code string) error
	ListReservations(ctx context.Context, filter *request.ListReservations, date *time.Time) ([]entity.Reservation, int64, error)
	ScopeStats(ctx context.Context, eventName string) ([]entity.ScopeStat, error)
	InsertPaymentLog(ctx context.Context, entry *entity.PaymentLog) error
	// redis
	MarkWebhookDelivered(ctx context.Context, eventID string) (bool, error)
	// gateway
	CreateGatewayOrder(ctx context.Context, amount float64, currency, receipt string) (response.GatewayOrder, error)
}

func New(db *sqlx.DB, log log.Logger, httpClient *circuit.HTTPClient, redisClient *redis.Client, rs *redsync.Redsync, cfgGateway *config.GatewayConfig, cfgWorkshop *config.WorkshopConfig) Repositories {
	return &repositories{
		db:          db,
		log:         log,
		httpClient:  httpClient,
		redisClient: redisClient,
		rs:          rs,
		cfgGateway:  cfgGateway,
		cfgWorkshop: cfgWorkshop,
	}
}

// CreateReservation mints the next sequential code for the configured prefix
// and inserts the reservation. The redsync mutex only covers code generation
// plus the insert so two concurrent creates never mint the same code; it is
// not a capacity lock.
func (r *repositories) CreateReservation(ctx context.Context, reservation *entity.Reservation) (string, error) {
	mutex := r.rs.NewMutex("reservation:code_seq", redsync.WithExpiry(8*time.Second))
	if err := mutex.LockContext(ctx); err != nil {
		return "", errors.InternalServerError("error acquire code sequence lock")
	}
	defer mutex.UnlockContext(ctx)

	prefix := r.cfgWorkshop.CodePrefix
	var maxCode sql.NullString
	err := r.db.GetContext(ctx, &maxCode,
		`SELECT MAX(code) FROM reservations WHERE code LIKE $1`, prefix+"-%")
	if err != nil && err != sql.ErrNoRows {
		return "", errors.InternalServerError("error find max reservation code")
	}

	seq := 1
	if maxCode.Valid {
		suffix := strings.TrimPrefix(maxCode.String, prefix+"-")
		if n, parseErr := strconv.Atoi(suffix); parseErr == nil {
			seq = n + 1
		}
	}
	reservation.Code = fmt.Sprintf("%s-%05d", prefix, seq)

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO reservations (
			code, event_name, batch, activity_date,
			parent_name, parent_email, parent_phone, child_name, child_age, attributes,
			status, payment_status, amount, currency, payment_expires_at, created_at
		) VALUES (
			:code, :event_name, :batch, :activity_date,
			:parent_name, :parent_email, :parent_phone, :child_name, :child_age, :attributes,
			:status, :payment_status, :amount, :currency, :payment_expires_at, :created_at
		)`, reservation)
	if err != nil {
		return "", errors.InternalServerError("error insert reservation")
	}

	return reservation.Code, nil
}

// FindReservationByCode implements Repositories.
func (r *repositories) FindReservationByCode(ctx context.Context, code string) (entity.Reservation, error) {
	query := `SELECT * FROM reservations WHERE code = $1`
	var reservation entity.Reservation
	err := r.db.GetContext(ctx, &reservation, query, code)
	if err == sql.ErrNoRows {
		return entity.Reservation{}, errors.NotFound("reservation not found")
	}
	if err != nil {
		return entity.Reservation{}, errors.InternalServerError("error find reservation by code")
	}
	return reservation, nil
}

// FindReservationByOrderID implements Repositories.
func (r *repositories) FindReservationByOrderID(ctx context.Context, orderID string) (entity.Reservation, error) {
	query := `SELECT * FROM reservations WHERE gateway_order_id = $1`
	var reservation entity.Reservation
	err := r.db.GetContext(ctx, &reservation, query, orderID)
	if err == sql.ErrNoRows {
		return entity.Reservation{}, errors.NotFound("reservation not found for order")
	}
	if err != nil {
		return entity.Reservation{}, errors.InternalServerError("error find reservation by order id")
	}
	return reservation, nil
}

// FindPaidDuplicate implements Repositories. Child name matching is
// case-insensitive; parent identity matches on email OR phone. Only
// registered+paid rows count — holds never block a new attempt.
func (r *repositories) FindPaidDuplicate(ctx context.Context, eventName string, date time.Time, childName, email, phone string) (entity.Reservation, error) {
	query := `
		SELECT * FROM reservations
		WHERE event_name = $1
		  AND activity_date = $2
		  AND LOWER(child_name) = LOWER($3)
		  AND ((parent_email = $4 AND $4 <> '') OR (parent_phone = $5 AND $5 <> ''))
		  AND status = $6
		  AND payment_status = $7
		LIMIT 1`
	var reservation entity.Reservation
	err := r.db.GetContext(ctx, &reservation, query,
		eventName, date, childName, email, phone,
		entity.StatusRegistered, entity.PaymentStatusPaid)
	if err == sql.ErrNoRows {
		return entity.Reservation{}, errors.NotFound("no paid duplicate")
	}
	if err != nil {
		return entity.Reservation{}, errors.InternalServerError("error find paid duplicate")
	}
	return reservation, nil
}

// CountConfirmedInScope implements Repositories.
func (r *repositories) CountConfirmedInScope(ctx context.Context, eventName, batch string, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM reservations
		WHERE event_name = $1 AND batch = $2 AND activity_date = $3
		  AND status = $4 AND payment_status = $5`
	var count int
	err := r.db.GetContext(ctx, &count, query, eventName, batch, date,
		entity.StatusRegistered, entity.PaymentStatusPaid)
	if err != nil {
		return 0, errors.InternalServerError("error count confirmed reservations")
	}
	return count, nil
}

// CountActiveHoldsInScope implements Repositories.
func (r *repositories) CountActiveHoldsInScope(ctx context.Context, eventName, batch string, date time.Time, cutoff time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM reservations
		WHERE event_name = $1 AND batch = $2 AND activity_date = $3
		  AND status = $4 AND payment_status = $5
		  AND created_at >= $6`
	var count int
	err := r.db.GetContext(ctx, &count, query, eventName, batch, date,
		entity.StatusPendingPayment, entity.PaymentStatusPending, cutoff)
	if err != nil {
		return 0, errors.InternalServerError("error count active holds")
	}
	return count, nil
}

// DeleteExpiredInScope removes aged-out holds for one capacity partition,
// cascading to their payment logs. Run as a side effect of availability
// queries so the hot path self-heals between sweeps.
func (r *repositories) DeleteExpiredInScope(ctx context.Context, eventName, batch string, date time.Time, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.InternalServerError("error starting transaction")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM payment_logs WHERE reservation_code IN (
			SELECT code FROM reservations
			WHERE event_name = $1 AND batch = $2 AND activity_date = $3
			  AND status = $4 AND payment_status = $5 AND created_at < $6
		)`, eventName, batch, date, entity.StatusPendingPayment, entity.PaymentStatusPending, cutoff)
	if err != nil {
		tx.Rollback()
		return 0, errors.InternalServerError("error delete expired payment logs")
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM reservations
		WHERE event_name = $1 AND batch = $2 AND activity_date = $3
		  AND status = $4 AND payment_status = $5 AND created_at < $6`,
		eventName, batch, date, entity.StatusPendingPayment, entity.PaymentStatusPending, cutoff)
	if err != nil {
		tx.Rollback()
		return 0, errors.InternalServerError("error delete expired reservations in scope")
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.InternalServerError("error committing transaction")
	}

	deleted, _ := res.RowsAffected()
	return deleted, nil
}

// DeleteExpiredReservations is the system-wide sweep: every pending hold older
// than cutoff goes, plus its payment logs.
func (r *repositories) DeleteExpiredReservations(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.InternalServerError("error starting transaction")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM payment_logs WHERE reservation_code IN (
			SELECT code FROM reservations
			WHERE status = $1 AND payment_status = $2 AND created_at < $3
		)`, entity.StatusPendingPayment, entity.PaymentStatusPending, cutoff)
	if err != nil {
		tx.Rollback()
		return 0, errors.InternalServerError("error delete expired payment logs")
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM reservations
		WHERE status = $1 AND payment_status = $2 AND created_at < $3`,
		entity.StatusPendingPayment, entity.PaymentStatusPending, cutoff)
	if err != nil {
		tx.Rollback()
		return 0, errors.InternalServerError("error delete expired reservations")
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.InternalServerError("error committing transaction")
	}

	deleted, _ := res.RowsAffected()
	return deleted, nil
}

// DeleteReservation removes one reservation and its payment logs.
func (r *repositories) DeleteReservation(ctx context.Context, code string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payment_logs WHERE reservation_code = $1`, code); err != nil {
		tx.Rollback()
		return errors.InternalServerError("error delete payment logs")
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM reservations WHERE code = $1`, code); err != nil {
		tx.Rollback()
		return errors.InternalServerError("error delete reservation")
	}

	if err = tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}

	return nil
}

// SetGatewayOrder implements Repositories.
func (r *repositories) SetGatewayOrder(ctx context.Context, code, orderID string) error {
	query := `UPDATE reservations SET gateway_order_id = $2, updated_at = NOW() WHERE code = $1`
	if _, err := r.db.ExecContext(ctx, query, code, orderID); err != nil {
		return errors.InternalServerError("error set gateway order id")
	}
	return nil
}

// ConfirmReservationPayment flips a pending hold to registered/paid in a
// single conditional update and returns the affected row count. Zero rows
// means something else (sweep, concurrent confirm) got there first.
func (r *repositories) ConfirmReservationPayment(ctx context.Context, code string, snapshot entity.PaymentSnapshot) (int64, error) {
	query := `
		UPDATE reservations SET
			status = $2,
			payment_status = $3,
			amount = $4,
			currency = $5,
			payment_method = $6,
			gateway_order_id = $7,
			gateway_payment_id = $8,
			gateway_signature = $9,
			payment_confirmed_at = $10,
			updated_at = NOW()
		WHERE code = $1 AND status = $11`
	res, err := r.db.ExecContext(ctx, query, code,
		entity.StatusRegistered, entity.PaymentStatusPaid,
		snapshot.Amount, snapshot.Currency, snapshot.Method,
		snapshot.GatewayOrderID, snapshot.GatewayPaymentID, snapshot.GatewaySignature,
		snapshot.ConfirmedAt, entity.StatusPendingPayment)
	if err != nil {
		return 0, errors.InternalServerError("error confirm reservation payment")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.InternalServerError("error confirm reservation payment")
	}
	return affected, nil
}

// UpdatePaymentStatus implements Repositories.
func (r *repositories) UpdatePaymentStatus(ctx context.Context, code, paymentStatus string) error {
	query := `UPDATE reservations SET payment_status = $2, updated_at = NOW() WHERE code = $1`
	if _, err := r.db.ExecContext(ctx, query, code, paymentStatus); err != nil {
		return errors.InternalServerError("error update payment status")
	}
	return nil
}

// MarkRefunded sets the terminal refunded state. The slot is not freed — a
// refund is a financial reconciliation, not a capacity one.
func (r *repositories) MarkRefunded(ctx context.Context, code string) error {
	query := `UPDATE reservations SET status = $2, payment_status = $3, updated_at = NOW() WHERE code = $1`
	if _, err := r.db.ExecContext(ctx, query, code, entity.StatusCancelled, entity.PaymentStatusRefunded); err != nil {
		return errors.InternalServerError("error mark reservation refunded")
	}
	return nil
}

// ListReservations implements Repositories.
func (r *repositories) ListReservations(ctx context.Context, filter *request.ListReservations, date *time.Time) ([]entity.Reservation, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.EventName != "" {
		addCondition("event_name = $%d", filter.EventName)
	}
	if filter.Batch != "" {
		addCondition("batch = $%d", filter.Batch)
	}
	if date != nil {
		addCondition("activity_date = $%d", *date)
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM reservations WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errors.InternalServerError("error count reservations")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	args = append(args, perPage, (page-1)*perPage)
	listQuery := fmt.Sprintf(
		"SELECT * FROM reservations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var reservations []entity.Reservation
	if err := r.db.SelectContext(ctx, &reservations, listQuery, args...); err != nil {
		return nil, 0, errors.InternalServerError("error list reservations")
	}

	return reservations, total, nil
}

// ScopeStats implements Repositories.
func (r *repositories) ScopeStats(ctx context.Context, eventName string) ([]entity.ScopeStat, error) {
	query := `
		SELECT event_name, batch, activity_date,
			COUNT(*) FILTER (WHERE status = $2 AND payment_status = $3) AS confirmed_count,
			COUNT(*) FILTER (WHERE status = $4 AND payment_status = $5) AS pending_count,
			COALESCE(SUM(amount) FILTER (WHERE payment_status = $3), 0) AS paid_revenue
		FROM reservations
		WHERE event_name = $1
		GROUP BY event_name, batch, activity_date
		ORDER BY activity_date, batch`
	var stats []entity.ScopeStat
	err := r.db.SelectContext(ctx, &stats, query, eventName,
		entity.StatusRegistered, entity.PaymentStatusPaid,
		entity.StatusPendingPayment, entity.PaymentStatusPending)
	if err != nil {
		return nil, errors.InternalServerError("error aggregate scope stats")
	}
	return stats, nil
}

// InsertPaymentLog appends one audit row. Duplicate gateway events are
// silently skipped via the (gateway_payment_id, event) unique key.
func (r *repositories) InsertPaymentLog(ctx context.Context, entry *entity.PaymentLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO payment_logs (
			id, reservation_code, gateway_payment_id, gateway_order_id,
			event, amount, currency, method, raw_payload, created_at
		) VALUES (
			:id, :reservation_code, :gateway_payment_id, :gateway_order_id,
			:event, :amount, :currency, :method, :raw_payload, :created_at
		) ON CONFLICT (gateway_payment_id, event) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return errors.InternalServerError("error insert payment log")
	}
	return nil
}

// MarkWebhookDelivered returns false when the gateway event id was already
// seen. The gateway delivers at-least-once, so redeliveries are expected.
func (r *repositories) MarkWebhookDelivered(ctx context.Context, eventID string) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, "webhook:event:"+eventID, 1, 24*time.Hour).Result()
	if err != nil {
		return false, errors.InternalServerError("error mark webhook delivered")
	}
	return ok, nil
}

type gatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateGatewayOrder creates a payment order downstream. Amount is sent in
// minor units as the gateway expects.
func (r *repositories) CreateGatewayOrder(ctx context.Context, amount float64, currency, receipt string) (response.GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return response.GatewayOrder{}, errors.InternalServerError("error marshal gateway order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfgGateway.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return response.GatewayOrder{}, errors.InternalServerError("error build gateway order request")
	}
	req.SetBasicAuth(r.cfgGateway.KeyID, r.cfgGateway.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error(ctx, "error call gateway order creation", err)
		return response.GatewayOrder{}, errors.GatewayError("error call payment gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.log.Error(ctx, "gateway order creation rejected", resp.StatusCode)
		return response.GatewayOrder{}, errors.GatewayError("payment gateway rejected order creation")
	}

	var orderResp gatewayOrderResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&orderResp); err != nil {
		return response.GatewayOrder{}, errors.GatewayError("error parse gateway order response")
	}

	return response.GatewayOrder{
		ID:       orderResp.ID,
		Amount:   float64(orderResp.Amount) / 100,
		Currency: orderResp.Currency,
		Status:   orderResp.Status,
	}, nil
}
