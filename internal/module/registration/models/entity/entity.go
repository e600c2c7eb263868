package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const (
	StatusPendingPayment = "pending_payment"
	StatusRegistered     = "registered"
	StatusExpired        = "expired"
	StatusCancelled      = "cancelled"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusExpired  = "expired"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Reservation is one registration attempt for a workshop slot. The
// (EventName, Batch, ActivityDate) triple is the capacity partition it
// occupies while status/payment_status say whether it still counts.
type Reservation struct {
	ID                 int64          `db:"id"`
	Code               string         `db:"code"`
	EventName          string         `db:"event_name"`
	Batch              string         `db:"batch"`
	ActivityDate       time.Time      `db:"activity_date"`
	ParentName         string         `db:"parent_name"`
	ParentEmail        string         `db:"parent_email"`
	ParentPhone        string         `db:"parent_phone"`
	ChildName          string         `db:"child_name"`
	ChildAge           int            `db:"child_age"`
	Attributes         types.JSONText `db:"attributes"`
	Status             string         `db:"status"`
	PaymentStatus      string         `db:"payment_status"`
	Amount             float64        `db:"amount"`
	Currency           string         `db:"currency"`
	PaymentMethod      sql.NullString `db:"payment_method"`
	GatewayOrderID     sql.NullString `db:"gateway_order_id"`
	GatewayPaymentID   sql.NullString `db:"gateway_payment_id"`
	GatewaySignature   sql.NullString `db:"gateway_signature"`
	PaymentConfirmedAt sql.NullTime   `db:"payment_confirmed_at"`
	PaymentExpiresAt   time.Time      `db:"payment_expires_at"`
	ExpiredAt          sql.NullTime   `db:"expired_at"`
	ExpirationReason   sql.NullString `db:"expiration_reason"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          sql.NullTime   `db:"updated_at"`
}

// PaymentSnapshot is the gateway state written onto a reservation when a
// capture is verified.
type PaymentSnapshot struct {
	GatewayPaymentID string
	GatewayOrderID   string
	GatewaySignature string
	Amount           float64
	Currency         string
	Method           string
	ConfirmedAt      time.Time
}

// PaymentLog is an append-only audit record per observed gateway event.
// Never consulted for capacity.
type PaymentLog struct {
	ID               uuid.UUID      `db:"id"`
	ReservationCode  string         `db:"reservation_code"`
	GatewayPaymentID string         `db:"gateway_payment_id"`
	GatewayOrderID   string         `db:"gateway_order_id"`
	Event            string         `db:"event"`
	Amount           float64        `db:"amount"`
	Currency         string         `db:"currency"`
	Method           string         `db:"method"`
	RawPayload       types.JSONText `db:"raw_payload"`
	CreatedAt        time.Time      `db:"created_at"`
}

type ScopeStat struct {
	EventName      string    `db:"event_name"`
	Batch          string    `db:"batch"`
	ActivityDate   time.Time `db:"activity_date"`
	ConfirmedCount int       `db:"confirmed_count"`
	PendingCount   int       `db:"pending_count"`
	PaidRevenue    float64   `db:"paid_revenue"`
}
