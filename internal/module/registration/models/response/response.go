package response

type SlotAvailability struct {
	EventName        string `json:"event"`
	Batch            string `json:"batch"`
	Date             string `json:"date"`
	Capacity         int    `json:"capacity"`
	ConfirmedCount   int    `json:"confirmed_count"`
	ActiveHoldCount  int    `json:"active_hold_count"`
	ExpiredHoldCount int    `json:"expired_hold_count"`
	Remaining        int    `json:"remaining"`
	IsFull           bool   `json:"is_full"`
	Status           string `json:"status"`
}

type CreatedRegistration struct {
	Code             string `json:"code"`
	PaymentExpiresAt string `json:"payment_expires_at"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
	RemainingSlots   int    `json:"remaining_slots"`
}

type DuplicateCheckResult struct {
	Exists       bool   `json:"exists"`
	ExistingCode string `json:"existing_code,omitempty"`
}

type PaymentOrder struct {
	ReservationCode string  `json:"reservation_code"`
	GatewayOrderID  string  `json:"gateway_order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	GatewayKeyID    string  `json:"gateway_key_id"`
}

// GatewayOrder is the order-creation reply parsed from the gateway.
type GatewayOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

type PaymentVerified struct {
	Code               string `json:"code"`
	Status             string `json:"status"`
	PaymentStatus      string `json:"payment_status"`
	PaymentConfirmedAt string `json:"payment_confirmed_at"`
}

type RegistrationState struct {
	Code             string `json:"code"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	SlotAvailable    bool   `json:"slot_available"`
}

type SweepResult struct {
	Deleted int64 `json:"deleted"`
}

type ExpireResult struct {
	Code        string `json:"code"`
	PriorStatus string `json:"prior_status"`
}

type ReservationSummary struct {
	Code          string  `json:"code"`
	EventName     string  `json:"event"`
	Batch         string  `json:"batch"`
	Date          string  `json:"date"`
	ParentName    string  `json:"parent_name"`
	ChildName     string  `json:"child_name"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Amount        float64 `json:"amount"`
	CreatedAt     string  `json:"created_at"`
}

type ReservationList struct {
	Items   []ReservationSummary `json:"items"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
	Total   int64                `json:"total"`
}

type ScopeStats struct {
	EventName      string  `json:"event"`
	Batch          string  `json:"batch"`
	Date           string  `json:"date"`
	ConfirmedCount int     `json:"confirmed_count"`
	PendingCount   int     `json:"pending_count"`
	PaidRevenue    float64 `json:"paid_revenue"`
}
