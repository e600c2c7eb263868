package request

type SlotQuery struct {
	EventName string `query:"event" validate:"required"`
	Batch     string `query:"batch" validate:"required"`
	Date      string `query:"date" validate:"required,datetime=2006-01-02"`
}

type BatchSlotCheck struct {
	EventName string   `json:"event" validate:"required"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Batches   []string `json:"batches" validate:"required,min=1,dive,required"`
}

type CreateRegistration struct {
	EventName   string                 `json:"event" validate:"required"`
	Batch       string                 `json:"batch" validate:"required"`
	Date        string                 `json:"date" validate:"required,datetime=2006-01-02"`
	ParentName  string                 `json:"parent_name" validate:"required"`
	ParentEmail string                 `json:"parent_email" validate:"required,email"`
	ParentPhone string                 `json:"parent_phone" validate:"required"`
	ChildName   string                 `json:"child_name" validate:"required"`
	ChildAge    int                    `json:"child_age" validate:"required,gte=3,lte=16"`
	Attributes  map[string]interface{} `json:"attributes"`
}

type DuplicateCheck struct {
	EventName   string `json:"event" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	ChildName   string `json:"child_name" validate:"required"`
	ParentEmail string `json:"parent_email" validate:"required_without=ParentPhone,omitempty,email"`
	ParentPhone string `json:"parent_phone" validate:"required_without=ParentEmail"`
}

type CreatePaymentOrder struct {
	ReservationCode string `json:"reservation_code" validate:"required"`
}

type VerifyPayment struct {
	ReservationCode  string `json:"reservation_code" validate:"required"`
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

type RegistrationStatus struct {
	ReservationCode string `json:"reservation_code" validate:"required"`
}

type ExpireReservation struct {
	ReservationCode string `json:"reservation_code" validate:"required"`
}

type ListReservations struct {
	EventName string `query:"event"`
	Batch     string `query:"batch"`
	Date      string `query:"date"`
	Status    string `query:"status"`
	Page      int    `query:"page"`
	PerPage   int    `query:"per_page"`
}

// WebhookEvent is the gateway push payload. Only the fields reconciliation
// needs are modeled; the raw body is retained verbatim for audit.
type WebhookEvent struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type WebhookPaymentEntity struct {
	ID       string  `json:"id"`
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Method   string  `json:"method"`
	Status   string  `json:"status"`
}

type PaymentLogMessage struct {
	ReservationCode  string  `json:"reservation_code" validate:"required"`
	GatewayPaymentID string  `json:"gateway_payment_id" validate:"required"`
	GatewayOrderID   string  `json:"gateway_order_id"`
	Event            string  `json:"event" validate:"required"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Method           string  `json:"method"`
	RawPayload       []byte  `json:"raw_payload"`
}

type PoisonedQueue struct {
	TopicTarget string      `json:"topic_target" validate:"required"`
	ErrorMsg    string      `json:"error_msg" validate:"required"`
	Payload     interface{} `json:"payload" validate:"required"`
}

type NotificationMessage struct {
	Message        string `json:"message" validate:"required"`
	EmailRecipient string `json:"email_recipient" validate:"required"`
}

type NotificationConfirmation struct {
	ReservationCode string  `json:"reservation_code" validate:"required"`
	EventName       string  `json:"event" validate:"required"`
	Batch           string  `json:"batch" validate:"required"`
	Date            string  `json:"date" validate:"required"`
	ChildName       string  `json:"child_name" validate:"required"`
	Amount          float64 `json:"amount" validate:"required"`
	EmailRecipient  string  `json:"email_recipient" validate:"required"`
}
