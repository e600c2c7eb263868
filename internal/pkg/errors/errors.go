package errors

import "net/http"

// ErrorResp is the error type returned by usecases and repositories. Code is
// the HTTP status to surface, Reason a stable machine-checkable code, Data
// optional diagnostics (occupancy numbers, elapsed seconds, existing codes).
type ErrorResp struct {
	Code    int
	Reason  string
	Message string
	Data    map[string]interface{}
}

func (e *ErrorResp) Error() string {
	return e.Message
}

func BadRequest(message string) error {
	return &ErrorResp{Code: http.StatusBadRequest, Reason: "validation_error", Message: message}
}

func UnauthorizedError(message string) error {
	return &ErrorResp{Code: http.StatusUnauthorized, Reason: "unauthorized", Message: message}
}

func NotFound(message string) error {
	return &ErrorResp{Code: http.StatusNotFound, Reason: "not_found", Message: message}
}

func CapacityExceeded(message string, data map[string]interface{}) error {
	return &ErrorResp{Code: http.StatusConflict, Reason: "capacity_exceeded", Message: message, Data: data}
}

func DuplicateRegistration(message string, data map[string]interface{}) error {
	return &ErrorResp{Code: http.StatusConflict, Reason: "duplicate_registration", Message: message, Data: data}
}

func ExpiredReservation(message string, data map[string]interface{}) error {
	return &ErrorResp{Code: http.StatusGone, Reason: "reservation_expired", Message: message, Data: data}
}

func SignatureVerification(message string) error {
	return &ErrorResp{Code: http.StatusBadRequest, Reason: "invalid_signature", Message: message}
}

func GatewayError(message string) error {
	return &ErrorResp{Code: http.StatusBadGateway, Reason: "gateway_error", Message: message}
}

func InternalServerError(message string) error {
	return &ErrorResp{Code: http.StatusInternalServerError, Reason: "internal_error", Message: message}
}

func IsNotFound(err error) bool {
	e, ok := err.(*ErrorResp)
	return ok && e.Reason == "not_found"
}
