package helpers

import (
	"time"

	"registration-service/internal/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type Meta struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

func RespSuccess(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	return ctx.Status(fiber.StatusOK).JSON(Response{
		Meta: Meta{Success: true, Message: message},
		Data: data,
	})
}

func RespError(ctx *fiber.Ctx, log *otelzap.Logger, err error) error {
	if e, ok := err.(*errors.ErrorResp); ok {
		message := e.Message
		if e.Code >= fiber.StatusInternalServerError {
			// internal detail stays in the logs, not the response
			message = "internal server error"
		}
		var data interface{}
		if len(e.Data) > 0 {
			data = e.Data
		}
		return ctx.Status(e.Code).JSON(Response{
			Meta: Meta{Success: false, Message: message, Reason: e.Reason},
			Data: data,
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(Response{
		Meta: Meta{Success: false, Message: "internal server error", Reason: "internal_error"},
	})
}

const activityDateLayout = "2006-01-02"

// ParseActivityDate parses a calendar date into its UTC day boundary.
func ParseActivityDate(value string) (time.Time, error) {
	return time.Parse(activityDateLayout, value)
}

func FormatActivityDate(t time.Time) string {
	return t.Format(activityDateLayout)
}

// DurationCalculation returns the time left until expiredAt, never negative.
func DurationCalculation(expiredAt time.Time) time.Duration {
	remaining := time.Until(expiredAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ElapsedSince returns how long ago t was, never negative.
func ElapsedSince(t time.Time) time.Duration {
	elapsed := time.Since(t)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
