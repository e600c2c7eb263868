package middleware

import (
	"crypto/subtle"

	"registration-service/config"
	"registration-service/internal/pkg/errors"
	"registration-service/internal/pkg/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type Middleware struct {
	Log *otelzap.Logger
	Cfg *config.AdminConfig
}

// ValidateAPIKey guards the admin surface. Comparison is constant-time so the
// key cannot be probed byte by byte.
func (m *Middleware) ValidateAPIKey(ctx *fiber.Ctx) error {
	key := ctx.Get("X-Api-Key")
	if key == "" {
		m.Log.Ctx(ctx.UserContext()).Error("error get api key from header")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error get api key from header"))
	}

	if subtle.ConstantTimeCompare([]byte(key), []byte(m.Cfg.APIKey)) != 1 {
		m.Log.Ctx(ctx.UserContext()).Error("error validate api key")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error validate api key"))
	}

	return ctx.Next()
}
