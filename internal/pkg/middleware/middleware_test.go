package middleware_test

import (
	"testing"

	"registration-service/config"
	log_internal "registration-service/internal/pkg/log"
	"registration-service/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestValidateAPIKey(t *testing.T) {
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)

	m := &middleware.Middleware{
		Log: logZap,
		Cfg: &config.AdminConfig{APIKey: "admin-key"},
	}
	app := fiber.New()

	t.Run("missing key is unauthorized", func(t *testing.T) {
		ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(ctx)

		err := m.ValidateAPIKey(ctx)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, ctx.Response().StatusCode())
	})

	t.Run("wrong key is unauthorized", func(t *testing.T) {
		ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(ctx)
		ctx.Request().Header.Set("X-Api-Key", "guessed")

		err := m.ValidateAPIKey(ctx)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, ctx.Response().StatusCode())
	})
}
