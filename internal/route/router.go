package router

import (
	"registration-service/internal/module/registration/handler"
	"registration-service/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func Initialize(app *fiber.App, handlerRegistration *handler.RegistrationHandler, m *middleware.Middleware) *fiber.App {

	// health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	Api := app.Group("/api")

	// public routes
	v1 := Api.Group("/v1")
	v1.Get("/slots", handlerRegistration.CheckSlot)
	v1.Post("/slots/batch-check", handlerRegistration.BatchCheckSlots)
	v1.Post("/registrations", handlerRegistration.CreateRegistration)
	v1.Post("/registrations/duplicate-check", handlerRegistration.CheckDuplicate)
	v1.Post("/registrations/status", handlerRegistration.RegistrationStatus)
	v1.Post("/payment/order", handlerRegistration.CreatePaymentOrder)
	v1.Post("/payment/verify", handlerRegistration.VerifyPayment)
	v1.Post("/payment/webhook", handlerRegistration.PaymentWebhook)

	private := Api.Group("/private", m.ValidateAPIKey)
	private.Post("/reservations/sweep", handlerRegistration.TriggerSweep)
	private.Post("/reservations/expire", handlerRegistration.ExpireReservation)
	private.Get("/reservations", handlerRegistration.ListReservations)
	private.Get("/reservations/stats", handlerRegistration.ScopeStats)

	return app

}
