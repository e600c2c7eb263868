package handler

import (
	"context"
	"fmt"

	"registration-service/internal/module/registration/models/request"
	"registration-service/internal/module/registration/usecases"
	"registration-service/internal/pkg/errors"
	"registration-service/internal/pkg/helpers"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type RegistrationHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
	Publish   message.Publisher
}

func (h *RegistrationHandler) CheckSlot(ctx *fiber.Ctx) error {
	var req request.SlotQuery
	if err := ctx.QueryParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.CheckSlot(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error check slot: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success check slot")
}

func (h *RegistrationHandler) BatchCheckSlots(ctx *fiber.Ctx) error {
	var req request.BatchSlotCheck
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.BatchCheckSlots(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error batch check slots: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success batch check slots")
}

func (h *RegistrationHandler) CreateRegistration(ctx *fiber.Ctx) error {
	var req request.CreateRegistration
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.CreateRegistration(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create registration: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success create registration, please complete payment before it expires")
}

func (h *RegistrationHandler) CheckDuplicate(ctx *fiber.Ctx) error {
	var req request.DuplicateCheck
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.CheckDuplicate(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error check duplicate: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success check duplicate")
}

func (h *RegistrationHandler) RegistrationStatus(ctx *fiber.Ctx) error {
	var req request.RegistrationStatus
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.RegistrationStatus(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error registration status: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success registration status")
}

func (h *RegistrationHandler) CreatePaymentOrder(ctx *fiber.Ctx) error {
	var req request.CreatePaymentOrder
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.CreatePaymentOrder(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create payment order: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success create payment order")
}

func (h *RegistrationHandler) VerifyPayment(ctx *fiber.Ctx) error {
	var req request.VerifyPayment
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.VerifyPayment(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error verify payment: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success verify payment")
}

// PaymentWebhook ingests asynchronous gateway events. Invalid signatures are
// the only 4xx; everything after a valid signature acknowledges with 200 so
// gateway retries do not amplify internal failures.
func (h *RegistrationHandler) PaymentWebhook(ctx *fiber.Ctx) error {
	rawBody := ctx.Body()
	signature := ctx.Get("X-Gateway-Signature")

	if err := h.Usecase.VerifyWebhookSignature(rawBody, signature); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error verify webhook signature: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	var event request.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error unmarshal webhook event: %v", err))
		return helpers.RespSuccess(ctx, h.Log, nil, "ok")
	}

	if err := h.Usecase.HandleWebhookEvent(ctx.UserContext(), &event, rawBody); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error handle webhook event: %v", err))
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "ok")
}

func (h *RegistrationHandler) TriggerSweep(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.SweepExpiredReservations(ctx.UserContext())
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error trigger sweep: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success trigger sweep")
}

func (h *RegistrationHandler) ExpireReservation(ctx *fiber.Ctx) error {
	var req request.ExpireReservation
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	resp, err := h.Usecase.ExpireReservation(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error expire reservation: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success expire reservation")
}

func (h *RegistrationHandler) ListReservations(ctx *fiber.Ctx) error {
	var req request.ListReservations
	if err := ctx.QueryParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	resp, err := h.Usecase.ListReservations(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error list reservations: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success list reservations")
}

func (h *RegistrationHandler) ScopeStats(ctx *fiber.Ctx) error {
	eventName := ctx.Query("event")
	if eventName == "" {
		h.Log.Ctx(ctx.UserContext()).Error("error parse event name")
		return helpers.RespError(ctx, h.Log, errors.BadRequest("event query parameter is required"))
	}

	resp, err := h.Usecase.ScopeStats(ctx.UserContext(), eventName)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error scope stats: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success scope stats")
}

// ConsumePaymentLogQueue appends audit rows published after payment events.
func (h *RegistrationHandler) ConsumePaymentLogQueue(msg *message.Message) error {
	msg.Ack() // acknowledge message
	var req request.PaymentLogMessage
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error unmarshal message: %v", err))

		// publish to poison queue
		reqPoisoned := request.PoisonedQueue{
			TopicTarget: usecases.TopicPaymentLog,
			ErrorMsg:    err.Error(),
			Payload:     msg.Payload,
		}

		jsonPayload, _ := json.Marshal(reqPoisoned)

		err = h.Publish.Publish(usecases.TopicPoisonedQueue, message.NewMessage(watermill.NewUUID(), jsonPayload))
		if err != nil {
			h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error publish to poison queue: %v", err))
		}

		return err
	}

	ctx := context.Background()

	if err := h.Usecase.ConsumePaymentLogQueue(ctx, &req); err != nil {
		reqPoisoned := request.PoisonedQueue{
			TopicTarget: usecases.TopicPaymentLog,
			ErrorMsg:    err.Error(),
			Payload:     msg.Payload,
		}

		jsonPayload, _ := json.Marshal(reqPoisoned)
		if pubErr := h.Publish.Publish(usecases.TopicPoisonedQueue, message.NewMessage(watermill.NewUUID(), jsonPayload)); pubErr != nil {
			h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error publish to poison queue: %v", pubErr))
		}

		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error consume payment log queue: %v", err))

		return err
	}

	return nil
}

// SweepExpired is the asynq task entry point for the recurring sweep. Errors
// are logged but not returned so a failed cycle does not queue retries on top
// of the next scheduled run.
func (h *RegistrationHandler) SweepExpired(ctx context.Context, t *asynq.Task) error {
	resp, err := h.Usecase.SweepExpiredReservations(ctx)
	if err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error sweep expired reservations: %v", err))
		return nil
	}

	if resp.Deleted > 0 {
		h.Log.Ctx(ctx).Info(fmt.Sprintf("sweep removed %d expired reservations", resp.Deleted))
	}

	return nil
}
