package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"registration-service/config"
	"registration-service/internal/module/registration/handler"
	"registration-service/internal/module/registration/repositories"
	"registration-service/internal/module/registration/usecases"
	"registration-service/internal/pkg/database"
	"registration-service/internal/pkg/http"
	"registration-service/internal/pkg/httpclient"
	log_internal "registration-service/internal/pkg/log"
	"registration-service/internal/pkg/messagestream"
	"registration-service/internal/pkg/middleware"
	redis_internal "registration-service/internal/pkg/redis"
	"registration-service/internal/pkg/scheduler"
	router "registration-service/internal/route"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.InitConfig()

	app, messageRouters, sched, registrationHandler := initService(cfg)

	for _, router := range messageRouters {
		ctx := context.Background()
		go func(router *message.Router) {
			err := router.Run(ctx)
			if err != nil {
				log.Fatal(err)
			}
		}(router)
	}

	// expiry sweep: recurring schedule plus one delayed run shortly after boot
	go sched.StartPeriodic(&cfg.Redis,
		fmt.Sprintf("@every %dm", cfg.Workshop.SweepIntervalMinutes),
		scheduler.TypeSweepExpiredReservations)

	go sched.StartHandler(&cfg.Redis,
		[]string{scheduler.TypeSweepExpiredReservations},
		[]func(ctx context.Context, t *asynq.Task) error{registrationHandler.SweepExpired})

	go sched.StartMonitoring(&cfg.Redis)

	client := sched.InitClient(&cfg.Redis)
	if _, err := client.Enqueue(
		asynq.NewTask(scheduler.TypeSweepExpiredReservations, nil),
		asynq.ProcessIn(time.Minute),
	); err != nil {
		log.Println("error enqueue initial sweep:", err)
	}

	// start http server
	http.StartHttpServer(app, cfg.HttpServer.Port)
}

func initService(cfg *config.Config) (*fiber.App, []*message.Router, *scheduler.Scheduler, *handler.RegistrationHandler) {

	// init database
	db := database.GetConnection(&cfg.Database)
	// init redis
	redisClient := redis_internal.SetupClient(&cfg.Redis)
	// init logger
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logger := log_internal.GetLogger()
	// init http client
	cb := httpclient.InitCircuitBreaker(&cfg.HttpClient, cfg.HttpClient.Type)
	httpClient := httpclient.InitHttpClient(&cfg.HttpClient, cb)
	// init redsync for the reservation code sequence
	rs := redsync.New(redsyncgoredis.NewPool(redisClient))

	ctx := context.Background()
	// init message stream
	amqp := messagestream.NewAmpq(&cfg.MessageStream)

	// Init Subscriber
	subscriber, err := amqp.NewSubscriber()
	if err != nil {
		logger.Error(ctx, "Failed to create subscriber", err)
	}

	// Init Publisher
	publisher, err := amqp.NewPublisher()
	if err != nil {
		logger.Error(ctx, "Failed to create publisher", err)
	}

	registrationRepo := repositories.New(db, logger, httpClient, redisClient, rs, &cfg.Gateway, &cfg.Workshop)
	registrationUsecase := usecases.New(registrationRepo, logger, publisher, &cfg.Workshop, &cfg.Gateway)
	middleware := middleware.Middleware{
		Log: logZap,
		Cfg: &cfg.Admin,
	}

	validator := validator.New()
	registrationHandler := &handler.RegistrationHandler{
		Log:       logZap,
		Validator: validator,
		Usecase:   registrationUsecase,
		Publish:   publisher,
	}

	var messageRouters []*message.Router

	consumePaymentLogRouter, err := messagestream.NewRouter("payment_log_handler", usecases.TopicPaymentLog, subscriber, registrationHandler.ConsumePaymentLogQueue)
	if err != nil {
		logger.Error(ctx, "Failed to create consume_payment_log router", err)
	}

	messageRouters = append(messageRouters, consumePaymentLogRouter)

	serverHttp := http.SetupHttpEngine()

	r := router.Initialize(serverHttp, registrationHandler, &middleware)

	sched := &scheduler.Scheduler{Log: logger}

	return r, messageRouters, sched, registrationHandler
}
