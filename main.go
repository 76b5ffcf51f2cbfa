package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faroemiliano/backBarberia1991/config"
	"github.com/faroemiliano/backBarberia1991/internal/auth"
	"github.com/faroemiliano/backBarberia1991/internal/consumer"
	"github.com/faroemiliano/backBarberia1991/internal/handler"
	"github.com/faroemiliano/backBarberia1991/internal/middleware"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"github.com/faroemiliano/backBarberia1991/internal/schedule"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/faroemiliano/backBarberia1991/pkg/database"
	"github.com/faroemiliano/backBarberia1991/pkg/logger"
	"github.com/faroemiliano/backBarberia1991/pkg/mailer"
	"github.com/faroemiliano/backBarberia1991/pkg/rabbitmq"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New("barberia-api", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		log.Error("database", "err", err)
		os.Exit(1)
	}

	sched, err := schedule.LoadFile(cfg.ScheduleFile)
	if err != nil {
		log.Error("schedule", "err", err, "file", cfg.ScheduleFile)
		os.Exit(1)
	}

	// Notifications: publisher on the request path, consumer delivering mail.
	var (
		notifier     notification.Notifier
		mqConsumer   *rabbitmq.Consumer
		consumerDone <-chan struct{}
	)
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.Error("rabbitmq publisher", "err", err)
			os.Exit(1)
		}
		defer publisher.Close()
		notifier = notification.NewQueueNotifier(publisher)

		mqConsumer, err = rabbitmq.NewConsumer(cfg.RabbitURL, log)
		if err != nil {
			log.Error("rabbitmq consumer", "err", err)
			os.Exit(1)
		}

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Error("start consuming", "err", err)
			os.Exit(1)
		}
		consumerDone = consumer.NewNotificationConsumer(newSender(cfg, log), log).Start(ctx, msgs)
	} else {
		log.Warn("RABBITMQ_URL not set, notifications disabled")
	}

	// Repositories
	uow := repository.NewUnitOfWork(db)
	slotRepo := repository.NewSlotRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	engine := service.EngineOptions{Location: cfg.Location, Notifier: notifier, Logger: log}
	calendarSvc := service.NewCalendarService(uow, slotRepo, apptRepo, service.CalendarOptions{
		Schedule:     sched,
		Location:     cfg.Location,
		AllowRebuild: cfg.AllowRebuild,
		Logger:       log,
	})
	reservationSvc := service.NewReservationService(uow, slotRepo, apptRepo, serviceRepo, userRepo, engine)
	appointmentSvc := service.NewAppointmentService(uow, slotRepo, apptRepo, serviceRepo, userRepo, engine)
	catalogSvc := service.NewCatalogService(uow, serviceRepo, log)
	reportSvc := service.NewReportService(reportRepo, serviceRepo)

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	var google auth.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google = auth.NewIDTokenVerifier(cfg.GoogleClientID)
	}
	authSvc := service.NewAuthService(userRepo, tokens, google, cfg.AdminEmail, log)

	if created, err := calendarSvc.Generate(ctx); err != nil {
		log.Error("initial calendar generation", "err", err)
	} else {
		log.Info("calendar ready", "created", created)
	}

	scheduler := cron.New(cron.WithLocation(cfg.Location))
	if _, err := scheduler.AddFunc(cfg.CalendarCron, func() {
		created, err := calendarSvc.Generate(ctx)
		if err != nil {
			log.Error("calendar top-up", "err", err)
			return
		}
		log.Info("calendar top-up", "created", created)
	}); err != nil {
		log.Error("invalid CALENDAR_CRON", "err", err, "expr", cfg.CalendarCron)
		os.Exit(1)
	}
	scheduler.Start()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	e.GET("/health", health(db))

	mw := handler.Middlewares{
		Auth:  middleware.RequireAuth(tokens),
		Admin: middleware.RequireAdmin(),
	}
	if cfg.RateLimitRPS > 0 {
		mw.RateLimit = echoMw.RateLimiterWithConfig(echoMw.RateLimiterConfig{
			Store: echoMw.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS)),
		})
	}

	handler.NewAuthHandler(authSvc).RegisterRoutes(e, mw)
	handler.NewCalendarHandler(calendarSvc, appointmentSvc).RegisterRoutes(e, mw)
	handler.NewAppointmentHandler(reservationSvc, appointmentSvc).RegisterRoutes(e, mw)
	handler.NewServiceHandler(catalogSvc).RegisterRoutes(e, mw)
	handler.NewReportHandler(reportSvc, cfg.Location).RegisterRoutes(e, mw)

	go func() {
		log.Info("barberia API starting", "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
	}
	<-scheduler.Stop().Done()
	if mqConsumer != nil {
		// Closing the channel ends the delivery loop; unacked messages return to the queue.
		mqConsumer.Close()
		select {
		case <-consumerDone:
		case <-shutdownCtx.Done():
			log.Warn("notification consumer did not drain in time")
		}
	}
}

func newSender(cfg *config.Config, log *slog.Logger) mailer.Sender {
	sender, err := mailer.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom, cfg.EmailTest, log)
	if err != nil {
		log.Warn("RESEND_API_KEY not set, emails are only logged")
		return mailer.NewLogSender(log)
	}
	return sender
}

func health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "barberia-api"})
	}
}
