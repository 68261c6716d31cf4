package main

import (
	"os"
	"time"

	"github.com/josiahuma/ovipoint/config"
	"github.com/josiahuma/ovipoint/internal/handler"
	"github.com/josiahuma/ovipoint/internal/metrics"
	"github.com/josiahuma/ovipoint/internal/middleware"
	"github.com/josiahuma/ovipoint/internal/notify"
	"github.com/josiahuma/ovipoint/internal/repository"
	"github.com/josiahuma/ovipoint/internal/service"
	"github.com/josiahuma/ovipoint/pkg/cache"
	"github.com/josiahuma/ovipoint/pkg/database"
	"github.com/josiahuma/ovipoint/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	metrics.Register()

	// Repositories
	orgRepo := repository.NewOrganisationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Optional integrations. Each one is skipped when unconfigured and the
	// rest of the service runs without it.
	var availabilityCache *cache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		availabilityCache = cache.New(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("availability cache enabled")
	}

	var hooks []notify.Hook
	if availabilityCache != nil {
		hooks = append(hooks, notify.NewCacheHook(availabilityCache))
	}
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		hooks = append(hooks, notify.NewQueueHook(publisher))
		logger.Info().Msg("queue publishing enabled")
	}
	if cfg.SMSAPIKey != "" {
		sender := notify.NewSMSSender(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSSender)
		hooks = append(hooks, notify.NewSMSHook(sender, orgRepo))
		logger.Info().Msg("sms notifications enabled")
	}
	dispatcher := notify.NewDispatcher(&logger, hooks...)

	// Services
	orgSvc := service.NewOrganisationService(orgRepo, &logger)
	eventSvc := service.NewEventService(eventRepo, bookingRepo, dispatcher, nil, &logger)
	bookingSvc := service.NewBookingService(bookingRepo, eventRepo, dispatcher, nil, &logger)

	secret := []byte(cfg.JWTSecret)

	// Handlers
	orgHandler := handler.NewOrganisationHandler(orgSvc, eventSvc, secret, nil)
	eventHandler := handler.NewEventHandler(eventSvc, bookingSvc, availabilityCache)
	bookingHandler := handler.NewBookingHandler(bookingSvc)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "ovipoint"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.POST("/auth/signup", orgHandler.Signup)
	api.POST("/auth/login", orgHandler.Login)

	api.GET("/organisations", orgHandler.Search)
	api.GET("/organisations/:slug", orgHandler.GetBySlug)

	api.GET("/events/:id", eventHandler.GetEvent)
	api.GET("/events/:id/availability", eventHandler.Availability)
	api.GET("/events/:id/bookings", bookingHandler.ListBookedSlots)
	api.POST("/events/:id/bookings", bookingHandler.CreateBooking)

	api.GET("/bookings/:id", bookingHandler.GetBooking)
	api.PUT("/bookings/:id", bookingHandler.UpdateBooking)
	api.DELETE("/bookings/:id", bookingHandler.CancelBooking)
	api.POST("/bookings/find", bookingHandler.FindBookings)

	admin := api.Group("/admin", middleware.RequireAuth(secret))
	admin.GET("/me", orgHandler.Me)
	admin.PUT("/settings", orgHandler.UpdateSettings)
	admin.POST("/events", eventHandler.CreateEvents)
	admin.GET("/events", eventHandler.ListEvents)
	admin.PUT("/events/:id", eventHandler.UpdateEvent)
	admin.PATCH("/events/:id/bookings", eventHandler.ToggleBookings)
	admin.DELETE("/events/:id", eventHandler.DeleteEvent)
	admin.GET("/events/:id/bookings", bookingHandler.ListBookings)

	logger.Info().Str("port", cfg.ServerPort).Msg("starting server")
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
