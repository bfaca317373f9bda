package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"bookable/config"
	cronWorker "bookable/cron"
	"bookable/database"
	appointmentRepo "bookable/database/repository/appointment"
	busyblockRepo "bookable/database/repository/busyblock"
	optionRepo "bookable/database/repository/option"
	scheduleRepo "bookable/database/repository/schedule"
	"bookable/handlers"
	"bookable/middleware"
	"bookable/routes"
	"bookable/services/scheduling"
	"bookable/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig
	loc := cfg.Location()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer database.Disconnect(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReservationDB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.Sugar().Fatalf("main: failed to connect to Redis: %v", err)
	}
	cancelPing()

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(db)
	schedRepo := scheduleRepo.NewMongoScheduleRepo(db, loc)
	optRepo := optionRepo.NewMongoOptionRepo(db)
	blockRepo := busyblockRepo.NewMongoBusyBlockRepo(db)

	// Busy-time providers are resolved once at startup from configuration.
	registry := scheduling.NewProviderRegistry()
	for _, src := range cfg.BusySources {
		kind, err := scheduling.ParseKind(src)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		if err := registry.Register(&scheduling.MirrorProvider{ProviderKind: kind, Repo: blockRepo}); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
	}

	// services.
	aggregator := &scheduling.BusyTimeAggregator{
		Appointments: apptRepo,
		Providers:    registry,
		Timeout:      cfg.ProviderTimeout(),
	}
	engine := &scheduling.DefaultSchedulingEngine{
		Schedule:           schedRepo,
		Busy:               aggregator,
		Options:            optRepo,
		Constraints:        cfg.BookingConstraints(),
		AdvanceBookingDays: cfg.AdvanceBookingDays,
		Location:           loc,
	}
	bookingService := &scheduling.DefaultBookingService{
		Engine:         engine,
		Appointments:   apptRepo,
		Options:        optRepo,
		Reservations:   scheduling.NewRedisReservationStore(redisClient),
		Constraints:    cfg.BookingConstraints(),
		Location:       loc,
		ReservationTTL: cfg.ReservationTTL(),
	}

	worker, err := cronWorker.StartStalePendingWorker(apptRepo, time.Duration(cfg.StalePendingMaxAgeHrs)*time.Hour)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to start stale-pending worker: %v", err)
	}
	defer worker.Stop()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	utils.StartHealthMonitor(db, redisClient)

	routes.RegisterAvailabilityRoutes(router, handlers.NewAvailabilityHandler(engine))
	routes.RegisterAppointmentRoutes(router, handlers.NewAppointmentHandler(bookingService, apptRepo))
	routes.RegisterHealthRoutes(router)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
