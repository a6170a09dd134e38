package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Jayesh2422/smartpark/internal/api"
	"github.com/Jayesh2422/smartpark/internal/api/handler"
	"github.com/Jayesh2422/smartpark/internal/api/middleware"
	"github.com/Jayesh2422/smartpark/internal/config"
	"github.com/Jayesh2422/smartpark/internal/events"
	"github.com/Jayesh2422/smartpark/internal/repository/postgresql"
	"github.com/Jayesh2422/smartpark/internal/service"
)

func main() {
	cfg := config.Load()

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	db, err := postgresql.NewDB(cfg)
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgresql.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		logger.Fatal("could not run migrations", zap.Error(err))
	}
	cancelMigrate()
	logger.Info("database ready")

	userRepo := postgresql.NewPgUserRepository(db)
	lotRepo := postgresql.NewPgParkingLotRepository(db)
	slotRepo := postgresql.NewPgParkingSlotRepository(db)
	vehicleRepo := postgresql.NewPgVehicleRepository(db)
	holidayRepo := postgresql.NewPgHolidayRepository(db)
	bookingRepo := postgresql.NewPgBookingRepository(db)
	historyRepo := postgresql.NewPgBookingHistoryRepository(db)
	p2pListingRepo := postgresql.NewPgP2PListingRepository(db)
	p2pRentalRepo := postgresql.NewPgP2PRentalRepository(db)

	wsManager := handler.NewWebSocketManager(logger)
	go wsManager.Start()

	var publisher service.BookingEventPublisher
	if cfg.SQSEventQueueURL == "" {
		logger.Info("SQS_EVENT_QUEUE_URL not set, booking events will not be published")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Fatal("could not load AWS config", zap.Error(err))
		}
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSEventQueueURL, logger)
		logger.Info("booking event publisher enabled", zap.String("queue", cfg.SQSEventQueueURL))
	}

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.TestOTPCode, logger)
	parkingService := service.NewParkingService(lotRepo, slotRepo, holidayRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, historyRepo, lotRepo, slotRepo,
		vehicleRepo, holidayRepo, wsManager, publisher, logger)
	vehicleService := service.NewVehicleService(vehicleRepo, logger)
	p2pService := service.NewP2PService(p2pListingRepo, p2pRentalRepo, logger)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	wsHandler := handler.NewWebSocketHandler(wsManager, logger)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.Services{
		Auth:    authService,
		Parking: parkingService,
		Booking: bookingService,
		Vehicle: vehicleService,
		P2P:     p2pService,
	}, authMiddleware, wsHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shut down", zap.Error(err))
	}
	logger.Info("server exited")
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}
