package main

import (
	"alcyxob/gymbuddy-app/internal/ai"
	"alcyxob/gymbuddy-app/internal/api"
	"alcyxob/gymbuddy-app/internal/config"
	"alcyxob/gymbuddy-app/internal/notify"
	"alcyxob/gymbuddy-app/internal/push"
	"alcyxob/gymbuddy-app/internal/repository"
	"alcyxob/gymbuddy-app/internal/repository/mongo"
	"alcyxob/gymbuddy-app/internal/scheduler"
	"alcyxob/gymbuddy-app/internal/service"
	"alcyxob/gymbuddy-app/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title GymBuddy API
// @version 1.0
// @description Voice-first workout logging with a social layer: buddies, close friends, nudges and spots.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("Starting GymBuddy Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load config")
	}
	log.Info().Msg("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to MongoDB")
	}
	defer func() {
		log.Info().Msg("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Msg("Database connection established.")

	// --- Ensure Indexes ---
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureFriendshipIndexes(ctx, appDB.Collection("friendships"))
		mongo.EnsureCloseFriendIndexes(ctx, appDB.Collection("close_friends"))
		mongo.EnsureInteractionIndexes(ctx, appDB.Collection("user_interactions"))
		mongo.EnsureNotificationIndexes(ctx, appDB.Collection("notifications"))
		mongo.EnsureUsageIndexes(ctx, appDB.Collection("usage_metrics"))
		log.Info().Msg("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	photoStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	friendshipRepo := mongo.NewMongoFriendshipRepository(appDB)
	closeFriendRepo := mongo.NewMongoCloseFriendRepository(appDB)
	interactionRepo := mongo.NewMongoInteractionRepository(appDB)
	notificationRepo := mongo.NewMongoNotificationRepository(appDB)
	usageRepo := mongo.NewMongoUsageRepository(appDB)

	// --- Push Transport ---
	pushSender := buildPushSender(cfg.Push, userRepo)
	notifier := notify.New(notificationRepo, pushSender)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo, photoStorage)
	workoutService := service.NewWorkoutService(workoutRepo, userRepo, friendshipRepo, closeFriendRepo, notifier)
	extractor := ai.NewHTTPExtractor(ai.HTTPExtractorConfig{
		URL:     cfg.Extractor.URL,
		APIKey:  cfg.Extractor.APIKey,
		Timeout: cfg.Extractor.Timeout,
	})
	ingestService := service.NewIngestService(extractor, userRepo, workoutRepo, usageRepo, workoutService)
	socialService := service.NewSocialService(userRepo, friendshipRepo, closeFriendRepo, interactionRepo, notifier)
	notificationService := service.NewNotificationService(notificationRepo)

	// --- Scheduler ---
	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(workoutRepo, notifier, cfg.Scheduler)
		if err := jobs.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		defer jobs.Stop()
	}

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, usageRepo,
		authService, userService, workoutService, ingestService, socialService, notificationService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("address", cfg.Server.Address).Msg("Server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting.")
}

// buildPushSender picks the push transport from config. Anything
// misconfigured degrades to the no-op sender so the API still comes up.
func buildPushSender(cfg config.PushConfig, userRepo repository.UserRepository) push.Sender {
	switch cfg.Provider {
	case "http":
		return push.NewHTTPSender(push.HTTPSenderConfig{
			URL:      cfg.GatewayURL,
			AppID:    cfg.GatewayAppID,
			AppToken: cfg.GatewayAppToken,
		})
	case "apns":
		sender, err := push.NewAPNSSender(push.APNSSenderConfig{
			AuthKeyPath: cfg.APNSAuthKeyPath,
			KeyID:       cfg.APNSKeyID,
			TeamID:      cfg.APNSTeamID,
			Topic:       cfg.APNSTopic,
			Production:  cfg.APNSProduction,
		}, push.NewRepoTokenSource(userRepo))
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize APNs sender, pushes disabled")
			return push.NopSender{}
		}
		return sender
	default:
		return push.NopSender{}
	}
}
