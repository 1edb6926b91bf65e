package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spotshare/config"
	"spotshare/cron"
	"spotshare/database"
	commentRepoPkg "spotshare/database/repository/comment"
	nearbyRepoPkg "spotshare/database/repository/nearby"
	parkingRepoPkg "spotshare/database/repository/parking"
	reservationRepoPkg "spotshare/database/repository/reservation"
	userRepoPkg "spotshare/database/repository/user"
	"spotshare/handlers"
	"spotshare/middleware"
	"spotshare/routes"
	"spotshare/services/comment"
	"spotshare/services/geocode"
	"spotshare/services/leaderboard"
	"spotshare/services/parking"
	"spotshare/services/proximity"
	"spotshare/services/rank"
	"spotshare/services/reservation"
	"spotshare/services/tasks"
	"spotshare/services/user"
	"spotshare/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	fcmClient, err := utils.FirebaseMessaging(context.Background())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize firebase messaging: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	parkingRepo := parkingRepoPkg.NewMongoParkingRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()
	commentRepo := commentRepoPkg.NewMongoCommentRepo()
	nearbyRepo := nearbyRepoPkg.NewMongoNearbyRepo()

	// Task queue client for proximity triggers.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	taskClient := tasks.NewClient(asynqClient)

	// services.
	userService := &user.DefaultUserService{
		Repo:    userRepo,
		Trigger: taskClient,
	}
	parkingService := &parking.DefaultService{
		Repo:  parkingRepo,
		Users: userRepo,
	}
	reservationService := &reservation.DefaultService{
		Repo: reservationRepo,
	}
	commentService := &comment.DefaultService{
		Repo:  commentRepo,
		Users: userRepo,
	}
	leaderboardService := &leaderboard.DefaultService{
		Repo:  userRepo,
		Cache: utils.GetCacheClient(),
	}
	geocoder := geocode.NewGoogleGeocoder(config.AppConfig.GoogleAPIKey)
	rankManager := rank.NewManager(userRepo)

	notifier := proximity.NewNotifier(userRepo, parkingRepo, nearbyRepo, proximity.NewFCMPusher(fcmClient))
	if config.AppConfig.NearbyRadiusMeters > 0 {
		notifier.RadiusMeters = config.AppConfig.NearbyRadiusMeters
	}
	if config.AppConfig.NearbyCooldownMins > 0 {
		notifier.Cooldown = time.Duration(config.AppConfig.NearbyCooldownMins) * time.Minute
	}
	if config.AppConfig.NearbySpotBatchSize > 0 {
		notifier.SpotBatchSize = int64(config.AppConfig.NearbySpotBatchSize)
	}
	cron.InitProximityWorker(notifier)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		User:        handlers.NewUserHandler(userService, rankManager),
		Parking:     handlers.NewParkingHandler(parkingService),
		Reservation: handlers.NewReservationHandler(reservationService),
		Comment:     handlers.NewCommentHandler(commentService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		Geocode:     handlers.NewGeocodeHandler(geocoder),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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

	rankManager.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
