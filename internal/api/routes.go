package api

import (
	"alcyxob/gymbuddy-app/internal/repository"
	"alcyxob/gymbuddy-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	usageRepo repository.UsageRepository,
	authService service.AuthService,
	userService service.UserService,
	workoutService service.WorkoutService,
	ingestService service.IngestService,
	socialService service.SocialService,
	notificationService service.NotificationService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	workoutHandler := NewWorkoutHandler(workoutService)
	logHandler := NewLogHandler(ingestService)
	socialHandler := NewSocialHandler(socialService)
	notificationHandler := NewNotificationHandler(notificationService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware, UsageMiddleware(usageRepo))
	{
		// --- Profile ---
		meGroup := protected.Group("/users/me")
		{
			meGroup.GET("", userHandler.GetMe)
			meGroup.PATCH("", userHandler.UpdateMe)
			meGroup.POST("/metrics", userHandler.AppendMetric)
			meGroup.POST("/avatar", userHandler.RequestAvatarUpload)
			meGroup.GET("/avatar", userHandler.GetAvatarURL)
		}

		// --- Workouts ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		// --- Voice-log ingestion ---
		protected.POST("/logs/voice", logHandler.Ingest)

		// --- Social graph ---
		socialGroup := protected.Group("/social")
		{
			socialGroup.GET("/friends", socialHandler.ListFriends)
			socialGroup.GET("/friends/:userId/workouts", workoutHandler.ListFriendWorkouts)
			socialGroup.DELETE("/friends/:userId", socialHandler.RemoveFriend)
			socialGroup.PUT("/friends/:userId/close", socialHandler.ToggleCloseFriend)
			socialGroup.POST("/requests", socialHandler.SendFriendRequest)
			socialGroup.GET("/requests", socialHandler.ListPendingRequests)
			socialGroup.POST("/requests/:id/respond", socialHandler.RespondToFriendRequest)
			socialGroup.GET("/search", socialHandler.SearchUsers)
			socialGroup.POST("/actions", socialHandler.PerformAction)
		}

		// --- Notifications ---
		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.List)
			notificationGroup.POST("/:id/read", notificationHandler.MarkRead)
			notificationGroup.POST("/read-all", notificationHandler.MarkAllRead)
		}
	}
}
