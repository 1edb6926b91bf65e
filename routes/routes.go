package routes

import (
	"net/http"
	"time"

	"spotshare/handlers"
	"spotshare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers so route registration stays flat.
type HandlerBundle struct {
	User        *handlers.UserHandler
	Parking     *handlers.ParkingHandler
	Reservation *handlers.ReservationHandler
	Comment     *handlers.CommentHandler
	Leaderboard *handlers.LeaderboardHandler
	Geocode     *handlers.GeocodeHandler
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterHandler)
		api.POST("/login", hb.User.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.User.MeHandler)
		api.POST("/logout", hb.User.LogoutHandler)
		api.PUT("/location", hb.User.UpdateLocationHandler)
		api.PUT("/fcm-token", hb.User.UpdateFCMTokenHandler)
	}
}

// RegisterParkingRoutes registers spot publishing, lookup, reservation
// and comment endpoints.
func RegisterParkingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/parkings")
	{
		api.GET("/nearby", hb.Parking.NearbyHandler)
		api.GET("/:id", hb.Parking.GetHandler)
		api.GET("/:id/comments", hb.Comment.ListCommentsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.Parking.PublishHandler)
		protected.PATCH("/:id", hb.Parking.UpdateHandler)
		protected.PUT("/:id/rating", hb.Parking.RateHandler)
		protected.POST("/:id/reserve", hb.Reservation.ReserveHandler)
		protected.POST("/:id/finish", hb.Reservation.FinishHandler)
		protected.POST("/:id/comments", hb.Comment.AddCommentHandler)
	}
}

// RegisterCommentRoutes registers vote endpoints.
func RegisterCommentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/comments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.PUT("/:id/vote", hb.Comment.VoteHandler)
	}
}

// RegisterReservationRoutes registers the caller's reservation views.
func RegisterReservationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/active", hb.Reservation.ActiveHandler)
	}
}

// RegisterLeaderboardRoutes registers the points leaderboard endpoint.
func RegisterLeaderboardRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/leaderboard", hb.Leaderboard.TopHandler)
}

// RegisterGeocodeRoutes registers the address lookup endpoint.
func RegisterGeocodeRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/geocode", hb.Geocode.SearchHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm SpotShare"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterParkingRoutes(r, hb)
	RegisterCommentRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterLeaderboardRoutes(r, hb)
	RegisterGeocodeRoutes(r, hb)
	RegisterHealthRoute(r)
}
