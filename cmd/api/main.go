package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dentaheal/booking-api/internal/config"
	"github.com/dentaheal/booking-api/internal/handlers"
	"github.com/dentaheal/booking-api/internal/middleware"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/services"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/dentaheal/booking-api/internal/utils"
)

func main() {
	config.Load()
	utils.InitializeLogger(config.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	// --- Database ---
	ctx := context.Background()
	db, err := store.Connect(ctx, config.AppConfig.MongoURI, config.AppConfig.MongoDatabase, logger)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer db.Disconnect(ctx)

	// --- Session revocation cache ---
	sessions := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	if err := sessions.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, token revocation disabled", zap.Error(err))
	}

	// --- Services ---
	bookingSvc := services.NewBookingService(db.Bookings, db.Dentists, logger)
	dentistSvc := services.NewDentistService(db.Dentists, db.Bookings, logger)
	userSvc := services.NewUserService(db.Users, logger)

	secret := []byte(config.AppConfig.JWTSecret)
	h := handlers.NewHandler(bookingSvc, dentistSvc, userSvc, db.Users, sessions, secret, logger)

	// --- Router ---
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(config.AppConfig.RatePerMinute))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(config.AppConfig.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(secret, sessions)
	api := r.Group("/api/v1")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/logout", auth, h.Logout)
		authRoutes.GET("/me", auth, h.Me)
	}

	dentists := api.Group("/dentists")
	{
		dentists.GET("", h.ListDentists)
		dentists.GET("/:id", h.GetDentist)
		dentists.POST("", auth, middleware.Authorize(models.RoleAdmin), h.CreateDentist)
		dentists.PUT("/:id", auth, middleware.Authorize(models.RoleAdmin, models.RoleDentist), h.UpdateDentist)
		dentists.DELETE("/:id", auth, middleware.Authorize(models.RoleAdmin), h.DeleteDentist)

		dentists.PUT("/:id/expertise", auth, middleware.Authorize(models.RoleAdmin, models.RoleDentist), h.AddExpertise)
		dentists.DELETE("/:id/expertise", auth, middleware.Authorize(models.RoleAdmin, models.RoleDentist), h.RemoveExpertise)

		dentists.GET("/reviews/:id", h.GetReviews)
		dentists.PUT("/reviews/:id", auth, middleware.Authorize(models.RoleUser, models.RoleAdmin), h.UpsertReview)
		dentists.DELETE("/reviews/:id", auth, middleware.Authorize(models.RoleUser, models.RoleAdmin), h.RemoveReview)

		dentists.GET("/availability/:id", h.GetAvailability)

		// nested booking routes; the dentist travels in :id
		dentists.GET("/:id/bookings", auth, middleware.Authorize(models.RoleUser, models.RoleDentist, models.RoleAdmin), h.ListBookings)
		dentists.POST("/:id/bookings", auth, middleware.Authorize(models.RoleUser, models.RoleDentist, models.RoleAdmin), h.CreateBooking)
	}

	bookings := api.Group("/bookings")
	{
		bookings.GET("", auth, middleware.Authorize(models.RoleUser, models.RoleDentist, models.RoleAdmin), h.ListBookings)
		bookings.POST("", auth, middleware.Authorize(models.RoleUser, models.RoleDentist, models.RoleAdmin), h.CreateBooking)
		bookings.GET("/:id", auth, h.GetBooking)
		bookings.GET("/:id/confirmation", h.GetBookingConfirmation)
		bookings.PUT("/:id", auth, middleware.Authorize(models.RoleUser, models.RoleDentist, models.RoleAdmin), h.UpdateBooking)
		bookings.DELETE("/:id", auth, middleware.Authorize(models.RoleAdmin), h.DeleteBooking)
		// public: reached from the confirmation email
		bookings.PUT("/:id/confirm", h.ConfirmBooking)
		bookings.GET("/patientHistory/:userId", auth, middleware.Authorize(models.RoleDentist, models.RoleUser, models.RoleAdmin), h.PatientHistory)
	}

	users := api.Group("/users", auth)
	{
		users.GET("", middleware.Authorize(models.RoleAdmin), h.ListUsers)
		users.GET("/:id", middleware.Authorize(models.RoleAdmin, models.RoleDentist), h.GetUser)
		users.PUT("/:id", middleware.Authorize(models.RoleAdmin), h.UpdateUserRole)
	}

	addr := ":" + config.AppConfig.APIPort
	logger.Info("starting server", zap.String("addr", addr), zap.String("env", config.AppConfig.Env))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
