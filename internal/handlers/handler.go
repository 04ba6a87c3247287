package handlers

import (
	"github.com/dentaheal/booking-api/internal/services"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Handler bundles the services and collaborators the route handlers need.
type Handler struct {
	Bookings  *services.BookingService
	Dentists  *services.DentistService
	Users     *services.UserService
	UserStore store.UserStore
	Sessions  *redis.Client
	JWTSecret []byte
	Logger    *zap.Logger
}

func NewHandler(
	bookings *services.BookingService,
	dentists *services.DentistService,
	users *services.UserService,
	userStore store.UserStore,
	sessions *redis.Client,
	jwtSecret []byte,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Bookings:  bookings,
		Dentists:  dentists,
		Users:     users,
		UserStore: userStore,
		Sessions:  sessions,
		JWTSecret: jwtSecret,
		Logger:    logger,
	}
}
