package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dentaheal/booking-api/internal/middleware"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/store"
	"github.com/dentaheal/booking-api/internal/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RegisterUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

// RegisterUser creates a user account. Accounts always start with the user
// role; promotions go through the admin role-change endpoint.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  hashedPassword,
		Role:      models.RoleUser,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	if err := h.UserStore.Create(c.Request.Context(), user); err != nil {
		if store.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, envelope{Success: false, Error: "An account with this email already exists"})
			return
		}
		h.respondErr(c, err)
		return
	}

	respond(c, http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.UserStore.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, envelope{Success: false, Error: "Invalid credentials"})
		return
	}

	dentistID := ""
	if !user.DentistID.IsZero() {
		dentistID = user.DentistID.Hex()
	}
	token, err := utils.GenerateJWT(h.JWTSecret, user.ID.Hex(), string(user.Role), dentistID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	h.Logger.Info("user logged in", zap.String("user", user.ID.Hex()))
	respond(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token for its remaining lifetime.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		h.respondErr(c, errors.New("no token claims on context"))
		return
	}

	ttl := utils.TokenLifetime
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := utils.RevokeToken(c.Request.Context(), h.Sessions, claims.ID, ttl); err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	user, err := h.Users.Get(c.Request.Context(), actor.ID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
