package services

import (
	"context"
	"errors"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService covers the thin admin surface over user records: listing,
// single lookup and role changes. Registration and login live with the auth
// handlers since they belong to the auth flow.
type UserService struct {
	users  store.UserStore
	logger *zap.Logger
}

func NewUserService(users store.UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context, q store.ListQuery) ([]models.User, int64, error) {
	return s.users.List(ctx, q)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no user with id %s", id.Hex())
		}
		return nil, err
	}
	return user, nil
}

// UpdateRole changes a user's role. Promoting to dentist requires the
// dentist profile the account will manage.
func (s *UserService) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role, dentistID primitive.ObjectID) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid role %q", role)
	}
	set := bson.M{"role": role}
	if role == models.RoleDentist {
		if dentistID.IsZero() {
			return nil, apperr.Validation("dentistId is required when assigning the dentist role")
		}
		set["dentistId"] = dentistID
	} else {
		set["dentistId"] = primitive.NilObjectID
	}

	user, err := s.users.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no user with id %s", id.Hex())
		}
		return nil, err
	}
	s.logger.Info("user role changed", zap.String("user", id.Hex()), zap.String("role", string(role)))
	return user, nil
}
