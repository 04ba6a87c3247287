// Package store is the persistence boundary: Mongo-backed repositories for
// dentists, bookings and users, plus the query-string translation used by
// the list endpoints. Services depend on the interfaces, never on Mongo.
package store

import (
	"context"

	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DentistStore is the dentist collection.
type DentistStore interface {
	List(ctx context.Context, q ListQuery) ([]models.Dentist, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dentist, error)
	Create(ctx context.Context, dentist *models.Dentist) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Dentist, error)
	// DeleteCascade removes the dentist and every booking referencing it in
	// one transaction, so no orphaned booking survives.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
	// ReplaceUserRating atomically swaps out any rating held by the rating's
	// user and installs the new one, in a single document write.
	ReplaceUserRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (*models.Dentist, error)
	// RemoveUserRating drops the user's rating; absent ratings are a no-op.
	RemoveUserRating(ctx context.Context, id, userID primitive.ObjectID) (*models.Dentist, error)
	// AddExpertise and RemoveExpertise mutate the expertise set in place.
	AddExpertise(ctx context.Context, id primitive.ObjectID, area string) (*models.Dentist, error)
	RemoveExpertise(ctx context.Context, id primitive.ObjectID, area string) (*models.Dentist, error)
}

// BookingStore is the booking collection.
type BookingStore interface {
	// List returns one page plus the total matching the scoped filter, so
	// callers can paginate.
	List(ctx context.Context, scope bson.M, q ListQuery) ([]models.Booking, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	// CreateWithQuota counts the user's upcoming bookings and inserts inside
	// one transaction; check decides via the observed count. This narrows the
	// check-then-act window between quota read and insert.
	CreateWithQuota(ctx context.Context, booking *models.Booking, check func(upcoming int64) error) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountUpcoming(ctx context.Context, userID primitive.ObjectID) (int64, error)
	// ListActiveByDentist returns upcoming and confirmed bookings only.
	ListActiveByDentist(ctx context.Context, dentistID primitive.ObjectID) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error)
}

// UserStore is the user collection. User records are owned by the auth
// flow; booking services only read them for summaries and role changes.
type UserStore interface {
	List(ctx context.Context, q ListQuery) ([]models.User, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
}

// ErrNoDocuments re-exports the driver sentinel so services can test for
// missing documents without importing the driver everywhere.
var ErrNoDocuments = mongo.ErrNoDocuments
