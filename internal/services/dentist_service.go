package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/reviews"
	"github.com/dentaheal/booking-api/internal/schedule"
	"github.com/dentaheal/booking-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DentistService orchestrates dentist CRUD, the review aggregate and the
// availability index.
type DentistService struct {
	dentists store.DentistStore
	bookings store.BookingStore
	logger   *zap.Logger
}

func NewDentistService(dentists store.DentistStore, bookings store.BookingStore, logger *zap.Logger) *DentistService {
	return &DentistService{dentists: dentists, bookings: bookings, logger: logger}
}

type CreateDentistInput struct {
	Name             string
	YearsExperience  int
	AreasOfExpertise []string
	PictureURL       string
	StartingPrice    float64
	Availability     []models.AvailabilityDate
}

// UpdateDentistInput uses pointers so absent fields stay untouched.
type UpdateDentistInput struct {
	Name             *string
	YearsExperience  *int
	AreasOfExpertise []string
	PictureURL       *string
	StartingPrice    *float64
	Availability     []models.AvailabilityDate
}

func (s *DentistService) List(ctx context.Context, q store.ListQuery) ([]models.Dentist, int64, error) {
	return s.dentists.List(ctx, q)
}

func (s *DentistService) Get(ctx context.Context, id primitive.ObjectID) (*models.Dentist, error) {
	return s.getDentist(ctx, id)
}

func (s *DentistService) Create(ctx context.Context, in CreateDentistInput) (*models.Dentist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.YearsExperience < 0 {
		return nil, apperr.Validation("yearsExperience cannot be negative")
	}
	if len(in.AreasOfExpertise) == 0 {
		return nil, apperr.Validation("at least one area of expertise is required")
	}
	if in.StartingPrice < 0 {
		return nil, apperr.Validation("startingPrice cannot be negative")
	}
	if err := schedule.ValidateCalendar(in.Availability); err != nil {
		return nil, err
	}

	dentist := &models.Dentist{
		ID:               primitive.NewObjectID(),
		Name:             in.Name,
		YearsExperience:  in.YearsExperience,
		AreasOfExpertise: in.AreasOfExpertise,
		PictureURL:       in.PictureURL,
		StartingPrice:    in.StartingPrice,
		Availability:     in.Availability,
		Ratings:          []models.Rating{},
		CreatedAt:        time.Now(),
	}
	if err := s.dentists.Create(ctx, dentist); err != nil {
		if store.IsDuplicateKey(err) {
			return nil, apperr.Validation("a dentist named %q already exists", in.Name)
		}
		return nil, err
	}
	s.logger.Info("dentist created", zap.String("dentist", dentist.ID.Hex()), zap.String("name", dentist.Name))
	return dentist, nil
}

// Update edits dentist core fields. Admins may edit anyone; a dentist actor
// may only edit their own profile.
func (s *DentistService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UpdateDentistInput) (*models.Dentist, error) {
	if err := s.authorizeProfileEdit(actor, id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		set["name"] = *in.Name
	}
	if in.YearsExperience != nil {
		if *in.YearsExperience < 0 {
			return nil, apperr.Validation("yearsExperience cannot be negative")
		}
		set["yearsExperience"] = *in.YearsExperience
	}
	if in.AreasOfExpertise != nil {
		if len(in.AreasOfExpertise) == 0 {
			return nil, apperr.Validation("at least one area of expertise is required")
		}
		set["areasOfExpertise"] = in.AreasOfExpertise
	}
	if in.PictureURL != nil {
		set["pictureUrl"] = *in.PictureURL
	}
	if in.StartingPrice != nil {
		if *in.StartingPrice < 0 {
			return nil, apperr.Validation("startingPrice cannot be negative")
		}
		set["startingPrice"] = *in.StartingPrice
	}
	if in.Availability != nil {
		if err := schedule.ValidateCalendar(in.Availability); err != nil {
			return nil, err
		}
		set["availability"] = in.Availability
	}
	if len(set) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	updated, err := s.dentists.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", id.Hex())
		}
		if store.IsDuplicateKey(err) {
			return nil, apperr.Validation("a dentist with that name already exists")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the dentist and cascades deletion of every booking that
// references them.
func (s *DentistService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.dentists.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return apperr.NotFound("no dentist with id %s", id.Hex())
		}
		return err
	}
	s.logger.Info("dentist deleted with booking cascade", zap.String("dentist", id.Hex()))
	return nil
}

func (s *DentistService) AddExpertise(ctx context.Context, actor models.Actor, id primitive.ObjectID, area string) (*models.Dentist, error) {
	if err := s.authorizeProfileEdit(actor, id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(area) == "" {
		return nil, apperr.Validation("expertise area is required")
	}
	dentist, err := s.dentists.AddExpertise(ctx, id, area)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", id.Hex())
		}
		return nil, err
	}
	return dentist, nil
}

func (s *DentistService) RemoveExpertise(ctx context.Context, actor models.Actor, id primitive.ObjectID, area string) (*models.Dentist, error) {
	if err := s.authorizeProfileEdit(actor, id); err != nil {
		return nil, err
	}
	dentist, err := s.dentists.RemoveExpertise(ctx, id, area)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", id.Hex())
		}
		return nil, err
	}
	if len(dentist.AreasOfExpertise) == 0 {
		s.logger.Warn("dentist left with no expertise areas", zap.String("dentist", id.Hex()))
	}
	return dentist, nil
}

// ReviewsView is a dentist's rating list plus the derived average. Average
// is omitted, not zero, when there are no ratings.
type ReviewsView struct {
	Ratings []models.Rating `json:"ratings"`
	Average *float64        `json:"average,omitempty"`
	Count   int             `json:"count"`
}

func (s *DentistService) Reviews(ctx context.Context, id primitive.ObjectID) (*ReviewsView, error) {
	dentist, err := s.getDentist(ctx, id)
	if err != nil {
		return nil, err
	}
	return reviewsView(dentist.Ratings), nil
}

// UpsertReview replaces the actor's review of the dentist. The store applies
// the replacement as one document write, so the remove-then-add can never be
// observed half-done.
func (s *DentistService) UpsertReview(ctx context.Context, actor models.Actor, id primitive.ObjectID, score int, reviewText string) (*ReviewsView, error) {
	dentist, err := s.getDentist(ctx, id)
	if err != nil {
		return nil, err
	}
	// validates the score and enforces one-rating-per-user on the in-memory
	// list; the store write mirrors exactly this transformation
	if _, err := reviews.Upsert(dentist.Ratings, actor.ID, score, reviewText, time.Now()); err != nil {
		return nil, err
	}

	rating := models.Rating{UserID: actor.ID, Score: score, ReviewText: reviewText, CreatedAt: time.Now()}
	updated, err := s.dentists.ReplaceUserRating(ctx, id, rating)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", id.Hex())
		}
		return nil, err
	}
	return reviewsView(updated.Ratings), nil
}

// RemoveReview drops the actor's review; absent reviews are a no-op.
func (s *DentistService) RemoveReview(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*ReviewsView, error) {
	updated, err := s.dentists.RemoveUserRating(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", id.Hex())
		}
		return nil, err
	}
	return reviewsView(updated.Ratings), nil
}

// AvailabilityView is the public availability answer: free slots per
// declared day plus the days already carrying active bookings.
type AvailabilityView struct {
	Dates       []DayAvailability `json:"dates"`
	BookedDates []time.Time       `json:"bookedDates"`
}

type DayAvailability struct {
	Date      time.Time         `json:"date"`
	FreeSlots []models.TimeSlot `json:"freeSlots"`
}

// Availability derives the dentist's free calendar by subtracting active
// bookings from the declared slots, day by day.
func (s *DentistService) Availability(ctx context.Context, id primitive.ObjectID) (*AvailabilityView, error) {
	dentist, err := s.getDentist(ctx, id)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveByDentist(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &AvailabilityView{
		Dates:       make([]DayAvailability, 0, len(dentist.Availability)),
		BookedDates: schedule.BookedDates(*dentist, active),
	}
	for _, day := range dentist.Availability {
		view.Dates = append(view.Dates, DayAvailability{
			Date:      day.Date,
			FreeSlots: schedule.FreeSlots(*dentist, active, day.Date),
		})
	}
	return view, nil
}

func (s *DentistService) authorizeProfileEdit(actor models.Actor, id primitive.ObjectID) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleDentist && actor.DentistID == id {
		return nil
	}
	return apperr.Forbidden("not authorized to edit dentist %s", id.Hex())
}

func (s *DentistService) getDentist(ctx context.Context, id primitive.ObjectID) (*models.Dentist, error) {
	dentist, err := s.dentists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", id.Hex())
		}
		return nil, err
	}
	return dentist, nil
}

func reviewsView(ratings []models.Rating) *ReviewsView {
	view := &ReviewsView{Ratings: ratings, Count: len(ratings)}
	if avg, ok := reviews.Average(ratings); ok {
		view.Average = &avg
	}
	if view.Ratings == nil {
		view.Ratings = []models.Rating{}
	}
	return view
}
