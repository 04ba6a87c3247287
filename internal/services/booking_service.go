package services

import (
	"context"
	"errors"
	"time"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/policy"
	"github.com/dentaheal/booking-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookingService orchestrates the booking policy, the availability index
// and the store for every booking operation.
type BookingService struct {
	bookings store.BookingStore
	dentists store.DentistStore
	logger   *zap.Logger
}

func NewBookingService(bookings store.BookingStore, dentists store.DentistStore, logger *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, dentists: dentists, logger: logger}
}

// CreateBookingInput carries the caller-settable booking fields.
type CreateBookingInput struct {
	BookingDate     time.Time
	TreatmentDetail string
}

// UpdateBookingInput uses pointers so absent fields stay untouched.
type UpdateBookingInput struct {
	BookingDate     *time.Time
	Status          *models.BookingStatus
	TreatmentDetail *string
}

// List returns the bookings the actor is entitled to see, with dentist
// summaries resolved read-side, plus the page total for pagination.
func (s *BookingService) List(ctx context.Context, actor models.Actor, requestedDentist primitive.ObjectID, q store.ListQuery) ([]models.BookingWithDentist, int64, error) {
	scope := policy.ListScope(actor, requestedDentist)
	bookings, total, err := s.bookings.List(ctx, scopeFilter(scope), q)
	if err != nil {
		return nil, 0, err
	}
	return s.withDentists(ctx, bookings), total, nil
}

// Get fetches a single booking for the actor; access follows CanView.
func (s *BookingService) Get(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.BookingWithDentist, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, *booking) {
		return nil, apperr.Forbidden("not authorized to view booking %s", id.Hex())
	}
	out := s.withDentists(ctx, []models.Booking{*booking})
	return &out[0], nil
}

// BookingConfirmation is the limited projection shown on the public
// confirmation page reached from the booking email.
type BookingConfirmation struct {
	ID          primitive.ObjectID   `json:"id"`
	BookingDate time.Time            `json:"bookingDate"`
	Status      models.BookingStatus `json:"status"`
	DentistName string               `json:"dentistName,omitempty"`
}

// GetConfirmation serves the public confirmation view. Unlike Get it skips
// the view policy but exposes only non-sensitive fields.
func (s *BookingService) GetConfirmation(ctx context.Context, id primitive.ObjectID) (*BookingConfirmation, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &BookingConfirmation{
		ID:          booking.ID,
		BookingDate: booking.BookingDate,
		Status:      booking.Status,
	}
	if dentist, err := s.dentists.GetByID(ctx, booking.DentistID); err == nil {
		view.DentistName = dentist.Name
	}
	return view, nil
}

// Create books a slot with the dentist for the actor. The referenced
// dentist must exist, and plain users are held to the one-upcoming-booking
// quota; the quota check and the insert run in one store transaction.
func (s *BookingService) Create(ctx context.Context, actor models.Actor, dentistID primitive.ObjectID, in CreateBookingInput) (*models.Booking, error) {
	if in.BookingDate.IsZero() {
		return nil, apperr.Validation("bookingDate is required")
	}
	if _, err := s.dentists.GetByID(ctx, dentistID); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no dentist with id %s", dentistID.Hex())
		}
		return nil, err
	}

	booking := &models.Booking{
		ID:              primitive.NewObjectID(),
		UserID:          actor.ID,
		DentistID:       dentistID,
		BookingDate:     in.BookingDate,
		Status:          models.BookingUpcoming,
		TreatmentDetail: in.TreatmentDetail,
		CreatedAt:       time.Now(),
	}

	err := s.bookings.CreateWithQuota(ctx, booking, func(upcoming int64) error {
		return policy.CanCreate(actor, upcoming)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking", booking.ID.Hex()),
		zap.String("user", actor.ID.Hex()),
		zap.String("dentist", dentistID.Hex()))
	return booking, nil
}

// Update applies the given changes; access follows CanModify.
func (s *BookingService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UpdateBookingInput) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(actor, *booking) {
		return nil, apperr.Forbidden("user %s is not authorized to update booking %s", actor.ID.Hex(), id.Hex())
	}

	set := bson.M{}
	if in.BookingDate != nil {
		set["bookingDate"] = *in.BookingDate
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation("invalid booking status %q", *in.Status)
		}
		set["status"] = *in.Status
	}
	if in.TreatmentDetail != nil {
		set["treatmentDetail"] = *in.TreatmentDetail
	}
	if len(set) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	updated, err := s.bookings.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no booking with id %s", id.Hex())
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a booking; admin only per CanDelete.
func (s *BookingService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(actor, *booking) {
		return apperr.Forbidden("user %s is not authorized to delete booking %s", actor.ID.Hex(), id.Hex())
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return apperr.NotFound("no booking with id %s", id.Hex())
		}
		return err
	}
	s.logger.Info("booking deleted", zap.String("booking", id.Hex()), zap.String("admin", actor.ID.Hex()))
	return nil
}

// Confirm flips an upcoming booking to confirmed. The route is public and
// gated by the emailed link, so there is no actor here. Confirming twice is
// a no-op; terminal bookings cannot be confirmed.
func (s *BookingService) Confirm(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case models.BookingConfirmed:
		return booking, nil
	case models.BookingUpcoming:
		// fallthrough to the update below
	default:
		return nil, apperr.Validation("booking %s is %s and can no longer be confirmed", id.Hex(), booking.Status)
	}

	updated, err := s.bookings.Update(ctx, id, bson.M{"status": models.BookingConfirmed})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PatientHistory lists every booking a patient ever held, newest first.
// Dentists may review any patient; users only themselves.
func (s *BookingService) PatientHistory(ctx context.Context, actor models.Actor, patientID primitive.ObjectID) ([]models.BookingWithDentist, error) {
	if !policy.CanViewHistory(actor, patientID) {
		return nil, apperr.Forbidden("not authorized to view patient history for %s", patientID.Hex())
	}
	bookings, err := s.bookings.ListByUser(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.withDentists(ctx, bookings), nil
}

func (s *BookingService) getBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperr.NotFound("no booking with id %s", id.Hex())
		}
		return nil, err
	}
	return booking, nil
}

// withDentists resolves dentist summaries for a page of bookings. This is
// the explicit read-side composition replacing reference population; a
// missing dentist simply leaves the summary empty.
func (s *BookingService) withDentists(ctx context.Context, bookings []models.Booking) []models.BookingWithDentist {
	summaries := make(map[primitive.ObjectID]*models.DentistSummary)
	out := make([]models.BookingWithDentist, 0, len(bookings))
	for _, b := range bookings {
		summary, seen := summaries[b.DentistID]
		if !seen {
			if dentist, err := s.dentists.GetByID(ctx, b.DentistID); err == nil {
				summary = &models.DentistSummary{
					ID:               dentist.ID,
					Name:             dentist.Name,
					YearsExperience:  dentist.YearsExperience,
					AreasOfExpertise: dentist.AreasOfExpertise,
				}
			}
			summaries[b.DentistID] = summary
		}
		out = append(out, models.BookingWithDentist{Booking: b, Dentist: summary})
	}
	return out
}

func scopeFilter(scope policy.Scope) bson.M {
	filter := bson.M{}
	if !scope.UserID.IsZero() {
		filter["userId"] = scope.UserID
	}
	if !scope.DentistID.IsZero() {
		filter["dentistId"] = scope.DentistID
	}
	return filter
}
