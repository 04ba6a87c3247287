package services

import (
	"context"

	"github.com/dentaheal/booking-api/internal/models"
	"github.com/dentaheal/booking-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// In-memory store fakes. They implement just enough of the store semantics
// for the orchestration tests: scope/status filtering, the quota
// transaction, rating replacement and the delete cascade.

type fakeBookingStore struct {
	bookings []models.Booking
}

func (f *fakeBookingStore) List(_ context.Context, scope bson.M, q store.ListQuery) ([]models.Booking, int64, error) {
	matched := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if userID, ok := scope["userId"].(primitive.ObjectID); ok && b.UserID != userID {
			continue
		}
		if dentistID, ok := scope["dentistId"].(primitive.ObjectID); ok && b.DentistID != dentistID {
			continue
		}
		matched = append(matched, b)
	}
	total := int64(len(matched))

	// page the matches the way the real store does
	start := q.Skip()
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return matched[start:end], total, nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeBookingStore) CreateWithQuota(_ context.Context, booking *models.Booking, check func(int64) error) error {
	var upcoming int64
	for _, b := range f.bookings {
		if b.UserID == booking.UserID && b.Status == models.BookingUpcoming {
			upcoming++
		}
	}
	if err := check(upcoming); err != nil {
		return err
	}
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeBookingStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID != id {
			continue
		}
		if v, ok := set["status"].(models.BookingStatus); ok {
			f.bookings[i].Status = v
		}
		if v, ok := set["treatmentDetail"].(string); ok {
			f.bookings[i].TreatmentDetail = v
		}
		b := f.bookings[i]
		return &b, nil
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeBookingStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return store.ErrNoDocuments
}

func (f *fakeBookingStore) CountUpcoming(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.UserID == userID && b.Status == models.BookingUpcoming {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingStore) ListActiveByDentist(_ context.Context, dentistID primitive.ObjectID) ([]models.Booking, error) {
	out := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if b.DentistID == dentistID && b.Status.Active() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	out := make([]models.Booking, 0)
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeDentistStore struct {
	dentists []models.Dentist
	// cascade deletions reach into the booking fake, mirroring the real
	// transactional store
	bookings *fakeBookingStore
}

func (f *fakeDentistStore) List(_ context.Context, _ store.ListQuery) ([]models.Dentist, int64, error) {
	return f.dentists, int64(len(f.dentists)), nil
}

func (f *fakeDentistStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Dentist, error) {
	for i := range f.dentists {
		if f.dentists[i].ID == id {
			d := f.dentists[i]
			return &d, nil
		}
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeDentistStore) Create(_ context.Context, dentist *models.Dentist) error {
	f.dentists = append(f.dentists, *dentist)
	return nil
}

func (f *fakeDentistStore) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Dentist, error) {
	for i := range f.dentists {
		if f.dentists[i].ID != id {
			continue
		}
		if v, ok := set["name"].(string); ok {
			f.dentists[i].Name = v
		}
		if v, ok := set["startingPrice"].(float64); ok {
			f.dentists[i].StartingPrice = v
		}
		if v, ok := set["availability"].([]models.AvailabilityDate); ok {
			f.dentists[i].Availability = v
		}
		d := f.dentists[i]
		return &d, nil
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeDentistStore) DeleteCascade(_ context.Context, id primitive.ObjectID) error {
	for i := range f.dentists {
		if f.dentists[i].ID != id {
			continue
		}
		f.dentists = append(f.dentists[:i], f.dentists[i+1:]...)
		if f.bookings != nil {
			kept := f.bookings.bookings[:0]
			for _, b := range f.bookings.bookings {
				if b.DentistID != id {
					kept = append(kept, b)
				}
			}
			f.bookings.bookings = kept
		}
		return nil
	}
	return store.ErrNoDocuments
}

func (f *fakeDentistStore) ReplaceUserRating(_ context.Context, id primitive.ObjectID, rating models.Rating) (*models.Dentist, error) {
	for i := range f.dentists {
		if f.dentists[i].ID != id {
			continue
		}
		kept := make([]models.Rating, 0, len(f.dentists[i].Ratings))
		for _, r := range f.dentists[i].Ratings {
			if r.UserID != rating.UserID {
				kept = append(kept, r)
			}
		}
		f.dentists[i].Ratings = append(kept, rating)
		d := f.dentists[i]
		return &d, nil
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeDentistStore) RemoveUserRating(_ context.Context, id, userID primitive.ObjectID) (*models.Dentist, error) {
	for i := range f.dentists {
		if f.dentists[i].ID != id {
			continue
		}
		kept := make([]models.Rating, 0, len(f.dentists[i].Ratings))
		for _, r := range f.dentists[i].Ratings {
			if r.UserID != userID {
				kept = append(kept, r)
			}
		}
		f.dentists[i].Ratings = kept
		d := f.dentists[i]
		return &d, nil
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeDentistStore) AddExpertise(_ context.Context, id primitive.ObjectID, area string) (*models.Dentist, error) {
	for i := range f.dentists {
		if f.dentists[i].ID != id {
			continue
		}
		exists := false
		for _, a := range f.dentists[i].AreasOfExpertise {
			if a == area {
				exists = true
			}
		}
		if !exists {
			f.dentists[i].AreasOfExpertise = append(f.dentists[i].AreasOfExpertise, area)
		}
		d := f.dentists[i]
		return &d, nil
	}
	return nil, store.ErrNoDocuments
}

func (f *fakeDentistStore) RemoveExpertise(_ context.Context, id primitive.ObjectID, area string) (*models.Dentist, error) {
	for i := range f.dentists {
		if f.dentists[i].ID != id {
			continue
		}
		kept := make([]string, 0, len(f.dentists[i].AreasOfExpertise))
		for _, a := range f.dentists[i].AreasOfExpertise {
			if a != area {
				kept = append(kept, a)
			}
		}
		f.dentists[i].AreasOfExpertise = kept
		d := f.dentists[i]
		return &d, nil
	}
	return nil, store.ErrNoDocuments
}

func testLogger() *zap.Logger { return zap.NewNop() }

func listQuery() store.ListQuery {
	return store.ListQuery{Filter: bson.M{}, Page: store.DefaultPage, Limit: store.DefaultLimit}
}
