package services

import (
	"context"
	"testing"
	"time"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newDentistFixture() (*DentistService, *fakeDentistStore, *fakeBookingStore) {
	bookings := &fakeBookingStore{}
	dentists := &fakeDentistStore{bookings: bookings}
	return NewDentistService(dentists, bookings, testLogger()), dentists, bookings
}

func admin() models.Actor {
	return models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

func TestCreateDentistValidation(t *testing.T) {
	svc, _, _ := newDentistFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateDentistInput
	}{
		{"missing name", CreateDentistInput{AreasOfExpertise: []string{"ortho"}}},
		{"negative experience", CreateDentistInput{Name: "Dr. A", YearsExperience: -1, AreasOfExpertise: []string{"ortho"}}},
		{"no expertise", CreateDentistInput{Name: "Dr. A"}},
		{"negative price", CreateDentistInput{Name: "Dr. A", AreasOfExpertise: []string{"ortho"}, StartingPrice: -50}},
		{"inverted slot", CreateDentistInput{
			Name:             "Dr. A",
			AreasOfExpertise: []string{"ortho"},
			Availability: []models.AvailabilityDate{
				{Date: time.Now(), Slots: []models.TimeSlot{{Start: "11:00", End: "10:00"}}},
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			if k, ok := apperr.KindOf(err); !ok || k != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	dentist, err := svc.Create(ctx, CreateDentistInput{
		Name:             "Dr. Somsri",
		YearsExperience:  8,
		AreasOfExpertise: []string{"orthodontics"},
		StartingPrice:    1200,
	})
	if err != nil {
		t.Fatalf("valid dentist: %v", err)
	}
	if dentist.Ratings == nil {
		t.Error("new dentists must start with an empty, non-nil rating list")
	}
}

func TestUpdateDentistOwnProfileOnly(t *testing.T) {
	svc, dentists, _ := newDentistFixture()
	ctx := context.Background()
	own := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. A", AreasOfExpertise: []string{"ortho"}}
	other := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. B", AreasOfExpertise: []string{"endo"}}
	dentists.dentists = []models.Dentist{own, other}

	actor := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleDentist, DentistID: own.ID}
	name := "Dr. A, DDS"

	if _, err := svc.Update(ctx, actor, own.ID, UpdateDentistInput{Name: &name}); err != nil {
		t.Fatalf("editing own profile: %v", err)
	}
	if _, err := svc.Update(ctx, actor, other.ID, UpdateDentistInput{Name: &name}); !apperr.IsForbidden(err) {
		t.Fatalf("editing another dentist's profile must be forbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, admin(), other.ID, UpdateDentistInput{Name: &name}); err != nil {
		t.Fatalf("admin edit: %v", err)
	}
}

func TestDeleteDentistCascadesBookings(t *testing.T) {
	svc, dentists, bookings := newDentistFixture()
	ctx := context.Background()
	dentist := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. A"}
	survivor := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. B"}
	dentists.dentists = []models.Dentist{dentist, survivor}
	for i := 0; i < 3; i++ {
		bookings.bookings = append(bookings.bookings, models.Booking{
			ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(),
			DentistID: dentist.ID, Status: models.BookingUpcoming,
		})
	}
	bookings.bookings = append(bookings.bookings, models.Booking{
		ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(),
		DentistID: survivor.ID, Status: models.BookingUpcoming,
	})

	if err := svc.Delete(ctx, dentist.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, b := range bookings.bookings {
		if b.DentistID == dentist.ID {
			t.Fatal("no booking may still reference the deleted dentist")
		}
	}
	if len(bookings.bookings) != 1 {
		t.Errorf("the other dentist's booking must survive, got %d bookings", len(bookings.bookings))
	}
	if _, err := svc.Get(ctx, dentist.ID); !apperr.IsNotFound(err) {
		t.Fatalf("deleted dentist must be gone, got %v", err)
	}
}

func TestUpsertReviewKeepsOnePerUser(t *testing.T) {
	svc, dentists, _ := newDentistFixture()
	ctx := context.Background()
	dentist := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. A"}
	dentists.dentists = []models.Dentist{dentist}
	actor := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}

	if _, err := svc.UpsertReview(ctx, actor, dentist.ID, 4, "solid work"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	view, err := svc.UpsertReview(ctx, actor, dentist.ID, 2, "follow-up went badly")
	if err != nil {
		t.Fatalf("second review: %v", err)
	}

	if view.Count != 1 {
		t.Fatalf("expected exactly one review after re-reviewing, got %d", view.Count)
	}
	if view.Ratings[0].Score != 2 {
		t.Errorf("expected the latest score, got %d", view.Ratings[0].Score)
	}
	if view.Average == nil || *view.Average != 2.0 {
		t.Errorf("expected average 2.0, got %v", view.Average)
	}
}

func TestUpsertReviewScoreOutOfRange(t *testing.T) {
	svc, dentists, _ := newDentistFixture()
	dentist := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. A"}
	dentists.dentists = []models.Dentist{dentist}
	actor := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}

	_, err := svc.UpsertReview(context.Background(), actor, dentist.ID, 6, "")
	if k, ok := apperr.KindOf(err); !ok || k != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveReviewNoOpWhenAbsent(t *testing.T) {
	svc, dentists, _ := newDentistFixture()
	other := primitive.NewObjectID()
	dentist := models.Dentist{
		ID:      primitive.NewObjectID(),
		Name:    "Dr. A",
		Ratings: []models.Rating{{UserID: other, Score: 5}},
	}
	dentists.dentists = []models.Dentist{dentist}

	view, err := svc.RemoveReview(context.Background(), models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}, dentist.ID)
	if err != nil {
		t.Fatalf("removing an absent review must be a no-op: %v", err)
	}
	if view.Count != 1 {
		t.Fatalf("the other user's review must survive, got %d", view.Count)
	}
}

func TestReviewsAverageUndefinedWhenEmpty(t *testing.T) {
	svc, dentists, _ := newDentistFixture()
	dentist := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. A"}
	dentists.dentists = []models.Dentist{dentist}

	view, err := svc.Reviews(context.Background(), dentist.ID)
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if view.Average != nil {
		t.Errorf("average must be omitted when there are no ratings, got %v", *view.Average)
	}
}

func TestAvailabilitySubtractsActiveBookings(t *testing.T) {
	svc, dentists, bookings := newDentistFixture()
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	dentist := models.Dentist{
		ID:   primitive.NewObjectID(),
		Name: "Dr. A",
		Availability: []models.AvailabilityDate{
			{Date: day, Slots: []models.TimeSlot{{Start: "09:00", End: "10:00"}, {Start: "10:00", End: "11:00"}}},
		},
	}
	dentists.dentists = []models.Dentist{dentist}
	bookings.bookings = []models.Booking{
		{ID: primitive.NewObjectID(), DentistID: dentist.ID, UserID: primitive.NewObjectID(),
			BookingDate: day.Add(9 * time.Hour), Status: models.BookingUpcoming},
	}

	view, err := svc.Availability(context.Background(), dentist.ID)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(view.Dates) != 1 {
		t.Fatalf("expected one declared day, got %d", len(view.Dates))
	}
	free := view.Dates[0].FreeSlots
	if len(free) != 1 || free[0].Start != "10:00" {
		t.Fatalf("expected only the 10:00 slot free, got %v", free)
	}
	if len(view.BookedDates) != 1 || !view.BookedDates[0].Equal(day) {
		t.Errorf("expected the day marked booked, got %v", view.BookedDates)
	}
}

func TestExpertiseMutation(t *testing.T) {
	svc, dentists, _ := newDentistFixture()
	ctx := context.Background()
	dentist := models.Dentist{ID: primitive.NewObjectID(), Name: "Dr. A", AreasOfExpertise: []string{"ortho"}}
	dentists.dentists = []models.Dentist{dentist}

	updated, err := svc.AddExpertise(ctx, admin(), dentist.ID, "implantology")
	if err != nil {
		t.Fatalf("add expertise: %v", err)
	}
	if len(updated.AreasOfExpertise) != 2 {
		t.Fatalf("expected 2 areas, got %v", updated.AreasOfExpertise)
	}

	updated, err = svc.RemoveExpertise(ctx, admin(), dentist.ID, "ortho")
	if err != nil {
		t.Fatalf("remove expertise: %v", err)
	}
	if len(updated.AreasOfExpertise) != 1 || updated.AreasOfExpertise[0] != "implantology" {
		t.Fatalf("expected only implantology left, got %v", updated.AreasOfExpertise)
	}

	stranger := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	if _, err := svc.AddExpertise(ctx, stranger, dentist.ID, "endo"); !apperr.IsForbidden(err) {
		t.Fatalf("plain users must not edit expertise, got %v", err)
	}
}
