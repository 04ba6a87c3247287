package policy

import (
	"testing"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListScope(t *testing.T) {
	userID := primitive.NewObjectID()
	dentistID := primitive.NewObjectID()
	otherDentist := primitive.NewObjectID()

	t.Run("user is scoped to own bookings", func(t *testing.T) {
		actor := models.Actor{ID: userID, Role: models.RoleUser}
		scope := ListScope(actor, otherDentist)
		if scope.UserID != userID {
			t.Errorf("expected user scope %s, got %s", userID.Hex(), scope.UserID.Hex())
		}
		if !scope.DentistID.IsZero() {
			t.Errorf("user scope must not carry a dentist restriction, got %s", scope.DentistID.Hex())
		}
	})

	t.Run("dentist is scoped to own bookings", func(t *testing.T) {
		actor := models.Actor{ID: userID, Role: models.RoleDentist, DentistID: dentistID}
		scope := ListScope(actor, otherDentist)
		if scope.DentistID != dentistID {
			t.Errorf("expected dentist scope %s, got %s", dentistID.Hex(), scope.DentistID.Hex())
		}
		if !scope.UserID.IsZero() {
			t.Error("dentist scope must not carry a user restriction")
		}
	})

	t.Run("admin is unrestricted", func(t *testing.T) {
		actor := models.Actor{ID: userID, Role: models.RoleAdmin}
		scope := ListScope(actor, primitive.NilObjectID)
		if !scope.UserID.IsZero() || !scope.DentistID.IsZero() {
			t.Errorf("expected empty scope, got %+v", scope)
		}
	})

	t.Run("admin may scope to an explicit dentist", func(t *testing.T) {
		actor := models.Actor{ID: userID, Role: models.RoleAdmin}
		scope := ListScope(actor, otherDentist)
		if scope.DentistID != otherDentist {
			t.Errorf("expected dentist scope %s, got %s", otherDentist.Hex(), scope.DentistID.Hex())
		}
	})
}

func TestCanCreateQuota(t *testing.T) {
	cases := []struct {
		name     string
		role     models.Role
		upcoming int64
		allowed  bool
	}{
		{"user with no upcoming booking", models.RoleUser, 0, true},
		{"user with one upcoming booking", models.RoleUser, 1, false},
		{"user with several upcoming bookings", models.RoleUser, 3, false},
		{"dentist ignores quota", models.RoleDentist, 5, true},
		{"admin ignores quota", models.RoleAdmin, 5, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor := models.Actor{ID: primitive.NewObjectID(), Role: tc.role}
			err := CanCreate(actor, tc.upcoming)
			if tc.allowed && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allowed {
				if err == nil {
					t.Fatal("expected quota denial, got allow")
				}
				if k, ok := apperr.KindOf(err); !ok || k != apperr.KindQuotaExceeded {
					t.Fatalf("expected quota error, got %v", err)
				}
			}
		})
	}
}

// TestCanModify covers all eight combinations of owner / assigned dentist /
// admin, since modify access is the disjunction of those three.
func TestCanModify(t *testing.T) {
	owner := primitive.NewObjectID()
	dentist := primitive.NewObjectID()
	booking := models.Booking{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		DentistID: dentist,
		Status:    models.BookingUpcoming,
	}

	for _, isOwner := range []bool{false, true} {
		for _, isAssigned := range []bool{false, true} {
			for _, isAdmin := range []bool{false, true} {
				actor := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
				if isOwner {
					actor.ID = owner
				}
				if isAssigned {
					actor.Role = models.RoleDentist
					actor.DentistID = dentist
				}
				if isAdmin {
					actor.Role = models.RoleAdmin
					actor.DentistID = primitive.NilObjectID
				}
				// an admin claim overrides the dentist assignment above, so
				// recompute what assignment survived
				effectiveAssigned := isAssigned && !isAdmin
				want := isOwner || effectiveAssigned || isAdmin

				got := CanModify(actor, booking)
				if got != want {
					t.Errorf("owner=%v assigned=%v admin=%v: got %v, want %v",
						isOwner, isAssigned, isAdmin, got, want)
				}
			}
		}
	}
}

func TestCanModifyDentistOnOthersBooking(t *testing.T) {
	booking := models.Booking{
		UserID:    primitive.NewObjectID(),
		DentistID: primitive.NewObjectID(),
	}
	actor := models.Actor{
		ID:        primitive.NewObjectID(),
		Role:      models.RoleDentist,
		DentistID: primitive.NewObjectID(), // different dentist
	}
	if CanModify(actor, booking) {
		t.Error("a dentist must not modify another dentist's booking")
	}
}

func TestCanDelete(t *testing.T) {
	owner := primitive.NewObjectID()
	dentist := primitive.NewObjectID()
	booking := models.Booking{UserID: owner, DentistID: dentist}

	cases := []struct {
		name  string
		actor models.Actor
		want  bool
	}{
		{"admin", models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, true},
		{"owning user", models.Actor{ID: owner, Role: models.RoleUser}, false},
		{"assigned dentist", models.Actor{ID: primitive.NewObjectID(), Role: models.RoleDentist, DentistID: dentist}, false},
		{"stranger", models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDelete(tc.actor, booking); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanViewHistory(t *testing.T) {
	patient := primitive.NewObjectID()

	if !CanViewHistory(models.Actor{ID: primitive.NewObjectID(), Role: models.RoleDentist}, patient) {
		t.Error("dentists may view patient history")
	}
	if !CanViewHistory(models.Actor{ID: patient, Role: models.RoleUser}, patient) {
		t.Error("a user may view their own history")
	}
	if CanViewHistory(models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}, patient) {
		t.Error("a user must not view another patient's history")
	}
}
