// Package policy holds the booking authorization rules. Everything here is
// a pure function over the actor and the booking; no I/O, no store access.
package policy

import (
	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope is the mandatory restriction applied to booking list queries before
// any caller-supplied filters. Zero fields mean unrestricted.
type Scope struct {
	UserID    primitive.ObjectID
	DentistID primitive.ObjectID
}

// ListScope maps an actor to the scope every booking list query must carry.
// Dentists see their own bookings, users see theirs, admins see everything
// unless they explicitly asked for a single dentist.
func ListScope(actor models.Actor, requestedDentist primitive.ObjectID) Scope {
	switch actor.Role {
	case models.RoleDentist:
		return Scope{DentistID: actor.DentistID}
	case models.RoleAdmin:
		return Scope{DentistID: requestedDentist}
	default:
		return Scope{UserID: actor.ID}
	}
}

// CanCreate decides whether the actor may create a new booking given how
// many upcoming bookings they already hold. Plain users are limited to one
// upcoming booking at a time; dentists and admins are never quota-limited.
func CanCreate(actor models.Actor, upcomingCount int64) error {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleDentist {
		return nil
	}
	if upcomingCount >= 1 {
		return apperr.QuotaExceeded("user %s already has an upcoming booking", actor.ID.Hex())
	}
	return nil
}

// CanView restricts the general single-booking fetch to the booking's owner,
// the assigned dentist, or an admin. The public confirmation page goes
// through a separate projection and does not call this.
func CanView(actor models.Actor, booking models.Booking) bool {
	return CanModify(actor, booking)
}

// CanModify allows the booking's owner, the assigned dentist, or an admin.
func CanModify(actor models.Actor, booking models.Booking) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if actor.Role == models.RoleDentist && actor.DentistID == booking.DentistID {
		return true
	}
	return actor.ID == booking.UserID
}

// CanDelete allows admins only.
func CanDelete(actor models.Actor, _ models.Booking) bool {
	return actor.Role == models.RoleAdmin
}

// CanViewHistory gates the patient-history listing: any dentist may review a
// patient's past treatments, and users may review their own.
func CanViewHistory(actor models.Actor, patientID primitive.ObjectID) bool {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleDentist {
		return true
	}
	return actor.ID == patientID
}
