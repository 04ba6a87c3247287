package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus lifecycle: a booking starts upcoming, becomes confirmed via
// the emailed confirmation link, and ends up completed, cancelled or blocked.
type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingBlocked   BookingStatus = "blocked"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingUpcoming, BookingConfirmed, BookingCompleted, BookingCancelled, BookingBlocked:
		return true
	}
	return false
}

// Active reports whether the booking still occupies its slot. Upcoming and
// confirmed bookings block availability; the terminal states do not.
func (s BookingStatus) Active() bool {
	return s == BookingUpcoming || s == BookingConfirmed
}

type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	DentistID       primitive.ObjectID `bson:"dentistId" json:"dentistId"`
	BookingDate     time.Time          `bson:"bookingDate" json:"bookingDate"`
	Status          BookingStatus      `bson:"status" json:"status"`
	TreatmentDetail string             `bson:"treatmentDetail,omitempty" json:"treatmentDetail,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// DentistSummary is the projection of a dentist embedded in booking
// responses, resolved read-side by the service layer.
type DentistSummary struct {
	ID               primitive.ObjectID `json:"id"`
	Name             string             `json:"name"`
	YearsExperience  int                `json:"yearsExperience"`
	AreasOfExpertise []string           `json:"areasOfExpertise"`
}

// BookingWithDentist is a booking plus its resolved dentist summary.
type BookingWithDentist struct {
	Booking
	Dentist *DentistSummary `json:"dentist,omitempty"`
}
