package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeSlot is a contiguous interval within a dentist's working day. Start
// and End are wall-clock "HH:MM" strings; the interval is half-open, so a
// slot ending at 10:00 does not conflict with one starting at 10:00.
type TimeSlot struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// AvailabilityDate is one day of a dentist's declared availability calendar.
type AvailabilityDate struct {
	Date  time.Time  `bson:"date" json:"date"`
	Slots []TimeSlot `bson:"slots" json:"slots"`
}

// Rating is a single user's review of a dentist. A dentist holds at most
// one rating per user; replacement goes through the reviews package.
type Rating struct {
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Score      int                `bson:"score" json:"score"`
	ReviewText string             `bson:"reviewText" json:"reviewText"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type Dentist struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"` // unique across dentists
	YearsExperience  int                `bson:"yearsExperience" json:"yearsExperience"`
	AreasOfExpertise []string           `bson:"areasOfExpertise" json:"areasOfExpertise"`
	PictureURL       string             `bson:"pictureUrl,omitempty" json:"pictureUrl,omitempty"`
	StartingPrice    float64            `bson:"startingPrice" json:"startingPrice"`
	Availability     []AvailabilityDate `bson:"availability" json:"availability"`
	Ratings          []Rating           `bson:"ratings" json:"ratings"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
