package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // Hide from JSON responses
	Role      Role               `bson:"role" json:"role"`
	DentistID primitive.ObjectID `bson:"dentistId,omitempty" json:"dentistId,omitempty"` // set iff role=dentist
	Phone     string             `bson:"phone" json:"phone"` // Optional, can be empty
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Actor is the authenticated identity making a request, derived from JWT
// claims by the auth middleware. It is never persisted.
type Actor struct {
	ID        primitive.ObjectID
	Role      Role
	DentistID primitive.ObjectID // zero unless Role == RoleDentist
}
