package store

import (
	"context"

	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBookingStore struct {
	coll   *mongo.Collection
	client *mongo.Client
}

func (s *mongoBookingStore) List(ctx context.Context, scope bson.M, q ListQuery) ([]models.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}
	// the policy scope wins over any caller-supplied filter
	for k, v := range scope {
		filter[k] = v
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)
	if q.Select != nil {
		opts.SetProjection(q.Select)
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (s *mongoBookingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CreateWithQuota runs the upcoming-count read and the insert in a single
// transaction. Transactions use snapshot isolation, so two concurrent
// creates touching disjoint documents can still both commit; this narrows
// the quota race window rather than closing it. A conditional write would
// need a partial unique index on {userId, status: upcoming}, which would
// also cap admins and dentists, so the residual window is accepted.
func (s *mongoBookingStore) CreateWithQuota(ctx context.Context, booking *models.Booking, check func(upcoming int64) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		upcoming, err := s.coll.CountDocuments(sc, bson.M{
			"userId": booking.UserID,
			"status": models.BookingUpcoming,
		})
		if err != nil {
			return nil, err
		}
		if err := check(upcoming); err != nil {
			return nil, err
		}
		if _, err := s.coll.InsertOne(sc, booking); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (s *mongoBookingStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *mongoBookingStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *mongoBookingStore) CountUpcoming(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.coll.CountDocuments(ctx, bson.M{
		"userId": userID,
		"status": models.BookingUpcoming,
	})
}

func (s *mongoBookingStore) ListActiveByDentist(ctx context.Context, dentistID primitive.ObjectID) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"dentistId": dentistID,
		"status":    bson.M{"$in": bson.A{models.BookingUpcoming, models.BookingConfirmed}},
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "bookingDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *mongoBookingStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
