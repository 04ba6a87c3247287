package store

import (
	"context"

	"github.com/dentaheal/booking-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDentistStore struct {
	coll     *mongo.Collection
	bookings *mongo.Collection
	client   *mongo.Client
}

func (s *mongoDentistStore) List(ctx context.Context, q ListQuery) ([]models.Dentist, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	total, err := s.coll.CountDocuments(ctx, q.Filter)
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

	cursor, err := s.coll.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	dentists := make([]models.Dentist, 0)
	if err := cursor.All(ctx, &dentists); err != nil {
		return nil, 0, err
	}
	return dentists, total, nil
}

func (s *mongoDentistStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var dentist models.Dentist
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&dentist); err != nil {
		return nil, err
	}
	return &dentist, nil
}

func (s *mongoDentistStore) Create(ctx context.Context, dentist *models.Dentist) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, dentist)
	return err
}

func (s *mongoDentistStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// DeleteCascade removes the dentist's bookings and the dentist inside one
// transaction so a failure cannot leave orphaned bookings behind.
func (s *mongoDentistStore) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.bookings.DeleteMany(sc, bson.M{"dentistId": id}); err != nil {
			return nil, err
		}
		res, err := s.coll.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		return nil, nil
	})
	return err
}

// ReplaceUserRating swaps the user's rating in a single pipeline update:
// the server filters out any rating by that user and appends the new one,
// so concurrent readers never see the list mid-replace.
func (s *mongoDentistStore) ReplaceUserRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (*models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "ratings", Value: bson.D{
			{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$ratings", bson.A{}}}}},
					{Key: "as", Value: "r"},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$r.userId", rating.UserID}}}},
				}}},
				bson.A{bson.D{
					{Key: "userId", Value: rating.UserID},
					{Key: "score", Value: rating.Score},
					{Key: "reviewText", Value: rating.ReviewText},
					{Key: "createdAt", Value: rating.CreatedAt},
				}},
			}},
		}}}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var dentist models.Dentist
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&dentist); err != nil {
		return nil, err
	}
	return &dentist, nil
}

func (s *mongoDentistStore) RemoveUserRating(ctx context.Context, id, userID primitive.ObjectID) (*models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"ratings": bson.M{"userId": userID}}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *mongoDentistStore) AddExpertise(ctx context.Context, id primitive.ObjectID, area string) (*models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// $addToSet keeps the expertise list duplicate-free
	update := bson.M{"$addToSet": bson.M{"areasOfExpertise": area}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *mongoDentistStore) RemoveExpertise(ctx context.Context, id primitive.ObjectID, area string) (*models.Dentist, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"areasOfExpertise": area}}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *mongoDentistStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update interface{}) (*models.Dentist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var dentist models.Dentist
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&dentist); err != nil {
		return nil, err
	}
	return &dentist, nil
}
