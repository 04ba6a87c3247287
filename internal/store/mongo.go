package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const opTimeout = 5 * time.Second

// Mongo bundles the three repositories over one database handle.
type Mongo struct {
	client   *mongo.Client
	db       *mongo.Database
	Dentists DentistStore
	Bookings BookingStore
	Users    UserStore
}

// Connect dials MongoDB, pings it, and ensures the unique indexes the data
// model relies on (dentist name, user email).
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Mongo, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	m := &Mongo{
		client:   client,
		db:       db,
		Dentists: &mongoDentistStore{coll: db.Collection("dentists"), client: client, bookings: db.Collection("bookings")},
		Bookings: &mongoBookingStore{coll: db.Collection("bookings"), client: client},
		Users:    &mongoUserStore{coll: db.Collection("users")},
	}
	if err := m.ensureIndexes(dialCtx); err != nil {
		logger.Warn("failed to ensure indexes", zap.Error(err))
	}
	logger.Info("connected to MongoDB", zap.String("database", dbName))
	return m, nil
}

// Disconnect closes the underlying client.
func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping is used by the health endpoint.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := m.db.Collection("dentists").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	if _, err := m.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	_, err := m.db.Collection("bookings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
