package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo bundles the per-collection stores backed by one database handle.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database

	Users    *MongoUserStore
	Products *MongoProductStore
	Coupons  *MongoCouponStore
	Orders   *MongoOrderStore
}

func ConnectMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	m := &Mongo{
		client:   client,
		db:       db,
		Users:    &MongoUserStore{coll: db.Collection("users")},
		Products: &MongoProductStore{coll: db.Collection("products")},
		Coupons:  &MongoCouponStore{coll: db.Collection("coupons")},
		Orders:   &MongoOrderStore{coll: db.Collection("orders")},
	}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureIndexes creates the unique indexes the services rely on: email for
// signup, coupon code for reward issuance, stripe session id as the checkout
// idempotency guard.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	unique := func(coll *mongo.Collection, key string) error {
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create index %s.%s: %w", coll.Name(), key, err)
		}
		return nil
	}

	if err := unique(m.Users.coll, "email"); err != nil {
		return err
	}
	if err := unique(m.Coupons.coll, "code"); err != nil {
		return err
	}
	return unique(m.Orders.coll, "stripeSessionId")
}

func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// mapMongoErr translates driver errors into store sentinels.
func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
