package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type MongoCouponStore struct {
	coll *mongo.Collection
}

func (s *MongoCouponStore) findOne(ctx context.Context, filter bson.M) (*models.Coupon, error) {
	var c models.Coupon
	if err := s.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, mapMongoErr(err)
	}
	return &c, nil
}

func (s *MongoCouponStore) FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.findOne(ctx, bson.M{"userId": userID, "isActive": true})
}

func (s *MongoCouponStore) FindActiveByCode(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.findOne(ctx, bson.M{"code": code, "userId": userID, "isActive": true})
}

func (s *MongoCouponStore) FindByCode(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error) {
	return s.findOne(ctx, bson.M{"code": code, "userId": userID})
}

func (s *MongoCouponStore) Insert(ctx context.Context, c *models.Coupon) error {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return mapMongoErr(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoCouponStore) Save(ctx context.Context, c *models.Coupon) error {
	c.UpdatedAt = time.Now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCouponStore) DeactivateByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"userId": userID, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, mapMongoErr(err)
	}
	return res.ModifiedCount, nil
}
