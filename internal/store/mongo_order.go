package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type MongoOrderStore struct {
	coll *mongo.Collection
}

func (s *MongoOrderStore) Insert(ctx context.Context, o *models.Order) error {
	o.CreatedAt = time.Now()
	res, err := s.coll.InsertOne(ctx, o)
	if err != nil {
		return mapMongoErr(err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoOrderStore) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var o models.Order
	if err := s.coll.FindOne(ctx, bson.M{"stripeSessionId": sessionID}).Decode(&o); err != nil {
		return nil, mapMongoErr(err)
	}
	return &o, nil
}

func (s *MongoOrderStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *MongoOrderStore) Totals(ctx context.Context) (int64, float64, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalSales":   bson.M{"$sum": 1},
			"totalRevenue": bson.M{"$sum": "$totalAmount"},
		}}},
	})
	if err != nil {
		return 0, 0, mapMongoErr(err)
	}
	var rows []struct {
		TotalSales   int64   `bson:"totalSales"`
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].TotalSales, rows[0].TotalRevenue, nil
}

func (s *MongoOrderStore) DailySales(ctx context.Context, start, end time.Time) ([]DailyStat, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"sales":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, mapMongoErr(err)
	}
	var out []DailyStat
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
