package services

import (
	"context"
	"errors"
	"fmt"

	"healthtracker/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRecordStore keeps one document per record in a MongoDB collection.
type MongoRecordStore struct {
	coll *mongo.Collection
}

func NewMongoRecordStore(coll *mongo.Collection) *MongoRecordStore {
	return &MongoRecordStore{coll: coll}
}

// Migrate ensures the index backing the default list order.
func (s *MongoRecordStore) Migrate(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *MongoRecordStore) List(ctx context.Context) ([]models.HealthRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	recs := []models.HealthRecord{}
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *MongoRecordStore) Get(ctx context.Context, id string) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *MongoRecordStore) Create(ctx context.Context, rec *models.HealthRecord) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

func (s *MongoRecordStore) Update(ctx context.Context, rec *models.HealthRecord) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: rec.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "date", Value: rec.Date},
			{Key: "bodyTemperature", Value: rec.BodyTemperature},
			{Key: "bloodPressure", Value: rec.BloodPressure},
			{Key: "heartRate", Value: rec.HeartRate},
			{Key: "updatedAt", Value: rec.UpdatedAt},
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoRecordStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoRecordStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}
	return nil
}
