package services

import (
	"context"
	"testing"
	"time"

	"healthtracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toDoc(t *testing.T, r models.HealthRecord) bson.D {
	t.Helper()
	raw, err := bson.Marshal(r)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func mongoRecord(id string) models.HealthRecord {
	ts := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	return models.HealthRecord{
		ID:              id,
		Date:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BodyTemperature: 38.2,
		BloodPressure:   models.BloodPressure{Systolic: 130, Diastolic: 85},
		HeartRate:       105,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
}

func TestMongoRecordStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := mongoRecord("a1")
		require.NoError(mt, store.Create(ctx, &r))
	})

	mt.Run("list", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toDoc(t, mongoRecord("a1")),
			toDoc(t, mongoRecord("b2")),
		))

		recs, err := store.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, recs, 2)
		assert.Equal(mt, "a1", recs[0].ID)
		assert.Equal(mt, models.BloodPressure{Systolic: 130, Diastolic: 85}, recs[0].BloodPressure)
		assert.Equal(mt, "2024-01-01", recs[1].DateString())
	})

	mt.Run("get", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(t, mongoRecord("a1"))))

		got, err := store.Get(ctx, "a1")
		require.NoError(mt, err)
		assert.Equal(mt, 38.2, got.BodyTemperature)
		assert.Equal(mt, 105, got.HeartRate)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(mt, err, ErrRecordNotFound)
	})

	mt.Run("update", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		r := mongoRecord("a1")
		require.NoError(mt, store.Update(ctx, &r))
	})

	mt.Run("update missing", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		r := mongoRecord("nope")
		assert.ErrorIs(mt, store.Update(ctx, &r), ErrRecordNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, store.Delete(ctx, "a1"))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		store := NewMongoRecordStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, store.Delete(ctx, "nope"), ErrRecordNotFound)
	})
}
