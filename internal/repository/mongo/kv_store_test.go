package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"alcyxob/fitprogram/internal/repository"
)

func TestMongoKVStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "fitprogram." + kvCollectionName

	mt.Run("get found", func(mt *mtest.T) {
		s := NewMongoKVStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: repository.KeyActiveProgram},
			{Key: "value", Value: `{"id":"p1"}`},
		}))

		got, err := s.Get(context.Background(), repository.KeyActiveProgram)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"p1"}`, string(got))
	})

	mt.Run("get missing", func(mt *mtest.T) {
		s := NewMongoKVStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.Get(context.Background(), repository.KeyActiveProgram)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		s := NewMongoKVStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{
				{Key: "index", Value: 0},
				{Key: "_id", Value: repository.KeyActiveProgram},
			}}},
		))

		require.NoError(t, s.Set(context.Background(), repository.KeyActiveProgram, []byte(`{}`)))
	})

	mt.Run("delete", func(mt *mtest.T) {
		s := NewMongoKVStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.NoError(t, s.Delete(context.Background(), repository.KeyActiveProgram))
	})
}
