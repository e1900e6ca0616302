package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoFilter(t *testing.T) {
	q, err := mongoFilter([]Filter{
		Eq("studentId", "s1"),
		Where("availableSeats", OpGreater, 0),
		Where("status", OpIn, []string{"open", "waitlist"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "s1", q["studentId"])
	assert.Equal(t, bson.M{"$gt": 0}, q["availableSeats"])
	assert.Equal(t, bson.M{"$in": []string{"open", "waitlist"}}, q["status"])
}

func TestMongoFilterSameFieldTwice(t *testing.T) {
	q, err := mongoFilter([]Filter{
		Where("salary", OpGreaterEqual, 100),
		Where("salary", OpLess, 500),
	})
	require.NoError(t, err)

	assert.NotContains(t, q, "salary")
	and, ok := q["$and"].(bson.A)
	require.True(t, ok)
	assert.Len(t, and, 2)
}

func TestMongoFilterConvertsID(t *testing.T) {
	objID := primitive.NewObjectID()
	q, err := mongoFilter([]Filter{Eq(FieldID, objID.Hex())})
	require.NoError(t, err)
	assert.Equal(t, objID, q["_id"])

	_, err = mongoFilter([]Filter{Eq(FieldID, "not-hex")})
	assert.Error(t, err)
}

func TestFromBSON(t *testing.T) {
	objID := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := fromBSON(bson.M{
		"_id":       objID,
		"createdAt": primitive.NewDateTimeFromTime(now),
		"profile":   bson.M{"phone": "123"},
		"subjects":  bson.A{"Math"},
	})

	assert.Equal(t, objID.Hex(), doc.ID())
	created, ok := doc[FieldCreatedAt].(time.Time)
	require.True(t, ok)
	assert.True(t, now.Equal(created))
	assert.Equal(t, map[string]any{"phone": "123"}, doc["profile"])
	assert.Equal(t, []any{"Math"}, doc["subjects"])
	assert.NotContains(t, doc, "_id")
}
