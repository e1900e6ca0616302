package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoOpTimeout = 10 * time.Second

// MongoStore is the Store backed by a MongoDB database. Document ids are
// ObjectIDs exposed as hex strings.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

// MongoClientOptions returns client options that decode nested documents as maps.
func MongoClientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
}

// EnsureIndexes creates the unique indexes backing the store's uniqueness rules.
func (s *MongoStore) EnsureIndexes(ctx context.Context, indexes []UniqueIndex) error {
	for _, idx := range indexes {
		keys := bson.D{}
		for _, field := range idx.Fields {
			keys = append(keys, bson.E{Key: field, Value: 1})
		}
		model := mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
		if _, err := s.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.Collection, err)
		}
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var raw bson.M
	if err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		return nil, mapMongoError(err)
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) Create(ctx context.Context, collection string, data Document) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	doc := bson.M(stripReserved(data))
	now := time.Now().UTC()
	doc["_id"] = primitive.NewObjectID()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, mapMongoError(err)
	}
	return fromBSON(doc), nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, data Document) (Document, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	set := bson.M(stripReserved(data))
	set[FieldUpdatedAt] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err = s.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).
		Decode(&raw)
	if err != nil {
		return nil, mapMongoError(err)
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	query, err := mongoFilter(filters)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: FieldCreatedAt, Value: 1}})
	return s.find(ctx, collection, query, opts)
}

func (s *MongoStore) List(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = FieldCreatedAt
	}
	direction := 1
	if opts.Descending {
		direction = -1
	}
	findOpts := options.Find().SetSort(bson.D{{Key: orderBy, Value: direction}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	return s.find(ctx, collection, bson.M{}, findOpts)
}

func (s *MongoStore) find(ctx context.Context, collection string, query bson.M, opts *options.FindOptions) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	cur, err := s.db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cur.Close(ctx)

	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, mapMongoError(err)
	}
	out := make([]Document, 0, len(raws))
	for _, raw := range raws {
		out = append(out, fromBSON(raw))
	}
	return out, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoFilter(filters []Filter) (bson.M, error) {
	query := bson.M{}
	for _, f := range filters {
		field := f.Field
		if field == FieldID {
			field = "_id"
		}
		value := f.Value
		if field == "_id" {
			converted, err := objectIDValue(value)
			if err != nil {
				return nil, err
			}
			value = converted
		}

		var cond any
		switch f.Op {
		case OpEqual:
			cond = value
		case OpNotEqual:
			cond = bson.M{"$ne": value}
		case OpLess:
			cond = bson.M{"$lt": value}
		case OpLessEqual:
			cond = bson.M{"$lte": value}
		case OpGreater:
			cond = bson.M{"$gt": value}
		case OpGreaterEqual:
			cond = bson.M{"$gte": value}
		case OpIn:
			cond = bson.M{"$in": value}
		}

		if existing, ok := query[field]; ok {
			query["$and"] = append(andClauses(query), bson.M{field: existing}, bson.M{field: cond})
			delete(query, field)
			continue
		}
		query[field] = cond
	}
	return query, nil
}

func andClauses(query bson.M) bson.A {
	if existing, ok := query["$and"].(bson.A); ok {
		return existing
	}
	return bson.A{}
}

func objectIDValue(v any) (any, error) {
	switch id := v.(type) {
	case string:
		return primitive.ObjectIDFromHex(id)
	case []string:
		out := make(bson.A, 0, len(id))
		for _, item := range id {
			objID, err := primitive.ObjectIDFromHex(item)
			if err != nil {
				return nil, err
			}
			out = append(out, objID)
		}
		return out, nil
	}
	return v, nil
}

// fromBSON exposes _id as the hex "id" field and converts driver date values.
func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			if objID, ok := v.(primitive.ObjectID); ok {
				doc[FieldID] = objID.Hex()
			}
			continue
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = fromBSONValue(item)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	}
	return v
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
