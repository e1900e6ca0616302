package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/careerhub/career-api/internal/store"
)

// documentRepo maps typed records of T to documents in one collection.
// Records are converted through their JSON field names.
type documentRepo[T any] struct {
	store      store.Store
	collection string
}

func newDocumentRepo[T any](s store.Store, collection string) documentRepo[T] {
	return documentRepo[T]{store: s, collection: collection}
}

func (r documentRepo[T]) get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, store.ErrNotFound
	}
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

// create inserts record and refreshes it with the store-assigned id and timestamps.
func (r documentRepo[T]) create(ctx context.Context, record *T) error {
	doc, err := encode(record)
	if err != nil {
		return err
	}
	created, err := r.store.Create(ctx, r.collection, doc)
	if err != nil {
		return err
	}
	return decodeInto(created, record)
}

// save overwrites every field of record on document id.
func (r documentRepo[T]) save(ctx context.Context, id string, record *T) error {
	doc, err := encode(record)
	if err != nil {
		return err
	}
	updated, err := r.store.Update(ctx, r.collection, id, doc)
	if err != nil {
		return err
	}
	return decodeInto(updated, record)
}

// patch updates only the given fields.
func (r documentRepo[T]) patch(ctx context.Context, id string, fields store.Document) (*T, error) {
	updated, err := r.store.Update(ctx, r.collection, id, fields)
	if err != nil {
		return nil, err
	}
	return decode[T](updated)
}

func (r documentRepo[T]) delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.collection, id)
}

func (r documentRepo[T]) query(ctx context.Context, filters ...store.Filter) ([]T, error) {
	docs, err := r.store.Query(ctx, r.collection, filters...)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// first returns the earliest record matching filters or store.ErrNotFound.
func (r documentRepo[T]) first(ctx context.Context, filters ...store.Filter) (*T, error) {
	records, err := r.query(ctx, filters...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, store.ErrNotFound
	}
	return &records[0], nil
}

func (r documentRepo[T]) list(ctx context.Context, opts store.ListOptions) ([]T, error) {
	docs, err := r.store.List(ctx, r.collection, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// find queries when filters are given and lists newest first otherwise.
func (r documentRepo[T]) find(ctx context.Context, filters []store.Filter) ([]T, error) {
	if len(filters) == 0 {
		return r.list(ctx, store.ListOptions{Descending: true})
	}
	records, err := r.query(ctx, filters...)
	if err != nil {
		return nil, err
	}
	reverse(records)
	return records, nil
}

func encode(record any) (store.Document, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

func decode[T any](doc store.Document) (*T, error) {
	var record T
	if err := decodeInto(doc, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func decodeInto(doc store.Document, record any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, record); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func decodeAll[T any](docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		record, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *record)
	}
	return out, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
