package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used when no database is configured.
// Each instance owns its data; construct one per application or test.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	indexes     map[string][]UniqueIndex
	now         func() time.Time
	last        time.Time
}

// NewMemoryStore creates an empty store enforcing the given unique indexes.
func NewMemoryStore(indexes ...UniqueIndex) *MemoryStore {
	s := &MemoryStore{
		collections: make(map[string]map[string]Document),
		indexes:     make(map[string][]UniqueIndex),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, idx := range indexes {
		s.indexes[idx.Collection] = append(s.indexes[idx.Collection], idx)
	}
	return s
}

// tick returns a timestamp strictly after the previous one so that
// createdAt ordering is total. Callers hold s.mu.
func (s *MemoryStore) tick() time.Time {
	now := s.now()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}

func (s *MemoryStore) collection(name string) map[string]Document {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]Document)
		s.collections[name] = coll
	}
	return coll
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := cloneDocument(stripReserved(data))
	now := s.tick()
	doc[FieldID] = uuid.NewString()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now

	coll := s.collection(collection)
	if s.violatesUnique(collection, coll, doc) {
		return nil, ErrDuplicate
	}
	coll[doc.ID()] = doc
	return cloneDocument(doc), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, data Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	current, ok := coll[id]
	if !ok {
		return nil, ErrNotFound
	}

	merged := cloneDocument(current)
	for k, v := range stripReserved(data) {
		merged[k] = cloneValue(v)
	}
	merged[FieldUpdatedAt] = s.tick()

	if s.violatesUnique(collection, coll, merged) {
		return nil, ErrDuplicate
	}
	coll[id] = merged
	return cloneDocument(merged), nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	delete(coll, id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0)
	for _, doc := range s.collections[collection] {
		if matchesAll(doc, filters) {
			out = append(out, cloneDocument(doc))
		}
	}
	sortDocuments(out, FieldCreatedAt, false)
	return out, nil
}

func (s *MemoryStore) List(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		out = append(out, cloneDocument(doc))
	}
	s.mu.RUnlock()

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = FieldCreatedAt
	}
	sortDocuments(out, orderBy, opts.Descending)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

func matchesAll(doc Document, filters []Filter) bool {
	for _, f := range filters {
		if !matches(doc[f.Field], f) {
			return false
		}
	}
	return true
}

// violatesUnique must be called with the write lock held.
func (s *MemoryStore) violatesUnique(collection string, coll map[string]Document, candidate Document) bool {
	for _, idx := range s.indexes[collection] {
		for id, existing := range coll {
			if id == candidate.ID() {
				continue
			}
			if sameKey(existing, candidate, idx.Fields) {
				return true
			}
		}
	}
	return false
}

func sameKey(a, b Document, fields []string) bool {
	for _, field := range fields {
		av, aok := a[field]
		bv, bok := b[field]
		if !aok || !bok || av == nil || bv == nil {
			return false
		}
		if !equalValues(av, bv) {
			return false
		}
	}
	return true
}
