// Package store provides the document store adapter used by the repositories.
// Documents are schema-free attribute maps addressed by collection and id.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Collection names.
const (
	CollectionUsers           = "users"
	CollectionInstitutions    = "institutions"
	CollectionFaculties       = "faculties"
	CollectionCourses         = "courses"
	CollectionApplications    = "applications"
	CollectionJobs            = "jobs"
	CollectionJobApplications = "jobApplications"
	CollectionTranscripts     = "transcripts"
	CollectionNotifications   = "notifications"
)

// Reserved document fields maintained by the store.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var (
	// ErrNotFound is returned when no document matches the id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)

// Document is a single record.
type Document map[string]any

// ID returns the document id or an empty string.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Operator is a comparison used by Query.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpIn           Operator = "in"
)

// Filter restricts Query results to documents whose Field satisfies Op Value.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Where builds a filter.
func Where(field string, op Operator, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Eq is shorthand for an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Validate rejects unknown operators and malformed "in" filters.
func (f Filter) Validate() error {
	if f.Field == "" {
		return errors.New("filter field required")
	}
	switch f.Op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return nil
	case OpIn:
		if _, ok := toSlice(f.Value); !ok {
			return fmt.Errorf("filter %s: in requires a slice value", f.Field)
		}
		return nil
	default:
		return fmt.Errorf("filter %s: unsupported operator %q", f.Field, f.Op)
	}
}

// ListOptions controls ordering and size of List results.
type ListOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
}

// Store is the document database contract.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection string, data Document) (Document, error)
	Update(ctx context.Context, collection, id string, data Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	List(ctx context.Context, collection string, opts ListOptions) ([]Document, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func validateFilters(filters []Filter) error {
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// stripReserved returns a copy of data without store-managed fields.
func stripReserved(data Document) Document {
	out := make(Document, len(data))
	for k, v := range data {
		switch k {
		case FieldID, FieldCreatedAt, FieldUpdatedAt, "_id":
			continue
		}
		out[k] = v
	}
	return out
}

// UniqueIndex declares fields whose combined values must be unique in a collection.
type UniqueIndex struct {
	Collection string
	Fields     []string
}

// DefaultIndexes are the uniqueness rules every backend enforces.
var DefaultIndexes = []UniqueIndex{
	{Collection: CollectionUsers, Fields: []string{"email"}},
	{Collection: CollectionInstitutions, Fields: []string{"email"}},
	{Collection: CollectionApplications, Fields: []string{"studentId", "courseId"}},
	{Collection: CollectionJobApplications, Fields: []string{"studentId", "jobId"}},
	{Collection: CollectionTranscripts, Fields: []string{"studentId"}},
}
