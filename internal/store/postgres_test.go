package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPgCondition(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  string
		wantArgs []any
	}{
		{"string equality", Eq("status", "open"), "data->>$2 = $3", []any{"status", "open"}},
		{"numeric range", Where("availableSeats", OpGreater, 0), "(data->>$2)::double precision > $3", []any{"availableSeats", 0}},
		{"bool", Eq("isVerified", true), "(data->>$2)::boolean = $3", []any{"isVerified", true}},
		{"time", Where("deadline", OpGreaterEqual, ts), "(data->>$2)::timestamptz >= $3", []any{"deadline", ts}},
		{"not equal", Where("role", OpNotEqual, "admin"), "data->>$2 <> $3", []any{"role", "admin"}},
		{"in", Where("status", OpIn, []string{"open", "waitlist"}), "data->>$2 = ANY($3)", []any{"status", []string{"open", "waitlist"}}},
		{"id column", Eq(FieldID, "abc"), "id = $2", []any{"abc"}},
		{"created_at column", Where(FieldCreatedAt, OpLess, ts), "created_at < $2", []any{ts}},
		{"null", Eq("facultyId", nil), "data->>$2 IS NULL", []any{"facultyId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := pgCondition(tt.filter, 2)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
