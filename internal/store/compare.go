package store

import (
	"reflect"
	"sort"
	"strings"
	"time"
)

// matches evaluates a filter against a document value in memory.
func matches(value any, f Filter) bool {
	switch f.Op {
	case OpEqual:
		return equalValues(value, f.Value)
	case OpNotEqual:
		return !equalValues(value, f.Value)
	case OpIn:
		items, _ := toSlice(f.Value)
		for _, item := range items {
			if equalValues(value, item) {
				return true
			}
		}
		return false
	}

	cmp, ok := compareValues(value, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders numbers, strings, times and bools. ok is false when
// the two values are not comparable.
func compareValues(a, b any) (int, bool) {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if at, aok := toTime(a); aok {
		bt, bok := toTime(b)
		if !bok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// sortDocuments orders docs in place by field. Documents missing the field sort last.
func sortDocuments(docs []Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, aok := docs[i][field]
		b, bok := docs[j][field]
		if !aok || !bok {
			return aok && !bok
		}
		cmp, ok := compareValues(a, b)
		if !ok {
			return false
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// cloneValue deep-copies maps and slices so callers cannot alias stored state.
func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return cloneDocument(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	}
	return v
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}
