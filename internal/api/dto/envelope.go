package dto

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Msg wraps a message and optional data in a successful envelope.
func Msg(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// List is a collection payload with its size.
type List[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewList builds a List, never encoding a null items array.
func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Count: len(items)}
}

// mapSlice converts every element of in with fn.
func mapSlice[In, Out any](in []In, fn func(*In) Out) []Out {
	out := make([]Out, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
