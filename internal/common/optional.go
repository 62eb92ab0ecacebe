package common

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes a field that was not sent from one sent as null.
//
//	{}              -> Set=false
//	{"f": null}     -> Set=true, Null=true
//	{"f": "value"}  -> Set=true, Value="value"
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

func Null[T any]() Optional[T] { return Optional[T]{Set: true, Null: true} }

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Present reports whether a non-null value was sent.
func (o Optional[T]) Present() bool { return o.Set && !o.Null }

// Ptr returns nil for absent or null, else a pointer to the value.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// Merge applies o on top of current: absent keeps current, null clears it.
func (o Optional[T]) Merge(current *T) *T {
	if !o.Set {
		return current
	}
	return o.Ptr()
}
