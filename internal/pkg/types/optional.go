package types

import "github.com/bytedance/sonic"

// Optional records whether a JSON field was present in a payload at all, and
// whether it was an explicit null, so updates can tell "not provided" from "provided empty".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return sonic.Unmarshal(b, &o.Value)
}

// Get returns the value when present and non-null.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set && !o.Null
}
