package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is an explicit Present(value) | Absent value. Absent is distinct from
// the zero value of T: an empty string that is present stays present.
type Optional[T any] struct {
	value   T
	present bool
}

// Present wraps a provided value.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Absent returns the "no value provided" variant.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr maps nil to Absent and anything else to Present.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Absent[T]()
	}
	return Present(*p)
}

// IsPresent reports whether a value was provided.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// OrElse returns the value when present, fallback otherwise.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}

// Ptr returns nil for Absent, used at the SQL boundary where Absent is NULL.
func (o Optional[T]) Ptr() *T {
	if !o.present {
		return nil
	}
	v := o.value
	return &v
}

// MarshalJSON encodes Absent as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as Absent. A missing key leaves the zero value, which is Absent too.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Absent[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Present(v)
	return nil
}
