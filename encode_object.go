package stockfolio

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// object encodes a JSON object whose keys keep the order they were added in.
// The first marshaling error is kept and returned by MarshalJSON.
type object struct {
	buf []byte
	err error
}

// Field adds key with value.
func (o *object) Field(key string, value any) *object {
	if o.err != nil {
		return o
	}
	v, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("encoding %q: %w", key, err)
		return o
	}
	if len(o.buf) > 0 {
		o.buf = append(o.buf, ',')
	}
	k, _ := json.Marshal(key)
	o.buf = append(append(append(o.buf, k...), ':'), v...)
	return o
}

// OmitEmpty adds key unless value is the zero value of its type.
func (o *object) OmitEmpty(key string, value any) *object {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.Field(key, value)
}

func (o *object) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	res := make([]byte, 0, len(o.buf)+2)
	res = append(res, '{')
	res = append(res, o.buf...)
	return append(res, '}'), nil
}
