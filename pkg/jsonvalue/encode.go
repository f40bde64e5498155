package jsonvalue

import (
	"errors"

	"github.com/go-faster/jx"
)

// ErrInvalidValue is returned when encoding a zero Value.
var ErrInvalidValue = errors.New("jsonvalue: cannot encode invalid value")

// MarshalJSON implements json.Marshaler. Object members are written in
// insertion order and numbers with their original literal.
func (v Value) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	if err := encode(&e, v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Compact returns the JSON encoding of v, or "null" for an invalid value.
func (v Value) Compact() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return "null"
	}
	return string(data)
}

func encode(e *jx.Encoder, v Value) error {
	switch v.kind {
	case KindNull:
		e.Null()
	case KindBool:
		e.Bool(v.b)
	case KindInteger, KindNumber:
		e.Num(jx.Num(v.s))
	case KindString:
		e.Str(v.s)
	case KindArray:
		var err error
		e.Arr(func(e *jx.Encoder) {
			for _, item := range v.arr {
				if err == nil {
					err = encode(e, item)
				}
			}
		})
		return err
	case KindObject:
		var err error
		e.Obj(func(e *jx.Encoder) {
			for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
				if err != nil {
					return
				}
				member := pair.Value
				e.Field(pair.Key, func(e *jx.Encoder) {
					err = encode(e, member)
				})
			}
		})
		return err
	default:
		return ErrInvalidValue
	}
	return nil
}

// String implements fmt.Stringer with the compact JSON encoding.
func (v Value) String() string {
	return v.Compact()
}
