package jsonvalue

import (
	"errors"
	"fmt"

	"github.com/go-faster/jx"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SyntaxError reports input that is not exactly one well-formed JSON value.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse decodes data into a Value. The input must hold exactly one JSON value,
// optionally surrounded by whitespace.
func Parse(data []byte) (Value, error) {
	if err := jx.DecodeBytes(data).Validate(); err != nil {
		return Value{}, &SyntaxError{Err: err}
	}

	v, err := decode(jx.DecodeBytes(data))
	if err != nil {
		return Value{}, &SyntaxError{Err: err}
	}
	return v, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func decode(d *jx.Decoder) (Value, error) {
	switch d.Next() {
	case jx.Null:
		if err := d.Null(); err != nil {
			return Value{}, err
		}
		return Null(), nil

	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil

	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return Value{}, err
		}
		// Num references the decoder buffer; String copies it.
		return numberLiteral(n.String()), nil

	case jx.String:
		s, err := d.Str()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil

	case jx.Array:
		items := make([]Value, 0)
		err := d.Arr(func(d *jx.Decoder) error {
			item, err := decode(d)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindArray, arr: items}, nil

	case jx.Object:
		om := orderedmap.New[string, Value]()
		err := d.Obj(func(d *jx.Decoder, key string) error {
			member, err := decode(d)
			if err != nil {
				return err
			}
			om.Set(key, member)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, obj: om}, nil

	default:
		return Value{}, errors.New("unexpected token")
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
