// Package jsonvalue models parsed JSON documents as an immutable tagged union.
// Objects keep member insertion order and numbers keep their source literal, so
// integer and floating-point values stay distinguishable after parsing.
package jsonvalue

import (
	"math/big"
	"slices"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which variant a Value holds.
type Kind uint8

// Value kinds. KindInvalid is the zero Value and never produced by Parse.
const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// IsNumeric reports whether k is KindInteger or KindNumber.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindNumber
}

// Value is one JSON value. The zero Value has KindInvalid.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or the number literal
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

// Member is a single object member used to build objects.
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a JSON integer.
func Int(i int64) Value {
	return Value{kind: KindInteger, s: strconv.FormatInt(i, 10)}
}

// Float returns a JSON floating-point number. The value keeps KindNumber even
// when f has no fractional part.
func Float(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array holding items in order.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: slices.Clone(items)}
}

// Object returns a JSON object with members in the given order. A repeated key
// keeps the position of its first occurrence and the value of its last.
func Object(members ...Member) Value {
	om := orderedmap.New[string, Value](len(members))
	for _, m := range members {
		om.Set(m.Key, m.Value)
	}
	return Value{kind: KindObject, obj: om}
}

// numberLiteral builds a number from a literal already known to be valid JSON.
func numberLiteral(lit string) Value {
	if isIntegerLiteral(lit) {
		return Value{kind: KindInteger, s: lit}
	}
	return Value{kind: KindNumber, s: lit}
}

// isIntegerLiteral reports whether a JSON number literal has neither a
// fraction nor an exponent part.
func isIntegerLiteral(lit string) bool {
	for i := 0; i < len(lit); i++ {
		switch lit[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return lit != ""
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a JSON value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.b }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Literal returns the source literal of a number; empty for other kinds.
func (v Value) Literal() string {
	if !v.kind.IsNumeric() {
		return ""
	}
	return v.s
}

// Rat returns the exact value of a number, or nil for other kinds.
func (v Value) Rat() *big.Rat {
	if !v.kind.IsNumeric() {
		return nil
	}
	r, ok := new(big.Rat).SetString(v.s)
	if !ok {
		return nil
	}
	return r
}

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Items returns a copy of the array elements; nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.arr)
}

// Index returns the i-th array element.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Get returns the member named key of an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Has reports whether v is an object with a member named key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns object member names in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Members returns object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	members := make([]Member, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		members = append(members, Member{Key: pair.Key, Value: pair.Value})
	}
	return members
}

// Equal reports whether a and b are the same JSON value. Numbers compare by
// numeric value regardless of literal form, so 1 and 1.0 are equal. Object
// member order is ignored.
func Equal(a, b Value) bool {
	if a.kind.IsNumeric() && b.kind.IsNumeric() {
		ra, rb := a.Rat(), b.Rat()
		if ra == nil || rb == nil {
			return a.s == b.s
		}
		return ra.Cmp(rb) == 0
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInvalid, KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		return slices.EqualFunc(a.arr, b.arr, Equal)
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for pair := a.obj.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := b.obj.Get(pair.Key)
			if !ok || !Equal(pair.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
