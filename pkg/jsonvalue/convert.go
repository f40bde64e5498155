package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
)

// UnsupportedTypeError is returned by FromAny for Go values that have no JSON
// counterpart.
type UnsupportedTypeError struct {
	Path   string
	GoType string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported value of type %s", e.GoType)
	}
	return fmt.Sprintf("unsupported value of type %s at %s", e.GoType, e.Path)
}

// FromAny converts a decoded Go value (the shapes produced by encoding/json,
// gojq or yaml decoders) into a Value. Map keys are sorted because Go maps
// carry no order. Go integer types become KindInteger and floating types
// KindNumber; json.Number is classified by its literal.
func FromAny(v any) (Value, error) {
	return fromAny(v, "")
}

func fromAny(v any, path string) (Value, error) {
	if v == nil {
		return Null(), nil
	}

	switch val := v.(type) {
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		if _, err := strconv.ParseFloat(string(val), 64); err != nil {
			return Value{}, &UnsupportedTypeError{Path: path, GoType: "json.Number(" + string(val) + ")"}
		}
		return numberLiteral(string(val)), nil
	case float64:
		return fromFloat(val, path)
	case float32:
		return fromFloat(float64(val), path)
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Value{kind: KindInteger, s: strconv.FormatUint(uint64(val), 10)}, nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return Value{kind: KindInteger, s: strconv.FormatUint(val, 10)}, nil
	case *big.Int:
		if val == nil {
			return Null(), nil
		}
		return Value{kind: KindInteger, s: val.String()}, nil
	case []any:
		items := make([]Value, 0, len(val))
		for i, item := range val {
			converted, err := fromAny(item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return Value{}, err
			}
			items = append(items, converted)
		}
		return Value{kind: KindArray, arr: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			converted, err := fromAny(val[k], joinPath(path, k))
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k, Value: converted})
		}
		return Object(members...), nil
	default:
		return Value{}, &UnsupportedTypeError{Path: path, GoType: fmt.Sprintf("%T", v)}
	}
}

func fromFloat(f float64, path string) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, &UnsupportedTypeError{Path: path, GoType: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Float(f), nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Interface converts v into the generic Go shape used by encoding/json with
// UseNumber: map[string]any, []any, json.Number, string, bool and nil.
// Object order is lost. An invalid Value converts to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInteger, KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = pair.Value.Interface()
		}
		return out
	default:
		return nil
	}
}
