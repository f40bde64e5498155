// Package infer derives a JSON Schema from a single example JSON document.
//
// Inference follows a fixed set of heuristics: every observed object key is
// required, array items are described by the first element, arrays mixing
// value kinds get a oneOf with one alternative per element, numeric arrays get
// size and uniqueness constraints, and strings may be tagged with an email or
// date format.
package infer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
	"github.com/usestring/schemainfer/pkg/schema"
)

// Fixed constraints attached to numeric arrays. MaxItems is a cap, not the
// observed length.
const (
	NumericMinItems = 1
	NumericMaxItems = 10
)

// Date prefixes: YYYY-MM-DD, MM/DD/YYYY, DD-MM-YYYY. Matching is anchored at
// the start only.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`),
}

// UnsupportedValueError is returned when the input holds a value outside the
// JSON model.
type UnsupportedValueError struct {
	Path string // dot path to the value, "" for the root
	Kind string
}

func (e *UnsupportedValueError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported type: %s", e.Kind)
	}
	return fmt.Sprintf("unsupported type: %s at %s", e.Kind, e.Path)
}

// Infer returns the schema document for v.
func Infer(v jsonvalue.Value) (*schema.Document, error) {
	root, err := inferNode(v, "", "")
	if err != nil {
		return nil, err
	}
	return schema.NewDocument(root), nil
}

// InferJSON parses data and infers its schema.
func InferJSON(data []byte) (*schema.Document, error) {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, err
	}
	return Infer(v)
}

// InferAny infers the schema of an already-decoded Go value such as the
// output of encoding/json. Go maps are unordered, so object keys are
// visited in sorted order.
func InferAny(v any) (*schema.Document, error) {
	converted, err := jsonvalue.FromAny(v)
	if err != nil {
		var unsupported *jsonvalue.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return nil, &UnsupportedValueError{Path: unsupported.Path, Kind: unsupported.GoType}
		}
		return nil, err
	}
	return Infer(converted)
}

// Node infers the schema of v without the document wrapper. fieldName is the
// key v was found under and only feeds the string format heuristics.
func Node(v jsonvalue.Value, fieldName string) (schema.Node, error) {
	return inferNode(v, fieldName, "")
}

func inferNode(v jsonvalue.Value, fieldName, path string) (schema.Node, error) {
	switch v.Kind() {
	case jsonvalue.KindObject:
		return inferObject(v, path)
	case jsonvalue.KindArray:
		return inferArray(v, path)
	case jsonvalue.KindString:
		return inferString(v.Str(), fieldName), nil
	// Booleans are a distinct kind and never reach the numeric cases.
	case jsonvalue.KindBool:
		return schema.Boolean(), nil
	case jsonvalue.KindInteger:
		return schema.Integer(), nil
	case jsonvalue.KindNumber:
		return schema.Number(), nil
	case jsonvalue.KindNull:
		return schema.NullType(), nil
	default:
		return nil, &UnsupportedValueError{Path: path, Kind: v.Kind().String()}
	}
}

func inferObject(v jsonvalue.Value, path string) (schema.Node, error) {
	obj := schema.NewObject()
	for _, m := range v.Members() {
		child, err := inferNode(m.Value, m.Key, joinPath(path, m.Key))
		if err != nil {
			return nil, err
		}
		obj.Properties.Set(m.Key, child)
		obj.Required = append(obj.Required, m.Key)
	}
	if obj.Required == nil {
		obj.Required = []string{}
	}
	return obj, nil
}

func inferArray(v jsonvalue.Value, path string) (schema.Node, error) {
	items := v.Items()
	if len(items) == 0 {
		return &schema.Array{Items: &schema.Unresolved{}}, nil
	}

	kinds := make(map[jsonvalue.Kind]struct{}, 2)
	for i, item := range items {
		if !item.IsValid() {
			return nil, &UnsupportedValueError{Path: indexPath(path, i), Kind: item.Kind().String()}
		}
		kinds[item.Kind()] = struct{}{}
	}

	if len(kinds) > 1 {
		alts := make([]schema.Type, 0, len(items))
		for _, item := range items {
			t, _ := schema.TypeOf(item.Kind())
			alts = append(alts, t)
		}
		return &schema.Array{Items: &schema.OneOf{Alternatives: alts}}, nil
	}

	// Later elements only feed the numeric check below.
	itemSchema, err := inferNode(items[0], "", indexPath(path, 0))
	if err != nil {
		return nil, err
	}

	arr := &schema.Array{Items: itemSchema}
	if items[0].Kind().IsNumeric() {
		arr.Constraints = &schema.ArrayConstraints{
			MinItems:    NumericMinItems,
			MaxItems:    NumericMaxItems,
			UniqueItems: allDistinct(items),
		}
	}
	return arr, nil
}

// allDistinct reports whether no two numbers in items are numerically equal.
func allDistinct(items []jsonvalue.Value) bool {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := item.Literal()
		if r := item.Rat(); r != nil {
			key = r.RatString()
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

func inferString(s, fieldName string) schema.Node {
	if strings.EqualFold(fieldName, "email") || strings.Contains(s, "@") {
		return &schema.String{Format: schema.FormatEmail}
	}
	if strings.EqualFold(fieldName, "date") || isDate(s) {
		return &schema.String{Format: schema.FormatDate}
	}
	return &schema.String{}
}

func isDate(s string) bool {
	for _, re := range datePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
