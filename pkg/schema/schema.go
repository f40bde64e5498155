// Package schema defines the JSON Schema subset produced by inference.
//
// A Node is one of a closed set of variants, each carrying only the keywords
// legal for its type: *Object, *Array, *String, *Scalar, *OneOf and
// *Unresolved. Every node renders to its JSON form through Value, which is
// also what the schema differ consumes.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// DraftURI is the $schema identifier attached to document roots.
const DraftURI = "http://json-schema.org/draft-07/schema#"

// Type is a JSON Schema primitive type name.
type Type string

// Schema types.
const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
)

// TypeOf maps a JSON value kind to its schema type. The second result is
// false for jsonvalue.KindInvalid.
func TypeOf(k jsonvalue.Kind) (Type, bool) {
	switch k {
	case jsonvalue.KindObject:
		return TypeObject, true
	case jsonvalue.KindArray:
		return TypeArray, true
	case jsonvalue.KindString:
		return TypeString, true
	case jsonvalue.KindInteger:
		return TypeInteger, true
	case jsonvalue.KindNumber:
		return TypeNumber, true
	case jsonvalue.KindBool:
		return TypeBoolean, true
	case jsonvalue.KindNull:
		return TypeNull, true
	default:
		return "", false
	}
}

// Format is a semantic refinement of the string type.
type Format string

// String formats recognized by inference.
const (
	FormatNone  Format = ""
	FormatEmail Format = "email"
	FormatDate  Format = "date"
)

// Node is a schema (sub)document.
type Node interface {
	// Type returns the node's type, or "" for nodes without a type keyword.
	Type() Type
	// Value returns the JSON form of the node.
	Value() jsonvalue.Value
	node()
}

// Object describes a JSON object.
type Object struct {
	Properties *orderedmap.OrderedMap[string, Node]
	Required   []string
}

// NewObject returns an object node with no properties.
func NewObject() *Object {
	return &Object{Properties: orderedmap.New[string, Node]()}
}

func (*Object) Type() Type { return TypeObject }
func (*Object) node()      {}

// Property returns the child schema for name.
func (o *Object) Property(name string) (Node, bool) {
	if o.Properties == nil {
		return nil, false
	}
	return o.Properties.Get(name)
}

func (o *Object) Value() jsonvalue.Value {
	var props []jsonvalue.Member
	if o.Properties != nil {
		props = make([]jsonvalue.Member, 0, o.Properties.Len())
		for pair := o.Properties.Oldest(); pair != nil; pair = pair.Next() {
			props = append(props, jsonvalue.Member{Key: pair.Key, Value: pair.Value.Value()})
		}
	}

	required := make([]jsonvalue.Value, 0, len(o.Required))
	for _, name := range o.Required {
		required = append(required, jsonvalue.String(name))
	}

	return jsonvalue.Object(
		jsonvalue.Member{Key: "type", Value: jsonvalue.String(string(TypeObject))},
		jsonvalue.Member{Key: "properties", Value: jsonvalue.Object(props...)},
		jsonvalue.Member{Key: "required", Value: jsonvalue.Array(required...)},
	)
}

// ArrayConstraints are the size and uniqueness keywords attached to
// numeric-homogeneous arrays. They are always emitted together.
type ArrayConstraints struct {
	MinItems    int
	MaxItems    int
	UniqueItems bool
}

// Array describes a JSON array.
type Array struct {
	Items       Node
	Constraints *ArrayConstraints
}

func (*Array) Type() Type { return TypeArray }
func (*Array) node()      {}

func (a *Array) Value() jsonvalue.Value {
	items := Node(&Unresolved{})
	if a.Items != nil {
		items = a.Items
	}

	members := []jsonvalue.Member{
		{Key: "type", Value: jsonvalue.String(string(TypeArray))},
		{Key: "items", Value: items.Value()},
	}
	if c := a.Constraints; c != nil {
		members = append(members,
			jsonvalue.Member{Key: "minItems", Value: jsonvalue.Int(int64(c.MinItems))},
			jsonvalue.Member{Key: "maxItems", Value: jsonvalue.Int(int64(c.MaxItems))},
			jsonvalue.Member{Key: "uniqueItems", Value: jsonvalue.Bool(c.UniqueItems)},
		)
	}
	return jsonvalue.Object(members...)
}

// String describes a JSON string, optionally refined by a format.
type String struct {
	Format Format
}

func (*String) Type() Type { return TypeString }
func (*String) node()      {}

func (s *String) Value() jsonvalue.Value {
	members := []jsonvalue.Member{
		{Key: "type", Value: jsonvalue.String(string(TypeString))},
	}
	if s.Format != FormatNone {
		members = append(members, jsonvalue.Member{Key: "format", Value: jsonvalue.String(string(s.Format))})
	}
	return jsonvalue.Object(members...)
}

// Scalar describes an integer, number, boolean or null.
type Scalar struct {
	typ Type
}

// Integer returns a {type: integer} node.
func Integer() *Scalar { return &Scalar{typ: TypeInteger} }

// Number returns a {type: number} node.
func Number() *Scalar { return &Scalar{typ: TypeNumber} }

// Boolean returns a {type: boolean} node.
func Boolean() *Scalar { return &Scalar{typ: TypeBoolean} }

// NullType returns a {type: null} node.
func NullType() *Scalar { return &Scalar{typ: TypeNull} }

func (s *Scalar) Type() Type { return s.typ }
func (*Scalar) node()        {}

func (s *Scalar) Value() jsonvalue.Value {
	return typeOnly(s.typ)
}

// OneOf is an items schema for arrays holding more than one kind of value.
// Alternatives hold one entry per array element, duplicates included.
type OneOf struct {
	Alternatives []Type
}

func (*OneOf) Type() Type { return "" }
func (*OneOf) node()      {}

func (o *OneOf) Value() jsonvalue.Value {
	alts := make([]jsonvalue.Value, 0, len(o.Alternatives))
	for _, t := range o.Alternatives {
		alts = append(alts, typeOnly(t))
	}
	return jsonvalue.Object(jsonvalue.Member{Key: "oneOf", Value: jsonvalue.Array(alts...)})
}

// Unresolved is the empty {} items schema of an empty array.
type Unresolved struct{}

func (*Unresolved) Type() Type { return "" }
func (*Unresolved) node()      {}

func (*Unresolved) Value() jsonvalue.Value {
	return jsonvalue.Object()
}

func typeOnly(t Type) jsonvalue.Value {
	return jsonvalue.Object(jsonvalue.Member{Key: "type", Value: jsonvalue.String(string(t))})
}

// Document is a root schema together with its $schema identifier.
type Document struct {
	Root   Node
	Schema string
}

// NewDocument wraps root with the draft-07 identifier.
func NewDocument(root Node) *Document {
	return &Document{Root: root, Schema: DraftURI}
}

// Value returns the JSON form of the document: the root's members followed by
// $schema.
func (d *Document) Value() jsonvalue.Value {
	var members []jsonvalue.Member
	if d.Root != nil {
		members = d.Root.Value().Members()
	}
	if d.Schema != "" {
		members = append(members, jsonvalue.Member{Key: "$schema", Value: jsonvalue.String(d.Schema)})
	}
	return jsonvalue.Object(members...)
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Value().MarshalJSON()
}
