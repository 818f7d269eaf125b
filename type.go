package typeval

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"regexp/syntax"
)

// Kind tags the closed set of type nodes. Every algorithm in this package
// dispatches on Kind with an exhaustive switch; an unknown kind panics.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindLiteral
	KindEnum
	KindObject
	KindEntity
	KindArray
	KindOptional
	KindNullable
	KindReference
	KindUnion
	KindCustom
	KindLazy
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindLiteral:
		return "literal"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindEntity:
		return "entity"
	case KindArray:
		return "array"
	case KindOptional:
		return "optional"
	case KindNullable:
		return "nullable"
	case KindReference:
		return "reference"
	case KindUnion:
		return "union"
	case KindCustom:
		return "custom"
	case KindLazy:
		return "lazy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is a first-class runtime type value. The set of implementations is
// closed; construct nodes only through the package constructors, which
// validate their options and panic on malformed type graphs.
type Type interface {
	Kind() Kind
	isType()
}

// Absent is the in-memory value of a missing optional field. It is distinct
// from nil, which represents an explicit null.
var Absent = absent{}

type absent struct{}

func (absent) String() string { return "undefined" }

// Mutability is carried by object, entity and array types as metadata for
// consumers; it has no effect on decoding or validation.
type Mutability int

const (
	Immutable Mutability = iota
	Mutable
)

// Ptr returns a pointer to v, a convenience for optional constraint fields
// in options structs.
func Ptr[T any](v T) *T { return &v }

// ---- String ----

// StringOptions holds the constraints of a string type. Nil bounds are
// unconstrained.
type StringOptions struct {
	Name        string
	Description string
	MinLength   *int
	MaxLength   *int
	Pattern     *regexp.Regexp
}

// StringType accepts UTF-8 strings.
type StringType struct {
	opts StringOptions
	// parsed pattern used by the arbitrary generator
	patternAST *syntax.Regexp
}

// String constructs a string type, validating the length bounds.
func String(opts ...StringOptions) *StringType {
	o := firstOrZero(opts)
	if o.MinLength != nil && *o.MinLength < 0 {
		panic(fmt.Sprintf("typeval: string minLength must be non-negative, got %d", *o.MinLength))
	}
	if o.MaxLength != nil && *o.MaxLength < 0 {
		panic(fmt.Sprintf("typeval: string maxLength must be non-negative, got %d", *o.MaxLength))
	}
	if o.MinLength != nil && o.MaxLength != nil && *o.MinLength > *o.MaxLength {
		panic(fmt.Sprintf("typeval: string minLength %d exceeds maxLength %d", *o.MinLength, *o.MaxLength))
	}
	t := &StringType{opts: o}
	if o.Pattern != nil {
		ast, err := syntax.Parse(o.Pattern.String(), syntax.Perl)
		if err != nil {
			panic(fmt.Sprintf("typeval: string pattern does not parse: %v", err))
		}
		t.patternAST = ast.Simplify()
	}
	return t
}

func (*StringType) Kind() Kind { return KindString }
func (*StringType) isType()    {}

// Options returns the construction options.
func (t *StringType) Options() StringOptions { return t.opts }

// ---- Number ----

// NumberOptions holds the constraints of a number type. Nil bounds are
// unconstrained; exclusive bounds take precedence over their inclusive
// counterparts when both are set.
type NumberOptions struct {
	Name             string
	Description      string
	Minimum          *float64
	ExclusiveMinimum *float64
	Maximum          *float64
	ExclusiveMaximum *float64
}

// NumberType accepts numbers, optionally restricted to integers.
type NumberType struct {
	opts    NumberOptions
	integer bool
}

// Number constructs a floating-point number type.
func Number(opts ...NumberOptions) *NumberType { return newNumber(firstOrZero(opts), false) }

// Integer constructs a number type whose values must be integral.
func Integer(opts ...NumberOptions) *NumberType { return newNumber(firstOrZero(opts), true) }

func newNumber(o NumberOptions, integer bool) *NumberType {
	lo, hasLo := lowerBound(o)
	hi, hasHi := upperBound(o)
	if hasLo && hasHi && lo > hi {
		panic(fmt.Sprintf("typeval: number lower bound %v exceeds upper bound %v", lo, hi))
	}
	return &NumberType{opts: o, integer: integer}
}

func lowerBound(o NumberOptions) (float64, bool) {
	if o.ExclusiveMinimum != nil {
		return *o.ExclusiveMinimum, true
	}
	if o.Minimum != nil {
		return *o.Minimum, true
	}
	return 0, false
}

func upperBound(o NumberOptions) (float64, bool) {
	if o.ExclusiveMaximum != nil {
		return *o.ExclusiveMaximum, true
	}
	if o.Maximum != nil {
		return *o.Maximum, true
	}
	return 0, false
}

func (*NumberType) Kind() Kind { return KindNumber }
func (*NumberType) isType()    {}

// Options returns the construction options.
func (t *NumberType) Options() NumberOptions { return t.opts }

// Integer reports whether values must be integral.
func (t *NumberType) Integer() bool { return t.integer }

// ---- Boolean ----

// BooleanOptions holds the metadata of a boolean type.
type BooleanOptions struct {
	Name        string
	Description string
}

// BooleanType accepts true and false.
type BooleanType struct {
	opts BooleanOptions
}

// Boolean constructs a boolean type.
func Boolean(opts ...BooleanOptions) *BooleanType {
	return &BooleanType{opts: firstOrZero(opts)}
}

func (*BooleanType) Kind() Kind { return KindBoolean }
func (*BooleanType) isType()    {}

// Options returns the construction options.
func (t *BooleanType) Options() BooleanOptions { return t.opts }

// ---- Literal ----

// LiteralOptions holds the metadata of a literal type.
type LiteralOptions struct {
	Name        string
	Description string
}

// LiteralType accepts exactly one scalar value (string, number, boolean or
// null).
type LiteralType struct {
	value any
	opts  LiteralOptions
}

// Literal constructs a literal type. The value must be a string, bool,
// numeric value or nil; numeric values are normalized to float64.
func Literal(value any, opts ...LiteralOptions) *LiteralType {
	switch value.(type) {
	case nil, string, bool:
	default:
		n, ok := numericValue(value)
		if !ok {
			panic(fmt.Sprintf("typeval: literal value must be a scalar, got %T", value))
		}
		value = n
	}
	return &LiteralType{value: value, opts: firstOrZero(opts)}
}

func (*LiteralType) Kind() Kind { return KindLiteral }
func (*LiteralType) isType()    {}

// Value returns the literal value.
func (t *LiteralType) Value() any { return t.value }

// Options returns the construction options.
func (t *LiteralType) Options() LiteralOptions { return t.opts }

// ---- Enum ----

// EnumOptions holds the metadata of an enum type.
type EnumOptions struct {
	Name        string
	Description string
}

// EnumType accepts a string equal to one of its variants.
type EnumType struct {
	variants []string
	opts     EnumOptions
}

// Enum constructs an enum type. It panics on an empty or duplicated
// variant list.
func Enum(variants []string, opts ...EnumOptions) *EnumType {
	if len(variants) == 0 {
		panic("typeval: enum needs at least one variant")
	}
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if _, dup := seen[v]; dup {
			panic(fmt.Sprintf("typeval: duplicate enum variant %q", v))
		}
		seen[v] = struct{}{}
	}
	vs := make([]string, len(variants))
	copy(vs, variants)
	return &EnumType{variants: vs, opts: firstOrZero(opts)}
}

func (*EnumType) Kind() Kind { return KindEnum }
func (*EnumType) isType()    {}

// Variants returns a copy of the variant list in declaration order.
func (t *EnumType) Variants() []string {
	out := make([]string, len(t.variants))
	copy(out, t.variants)
	return out
}

// Options returns the construction options.
func (t *EnumType) Options() EnumOptions { return t.opts }

// ---- Object / Entity ----

// Field is one declared field of an object or entity type.
type Field struct {
	Name string
	Type Type
}

// ObjectOptions holds the metadata of an object or entity type.
type ObjectOptions struct {
	Description string
	Mutability  Mutability
}

type fieldsNode struct {
	name   string
	fields []Field
	byName map[string]Type
	opts   ObjectOptions
}

func newFieldsNode(name string, fields []Field, opts []ObjectOptions) fieldsNode {
	byName := make(map[string]Type, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			panic("typeval: field name must not be empty")
		}
		if f.Type == nil {
			panic(fmt.Sprintf("typeval: field %q has a nil type", f.Name))
		}
		if _, dup := byName[f.Name]; dup {
			panic(fmt.Sprintf("typeval: duplicate field %q", f.Name))
		}
		byName[f.Name] = f.Type
	}
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return fieldsNode{name: name, fields: fs, byName: byName, opts: firstOrZero(opts)}
}

// ObjectType accepts records with a declared field set.
type ObjectType struct {
	fieldsNode
}

// Object constructs an object type with the given declared fields in
// order. It panics on empty or duplicate field names.
func Object(name string, fields []Field, opts ...ObjectOptions) *ObjectType {
	return &ObjectType{fieldsNode: newFieldsNode(name, fields, opts)}
}

func (*ObjectType) Kind() Kind { return KindObject }
func (*ObjectType) isType()    {}

// EntityType is semantically identical to ObjectType but denotes an
// identity-bearing record; the retrieve deriver operates on entities.
type EntityType struct {
	fieldsNode
}

// Entity constructs an entity type with the given declared fields in
// order. It panics on empty or duplicate field names.
func Entity(name string, fields []Field, opts ...ObjectOptions) *EntityType {
	return &EntityType{fieldsNode: newFieldsNode(name, fields, opts)}
}

func (*EntityType) Kind() Kind { return KindEntity }
func (*EntityType) isType()    {}

// Name returns the type name, possibly empty.
func (n *fieldsNode) Name() string { return n.name }

// Fields returns a copy of the declared fields in declaration order.
func (n *fieldsNode) Fields() []Field {
	out := make([]Field, len(n.fields))
	copy(out, n.fields)
	return out
}

// FieldType returns the declared type of the named field.
func (n *fieldsNode) FieldType(name string) (Type, bool) {
	t, ok := n.byName[name]
	return t, ok
}

// Options returns the construction options.
func (n *fieldsNode) Options() ObjectOptions { return n.opts }

// ---- Array ----

// ArrayOptions holds the constraints of an array type. Nil bounds are
// unconstrained.
type ArrayOptions struct {
	Name        string
	Description string
	MinItems    *int
	MaxItems    *int
	Mutability  Mutability
}

// ArrayType accepts ordered sequences of a single item type.
type ArrayType struct {
	item Type
	opts ArrayOptions
}

// Array constructs an array type, validating the item-count bounds.
func Array(item Type, opts ...ArrayOptions) *ArrayType {
	if item == nil {
		panic("typeval: array item type must not be nil")
	}
	o := firstOrZero(opts)
	if o.MinItems != nil && *o.MinItems < 0 {
		panic(fmt.Sprintf("typeval: array minItems must be non-negative, got %d", *o.MinItems))
	}
	if o.MaxItems != nil && *o.MaxItems < 0 {
		panic(fmt.Sprintf("typeval: array maxItems must be non-negative, got %d", *o.MaxItems))
	}
	if o.MinItems != nil && o.MaxItems != nil && *o.MinItems > *o.MaxItems {
		panic(fmt.Sprintf("typeval: array minItems %d exceeds maxItems %d", *o.MinItems, *o.MaxItems))
	}
	return &ArrayType{item: item, opts: o}
}

func (*ArrayType) Kind() Kind { return KindArray }
func (*ArrayType) isType()    {}

// Item returns the item type.
func (t *ArrayType) Item() Type { return t.item }

// Options returns the construction options.
func (t *ArrayType) Options() ArrayOptions { return t.opts }

// ---- Wrappers ----

// OptionalType accepts the wrapped type or an absent value.
type OptionalType struct {
	inner Type
}

// Optional wraps a type so that absence decodes to Absent.
func Optional(inner Type) *OptionalType {
	if inner == nil {
		panic("typeval: optional inner type must not be nil")
	}
	return &OptionalType{inner: inner}
}

func (*OptionalType) Kind() Kind { return KindOptional }
func (*OptionalType) isType()    {}

// Inner returns the wrapped type.
func (t *OptionalType) Inner() Type { return t.inner }

// NullableType accepts the wrapped type or null.
type NullableType struct {
	inner Type
}

// Nullable wraps a type so that null decodes to nil.
func Nullable(inner Type) *NullableType {
	if inner == nil {
		panic("typeval: nullable inner type must not be nil")
	}
	return &NullableType{inner: inner}
}

func (*NullableType) Kind() Kind { return KindNullable }
func (*NullableType) isType()    {}

// Inner returns the wrapped type.
func (t *NullableType) Inner() Type { return t.inner }

// ReferenceType marks a field as a foreign-key-like pointer. Decoding,
// validation and encoding pass through to the wrapped type.
type ReferenceType struct {
	inner Type
}

// Reference wraps a type as a foreign-key-like pointer.
func Reference(inner Type) *ReferenceType {
	if inner == nil {
		panic("typeval: reference inner type must not be nil")
	}
	return &ReferenceType{inner: inner}
}

func (*ReferenceType) Kind() Kind { return KindReference }
func (*ReferenceType) isType()    {}

// Inner returns the wrapped type.
func (t *ReferenceType) Inner() Type { return t.inner }

// ---- Union ----

// UnionVariant is one named branch of a union type.
type UnionVariant struct {
	Name string
	Type Type
}

// UnionOptions holds the metadata of a union type.
type UnionOptions struct {
	Description string
}

// UnionType accepts exactly one of its named variants. On the wire a union
// value is a single-key object keyed by the variant name; under casting a
// bare value is also matched by trial.
type UnionType struct {
	name     string
	variants []UnionVariant
	byName   map[string]Type
	opts     UnionOptions
}

// Union constructs a union type. It panics on an empty or duplicated
// variant list.
func Union(name string, variants []UnionVariant, opts ...UnionOptions) *UnionType {
	if len(variants) == 0 {
		panic("typeval: union needs at least one variant")
	}
	byName := make(map[string]Type, len(variants))
	for _, v := range variants {
		if v.Name == "" {
			panic("typeval: union variant name must not be empty")
		}
		if v.Type == nil {
			panic(fmt.Sprintf("typeval: union variant %q has a nil type", v.Name))
		}
		if _, dup := byName[v.Name]; dup {
			panic(fmt.Sprintf("typeval: duplicate union variant %q", v.Name))
		}
		byName[v.Name] = v.Type
	}
	vs := make([]UnionVariant, len(variants))
	copy(vs, variants)
	return &UnionType{name: name, variants: vs, byName: byName, opts: firstOrZero(opts)}
}

func (*UnionType) Kind() Kind { return KindUnion }
func (*UnionType) isType()    {}

// Name returns the type name, possibly empty.
func (t *UnionType) Name() string { return t.name }

// Variants returns a copy of the variant list in declaration order.
func (t *UnionType) Variants() []UnionVariant {
	out := make([]UnionVariant, len(t.variants))
	copy(out, t.variants)
	return out
}

// VariantType returns the declared type of the named variant.
func (t *UnionType) VariantType(name string) (Type, bool) {
	vt, ok := t.byName[name]
	return vt, ok
}

// Options returns the construction options.
func (t *UnionType) Options() UnionOptions { return t.opts }

// ---- Custom ----

// CustomDef supplies the callbacks of a custom type. Decode and Encode are
// required; Validate defaults to always-valid and Generate is required only
// when the type is used with Arbitrary.
type CustomDef struct {
	Decode   func(ctx context.Context, raw any, opts DecodingOptions) (any, DecodingErrors)
	Validate func(ctx context.Context, v any, opts ValidationOptions) ValidationErrors
	Encode   func(v any) any
	Generate func(rng *rand.Rand, depth int) any

	// Options carries kind-specific construction options, opaque to the core.
	Options any
}

// CustomType delegates every behavior to caller-supplied callbacks.
type CustomType struct {
	typeName string
	def      CustomDef
}

// Custom constructs a custom type. It panics when the required callbacks
// are missing.
func Custom(name string, def CustomDef) *CustomType {
	if name == "" {
		panic("typeval: custom type needs a name")
	}
	if def.Decode == nil {
		panic(fmt.Sprintf("typeval: custom type %q needs a Decode callback", name))
	}
	if def.Encode == nil {
		panic(fmt.Sprintf("typeval: custom type %q needs an Encode callback", name))
	}
	return &CustomType{typeName: name, def: def}
}

func (*CustomType) Kind() Kind { return KindCustom }
func (*CustomType) isType()    {}

// TypeName returns the custom type's name.
func (t *CustomType) TypeName() string { return t.typeName }

// Def returns the callback definition.
func (t *CustomType) Def() CustomDef { return t.def }

// ---- helpers ----

func firstOrZero[T any](opts []T) T {
	var zero T
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return zero
}

// IsScalar reports whether the concrete type decodes to a scalar value
// (string, number, boolean, literal or enum). Wrappers are unwrapped.
func IsScalar(t Type) bool {
	switch u := Unwrap(t).(type) {
	case *StringType, *NumberType, *BooleanType, *LiteralType, *EnumType:
		return true
	default:
		_ = u
		return false
	}
}

// IsEntity reports whether the concrete type is an entity, unwrapping
// optional, nullable and reference wrappers.
func IsEntity(t Type) bool {
	_, ok := Unwrap(t).(*EntityType)
	return ok
}

// Unwrap resolves laziness and strips Optional, Nullable and Reference
// wrappers until a non-wrapper concrete node remains.
func Unwrap(t Type) Type {
	for {
		switch u := concrete(t).(type) {
		case *OptionalType:
			t = u.inner
		case *NullableType:
			t = u.inner
		case *ReferenceType:
			t = u.inner
		default:
			return u
		}
	}
}
