// Package retrieve derives selection, filter, ordering and pagination
// capability shapes from entity types, and merges two retrieve values
// deterministically. A derived shape is itself a typeval.Type, so adapters
// decode caller-supplied retrieve values against it with the core decoder
// (using TryCasting, so bare boolean-or-object relation selections resolve
// by trial).
package retrieve

import (
	"fmt"

	"github.com/typeval/typeval"
)

// MaxTake bounds the take capability of every derived retrieve type.
const MaxTake = 100

// Capabilities names the retrieve capabilities to derive.
type Capabilities struct {
	Select  bool
	Where   bool
	OrderBy bool
	Take    bool
	Skip    bool
}

// AllCapabilities requests every capability.
func AllCapabilities() Capabilities {
	return Capabilities{Select: true, Where: true, OrderBy: true, Take: true, Skip: true}
}

// DeriveType derives the retrieve shape of an entity type for the
// requested capabilities. It returns an error, not a panic, when invoked
// on a non-entity type or when a capability cannot be derived for the
// entity's shape.
func DeriveType(entity typeval.Type, caps Capabilities) (typeval.Type, error) {
	e, ok := typeval.Concretise(entity).(*typeval.EntityType)
	if !ok {
		return nil, fmt.Errorf("retrieve: %s is not an entity type", typeval.Describe(entity))
	}
	if caps.OrderBy {
		if err := checkOrderable(e, map[typeval.Type]struct{}{}); err != nil {
			return nil, err
		}
	}
	if caps.Where {
		if err := checkFilterable(e, map[typeval.Type]struct{}{}); err != nil {
			return nil, err
		}
	}
	d := newDeriver(caps)
	return typeval.Concretise(d.retrieveType(e)), nil
}

// fieldClass partitions entity fields by the capability entries they get.
type fieldClass int

const (
	classScalar fieldClass = iota
	classScalarArray
	classEmbedded // non-entity object
	classToOne    // entity
	classToMany   // array of entities
	classOther    // unions, customs, unsupported nestings
)

type fieldInfo struct {
	class  fieldClass
	scalar typeval.Type        // unwrapped scalar type, classScalar only
	entity *typeval.EntityType // relation target
	object *typeval.ObjectType // embedded target
}

func classify(t typeval.Type) fieldInfo {
	switch u := typeval.Unwrap(t).(type) {
	case *typeval.StringType, *typeval.NumberType, *typeval.BooleanType,
		*typeval.LiteralType, *typeval.EnumType:
		return fieldInfo{class: classScalar, scalar: u}
	case *typeval.EntityType:
		return fieldInfo{class: classToOne, entity: u}
	case *typeval.ObjectType:
		return fieldInfo{class: classEmbedded, object: u}
	case *typeval.ArrayType:
		switch item := typeval.Unwrap(u.Item()).(type) {
		case *typeval.EntityType:
			return fieldInfo{class: classToMany, entity: item}
		case *typeval.StringType, *typeval.NumberType, *typeval.BooleanType,
			*typeval.LiteralType, *typeval.EnumType:
			return fieldInfo{class: classScalarArray}
		default:
			return fieldInfo{class: classOther}
		}
	default:
		return fieldInfo{class: classOther}
	}
}

// checkOrderable rejects entity graphs whose ordering shape cannot be
// derived, currently arrays nested directly inside arrays.
func checkOrderable(t typeval.Type, visited map[typeval.Type]struct{}) error {
	u := typeval.Unwrap(t)
	if _, seen := visited[u]; seen {
		return nil
	}
	visited[u] = struct{}{}
	switch n := u.(type) {
	case *typeval.EntityType:
		for _, f := range n.Fields() {
			if err := checkOrderable(f.Type, visited); err != nil {
				return fmt.Errorf("retrieve: field %q of %s: %w", f.Name, typeval.Describe(n), err)
			}
		}
	case *typeval.ObjectType:
		for _, f := range n.Fields() {
			if err := checkOrderable(f.Type, visited); err != nil {
				return fmt.Errorf("retrieve: field %q of %s: %w", f.Name, typeval.Describe(n), err)
			}
		}
	case *typeval.ArrayType:
		if _, nested := typeval.Unwrap(n.Item()).(*typeval.ArrayType); nested {
			return fmt.Errorf("retrieve: orderBy cannot be derived for an array of arrays")
		}
		return checkOrderable(n.Item(), visited)
	}
	return nil
}

// checkFilterable rejects entity graphs whose where shape cannot be
// derived: a filterable field named like one of the AND/OR/NOT combinators
// would collide with them in the derived object.
func checkFilterable(t typeval.Type, visited map[typeval.Type]struct{}) error {
	u := typeval.Unwrap(t)
	if _, seen := visited[u]; seen {
		return nil
	}
	visited[u] = struct{}{}
	switch n := u.(type) {
	case *typeval.EntityType:
		for _, f := range n.Fields() {
			if isWhereCombinator(f.Name) {
				switch classify(f.Type).class {
				case classScalar, classToOne, classToMany:
					return fmt.Errorf("retrieve: field %q of %s collides with a where combinator", f.Name, typeval.Describe(n))
				}
			}
			if err := checkFilterable(f.Type, visited); err != nil {
				return err
			}
		}
	case *typeval.ObjectType:
		for _, f := range n.Fields() {
			if err := checkFilterable(f.Type, visited); err != nil {
				return err
			}
		}
	case *typeval.ArrayType:
		return checkFilterable(n.Item(), visited)
	}
	return nil
}

func isWhereCombinator(name string) bool {
	switch name {
	case "AND", "OR", "NOT":
		return true
	}
	return false
}

// deriver builds the recursive retrieve shapes. Each shape is memoized by
// entity node identity behind a Lazy placeholder registered before the
// shape is built, which makes derivation terminate on cyclic entity
// graphs.
type deriver struct {
	caps      Capabilities
	retrieves map[typeval.Type]typeval.Type
	selects   map[typeval.Type]typeval.Type
	wheres    map[typeval.Type]typeval.Type
	orderBys  map[typeval.Type]typeval.Type
}

func newDeriver(caps Capabilities) *deriver {
	return &deriver{
		caps:      caps,
		retrieves: map[typeval.Type]typeval.Type{},
		selects:   map[typeval.Type]typeval.Type{},
		wheres:    map[typeval.Type]typeval.Type{},
		orderBys:  map[typeval.Type]typeval.Type{},
	}
}

func (d *deriver) retrieveType(e *typeval.EntityType) typeval.Type {
	if t, ok := d.retrieves[e]; ok {
		return t
	}
	var built typeval.Type
	placeholder := typeval.Lazy(e.Name()+"Retrieve", func() typeval.Type { return built })
	d.retrieves[e] = placeholder

	var fields []typeval.Field
	if d.caps.Select {
		fields = append(fields, typeval.Field{Name: "select", Type: typeval.Optional(d.selectType(e))})
	}
	if d.caps.Where {
		fields = append(fields, typeval.Field{Name: "where", Type: typeval.Optional(d.whereType(e))})
	}
	if d.caps.OrderBy {
		fields = append(fields, typeval.Field{Name: "orderBy", Type: typeval.Optional(typeval.Array(d.orderByType(e)))})
	}
	if d.caps.Skip {
		fields = append(fields, typeval.Field{Name: "skip", Type: typeval.Optional(typeval.Integer(typeval.NumberOptions{Minimum: typeval.Ptr(0.0)}))})
	}
	if d.caps.Take {
		fields = append(fields, typeval.Field{Name: "take", Type: typeval.Optional(typeval.Integer(typeval.NumberOptions{
			Minimum: typeval.Ptr(0.0),
			Maximum: typeval.Ptr(float64(MaxTake)),
		}))})
	}
	built = typeval.Object(e.Name()+"Retrieve", fields)
	return placeholder
}

// selectType derives the per-field boolean-or-nested-select shape.
func (d *deriver) selectType(e *typeval.EntityType) typeval.Type {
	if t, ok := d.selects[e]; ok {
		return t
	}
	var built typeval.Type
	placeholder := typeval.Lazy(e.Name()+"Select", func() typeval.Type { return built })
	d.selects[e] = placeholder
	built = typeval.Object(e.Name()+"Select", d.selectEntries(e.Fields()))
	return placeholder
}

func (d *deriver) selectEntries(fields []typeval.Field) []typeval.Field {
	var out []typeval.Field
	for _, f := range fields {
		info := classify(f.Type)
		switch info.class {
		case classScalar, classScalarArray, classOther:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(typeval.Boolean())})
		case classEmbedded:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(typeval.Union(f.Name+"Selection", []typeval.UnionVariant{
				{Name: "all", Type: typeval.Boolean()},
				{Name: "select", Type: d.objectSelectType(info.object)},
			}))})
		case classToOne, classToMany:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(typeval.Union(f.Name+"Selection", []typeval.UnionVariant{
				{Name: "all", Type: typeval.Boolean()},
				{Name: "retrieve", Type: d.retrieveType(info.entity)},
			}))})
		}
	}
	return out
}

func (d *deriver) objectSelectType(o *typeval.ObjectType) typeval.Type {
	if t, ok := d.selects[o]; ok {
		return t
	}
	var built typeval.Type
	placeholder := typeval.Lazy(o.Name()+"Select", func() typeval.Type { return built })
	d.selects[o] = placeholder
	built = typeval.Object(o.Name()+"Select", d.selectEntries(o.Fields()))
	return placeholder
}

// whereType derives per-scalar-field equality plus AND/OR/NOT combinators
// and some/every/none for to-many relations.
func (d *deriver) whereType(e *typeval.EntityType) typeval.Type {
	if t, ok := d.wheres[e]; ok {
		return t
	}
	var built typeval.Type
	placeholder := typeval.Lazy(e.Name()+"Where", func() typeval.Type { return built })
	d.wheres[e] = placeholder

	var fields []typeval.Field
	for _, f := range e.Fields() {
		info := classify(f.Type)
		switch info.class {
		case classScalar:
			fields = append(fields, typeval.Field{Name: f.Name, Type: typeval.Optional(typeval.Object("", []typeval.Field{
				{Name: "equals", Type: typeval.Optional(info.scalar)},
			}))})
		case classToOne:
			fields = append(fields, typeval.Field{Name: f.Name, Type: typeval.Optional(d.whereType(info.entity))})
		case classToMany:
			rel := d.whereType(info.entity)
			fields = append(fields, typeval.Field{Name: f.Name, Type: typeval.Optional(typeval.Object("", []typeval.Field{
				{Name: "some", Type: typeval.Optional(rel)},
				{Name: "every", Type: typeval.Optional(rel)},
				{Name: "none", Type: typeval.Optional(rel)},
			}))})
		}
	}
	fields = append(fields,
		typeval.Field{Name: "AND", Type: typeval.Optional(typeval.Array(placeholder))},
		typeval.Field{Name: "OR", Type: typeval.Optional(typeval.Array(placeholder))},
		typeval.Field{Name: "NOT", Type: typeval.Optional(placeholder)},
	)
	built = typeval.Object(e.Name()+"Where", fields)
	return placeholder
}

// orderByType derives the per-field direction shape; to-many relations
// expose only a _count pseudo-field.
func (d *deriver) orderByType(e *typeval.EntityType) typeval.Type {
	if t, ok := d.orderBys[e]; ok {
		return t
	}
	var built typeval.Type
	placeholder := typeval.Lazy(e.Name()+"OrderBy", func() typeval.Type { return built })
	d.orderBys[e] = placeholder
	built = typeval.Object(e.Name()+"OrderBy", d.orderByEntries(e.Fields()))
	return placeholder
}

func (d *deriver) orderByEntries(fields []typeval.Field) []typeval.Field {
	var out []typeval.Field
	for _, f := range fields {
		info := classify(f.Type)
		switch info.class {
		case classScalar:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(sortDirection())})
		case classEmbedded:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(d.objectOrderByType(info.object))})
		case classToOne:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(d.orderByType(info.entity))})
		case classToMany:
			out = append(out, typeval.Field{Name: f.Name, Type: typeval.Optional(typeval.Object("", []typeval.Field{
				{Name: "_count", Type: typeval.Optional(sortDirection())},
			}))})
		}
	}
	return out
}

func (d *deriver) objectOrderByType(o *typeval.ObjectType) typeval.Type {
	if t, ok := d.orderBys[o]; ok {
		return t
	}
	var built typeval.Type
	placeholder := typeval.Lazy(o.Name()+"OrderBy", func() typeval.Type { return built })
	d.orderBys[o] = placeholder
	built = typeval.Object(o.Name()+"OrderBy", d.orderByEntries(o.Fields()))
	return placeholder
}

func sortDirection() typeval.Type {
	return typeval.Enum([]string{"asc", "desc"}, typeval.EnumOptions{Name: "SortDirection"})
}
