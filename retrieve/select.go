package retrieve

import (
	"fmt"

	"github.com/typeval/typeval"
)

// SelectedType returns the trimmed object type containing only the fields
// actually selected by the retrieve value, used to decode a server
// response shape against exactly what was requested. An absent selection
// keeps every non-relation field and drops relations.
func SelectedType(entity typeval.Type, retrieve map[string]any) (typeval.Type, error) {
	e, ok := typeval.Concretise(entity).(*typeval.EntityType)
	if !ok {
		return nil, fmt.Errorf("retrieve: %s is not an entity type", typeval.Describe(entity))
	}
	sel, _ := asMap(retrieve["select"])
	return selectedEntity(e, sel), nil
}

func selectedEntity(e *typeval.EntityType, sel map[string]any) typeval.Type {
	return typeval.Object(e.Name(), selectedFields(e.Fields(), sel))
}

func selectedFields(fields []typeval.Field, sel map[string]any) []typeval.Field {
	var out []typeval.Field
	for _, f := range fields {
		info := classify(f.Type)
		if sel == nil {
			// default projection: every non-relation field
			if info.class != classToOne && info.class != classToMany {
				out = append(out, f)
			}
			continue
		}
		v, selected := sel[f.Name]
		if !selected || v == false {
			continue
		}
		switch info.class {
		case classToOne, classToMany:
			nested, _ := asMap(v)
			var nestedSel map[string]any
			if nested != nil {
				nestedSel, _ = asMap(nested["select"])
			}
			trimmed := selectedEntity(info.entity, nestedSel)
			out = append(out, typeval.Field{Name: f.Name, Type: rewrapRelation(f.Type, trimmed)})
		case classEmbedded:
			if nested, ok := asMap(v); ok {
				trimmed := typeval.Object(info.object.Name(), selectedFields(info.object.Fields(), nested))
				out = append(out, typeval.Field{Name: f.Name, Type: rewrapRelation(f.Type, trimmed)})
			} else {
				out = append(out, f)
			}
		default:
			out = append(out, f)
		}
	}
	return out
}

// rewrapRelation rebuilds the optional/nullable/reference/array wrappers
// of a declared field type around a trimmed replacement of its core node.
func rewrapRelation(declared typeval.Type, replacement typeval.Type) typeval.Type {
	switch u := typeval.Concretise(declared).(type) {
	case *typeval.OptionalType:
		return typeval.Optional(rewrapRelation(u.Inner(), replacement))
	case *typeval.NullableType:
		return typeval.Nullable(rewrapRelation(u.Inner(), replacement))
	case *typeval.ReferenceType:
		return typeval.Reference(rewrapRelation(u.Inner(), replacement))
	case *typeval.ArrayType:
		return typeval.Array(rewrapRelation(u.Item(), replacement), u.Options())
	default:
		return replacement
	}
}

// SelectionDepth computes the maximum nesting depth reached by the
// effective selection, counting traversal through entity relations only;
// embedded objects do not add depth. A selection touching no relation has
// depth 1.
func SelectionDepth(entity typeval.Type, retrieve map[string]any) (int, error) {
	e, ok := typeval.Concretise(entity).(*typeval.EntityType)
	if !ok {
		return 0, fmt.Errorf("retrieve: %s is not an entity type", typeval.Describe(entity))
	}
	return retrieveDepth(e.Fields(), retrieve), nil
}

func retrieveDepth(fields []typeval.Field, retrieve map[string]any) int {
	sel, ok := asMap(retrieve["select"])
	if !ok {
		return 1
	}
	return selectionDepth(fields, sel)
}

func selectionDepth(fields []typeval.Field, sel map[string]any) int {
	depth := 1
	for _, f := range fields {
		v, selected := sel[f.Name]
		if !selected || v == false {
			continue
		}
		info := classify(f.Type)
		switch info.class {
		case classToOne, classToMany:
			nested := 1
			if m, ok := asMap(v); ok {
				nested = retrieveDepth(info.entity.Fields(), m)
			}
			if 1+nested > depth {
				depth = 1 + nested
			}
		case classEmbedded:
			if m, ok := asMap(v); ok {
				if d := selectionDepth(info.object.Fields(), m); d > depth {
					depth = d
				}
			}
		}
	}
	return depth
}
