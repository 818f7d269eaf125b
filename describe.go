package typeval

import (
	"fmt"
	"strings"
)

// Describe renders a compact, human-readable description of a type, used
// in decoding error messages and diagnostics. Nesting is elided beyond a
// small depth so descriptions stay bounded on recursive graphs.
func Describe(t Type) string { return describe(t, 8) }

func describe(t Type, depth int) string {
	if depth <= 0 {
		return "..."
	}
	switch u := concrete(t).(type) {
	case *StringType:
		return "string"
	case *NumberType:
		if u.integer {
			return "integer"
		}
		return "number"
	case *BooleanType:
		return "boolean"
	case *LiteralType:
		return "literal " + renderValue(u.value)
	case *EnumType:
		return "enum (" + strings.Join(u.variants, " | ") + ")"
	case *ObjectType:
		if u.name != "" {
			return "object " + u.name
		}
		return "object"
	case *EntityType:
		if u.name != "" {
			return "entity " + u.name
		}
		return "entity"
	case *ArrayType:
		return "array of " + describe(u.item, depth-1)
	case *OptionalType:
		return describe(u.inner, depth-1) + " or undefined"
	case *NullableType:
		return describe(u.inner, depth-1) + " or null"
	case *ReferenceType:
		return describe(u.inner, depth-1)
	case *UnionType:
		names := make([]string, len(u.variants))
		for i, v := range u.variants {
			names[i] = v.Name
		}
		return "union (" + strings.Join(names, " | ") + ")"
	case *CustomType:
		return u.typeName
	default:
		panic(fmt.Sprintf("typeval: unknown type kind %T in describe", u))
	}
}
