package typeval

import (
	"context"
	"fmt"
)

// Encode converts a typed value back to a wire-compatible form. It has no
// failure path for already-valid values; feeding it a value that does not
// belong to the type is a programmer error and panics. Use
// ValidateAndEncode for untrusted values.
func Encode(t Type, v any) any {
	return encodeValue(context.Background(), t, v)
}

// ValidateAndEncode validates the value first and encodes it only when
// validation succeeds, returning the validator's errors otherwise.
func ValidateAndEncode(ctx context.Context, t Type, v any, opts ValidationOptions) (any, error) {
	if err := Validate(ctx, t, v, opts); err != nil {
		return nil, err
	}
	return encodeValue(ctx, t, v), nil
}

func encodeValue(ctx context.Context, t Type, v any) any {
	switch u := concrete(t).(type) {
	case *StringType, *NumberType, *BooleanType, *LiteralType, *EnumType:
		return v
	case *ObjectType:
		return encodeFields(ctx, &u.fieldsNode, v)
	case *EntityType:
		return encodeFields(ctx, &u.fieldsNode, v)
	case *ArrayType:
		items, ok := v.([]any)
		if !ok {
			panic(fmt.Sprintf("typeval: encoding %s, value is not an array: %s", Describe(t), renderValue(v)))
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = encodeValue(ctx, u.item, item)
		}
		return out
	case *OptionalType:
		if v == Absent {
			return nil
		}
		return encodeValue(ctx, u.inner, v)
	case *NullableType:
		if v == nil {
			return nil
		}
		return encodeValue(ctx, u.inner, v)
	case *ReferenceType:
		return encodeValue(ctx, u.inner, v)
	case *UnionType:
		name, ok := VariantOwnership(ctx, u, v)
		if !ok {
			panic(fmt.Sprintf("typeval: encoding %s, value belongs to no variant: %s", Describe(t), renderValue(v)))
		}
		vt, _ := u.byName[name]
		return map[string]any{name: encodeValue(ctx, vt, v)}
	case *CustomType:
		return u.def.Encode(v)
	default:
		panic(fmt.Sprintf("typeval: unknown type kind %T in encode", u))
	}
}

// encodeFields encodes the declared fields present in the value. A field
// is omitted from the wire output only when it is optional and its encoded
// value is null.
func encodeFields(ctx context.Context, n *fieldsNode, v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		panic(fmt.Sprintf("typeval: encoding object %s, value is not an object: %s", n.name, renderValue(v)))
	}
	out := make(map[string]any, len(m))
	for _, f := range n.fields {
		fv, present := m[f.Name]
		if !present {
			// absent optional fields and projected-away fields stay off the wire
			continue
		}
		_, optional := concrete(f.Type).(*OptionalType)
		enc := encodeValue(ctx, f.Type, fv)
		if optional && enc == nil {
			continue
		}
		out[f.Name] = enc
	}
	return out
}
