package typeval

import "regexp"

// AreEqual reports structural equality of two types. Equality is
// co-inductive: when a pair of nodes recurs during the comparison the pair
// is assumed equal, which makes the comparison terminate on cyclic type
// graphs.
func AreEqual(t1, t2 Type) bool {
	return equalTypes(t1, t2, make(map[[2]Type]struct{}))
}

func equalTypes(t1, t2 Type, seen map[[2]Type]struct{}) bool {
	c1, c2 := concrete(t1), concrete(t2)
	if c1 == c2 {
		return true
	}
	pair := [2]Type{c1, c2}
	if _, ok := seen[pair]; ok {
		return true
	}
	seen[pair] = struct{}{}

	switch a := c1.(type) {
	case *StringType:
		b, ok := c2.(*StringType)
		return ok && equalStringOptions(a.opts, b.opts)
	case *NumberType:
		b, ok := c2.(*NumberType)
		return ok && a.integer == b.integer && equalNumberOptions(a.opts, b.opts)
	case *BooleanType:
		b, ok := c2.(*BooleanType)
		return ok && a.opts == b.opts
	case *LiteralType:
		b, ok := c2.(*LiteralType)
		return ok && looseEqual(a.value, b.value) && a.opts == b.opts
	case *EnumType:
		b, ok := c2.(*EnumType)
		if !ok || len(a.variants) != len(b.variants) || a.opts != b.opts {
			return false
		}
		for i := range a.variants {
			if a.variants[i] != b.variants[i] {
				return false
			}
		}
		return true
	case *ObjectType:
		b, ok := c2.(*ObjectType)
		return ok && equalFields(&a.fieldsNode, &b.fieldsNode, seen)
	case *EntityType:
		b, ok := c2.(*EntityType)
		return ok && equalFields(&a.fieldsNode, &b.fieldsNode, seen)
	case *ArrayType:
		b, ok := c2.(*ArrayType)
		return ok && equalArrayOptions(a.opts, b.opts) && equalTypes(a.item, b.item, seen)
	case *OptionalType:
		b, ok := c2.(*OptionalType)
		return ok && equalTypes(a.inner, b.inner, seen)
	case *NullableType:
		b, ok := c2.(*NullableType)
		return ok && equalTypes(a.inner, b.inner, seen)
	case *ReferenceType:
		b, ok := c2.(*ReferenceType)
		return ok && equalTypes(a.inner, b.inner, seen)
	case *UnionType:
		b, ok := c2.(*UnionType)
		if !ok || a.name != b.name || len(a.variants) != len(b.variants) || a.opts != b.opts {
			return false
		}
		for i := range a.variants {
			if a.variants[i].Name != b.variants[i].Name {
				return false
			}
			if !equalTypes(a.variants[i].Type, b.variants[i].Type, seen) {
				return false
			}
		}
		return true
	case *CustomType:
		// Callbacks are not comparable; custom types are equal only by identity,
		// which the fast path above already handled.
		b, ok := c2.(*CustomType)
		return ok && a == b
	default:
		panic("typeval: unknown type kind in equality")
	}
}

func equalFields(a, b *fieldsNode, seen map[[2]Type]struct{}) bool {
	if a.name != b.name || a.opts != b.opts || len(a.fields) != len(b.fields) {
		return false
	}
	for i := range a.fields {
		if a.fields[i].Name != b.fields[i].Name {
			return false
		}
		if !equalTypes(a.fields[i].Type, b.fields[i].Type, seen) {
			return false
		}
	}
	return true
}

func equalStringOptions(a, b StringOptions) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		equalIntPtr(a.MinLength, b.MinLength) &&
		equalIntPtr(a.MaxLength, b.MaxLength) &&
		equalPattern(a.Pattern, b.Pattern)
}

func equalNumberOptions(a, b NumberOptions) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		equalFloatPtr(a.Minimum, b.Minimum) &&
		equalFloatPtr(a.ExclusiveMinimum, b.ExclusiveMinimum) &&
		equalFloatPtr(a.Maximum, b.Maximum) &&
		equalFloatPtr(a.ExclusiveMaximum, b.ExclusiveMaximum)
}

func equalArrayOptions(a, b ArrayOptions) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		a.Mutability == b.Mutability &&
		equalIntPtr(a.MinItems, b.MinItems) &&
		equalIntPtr(a.MaxItems, b.MaxItems)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalPattern(a, b *regexp.Regexp) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}
