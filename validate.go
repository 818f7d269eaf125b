package typeval

import (
	"context"
	"fmt"
)

// Validate checks a correctly shaped value against the semantic
// constraints of its type: bounds, lengths, patterns, item counts. It
// never checks shape; decode and validate are independent passes.
func Validate(ctx context.Context, t Type, v any, opts ValidationOptions) error {
	errs := validateValue(ctx, t, v, opts)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateValue(ctx context.Context, t Type, v any, opts ValidationOptions) ValidationErrors {
	switch u := concrete(t).(type) {
	case *StringType:
		return validateString(u, v)
	case *NumberType:
		return validateNumber(u, v)
	case *BooleanType, *LiteralType, *EnumType:
		return nil
	case *ObjectType:
		return validateFields(ctx, &u.fieldsNode, v, opts)
	case *EntityType:
		return validateFields(ctx, &u.fieldsNode, v, opts)
	case *ArrayType:
		return validateArray(ctx, u, v, opts)
	case *OptionalType:
		if v == Absent {
			return nil
		}
		return validateValue(ctx, u.inner, v, opts)
	case *NullableType:
		if v == nil {
			return nil
		}
		return validateValue(ctx, u.inner, v, opts)
	case *ReferenceType:
		return validateValue(ctx, u.inner, v, opts)
	case *UnionType:
		return validateUnion(ctx, u, v, opts)
	case *CustomType:
		if u.def.Validate == nil {
			return nil
		}
		return u.def.Validate(ctx, v, opts)
	default:
		panic(fmt.Sprintf("typeval: unknown type kind %T in validate", u))
	}
}

func assertion(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func validateString(t *StringType, v any) ValidationErrors {
	s, ok := v.(string)
	if !ok {
		return ValidationErrors{{Assertion: "value is a string", Got: v}}
	}
	var errs ValidationErrors
	o := t.opts
	if o.MinLength != nil && len(s) < *o.MinLength {
		errs = append(errs, ValidationError{Assertion: assertion("string length is at least %d", *o.MinLength), Got: s})
	}
	if o.MaxLength != nil && len(s) > *o.MaxLength {
		errs = append(errs, ValidationError{Assertion: assertion("string length is at most %d", *o.MaxLength), Got: s})
	}
	if o.Pattern != nil && !o.Pattern.MatchString(s) {
		errs = append(errs, ValidationError{Assertion: assertion("string matches pattern %s", o.Pattern), Got: s})
	}
	return errs
}

func validateNumber(t *NumberType, v any) ValidationErrors {
	n, ok := numericValue(v)
	if !ok {
		return ValidationErrors{{Assertion: "value is a number", Got: v}}
	}
	var errs ValidationErrors
	o := t.opts
	if t.integer && n != float64(int64(n)) {
		errs = append(errs, ValidationError{Assertion: "number is an integer", Got: n})
	}
	if o.Minimum != nil && n < *o.Minimum {
		errs = append(errs, ValidationError{Assertion: assertion("number is at least %v", *o.Minimum), Got: n})
	}
	if o.ExclusiveMinimum != nil && n <= *o.ExclusiveMinimum {
		errs = append(errs, ValidationError{Assertion: assertion("number is greater than %v", *o.ExclusiveMinimum), Got: n})
	}
	if o.Maximum != nil && n > *o.Maximum {
		errs = append(errs, ValidationError{Assertion: assertion("number is at most %v", *o.Maximum), Got: n})
	}
	if o.ExclusiveMaximum != nil && n >= *o.ExclusiveMaximum {
		errs = append(errs, ValidationError{Assertion: assertion("number is less than %v", *o.ExclusiveMaximum), Got: n})
	}
	return errs
}

// validateFields validates only the fields actually present in the value,
// which allows validating partial or projected records.
func validateFields(ctx context.Context, n *fieldsNode, v any, opts ValidationOptions) ValidationErrors {
	m, ok := v.(map[string]any)
	if !ok {
		return ValidationErrors{{Assertion: "value is an object", Got: v}}
	}
	var errs ValidationErrors
	for _, f := range n.fields {
		fv, present := m[f.Name]
		if !present {
			continue
		}
		childErrs := validateValue(ctx, f.Type, fv, opts)
		if len(childErrs) > 0 {
			errs = append(errs, childErrs.atField(f.Name)...)
			if opts.Errors == StopAtFirstError {
				return errs
			}
		}
	}
	return errs
}

func validateArray(ctx context.Context, t *ArrayType, v any, opts ValidationOptions) ValidationErrors {
	items, ok := v.([]any)
	if !ok {
		return ValidationErrors{{Assertion: "value is an array", Got: v}}
	}
	var errs ValidationErrors
	o := t.opts
	if o.MinItems != nil && len(items) < *o.MinItems {
		errs = append(errs, ValidationError{Assertion: assertion("array has at least %d items", *o.MinItems), Got: v})
		if opts.Errors == StopAtFirstError {
			return errs
		}
	}
	if o.MaxItems != nil && len(items) > *o.MaxItems {
		errs = append(errs, ValidationError{Assertion: assertion("array has at most %d items", *o.MaxItems), Got: v})
		if opts.Errors == StopAtFirstError {
			return errs
		}
	}
	for i, item := range items {
		childErrs := validateValue(ctx, t.item, item, opts)
		if len(childErrs) > 0 {
			errs = append(errs, childErrs.atIndex(i)...)
			if opts.Errors == StopAtFirstError {
				return errs
			}
		}
	}
	return errs
}

// validateUnion validates the single variant owning the value.
func validateUnion(ctx context.Context, t *UnionType, v any, opts ValidationOptions) ValidationErrors {
	name, ok := VariantOwnership(ctx, t, v)
	if !ok {
		return ValidationErrors{{Assertion: "value belongs to " + Describe(t), Got: v}}
	}
	vt, _ := t.byName[name]
	childErrs := validateValue(ctx, vt, v, opts)
	if len(childErrs) > 0 {
		return childErrs.atVariant(name)
	}
	return nil
}
