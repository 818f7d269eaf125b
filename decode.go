package typeval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Decode converts untyped input into a typed value according to the type
// shape and the decoding options. Failures are reported as DecodingErrors;
// Decode panics only for a broken type graph, never for malformed input.
func Decode(ctx context.Context, t Type, raw any, opts DecodingOptions) (any, error) {
	opts.validateVariants = false
	v, errs := decodeValue(ctx, t, raw, opts)
	if len(errs) > 0 {
		return nil, errs
	}
	return v, nil
}

// DecodeAndValidate decodes raw input and then validates the decoded
// value. Union variants are resolved with a decode-then-validate
// look-ahead, so a variant that both decodes and validates is preferred
// over an earlier variant that merely decodes.
func DecodeAndValidate(ctx context.Context, t Type, raw any, opts DecodingOptions) (any, error) {
	opts.validateVariants = true
	v, errs := decodeValue(ctx, t, raw, opts)
	if len(errs) > 0 {
		return nil, errs
	}
	if err := Validate(ctx, t, v, ValidationOptions{Errors: opts.Errors}); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValue(ctx context.Context, t Type, raw any, opts DecodingOptions) (any, DecodingErrors) {
	switch u := concrete(t).(type) {
	case *StringType:
		return decodeString(u, raw, opts)
	case *NumberType:
		return decodeNumber(u, raw, opts)
	case *BooleanType:
		return decodeBoolean(u, raw, opts)
	case *LiteralType:
		return decodeLiteral(u, raw, opts)
	case *EnumType:
		return decodeEnum(u, raw)
	case *ObjectType:
		return decodeFields(ctx, u, &u.fieldsNode, raw, opts)
	case *EntityType:
		return decodeFields(ctx, u, &u.fieldsNode, raw, opts)
	case *ArrayType:
		return decodeArray(ctx, u, raw, opts)
	case *OptionalType:
		return decodeOptional(ctx, u, raw, opts)
	case *NullableType:
		return decodeNullable(ctx, u, raw, opts)
	case *ReferenceType:
		return decodeValue(ctx, u.inner, raw, opts)
	case *UnionType:
		return decodeUnion(ctx, u, raw, opts)
	case *CustomType:
		return u.def.Decode(ctx, raw, opts)
	default:
		panic(fmt.Sprintf("typeval: unknown type kind %T in decode", u))
	}
}

func mismatch(t Type, raw any) DecodingErrors {
	return DecodingErrors{{Expected: Describe(t), Got: raw}}
}

func decodeString(t *StringType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	if opts.Casting == TryCasting {
		if n, ok := numericValue(raw); ok {
			return strconv.FormatFloat(n, 'g', -1, 64), nil
		}
	}
	return nil, mismatch(t, raw)
}

func decodeNumber(t *NumberType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	if n, ok := numericValue(raw); ok {
		return n, nil
	}
	if opts.Casting == TryCasting {
		if s, ok := raw.(string); ok {
			n, err := strconv.ParseFloat(s, 64)
			if err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
				return n, nil
			}
		}
	}
	return nil, mismatch(t, raw)
}

func decodeBoolean(t *BooleanType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	if opts.Casting == TryCasting {
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, mismatch(t, raw)
}

func decodeLiteral(t *LiteralType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	if looseEqual(raw, t.value) {
		return t.value, nil
	}
	if opts.Casting == TryCasting && t.value == nil && raw == "null" {
		return nil, nil
	}
	return nil, mismatch(t, raw)
}

func decodeEnum(t *EnumType, raw any) (any, DecodingErrors) {
	if s, ok := raw.(string); ok {
		for _, v := range t.variants {
			if v == s {
				return s, nil
			}
		}
	}
	return nil, mismatch(t, raw)
}

func decodeArray(ctx context.Context, t *ArrayType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	items, ok := raw.([]any)
	if !ok && opts.Casting == TryCasting {
		items, ok = arrayFromIndexedObject(raw)
	}
	if !ok {
		return nil, mismatch(t, raw)
	}
	out := make([]any, 0, len(items))
	var errs DecodingErrors
	for i, item := range items {
		v, childErrs := decodeValue(ctx, t.item, item, opts)
		if len(childErrs) > 0 {
			errs = append(errs, childErrs.atIndex(i)...)
			if opts.Errors == StopAtFirstError {
				return nil, errs
			}
			continue
		}
		out = append(out, v)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// arrayFromIndexedObject reinterprets an object keyed by the consecutive
// integers 0..n-1 as an array.
func arrayFromIndexedObject(raw any) ([]any, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make([]any, len(m))
	for i := range out {
		v, present := m[strconv.Itoa(i)]
		if !present {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func decodeFields(ctx context.Context, t Type, n *fieldsNode, raw any, opts DecodingOptions) (any, DecodingErrors) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, mismatch(t, raw)
	}
	out := make(map[string]any, len(n.fields))
	var errs DecodingErrors
	for _, f := range n.fields {
		fieldRaw, present := m[f.Name]
		if !present {
			fieldRaw = Absent
		}
		v, childErrs := decodeValue(ctx, f.Type, fieldRaw, opts)
		if len(childErrs) > 0 {
			errs = append(errs, childErrs.atField(f.Name)...)
			if opts.Errors == StopAtFirstError {
				return nil, errs
			}
			continue
		}
		if v != Absent {
			out[f.Name] = v
		}
	}
	if opts.Fields == ExpectExactFields {
		unknown := make([]string, 0, len(m))
		for k := range m {
			if _, declared := n.byName[k]; !declared {
				unknown = append(unknown, k)
			}
		}
		sort.Strings(unknown)
		for _, k := range unknown {
			errs = append(errs, DecodingError{
				Path:     Root().Field(k),
				Expected: "undefined",
				Got:      m[k],
			})
			if opts.Errors == StopAtFirstError {
				return nil, errs
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func decodeOptional(ctx context.Context, t *OptionalType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	if raw == Absent {
		return Absent, nil
	}
	if raw == nil && opts.Casting == TryCasting {
		return Absent, nil
	}
	v, errs := decodeValue(ctx, t.inner, raw, opts)
	if len(errs) > 0 {
		return nil, appendExpected(errs, " or undefined")
	}
	return v, nil
}

func decodeNullable(ctx context.Context, t *NullableType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	if raw == nil {
		return nil, nil
	}
	v, errs := decodeValue(ctx, t.inner, raw, opts)
	if len(errs) > 0 {
		return nil, appendExpected(errs, " or null")
	}
	return v, nil
}

// appendExpected augments the expected description of the errors raised at
// the wrapper's own position; nested child errors keep their description.
func appendExpected(errs DecodingErrors, suffix string) DecodingErrors {
	out := make(DecodingErrors, len(errs))
	for i, e := range errs {
		if e.Path.IsRoot() {
			e.Expected += suffix
		}
		out[i] = e
	}
	return out
}

// numericValue normalizes the numeric representations produced by JSON and
// YAML unmarshalling (and common programmatic inputs) to float64.
func numericValue(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// looseEqual compares two scalar values, treating all numeric
// representations as equal when their float64 values coincide.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, ok := numericValue(a); ok {
		bn, bok := numericValue(b)
		return bok && an == bn
	}
	return a == b
}
