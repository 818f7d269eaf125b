package typeval

import "context"

// decodeUnion resolves a union value to exactly one variant. Tagged input
// (a single-key object keyed by a variant name) is always accepted; under
// casting a bare value is matched by trial over the variants in
// declaration order. When the active options are lenient, the same search
// first runs with exact semantics so that a loosely-typed variant cannot
// shadow an exact match.
func decodeUnion(ctx context.Context, t *UnionType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	// bare values are only matched by trial when the caller opted into casting
	allowBare := opts.Casting == TryCasting
	if opts.Casting == TryCasting || opts.Fields == AllowAdditionalFields {
		exact := opts
		exact.Casting = ExpectExactTypes
		exact.Fields = ExpectExactFields
		if v, errs := resolveUnion(ctx, t, raw, exact, allowBare); len(errs) == 0 {
			return v, nil
		}
	}
	return resolveUnion(ctx, t, raw, opts, allowBare)
}

func resolveUnion(ctx context.Context, t *UnionType, raw any, opts DecodingOptions, allowBare bool) (any, DecodingErrors) {
	if name, inner, ok := taggedVariant(t, raw); ok {
		vt, _ := t.byName[name]
		v, errs := decodeVariant(ctx, vt, inner, opts)
		if len(errs) > 0 {
			return nil, errs.atVariant(name)
		}
		return v, nil
	}
	if !allowBare {
		return nil, mismatch(t, raw)
	}
	return trialVariants(ctx, t, raw, opts)
}

// taggedVariant recognizes the single-key wrapper form of a union value.
func taggedVariant(t *UnionType, raw any) (string, any, bool) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, false
	}
	for k, v := range m {
		if _, declared := t.byName[k]; declared {
			return k, v, true
		}
	}
	return "", nil, false
}

// trialVariants tries every variant in declaration order on the bare
// value. With the look-ahead active, a variant that decodes and validates
// wins immediately; a variant that merely decodes is retained as the
// first-decoded fallback. When no variant decodes the union fails with a
// summary error followed by the concatenation of every variant's errors.
func trialVariants(ctx context.Context, t *UnionType, raw any, opts DecodingOptions) (any, DecodingErrors) {
	var fallback any
	haveFallback := false
	var collected DecodingErrors
	for _, variant := range t.variants {
		v, errs := decodeVariant(ctx, variant.Type, raw, opts)
		if len(errs) > 0 {
			collected = append(collected, errs.atVariant(variant.Name)...)
			continue
		}
		if !opts.validateVariants {
			return v, nil
		}
		if Validate(ctx, variant.Type, v, ValidationOptions{Errors: StopAtFirstError}) == nil {
			return v, nil
		}
		if !haveFallback {
			fallback = v
			haveFallback = true
		}
	}
	if haveFallback {
		// Deliberate leniency: the first variant that decoded is returned as
		// the chosen one even though it fails validation; the validation pass
		// re-derives the same choice and reports its errors.
		return fallback, nil
	}
	errs := mismatch(t, raw)
	if opts.Errors == AllErrors {
		errs = append(errs, collected...)
	}
	return nil, errs
}

// decodeVariant decodes a candidate value against one variant type.
func decodeVariant(ctx context.Context, vt Type, raw any, opts DecodingOptions) (any, DecodingErrors) {
	return decodeValue(ctx, vt, raw, opts)
}

// VariantOwnership classifies an already-decoded value against a union
// type, returning the name of the owning variant. Resolution mirrors the
// decoder's search: a variant whose shape matches and whose constraints
// hold wins; failing that, the first variant whose shape matches is
// retained. The boolean is false when the value belongs to no variant.
func VariantOwnership(ctx context.Context, t Type, v any) (string, bool) {
	u, ok := concrete(t).(*UnionType)
	if !ok {
		panic("typeval: variant ownership requires a union type")
	}
	exact := DecodingOptions{Casting: ExpectExactTypes, Errors: StopAtFirstError, Fields: ExpectExactFields}
	fallback := ""
	for _, variant := range u.variants {
		_, errs := decodeValue(ctx, variant.Type, v, exact)
		if len(errs) > 0 {
			continue
		}
		if Validate(ctx, variant.Type, v, ValidationOptions{Errors: StopAtFirstError}) == nil {
			return variant.Name, true
		}
		if fallback == "" {
			fallback = variant.Name
		}
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}
