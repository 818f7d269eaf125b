package typeval

// CastingStrategy controls whether decoding accepts convertible alternate
// representations (numeric string -> number, "true" -> boolean, ...).
type CastingStrategy int

const (
	ExpectExactTypes CastingStrategy = iota // Reject any representation mismatch.
	TryCasting                              // Accept unambiguous, lossless conversions.
)

// ReportingStrategy controls whether sibling computations continue after a
// failure.
type ReportingStrategy int

const (
	StopAtFirstError ReportingStrategy = iota // Short-circuit at the first failing branch.
	AllErrors                                 // Traverse exhaustively and collect every error.
)

// FieldStrictness controls how object decoding treats input keys that match
// no declared field.
type FieldStrictness int

const (
	ExpectExactFields     FieldStrictness = iota // Reject undeclared keys with an error.
	AllowAdditionalFields                        // Skip undeclared keys.
)

// DecodingOptions bundles the per-operation decoding knobs. The zero value
// is the strict default: exact types, stop at the first error, exact fields.
type DecodingOptions struct {
	Casting CastingStrategy
	Errors  ReportingStrategy
	Fields  FieldStrictness

	// validateVariants switches the union resolver to the decode-then-validate
	// look-ahead used by DecodeAndValidate.
	validateVariants bool
}

// ValidationOptions bundles the per-operation validation knobs.
type ValidationOptions struct {
	Errors ReportingStrategy
}
