package typeval

import (
	"errors"
	"fmt"
	"strings"
)

// DecodingError reports a shape mismatch found while decoding untyped
// input: wrong kind, missing or extra field, invalid union tag.
type DecodingError struct {
	Path     Path
	Expected string // description of the accepted representation
	Got      any    // the offending raw value
}

func (e DecodingError) Error() string {
	return fmt.Sprintf("expected %s at %s, got %s", e.Expected, e.Path, renderValue(e.Got))
}

// DecodingErrors is an ordered collection of decoding errors implementing
// error. Ordering follows traversal order, outer to inner.
type DecodingErrors []DecodingError

// Error summarizes the first few errors.
func (errs DecodingErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(errs)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(errs[i].Error())
	}
	if len(errs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(errs))
	}
	return b.String()
}

// AsDecodingErrors extracts DecodingErrors from an error chain.
func AsDecodingErrors(err error) (DecodingErrors, bool) {
	if err == nil {
		return nil, false
	}
	var derrs DecodingErrors
	if errors.As(err, &derrs) {
		return derrs, true
	}
	return nil, false
}

// atField returns a copy with every error's path prefixed by a field segment.
func (errs DecodingErrors) atField(name string) DecodingErrors {
	return mapDecodingPaths(errs, Segment{Kind: FieldSegment, Name: name})
}

// atIndex returns a copy with every error's path prefixed by an index segment.
func (errs DecodingErrors) atIndex(i int) DecodingErrors {
	return mapDecodingPaths(errs, Segment{Kind: IndexSegment, Index: i})
}

// atVariant returns a copy with every error's path prefixed by a variant segment.
func (errs DecodingErrors) atVariant(name string) DecodingErrors {
	return mapDecodingPaths(errs, Segment{Kind: VariantSegment, Name: name})
}

func mapDecodingPaths(errs DecodingErrors, s Segment) DecodingErrors {
	out := make(DecodingErrors, len(errs))
	for i, e := range errs {
		e.Path = e.Path.prepended(s)
		out[i] = e
	}
	return out
}

// ValidationError reports a semantic constraint violation on an already
// well-shaped value.
type ValidationError struct {
	Path      Path
	Assertion string // description of the violated constraint
	Got       any    // the offending value
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s at %s, got %s", e.Assertion, e.Path, renderValue(e.Got))
}

// ValidationErrors is an ordered collection of validation errors
// implementing error.
type ValidationErrors []ValidationError

// Error summarizes the first few errors.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(errs)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(errs[i].Error())
	}
	if len(errs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(errs))
	}
	return b.String()
}

// AsValidationErrors extracts ValidationErrors from an error chain.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	if err == nil {
		return nil, false
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

func (errs ValidationErrors) atField(name string) ValidationErrors {
	return mapValidationPaths(errs, Segment{Kind: FieldSegment, Name: name})
}

func (errs ValidationErrors) atIndex(i int) ValidationErrors {
	return mapValidationPaths(errs, Segment{Kind: IndexSegment, Index: i})
}

func (errs ValidationErrors) atVariant(name string) ValidationErrors {
	return mapValidationPaths(errs, Segment{Kind: VariantSegment, Name: name})
}

func mapValidationPaths(errs ValidationErrors, s Segment) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for i, e := range errs {
		e.Path = e.Path.prepended(s)
		out[i] = e
	}
	return out
}

// renderValue formats an offending value for error messages, using the
// wire vocabulary for the two non-JSON sentinels.
func renderValue(v any) string {
	switch v {
	case nil:
		return "null"
	case Absent:
		return "undefined"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
