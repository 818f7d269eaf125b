// Package typeval implements a runtime, data-driven type system. Types are
// first-class values built with constructor functions (String, Object,
// Entity, Union, ...) and drive four derived behaviors: decoding untyped
// input into a typed value, validating a typed value against semantic
// constraints, encoding a typed value back to a wire-compatible form, and
// generating random example values.
//
// Decoding and validation report failures as error values (DecodingErrors,
// ValidationErrors), each entry tagged with the Path of the offending
// value. Panics are reserved for malformed type graphs and internal
// invariant violations, which are programmer errors.
//
// Self-referential and mutually-referential types are expressed with Lazy
// nodes; every traversal in the package terminates on cyclic type graphs.
//
// The subpackage retrieve derives select/where/orderBy/skip/take capability
// shapes from entity types and merges two retrieve values deterministically.
package typeval
