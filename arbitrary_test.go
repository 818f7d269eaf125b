package typeval_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typeval/typeval"
)

func TestArbitrary_Deterministic(t *testing.T) {
	typ := typeval.Object("Sample", []typeval.Field{
		{Name: "name", Type: typeval.String(typeval.StringOptions{MinLength: typeval.Ptr(1)})},
		{Name: "score", Type: typeval.Number(typeval.NumberOptions{Minimum: typeval.Ptr(0.0)})},
		{Name: "tags", Type: typeval.Array(typeval.Enum([]string{"a", "b", "c"}))},
	})

	a := typeval.Arbitrary(typ, 7, 4)
	b := typeval.Arbitrary(typ, 7, 4)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Next(), b.Next(), "values diverged at index %d", i)
	}

	// a different seed produces a different sequence
	c := typeval.Arbitrary(typ, 8, 4)
	a.Restart()
	same := true
	for i := 0; i < 20; i++ {
		if !assert.ObjectsAreEqual(a.Next(), c.Next()) {
			same = false
		}
	}
	require.False(t, same, "distinct seeds should not replay the same sequence")
}

func TestArbitrary_Restart(t *testing.T) {
	typ := typeval.Array(typeval.Number())
	g := typeval.Arbitrary(typ, 42, 3)
	first := make([]any, 10)
	for i := range first {
		first[i] = g.Next()
	}
	g.Restart()
	for i := range first {
		require.Equal(t, first[i], g.Next(), "restart diverged at index %d", i)
	}
}

func TestArbitrary_GeneratedValuesValidate(t *testing.T) {
	typ := typeval.Object("Config", []typeval.Field{
		{Name: "host", Type: typeval.String(typeval.StringOptions{Pattern: regexp.MustCompile(`^[a-z]{3,8}$`)})},
		{Name: "port", Type: typeval.Integer(typeval.NumberOptions{Minimum: typeval.Ptr(1.0), Maximum: typeval.Ptr(65535.0)})},
		{Name: "ratio", Type: typeval.Number(typeval.NumberOptions{ExclusiveMinimum: typeval.Ptr(0.0), Maximum: typeval.Ptr(1.0)})},
		{Name: "alias", Type: typeval.Optional(typeval.String())},
		{Name: "note", Type: typeval.Nullable(typeval.String())},
		{Name: "mode", Type: typeval.Enum([]string{"on", "off"})},
		{Name: "peers", Type: typeval.Array(typeval.String(), typeval.ArrayOptions{MinItems: typeval.Ptr(1), MaxItems: typeval.Ptr(4)})},
	})
	g := typeval.Arbitrary(typ, 1, 5)
	for i := 0; i < 100; i++ {
		v := g.Next()
		require.NoError(t, typeval.Validate(context.Background(), typ, v, typeval.ValidationOptions{Errors: typeval.AllErrors}),
			"generated value %d failed validation: %#v", i, v)
	}
}

func TestArbitrary_DepthBoundsRecursion(t *testing.T) {
	var node typeval.Type
	node = typeval.Entity("Node", []typeval.Field{
		{Name: "label", Type: typeval.String()},
		{Name: "next", Type: typeval.Optional(typeval.Lazy("Node", func() typeval.Type { return node }))},
	})

	const maxDepth = 3
	g := typeval.Arbitrary(node, 99, maxDepth)
	for i := 0; i < 50; i++ {
		v := g.Next()
		depth := 0
		for m := v.(map[string]any); ; depth++ {
			next, ok := m["next"].(map[string]any)
			if !ok {
				break
			}
			m = next
		}
		require.LessOrEqual(t, depth, maxDepth, "chain exceeded depth bound: %#v", v)
	}
}

func TestArbitrary_MinItemsForcedAtDepthZero(t *testing.T) {
	typ := typeval.Array(typeval.String(), typeval.ArrayOptions{MinItems: typeval.Ptr(2)})
	g := typeval.Arbitrary(typ, 5, 0)
	for i := 0; i < 10; i++ {
		items := g.Next().([]any)
		require.Len(t, items, 2, "depth 0 with MinItems should emit exactly the minimum")
	}

	plain := typeval.Arbitrary(typeval.Array(typeval.String()), 5, 0)
	for i := 0; i < 10; i++ {
		require.Empty(t, plain.Next(), "unconstrained arrays collapse to empty at depth 0")
	}
}

func TestArbitrary_OptionalArrayElementsRoundTrip(t *testing.T) {
	// arrays of optionals must never carry an absent slot: the wire form
	// has no representation for it and would come back as an undecodable null
	typ := typeval.Array(typeval.Optional(typeval.String()),
		typeval.ArrayOptions{MinItems: typeval.Ptr(1)})
	ctx := context.Background()
	g := typeval.Arbitrary(typ, 1, 3)
	for i := 0; i < 50; i++ {
		v := g.Next()
		for _, item := range v.([]any) {
			require.NotEqual(t, typeval.Absent, item)
		}
		wire := typeval.Encode(typ, v)
		_, err := typeval.Decode(ctx, typ, wire, typeval.DecodingOptions{})
		require.NoError(t, err, "wire value %d should decode: %#v", i, wire)
	}

	// the forced element at depth zero takes the present branch too
	shallow := typeval.Arbitrary(typ, 9, 0)
	for i := 0; i < 10; i++ {
		items := shallow.Next().([]any)
		require.Len(t, items, 1)
		require.NotEqual(t, typeval.Absent, items[0])
	}
}

func TestArbitrary_PatternWithLengthBounds(t *testing.T) {
	// an unbounded quantifier widens until the minimum length is reachable
	typ := typeval.String(typeval.StringOptions{
		MinLength: typeval.Ptr(10),
		Pattern:   regexp.MustCompile(`^[a-z]*$`),
	})
	ctx := context.Background()
	g := typeval.Arbitrary(typ, 2, 2)
	for i := 0; i < 50; i++ {
		require.NoError(t, typeval.Validate(ctx, typ, g.Next(), typeval.ValidationOptions{}))
	}

	// jointly unsatisfiable pattern and bounds are a programmer error
	fixed := typeval.String(typeval.StringOptions{
		MinLength: typeval.Ptr(5),
		Pattern:   regexp.MustCompile(`^ab$`),
	})
	h := typeval.Arbitrary(fixed, 2, 2)
	require.Panics(t, func() { h.Next() })
}

func TestArbitrary_PatternStrings(t *testing.T) {
	re := regexp.MustCompile(`^v[0-9]+\.[0-9]+$`)
	typ := typeval.String(typeval.StringOptions{Pattern: re})
	g := typeval.Arbitrary(typ, 3, 2)
	for i := 0; i < 50; i++ {
		s := g.Next().(string)
		require.Regexp(t, re, s)
	}
}

func TestArbitrary_ConstructionPanics(t *testing.T) {
	require.Panics(t, func() { typeval.Arbitrary(nil, 0, 1) })
	require.Panics(t, func() { typeval.Arbitrary(typeval.String(), 0, -1) })
}
