package typeval_test

import (
	"regexp"
	"testing"

	"github.com/typeval/typeval"
)

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected a panic", name)
		}
	}()
	fn()
}

func TestConstructorPanics(t *testing.T) {
	expectPanic(t, "negative minLength", func() {
		typeval.String(typeval.StringOptions{MinLength: typeval.Ptr(-1)})
	})
	expectPanic(t, "inverted string bounds", func() {
		typeval.String(typeval.StringOptions{MinLength: typeval.Ptr(5), MaxLength: typeval.Ptr(2)})
	})
	expectPanic(t, "inverted number bounds", func() {
		typeval.Number(typeval.NumberOptions{Minimum: typeval.Ptr(10.0), Maximum: typeval.Ptr(1.0)})
	})
	expectPanic(t, "non-scalar literal", func() {
		typeval.Literal([]any{1})
	})
	expectPanic(t, "empty enum", func() {
		typeval.Enum(nil)
	})
	expectPanic(t, "duplicate enum variant", func() {
		typeval.Enum([]string{"a", "a"})
	})
	expectPanic(t, "duplicate field", func() {
		typeval.Object("O", []typeval.Field{
			{Name: "x", Type: typeval.String()},
			{Name: "x", Type: typeval.Number()},
		})
	})
	expectPanic(t, "nil field type", func() {
		typeval.Object("O", []typeval.Field{{Name: "x"}})
	})
	expectPanic(t, "inverted array bounds", func() {
		typeval.Array(typeval.String(), typeval.ArrayOptions{MinItems: typeval.Ptr(3), MaxItems: typeval.Ptr(1)})
	})
	expectPanic(t, "nil array item", func() {
		typeval.Array(nil)
	})
	expectPanic(t, "empty union", func() {
		typeval.Union("U", nil)
	})
	expectPanic(t, "duplicate union variant", func() {
		typeval.Union("U", []typeval.UnionVariant{
			{Name: "a", Type: typeval.String()},
			{Name: "a", Type: typeval.Number()},
		})
	})
	expectPanic(t, "custom without decode", func() {
		typeval.Custom("C", typeval.CustomDef{Encode: func(v any) any { return v }})
	})
}

func TestLiteralNormalizesNumbers(t *testing.T) {
	if v := typeval.Literal(5).Value(); v != 5.0 {
		t.Fatalf("expected float64 5, got %#v (%T)", v, v)
	}
	if v := typeval.Literal(int64(7)).Value(); v != 7.0 {
		t.Fatalf("expected float64 7, got %#v (%T)", v, v)
	}
}

func TestUnwrapAndPredicates(t *testing.T) {
	entity := typeval.Entity("User", []typeval.Field{
		{Name: "id", Type: typeval.String()},
	})
	wrapped := typeval.Optional(typeval.Nullable(typeval.Reference(entity)))

	if got := typeval.Unwrap(wrapped); got != typeval.Type(entity) {
		t.Fatalf("unwrap should reach the entity, got %s", typeval.Describe(got))
	}
	if !typeval.IsEntity(wrapped) {
		t.Fatalf("wrapped entity should still be an entity")
	}
	if typeval.IsEntity(typeval.Object("O", nil)) {
		t.Fatalf("object is not an entity")
	}
	if !typeval.IsScalar(typeval.Optional(typeval.Enum([]string{"a"}))) {
		t.Fatalf("wrapped enum should be scalar")
	}
	if typeval.IsScalar(typeval.Array(typeval.String())) {
		t.Fatalf("array is not scalar")
	}
}

func TestLazyConcretise(t *testing.T) {
	calls := 0
	lazy := typeval.Lazy("S", func() typeval.Type {
		calls++
		return typeval.String()
	})
	a := typeval.Concretise(lazy)
	b := typeval.Concretise(lazy)
	if a != b {
		t.Fatalf("concretise should memoize")
	}
	if calls != 1 {
		t.Fatalf("produce should run once, ran %d times", calls)
	}
	if a.Kind() != typeval.KindString {
		t.Fatalf("unexpected kind %s", a.Kind())
	}
}

func TestAreEqual(t *testing.T) {
	if !typeval.AreEqual(
		typeval.String(typeval.StringOptions{MinLength: typeval.Ptr(2)}),
		typeval.String(typeval.StringOptions{MinLength: typeval.Ptr(2)}),
	) {
		t.Fatalf("identical strings should be equal")
	}
	if typeval.AreEqual(
		typeval.String(typeval.StringOptions{MinLength: typeval.Ptr(2)}),
		typeval.String(),
	) {
		t.Fatalf("different constraints should not be equal")
	}
	if typeval.AreEqual(typeval.Number(), typeval.Integer()) {
		t.Fatalf("number and integer should not be equal")
	}
	if !typeval.AreEqual(
		typeval.String(typeval.StringOptions{Pattern: regexp.MustCompile(`^a+$`)}),
		typeval.String(typeval.StringOptions{Pattern: regexp.MustCompile(`^a+$`)}),
	) {
		t.Fatalf("same pattern source should be equal")
	}

	mk := func() typeval.Type {
		return typeval.Object("Pair", []typeval.Field{
			{Name: "a", Type: typeval.String()},
			{Name: "b", Type: typeval.Optional(typeval.Number())},
		})
	}
	if !typeval.AreEqual(mk(), mk()) {
		t.Fatalf("structurally identical objects should be equal")
	}

	// a lazy indirection does not affect equality
	if !typeval.AreEqual(mk(), typeval.Lazy("Pair", mk)) {
		t.Fatalf("lazy wrapper should be transparent to equality")
	}
}

func TestAreEqual_Cyclic(t *testing.T) {
	mkUser := func() typeval.Type {
		var u typeval.Type
		u = typeval.Entity("User", []typeval.Field{
			{Name: "name", Type: typeval.String()},
			{Name: "bestFriend", Type: typeval.Optional(typeval.Lazy("User", func() typeval.Type { return u }))},
		})
		return u
	}
	a, b := mkUser(), mkUser()
	if !typeval.AreEqual(a, b) {
		t.Fatalf("isomorphic cyclic types should be equal")
	}
	if !typeval.AreEqual(a, a) {
		t.Fatalf("a cyclic type should equal itself")
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		typ  typeval.Type
		want string
	}{
		{typeval.String(), "string"},
		{typeval.Integer(), "integer"},
		{typeval.Enum([]string{"a", "b"}), "enum (a | b)"},
		{typeval.Array(typeval.Number()), "array of number"},
		{typeval.Optional(typeval.String()), "string or undefined"},
		{typeval.Nullable(typeval.Boolean()), "boolean or null"},
		{typeval.Entity("User", nil), "entity User"},
		{typeval.Union("Shape", []typeval.UnionVariant{
			{Name: "circle", Type: typeval.Number()},
			{Name: "label", Type: typeval.String()},
		}), "union (circle | label)"},
	}
	for _, tc := range cases {
		if got := typeval.Describe(tc.typ); got != tc.want {
			t.Fatalf("Describe: got %q, want %q", got, tc.want)
		}
	}
}
