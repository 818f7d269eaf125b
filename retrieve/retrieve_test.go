package retrieve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/typeval/typeval"
	"github.com/typeval/typeval/retrieve"
)

// userEntity builds a cyclic User <-> Post graph with scalar fields, an
// embedded object and both relation shapes.
func userEntity() typeval.Type {
	var user, post typeval.Type
	user = typeval.Entity("User", []typeval.Field{
		{Name: "name", Type: typeval.String()},
		{Name: "age", Type: typeval.Integer()},
		{Name: "profile", Type: typeval.Object("Profile", []typeval.Field{
			{Name: "bio", Type: typeval.String()},
		})},
		{Name: "tags", Type: typeval.Array(typeval.String())},
		{Name: "posts", Type: typeval.Array(typeval.Lazy("Post", func() typeval.Type { return post }))},
	})
	post = typeval.Entity("Post", []typeval.Field{
		{Name: "title", Type: typeval.String()},
		{Name: "author", Type: typeval.Lazy("User", func() typeval.Type { return user })},
	})
	return user
}

func decodeRetrieve(t *testing.T, shape typeval.Type, raw any) map[string]any {
	t.Helper()
	v, err := typeval.DecodeAndValidate(context.Background(), shape, raw,
		typeval.DecodingOptions{Casting: typeval.TryCasting})
	require.NoError(t, err)
	return v.(map[string]any)
}

func TestDeriveType_RequiresEntity(t *testing.T) {
	_, err := retrieve.DeriveType(typeval.Object("O", nil), retrieve.AllCapabilities())
	require.Error(t, err)
	_, err = retrieve.DeriveType(typeval.String(), retrieve.AllCapabilities())
	require.Error(t, err)
}

func TestDeriveType_CapabilityFields(t *testing.T) {
	shape, err := retrieve.DeriveType(userEntity(), retrieve.Capabilities{Select: true, Take: true})
	require.NoError(t, err)
	obj, ok := typeval.Concretise(shape).(*typeval.ObjectType)
	require.True(t, ok)

	_, hasSelect := obj.FieldType("select")
	_, hasTake := obj.FieldType("take")
	_, hasWhere := obj.FieldType("where")
	require.True(t, hasSelect)
	require.True(t, hasTake)
	require.False(t, hasWhere, "unrequested capabilities must not appear")
}

func TestDeriveType_DecodesRetrieveValues(t *testing.T) {
	shape, err := retrieve.DeriveType(userEntity(), retrieve.AllCapabilities())
	require.NoError(t, err)

	v := decodeRetrieve(t, shape, map[string]any{
		"select": map[string]any{
			"name":    true,
			"profile": map[string]any{"bio": true},
			"posts": map[string]any{
				"select": map[string]any{"title": true},
				"take":   5,
			},
		},
		"where": map[string]any{
			"age": map[string]any{"equals": 30},
			"OR": []any{
				map[string]any{"name": map[string]any{"equals": "ada"}},
			},
		},
		"orderBy": []any{
			map[string]any{"name": "asc"},
			map[string]any{"posts": map[string]any{"_count": "desc"}},
		},
		"skip": 10,
		"take": 20,
	})
	require.Equal(t, 20.0, v["take"])
	sel := v["select"].(map[string]any)
	require.Equal(t, true, sel["name"])
	nested := sel["posts"].(map[string]any)
	require.Equal(t, 5.0, nested["take"])
}

func TestDeriveType_RelationSelectAcceptsBareBoolean(t *testing.T) {
	shape, err := retrieve.DeriveType(userEntity(), retrieve.Capabilities{Select: true})
	require.NoError(t, err)

	// "posts": true selects the whole relation via the boolean variant
	v := decodeRetrieve(t, shape, map[string]any{
		"select": map[string]any{"posts": true},
	})
	sel := v["select"].(map[string]any)
	require.Equal(t, true, sel["posts"])
}

func TestDeriveType_TakeBound(t *testing.T) {
	shape, err := retrieve.DeriveType(userEntity(), retrieve.Capabilities{Take: true})
	require.NoError(t, err)

	_, err = typeval.DecodeAndValidate(context.Background(), shape,
		map[string]any{"take": retrieve.MaxTake + 1},
		typeval.DecodingOptions{Casting: typeval.TryCasting})
	require.Error(t, err, "take beyond the cap must not validate")

	v := decodeRetrieve(t, shape, map[string]any{"take": retrieve.MaxTake})
	require.Equal(t, float64(retrieve.MaxTake), v["take"])
}

func TestDeriveType_UnknownFieldRejected(t *testing.T) {
	shape, err := retrieve.DeriveType(userEntity(), retrieve.Capabilities{Select: true})
	require.NoError(t, err)
	_, err = typeval.DecodeAndValidate(context.Background(), shape,
		map[string]any{"select": map[string]any{"nope": true}},
		typeval.DecodingOptions{Casting: typeval.TryCasting})
	require.Error(t, err)
}

func TestDeriveType_OrderByRejectsNestedArrays(t *testing.T) {
	e := typeval.Entity("Grid", []typeval.Field{
		{Name: "rows", Type: typeval.Array(typeval.Array(typeval.Number()))},
	})
	_, err := retrieve.DeriveType(e, retrieve.AllCapabilities())
	require.Error(t, err)

	// without orderBy the same entity derives fine
	_, err = retrieve.DeriveType(e, retrieve.Capabilities{Select: true, Where: true})
	require.NoError(t, err)
}

func TestDeriveType_CombinatorNameCollision(t *testing.T) {
	odd := typeval.Entity("Odd", []typeval.Field{
		{Name: "AND", Type: typeval.String()},
	})
	_, err := retrieve.DeriveType(odd, retrieve.Capabilities{Where: true})
	require.Error(t, err, "a filterable field named AND cannot share the where object with the combinator")

	// the name only collides in the where shape
	_, err = retrieve.DeriveType(odd, retrieve.Capabilities{Select: true, OrderBy: true})
	require.NoError(t, err)

	// collisions are found through relations too
	parent := typeval.Entity("Parent", []typeval.Field{
		{Name: "children", Type: typeval.Array(odd)},
	})
	_, err = retrieve.DeriveType(parent, retrieve.Capabilities{Where: true})
	require.Error(t, err)
}

func TestDeriveType_CyclicGraphTerminates(t *testing.T) {
	shape, err := retrieve.DeriveType(userEntity(), retrieve.AllCapabilities())
	require.NoError(t, err)

	// a retrieve that loops User -> Post -> User decodes end to end
	v := decodeRetrieve(t, shape, map[string]any{
		"select": map[string]any{
			"posts": map[string]any{
				"select": map[string]any{
					"author": map[string]any{
						"select": map[string]any{"name": true},
					},
				},
			},
		},
	})
	require.Contains(t, v, "select")
}
