package feelgen_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gobd/feelgen"
)

func object(required []string, props openapi3.Schemas) *openapi3.Schema {
	t := openapi3.Types{openapi3.TypeObject}
	return &openapi3.Schema{Type: &t, Required: required, Properties: props}
}

func ref(s *openapi3.Schema) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: s}
}

func fieldMap(f *feelgen.RequiredFields) map[string]feelgen.FieldKind {
	out := map[string]feelgen.FieldKind{}
	for p, k := range f.All() {
		out[p] = k
	}
	return out
}

func TestExtractSingleField(t *testing.T) {
	root := ref(&openapi3.Schema{
		Required:   []string{"name"},
		Properties: openapi3.Schemas{"name": typed("string")},
	})

	fields := feelgen.NewExtractor(nil).Extract(root)

	assert.Equal(t, []string{"name"}, fields.Paths())
	kind, ok := fields.Get("name")
	assert.True(t, ok)
	assert.Equal(t, feelgen.KindString, kind)
}

func TestExtractEmpty(t *testing.T) {
	e := feelgen.NewExtractor(nil)

	assert.Equal(t, 0, e.Extract(nil).Len())
	assert.Equal(t, 0, e.Extract(&openapi3.SchemaRef{}).Len())
	assert.Equal(t, 0, e.Extract(typed("object")).Len())

	// Required names without a properties map are not collected.
	assert.Equal(t, 0, e.Extract(ref(&openapi3.Schema{Required: []string{"id"}})).Len())
}

func TestExtractSortsRequiredNames(t *testing.T) {
	root := ref(object([]string{"zeta", "alpha", "mid"}, openapi3.Schemas{
		"zeta":  typed("boolean"),
		"alpha": typed("integer"),
		"mid":   typed("array"),
	}))

	fields := feelgen.NewExtractor(nil).Extract(root)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, fields.Paths())
	assert.Equal(t, map[string]feelgen.FieldKind{
		"alpha": feelgen.KindNumber,
		"mid":   feelgen.KindArray,
		"zeta":  feelgen.KindBoolean,
	}, fieldMap(fields))
}

func TestExtractRequiredWithoutProperty(t *testing.T) {
	root := ref(object([]string{"ghost"}, openapi3.Schemas{}))
	fields := feelgen.NewExtractor(nil).Extract(root)

	kind, ok := fields.Get("ghost")
	require.True(t, ok)
	assert.Equal(t, feelgen.KindUnknown, kind)
}

func TestExtractComposition(t *testing.T) {
	for _, op := range []string{"allOf", "oneOf", "anyOf"} {
		t.Run(op, func(t *testing.T) {
			members := openapi3.SchemaRefs{
				ref(&openapi3.Schema{Required: []string{"id"}, Properties: openapi3.Schemas{"id": typed("integer")}}),
				ref(&openapi3.Schema{Required: []string{"content"}, Properties: openapi3.Schemas{"content": typed("string")}}),
			}
			root := &openapi3.Schema{}
			switch op {
			case "allOf":
				root.AllOf = members
			case "oneOf":
				root.OneOf = members
			case "anyOf":
				root.AnyOf = members
			}

			fields := feelgen.NewExtractor(nil).Extract(ref(root))

			assert.Equal(t, []string{"id", "content"}, fields.Paths())
			assert.Equal(t, feelgen.KindNumber, fieldMap(fields)["id"])
			assert.Equal(t, feelgen.KindString, fieldMap(fields)["content"])
		})
	}
}

func TestExtractCompositionOrder(t *testing.T) {
	root := object([]string{"own"}, openapi3.Schemas{"own": typed("string")})
	root.AnyOf = openapi3.SchemaRefs{ref(object([]string{"c"}, openapi3.Schemas{"c": typed("string")}))}
	root.OneOf = openapi3.SchemaRefs{ref(object([]string{"b"}, openapi3.Schemas{"b": typed("string")}))}
	root.AllOf = openapi3.SchemaRefs{ref(object([]string{"a"}, openapi3.Schemas{"a": typed("string")}))}

	fields := feelgen.NewExtractor(nil).Extract(ref(root))
	assert.Equal(t, []string{"own", "a", "b", "c"}, fields.Paths())
}

func TestExtractFirstKindWins(t *testing.T) {
	root := &openapi3.Schema{OneOf: openapi3.SchemaRefs{
		ref(object([]string{"x"}, openapi3.Schemas{"x": typed("string")})),
		ref(object([]string{"x"}, openapi3.Schemas{"x": typed("number")})),
	}}

	type conflict struct {
		path          string
		kept, ignored feelgen.FieldKind
	}
	var got []conflict
	e := feelgen.NewExtractor(nil, feelgen.WithConflictFunc(func(path string, kept, ignored feelgen.FieldKind) {
		got = append(got, conflict{path, kept, ignored})
	}))

	fields := e.Extract(ref(root))

	assert.Equal(t, []string{"x"}, fields.Paths())
	assert.Equal(t, feelgen.KindString, fieldMap(fields)["x"])
	assert.Equal(t, []conflict{{"x", feelgen.KindString, feelgen.KindNumber}}, got)
}

func TestExtractNestedObjects(t *testing.T) {
	address := object([]string{"city"}, openapi3.Schemas{
		"city": typed("string"),
		"zip":  typed("string"),
	})
	meta := &openapi3.Schema{
		Required:   []string{"source"},
		Properties: openapi3.Schemas{"source": typed("string")},
	}
	root := ref(object([]string{"address", "name"}, openapi3.Schemas{
		"name":    typed("string"),
		"address": ref(address),
		// meta itself is optional but its own required fields are collected.
		"meta": ref(meta),
		"tags": typed("array"),
	}))

	fields := feelgen.NewExtractor(nil).Extract(root)

	assert.Equal(t, []string{"address", "name", "address.city", "meta.source"}, fields.Paths())
	assert.False(t, fields.Has("meta"))
	assert.Equal(t, feelgen.KindObject, fieldMap(fields)["address"])
}

func TestExtractFollowsComponentReferences(t *testing.T) {
	schemas := openapi3.Schemas{
		"Address": ref(object([]string{"street"}, openapi3.Schemas{"street": typed("string")})),
	}
	root := ref(object([]string{"home"}, openapi3.Schemas{
		"home": {Ref: "#/components/schemas/Address"},
	}))

	fields := feelgen.NewExtractor(feelgen.NewKindResolverFromSchemas(schemas)).Extract(root)

	assert.Equal(t, []string{"home", "home.street"}, fields.Paths())
	assert.Equal(t, feelgen.KindObject, fieldMap(fields)["home"])
}

func TestExtractTerminatesOnCycles(t *testing.T) {
	t.Run("self composition", func(t *testing.T) {
		s := object([]string{"id"}, openapi3.Schemas{"id": typed("string")})
		s.AllOf = openapi3.SchemaRefs{ref(s)}
		s.OneOf = openapi3.SchemaRefs{ref(&openapi3.Schema{AnyOf: openapi3.SchemaRefs{ref(s)}})}

		fields := feelgen.NewExtractor(nil).Extract(ref(s))
		assert.Equal(t, []string{"id"}, fields.Paths())
	})

	t.Run("recursive property", func(t *testing.T) {
		node := object([]string{"name", "child"}, openapi3.Schemas{"name": typed("string")})
		node.Properties["child"] = ref(node)

		fields := feelgen.NewExtractor(nil).Extract(ref(node))
		assert.Equal(t, []string{"child", "name"}, fields.Paths())
	})

	t.Run("mutual references", func(t *testing.T) {
		schemas := openapi3.Schemas{
			"A": ref(object([]string{"b"}, openapi3.Schemas{"b": {Ref: "#/components/schemas/B"}})),
			"B": ref(object([]string{"a"}, openapi3.Schemas{"a": {Ref: "#/components/schemas/A"}})),
		}
		e := feelgen.NewExtractor(feelgen.NewKindResolverFromSchemas(schemas))

		fields := e.Extract(&openapi3.SchemaRef{Ref: "#/components/schemas/A"})
		assert.Equal(t, []string{"b", "b.a"}, fields.Paths())
	})

	t.Run("visited set does not leak between calls", func(t *testing.T) {
		s := object([]string{"id"}, openapi3.Schemas{"id": typed("string")})
		s.AllOf = openapi3.SchemaRefs{ref(s)}
		e := feelgen.NewExtractor(nil)

		assert.Equal(t, 1, e.Extract(ref(s)).Len())
		assert.Equal(t, 1, e.Extract(ref(s)).Len())
	})
}

func TestExtractVisitsByIdentity(t *testing.T) {
	newItem := func() *openapi3.Schema {
		return object([]string{"id"}, openapi3.Schemas{"id": typed("string")})
	}

	t.Run("equal but distinct schemas", func(t *testing.T) {
		root := ref(object(nil, openapi3.Schemas{"x": ref(newItem()), "y": ref(newItem())}))
		fields := feelgen.NewExtractor(nil).Extract(root)
		assert.Equal(t, []string{"x.id", "y.id"}, fields.Paths())
	})

	t.Run("shared instance", func(t *testing.T) {
		shared := newItem()
		root := ref(object(nil, openapi3.Schemas{"x": ref(shared), "y": ref(shared)}))
		fields := feelgen.NewExtractor(nil).Extract(root)
		assert.Equal(t, []string{"x.id"}, fields.Paths())
	})
}

func TestExtractMaxDepth(t *testing.T) {
	leaf := object([]string{"leaf"}, openapi3.Schemas{"leaf": typed("string")})
	root := leaf
	for range 10 {
		root = object([]string{"n"}, openapi3.Schemas{"n": ref(root)})
	}

	assert.Equal(t, 11, feelgen.NewExtractor(nil).Extract(ref(root)).Len())

	fields := feelgen.NewExtractor(nil, feelgen.WithMaxDepth(3)).Extract(ref(root))
	assert.Equal(t, []string{"n", "n.n", "n.n.n", "n.n.n.n"}, fields.Paths())
}

func TestExtractDeterministicOrder(t *testing.T) {
	faker := gofakeit.New(7)

	seen := map[string]bool{}
	var names []string
	for len(names) < 40 {
		n := strings.ToLower(faker.LetterN(6))
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	build := func() *openapi3.SchemaRef {
		required := slices.Clone(names)
		faker.ShuffleStrings(required)
		props := openapi3.Schemas{}
		for _, n := range required {
			props[n] = typed("string")
		}
		return ref(object(required, props))
	}

	want := slices.Clone(names)
	slices.Sort(want)

	e := feelgen.NewExtractor(nil)
	first := e.Extract(build()).Paths()
	second := e.Extract(build()).Paths()

	assert.Equal(t, want, first)
	assert.Equal(t, first, second)
}
