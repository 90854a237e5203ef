package feelgen_test

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"

	"github.com/Gobd/feelgen"
)

func typed(types ...string) *openapi3.SchemaRef {
	t := openapi3.Types(types)
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &t}}
}

func TestResolveDeclaredTypes(t *testing.T) {
	r := feelgen.NewKindResolver(nil)

	tests := []struct {
		name string
		ref  *openapi3.SchemaRef
		want feelgen.FieldKind
	}{
		{"string", typed("string"), feelgen.KindString},
		{"upper case", typed("STRING"), feelgen.KindString},
		{"number", typed("number"), feelgen.KindNumber},
		{"integer", typed("integer"), feelgen.KindNumber},
		{"boolean", typed("boolean"), feelgen.KindBoolean},
		{"array", typed("array"), feelgen.KindArray},
		{"object", typed("object"), feelgen.KindObject},
		{"unknown type", typed("file"), feelgen.KindUnknown},
		{"nullable 3.1 list", typed("null", "integer"), feelgen.KindNumber},
		{"only null", typed("null"), feelgen.KindUnknown},
		{"nil ref", nil, feelgen.KindUnknown},
		{"nil value", &openapi3.SchemaRef{}, feelgen.KindUnknown},
		{"untyped with properties", &openapi3.SchemaRef{Value: &openapi3.Schema{
			Properties: openapi3.Schemas{},
		}}, feelgen.KindObject},
		{"untyped with required", &openapi3.SchemaRef{Value: &openapi3.Schema{
			Required: []string{},
		}}, feelgen.KindObject},
		{"untyped bare", &openapi3.SchemaRef{Value: &openapi3.Schema{}}, feelgen.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.ref))
			// Pure: same input, same answer.
			assert.Equal(t, tt.want, r.Resolve(tt.ref))
		})
	}
}

func TestResolveReferences(t *testing.T) {
	address := typed("object").Value
	r := feelgen.NewKindResolverFromSchemas(openapi3.Schemas{
		"Address": {Value: address},
		"Empty":   {},
	})

	t.Run("component reference", func(t *testing.T) {
		ref := &openapi3.SchemaRef{Ref: "#/components/schemas/Address"}
		assert.Equal(t, feelgen.KindObject, r.Resolve(ref))
		assert.Same(t, address, r.ResolveRef(ref))
	})

	t.Run("missing component falls back to value", func(t *testing.T) {
		ref := &openapi3.SchemaRef{Ref: "#/components/schemas/Missing", Value: typed("string").Value}
		assert.Equal(t, feelgen.KindString, r.Resolve(ref))
	})

	t.Run("component without value falls back", func(t *testing.T) {
		ref := &openapi3.SchemaRef{Ref: "#/components/schemas/Empty"}
		assert.Equal(t, feelgen.KindUnknown, r.Resolve(ref))
	})

	t.Run("foreign namespace falls back to value", func(t *testing.T) {
		ref := &openapi3.SchemaRef{Ref: "#/definitions/Address", Value: typed("boolean").Value}
		assert.Equal(t, feelgen.KindBoolean, r.Resolve(ref))
	})

	t.Run("document without components", func(t *testing.T) {
		r := feelgen.NewKindResolver(&openapi3.T{})
		ref := &openapi3.SchemaRef{Ref: "#/components/schemas/Address"}
		assert.Equal(t, feelgen.KindUnknown, r.Resolve(ref))
	})
}

func TestFieldKindString(t *testing.T) {
	for _, k := range []feelgen.FieldKind{
		feelgen.KindString, feelgen.KindNumber, feelgen.KindBoolean,
		feelgen.KindArray, feelgen.KindObject, feelgen.KindUnknown,
	} {
		parsed, ok := feelgen.ParseFieldKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	assert.Equal(t, "STRING", feelgen.KindString.String())
	assert.Equal(t, "UNKNOWN", feelgen.FieldKind(42).String())

	_, ok := feelgen.ParseFieldKind("date")
	assert.False(t, ok)
}
