package openapi

import (
	"reflect"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// NewSchemaRefForValue generates an OpenAPI schema for the given value.
// Struct fields tagged validate:"required" are listed in the schema's
// required set under their JSON name.
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(requiredFromTags))
	return g.NewSchemaRefForValue(value, nil)
}

func requiredFromTags(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || schema.Properties == nil {
		return nil
	}
	markRequired(t, schema)
	return nil
}

// markRequired walks t's fields, descending into embedded structs whose
// fields openapi3gen inlines into the parent.
func markRequired(t reflect.Type, schema *openapi3.Schema) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Anonymous {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				markRequired(inner, schema)
			}
			continue
		}
		if !sf.IsExported() || !hasTagOption(sf.Tag.Get("validate"), "required") {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}
		if _, ok := schema.Properties[name]; !ok {
			continue
		}
		if !slices.Contains(schema.Required, name) {
			schema.Required = append(schema.Required, name)
		}
	}
}

// jsonName returns the property name from the json tag. openapi3gen only
// emits tagged fields, so untagged fields have no name.
func jsonName(sf reflect.StructField) string {
	return strings.Split(sf.Tag.Get("json"), ",")[0]
}

func hasTagOption(tag, option string) bool {
	for _, part := range strings.Split(tag, ",") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}
