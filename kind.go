package feelgen

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FieldKind is the primitive shape a required field must have.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindString
	KindNumber
	KindBoolean
	KindArray
	KindObject
)

var kindNames = map[FieldKind]string{
	KindUnknown: "UNKNOWN",
	KindString:  "STRING",
	KindNumber:  "NUMBER",
	KindBoolean: "BOOLEAN",
	KindArray:   "ARRAY",
	KindObject:  "OBJECT",
}

func (k FieldKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return kindNames[KindUnknown]
}

// ParseFieldKind maps a kind name (case-insensitive) back to its FieldKind.
func ParseFieldKind(s string) (FieldKind, bool) {
	for k, n := range kindNames {
		if strings.EqualFold(n, s) {
			return k, true
		}
	}
	return KindUnknown, false
}

// SchemaRefPrefix is the only reference namespace the resolver follows.
const SchemaRefPrefix = "#/components/schemas/"

// KindResolver classifies schema nodes into a FieldKind, following
// references into the document's component schemas.
type KindResolver struct {
	schemas openapi3.Schemas
}

// NewKindResolver returns a resolver backed by doc's component schemas.
// A nil doc or a doc without components resolves no references.
func NewKindResolver(doc *openapi3.T) *KindResolver {
	if doc == nil || doc.Components == nil {
		return &KindResolver{}
	}
	return &KindResolver{schemas: doc.Components.Schemas}
}

// NewKindResolverFromSchemas returns a resolver backed by schemas.
func NewKindResolverFromSchemas(schemas openapi3.Schemas) *KindResolver {
	return &KindResolver{schemas: schemas}
}

// ResolveRef returns the schema ref points at. When the reference is outside
// #/components/schemas/ or missing from the registry, the node's own Value
// is returned instead.
func (r *KindResolver) ResolveRef(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	if name, ok := strings.CutPrefix(ref.Ref, SchemaRefPrefix); ok {
		if target, found := r.schemas[name]; found && target != nil && target.Value != nil {
			return target.Value
		}
	}
	return ref.Value
}

// Resolve classifies ref. It never fails: anything it cannot make sense of
// is KindUnknown.
func (r *KindResolver) Resolve(ref *openapi3.SchemaRef) FieldKind {
	return classify(r.ResolveRef(ref))
}

func classify(s *openapi3.Schema) FieldKind {
	if s == nil {
		return KindUnknown
	}
	typ := declaredType(s)
	if typ == "" {
		if s.Properties != nil || s.Required != nil {
			return KindObject
		}
		return KindUnknown
	}

	switch strings.ToLower(typ) {
	case openapi3.TypeString:
		return KindString
	case openapi3.TypeNumber, openapi3.TypeInteger:
		return KindNumber
	case openapi3.TypeBoolean:
		return KindBoolean
	case openapi3.TypeArray:
		return KindArray
	case openapi3.TypeObject:
		return KindObject
	default:
		return KindUnknown
	}
}

// declaredType returns the first non-null entry of the schema's type list.
// 3.1 documents may declare ["string", "null"].
func declaredType(s *openapi3.Schema) string {
	for _, t := range s.Type.Slice() {
		if !strings.EqualFold(t, "null") && t != "" {
			return t
		}
	}
	return ""
}
