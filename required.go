package feelgen

import (
	"iter"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultMaxDepth bounds how deep the extractor follows nested objects and
// compositions in graphs that are deep but not cyclic.
const DefaultMaxDepth = 64

// RequiredFields is an ordered mapping of dotted field paths to their kinds.
// Insertion order is the extractor's traversal order.
type RequiredFields struct {
	paths []string
	kinds map[string]FieldKind
}

func newRequiredFields() *RequiredFields {
	return &RequiredFields{kinds: map[string]FieldKind{}}
}

// add inserts path unless it is already present. It reports whether the
// value was stored.
func (f *RequiredFields) add(path string, kind FieldKind) bool {
	if _, ok := f.kinds[path]; ok {
		return false
	}
	f.paths = append(f.paths, path)
	f.kinds[path] = kind
	return true
}

// Len returns the number of required fields.
func (f *RequiredFields) Len() int { return len(f.paths) }

// Has reports whether path was collected.
func (f *RequiredFields) Has(path string) bool {
	_, ok := f.kinds[path]
	return ok
}

// Get returns the kind stored for path.
func (f *RequiredFields) Get(path string) (FieldKind, bool) {
	k, ok := f.kinds[path]
	return k, ok
}

// Paths returns the field paths in insertion order.
func (f *RequiredFields) Paths() []string {
	return slices.Clone(f.paths)
}

// All iterates path/kind pairs in insertion order.
func (f *RequiredFields) All() iter.Seq2[string, FieldKind] {
	return func(yield func(string, FieldKind) bool) {
		for _, p := range f.paths {
			if !yield(p, f.kinds[p]) {
				return
			}
		}
	}
}

// ConflictFunc is called when a field path is discovered again with a kind
// different from the one already stored. The stored kind is kept.
type ConflictFunc func(path string, kept, ignored FieldKind)

// Extractor walks a schema graph and collects every required field path.
type Extractor struct {
	resolver   *KindResolver
	maxDepth   int
	onConflict ConflictFunc
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) ExtractorOption {
	return func(e *Extractor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithConflictFunc registers f to observe kind conflicts between branches.
func WithConflictFunc(f ConflictFunc) ExtractorOption {
	return func(e *Extractor) {
		e.onConflict = f
	}
}

// NewExtractor returns an Extractor classifying fields with resolver.
func NewExtractor(resolver *KindResolver, opts ...ExtractorOption) *Extractor {
	if resolver == nil {
		resolver = &KindResolver{}
	}
	e := &Extractor{resolver: resolver, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(e)
	}
	return e
}

// walk is the state of a single Extract call.
type walk struct {
	*Extractor
	fields  *RequiredFields
	visited map[*openapi3.Schema]struct{}
}

// Extract returns the required fields of root. Composition members share
// the parent's prefix and nested object properties extend it. Each schema
// instance is visited at most once, so cyclic graphs terminate.
func (e *Extractor) Extract(root *openapi3.SchemaRef) *RequiredFields {
	w := &walk{
		Extractor: e,
		fields:    newRequiredFields(),
		visited:   map[*openapi3.Schema]struct{}{},
	}
	w.collect(root, "", 0)
	return w.fields
}

func (w *walk) collect(ref *openapi3.SchemaRef, prefix string, depth int) {
	if depth > w.maxDepth {
		return
	}
	s := w.resolver.ResolveRef(ref)
	if s == nil {
		return
	}
	if _, seen := w.visited[s]; seen {
		return
	}
	w.visited[s] = struct{}{}

	w.direct(s, prefix)

	for _, members := range []openapi3.SchemaRefs{s.AllOf, s.OneOf, s.AnyOf} {
		for _, m := range members {
			w.collect(m, prefix, depth+1)
		}
	}

	for _, name := range sortedKeys(s.Properties) {
		prop := s.Properties[name]
		if w.resolver.Resolve(prop) == KindObject {
			w.collect(prop, joinPath(prefix, name), depth+1)
		}
	}
}

func (w *walk) direct(s *openapi3.Schema, prefix string) {
	if s.Required == nil || s.Properties == nil {
		return
	}
	names := slices.Clone(s.Required)
	slices.Sort(names)
	for _, name := range names {
		path := joinPath(prefix, name)
		kind := w.resolver.Resolve(s.Properties[name])
		if w.fields.add(path, kind) {
			continue
		}
		if kept, _ := w.fields.Get(path); kept != kind && w.onConflict != nil {
			w.onConflict(path, kept, kind)
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func sortedKeys(m openapi3.Schemas) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
