package openapi

import (
	"cmp"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// recordPathOrder stores where each key of the document's paths object was
// declared in doc.Paths.Origin. Documents that already carry origins, or that
// cannot be read as YAML, are left alone.
func recordPathOrder(doc *openapi3.T, data []byte) {
	if doc == nil || doc.Paths == nil || len(data) == 0 {
		return
	}
	if o := doc.Paths.Origin; o != nil && len(o.Fields) > 0 {
		return
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil || len(root.Content) == 0 {
		return
	}
	paths := mappingValue(root.Content[0], "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return
	}

	fields := make(map[string]openapi3.Location, len(paths.Content)/2)
	for i := 0; i+1 < len(paths.Content); i += 2 {
		k := paths.Content[i]
		fields[k.Value] = openapi3.Location{Line: k.Line, Column: k.Column}
	}
	if doc.Paths.Origin == nil {
		doc.Paths.Origin = &openapi3.Origin{}
	}
	doc.Paths.Origin.Fields = fields
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// OrderedPaths returns the path templates of paths in declaration order.
// Paths without a recorded location, such as those added with [AddPath],
// follow in lexical order.
func OrderedPaths(paths *openapi3.Paths) []string {
	if paths == nil {
		return nil
	}
	items := paths.Map()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var locs map[string]openapi3.Location
	if paths.Origin != nil {
		locs = paths.Origin.Fields
	}
	if len(locs) == 0 {
		return keys
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		la, okA := locs[a]
		lb, okB := locs[b]
		switch {
		case okA && okB:
			return cmp.Or(cmp.Compare(la.Line, lb.Line), cmp.Compare(la.Column, lb.Column))
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return keys
}
