package feelgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"

	"github.com/Gobd/feelgen/openapi"
)

// Generator compiles the request bodies of an OpenAPI document into rules
// and renders them with a RuleBuilder.
type Generator struct {
	opts    Options
	builder RuleBuilder
	load    LoadFunc
	log     zerolog.Logger
}

// LoadFunc reads the OpenAPI document at location. [openapi.Load] is the
// default.
type LoadFunc func(ctx context.Context, location string) (*openapi3.T, error)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRuleBuilder replaces the builder selected by Options.Format.
func WithRuleBuilder(b RuleBuilder) GeneratorOption {
	return func(g *Generator) {
		g.builder = b
	}
}

// WithLoader replaces how Generate and RenderLocation read documents.
func WithLoader(f LoadFunc) GeneratorOption {
	return func(g *Generator) {
		g.load = f
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.log = l
	}
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options, gopts ...GeneratorOption) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	g := &Generator{opts: opts, load: openapi.Load, log: zerolog.Nop()}
	for _, o := range gopts {
		o(g)
	}
	if g.builder == nil {
		b, err := NewRuleBuilder(opts)
		if err != nil {
			return nil, err
		}
		g.builder = b
	}
	return g, nil
}

// Compile collects the rules of every configured operation that declares a
// request body. Paths are visited in declaration order (see
// [openapi.OrderedPaths]) and methods in the configured order. Operations
// whose body has no required fields are kept with an empty rule list.
func (g *Generator) Compile(doc *openapi3.T) *Endpoints {
	endpoints := NewEndpoints()
	if doc == nil || doc.Paths == nil {
		return endpoints
	}

	extractor := NewExtractor(NewKindResolver(doc),
		WithMaxDepth(g.opts.MaxDepth),
		WithConflictFunc(func(path string, kept, ignored FieldKind) {
			g.log.Warn().
				Str("field", path).
				Stringer("kept", kept).
				Stringer("ignored", ignored).
				Msg("field declared with conflicting kinds; keeping the first")
		}),
	)

	for _, path := range openapi.OrderedPaths(doc.Paths) {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, method := range g.opts.Methods() {
			op := item.GetOperation(method)
			if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil ||
				op.RequestBody.Value.Content == nil {
				continue
			}
			rules := g.operationRules(extractor, op.RequestBody.Value.Content)
			endpoints.Add(method, path, rules...)
			g.log.Debug().
				Str("method", method).
				Str("path", path).
				Int("rules", len(rules)).
				Msg("compiled endpoint")
		}
	}
	return endpoints
}

func (g *Generator) operationRules(extractor *Extractor, content openapi3.Content) []ValidationRule {
	mediaTypes := make([]string, 0, len(content))
	for mt := range content {
		mediaTypes = append(mediaTypes, mt)
	}
	slices.Sort(mediaTypes)

	var rules []ValidationRule
	for _, mt := range mediaTypes {
		media := content[mt]
		if media == nil || media.Schema == nil {
			continue
		}
		for path, kind := range extractor.Extract(media.Schema).All() {
			rules = append(rules, g.builder.CreateRule(path, kind))
		}
	}
	return rules
}

// Render compiles doc and renders the result.
func (g *Generator) Render(doc *openapi3.T) string {
	return g.builder.Render(g.Compile(doc))
}

// RenderLocation loads the document at spec (a file path or URL) and renders
// it.
func (g *Generator) RenderLocation(ctx context.Context, spec string) (string, error) {
	doc, err := g.load(ctx, spec)
	if err != nil {
		return "", err
	}
	g.log.Info().Str("spec", spec).Msg("loaded OpenAPI document")
	return g.Render(doc), nil
}

// Generate renders the document at spec and writes the result to output,
// creating parent directories as needed.
func (g *Generator) Generate(ctx context.Context, spec, output string) error {
	rendered, err := g.RenderLocation(ctx, spec)
	if err != nil {
		return err
	}
	if err := WriteOutput(output, rendered); err != nil {
		return err
	}
	g.log.Info().Str("output", output).Msg("validation rules written")
	return nil
}

// WriteOutput writes rendered to path, creating parent directories.
func WriteOutput(path, rendered string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
