package feelgen

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// BlockRenderer is implemented by builders that can render the expression
// of a single endpoint. Manifests embed it next to the rule list.
type BlockRenderer interface {
	Block(rules []ValidationRule) string
}

// Manifest is the structured form of a compiled document.
type Manifest struct {
	Endpoints []ManifestEndpoint `json:"endpoints" yaml:"endpoints"`
}

// ManifestEndpoint is one endpoint of a Manifest.
type ManifestEndpoint struct {
	Method     string           `json:"method" yaml:"method"`
	Path       string           `json:"path" yaml:"path"`
	Rules      []ValidationRule `json:"rules" yaml:"rules"`
	Expression string           `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// ManifestRuleBuilder renders endpoints as a JSON or YAML manifest. Rules are
// produced by the wrapped builder.
type ManifestRuleBuilder struct {
	inner  RuleBuilder
	format string
}

var _ RuleBuilder = (*ManifestRuleBuilder)(nil)

// NewManifestRuleBuilder wraps inner. format is FormatJSON or FormatYAML.
func NewManifestRuleBuilder(inner RuleBuilder, format string) (*ManifestRuleBuilder, error) {
	switch format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported manifest format: %q", format)
	}
	return &ManifestRuleBuilder{inner: inner, format: format}, nil
}

// CreateRule delegates to the wrapped builder.
func (b *ManifestRuleBuilder) CreateRule(fieldPath string, kind FieldKind) ValidationRule {
	return b.inner.CreateRule(fieldPath, kind)
}

// Render encodes the manifest. Encoding of these plain types cannot fail;
// an error would be a defect and panics.
func (b *ManifestRuleBuilder) Render(endpoints *Endpoints) string {
	m := b.Manifest(endpoints)

	var (
		out []byte
		err error
	)
	if b.format == FormatJSON {
		out, err = json.MarshalIndent(m, "", "  ")
	} else {
		out, err = yaml.Marshal(m)
	}
	if err != nil {
		panic(fmt.Sprintf("feelgen: encode %s manifest: %v", b.format, err))
	}
	return strings.TrimRight(string(out), " \t\r\n")
}

// Manifest builds the structured document without encoding it.
func (b *ManifestRuleBuilder) Manifest(endpoints *Endpoints) Manifest {
	block, _ := b.inner.(BlockRenderer)
	m := Manifest{Endpoints: []ManifestEndpoint{}}
	for ep := range endpoints.All() {
		me := ManifestEndpoint{Method: ep.Method, Path: ep.Path, Rules: ep.Rules}
		if block != nil {
			me.Expression = block.Block(ep.Rules)
		}
		m.Endpoints = append(m.Endpoints, me)
	}
	return m
}

// NewRuleBuilder returns the builder selected by opts.Format.
func NewRuleBuilder(opts Options) (RuleBuilder, error) {
	feel, err := NewFEELRuleBuilder(opts)
	if err != nil {
		return nil, err
	}
	switch opts.Format {
	case "", FormatFEEL:
		return feel, nil
	default:
		return NewManifestRuleBuilder(feel, opts.Format)
	}
}
