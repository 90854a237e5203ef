package feelgen

import (
	"iter"
	"strings"
)

type (
	// RuleBuilder produces rules for required fields and renders them in a
	// target rule language. FEELRuleBuilder is the default implementation.
	RuleBuilder interface {
		CreateRule(fieldPath string, kind FieldKind) ValidationRule
		Render(endpoints *Endpoints) string
	}

	// ValidationRule states when a single required field is invalid.
	ValidationRule struct {
		ID                string `json:"id" yaml:"id"`
		InvalidExpression string `json:"invalid" yaml:"invalid"`
		FieldPath         string `json:"field" yaml:"field"`
	}

	// Endpoint is one HTTP operation and the rules for its request body.
	Endpoint struct {
		Method string
		Path   string
		Rules  []ValidationRule
	}

	// Endpoints is an ordered collection of endpoint rule sets keyed by
	// heading. Iteration follows insertion order.
	Endpoints struct {
		order []string
		byKey map[string]*Endpoint
	}
)

// NewValidationRule builds a rule. An empty id, expression or path is a
// programming error and panics.
func NewValidationRule(id, invalidExpression, fieldPath string) ValidationRule {
	switch {
	case id == "":
		panic("feelgen: rule id must not be empty")
	case invalidExpression == "":
		panic("feelgen: rule expression must not be empty")
	case fieldPath == "":
		panic("feelgen: rule field path must not be empty")
	}
	return ValidationRule{ID: id, InvalidExpression: invalidExpression, FieldPath: fieldPath}
}

// Heading returns "# <METHOD> <path>".
func (e *Endpoint) Heading() string {
	return Heading(e.Method, e.Path)
}

// Heading formats an endpoint heading with the method upper-cased.
func Heading(method, path string) string {
	return "# " + strings.ToUpper(method) + " " + path
}

// NewEndpoints returns an empty collection.
func NewEndpoints() *Endpoints {
	return &Endpoints{byKey: map[string]*Endpoint{}}
}

// Add registers an endpoint, or appends rules to it if the heading is
// already present. An endpoint added without rules is kept with an empty
// rule list.
func (e *Endpoints) Add(method, path string, rules ...ValidationRule) {
	h := Heading(method, path)
	ep, ok := e.byKey[h]
	if !ok {
		ep = &Endpoint{Method: strings.ToUpper(method), Path: path, Rules: []ValidationRule{}}
		e.byKey[h] = ep
		e.order = append(e.order, h)
	}
	ep.Rules = append(ep.Rules, rules...)
}

// Len returns the number of endpoints.
func (e *Endpoints) Len() int { return len(e.order) }

// Headings returns the endpoint headings in insertion order.
func (e *Endpoints) Headings() []string {
	return append([]string(nil), e.order...)
}

// Get returns the endpoint registered under heading.
func (e *Endpoints) Get(heading string) (*Endpoint, bool) {
	ep, ok := e.byKey[heading]
	return ep, ok
}

// All iterates endpoints in insertion order.
func (e *Endpoints) All() iter.Seq[*Endpoint] {
	return func(yield func(*Endpoint) bool) {
		if e == nil {
			return
		}
		for _, h := range e.order {
			if !yield(e.byKey[h]) {
				return
			}
		}
	}
}
