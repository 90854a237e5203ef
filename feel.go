package feelgen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RequestAccessor is the FEEL variable every rule reads the payload from.
const RequestAccessor = "req"

// ExpressionBuilder renders the FEEL "is invalid" predicate for a kind.
type ExpressionBuilder struct{}

// Build returns a FEEL boolean that is true when the value at accessor is
// missing or has the wrong shape for kind.
func (ExpressionBuilder) Build(accessor string, kind FieldKind) string {
	x := accessor
	switch kind {
	case KindString:
		return x + "=null or not(" + x + " instance of string) or is blank(" + x + ")"
	case KindNumber:
		return x + "=null or number(" + x + ")=null"
	case KindBoolean:
		return x + "=null or not(" + x + " instance of boolean)"
	case KindArray:
		return x + "=null or is empty(" + x + ")"
	case KindObject:
		return x + "=null or not(" + x + " instance of context)"
	default:
		return x + "=null"
	}
}

// FEELRuleBuilder compiles required fields into FEEL validation blocks.
// In response mode the block evaluates to a context carrying a response
// body and status code, otherwise to a plain boolean.
type FEELRuleBuilder struct {
	addResponse bool
	success     int
	failure     int
	expr        ExpressionBuilder
}

var _ RuleBuilder = (*FEELRuleBuilder)(nil)

// NewFEELRuleBuilder validates opts and returns a builder. Status codes
// outside 100-599 are rejected here, before any rule is built.
func NewFEELRuleBuilder(opts Options) (*FEELRuleBuilder, error) {
	if err := opts.validateStatusCodes(); err != nil {
		return nil, err
	}
	return &FEELRuleBuilder{
		addResponse: opts.AddResponse,
		success:     opts.SuccessStatusCode,
		failure:     opts.FailureStatusCode,
	}, nil
}

// CreateRule returns the rule for fieldPath, addressed as req.<fieldPath>.
func (b *FEELRuleBuilder) CreateRule(fieldPath string, kind FieldKind) ValidationRule {
	return NewValidationRule(
		fieldPath+"-invalid",
		b.expr.Build(RequestAccessor+"."+fieldPath, kind),
		fieldPath,
	)
}

// Render writes each endpoint as its heading followed by its block.
// Blocks are separated by a blank line.
func (b *FEELRuleBuilder) Render(endpoints *Endpoints) string {
	var out strings.Builder
	first := true
	for ep := range endpoints.All() {
		if !first {
			out.WriteString("\n\n")
		}
		first = false
		out.WriteString(ep.Heading())
		out.WriteString("\n")
		out.WriteString(b.Block(ep.Rules))
	}
	return strings.TrimRightFunc(out.String(), unicode.IsSpace)
}

// Block renders the FEEL expression for one endpoint's rules.
func (b *FEELRuleBuilder) Block(rules []ValidationRule) string {
	var s strings.Builder
	s.WriteString("{\n")
	s.WriteString("  " + RequestAccessor + ": request.body,\n")
	s.WriteString("  rules: [\n")
	for i, r := range rules {
		s.WriteString("    " + b.ruleLine(r))
		if i < len(rules)-1 {
			s.WriteString(",")
		}
		s.WriteString("\n")
	}
	s.WriteString("  ],\n")
	s.WriteString("  isValid: count(rules[invalid=true])=0")

	if b.addResponse {
		b.response(&s)
		s.WriteString("\n}")
	} else {
		s.WriteString("\n}.isValid")
	}
	return s.String()
}

func (b *FEELRuleBuilder) ruleLine(r ValidationRule) string {
	if b.addResponse {
		return fmt.Sprintf("{ id: %s, field: %s, invalid: %s }",
			strconv.Quote(r.ID), strconv.Quote(r.FieldPath), r.InvalidExpression)
	}
	return fmt.Sprintf("{id: %s, invalid: %s}", strconv.Quote(r.ID), r.InvalidExpression)
}

func (b *FEELRuleBuilder) response(s *strings.Builder) {
	s.WriteString(",\n")
	s.WriteString("  body: {\n")
	s.WriteString("    message: if isValid then \"Process successfully started.\" else \"Process creation failed.\",\n")
	s.WriteString("    processInstanceKey: if isValid then correlation.processInstanceKey else null,\n")
	s.WriteString("    details: rules[invalid=true]\n")
	fmt.Fprintf(s, "  }, statusCode: if isValid then %d else %d", b.success, b.failure)
}
