package feelgen

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Gobd/feelgen/transform"
)

// Output formats understood by NewRuleBuilder.
const (
	FormatFEEL = "feel"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options configures rule compilation. Use DefaultOptions as the starting
// point; the zero value is not valid.
type Options struct {
	// AddResponse renders blocks that evaluate to a response context
	// instead of a bare boolean.
	AddResponse bool `json:"add_response"`
	// SuccessStatusCode is returned when all rules pass. Default 201.
	SuccessStatusCode int `json:"success_status_code"`
	// FailureStatusCode is returned when any rule fails. Default 400.
	FailureStatusCode int `json:"failure_status_code"`
	// HTTPMethods lists the operations to compile, in output order.
	// Default POST, PUT, PATCH.
	HTTPMethods []string `json:"methods"`
	// Format selects the output: feel, json or yaml. Default feel.
	Format string `json:"format"`
	// MaxDepth bounds schema nesting. Default DefaultMaxDepth.
	MaxDepth int `json:"max_depth"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		SuccessStatusCode: http.StatusCreated,
		FailureStatusCode: http.StatusBadRequest,
		HTTPMethods:       []string{http.MethodPost, http.MethodPut, http.MethodPatch},
		Format:            FormatFEEL,
		MaxDepth:          DefaultMaxDepth,
	}
}

var knownMethods = []any{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodTrace,
	http.MethodConnect,
}

// Validate reports every invalid option as ValidationErrors.
func (o Options) Validate() error {
	methods := make([]string, len(o.HTTPMethods))
	for i, m := range o.HTTPMethods {
		methods[i] = strings.ToUpper(strings.TrimSpace(m))
	}
	return validation.ValidateStruct(&o,
		validation.Field(&o.SuccessStatusCode, statusCodeRules()...),
		validation.Field(&o.FailureStatusCode, statusCodeRules()...),
		validation.Field(&o.HTTPMethods, validation.By(func(any) error {
			return validation.Validate(methods, validation.Each(validation.Required, validation.In(knownMethods...)))
		})),
		validation.Field(&o.Format, validation.In(FormatFEEL, FormatJSON, FormatYAML)),
		validation.Field(&o.MaxDepth, validation.Min(0)),
	)
}

func (o Options) validateStatusCodes() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.SuccessStatusCode, statusCodeRules()...),
		validation.Field(&o.FailureStatusCode, statusCodeRules()...),
	)
}

func statusCodeRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("must be a valid HTTP status code (100-599)"),
		validation.Min(100).Error("must be a valid HTTP status code (100-599)"),
		validation.Max(599).Error("must be a valid HTTP status code (100-599)"),
	}
}

// Methods returns the configured methods upper-cased, trimmed and without
// empty entries.
func (o Options) Methods() []string {
	return transform.Strings(o.HTTPMethods, func(m string) string {
		return strings.ToUpper(strings.TrimSpace(m))
	})
}

// ParseMethods splits a comma separated method list such as "post, put".
func ParseMethods(csv string) []string {
	return Options{HTTPMethods: strings.Split(csv, ",")}.Methods()
}
