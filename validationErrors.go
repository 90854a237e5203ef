package feelgen

import validation "github.com/go-ozzo/ozzo-validation/v4"

// ValidationErrors maps option names to their validation errors.
// It is an alias for [validation.Errors] from ozzo-validation.
type ValidationErrors = validation.Errors
