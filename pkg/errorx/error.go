package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string

	// Details holds per-field reasons of a validation failure.
	Details map[string]string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// NewValidation returns a BadRequest error carrying the field reasons.
func NewValidation(details map[string]string) Error {
	return Error{Code: BadRequest, Message: "Validation failed", Details: details}
}

func (e Error) WithDetail(field, reason string) Error {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[field] = reason
	e.Details = details
	return e
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}

	return e.Code == t.Code
}
