package usecase

import "errors"

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeBadFormat    = "BAD_FORMAT"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError is an expected, user-actionable failure.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a storage or infrastructure failure after validation
// passed. It is surfaced to the caller and never retried here.
// Summary names the failed operation without the underlying cause and is
// safe to send to clients.
type TechnicalError struct {
	Code    string
	Message string
	Summary string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by err, CodeInternal for anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeInternal
}

func validationFailed(errs []ValidationError) *DomainError {
	return &DomainError{Code: CodeValidation, Message: "validation failed", Fields: errs}
}

func notFound() *DomainError {
	return &DomainError{Code: CodeNotFound, Message: "Not found"}
}

func conflict() *DomainError {
	return &DomainError{Code: CodeConflict, Message: "Record changed, please refresh"}
}

func badFormat(msg string) *DomainError {
	return &DomainError{Code: CodeBadFormat, Message: msg}
}

func internal(msg string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeInternal, Message: msg + ": " + err.Error(), Summary: msg, Err: err}
}

func unauthorized() *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: "Unauthorized"}
}
