// File: internal/services/suggest/errors.go
package suggest

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeTransport  ErrorType = "TRANSPORT"
	ErrTypeUpstream   ErrorType = "UPSTREAM"
	ErrTypePersist    ErrorType = "PERSIST"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type SuggestError struct {
	Type      ErrorType
	Operation string
	Message   string
	Variant   int
	Cause     error
}

func (e *SuggestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Suggest %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Suggest %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *SuggestError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *SuggestError {
	return &SuggestError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewTransportError(variant int, msg string, cause error) *SuggestError {
	return &SuggestError{Type: ErrTypeTransport, Operation: "stream", Message: msg, Variant: variant, Cause: cause}
}

func NewUpstreamError(variant, statusCode int) *SuggestError {
	return &SuggestError{
		Type:      ErrTypeUpstream,
		Operation: "stream",
		Message:   fmt.Sprintf("upstream returned status %d", statusCode),
		Variant:   variant,
	}
}
