package apperror

import "fmt"

// Transport creates an error for a call that obtained no response.
func Transport(operation string, cause error) *AppError {
	return New(CodeTransportError, WithContext(operation), WithCause(cause))
}

// HTTPStatus creates an error for a non-success response. The body is kept
// verbatim since it is not necessarily JSON.
func HTTPStatus(operation string, status int, body []byte) *AppError {
	return New(CodeHTTPStatusError,
		WithMessage(fmt.Sprintf("Wallet daemon returned status %d", status)),
		WithContext(operation),
		WithStatusCode(status),
		WithBody(body),
	)
}

// Decode creates an error for a body that failed to parse.
func Decode(operation string, body []byte, cause error) *AppError {
	return New(CodeDecodeError, WithContext(operation), WithBody(body), WithCause(cause))
}

// Validation creates an error for a value that does not match its shape.
func Validation(operation, field, expected, actual string) *AppError {
	return New(CodeValidationError,
		WithContext(operation),
		WithField(field),
		WithMessage(fmt.Sprintf("expected %s, got %s", expected, actual)),
	)
}

// Domain creates an error for a tag or code outside its closed set.
func Domain(field, message string) *AppError {
	return New(CodeDomainError, WithField(field), WithMessage(message))
}

// Application creates an error from a daemon JSON-RPC error object. Code and
// message are carried verbatim.
func Application(operation string, rpcCode int, message string) *AppError {
	return New(CodeApplicationError,
		WithContext(operation),
		WithStatusCode(rpcCode),
		WithMessage(message),
	)
}

func IsTransport(err error) bool   { return HasCode(err, CodeTransportError) }
func IsHTTPStatus(err error) bool  { return HasCode(err, CodeHTTPStatusError) }
func IsDecode(err error) bool      { return HasCode(err, CodeDecodeError) }
func IsValidation(err error) bool  { return HasCode(err, CodeValidationError) }
func IsDomain(err error) bool      { return HasCode(err, CodeDomainError) }
func IsApplication(err error) bool { return HasCode(err, CodeApplicationError) }
func IsNotFound(err error) bool    { return HasCode(err, CodeNotFound) }
