package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Daemon pipeline error codes. Each stage of a call fails with its own code
// so callers can tell an unreachable daemon from a malformed reply.
const (
	// No response was obtained (refused, reset, timed out).
	CodeTransportError Code = "TRANSPORT_ERROR"
	// A response arrived with a non-success status.
	CodeHTTPStatusError Code = "HTTP_STATUS_ERROR"
	// The body is not valid wire JSON.
	CodeDecodeError Code = "DECODE_ERROR"
	// A tag or code is outside its closed set.
	CodeDomainError Code = "DOMAIN_ERROR"
	// The daemon returned a JSON-RPC error object.
	CodeApplicationError Code = "APPLICATION_ERROR"
)

// Wallet error codes
const (
	CodeFaucetOnMainnet      Code = "FAUCET_ON_MAINNET"
	CodeConfirmationTimeout  Code = "CONFIRMATION_TIMEOUT"
	CodeUnsupportedOperation Code = "UNSUPPORTED_OPERATION"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
