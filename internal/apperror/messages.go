package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:    "Invalid input provided",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Response does not match the expected shape",

	CodeConfigurationError: "Configuration error",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Daemon pipeline
	CodeTransportError:   "Wallet daemon unreachable",
	CodeHTTPStatusError:  "Wallet daemon returned an error status",
	CodeDecodeError:      "Wallet daemon returned malformed JSON",
	CodeDomainError:      "Value outside the known set",
	CodeApplicationError: "Wallet daemon rejected the call",

	// Wallet
	CodeFaucetOnMainnet:      "Faucet transactions are not allowed on mainnet",
	CodeConfirmationTimeout:  "Transaction was not confirmed in time",
	CodeUnsupportedOperation: "Operation not supported by this protocol",

	CodeCircuitOpen: "Circuit breaker is open",
}
