package ingestion

import "errors"

// Every failure leaving Ingest wraps exactly one of these sentinels.
var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrCredentialMissing = errors.New("parser credential missing")
	ErrProvider          = errors.New("provider error")
	ErrMapping           = errors.New("mapping error")
	ErrValidation        = errors.New("validation error")
	ErrPersistence       = errors.New("persistence error")
)

const (
	ErrorCodeFileTooLarge      = "FILE_TOO_LARGE"
	ErrorCodeCredentialMissing = "CREDENTIAL_MISSING"
	ErrorCodeProvider          = "PROVIDER_ERROR"
	ErrorCodeMapping           = "MAPPING_ERROR"
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodePersistence       = "PERSISTENCE_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)

// Code maps a classified error to its wire code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return ErrorCodeFileTooLarge
	case errors.Is(err, ErrCredentialMissing):
		return ErrorCodeCredentialMissing
	case errors.Is(err, ErrProvider):
		return ErrorCodeProvider
	case errors.Is(err, ErrMapping):
		return ErrorCodeMapping
	case errors.Is(err, ErrValidation):
		return ErrorCodeValidation
	case errors.Is(err, ErrPersistence):
		return ErrorCodePersistence
	default:
		return ErrorCodeInternal
	}
}
