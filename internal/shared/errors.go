package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNoResults          = fmt.Errorf("no search results")

	// Per-candidate pipeline errors; each one advances to the next result
	ErrDownloadFailed     = fmt.Errorf("download failed")
	ErrConversionFailed   = fmt.Errorf("conversion failed")
	ErrVerificationFailed = fmt.Errorf("verification failed")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported format")

	// Terminal pipeline errors
	ErrNoValidNotation = fmt.Errorf("no valid notation found")

	// Launcher errors
	ErrEditorNotFound = fmt.Errorf("notation editor not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
