package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrStore = fmt.Errorf("store unavailable")

	// Session errors
	ErrNotFound             = fmt.Errorf("not found")
	ErrNoSelection          = fmt.Errorf("no speaker selected")
	ErrSpeakerCommunication = fmt.Errorf("speaker communication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
