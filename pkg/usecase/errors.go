package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrInvalidQuery    = errors.New("query must not be empty")
	ErrInvalidDocument = errors.New("document title and content are required")
	ErrInvalidAmount   = errors.New("credit amount must be positive")
	ErrInvalidUser     = errors.New("user ID is required")
)

// Context keys for error values
const (
	DocumentIDKey = "document_id"
	CostKey       = "cost"
	CreditsKey    = "credits"
)
