package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across layers
var (
	// ErrNotFound is returned by repositories when an entity does not exist
	ErrNotFound = goerr.New("not found")

	// ErrNoEvidence means every enabled channel returned nothing (or none was enabled)
	ErrNoEvidence = goerr.New("no evidence available")

	// ErrSynthesisFailed means the generative model call failed or returned an unusable response
	ErrSynthesisFailed = goerr.New("synthesis failed")

	// ErrInsufficientCredits means the user cannot pay for another report
	ErrInsufficientCredits = goerr.New("insufficient credits")
)

// Context keys for error values
const (
	UserIDKey   = "user_id"
	ReportIDKey = "report_id"
	QueryKey    = "query"
)
