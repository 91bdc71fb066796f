package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateFeedID = goerr.New("duplicate feed ID")
	ErrInvalidFeedID   = goerr.New("invalid feed ID format")
	ErrInvalidURL      = goerr.New("invalid URL")
	ErrMissingName     = goerr.New("name is required")
	ErrMissingTitle    = goerr.New("title is required")
	ErrOutOfRange      = goerr.New("value out of range")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	FeedIDKey      = "feed_id"
	FieldKey       = "field"
	ValueKey       = "value"
	CorpusIndexKey = "corpus_index"
)
