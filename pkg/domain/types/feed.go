package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// FeedID identifies a configured live feed
type FeedID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks if the FeedID is valid
func (f FeedID) Validate() error {
	if f == "" {
		return goerr.New("feed ID cannot be empty")
	}
	if !idPattern.MatchString(string(f)) {
		return goerr.New("feed ID must be lowercase alphanumeric with hyphens", goerr.V("id", f))
	}
	return nil
}

// String returns the string representation of FeedID
func (f FeedID) String() string {
	return string(f)
}
