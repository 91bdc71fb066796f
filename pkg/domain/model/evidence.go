package model

import (
	"time"

	"github.com/briefwise/briefwise/pkg/domain/types"
)

// Confidence assigned to evidence by the adapter that produced it.
// Files are supplied by the user and trusted most; scraped web pages that
// could not be fetched fall back to their search snippet and are trusted least.
const (
	ConfidenceFile        = 0.9
	ConfidenceWeb         = 0.85
	ConfidenceWebFallback = 0.7
	ConfidenceLive        = 0.8
)

// DefaultConfidence is used when the model omits or garbles a score
const DefaultConfidence = 0.8

// Evidence is a unit of information that may ground a report.
// It is created per request by a source adapter and is never mutated afterwards.
type Evidence struct {
	Title       string        `json:"title" firestore:"Title"`
	Locator     string        `json:"locator" firestore:"Locator"`
	Content     string        `json:"content" firestore:"Content"`
	Channel     types.Channel `json:"channel" firestore:"Channel"`
	Confidence  float64       `json:"confidence" firestore:"Confidence"`
	PublishedAt *time.Time    `json:"published_at,omitempty" firestore:"PublishedAt,omitempty"`
}

// Citation binds a generated insight to one Evidence item
type Citation struct {
	ID        int      `json:"id" firestore:"ID"` // 1-based position in the report
	Source    Evidence `json:"source" firestore:"Source"`
	Relevance float64  `json:"relevance" firestore:"Relevance"`
	Excerpt   string   `json:"excerpt" firestore:"Excerpt"`
}

// SourceBreakdown counts the evidence passed into synthesis per channel
type SourceBreakdown struct {
	Files int `json:"files" firestore:"Files"`
	Web   int `json:"web" firestore:"Web"`
	Live  int `json:"live" firestore:"Live"`
}

// Total returns the number of evidence items across all channels
func (b SourceBreakdown) Total() int {
	return b.Files + b.Web + b.Live
}

// NewSourceBreakdown counts evidence by channel
func NewSourceBreakdown(evidence []Evidence) SourceBreakdown {
	var b SourceBreakdown
	for _, e := range evidence {
		switch e.Channel {
		case types.ChannelFile:
			b.Files++
		case types.ChannelWeb:
			b.Web++
		case types.ChannelLive:
			b.Live++
		}
	}
	return b
}
