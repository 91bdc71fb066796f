package model

import (
	"time"

	"github.com/google/uuid"
)

// ReportID is a UUID-based identifier for Report
type ReportID string

// NewReportID generates a new UUID v4 ReportID
func NewReportID() ReportID {
	return ReportID(uuid.New().String())
}

// String returns the string representation of ReportID
func (id ReportID) String() string {
	return string(id)
}

// Report is a synthesized research report. Sources holds the full evidence
// list that was passed to the synthesizer, cited or not.
type Report struct {
	ID               ReportID        `json:"id"`
	UserID           string          `json:"user_id"`
	Query            string          `json:"query"`
	Title            string          `json:"title"`
	ExecutiveSummary string          `json:"executive_summary"`
	KeyInsights      []string        `json:"key_insights"`
	Sources          []Evidence      `json:"sources"`
	Citations        []Citation      `json:"citations"`
	Confidence       float64         `json:"confidence"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	SourceBreakdown  SourceBreakdown `json:"source_breakdown"`
	Cost             int             `json:"cost"`
	CreatedAt        time.Time       `json:"created_at"`
}
