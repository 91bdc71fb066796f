package synth

import (
	"context"
	"encoding/json"
	"math"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

// Service turns a question and its evidence into a report
type Service interface {
	// Synthesize generates a report grounded on evidence. The returned
	// report carries the full evidence list as Sources. Any model failure
	// is reported as model.ErrSynthesisFailed.
	Synthesize(ctx context.Context, question string, evidence []model.Evidence) (*model.Report, error)
}

// llmResponse is the structured output from the LLM. Every field is a
// pointer so that omitted values can be told apart from zero values.
// Numeric fields are kept raw: a value of the wrong type falls back to its
// default instead of failing the whole report.
type llmResponse struct {
	Title            *string         `json:"title"`
	ExecutiveSummary *string         `json:"executive_summary"`
	KeyInsights      []string        `json:"key_insights"`
	Sources          []llmSource     `json:"sources"`
	Citations        []llmCitation   `json:"citations"`
	Confidence       json.RawMessage `json:"confidence"`
}

// llmSource is the model's echo of an evidence item, ignored on binding
type llmSource struct {
	Index json.RawMessage `json:"index"`
	Title json.RawMessage `json:"title"`
}

type llmCitation struct {
	ID          json.RawMessage `json:"id"`
	SourceIndex json.RawMessage `json:"source_index"` // 1-based position in the evidence list
	Relevance   json.RawMessage `json:"relevance"`
	Excerpt     *string         `json:"excerpt"`
}

// rawNumber decodes a JSON number. Strings, null and other types are rejected.
func rawNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// rawIndex decodes an integral JSON number such as 2 or 2.0
func rawIndex(raw json.RawMessage) (int, bool) {
	v, ok := rawNumber(raw)
	if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
