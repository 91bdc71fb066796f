package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// DefaultExcerptLength bounds each evidence item's content in the prompt, in runes
const DefaultExcerptLength = 2000

const defaultSummary = "No executive summary generated."

// client implements Service with a gollem LLM client
type client struct {
	llmClient     gollem.LLMClient
	excerptLength int
}

// Option is a functional option for client configuration
type Option func(*client)

// WithExcerptLength sets the per-item content bound in the prompt
func WithExcerptLength(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.excerptLength = n
		}
	}
}

// New creates a Report Synthesizer with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:     llmClient,
		excerptLength: DefaultExcerptLength,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Synthesize asks the model for a structured report and normalizes the answer
func (c *client) Synthesize(ctx context.Context, question string, evidence []model.Evidence) (*model.Report, error) {
	if len(evidence) == 0 {
		return nil, goerr.Wrap(model.ErrNoEvidence, "cannot synthesize without evidence", goerr.V(model.QueryKey, question))
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrSynthesisFailed, err), "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(question, evidence, c.excerptLength)))
	if err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrSynthesisFailed, err), "failed to generate content from LLM")
	}

	parsed, err := parseResponse(resp)
	if err != nil {
		return nil, err
	}

	report := normalize(question, evidence, parsed)
	logging.From(ctx).Debug("report synthesized",
		"evidence", len(evidence),
		"citations", len(report.Citations),
		"insights", len(report.KeyInsights))
	return report, nil
}

// parseResponse decodes the model output into llmResponse. An empty or
// non-JSON answer is a synthesis failure.
func parseResponse(resp *gollem.Response) (*llmResponse, error) {
	if resp == nil || len(resp.Texts) == 0 {
		return nil, goerr.Wrap(model.ErrSynthesisFailed, "LLM returned no content")
	}

	raw := stripCodeFence(strings.Join(resp.Texts, ""))
	if raw == "" || raw == "null" {
		return nil, goerr.Wrap(model.ErrSynthesisFailed, "LLM returned empty content")
	}

	var parsed llmResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrSynthesisFailed, err), "failed to parse LLM response",
			goerr.V("response", raw))
	}

	return &parsed, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// normalize applies the defaulting rules and binds citations to evidence
func normalize(question string, evidence []model.Evidence, resp *llmResponse) *model.Report {
	report := &model.Report{
		Query:            question,
		Title:            "Research Report: " + question,
		ExecutiveSummary: defaultSummary,
		KeyInsights:      []string{},
		Sources:          evidence,
		Citations:        []model.Citation{},
		Confidence:       model.DefaultConfidence,
		SourceBreakdown:  model.NewSourceBreakdown(evidence),
	}

	if resp.Title != nil && strings.TrimSpace(*resp.Title) != "" {
		report.Title = strings.TrimSpace(*resp.Title)
	}
	if resp.ExecutiveSummary != nil && strings.TrimSpace(*resp.ExecutiveSummary) != "" {
		report.ExecutiveSummary = strings.TrimSpace(*resp.ExecutiveSummary)
	}
	for _, insight := range resp.KeyInsights {
		if trimmed := strings.TrimSpace(insight); trimmed != "" {
			report.KeyInsights = append(report.KeyInsights, trimmed)
		}
	}
	if v, ok := rawNumber(resp.Confidence); ok && validScore(v) {
		report.Confidence = v
	}

	for i, c := range resp.Citations {
		citation := model.Citation{
			ID:        i + 1,
			Source:    evidence[0],
			Relevance: model.DefaultConfidence,
		}
		if idx, ok := rawIndex(c.SourceIndex); ok && idx >= 1 && idx <= len(evidence) {
			citation.Source = evidence[idx-1]
		}
		if v, ok := rawNumber(c.Relevance); ok && validScore(v) {
			citation.Relevance = v
		}
		if c.Excerpt != nil {
			citation.Excerpt = *c.Excerpt
		}
		report.Citations = append(report.Citations, citation)
	}

	return report
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a research analyst. Write a concise, factual report that answers the user's question using only the numbered evidence provided.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. title: a short headline for the report.\n")
	sb.WriteString("2. executive_summary: two to four sentences answering the question.\n")
	sb.WriteString("3. key_insights: the most important findings, one sentence each.\n")
	sb.WriteString("4. sources: echo each evidence item you relied on with its index and title.\n")
	sb.WriteString("5. citations: for each claim, the evidence number it comes from as source_index, a relevance score between 0 and 1, and a short excerpt quoted from that evidence.\n")
	sb.WriteString("6. confidence: your overall confidence between 0 and 1.\n")
	sb.WriteString("7. Do not invent facts that are not in the evidence. If the evidence is thin, say so and lower confidence.\n")

	return sb.String()
}

func buildUserPrompt(question string, evidence []model.Evidence, excerptLength int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Question\n\n%s\n\n", question)
	sb.WriteString("## Evidence\n\n")
	for i, e := range evidence {
		fmt.Fprintf(&sb, "### [%d] %s\n", i+1, e.Title)
		fmt.Fprintf(&sb, "Channel: %s\n", e.Channel)
		fmt.Fprintf(&sb, "Locator: %s\n", e.Locator)
		if e.PublishedAt != nil {
			fmt.Fprintf(&sb, "Published: %s\n", e.PublishedAt.Format("2006-01-02 15:04 MST"))
		}
		sb.WriteString("\n")
		sb.WriteString(truncate(e.Content, excerptLength))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ResearchReport",
		Description: "A research report grounded on numbered evidence",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"title": {
				Type:        gollem.TypeString,
				Description: "Short headline for the report",
				Required:    true,
			},
			"executive_summary": {
				Type:        gollem.TypeString,
				Description: "Two to four sentences answering the question",
				Required:    true,
			},
			"key_insights": {
				Type:        gollem.TypeArray,
				Description: "Most important findings, one sentence each",
				Required:    true,
				Items:       &gollem.Parameter{Type: gollem.TypeString},
			},
			"sources": {
				Type:        gollem.TypeArray,
				Description: "Evidence items the report relies on",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"index": {
							Type:        gollem.TypeInteger,
							Description: "1-based evidence number",
						},
						"title": {
							Type:        gollem.TypeString,
							Description: "Evidence title",
						},
					},
				},
			},
			"citations": {
				Type:        gollem.TypeArray,
				Description: "Bindings from claims to evidence",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id": {
							Type:        gollem.TypeInteger,
							Description: "Citation number as shown in the report",
						},
						"source_index": {
							Type:        gollem.TypeInteger,
							Description: "1-based evidence number the claim comes from",
							Required:    true,
						},
						"relevance": {
							Type:        gollem.TypeNumber,
							Description: "Relevance between 0 and 1",
						},
						"excerpt": {
							Type:        gollem.TypeString,
							Description: "Short quote from the evidence",
						},
					},
				},
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Description: "Overall confidence between 0 and 1",
				Required:    true,
			},
		},
	}
}
