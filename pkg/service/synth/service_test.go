package synth_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/service/synth"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
)

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return s.generateContentFn(ctx, input...)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return c.newSessionFn(ctx, options...)
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// respondWith returns a client whose session answers every prompt with text
func respondWith(text string, prompts *[]string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					if prompts != nil {
						for _, in := range input {
							if txt, ok := in.(gollem.Text); ok {
								*prompts = append(*prompts, string(txt))
							}
						}
					}
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

func threeEvidence() []model.Evidence {
	return []model.Evidence{
		{Title: "A", Locator: "file-a", Content: "alpha content", Channel: types.ChannelFile, Confidence: model.ConfidenceFile},
		{Title: "B", Locator: "https://b.example.com", Content: "beta content", Channel: types.ChannelWeb, Confidence: model.ConfidenceWeb},
		{Title: "C", Locator: "https://c.example.com", Content: "gamma content", Channel: types.ChannelLive, Confidence: model.ConfidenceLive},
	}
}

func TestSynthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("binds citations by 1-based index", func(t *testing.T) {
		svc, err := synth.New(respondWith(`{
			"title": "Battery outlook",
			"executive_summary": "Growing fast.",
			"key_insights": ["density doubled"],
			"citations": [
				{"id": 1, "source_index": 2, "relevance": 0.95, "excerpt": "beta"},
				{"id": 2, "source_index": 99, "relevance": 0.5, "excerpt": "out of range"}
			],
			"confidence": 0.9
		}`, nil))
		gt.NoError(t, err).Required()

		evidence := threeEvidence()
		report, err := svc.Synthesize(ctx, "battery trends", evidence)
		gt.NoError(t, err).Required()

		gt.Array(t, report.Citations).Length(2).Required()
		gt.Value(t, report.Citations[0].ID).Equal(1)
		gt.Value(t, report.Citations[0].Source).Equal(evidence[1])
		gt.Value(t, report.Citations[0].Relevance).Equal(0.95)
		gt.Value(t, report.Citations[0].Excerpt).Equal("beta")
		gt.Value(t, report.Citations[1].ID).Equal(2)
		gt.Value(t, report.Citations[1].Source).Equal(evidence[0])

		gt.Value(t, report.Title).Equal("Battery outlook")
		gt.Value(t, report.ExecutiveSummary).Equal("Growing fast.")
		gt.Value(t, report.KeyInsights).Equal([]string{"density doubled"})
		gt.Value(t, report.Confidence).Equal(0.9)
		gt.Value(t, report.Sources).Equal(evidence)
		gt.Value(t, report.Query).Equal("battery trends")
		gt.Value(t, report.SourceBreakdown).Equal(model.SourceBreakdown{Files: 1, Web: 1, Live: 1})
	})

	t.Run("applies defaults for missing fields", func(t *testing.T) {
		svc, err := synth.New(respondWith(`{"citations": [{"source_index": 0}, {}]}`, nil))
		gt.NoError(t, err).Required()

		evidence := threeEvidence()
		report, err := svc.Synthesize(ctx, "battery trends", evidence)
		gt.NoError(t, err).Required()

		gt.Value(t, report.Title).Equal("Research Report: battery trends")
		gt.Value(t, report.ExecutiveSummary).Equal("No executive summary generated.")
		gt.Value(t, report.KeyInsights).Equal([]string{})
		gt.Value(t, report.Confidence).Equal(0.8)
		gt.Array(t, report.Citations).Length(2).Required()
		for _, c := range report.Citations {
			gt.Value(t, c.Source).Equal(evidence[0])
			gt.Value(t, c.Relevance).Equal(0.8)
			gt.Value(t, c.Excerpt).Equal("")
		}
		gt.Array(t, report.Sources).Length(3)
	})

	t.Run("out of range scores fall back to default", func(t *testing.T) {
		svc, err := synth.New(respondWith(`{"confidence": 7, "citations": [{"source_index": 3, "relevance": -1}]}`, nil))
		gt.NoError(t, err).Required()

		report, err := svc.Synthesize(ctx, "q", threeEvidence())
		gt.NoError(t, err).Required()
		gt.Value(t, report.Confidence).Equal(0.8)
		gt.Value(t, report.Citations[0].Relevance).Equal(0.8)
		gt.Value(t, report.Citations[0].Source.Title).Equal("C")
	})

	t.Run("loosely typed fields fall back instead of failing", func(t *testing.T) {
		svc, err := synth.New(respondWith(`{
			"title": "Loose",
			"confidence": "high",
			"citations": [
				{"id": 1, "source_index": 2, "relevance": "high"},
				{"id": 2, "source_index": 2.0, "relevance": 0.4},
				{"id": 3, "source_index": "2", "relevance": 0.6},
				{"id": 4, "source_index": 2.5}
			]
		}`, nil))
		gt.NoError(t, err).Required()

		evidence := threeEvidence()
		report, err := svc.Synthesize(ctx, "q", evidence)
		gt.NoError(t, err).Required()

		gt.Value(t, report.Title).Equal("Loose")
		gt.Value(t, report.Confidence).Equal(0.8)
		gt.Array(t, report.Citations).Length(4).Required()

		gt.Value(t, report.Citations[0].Source).Equal(evidence[1])
		gt.Value(t, report.Citations[0].Relevance).Equal(0.8)

		gt.Value(t, report.Citations[1].Source).Equal(evidence[1])
		gt.Value(t, report.Citations[1].Relevance).Equal(0.4)

		gt.Value(t, report.Citations[2].Source).Equal(evidence[0])
		gt.Value(t, report.Citations[2].Relevance).Equal(0.6)

		gt.Value(t, report.Citations[3].Source).Equal(evidence[0])
	})

	t.Run("accepts fenced JSON", func(t *testing.T) {
		svc, err := synth.New(respondWith("```json\n{\"title\": \"Fenced\"}\n```", nil))
		gt.NoError(t, err).Required()

		report, err := svc.Synthesize(ctx, "q", threeEvidence())
		gt.NoError(t, err).Required()
		gt.Value(t, report.Title).Equal("Fenced")
	})

	t.Run("prompt carries numbered evidence", func(t *testing.T) {
		var prompts []string
		svc, err := synth.New(respondWith(`{}`, &prompts))
		gt.NoError(t, err).Required()

		_, err = svc.Synthesize(ctx, "battery trends", threeEvidence())
		gt.NoError(t, err).Required()

		gt.Array(t, prompts).Length(1).Required()
		gt.String(t, prompts[0]).Contains("battery trends")
		gt.String(t, prompts[0]).Contains("### [2] B")
		gt.String(t, prompts[0]).Contains("Channel: live")
		gt.String(t, prompts[0]).Contains("Locator: https://c.example.com")
	})

	t.Run("non-JSON response fails synthesis", func(t *testing.T) {
		svc, err := synth.New(respondWith("I cannot help with that.", nil))
		gt.NoError(t, err).Required()

		_, err = svc.Synthesize(ctx, "q", threeEvidence())
		gt.Error(t, err).Is(model.ErrSynthesisFailed)
	})

	t.Run("empty response fails synthesis", func(t *testing.T) {
		svc, err := synth.New(respondWith("   ", nil))
		gt.NoError(t, err).Required()

		_, err = svc.Synthesize(ctx, "q", threeEvidence())
		gt.Error(t, err).Is(model.ErrSynthesisFailed)
	})

	t.Run("model error fails synthesis and keeps cause", func(t *testing.T) {
		quota := errors.New("quota exceeded")
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, quota
					},
				}, nil
			},
		}
		svc, err := synth.New(client)
		gt.NoError(t, err).Required()

		_, err = svc.Synthesize(ctx, "q", threeEvidence())
		gt.Error(t, err).Is(model.ErrSynthesisFailed)
		gt.Error(t, err).Is(quota)
	})

	t.Run("session error fails synthesis", func(t *testing.T) {
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("no credentials")
			},
		}
		svc, err := synth.New(client)
		gt.NoError(t, err).Required()

		_, err = svc.Synthesize(ctx, "q", threeEvidence())
		gt.Error(t, err).Is(model.ErrSynthesisFailed)
	})

	t.Run("requires LLM client", func(t *testing.T) {
		_, err := synth.New(nil)
		gt.Value(t, err).NotNil()
	})
}

func TestBuildUserPrompt(t *testing.T) {
	evidence := []model.Evidence{{
		Title:   "Long",
		Locator: "file-1",
		Content: strings.Repeat("x", 50),
		Channel: types.ChannelFile,
	}}

	prompt := synth.BuildUserPrompt("q", evidence, 10)
	gt.String(t, prompt).Contains(strings.Repeat("x", 10) + "...")
	gt.Bool(t, strings.Contains(prompt, strings.Repeat("x", 11))).False()
}

func TestBuildResponseSchema(t *testing.T) {
	schema := synth.BuildResponseSchema()
	gt.NoError(t, schema.Validate())

	for _, name := range []string{"title", "executive_summary", "key_insights", "citations", "confidence"} {
		prop, ok := schema.Properties[name]
		gt.Bool(t, ok).True()
		gt.Bool(t, prop.Required).True()
	}
	gt.Bool(t, schema.Properties["sources"].Required).False()

	citation := schema.Properties["citations"].Items
	gt.Bool(t, citation.Properties["source_index"].Required).True()
	gt.Bool(t, citation.Properties["relevance"].Required).False()
}

func TestStripCodeFence(t *testing.T) {
	gt.Value(t, synth.StripCodeFence("```json\n{}\n```")).Equal("{}")
	gt.Value(t, synth.StripCodeFence("  {\"a\":1}  ")).Equal("{\"a\":1}")
}

func TestSynthesize_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()

	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc, err := synth.New(llmClient)
	gt.NoError(t, err).Required()

	evidence := threeEvidence()
	report, err := svc.Synthesize(ctx, "What do the notes say about alpha, beta and gamma?", evidence)
	gt.NoError(t, err).Required()

	gt.String(t, report.Title).NotEqual("")
	gt.Array(t, report.Sources).Length(len(evidence))
	for _, c := range report.Citations {
		gt.Bool(t, c.Relevance >= 0 && c.Relevance <= 1).True()
	}
}
