package fetch

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Truncate condenses by cutting text at the last word boundary within maxLen runes
type Truncate struct{}

var _ Condenser = Truncate{}

func (Truncate) Condense(ctx context.Context, text string, maxLen int) (string, error) {
	return TruncateRunes(text, maxLen), nil
}

// TruncateRunes cuts s to at most maxLen runes, preferring the last word
// boundary when one exists in the second half of the kept text
func TruncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	cut := runes[:maxLen]
	for i := len(cut) - 1; i >= maxLen/2; i-- {
		if unicode.IsSpace(cut[i]) {
			return strings.TrimRightFunc(string(cut[:i]), unicode.IsSpace)
		}
	}
	return string(cut)
}

// LLMCondenser summarizes text with a generative model
type LLMCondenser struct {
	llmClient gollem.LLMClient
}

var _ Condenser = &LLMCondenser{}

// NewLLMCondenser creates an LLMCondenser
func NewLLMCondenser(llmClient gollem.LLMClient) (*LLMCondenser, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &LLMCondenser{llmClient: llmClient}, nil
}

const condenseSystemPrompt = "You condense web pages for a research assistant. " +
	"Keep facts, figures, names and dates. Drop navigation, advertising and boilerplate. " +
	"Answer with plain prose only."

func (c *LLMCondenser) Condense(ctx context.Context, text string, maxLen int) (string, error) {
	if len([]rune(text)) <= maxLen {
		return text, nil
	}

	session, err := c.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(condenseSystemPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	// Bound the input so a huge page cannot blow the context window
	input := TruncateRunes(text, maxLen*8)
	prompt := fmt.Sprintf("Summarize the following page in at most %d characters.\n\n%s", maxLen, input)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned empty summary")
	}

	summary := strings.TrimSpace(strings.Join(resp.Texts, ""))
	if summary == "" {
		return "", goerr.New("LLM returned empty summary")
	}

	return TruncateRunes(summary, maxLen), nil
}
