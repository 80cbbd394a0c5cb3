// Package ai adapts a language model to the tag suggestion port.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/devshowcase/showcase-api/internal/core/domain"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultAttempts = 2
	maxTags         = 10
)

// Suggestion outcomes reported to the observer.
const (
	ResultOK       = "ok"
	ResultEmpty    = "empty"
	ResultError    = "error"
	ResultDisabled = "disabled"
)

const prompt = `You label software projects for a developer portfolio.
Suggest up to %d short, lowercase technology or topic tags for the project below.
Answer with JSON only, in the form {"items": ["tag1", "tag2"]}.

Title: %s

Description: %s`

// Model is the part of a langchaingo model the tagger calls.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Config struct {
	APIKey   string
	Model    string
	Timeout  time.Duration
	Attempts int
	// Observer, when set, receives one Result* value per Suggest call.
	Observer func(result string)
}

// Tagger suggests tags for a project. It never returns an error: model
// failures, timeouts and unparseable answers all yield an empty list.
type Tagger struct {
	model    Model
	timeout  time.Duration
	attempts int
	observe  func(string)
	logger   zerolog.Logger
}

// New builds a tagger backed by OpenAI. Without an API key the tagger is
// disabled and always suggests nothing.
func New(cfg Config, logger zerolog.Logger) (*Tagger, error) {
	if cfg.APIKey == "" {
		return NewWithModel(nil, cfg, logger), nil
	}

	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return NewWithModel(llm, cfg, logger), nil
}

// NewWithModel builds a tagger around any model. A nil model disables it.
func NewWithModel(model Model, cfg Config, logger zerolog.Logger) *Tagger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	observe := cfg.Observer
	if observe == nil {
		observe = func(string) {}
	}
	return &Tagger{
		model:    model,
		timeout:  timeout,
		attempts: attempts,
		observe:  observe,
		logger:   logger.With().Str("component", "tagger").Logger(),
	}
}

// Enabled reports whether a model is configured.
func (t *Tagger) Enabled() bool { return t.model != nil }

func (t *Tagger) Suggest(ctx context.Context, title, description string) []string {
	if t.model == nil {
		t.observe(ResultDisabled)
		return []string{}
	}

	msg := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(prompt, maxTags, title, description)),
	}

	for attempt := 1; attempt <= t.attempts; attempt++ {
		text, err := t.generate(ctx, msg)
		if err != nil {
			t.logger.Warn().Err(err).Int("attempt", attempt).Msg("tag suggestion failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		tags := parseTags(text)
		if len(tags) == 0 {
			t.logger.Warn().Str("answer", truncate(text, 200)).Msg("tag suggestion unusable")
			t.observe(ResultEmpty)
			return []string{}
		}
		t.observe(ResultOK)
		return tags
	}

	t.observe(ResultError)
	return []string{}
}

func (t *Tagger) generate(ctx context.Context, msg []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.model.GenerateContent(ctx, msg, llms.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("empty model response")
	}
	return resp.Choices[0].Content, nil
}

// parseTags reads {"items": [...]} or a bare JSON array, falling back to a
// comma separated line. Anything that looks like broken JSON yields nothing.
func parseTags(text string) []string {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var payload struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return limit(domain.NormalizeTags(payload.Items))
	}
	var list []string
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return limit(domain.NormalizeTags(list))
	}
	if strings.ContainsAny(text, "{}[]\"\n") {
		return nil
	}
	return limit(domain.ParseTags(text))
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func limit(tags []string) []string {
	if len(tags) > maxTags {
		return tags[:maxTags]
	}
	return tags
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
