// Package anthropic provides a hosted CompletionProvider backed by Claude,
// issuing a single structured-extraction call per addMemory request.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
)

const systemPrompt = `You extract discrete memories from raw text for a memory engine.

Respond with ONLY a JSON object of this exact shape, no prose, no markdown fences:
{
  "facts": [{"content": "string", "strand": "factual|experiential|procedural|preferential|relational|general"}],
  "temporalFacts": [{"entity": "string", "attribute": "string", "value": "string", "certainty": 0.0}]
}

Split the input into one fact per discrete idea. Classify each fact's strand by its nature:
factual (objective facts), experiential (lived events), procedural (how-to knowledge),
preferential (likes/dislikes), relational (connections between people/things), or general
(anything else). Extract temporalFacts only for clear entity-attribute-value assertions
(e.g. "the deploy key rotated on Tuesday" -> entity "deploy key", attribute "rotated", value
"Tuesday"). certainty is your confidence in [0,1]. Return empty arrays when nothing applies.`

// Provider calls Claude to extract facts and temporal assertions from raw
// input text.
type Provider struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	logger    *zap.Logger
}

// Config configures the Anthropic completion provider.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// New returns an Anthropic-backed CompletionProvider.
func New(cfg Config, logger *zap.Logger) *Provider {
	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.ModelClaude3_5HaikuLatest
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &Provider{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

type extractionPayload struct {
	Facts []struct {
		Content string `json:"content"`
		Strand  string `json:"strand"`
	} `json:"facts"`
	TemporalFacts []struct {
		Entity    string  `json:"entity"`
		Attribute string  `json:"attribute"`
		Value     string  `json:"value"`
		Certainty float64 `json:"certainty"`
	} `json:"temporalFacts"`
}

// Extract asks Claude to split rawInput into facts and temporal assertions.
func (p *Provider) Extract(ctx context.Context, rawInput string) (ports.ExtractionResult, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(rawInput)),
		},
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return ports.ExtractionResult{}, fmt.Errorf("anthropic: completion request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(extractJSONObject(text.String())), &payload); err != nil {
		p.logger.Warn("anthropic: failed to parse extraction payload", zap.Error(err), zap.String("raw", text.String()))
		return ports.ExtractionResult{}, fmt.Errorf("anthropic: malformed extraction payload: %w", err)
	}

	result := ports.ExtractionResult{
		Facts:         make([]ports.ExtractedFact, 0, len(payload.Facts)),
		TemporalFacts: make([]ports.ExtractedTemporalFact, 0, len(payload.TemporalFacts)),
	}
	for _, f := range payload.Facts {
		result.Facts = append(result.Facts, ports.ExtractedFact{
			Content: f.Content,
			Strand:  config.Strand(f.Strand),
		})
	}
	for _, tf := range payload.TemporalFacts {
		result.TemporalFacts = append(result.TemporalFacts, ports.ExtractedTemporalFact{
			Entity:    tf.Entity,
			Attribute: tf.Attribute,
			Value:     tf.Value,
			Certainty: tf.Certainty,
		})
	}
	return result, nil
}

// extractJSONObject strips any leading/trailing prose or markdown fencing
// Claude adds despite instructions, returning the first top-level {...} span.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
