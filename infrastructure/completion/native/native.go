// Package native provides a rule-based CompletionProvider for local
// development and tests: no model call, just sentence splitting and a
// handful of "X is/was/has Y" patterns for temporal-fact extraction. It
// exists so the ingestion pipeline is exercisable without any hosted
// dependency configured.
package native

import (
	"context"
	"regexp"
	"strings"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
)

// Provider classifies input via simple heuristics instead of a model call.
type Provider struct{}

// New returns a rule-based completion provider.
func New() *Provider {
	return &Provider{}
}

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

// assertionPattern matches "<entity> is/was/has <value>" style sentences,
// the simplest shape an entity-attribute-value fact takes in prose.
var assertionPattern = regexp.MustCompile(`(?i)^(.+?)\s+(is|was|has|are|were)\s+(.+)$`)

// Extract splits rawInput into sentence-level facts, classifies each
// sentence's strand by keyword heuristics, and pulls out any sentence
// matching a simple assertion pattern as a temporal fact.
func (p *Provider) Extract(_ context.Context, rawInput string) (ports.ExtractionResult, error) {
	sentences := splitSentences(rawInput)
	if len(sentences) == 0 {
		return ports.ExtractionResult{}, nil
	}

	result := ports.ExtractionResult{}
	for _, s := range sentences {
		result.Facts = append(result.Facts, ports.ExtractedFact{
			Content: s,
			Strand:  classifyStrand(s),
		})

		if m := assertionPattern.FindStringSubmatch(s); m != nil {
			result.TemporalFacts = append(result.TemporalFacts, ports.ExtractedTemporalFact{
				Entity:    strings.TrimSpace(m[1]),
				Attribute: "state",
				Value:     strings.TrimSpace(m[3]),
				Certainty: 0.6,
			})
		}
	}
	return result, nil
}

func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := sentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type strandRule struct {
	strand   config.Strand
	keywords []string
}

// strandRules is checked in order so a sentence matching more than one
// category deterministically picks the first.
var strandRules = []strandRule{
	{config.StrandPreferential, []string{"prefer", "like", "favorite", "love", "hate", "dislike"}},
	{config.StrandProcedural, []string{"how to", "step", "first,", "then,", "process"}},
	{config.StrandRelational, []string{"friend", "colleague", "partner", "works with", "knows"}},
	{config.StrandExperiential, []string{"i felt", "i went", "happened", "experienced", "remember when"}},
}

func classifyStrand(sentence string) config.Strand {
	lower := strings.ToLower(sentence)
	for _, rule := range strandRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.strand
			}
		}
	}
	return config.StrandFactual
}
