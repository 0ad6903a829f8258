// Package extract turns raw input text into discrete facts, a strand
// classification, and temporal assertions by delegating to a completion
// provider, with a safe fallback when the provider fails.
package extract

import (
	"context"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
)

// Service wraps a CompletionProvider with a fallback behavior: any provider
// error, malformed output, or unrecognized strand degrades to treating the
// raw input as a single general-strand fact with no temporal facts.
type Service struct {
	provider ports.CompletionProvider
	logger   *zap.Logger
}

func NewService(provider ports.CompletionProvider, logger *zap.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Result is the extractor's output: zero or more facts, and zero or more
// temporal facts. Each fact carries its own strand as classified by the
// provider (the orchestrator may override it per call); a provider fact
// with an empty or unknown strand makes Extract fall back to the raw input.
type Result struct {
	Facts         []ports.ExtractedFact
	TemporalFacts []ports.ExtractedTemporalFact
}

// Extract delegates to the completion provider and falls back to the raw
// input as a single fact on any failure.
func (s *Service) Extract(ctx context.Context, rawInput string) Result {
	extraction, err := s.provider.Extract(ctx, rawInput)
	if err != nil {
		s.logger.Warn("completion provider failed, falling back to raw input", zap.Error(err))
		return fallback(rawInput)
	}

	facts := make([]ports.ExtractedFact, 0, len(extraction.Facts))
	for _, f := range extraction.Facts {
		strand := f.Strand
		if strand == "" || !config.IsValidStrand(string(strand)) {
			s.logger.Warn("completion provider returned unknown strand, falling back",
				zap.String("strand", string(f.Strand)))
			return fallback(rawInput)
		}
		facts = append(facts, ports.ExtractedFact{Content: f.Content, Strand: strand})
	}

	return Result{Facts: facts, TemporalFacts: extraction.TemporalFacts}
}

func fallback(rawInput string) Result {
	return Result{
		Facts: []ports.ExtractedFact{
			{Content: rawInput, Strand: config.StrandGeneral},
		},
	}
}
