package retrieval

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/application/services/lexical"
	"mnemosyne/domain/core"
)

// ChronicleMatch is a single chronicle hit from the chronicle matcher, with
// its relevance score.
type ChronicleMatch struct {
	Chronicle *core.Chronicle
	Relevance float64
}

// matchChronicles tokenizes the query, fetches every currently-valid
// chronicle for the owner, and scores each by the fraction of distinct
// query tokens it contains. Any failure produces an empty list rather than
// propagating an error — the chronicle matcher never fails the surrounding
// search.
func (s *Service) matchChronicles(ctx context.Context, ownerID, query string, now time.Time) []ChronicleMatch {
	queryTokens := lexical.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	asOf := now
	chronicles, err := s.chronicles.QueryChronicles(ctx, ports.ChronicleQuery{OwnerID: ownerID, AsOf: &asOf})
	if err != nil {
		s.logger.Warn("chronicle matcher failed to query chronicles", zap.Error(err))
		return nil
	}

	queryTokenCount := float64(len(uniqueTokens(queryTokens)))

	matches := make([]ChronicleMatch, 0, len(chronicles))
	for _, c := range chronicles {
		if !c.MatchesAt(now) {
			continue
		}
		text := c.Entity() + " " + c.Attribute() + " " + c.Value()
		docTokens := tokenSet(lexical.Tokenize(text))

		hits := 0
		for _, qt := range uniqueTokens(queryTokens) {
			if _, ok := docTokens[qt]; ok {
				hits++
			}
		}
		relevance := float64(hits) / queryTokenCount
		if relevance > 0 {
			matches = append(matches, ChronicleMatch{Chronicle: c, Relevance: relevance})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > s.cfg.ChronicleMatchTopK {
		matches = matches[:s.cfg.ChronicleMatchTopK]
	}
	return matches
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
