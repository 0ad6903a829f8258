// Package retrieval implements the hybrid search pipeline: vector candidate
// selection, BM25 rescoring, min-max fusion with recency/signal/synapse
// boosts, and synapse-graph expansion.
package retrieval

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/application/services/association"
	"mnemosyne/application/services/lexical"
	"mnemosyne/application/services/mathkernel"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// AccessReinforcer enqueues a fire-and-forget access-reinforcement job for
// an engram returned by search. Implementations never block the caller and
// never surface errors to it.
type AccessReinforcer interface {
	Enqueue(ownerID, engramID string)
}

// Service implements the hybrid retrieval (search) operation.
type Service struct {
	engrams     ports.EngramStore
	chronicles  ports.ChronicleStore
	embedder    ports.Embedder
	association *association.Service
	reinforcer  AccessReinforcer
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

func NewService(
	engrams ports.EngramStore,
	chronicles ports.ChronicleStore,
	embedder ports.Embedder,
	associationSvc *association.Service,
	reinforcer AccessReinforcer,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		engrams:     engrams,
		chronicles:  chronicles,
		embedder:    embedder,
		association: associationSvc,
		reinforcer:  reinforcer,
		cfg:         cfg,
		logger:      logger,
	}
}

// SearchParams carries the inputs to a search call.
type SearchParams struct {
	OwnerID        string
	Query          string
	Limit          int
	Strand         config.Strand
	MinScore       float64
	MinFinalScore  *float64
	ExpandSynapses *bool
}

// Hit is a single search result with its full score trace.
type Hit struct {
	Engram       *core.Engram
	VectorScore  float64
	KeywordScore float64
	Recency      float64
	SignalScore  float64
	SynapseBoost float64
	FinalScore   float64
}

// Result is the full response of a search call.
type Result struct {
	Hits             []Hit
	ChronicleMatches []ChronicleMatch
	Total            int
	Query            string
	ElapsedMillis    int64
}

// Search runs the hybrid retrieval pipeline.
func (s *Service) Search(ctx context.Context, p SearchParams, now time.Time) (Result, error) {
	start := time.Now()

	limit := p.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	minFinalScore := s.cfg.DefaultMinFinalScore
	if p.MinFinalScore != nil {
		minFinalScore = *p.MinFinalScore
	}
	expandSynapses := true
	if p.ExpandSynapses != nil {
		expandSynapses = *p.ExpandSynapses
	}

	queryEmbedding, err := s.embedder.Embed(ctx, p.Query)
	if err != nil {
		return Result{}, err
	}

	var (
		wg               sync.WaitGroup
		candidates       []ports.ScoredEngram
		vectorErr        error
		chronicleMatches []ChronicleMatch
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		candidates, vectorErr = s.engrams.VectorSearch(ctx, p.OwnerID, queryEmbedding, s.cfg.VectorCandidateMultiplier*limit, p.Strand)
	}()
	go func() {
		defer wg.Done()
		chronicleMatches = s.matchChronicles(ctx, p.OwnerID, p.Query, now)
	}()
	wg.Wait()

	if vectorErr != nil {
		return Result{}, vectorErr
	}

	s.assertUnitRange(candidates)

	filtered := make([]ports.ScoredEngram, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= p.MinScore {
			filtered = append(filtered, c)
		}
	}

	if len(filtered) == 0 {
		hits, err := s.fallbackSearch(ctx, p, limit, now)
		if err != nil {
			return Result{}, err
		}
		s.enqueueReinforcement(p.OwnerID, hits)
		return Result{
			Hits:             hits,
			ChronicleMatches: chronicleMatches,
			Total:            len(hits),
			Query:            p.Query,
			ElapsedMillis:    elapsedMillis(start),
		}, nil
	}

	docs := make([]lexical.Document, len(filtered))
	for i, c := range filtered {
		docs[i] = lexical.Document{ID: c.Engram.ID(), Text: c.Engram.Content()}
	}
	bm25Scores := lexical.Score(p.Query, docs, s.cfg.BM25K1, s.cfg.BM25B)

	vectorValues := make([]float64, len(filtered))
	keywordValues := make([]float64, len(filtered))
	for i, c := range filtered {
		vectorValues[i] = c.Score
		keywordValues[i] = bm25Scores[c.Engram.ID()]
	}
	normVector := mathkernel.MinMaxNormalize(vectorValues)
	normKeyword := mathkernel.MinMaxNormalize(keywordValues)

	synapseBoosts := map[string]float64{}
	if expandSynapses {
		seedCount := 5
		if seedCount > len(filtered) {
			seedCount = len(filtered)
		}
		seeds := make([]string, seedCount)
		for i := 0; i < seedCount; i++ {
			seeds[i] = filtered[i].Engram.ID()
		}
		boosted, err := s.association.Expand(ctx, p.OwnerID, seeds)
		if err != nil {
			s.logger.Warn("synapse expansion failed", zap.Error(err))
		}
		for _, b := range boosted {
			if existing, ok := synapseBoosts[b.EngramID]; !ok || b.Boost > existing {
				synapseBoosts[b.EngramID] = b.Boost
			}
		}
	}

	hits := make([]Hit, len(filtered))
	for i, c := range filtered {
		recency := s.recencyBoost(c.Engram.LastAccessedAt(), now)
		synapseBoost := mathkernel.Clamp01(synapseBoosts[c.Engram.ID()])
		finalScore := s.cfg.WeightVector*normVector[i] +
			s.cfg.WeightKeyword*normKeyword[i] +
			recency +
			s.cfg.WeightSignal*c.Engram.Signal() +
			s.cfg.WeightSynapse*synapseBoost

		hits[i] = Hit{
			Engram:       c.Engram,
			VectorScore:  normVector[i],
			KeywordScore: normKeyword[i],
			Recency:      recency,
			SignalScore:  c.Engram.Signal(),
			SynapseBoost: synapseBoost,
			FinalScore:   finalScore,
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].FinalScore > hits[j].FinalScore
	})

	final := make([]Hit, 0, limit)
	for _, h := range hits {
		if h.FinalScore < minFinalScore {
			continue
		}
		final = append(final, h)
		if len(final) == limit {
			break
		}
	}

	s.enqueueReinforcement(p.OwnerID, final)

	return Result{
		Hits:             final,
		ChronicleMatches: chronicleMatches,
		Total:            len(final),
		Query:            p.Query,
		ElapsedMillis:    elapsedMillis(start),
	}, nil
}

// fallbackSearch runs BM25 over the owner's most-recent engrams when vector
// search yields nothing above minScore.
func (s *Service) fallbackSearch(ctx context.Context, p SearchParams, limit int, now time.Time) ([]Hit, error) {
	all, err := s.engrams.ListEngrams(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt().After(all[j].UpdatedAt())
	})
	window := s.cfg.VectorCandidateMultiplier * limit
	if window > len(all) {
		window = len(all)
	}
	all = all[:window]

	docs := make([]lexical.Document, len(all))
	for i, e := range all {
		docs[i] = lexical.Document{ID: e.ID(), Text: e.Content()}
	}
	bm25Scores := lexical.Score(p.Query, docs, s.cfg.BM25K1, s.cfg.BM25B)

	type scored struct {
		engram *core.Engram
		score  float64
	}
	var positives []scored
	for _, e := range all {
		if sc := bm25Scores[e.ID()]; sc > 0 {
			positives = append(positives, scored{engram: e, score: sc})
		}
	}

	values := make([]float64, len(positives))
	for i, sc := range positives {
		values[i] = sc.score
	}
	normalized := mathkernel.MinMaxNormalize(values)

	hits := make([]Hit, len(positives))
	for i, sc := range positives {
		recency := s.recencyBoost(sc.engram.LastAccessedAt(), now)
		hits[i] = Hit{
			Engram:       sc.engram,
			VectorScore:  0,
			KeywordScore: normalized[i],
			Recency:      recency,
			SignalScore:  sc.engram.Signal(),
			FinalScore:   s.cfg.WeightKeyword*normalized[i] + recency + s.cfg.WeightSignal*sc.engram.Signal(),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].FinalScore > hits[j].FinalScore
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *Service) recencyBoost(lastAccessedAt, now time.Time) float64 {
	if lastAccessedAt.IsZero() {
		return 0
	}
	d := now.Sub(lastAccessedAt).Hours() / 24
	if d < 0 {
		d = 0
	}
	return s.cfg.WeightRecency * math.Exp(-d/7) * mathkernel.ClampRange(1-d/90, 0, 1)
}

func (s *Service) enqueueReinforcement(ownerID string, hits []Hit) {
	if s.reinforcer == nil {
		return
	}
	for _, h := range hits {
		s.reinforcer.Enqueue(ownerID, h.Engram.ID())
	}
}

// assertUnitRange is the boundary check for the store contract: VectorSearch
// must already return scores in [0, 1] (cosine mapped via
// mathkernel.CosineToUnit, not raw [-1, 1] cosine). A store that violates
// this is clamped in place and logged rather than trusted, since MinScore
// filtering and min-max fusion downstream both assume [0, 1].
func (s *Service) assertUnitRange(candidates []ports.ScoredEngram) {
	for i, c := range candidates {
		if c.Score < 0 || c.Score > 1 {
			s.logger.Warn("vector score outside [0,1], clamping",
				zap.String("engramId", c.Engram.ID()),
				zap.Float64("score", c.Score),
			)
			candidates[i].Score = mathkernel.Clamp01(c.Score)
		}
	}
}

func elapsedMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
