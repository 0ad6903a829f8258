// Package ingest implements the addMemory orchestration: extraction,
// per-fact embedding and deduplication, synapse formation, and temporal
// fact recording.
package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/application/services/association"
	"mnemosyne/application/services/dedup"
	"mnemosyne/application/services/extract"
	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
	"mnemosyne/domain/events"
)

// AddMemoryParams carries the optional overrides a caller may supply on
// top of the required (ownerId, content) pair.
type AddMemoryParams struct {
	OwnerID   string
	Content   string
	Strand    config.Strand
	Tags      []string
	Metadata  map[string]interface{}
	Signal    *float64
	PulseRate *float64
}

// Service orchestrates addMemory: extract, embed, dedup, save, associate.
type Service struct {
	engrams     ports.EngramStore
	embedder    ports.Embedder
	extractor   *extract.Service
	dedup       *dedup.Service
	association *association.Service
	temporal    *temporal.Service
	bus         ports.EventBus
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

func NewService(
	engrams ports.EngramStore,
	embedder ports.Embedder,
	extractor *extract.Service,
	dedupSvc *dedup.Service,
	associationSvc *association.Service,
	temporalSvc *temporal.Service,
	bus ports.EventBus,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		engrams:     engrams,
		embedder:    embedder,
		extractor:   extractor,
		dedup:       dedupSvc,
		association: associationSvc,
		temporal:    temporalSvc,
		bus:         bus,
		cfg:         cfg,
		logger:      logger,
	}
}

// AddMemory runs the full ingestion algorithm and returns the list of
// stored or reinforced engrams.
func (s *Service) AddMemory(ctx context.Context, p AddMemoryParams, now time.Time) ([]*core.Engram, error) {
	extraction := s.extractor.Extract(ctx, p.Content)
	if len(extraction.Facts) == 0 && len(extraction.TemporalFacts) == 0 {
		return nil, nil
	}

	var engrams []*core.Engram
	for _, fact := range extraction.Facts {
		strand := fact.Strand
		if p.Strand != "" {
			strand = p.Strand
		}

		embedding, err := s.embedder.Embed(ctx, fact.Content)
		if err != nil {
			return nil, err
		}

		dupResult, err := s.dedup.Check(ctx, p.OwnerID, fact.Content, embedding)
		if err != nil {
			return nil, err
		}

		if dupResult.Duplicate != nil {
			dupResult.Duplicate.Reinforce(s.cfg.EngramReinforceBoost, now)
			if err := s.engrams.SaveEngram(ctx, dupResult.Duplicate); err != nil {
				return nil, err
			}
			engrams = append(engrams, dupResult.Duplicate)
			continue
		}

		e, err := core.NewEngram(core.NewEngramParams{
			OwnerID:       p.OwnerID,
			Content:       fact.Content,
			ContentHash:   dupResult.Hash,
			Strand:        strand,
			Tags:          p.Tags,
			Metadata:      p.Metadata,
			Embedding:     embedding,
			Signal:        p.Signal,
			PulseRate:     p.PulseRate,
		}, s.embedder.Dimension(), now)
		if err != nil {
			return nil, err
		}
		if err := s.engrams.SaveEngram(ctx, e); err != nil {
			return nil, err
		}
		engrams = append(engrams, e)
	}

	if len(engrams) >= 2 {
		ids := make([]string, len(engrams))
		for i, e := range engrams {
			ids[i] = e.ID()
		}
		if err := s.association.FormPairwise(ctx, p.OwnerID, ids, now); err != nil {
			s.logger.Warn("synapse formation failed", zap.Error(err))
		}
	}

	for _, tf := range extraction.TemporalFacts {
		_, err := s.temporal.RecordFact(ctx, temporalParams(p.OwnerID, tf), now)
		if err != nil {
			s.logger.Warn("failed to record temporal fact",
				zap.String("entity", tf.Entity),
				zap.String("attribute", tf.Attribute),
				zap.Error(err),
			)
		}
	}

	if len(engrams) > 0 && s.bus != nil {
		ids := make([]string, len(engrams))
		for i, e := range engrams {
			ids[i] = e.ID()
		}
		if err := s.bus.Publish(ctx, events.NewMemoryIngested(p.OwnerID, ids, now)); err != nil {
			s.logger.Warn("failed to publish memory.ingested event", zap.Error(err))
		}
	}

	return engrams, nil
}

func temporalParams(ownerID string, tf ports.ExtractedTemporalFact) temporal.RecordFactParams {
	return temporal.RecordFactParams{
		OwnerID:   ownerID,
		Entity:    tf.Entity,
		Attribute: tf.Attribute,
		Value:     tf.Value,
		Certainty: tf.Certainty,
	}
}
