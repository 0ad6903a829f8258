// Package temporal implements the bitemporal chronicle store's recording,
// querying, expiry, and nexus-linking operations.
package temporal

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/core"
)

// Service implements the bitemporal fact store (record/query/expire a
// chronicle).
type Service struct {
	chronicles ports.ChronicleStore
	nexuses    ports.NexusStore
	logger     *zap.Logger
}

func NewService(chronicles ports.ChronicleStore, nexuses ports.NexusStore, logger *zap.Logger) *Service {
	return &Service{chronicles: chronicles, nexuses: nexuses, logger: logger}
}

// RecordFactParams carries the fields needed to record a new chronicle.
type RecordFactParams struct {
	OwnerID       string
	Entity        string
	Attribute     string
	Value         string
	Certainty     float64
	EffectiveFrom time.Time
	Metadata      map[string]interface{}
}

// RecordFact inserts a new open-ended chronicle. When p.EffectiveFrom is
// zero it first closes the current chronicle for (ownerId, entity,
// attribute), if one is open, which keeps at most one current value for
// the tuple; a chronicle with an explicit EffectiveFrom is inserted without
// closing anything.
func (s *Service) RecordFact(ctx context.Context, p RecordFactParams, now time.Time) (*core.Chronicle, error) {
	if p.EffectiveFrom.IsZero() {
		current, err := s.chronicles.GetCurrentChronicle(ctx, p.OwnerID, p.Entity, p.Attribute)
		if err != nil {
			return nil, err
		}
		if current != nil {
			current.Expire(now)
			if err := s.chronicles.SaveChronicle(ctx, current); err != nil {
				return nil, err
			}
		}
	}

	chronicle, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID:       p.OwnerID,
		Entity:        p.Entity,
		Attribute:     p.Attribute,
		Value:         p.Value,
		Certainty:     p.Certainty,
		EffectiveFrom: p.EffectiveFrom,
		Metadata:      p.Metadata,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.chronicles.SaveChronicle(ctx, chronicle); err != nil {
		return nil, err
	}
	return chronicle, nil
}

// Query runs the general chronicle query: any subset of entity, attribute,
// at, from, to. Results are ordered by effectiveFrom descending.
func (s *Service) Query(ctx context.Context, q ports.ChronicleQuery) ([]*core.Chronicle, error) {
	results, err := s.chronicles.QueryChronicles(ctx, q)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EffectiveFrom().After(results[j].EffectiveFrom())
	})
	return results, nil
}

// Timeline returns all chronicles for (ownerId, entity) ordered by
// effectiveFrom ascending.
func (s *Service) Timeline(ctx context.Context, ownerID, entity string) ([]*core.Chronicle, error) {
	results, err := s.chronicles.QueryChronicles(ctx, ports.ChronicleQuery{OwnerID: ownerID, Entity: entity})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EffectiveFrom().Before(results[j].EffectiveFrom())
	})
	return results, nil
}

// ExpireChronicle soft-deletes a chronicle: sets effectiveUntil to now iff
// it is currently open.
func (s *Service) ExpireChronicle(ctx context.Context, ownerID, id string, now time.Time) error {
	c, err := s.chronicles.GetChronicle(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	c.Expire(now)
	return s.chronicles.SaveChronicle(ctx, c)
}

// UpdateChronicle patches certainty and/or metadata on an existing
// chronicle, returning nil and no error if it doesn't exist.
func (s *Service) UpdateChronicle(ctx context.Context, ownerID, id string, certainty *float64, metadata map[string]interface{}) (*core.Chronicle, error) {
	c, err := s.chronicles.GetChronicle(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	c.Annotate(certainty, metadata)
	if err := s.chronicles.SaveChronicle(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LinkNexus creates a typed directed link between two chronicles.
func (s *Service) LinkNexus(ctx context.Context, p core.NewNexusParams, now time.Time) (*core.Nexus, error) {
	nexus := core.NewNexus(p, now)
	if err := s.nexuses.SaveNexus(ctx, nexus); err != nil {
		return nil, err
	}
	return nexus, nil
}

// RelatedChronicles returns the union of chronicles reachable through
// either direction of a nexus touching id, excluding id itself.
func (s *Service) RelatedChronicles(ctx context.Context, ownerID, id string) ([]*core.Chronicle, error) {
	outgoing, err := s.nexuses.ListNexusesFrom(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	incoming, err := s.nexuses.ListNexusesTo(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{id: {}}
	var ids []string
	for _, n := range outgoing {
		if _, ok := seen[n.LinkedID()]; !ok {
			seen[n.LinkedID()] = struct{}{}
			ids = append(ids, n.LinkedID())
		}
	}
	for _, n := range incoming {
		if _, ok := seen[n.OriginID()]; !ok {
			seen[n.OriginID()] = struct{}{}
			ids = append(ids, n.OriginID())
		}
	}

	results := make([]*core.Chronicle, 0, len(ids))
	for _, cid := range ids {
		c, err := s.chronicles.GetChronicle(ctx, ownerID, cid)
		if err != nil {
			s.logger.Warn("failed to load related chronicle", zap.String("id", cid), zap.Error(err))
			continue
		}
		if c != nil {
			results = append(results, c)
		}
	}
	return results, nil
}
