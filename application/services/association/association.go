// Package association implements synapse formation, path reinforcement, and
// BFS-based expansion over the associative graph between engrams.
package association

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// Service manages the synapse graph between an owner's engrams.
type Service struct {
	synapses ports.SynapseStore
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

func NewService(synapses ports.SynapseStore, cfg *config.DomainConfig, logger *zap.Logger) *Service {
	return &Service{synapses: synapses, cfg: cfg, logger: logger}
}

// FormPairwise creates or upserts a synapse between every unordered pair of
// the given engram ids. New synapses start at cfg.SynapseInitialWeight
// (0.5); existing ones saturate at min(weight + cfg.SynapseUpsertBoost, 1.0).
func (s *Service) FormPairwise(ctx context.Context, ownerID string, engramIDs []string, now time.Time) error {
	for i := 0; i < len(engramIDs); i++ {
		for j := i + 1; j < len(engramIDs); j++ {
			if err := s.upsert(ctx, ownerID, engramIDs[i], engramIDs[j], now); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) upsert(ctx context.Context, ownerID, a, b string, now time.Time) error {
	existing, err := s.synapses.GetSynapse(ctx, ownerID, a, b)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Reinforce(s.cfg.SynapseUpsertBoost, now)
		return s.synapses.SaveSynapse(ctx, existing)
	}

	syn, err := core.NewSynapse(ownerID, a, b, s.cfg.SynapseInitialWeight, now)
	if err != nil {
		return err
	}
	return s.synapses.SaveSynapse(ctx, syn)
}

// ReinforcePath walks an ordered engram id path and applies the default
// synapse boost to each adjacent directed pair. Missing synapses are
// silently skipped.
func (s *Service) ReinforcePath(ctx context.Context, ownerID string, path []string, now time.Time) error {
	for i := 0; i+1 < len(path); i++ {
		syn, err := s.synapses.GetSynapse(ctx, ownerID, path[i], path[i+1])
		if err != nil {
			return err
		}
		if syn == nil {
			continue
		}
		syn.Reinforce(s.cfg.SynapseReinforceBoost, now)
		if err := s.synapses.SaveSynapse(ctx, syn); err != nil {
			return err
		}
	}
	return nil
}

// Boosted is an engram id reached during BFS expansion along with the
// decayed boost it was assigned.
type Boosted struct {
	EngramID string
	Boost    float64
}

// Expand performs a breadth-first traversal along the synapses touching
// each node, in either stored direction, starting from seeds. Each visited node is assigned
// boost = parentBoost * synapseWeight * decayFactor. A node is visited at
// most once; its first-assigned boost stands. Seeds themselves are not
// emitted.
func (s *Service) Expand(ctx context.Context, ownerID string, seeds []string) ([]Boosted, error) {
	visited := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		visited[seed] = struct{}{}
	}

	type frontierNode struct {
		id    string
		boost float64
		depth int
	}

	frontier := make([]frontierNode, 0, len(seeds))
	for _, seed := range seeds {
		frontier = append(frontier, frontierNode{id: seed, boost: 1.0, depth: 0})
	}

	var result []Boosted

	for len(frontier) > 0 {
		next := make([]frontierNode, 0)
		for _, node := range frontier {
			if node.depth >= s.cfg.BFSMaxDepth {
				continue
			}
			outgoing, err := s.synapses.ListSynapsesFrom(ctx, ownerID, node.id)
			if err != nil {
				return nil, err
			}
			for _, syn := range outgoing {
				// ListSynapsesFrom returns every synapse touching node.id on
				// either end, since synapses are formed pairwise and have no
				// meaningful direction; take whichever endpoint isn't node.id.
				target := syn.TargetID()
				if target == node.id {
					target = syn.SourceID()
				}
				boost := node.boost * syn.Weight() * s.cfg.BFSDecayFactor
				if _, seen := visited[target]; seen {
					continue
				}
				visited[target] = struct{}{}
				result = append(result, Boosted{EngramID: target, Boost: boost})
				next = append(next, frontierNode{id: target, boost: boost, depth: node.depth + 1})
			}
		}
		frontier = next
	}

	return result, nil
}
