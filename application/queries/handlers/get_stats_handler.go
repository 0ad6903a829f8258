package handlers

import (
	"context"
	"fmt"

	"mnemosyne/application/ports"
	"mnemosyne/application/queries"
	"mnemosyne/application/queries/bus"
)

// Stats summarizes an owner's stored entities.
type Stats struct {
	EngramCount    int `json:"engramCount"`
	SynapseCount   int `json:"synapseCount"`
	ChronicleCount int `json:"chronicleCount"`
}

// GetStatsHandler computes a per-owner storage summary.
type GetStatsHandler struct {
	engrams    ports.EngramStore
	synapses   ports.SynapseStore
	chronicles ports.ChronicleStore
}

func NewGetStatsHandler(engrams ports.EngramStore, synapses ports.SynapseStore, chronicles ports.ChronicleStore) *GetStatsHandler {
	return &GetStatsHandler{engrams: engrams, synapses: synapses, chronicles: chronicles}
}

func (h *GetStatsHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetStatsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}

	engrams, err := h.engrams.ListEngrams(ctx, query.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get stats failed: %w", err)
	}

	seen := make(map[string]struct{})
	for _, e := range engrams {
		syns, err := h.synapses.ListSynapsesFrom(ctx, query.OwnerID, e.ID())
		if err != nil {
			return nil, fmt.Errorf("get stats failed: %w", err)
		}
		for _, syn := range syns {
			seen[synapseKey(syn.SourceID(), syn.TargetID())] = struct{}{}
		}
	}

	chronicles, err := h.chronicles.QueryChronicles(ctx, ports.ChronicleQuery{OwnerID: query.OwnerID})
	if err != nil {
		return nil, fmt.Errorf("get stats failed: %w", err)
	}

	return Stats{
		EngramCount:    len(engrams),
		SynapseCount:   len(seen),
		ChronicleCount: len(chronicles),
	}, nil
}

// synapseKey normalizes a synapse's endpoint pair so that ListSynapsesFrom's
// both-sides-touch-the-query-id result doesn't count the same synapse twice
// when summed across every engram.
func synapseKey(sourceID, targetID string) string {
	if sourceID < targetID {
		return sourceID + "\x00" + targetID
	}
	return targetID + "\x00" + sourceID
}
