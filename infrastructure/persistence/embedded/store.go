// Package embedded provides the default, self-hosted backing store: a
// primary in-memory map of entities guarded by a RWMutex, with a
// philippgille/chromem-go per-owner collection as a pure-Go vector index
// for similarity search. No network, no external process.
package embedded

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"mnemosyne/application/ports"
	"mnemosyne/application/services/mathkernel"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// Store is the embedded, in-process implementation of ports.Store.
type Store struct {
	mu sync.RWMutex

	engrams    map[string]map[string]*core.Engram              // ownerID -> engramID -> engram
	synapses   map[string]map[string]*core.Synapse              // ownerID -> sourceID|targetID -> synapse
	chronicles map[string]map[string]*core.Chronicle            // ownerID -> chronicleID -> chronicle
	nexuses    map[string]map[string]*core.Nexus                // ownerID -> nexusID -> nexus

	vectors     *chromem.DB
	collections map[string]*chromem.Collection // ownerID -> collection
}

// New returns an empty embedded store.
func New() *Store {
	return &Store{
		engrams:     make(map[string]map[string]*core.Engram),
		synapses:    make(map[string]map[string]*core.Synapse),
		chronicles:  make(map[string]map[string]*core.Chronicle),
		nexuses:     make(map[string]map[string]*core.Nexus),
		vectors:     chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
	}
}

func synapseKey(sourceID, targetID string) string {
	return sourceID + "|" + targetID
}

// --- EngramStore ---

func (s *Store) SaveEngram(ctx context.Context, e *core.Engram) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engrams[e.OwnerID()] == nil {
		s.engrams[e.OwnerID()] = make(map[string]*core.Engram)
	}
	s.engrams[e.OwnerID()][e.ID()] = e

	col, err := s.getOrCreateCollection(e.OwnerID())
	if err != nil {
		return fmt.Errorf("embedded: vector index: %w", err)
	}
	doc := chromem.Document{
		ID:        e.ID(),
		Embedding: e.Embedding(),
		Metadata:  map[string]string{"ownerId": e.OwnerID(), "strand": string(e.Strand())},
	}
	if err := col.AddDocument(ctx, doc); err != nil && !isDuplicateIDError(err) {
		return fmt.Errorf("embedded: index engram: %w", err)
	}
	return nil
}

// isDuplicateIDError reports whether err is chromem-go's "document already
// exists" error, expected whenever an already-indexed engram is re-saved
// (e.g. after reinforcement, which does not change its embedding).
func isDuplicateIDError(err error) bool {
	return strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "duplicate")
}

func (s *Store) GetEngram(_ context.Context, ownerID, id string) (*core.Engram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engrams[ownerID][id], nil
}

func (s *Store) DeleteEngram(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engrams[ownerID], id)
	// chromem-go exposes no delete-by-ID; the vector index keeps a stale
	// entry that VectorSearch filters out by re-checking the primary map.
	return nil
}

func (s *Store) ListEngrams(_ context.Context, ownerID string) ([]*core.Engram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Engram, 0, len(s.engrams[ownerID]))
	for _, e := range s.engrams[ownerID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

// VectorSearch queries the owner's chromem-go collection, restricting to
// strand via a metadata where-filter when strand is non-empty.
func (s *Store) VectorSearch(ctx context.Context, ownerID string, embedding []float32, topK int, strand config.Strand) ([]ports.ScoredEngram, error) {
	s.mu.RLock()
	col, ok := s.collections[ownerID]
	liveCount := len(s.engrams[ownerID])
	s.mu.RUnlock()
	if !ok || liveCount == 0 {
		return nil, nil
	}

	var where map[string]string
	if strand != "" {
		where = map[string]string{"strand": string(strand)}
	}

	// chromem-go errors if nResults exceeds the collection size (which
	// includes stale entries for deleted engrams), so request generously
	// and let the post-filter below trim to topK live results.
	requested := topK * 3
	if requested < topK {
		requested = topK
	}

	var results []chromem.Result
	for currentLimit := requested; currentLimit >= 1; currentLimit-- {
		var err error
		results, err = col.QueryEmbedding(ctx, embedding, currentLimit, where, nil)
		if err == nil {
			break
		}
		if currentLimit == 1 {
			return nil, nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.ScoredEngram, 0, topK)
	for _, r := range results {
		e, ok := s.engrams[ownerID][r.ID]
		if !ok {
			continue // stale index entry for a deleted engram
		}
		out = append(out, ports.ScoredEngram{Engram: e, Score: mathkernel.CosineToUnit(float64(r.Similarity))})
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

func (s *Store) FindByContentHash(_ context.Context, ownerID, contentHash string) (*core.Engram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.engrams[ownerID] {
		if e.ContentHash() == contentHash {
			return e, nil
		}
	}
	return nil, nil
}

// getOrCreateCollection assumes the caller already holds s.mu for writing.
func (s *Store) getOrCreateCollection(ownerID string) (*chromem.Collection, error) {
	if col, ok := s.collections[ownerID]; ok {
		return col, nil
	}
	name := "owner_" + ownerID
	col, err := s.vectors.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, err
	}
	s.collections[ownerID] = col
	return col, nil
}

// --- SynapseStore ---

func (s *Store) SaveSynapse(_ context.Context, syn *core.Synapse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.synapses[syn.OwnerID()] == nil {
		s.synapses[syn.OwnerID()] = make(map[string]*core.Synapse)
	}
	s.synapses[syn.OwnerID()][synapseKey(syn.SourceID(), syn.TargetID())] = syn
	return nil
}

func (s *Store) GetSynapse(_ context.Context, ownerID, sourceID, targetID string) (*core.Synapse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if syn, ok := s.synapses[ownerID][synapseKey(sourceID, targetID)]; ok {
		return syn, nil
	}
	if syn, ok := s.synapses[ownerID][synapseKey(targetID, sourceID)]; ok {
		return syn, nil
	}
	return nil, nil
}

func (s *Store) ListSynapsesFrom(_ context.Context, ownerID, engramID string) ([]*core.Synapse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.Synapse
	for _, syn := range s.synapses[ownerID] {
		if syn.SourceID() == engramID || syn.TargetID() == engramID {
			out = append(out, syn)
		}
	}
	return out, nil
}

func (s *Store) DeleteSynapsesForEngram(_ context.Context, ownerID, engramID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, syn := range s.synapses[ownerID] {
		if syn.SourceID() == engramID || syn.TargetID() == engramID {
			delete(s.synapses[ownerID], key)
		}
	}
	return nil
}

// --- ChronicleStore ---

func (s *Store) SaveChronicle(_ context.Context, c *core.Chronicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chronicles[c.OwnerID()] == nil {
		s.chronicles[c.OwnerID()] = make(map[string]*core.Chronicle)
	}
	s.chronicles[c.OwnerID()][c.ID()] = c
	return nil
}

func (s *Store) GetChronicle(_ context.Context, ownerID, id string) (*core.Chronicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chronicles[ownerID][id], nil
}

func (s *Store) GetCurrentChronicle(_ context.Context, ownerID, entity, attribute string) (*core.Chronicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chronicles[ownerID] {
		if c.Entity() == entity && c.Attribute() == attribute && c.IsCurrent() {
			return c, nil
		}
	}
	return nil, nil
}

func (s *Store) QueryChronicles(_ context.Context, q ports.ChronicleQuery) ([]*core.Chronicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Chronicle
	for _, c := range s.chronicles[q.OwnerID] {
		if q.Entity != "" && c.Entity() != q.Entity {
			continue
		}
		if q.Attribute != "" && c.Attribute() != q.Attribute {
			continue
		}
		if q.AsOf != nil && !c.MatchesAt(*q.AsOf) {
			continue
		}
		if q.From != nil && c.EffectiveFrom().Before(*q.From) {
			continue
		}
		if q.To != nil && c.EffectiveFrom().After(*q.To) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) DeleteChronicle(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chronicles[ownerID], id)
	return nil
}

// --- NexusStore ---

func (s *Store) SaveNexus(_ context.Context, n *core.Nexus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nexuses[n.OwnerID()] == nil {
		s.nexuses[n.OwnerID()] = make(map[string]*core.Nexus)
	}
	s.nexuses[n.OwnerID()][n.ID()] = n
	return nil
}

func (s *Store) ListNexusesFrom(_ context.Context, ownerID, chronicleID string) ([]*core.Nexus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.Nexus
	for _, n := range s.nexuses[ownerID] {
		if n.OriginID() == chronicleID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) ListNexusesTo(_ context.Context, ownerID, chronicleID string) ([]*core.Nexus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.Nexus
	for _, n := range s.nexuses[ownerID] {
		if n.LinkedID() == chronicleID {
			out = append(out, n)
		}
	}
	return out, nil
}

// Close releases the embedded store's resources. The vector index is
// purely in-memory, so there is nothing to release.
func (s *Store) Close(_ context.Context) error {
	return nil
}
