package embedded

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// snapshot is the JSON-serializable form of a Store's primary entities. The
// vector index is rebuilt from engram embeddings on Load rather than
// serialized directly, since chromem-go owns its own in-memory layout.
type snapshot struct {
	Engrams    []engramRecord    `json:"engrams"`
	Synapses   []synapseRecord   `json:"synapses"`
	Chronicles []chronicleRecord `json:"chronicles"`
	Nexuses    []nexusRecord     `json:"nexuses"`
}

type engramRecord struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	Content        string                 `json:"content"`
	ContentHash    string                 `json:"contentHash"`
	Strand         config.Strand          `json:"strand"`
	Tags           []string               `json:"tags"`
	Metadata       map[string]interface{} `json:"metadata"`
	Embedding      []float32              `json:"embedding"`
	Signal         float64                `json:"signal"`
	PulseRate      float64                `json:"pulseRate"`
	AccessCount    int                    `json:"accessCount"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	LastAccessedAt time.Time              `json:"lastAccessedAt"`
}

type synapseRecord struct {
	SourceID     string    `json:"sourceId"`
	TargetID     string    `json:"targetId"`
	OwnerID      string    `json:"ownerId"`
	Weight       float64   `json:"weight"`
	FormedAt     time.Time `json:"formedAt"`
	ReinforcedAt time.Time `json:"reinforcedAt"`
}

type chronicleRecord struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	Entity         string                 `json:"entity"`
	Attribute      string                 `json:"attribute"`
	Value          string                 `json:"value"`
	Certainty      float64                `json:"certainty"`
	EffectiveFrom  time.Time              `json:"effectiveFrom"`
	EffectiveUntil *time.Time             `json:"effectiveUntil,omitempty"`
	RecordedAt     time.Time              `json:"recordedAt"`
	Metadata       map[string]interface{} `json:"metadata"`
}

type nexusRecord struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	OriginID       string                 `json:"originId"`
	LinkedID       string                 `json:"linkedId"`
	BondType       string                 `json:"bondType"`
	Strength       float64                `json:"strength"`
	EffectiveFrom  time.Time              `json:"effectiveFrom"`
	EffectiveUntil *time.Time             `json:"effectiveUntil,omitempty"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// Dump serializes the store's primary entities to path as JSON.
func (s *Store) Dump(path string) error {
	s.mu.RLock()
	snap := snapshot{}
	for _, byOwner := range s.engrams {
		for _, e := range byOwner {
			snap.Engrams = append(snap.Engrams, engramRecord{
				ID: e.ID(), OwnerID: e.OwnerID(), Content: e.Content(), ContentHash: e.ContentHash(),
				Strand: e.Strand(), Tags: e.Tags(), Metadata: e.Metadata(), Embedding: e.Embedding(),
				Signal: e.Signal(), PulseRate: e.PulseRate(), AccessCount: e.AccessCount(), Version: e.Version(),
				CreatedAt: e.CreatedAt(), UpdatedAt: e.UpdatedAt(), LastAccessedAt: e.LastAccessedAt(),
			})
		}
	}
	for _, byKey := range s.synapses {
		for _, syn := range byKey {
			snap.Synapses = append(snap.Synapses, synapseRecord{
				SourceID: syn.SourceID(), TargetID: syn.TargetID(), OwnerID: syn.OwnerID(),
				Weight: syn.Weight(), FormedAt: syn.FormedAt(), ReinforcedAt: syn.ReinforcedAt(),
			})
		}
	}
	for _, byID := range s.chronicles {
		for _, c := range byID {
			snap.Chronicles = append(snap.Chronicles, chronicleRecord{
				ID: c.ID(), OwnerID: c.OwnerID(), Entity: c.Entity(), Attribute: c.Attribute(), Value: c.Value(),
				Certainty: c.Certainty(), EffectiveFrom: c.EffectiveFrom(), EffectiveUntil: c.EffectiveUntil(),
				RecordedAt: c.RecordedAt(), Metadata: c.Metadata(),
			})
		}
	}
	for _, byID := range s.nexuses {
		for _, n := range byID {
			snap.Nexuses = append(snap.Nexuses, nexusRecord{
				ID: n.ID(), OwnerID: n.OwnerID(), OriginID: n.OriginID(), LinkedID: n.LinkedID(), BondType: n.BondType(),
				Strength: n.Strength(), EffectiveFrom: n.EffectiveFrom(), EffectiveUntil: n.EffectiveUntil(),
				Metadata: n.Metadata(),
			})
		}
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load reads a snapshot written by Dump back into the store, rebuilding the
// vector index from each engram's stored embedding. Load expects an empty
// store; it does not merge with existing data.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	ctx := context.Background()
	for _, r := range snap.Engrams {
		e := core.ReconstructEngram(
			r.ID, r.OwnerID, r.Content, r.ContentHash, r.Strand, r.Tags, r.Metadata, r.Embedding,
			r.Signal, r.PulseRate, r.AccessCount, r.Version, r.CreatedAt, r.UpdatedAt, r.LastAccessedAt,
		)
		if err := s.SaveEngram(ctx, e); err != nil {
			return err
		}
	}
	for _, r := range snap.Synapses {
		syn := core.ReconstructSynapse(r.OwnerID, r.SourceID, r.TargetID, r.Weight, r.FormedAt, r.ReinforcedAt)
		if err := s.SaveSynapse(ctx, syn); err != nil {
			return err
		}
	}
	for _, r := range snap.Chronicles {
		c := core.ReconstructChronicle(r.ID, r.OwnerID, r.Entity, r.Attribute, r.Value, r.Certainty,
			r.EffectiveFrom, r.EffectiveUntil, r.RecordedAt, r.Metadata)
		if err := s.SaveChronicle(ctx, c); err != nil {
			return err
		}
	}
	for _, r := range snap.Nexuses {
		n := core.ReconstructNexus(r.ID, r.OwnerID, r.OriginID, r.LinkedID, r.BondType, r.Strength,
			r.EffectiveFrom, r.EffectiveUntil, r.Metadata)
		if err := s.SaveNexus(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
