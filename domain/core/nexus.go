package core

import (
	"time"

	"github.com/google/uuid"
)

// Nexus is a typed directional link between two chronicles.
type Nexus struct {
	id             string
	ownerID        string
	originID       string
	linkedID       string
	bondType       string
	strength       float64
	effectiveFrom  time.Time
	effectiveUntil *time.Time
	metadata       map[string]interface{}
}

// NewNexusParams carries the fields needed to create a nexus.
type NewNexusParams struct {
	OwnerID       string
	OriginID      string
	LinkedID      string
	BondType      string
	Strength      float64
	EffectiveFrom time.Time
	Metadata      map[string]interface{}
}

// NewNexus creates a new nexus link between two chronicles.
func NewNexus(p NewNexusParams, now time.Time) *Nexus {
	strength := clamp01(p.Strength)
	if p.Strength == 0 {
		strength = 1.0
	}
	effectiveFrom := p.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = now
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return &Nexus{
		id:            uuid.New().String(),
		ownerID:       p.OwnerID,
		originID:      p.OriginID,
		linkedID:      p.LinkedID,
		bondType:      p.BondType,
		strength:      strength,
		effectiveFrom: effectiveFrom,
		metadata:      metadata,
	}
}

// ReconstructNexus rebuilds a nexus from stored attributes.
func ReconstructNexus(id, ownerID, originID, linkedID, bondType string, strength float64, effectiveFrom time.Time, effectiveUntil *time.Time, metadata map[string]interface{}) *Nexus {
	return &Nexus{id: id, ownerID: ownerID, originID: originID, linkedID: linkedID, bondType: bondType, strength: strength, effectiveFrom: effectiveFrom, effectiveUntil: effectiveUntil, metadata: metadata}
}

func (n *Nexus) ID() string                      { return n.id }
func (n *Nexus) OwnerID() string                 { return n.ownerID }
func (n *Nexus) OriginID() string                { return n.originID }
func (n *Nexus) LinkedID() string                { return n.linkedID }
func (n *Nexus) BondType() string                { return n.bondType }
func (n *Nexus) Strength() float64               { return n.strength }
func (n *Nexus) EffectiveFrom() time.Time        { return n.effectiveFrom }
func (n *Nexus) EffectiveUntil() *time.Time      { return n.effectiveUntil }
func (n *Nexus) Metadata() map[string]interface{} { return n.metadata }

// Conventional bond types. BondType is otherwise a free-form short string;
// these are suggestions, not an enum.
const (
	BondSupersededBy = "superseded_by"
	BondCausedBy     = "caused_by"
	BondRelatedTo    = "related_to"
)
