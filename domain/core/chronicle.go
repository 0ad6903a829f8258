package core

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "mnemosyne/pkg/errors"
)

// Chronicle is a bitemporal entity-attribute-value assertion: "what held
// about an entity's attribute, and for how long".
type Chronicle struct {
	id             string
	ownerID        string
	entity         string
	attribute      string
	value          string
	certainty      float64
	effectiveFrom  time.Time
	effectiveUntil *time.Time
	recordedAt     time.Time
	metadata       map[string]interface{}
}

// NewChronicleParams carries the fields needed to record a new chronicle.
type NewChronicleParams struct {
	OwnerID       string
	Entity        string
	Attribute     string
	Value         string
	Certainty     float64
	EffectiveFrom time.Time
	Metadata      map[string]interface{}
}

// NewChronicle creates a chronicle open-ended at effectiveUntil=nil.
func NewChronicle(p NewChronicleParams, now time.Time) (*Chronicle, error) {
	if p.OwnerID == "" || p.Entity == "" || p.Attribute == "" {
		return nil, pkgerrors.NewValidationError("ownerId, entity and attribute are required")
	}
	certainty := p.Certainty
	if certainty == 0 {
		certainty = 1.0
	}
	certainty = clamp01(certainty)

	effectiveFrom := p.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = now
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	return &Chronicle{
		id:            uuid.New().String(),
		ownerID:       p.OwnerID,
		entity:        p.Entity,
		attribute:     p.Attribute,
		value:         p.Value,
		certainty:     certainty,
		effectiveFrom: effectiveFrom,
		recordedAt:    now,
		metadata:      metadata,
	}, nil
}

// ReconstructChronicle rebuilds a chronicle from stored attributes.
func ReconstructChronicle(
	id, ownerID, entity, attribute, value string,
	certainty float64,
	effectiveFrom time.Time,
	effectiveUntil *time.Time,
	recordedAt time.Time,
	metadata map[string]interface{},
) *Chronicle {
	return &Chronicle{
		id: id, ownerID: ownerID, entity: entity, attribute: attribute, value: value,
		certainty: certainty, effectiveFrom: effectiveFrom, effectiveUntil: effectiveUntil,
		recordedAt: recordedAt, metadata: metadata,
	}
}

func (c *Chronicle) ID() string                      { return c.id }
func (c *Chronicle) OwnerID() string                 { return c.ownerID }
func (c *Chronicle) Entity() string                  { return c.entity }
func (c *Chronicle) Attribute() string                { return c.attribute }
func (c *Chronicle) Value() string                    { return c.value }
func (c *Chronicle) Certainty() float64               { return c.certainty }
func (c *Chronicle) EffectiveFrom() time.Time         { return c.effectiveFrom }
func (c *Chronicle) EffectiveUntil() *time.Time       { return c.effectiveUntil }
func (c *Chronicle) RecordedAt() time.Time            { return c.recordedAt }
func (c *Chronicle) Metadata() map[string]interface{} { return c.metadata }

// IsCurrent reports whether the chronicle is still open (effectiveUntil is
// nil).
func (c *Chronicle) IsCurrent() bool {
	return c.effectiveUntil == nil
}

// MatchesAt reports whether the chronicle held at instant t:
// effectiveFrom <= t and (effectiveUntil is nil or effectiveUntil > t).
func (c *Chronicle) MatchesAt(t time.Time) bool {
	if c.effectiveFrom.After(t) {
		return false
	}
	if c.effectiveUntil != nil && !c.effectiveUntil.After(t) {
		return false
	}
	return true
}

// Expire closes an open chronicle at the given instant. A no-op if the
// chronicle is already closed.
func (c *Chronicle) Expire(at time.Time) {
	if c.effectiveUntil != nil {
		return
	}
	c.effectiveUntil = &at
}

// Annotate patches certainty and/or metadata in place. It never touches
// entity, attribute, value or the effective-time window: changing what a
// chronicle asserts is a new fact, recorded through RecordFact, not an edit
// to this one.
func (c *Chronicle) Annotate(certainty *float64, metadata map[string]interface{}) {
	if certainty != nil {
		c.certainty = clamp01(*certainty)
	}
	if metadata != nil {
		c.metadata = metadata
	}
}
