package core

import (
	"time"

	pkgerrors "mnemosyne/pkg/errors"
)

// Synapse is a directed weighted association between two engrams owned by
// the same owner.
type Synapse struct {
	sourceID     string
	targetID     string
	ownerID      string
	weight       float64
	formedAt     time.Time
	reinforcedAt time.Time
}

// NewSynapse creates a synapse with the given initial weight, clamped to
// (0, 1]. sourceID and targetID must differ.
func NewSynapse(ownerID, sourceID, targetID string, weight float64, now time.Time) (*Synapse, error) {
	if sourceID == targetID {
		return nil, pkgerrors.ErrSelfReferentialSynapse
	}
	if weight <= 0 {
		weight = 0.01
	}
	if weight > 1 {
		weight = 1
	}
	return &Synapse{
		sourceID:     sourceID,
		targetID:     targetID,
		ownerID:      ownerID,
		weight:       weight,
		formedAt:     now,
		reinforcedAt: now,
	}, nil
}

// ReconstructSynapse rebuilds a synapse from stored attributes.
func ReconstructSynapse(ownerID, sourceID, targetID string, weight float64, formedAt, reinforcedAt time.Time) *Synapse {
	return &Synapse{sourceID: sourceID, targetID: targetID, ownerID: ownerID, weight: weight, formedAt: formedAt, reinforcedAt: reinforcedAt}
}

func (s *Synapse) SourceID() string         { return s.sourceID }
func (s *Synapse) TargetID() string         { return s.targetID }
func (s *Synapse) OwnerID() string          { return s.ownerID }
func (s *Synapse) Weight() float64          { return s.weight }
func (s *Synapse) FormedAt() time.Time      { return s.formedAt }
func (s *Synapse) ReinforcedAt() time.Time  { return s.reinforcedAt }

// Reinforce increases weight, saturating at 1, and advances reinforcedAt.
func (s *Synapse) Reinforce(boost float64, now time.Time) {
	s.weight += boost
	if s.weight > 1 {
		s.weight = 1
	}
	s.reinforcedAt = now
}
