package commands

import (
	"errors"
	"time"
)

// RecordChronicleCommand records a bitemporal entity-attribute-value fact.
type RecordChronicleCommand struct {
	OwnerID       string                 `json:"ownerId" validate:"required"`
	Entity        string                 `json:"entity" validate:"required"`
	Attribute     string                 `json:"attribute" validate:"required"`
	Value         string                 `json:"value"`
	Certainty     float64                `json:"certainty,omitempty"`
	EffectiveFrom *time.Time             `json:"effectiveFrom,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

func (c RecordChronicleCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if c.Entity == "" {
		return errors.New("entity is required")
	}
	if c.Attribute == "" {
		return errors.New("attribute is required")
	}
	return nil
}

// UpdateChronicleCommand patches a chronicle's certainty and/or metadata.
// Entity, attribute, value and the effective-time window are immutable;
// asserting a new value for the tuple goes through RecordChronicleCommand
// instead.
type UpdateChronicleCommand struct {
	OwnerID     string                 `json:"ownerId" validate:"required"`
	ChronicleID string                 `json:"chronicleId" validate:"required"`
	Certainty   *float64               `json:"certainty,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (c UpdateChronicleCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if c.ChronicleID == "" {
		return errors.New("chronicleId is required")
	}
	return nil
}

// DeleteChronicleCommand soft-deletes a chronicle.
type DeleteChronicleCommand struct {
	OwnerID     string `json:"ownerId" validate:"required"`
	ChronicleID string `json:"chronicleId" validate:"required"`
}

func (c DeleteChronicleCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if c.ChronicleID == "" {
		return errors.New("chronicleId is required")
	}
	return nil
}
