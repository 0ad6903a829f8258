package commands

import "errors"

// CreateNexusCommand creates a typed directed link between two chronicles.
type CreateNexusCommand struct {
	OwnerID  string                 `json:"ownerId" validate:"required"`
	OriginID string                 `json:"originId" validate:"required"`
	LinkedID string                 `json:"linkedId" validate:"required"`
	BondType string                 `json:"bondType" validate:"required"`
	Strength float64                `json:"strength,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (c CreateNexusCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if c.OriginID == "" || c.LinkedID == "" {
		return errors.New("originId and linkedId are required")
	}
	if c.BondType == "" {
		return errors.New("bondType is required")
	}
	return nil
}

// RunDecayCommand triggers a decay cycle for an owner's engrams.
type RunDecayCommand struct {
	OwnerID string `json:"ownerId" validate:"required"`
}

func (c RunDecayCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	return nil
}
