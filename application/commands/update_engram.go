package commands

import (
	"errors"

	"mnemosyne/domain/config"
)

// UpdateEngramCommand patches the mutable fields of an existing engram.
// Only non-nil pointer fields are applied; the stored version increments
// regardless of which fields changed.
type UpdateEngramCommand struct {
	OwnerID  string                  `json:"ownerId" validate:"required"`
	EngramID string                  `json:"engramId" validate:"required"`
	Content  *string                 `json:"content,omitempty"`
	Tags     []string                `json:"tags,omitempty"`
	Metadata map[string]interface{}  `json:"metadata,omitempty"`
	Strand   *config.Strand          `json:"strand,omitempty"`
	IfMatch  *int                    `json:"ifMatch,omitempty"`
}

func (c UpdateEngramCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if c.EngramID == "" {
		return errors.New("engramId is required")
	}
	if c.Strand != nil && !config.IsValidStrand(string(*c.Strand)) {
		return errors.New("strand is not recognized")
	}
	return nil
}
