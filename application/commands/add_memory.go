package commands

import (
	"errors"

	"mnemosyne/domain/config"
)

// AddMemoryCommand ingests raw content for an owner, producing one or more
// engrams (and, where the input yields them, chronicles).
type AddMemoryCommand struct {
	OwnerID   string                 `json:"ownerId" validate:"required"`
	Content   string                 `json:"content" validate:"required"`
	Strand    config.Strand          `json:"strand,omitempty"`
	Tags      []string               `json:"tags,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Signal    *float64               `json:"signal,omitempty"`
	PulseRate *float64               `json:"pulseRate,omitempty"`
}

func (c AddMemoryCommand) Validate() error {
	if c.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if c.Content == "" {
		return errors.New("content is required")
	}
	if c.Strand != "" && !config.IsValidStrand(string(c.Strand)) {
		return errors.New("strand is not recognized")
	}
	return nil
}
