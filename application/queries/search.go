package queries

import (
	"errors"

	"mnemosyne/domain/config"
)

// SearchQuery runs the hybrid retrieval pipeline.
type SearchQuery struct {
	OwnerID        string        `json:"ownerId" validate:"required"`
	Query          string        `json:"query" validate:"required"`
	Limit          int           `json:"limit,omitempty"`
	Strand         config.Strand `json:"strand,omitempty"`
	MinScore       float64       `json:"minScore,omitempty"`
	MinFinalScore  *float64      `json:"minFinalScore,omitempty"`
	ExpandSynapses *bool         `json:"expandSynapses,omitempty"`
}

func (q SearchQuery) Validate() error {
	if q.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if q.Query == "" {
		return errors.New("query is required")
	}
	if q.Strand != "" && !config.IsValidStrand(string(q.Strand)) {
		return errors.New("strand is not recognized")
	}
	return nil
}
