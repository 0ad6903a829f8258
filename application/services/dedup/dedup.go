// Package dedup implements the two-stage duplicate check ingestion runs
// against an owner's existing engrams before creating a new one.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"mnemosyne/application/ports"
	"mnemosyne/application/services/mathkernel"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// Result reports the outcome of a duplicate check.
type Result struct {
	Duplicate *core.Engram
	Hash      string
}

// Service checks new content against an owner's existing engrams for exact
// and semantic duplicates.
type Service struct {
	engrams ports.EngramStore
	cfg     *config.DomainConfig
}

func NewService(engrams ports.EngramStore, cfg *config.DomainConfig) *Service {
	return &Service{engrams: engrams, cfg: cfg}
}

// ContentHash computes the SHA-256 hex digest of raw content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Check runs the exact-then-semantic duplicate check.
// A hash match is always a duplicate with similarity 1.0; otherwise the top
// cfg.SemanticNeighborCandidates vector neighbors are checked against a full
// cosine recomputation, and the first one at or above
// cfg.SemanticDuplicateThreshold wins.
func (s *Service) Check(ctx context.Context, ownerID, content string, embedding []float32) (Result, error) {
	hash := ContentHash(content)

	exact, err := s.engrams.FindByContentHash(ctx, ownerID, hash)
	if err != nil {
		return Result{}, err
	}
	if exact != nil {
		return Result{Duplicate: exact, Hash: hash}, nil
	}

	neighbors, err := s.engrams.VectorSearch(ctx, ownerID, embedding, s.cfg.SemanticNeighborCandidates, "")
	if err != nil {
		return Result{}, err
	}
	for _, n := range neighbors {
		sim := mathkernel.Cosine(embedding, n.Engram.Embedding())
		if sim >= s.cfg.SemanticDuplicateThreshold {
			return Result{Duplicate: n.Engram, Hash: hash}, nil
		}
	}

	return Result{Hash: hash}, nil
}
