// Package signal implements the reinforcement and decay dynamics applied to
// engrams and synapses: saturating boosts and floored multiplicative decay.
package signal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
)

// Service applies reinforcement and decay to engrams and synapses.
type Service struct {
	engrams ports.EngramStore
	cfg     *config.DomainConfig
	logger  *zap.Logger
}

func NewService(engrams ports.EngramStore, cfg *config.DomainConfig, logger *zap.Logger) *Service {
	return &Service{engrams: engrams, cfg: cfg, logger: logger}
}

// ReinforceEngram boosts an engram's signal and persists it.
func (s *Service) ReinforceEngram(ctx context.Context, e *core.Engram, boost float64, now time.Time) error {
	e.Reinforce(boost, now)
	return s.engrams.SaveEngram(ctx, e)
}

// RecordAccess stamps an access without touching signal, and persists it.
func (s *Service) RecordAccess(ctx context.Context, e *core.Engram, now time.Time) error {
	e.RecordAccess(now)
	return s.engrams.SaveEngram(ctx, e)
}

// RunDecayCycle applies per-strand multiplicative decay to every engram of
// the owner whose signal is above the floor. Returns the number of engrams
// affected. Must be safe to run concurrently with ingestion: each engram is
// decayed independently and saved individually, so a failure partway
// through leaves already-decayed engrams decayed and does not corrupt
// engrams not yet visited.
func (s *Service) RunDecayCycle(ctx context.Context, ownerID string, now time.Time) (int, error) {
	all, err := s.engrams.ListEngrams(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	affected := 0
	for _, e := range all {
		if e.Signal() <= s.cfg.MinSignal {
			continue
		}
		rate, ok := s.cfg.DecayRates[e.Strand()]
		if !ok {
			rate = s.cfg.DecayRates[config.StrandGeneral]
		}
		e.Decay(rate, s.cfg.MinSignal, now)
		if err := s.engrams.SaveEngram(ctx, e); err != nil {
			s.logger.Warn("failed to persist decayed engram",
				zap.String("engramID", e.ID()),
				zap.Error(err),
			)
			continue
		}
		affected++
	}

	s.logger.Info("decay cycle completed",
		zap.String("ownerID", ownerID),
		zap.Int("affected", affected),
		zap.Int("total", len(all)),
	)
	return affected, nil
}
