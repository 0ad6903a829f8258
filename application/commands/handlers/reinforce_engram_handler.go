package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/ports"
	"mnemosyne/application/services/signal"
	"mnemosyne/domain/config"
	pkgerrors "mnemosyne/pkg/errors"
)

// ReinforceEngramHandler applies a manual signal boost to an engram.
type ReinforceEngramHandler struct {
	engrams ports.EngramStore
	signal  *signal.Service
	cfg     *config.DomainConfig
	logger  *zap.Logger
}

func NewReinforceEngramHandler(engrams ports.EngramStore, signalSvc *signal.Service, cfg *config.DomainConfig, logger *zap.Logger) *ReinforceEngramHandler {
	return &ReinforceEngramHandler{engrams: engrams, signal: signalSvc, cfg: cfg, logger: logger}
}

func (h *ReinforceEngramHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ReinforceEngramCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	e, err := h.engrams.GetEngram(ctx, c.OwnerID, c.EngramID)
	if err != nil {
		return fmt.Errorf("reinforce engram failed: %w", err)
	}
	if e == nil {
		return pkgerrors.ErrEngramNotFound
	}

	boost := c.Boost
	if boost == 0 {
		boost = h.cfg.EngramReinforceBoost
	}
	if err := h.signal.ReinforceEngram(ctx, e, boost, time.Now()); err != nil {
		return fmt.Errorf("reinforce engram failed: %w", err)
	}

	h.logger.Info("engram reinforced", zap.String("engramID", c.EngramID), zap.Float64("newSignal", e.Signal()))
	return nil
}
