package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/core"
)

// CreateNexusHandler creates a typed directed link between two chronicles.
type CreateNexusHandler struct {
	temporal *temporal.Service
	logger   *zap.Logger
}

func NewCreateNexusHandler(temporalSvc *temporal.Service, logger *zap.Logger) *CreateNexusHandler {
	return &CreateNexusHandler{temporal: temporalSvc, logger: logger}
}

func (h *CreateNexusHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.CreateNexusCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	now := time.Now()
	nexus, err := h.temporal.LinkNexus(ctx, core.NewNexusParams{
		OwnerID:       c.OwnerID,
		OriginID:      c.OriginID,
		LinkedID:      c.LinkedID,
		BondType:      c.BondType,
		Strength:      c.Strength,
		EffectiveFrom: now,
		Metadata:      c.Metadata,
	}, now)
	if err != nil {
		return fmt.Errorf("create nexus failed: %w", err)
	}

	h.logger.Info("nexus created", zap.String("nexusID", nexus.ID()), zap.String("bondType", c.BondType))
	return nil
}
