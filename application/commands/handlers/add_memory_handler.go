package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/services/ingest"
)

// AddMemoryHandler fronts the ingestion orchestrator for the command bus.
type AddMemoryHandler struct {
	orchestrator *ingest.Service
	logger       *zap.Logger
}

func NewAddMemoryHandler(orchestrator *ingest.Service, logger *zap.Logger) *AddMemoryHandler {
	return &AddMemoryHandler{orchestrator: orchestrator, logger: logger}
}

func (h *AddMemoryHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.AddMemoryCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	engrams, err := h.orchestrator.AddMemory(ctx, ingest.AddMemoryParams{
		OwnerID:   c.OwnerID,
		Content:   c.Content,
		Strand:    c.Strand,
		Tags:      c.Tags,
		Metadata:  c.Metadata,
		Signal:    c.Signal,
		PulseRate: c.PulseRate,
	}, time.Now())
	if err != nil {
		return fmt.Errorf("add memory failed: %w", err)
	}

	h.logger.Info("memory ingested", zap.String("ownerID", c.OwnerID), zap.Int("engramCount", len(engrams)))
	return nil
}
