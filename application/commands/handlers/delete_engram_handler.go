package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/ports"
)

// DeleteEngramHandler removes an engram and the synapses touching it.
type DeleteEngramHandler struct {
	engrams  ports.EngramStore
	synapses ports.SynapseStore
	logger   *zap.Logger
}

func NewDeleteEngramHandler(engrams ports.EngramStore, synapses ports.SynapseStore, logger *zap.Logger) *DeleteEngramHandler {
	return &DeleteEngramHandler{engrams: engrams, synapses: synapses, logger: logger}
}

func (h *DeleteEngramHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteEngramCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}
	return h.deleteOne(ctx, c.OwnerID, c.EngramID)
}

func (h *DeleteEngramHandler) deleteOne(ctx context.Context, ownerID, engramID string) error {
	if err := h.synapses.DeleteSynapsesForEngram(ctx, ownerID, engramID); err != nil {
		return fmt.Errorf("delete engram failed: %w", err)
	}
	if err := h.engrams.DeleteEngram(ctx, ownerID, engramID); err != nil {
		return fmt.Errorf("delete engram failed: %w", err)
	}
	h.logger.Info("engram deleted", zap.String("engramID", engramID))
	return nil
}

// BulkDeleteEngramsHandler removes multiple engrams in one call.
type BulkDeleteEngramsHandler struct {
	delete *DeleteEngramHandler
	logger *zap.Logger
}

func NewBulkDeleteEngramsHandler(delete *DeleteEngramHandler, logger *zap.Logger) *BulkDeleteEngramsHandler {
	return &BulkDeleteEngramsHandler{delete: delete, logger: logger}
}

func (h *BulkDeleteEngramsHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.BulkDeleteEngramsCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	var firstErr error
	deleted := 0
	for _, id := range c.EngramIDs {
		if err := h.delete.deleteOne(ctx, c.OwnerID, id); err != nil {
			h.logger.Warn("bulk delete: failed to delete engram", zap.String("engramID", id), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}
	h.logger.Info("bulk delete completed", zap.Int("requested", len(c.EngramIDs)), zap.Int("deleted", deleted))
	return firstErr
}
