package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/ports"
	pkgerrors "mnemosyne/pkg/errors"
)

// UpdateEngramHandler patches the mutable fields of an engram, enforcing
// optimistic concurrency when the caller supplies IfMatch (the version it
// last observed).
type UpdateEngramHandler struct {
	engrams ports.EngramStore
	logger  *zap.Logger
}

func NewUpdateEngramHandler(engrams ports.EngramStore, logger *zap.Logger) *UpdateEngramHandler {
	return &UpdateEngramHandler{engrams: engrams, logger: logger}
}

func (h *UpdateEngramHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.UpdateEngramCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	e, err := h.engrams.GetEngram(ctx, c.OwnerID, c.EngramID)
	if err != nil {
		return fmt.Errorf("update engram failed: %w", err)
	}
	if e == nil {
		return pkgerrors.ErrEngramNotFound
	}
	if c.IfMatch != nil && *c.IfMatch != e.Version() {
		return pkgerrors.ErrConcurrentModification
	}

	e.Update(c.Content, c.Tags, c.Metadata, c.Strand, time.Now())
	if err := h.engrams.SaveEngram(ctx, e); err != nil {
		return fmt.Errorf("update engram failed: %w", err)
	}

	h.logger.Info("engram updated", zap.String("engramID", c.EngramID), zap.Int("version", e.Version()))
	return nil
}
