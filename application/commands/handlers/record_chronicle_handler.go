package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/commands"
	"mnemosyne/application/commands/bus"
	"mnemosyne/application/services/temporal"
	pkgerrors "mnemosyne/pkg/errors"
)

// RecordChronicleHandler fronts the temporal service's RecordFact.
type RecordChronicleHandler struct {
	temporal *temporal.Service
	logger   *zap.Logger
}

func NewRecordChronicleHandler(temporalSvc *temporal.Service, logger *zap.Logger) *RecordChronicleHandler {
	return &RecordChronicleHandler{temporal: temporalSvc, logger: logger}
}

func (h *RecordChronicleHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.RecordChronicleCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	now := time.Now()
	var effectiveFrom time.Time
	if c.EffectiveFrom != nil {
		effectiveFrom = *c.EffectiveFrom
	}

	chronicle, err := h.temporal.RecordFact(ctx, temporal.RecordFactParams{
		OwnerID:       c.OwnerID,
		Entity:        c.Entity,
		Attribute:     c.Attribute,
		Value:         c.Value,
		Certainty:     c.Certainty,
		EffectiveFrom: effectiveFrom,
		Metadata:      c.Metadata,
	}, now)
	if err != nil {
		return fmt.Errorf("record chronicle failed: %w", err)
	}

	h.logger.Info("chronicle recorded", zap.String("chronicleID", chronicle.ID()), zap.String("entity", c.Entity))
	return nil
}

// DeleteChronicleHandler soft-deletes a chronicle.
type DeleteChronicleHandler struct {
	temporal *temporal.Service
	logger   *zap.Logger
}

func NewDeleteChronicleHandler(temporalSvc *temporal.Service, logger *zap.Logger) *DeleteChronicleHandler {
	return &DeleteChronicleHandler{temporal: temporalSvc, logger: logger}
}

func (h *DeleteChronicleHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteChronicleCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}
	if err := h.temporal.ExpireChronicle(ctx, c.OwnerID, c.ChronicleID, time.Now()); err != nil {
		return fmt.Errorf("delete chronicle failed: %w", err)
	}
	h.logger.Info("chronicle expired", zap.String("chronicleID", c.ChronicleID))
	return nil
}

// UpdateChronicleHandler patches certainty and/or metadata on a chronicle.
type UpdateChronicleHandler struct {
	temporal *temporal.Service
	logger   *zap.Logger
}

func NewUpdateChronicleHandler(temporalSvc *temporal.Service, logger *zap.Logger) *UpdateChronicleHandler {
	return &UpdateChronicleHandler{temporal: temporalSvc, logger: logger}
}

func (h *UpdateChronicleHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.UpdateChronicleCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	chronicle, err := h.temporal.UpdateChronicle(ctx, c.OwnerID, c.ChronicleID, c.Certainty, c.Metadata)
	if err != nil {
		return fmt.Errorf("update chronicle failed: %w", err)
	}
	if chronicle == nil {
		return pkgerrors.ErrChronicleNotFound
	}

	h.logger.Info("chronicle updated", zap.String("chronicleID", c.ChronicleID))
	return nil
}
