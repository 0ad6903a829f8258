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
	"mnemosyne/domain/events"
)

// RunDecayHandler triggers a decay cycle for an owner.
type RunDecayHandler struct {
	signal *signal.Service
	events ports.EventBus
	logger *zap.Logger
}

func NewRunDecayHandler(signalSvc *signal.Service, eventBus ports.EventBus, logger *zap.Logger) *RunDecayHandler {
	return &RunDecayHandler{signal: signalSvc, events: eventBus, logger: logger}
}

func (h *RunDecayHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.RunDecayCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	now := time.Now()
	affected, err := h.signal.RunDecayCycle(ctx, c.OwnerID, now)
	if err != nil {
		return fmt.Errorf("decay cycle failed: %w", err)
	}

	if h.events != nil {
		if err := h.events.Publish(ctx, events.NewDecayCycleCompleted(c.OwnerID, affected, now)); err != nil {
			h.logger.Warn("failed to publish decay.cycle_completed event", zap.Error(err))
		}
	}
	return nil
}
