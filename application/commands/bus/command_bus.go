// Package bus dispatches commands to their registered handlers by
// reflecting on the command's concrete type.
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Command is anything that mutates state and can validate its own shape
// before a handler runs.
type Command interface {
	Validate() error
}

// CommandHandler executes a single command type.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error { return f(ctx, cmd) }

// CommandBus routes each command to the handler registered for its
// concrete type.
type CommandBus struct {
	handlers map[reflect.Type]CommandHandler
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewCommandBus creates an empty command bus.
func NewCommandBus(logger *zap.Logger) *CommandBus {
	return &CommandBus{
		handlers: make(map[reflect.Type]CommandHandler),
		logger:   logger,
	}
}

// Register binds a handler to the concrete type of cmdType.
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}
	b.handlers[t] = handler
	return nil
}

// Send validates the command and dispatches it to its handler.
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()
	if !exists {
		return fmt.Errorf("no handler registered for command type %T", cmd)
	}

	cmdName := reflect.TypeOf(cmd).Name()
	if err := handler.Handle(ctx, cmd); err != nil {
		b.logger.Error("command failed", zap.String("command", cmdName), zap.Error(err))
		return fmt.Errorf("command handler failed: %w", err)
	}
	b.logger.Debug("command succeeded", zap.String("command", cmdName))
	return nil
}
