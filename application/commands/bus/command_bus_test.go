package bus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/commands/bus"
)

type fakeCommand struct {
	invalid bool
}

func (c fakeCommand) Validate() error {
	if c.invalid {
		return errors.New("invalid command")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestSend_DispatchesToRegisteredHandler(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus(zap.NewNop())
	var handled bus.Command
	require.NoError(t, b.Register(fakeCommand{}, bus.CommandHandlerFunc(func(_ context.Context, cmd bus.Command) error {
		handled = cmd
		return nil
	})))

	// Act
	err := b.Send(context.Background(), fakeCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fakeCommand{}, handled)
}

func TestSend_ReturnsErrorWhenNoHandlerRegistered(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus(zap.NewNop())

	// Act
	err := b.Send(context.Background(), otherCommand{})

	// Assert
	assert.Error(t, err)
}

func TestSend_ReturnsValidationErrorBeforeDispatch(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus(zap.NewNop())
	called := false
	require.NoError(t, b.Register(fakeCommand{}, bus.CommandHandlerFunc(func(_ context.Context, _ bus.Command) error {
		called = true
		return nil
	})))

	// Act
	err := b.Send(context.Background(), fakeCommand{invalid: true})

	// Assert
	assert.Error(t, err)
	assert.False(t, called)
}

func TestSend_WrapsHandlerError(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus(zap.NewNop())
	require.NoError(t, b.Register(fakeCommand{}, bus.CommandHandlerFunc(func(_ context.Context, _ bus.Command) error {
		return errors.New("boom")
	})))

	// Act
	err := b.Send(context.Background(), fakeCommand{})

	// Assert
	assert.ErrorContains(t, err, "boom")
}

func TestRegister_RejectsDuplicateRegistrationForSameType(t *testing.T) {
	// Arrange
	b := bus.NewCommandBus(zap.NewNop())
	noop := bus.CommandHandlerFunc(func(_ context.Context, _ bus.Command) error { return nil })
	require.NoError(t, b.Register(fakeCommand{}, noop))

	// Act
	err := b.Register(fakeCommand{}, noop)

	// Assert
	assert.Error(t, err)
}
