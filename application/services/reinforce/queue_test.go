package reinforce_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnemosyne/application/services/reinforce"
	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
	"mnemosyne/infrastructure/persistence/embedded"
)

func newTestEngramForReinforce(t *testing.T, store *embedded.Store, ownerID string) *core.Engram {
	t.Helper()
	e, err := core.NewEngram(core.NewEngramParams{
		OwnerID:   ownerID,
		Content:   "reinforce me",
		Embedding: []float32{1, 0},
	}, 2, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.SaveEngram(context.Background(), e))
	return e
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestQueue_EnqueueRecordsAccessAsynchronously(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngramForReinforce(t, store, "owner-1")
	q := reinforce.New(store, config.DefaultDomainConfig(), zap.NewNop(), 1, 4)

	// Act
	q.Enqueue(e.OwnerID(), e.ID())

	// Assert
	waitFor(t, time.Second, func() bool {
		got, err := store.GetEngram(context.Background(), e.OwnerID(), e.ID())
		return err == nil && got != nil && got.AccessCount() == 1
	})

	q.Drain(context.Background())
}

func TestQueue_EnqueueIgnoresMissingEngram(t *testing.T) {
	// Arrange
	store := embedded.New()
	q := reinforce.New(store, config.DefaultDomainConfig(), zap.NewNop(), 1, 4)

	// Act
	q.Enqueue("owner-1", "does-not-exist")

	// Assert: nothing to observe but that it doesn't panic or hang; give the
	// worker a moment then drain cleanly.
	time.Sleep(10 * time.Millisecond)
	q.Drain(context.Background())
}

func TestQueue_DrainWaitsForInFlightJobs(t *testing.T) {
	// Arrange
	store := embedded.New()
	e := newTestEngramForReinforce(t, store, "owner-1")
	q := reinforce.New(store, config.DefaultDomainConfig(), zap.NewNop(), 1, 4)
	q.Enqueue(e.OwnerID(), e.ID())

	// Act
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Drain(ctx)

	// Assert
	got, err := store.GetEngram(context.Background(), e.OwnerID(), e.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, got.AccessCount())
}
