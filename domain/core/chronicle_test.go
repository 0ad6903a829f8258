package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemosyne/domain/core"
)

func TestNewChronicle_DefaultsCertaintyToOne(t *testing.T) {
	now := time.Now()
	c, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "project:x", Attribute: "status", Value: "active",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Certainty())
	assert.True(t, c.IsCurrent())
	assert.Nil(t, c.EffectiveUntil())
	assert.Equal(t, now, c.EffectiveFrom())
}

func TestNewChronicle_RequiresEntityAndAttribute(t *testing.T) {
	_, err := core.NewChronicle(core.NewChronicleParams{OwnerID: "o", Attribute: "status"}, time.Now())
	assert.Error(t, err)
}

func TestChronicle_MatchesAt_OpenEnded(t *testing.T) {
	// Arrange
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "e", Attribute: "a", Value: "v", EffectiveFrom: from,
	}, from)
	require.NoError(t, err)

	assert.False(t, c.MatchesAt(from.Add(-time.Hour)))
	assert.True(t, c.MatchesAt(from))
	assert.True(t, c.MatchesAt(from.Add(100*24*time.Hour)))
}

func TestChronicle_Expire_ClosesWindow(t *testing.T) {
	// Arrange
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "e", Attribute: "a", Value: "v", EffectiveFrom: from,
	}, from)
	require.NoError(t, err)
	until := from.Add(24 * time.Hour)

	// Act
	c.Expire(until)

	// Assert
	require.NotNil(t, c.EffectiveUntil())
	assert.Equal(t, until, *c.EffectiveUntil())
	assert.False(t, c.IsCurrent())
	assert.True(t, c.MatchesAt(from.Add(time.Hour)))
	assert.False(t, c.MatchesAt(until))
}

func TestChronicle_Expire_IsNoOpOnceClosed(t *testing.T) {
	// Arrange
	from := time.Now()
	c, err := core.NewChronicle(core.NewChronicleParams{OwnerID: "o", Entity: "e", Attribute: "a"}, from)
	require.NoError(t, err)
	firstClose := from.Add(time.Hour)
	c.Expire(firstClose)

	// Act: a second expire call must not move the boundary
	c.Expire(from.Add(2 * time.Hour))

	// Assert
	assert.Equal(t, firstClose, *c.EffectiveUntil())
}

func TestChronicle_Annotate_NeverTouchesTuple(t *testing.T) {
	// Arrange
	c, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "e", Attribute: "a", Value: "v", Certainty: 0.4,
	}, time.Now())
	require.NoError(t, err)
	newCertainty := 0.9
	meta := map[string]interface{}{"source": "correction"}

	// Act
	c.Annotate(&newCertainty, meta)

	// Assert
	assert.Equal(t, 0.9, c.Certainty())
	assert.Equal(t, meta, c.Metadata())
	assert.Equal(t, "e", c.Entity())
	assert.Equal(t, "a", c.Attribute())
	assert.Equal(t, "v", c.Value())
}

func TestChronicle_Annotate_NilFieldsLeaveExistingValues(t *testing.T) {
	c, err := core.NewChronicle(core.NewChronicleParams{
		OwnerID: "o", Entity: "e", Attribute: "a", Certainty: 0.7,
	}, time.Now())
	require.NoError(t, err)

	c.Annotate(nil, nil)

	assert.Equal(t, 0.7, c.Certainty())
}

func TestChronicle_Annotate_ClampsCertainty(t *testing.T) {
	c, err := core.NewChronicle(core.NewChronicleParams{OwnerID: "o", Entity: "e", Attribute: "a"}, time.Now())
	require.NoError(t, err)
	tooHigh := 5.0

	c.Annotate(&tooHigh, nil)

	assert.Equal(t, 1.0, c.Certainty())
}
