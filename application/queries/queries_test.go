package queries_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mnemosyne/application/queries"
	"mnemosyne/domain/config"
)

func TestGetCurrentChronicleQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetCurrentChronicleQuery{OwnerID: "owner-1", Entity: "project:atlas", Attribute: "status"}.Validate())
	assert.Error(t, queries.GetCurrentChronicleQuery{Entity: "project:atlas", Attribute: "status"}.Validate())
	assert.Error(t, queries.GetCurrentChronicleQuery{OwnerID: "owner-1", Attribute: "status"}.Validate())
	assert.Error(t, queries.GetCurrentChronicleQuery{OwnerID: "owner-1", Entity: "project:atlas"}.Validate())
}

func TestQueryChroniclesQuery_Validate(t *testing.T) {
	now := time.Now()
	assert.NoError(t, queries.QueryChroniclesQuery{OwnerID: "owner-1"}.Validate())
	assert.NoError(t, queries.QueryChroniclesQuery{OwnerID: "owner-1", Entity: "project:atlas", At: &now}.Validate())
	assert.Error(t, queries.QueryChroniclesQuery{Entity: "project:atlas"}.Validate())
}

func TestGetTimelineQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetTimelineQuery{OwnerID: "owner-1", Entity: "project:atlas"}.Validate())
	assert.Error(t, queries.GetTimelineQuery{Entity: "project:atlas"}.Validate())
	assert.Error(t, queries.GetTimelineQuery{OwnerID: "owner-1"}.Validate())
}

func TestGetRelatedChroniclesQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetRelatedChroniclesQuery{OwnerID: "owner-1", ChronicleID: "c1"}.Validate())
	assert.Error(t, queries.GetRelatedChroniclesQuery{ChronicleID: "c1"}.Validate())
	assert.Error(t, queries.GetRelatedChroniclesQuery{OwnerID: "owner-1"}.Validate())
}

func TestGetEngramQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetEngramQuery{OwnerID: "owner-1", EngramID: "e1"}.Validate())
	assert.Error(t, queries.GetEngramQuery{EngramID: "e1"}.Validate())
	assert.Error(t, queries.GetEngramQuery{OwnerID: "owner-1"}.Validate())
}

func TestListEngramsQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.ListEngramsQuery{OwnerID: "owner-1"}.Validate())
	assert.Error(t, queries.ListEngramsQuery{}.Validate())
}

func TestGetStatsQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetStatsQuery{OwnerID: "owner-1"}.Validate())
	assert.Error(t, queries.GetStatsQuery{}.Validate())
}

func TestSearchQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.SearchQuery{OwnerID: "owner-1", Query: "atlas status"}.Validate())
	assert.NoError(t, queries.SearchQuery{OwnerID: "owner-1", Query: "atlas status", Strand: config.StrandGeneral}.Validate())
	assert.Error(t, queries.SearchQuery{Query: "atlas status"}.Validate())
	assert.Error(t, queries.SearchQuery{OwnerID: "owner-1"}.Validate())
	assert.Error(t, queries.SearchQuery{OwnerID: "owner-1", Query: "atlas status", Strand: config.Strand("not-a-strand")}.Validate())
}
