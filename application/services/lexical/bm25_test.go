package lexical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mnemosyne/application/services/lexical"
)

func TestScore_EmptyCandidateSet(t *testing.T) {
	scores := lexical.Score("anything", nil, 1.5, 0.75)
	assert.Empty(t, scores)
}

func TestScore_EmptyQueryScoresEverythingZero(t *testing.T) {
	docs := []lexical.Document{{ID: "a", Text: "cats and dogs"}}
	scores := lexical.Score("", docs, 1.5, 0.75)
	assert.Equal(t, map[string]float64{"a": 0}, scores)
}

func TestScore_MatchingDocumentOutranksNonMatching(t *testing.T) {
	docs := []lexical.Document{
		{ID: "match", Text: "deploying kubernetes clusters across regions"},
		{ID: "nomatch", Text: "baking sourdough bread at home"},
	}

	scores := lexical.Score("kubernetes clusters", docs, 1.5, 0.75)

	assert.Greater(t, scores["match"], scores["nomatch"])
	assert.Equal(t, 0.0, scores["nomatch"])
}

func TestScore_TermAbsentFromEveryDocumentIsZeroContribution(t *testing.T) {
	docs := []lexical.Document{{ID: "a", Text: "apples and oranges"}}

	scores := lexical.Score("apples bananas", docs, 1.5, 0.75)

	assert.Greater(t, scores["a"], 0.0)
	assert.Equal(t, lexical.Score("apples", docs, 1.5, 0.75)["a"], scores["a"])
}
