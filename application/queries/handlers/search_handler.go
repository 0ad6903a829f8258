package handlers

import (
	"context"
	"fmt"
	"time"

	"mnemosyne/application/queries"
	"mnemosyne/application/queries/bus"
	"mnemosyne/application/services/retrieval"
)

// SearchHandler fronts the hybrid retrieval pipeline.
type SearchHandler struct {
	retrieval *retrieval.Service
}

func NewSearchHandler(retrievalSvc *retrieval.Service) *SearchHandler {
	return &SearchHandler{retrieval: retrievalSvc}
}

func (h *SearchHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.SearchQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}

	result, err := h.retrieval.Search(ctx, retrieval.SearchParams{
		OwnerID:        query.OwnerID,
		Query:          query.Query,
		Limit:          query.Limit,
		Strand:         query.Strand,
		MinScore:       query.MinScore,
		MinFinalScore:  query.MinFinalScore,
		ExpandSynapses: query.ExpandSynapses,
	}, time.Now())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return result, nil
}
