package handlers

import (
	"context"
	"fmt"

	"mnemosyne/application/ports"
	"mnemosyne/application/queries"
	"mnemosyne/application/queries/bus"
	"mnemosyne/application/services/temporal"
	pkgerrors "mnemosyne/pkg/errors"
)

// GetCurrentChronicleHandler fetches the currently open chronicle for a
// tuple.
type GetCurrentChronicleHandler struct {
	chronicles ports.ChronicleStore
}

func NewGetCurrentChronicleHandler(chronicles ports.ChronicleStore) *GetCurrentChronicleHandler {
	return &GetCurrentChronicleHandler{chronicles: chronicles}
}

func (h *GetCurrentChronicleHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetCurrentChronicleQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
	c, err := h.chronicles.GetCurrentChronicle(ctx, query.OwnerID, query.Entity, query.Attribute)
	if err != nil {
		return nil, fmt.Errorf("get current chronicle failed: %w", err)
	}
	if c == nil {
		return nil, pkgerrors.ErrChronicleNotFound
	}
	return c, nil
}

// QueryChroniclesHandler runs the general chronicle query.
type QueryChroniclesHandler struct {
	temporal *temporal.Service
}

func NewQueryChroniclesHandler(temporalSvc *temporal.Service) *QueryChroniclesHandler {
	return &QueryChroniclesHandler{temporal: temporalSvc}
}

func (h *QueryChroniclesHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.QueryChroniclesQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
	results, err := h.temporal.Query(ctx, ports.ChronicleQuery{
		OwnerID:   query.OwnerID,
		Entity:    query.Entity,
		Attribute: query.Attribute,
		AsOf:      query.At,
		From:      query.From,
		To:        query.To,
	})
	if err != nil {
		return nil, fmt.Errorf("query chronicles failed: %w", err)
	}
	return results, nil
}

// GetTimelineHandler returns the timeline for (ownerId, entity).
type GetTimelineHandler struct {
	temporal *temporal.Service
}

func NewGetTimelineHandler(temporalSvc *temporal.Service) *GetTimelineHandler {
	return &GetTimelineHandler{temporal: temporalSvc}
}

func (h *GetTimelineHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetTimelineQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
	results, err := h.temporal.Timeline(ctx, query.OwnerID, query.Entity)
	if err != nil {
		return nil, fmt.Errorf("get timeline failed: %w", err)
	}
	return results, nil
}

// GetRelatedChroniclesHandler returns chronicles reachable through a
// nexus touching the given chronicle.
type GetRelatedChroniclesHandler struct {
	temporal *temporal.Service
}

func NewGetRelatedChroniclesHandler(temporalSvc *temporal.Service) *GetRelatedChroniclesHandler {
	return &GetRelatedChroniclesHandler{temporal: temporalSvc}
}

func (h *GetRelatedChroniclesHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetRelatedChroniclesQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}
	results, err := h.temporal.RelatedChronicles(ctx, query.OwnerID, query.ChronicleID)
	if err != nil {
		return nil, fmt.Errorf("get related chronicles failed: %w", err)
	}
	return results, nil
}
