package handlers

import (
	"context"
	"fmt"

	"mnemosyne/application/ports"
	"mnemosyne/application/queries"
	"mnemosyne/application/queries/bus"
	pkgerrors "mnemosyne/pkg/errors"
)

// GetEngramHandler fetches a single engram.
type GetEngramHandler struct {
	engrams ports.EngramStore
}

func NewGetEngramHandler(engrams ports.EngramStore) *GetEngramHandler {
	return &GetEngramHandler{engrams: engrams}
}

func (h *GetEngramHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetEngramQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}

	e, err := h.engrams.GetEngram(ctx, query.OwnerID, query.EngramID)
	if err != nil {
		return nil, fmt.Errorf("get engram failed: %w", err)
	}
	if e == nil {
		return nil, pkgerrors.ErrEngramNotFound
	}
	return e, nil
}

// ListEngramsHandler lists every engram owned by an owner.
type ListEngramsHandler struct {
	engrams ports.EngramStore
}

func NewListEngramsHandler(engrams ports.EngramStore) *ListEngramsHandler {
	return &ListEngramsHandler{engrams: engrams}
}

func (h *ListEngramsHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.ListEngramsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", q)
	}

	all, err := h.engrams.ListEngrams(ctx, query.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list engrams failed: %w", err)
	}
	return all, nil
}
