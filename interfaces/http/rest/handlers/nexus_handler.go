package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"mnemosyne/application/services/temporal"
	"mnemosyne/domain/core"
	"mnemosyne/interfaces/http/rest/dto"
	"mnemosyne/pkg/auth"
	pkgerrors "mnemosyne/pkg/errors"
)

// NexusHandler serves POST /api/v1/nexuses. Same bypass rationale as
// EngramHandler/ChronicleHandler: the nexus ID is minted inside LinkNexus.
type NexusHandler struct {
	temporal     *temporal.Service
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

func NewNexusHandler(temporalSvc *temporal.Service, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *NexusHandler {
	return &NexusHandler{temporal: temporalSvc, errorHandler: errorHandler, logger: logger}
}

func (h *NexusHandler) CreateNexus(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.GetOwnerFromContext(r.Context())
	if err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.CreateNexusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.OriginID == "" || req.LinkedID == "" || req.BondType == "" {
		h.errorHandler.HandleStatus(w, r, http.StatusBadRequest, "originId, linkedId and bondType are required")
		return
	}

	now := time.Now()
	nexus, err := h.temporal.LinkNexus(r.Context(), core.NewNexusParams{
		OwnerID:       owner.OwnerID,
		OriginID:      req.OriginID,
		LinkedID:      req.LinkedID,
		BondType:      req.BondType,
		Strength:      req.Strength,
		EffectiveFrom: now,
		Metadata:      req.Metadata,
	}, now)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, dto.NewNexus(nexus))
}
