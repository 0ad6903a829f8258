// Package dto converts domain entities into the JSON shapes the REST API
// exposes. Engram, Chronicle, Nexus and Synapse carry only private fields
// and accessor methods, so nothing under domain/core is directly
// json.Marshal-able; every response body is built through one of these
// types instead.
package dto

import (
	"time"

	"mnemosyne/application/services/retrieval"
	"mnemosyne/domain/core"
)

// Engram is the wire representation of a domain/core.Engram.
type Engram struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	Content        string                 `json:"content"`
	ContentHash    string                 `json:"contentHash"`
	Strand         string                 `json:"strand"`
	Tags           []string               `json:"tags,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Signal         float64                `json:"signal"`
	PulseRate      float64                `json:"pulseRate"`
	AccessCount    int                    `json:"accessCount"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	LastAccessedAt time.Time              `json:"lastAccessedAt"`
}

func NewEngram(e *core.Engram) Engram {
	return Engram{
		ID:             e.ID(),
		OwnerID:        e.OwnerID(),
		Content:        e.Content(),
		ContentHash:    e.ContentHash(),
		Strand:         string(e.Strand()),
		Tags:           e.Tags(),
		Metadata:       e.Metadata(),
		Signal:         e.Signal(),
		PulseRate:      e.PulseRate(),
		AccessCount:    e.AccessCount(),
		Version:        e.Version(),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
		LastAccessedAt: e.LastAccessedAt(),
	}
}

func NewEngrams(engrams []*core.Engram) []Engram {
	out := make([]Engram, len(engrams))
	for i, e := range engrams {
		out[i] = NewEngram(e)
	}
	return out
}

// Chronicle is the wire representation of a domain/core.Chronicle.
type Chronicle struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	Entity         string                 `json:"entity"`
	Attribute      string                 `json:"attribute"`
	Value          string                 `json:"value"`
	Certainty      float64                `json:"certainty"`
	EffectiveFrom  time.Time              `json:"effectiveFrom"`
	EffectiveUntil *time.Time             `json:"effectiveUntil,omitempty"`
	RecordedAt     time.Time              `json:"recordedAt"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Current        bool                   `json:"current"`
}

func NewChronicle(c *core.Chronicle) Chronicle {
	return Chronicle{
		ID:             c.ID(),
		OwnerID:        c.OwnerID(),
		Entity:         c.Entity(),
		Attribute:      c.Attribute(),
		Value:          c.Value(),
		Certainty:      c.Certainty(),
		EffectiveFrom:  c.EffectiveFrom(),
		EffectiveUntil: c.EffectiveUntil(),
		RecordedAt:     c.RecordedAt(),
		Metadata:       c.Metadata(),
		Current:        c.IsCurrent(),
	}
}

func NewChronicles(chronicles []*core.Chronicle) []Chronicle {
	out := make([]Chronicle, len(chronicles))
	for i, c := range chronicles {
		out[i] = NewChronicle(c)
	}
	return out
}

// Nexus is the wire representation of a domain/core.Nexus.
type Nexus struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	OriginID       string                 `json:"originId"`
	LinkedID       string                 `json:"linkedId"`
	BondType       string                 `json:"bondType"`
	Strength       float64                `json:"strength"`
	EffectiveFrom  time.Time              `json:"effectiveFrom"`
	EffectiveUntil *time.Time             `json:"effectiveUntil,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

func NewNexus(n *core.Nexus) Nexus {
	return Nexus{
		ID:             n.ID(),
		OwnerID:        n.OwnerID(),
		OriginID:       n.OriginID(),
		LinkedID:       n.LinkedID(),
		BondType:       n.BondType(),
		Strength:       n.Strength(),
		EffectiveFrom:  n.EffectiveFrom(),
		EffectiveUntil: n.EffectiveUntil(),
		Metadata:       n.Metadata(),
	}
}

// SearchHit is the wire representation of a retrieval.Hit.
type SearchHit struct {
	Engram       Engram  `json:"engram"`
	VectorScore  float64 `json:"vectorScore"`
	KeywordScore float64 `json:"keywordScore"`
	Recency      float64 `json:"recency"`
	SignalScore  float64 `json:"signalScore"`
	SynapseBoost float64 `json:"synapseBoost"`
	FinalScore   float64 `json:"finalScore"`
}

// ChronicleMatch is the wire representation of a retrieval.ChronicleMatch.
type ChronicleMatch struct {
	Chronicle Chronicle `json:"chronicle"`
	Relevance float64   `json:"relevance"`
}

// SearchResult is the wire representation of a retrieval.Result.
type SearchResult struct {
	Hits             []SearchHit      `json:"hits"`
	ChronicleMatches []ChronicleMatch `json:"chronicleMatches,omitempty"`
	Total            int              `json:"total"`
	Query            string           `json:"query"`
	ElapsedMillis    int64            `json:"elapsedMillis"`
}

func NewSearchResult(r retrieval.Result) SearchResult {
	hits := make([]SearchHit, len(r.Hits))
	for i, h := range r.Hits {
		hits[i] = SearchHit{
			Engram:       NewEngram(h.Engram),
			VectorScore:  h.VectorScore,
			KeywordScore: h.KeywordScore,
			Recency:      h.Recency,
			SignalScore:  h.SignalScore,
			SynapseBoost: h.SynapseBoost,
			FinalScore:   h.FinalScore,
		}
	}
	matches := make([]ChronicleMatch, len(r.ChronicleMatches))
	for i, m := range r.ChronicleMatches {
		matches[i] = ChronicleMatch{Chronicle: NewChronicle(m.Chronicle), Relevance: m.Relevance}
	}
	return SearchResult{
		Hits:             hits,
		ChronicleMatches: matches,
		Total:            r.Total,
		Query:            r.Query,
		ElapsedMillis:    r.ElapsedMillis,
	}
}
