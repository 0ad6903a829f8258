package core

import (
	"time"

	"github.com/google/uuid"

	"mnemosyne/domain/config"
	pkgerrors "mnemosyne/pkg/errors"
)

// Engram is an atomic stored memory unit: content, its embedding, and the
// signal dynamics that drive retrieval ranking and decay.
type Engram struct {
	id             string
	ownerID        string
	content        string
	contentHash    string
	strand         config.Strand
	tags           []string
	metadata       map[string]interface{}
	embedding      []float32
	signal         float64
	pulseRate      float64
	accessCount    int
	version        int
	createdAt      time.Time
	updatedAt      time.Time
	lastAccessedAt time.Time
}

// NewEngramParams carries the fields a caller may supply when creating an
// engram; zero values trigger the documented defaults.
type NewEngramParams struct {
	OwnerID     string
	Content     string
	ContentHash string
	Strand      config.Strand
	Tags        []string
	Metadata    map[string]interface{}
	Embedding   []float32
	Signal      *float64
	PulseRate   *float64
}

// NewEngram creates a new engram with its default dynamics: signal 0.5,
// pulseRate 0.1, accessCount 0, version 1.
func NewEngram(p NewEngramParams, dim int, now time.Time) (*Engram, error) {
	if p.OwnerID == "" {
		return nil, pkgerrors.NewValidationError("ownerId cannot be empty")
	}
	if p.Content == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if len(p.Embedding) != dim {
		return nil, pkgerrors.NewValidationError("embedding dimension mismatch")
	}
	strand := p.Strand
	if strand == "" {
		strand = config.StrandGeneral
	}
	if !config.IsValidStrand(string(strand)) {
		strand = config.StrandGeneral
	}

	signal := 0.5
	if p.Signal != nil {
		signal = clamp01(*p.Signal)
	}
	pulseRate := 0.1
	if p.PulseRate != nil {
		pulseRate = clamp01(*p.PulseRate)
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	return &Engram{
		id:             uuid.New().String(),
		ownerID:        p.OwnerID,
		content:        p.Content,
		contentHash:    p.ContentHash,
		strand:         strand,
		tags:           tags,
		metadata:       metadata,
		embedding:      p.Embedding,
		signal:         signal,
		pulseRate:      pulseRate,
		accessCount:    0,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
		lastAccessedAt: now,
	}, nil
}

// ReconstructEngram rebuilds an engram from stored attributes, preserving
// every stored field exactly. Used by persistence adapters when loading a
// row/item back into a domain object.
func ReconstructEngram(
	id, ownerID, content, contentHash string,
	strand config.Strand,
	tags []string,
	metadata map[string]interface{},
	embedding []float32,
	signal, pulseRate float64,
	accessCount, version int,
	createdAt, updatedAt, lastAccessedAt time.Time,
) *Engram {
	return &Engram{
		id:             id,
		ownerID:        ownerID,
		content:        content,
		contentHash:    contentHash,
		strand:         strand,
		tags:           tags,
		metadata:       metadata,
		embedding:      embedding,
		signal:         signal,
		pulseRate:      pulseRate,
		accessCount:    accessCount,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		lastAccessedAt: lastAccessedAt,
	}
}

func (e *Engram) ID() string                        { return e.id }
func (e *Engram) OwnerID() string                    { return e.ownerID }
func (e *Engram) Content() string                    { return e.content }
func (e *Engram) ContentHash() string                { return e.contentHash }
func (e *Engram) Strand() config.Strand              { return e.strand }
func (e *Engram) Tags() []string                     { return e.tags }
func (e *Engram) Metadata() map[string]interface{}   { return e.metadata }
func (e *Engram) Embedding() []float32               { return e.embedding }
func (e *Engram) Signal() float64                     { return e.signal }
func (e *Engram) PulseRate() float64                  { return e.pulseRate }
func (e *Engram) AccessCount() int                    { return e.accessCount }
func (e *Engram) Version() int                        { return e.version }
func (e *Engram) CreatedAt() time.Time                { return e.createdAt }
func (e *Engram) UpdatedAt() time.Time                { return e.updatedAt }
func (e *Engram) LastAccessedAt() time.Time           { return e.lastAccessedAt }

// Reinforce raises signal by boost, clamped to [0,1], and bumps version.
func (e *Engram) Reinforce(boost float64, now time.Time) {
	e.signal = clamp01(e.signal + boost)
	e.updatedAt = now
	e.version++
}

// Decay multiplies signal by rate, floored at minSignal.
func (e *Engram) Decay(rate, minSignal float64, now time.Time) {
	if e.signal <= minSignal {
		return
	}
	next := e.signal * rate
	if next < minSignal {
		next = minSignal
	}
	e.signal = next
	e.updatedAt = now
}

// RecordAccess bumps accessCount and lastAccessedAt without touching signal.
func (e *Engram) RecordAccess(now time.Time) {
	e.accessCount++
	e.lastAccessedAt = now
}

// Update applies a partial update to content/tags/metadata/strand and
// strictly increases version.
func (e *Engram) Update(content *string, tags []string, metadata map[string]interface{}, strand *config.Strand, now time.Time) {
	if content != nil {
		e.content = *content
	}
	if tags != nil {
		e.tags = tags
	}
	if metadata != nil {
		e.metadata = metadata
	}
	if strand != nil && config.IsValidStrand(string(*strand)) {
		e.strand = *strand
	}
	e.updatedAt = now
	e.version++
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
