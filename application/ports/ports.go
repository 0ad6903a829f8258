package ports

import (
	"context"
	"time"

	"mnemosyne/domain/config"
	"mnemosyne/domain/core"
	"mnemosyne/domain/events"
)

// EngramStore persists engrams and exposes the vector and keyword search
// primitives the retrieval pipeline is built on.
type EngramStore interface {
	SaveEngram(ctx context.Context, e *core.Engram) error
	GetEngram(ctx context.Context, ownerID, id string) (*core.Engram, error)
	DeleteEngram(ctx context.Context, ownerID, id string) error
	ListEngrams(ctx context.Context, ownerID string) ([]*core.Engram, error)

	// VectorSearch returns the topK engrams by cosine similarity to the
	// query embedding, owner-scoped and, when strand is non-empty,
	// restricted to that strand.
	VectorSearch(ctx context.Context, ownerID string, embedding []float32, topK int, strand config.Strand) ([]ScoredEngram, error)

	// FindByContentHash supports exact-duplicate detection.
	FindByContentHash(ctx context.Context, ownerID, contentHash string) (*core.Engram, error)
}

// ScoredEngram pairs an engram with a similarity score from a store-level
// search operation.
type ScoredEngram struct {
	Engram *core.Engram
	Score  float64
}

// SynapseStore persists the associative graph between engrams.
type SynapseStore interface {
	SaveSynapse(ctx context.Context, s *core.Synapse) error
	GetSynapse(ctx context.Context, ownerID, sourceID, targetID string) (*core.Synapse, error)
	ListSynapsesFrom(ctx context.Context, ownerID, engramID string) ([]*core.Synapse, error)
	DeleteSynapsesForEngram(ctx context.Context, ownerID, engramID string) error
}

// ChronicleStore persists bitemporal entity-attribute-value facts.
type ChronicleStore interface {
	SaveChronicle(ctx context.Context, c *core.Chronicle) error
	GetChronicle(ctx context.Context, ownerID, id string) (*core.Chronicle, error)
	GetCurrentChronicle(ctx context.Context, ownerID, entity, attribute string) (*core.Chronicle, error)
	QueryChronicles(ctx context.Context, q ChronicleQuery) ([]*core.Chronicle, error)
	DeleteChronicle(ctx context.Context, ownerID, id string) error
}

// ChronicleQuery expresses the filters the temporal service can apply
// when reading chronicles back.
type ChronicleQuery struct {
	OwnerID   string
	Entity    string
	Attribute string
	AsOf      *time.Time
	From      *time.Time
	To        *time.Time
}

// NexusStore persists typed links between chronicles.
type NexusStore interface {
	SaveNexus(ctx context.Context, n *core.Nexus) error
	ListNexusesFrom(ctx context.Context, ownerID, chronicleID string) ([]*core.Nexus, error)
	ListNexusesTo(ctx context.Context, ownerID, chronicleID string) ([]*core.Nexus, error)
}

// Store composes the four entity-scoped stores plus the Close lifecycle
// operation a backing implementation must provide.
type Store interface {
	EngramStore
	SynapseStore
	ChronicleStore
	NexusStore

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

// Embedder turns text into a fixed-dimension vector. Implementations must
// all agree on config.DomainConfig.EmbeddingDimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// ExtractedFact is a single fact pulled out of raw input by a
// CompletionProvider, destined to become an Engram.
type ExtractedFact struct {
	Content string
	Strand  config.Strand
}

// ExtractedTemporalFact is a single entity-attribute-value assertion pulled
// out of raw input, destined to become a Chronicle.
type ExtractedTemporalFact struct {
	Entity    string
	Attribute string
	Value     string
	Certainty float64
}

// ExtractionResult is the structured {facts, temporalFacts} output a
// CompletionProvider returns for a single addMemory call.
type ExtractionResult struct {
	Facts         []ExtractedFact
	TemporalFacts []ExtractedTemporalFact
}

// CompletionProvider extracts discrete facts and temporal assertions from
// raw unstructured input text.
type CompletionProvider interface {
	Extract(ctx context.Context, rawInput string) (ExtractionResult, error)
}

// EventBus publishes domain events raised by application services.
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
