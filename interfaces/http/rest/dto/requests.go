package dto

// AddMemoryRequest is the body of POST /api/v1/engrams.
type AddMemoryRequest struct {
	Content   string                 `json:"content" validate:"required"`
	Strand    string                 `json:"strand,omitempty"`
	Tags      []string               `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Signal    *float64               `json:"signal,omitempty" validate:"omitempty,min=0,max=1"`
	PulseRate *float64               `json:"pulseRate,omitempty" validate:"omitempty,min=0"`
}

// UpdateEngramRequest is the body of PATCH /api/v1/engrams/:id.
type UpdateEngramRequest struct {
	Content  *string                `json:"content,omitempty"`
	Tags     []string               `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Strand   *string                `json:"strand,omitempty"`
	IfMatch  *int                   `json:"ifMatch,omitempty"`
}

// ReinforceEngramRequest is the body of POST /api/v1/engrams/:id/reinforce.
type ReinforceEngramRequest struct {
	Boost float64 `json:"boost,omitempty"`
}

// SearchRequest is the body of POST /api/v1/engrams/search.
type SearchRequest struct {
	Query          string   `json:"query" validate:"required"`
	Limit          int      `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	Strand         string   `json:"strand,omitempty"`
	MinScore       float64  `json:"minScore,omitempty"`
	MinFinalScore  *float64 `json:"minFinalScore,omitempty"`
	ExpandSynapses *bool    `json:"expandSynapses,omitempty"`
}

// BulkDeleteEngramsRequest is the body of the bulk-delete supplement.
type BulkDeleteEngramsRequest struct {
	EngramIDs []string `json:"engramIds" validate:"required,min=1,max=100"`
}

// RecordChronicleRequest is the body of POST /api/v1/chronicles.
type RecordChronicleRequest struct {
	Entity        string                 `json:"entity" validate:"required"`
	Attribute     string                 `json:"attribute" validate:"required"`
	Value         string                 `json:"value"`
	Certainty     float64                `json:"certainty,omitempty" validate:"omitempty,min=0,max=1"`
	EffectiveFrom *string                `json:"effectiveFrom,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateChronicleRequest is the body of PATCH /api/v1/chronicles/:id.
type UpdateChronicleRequest struct {
	Certainty *float64               `json:"certainty,omitempty" validate:"omitempty,min=0,max=1"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// CreateNexusRequest is the body of POST /api/v1/nexuses.
type CreateNexusRequest struct {
	OriginID string                 `json:"originId" validate:"required"`
	LinkedID string                 `json:"linkedId" validate:"required"`
	BondType string                 `json:"bondType" validate:"required"`
	Strength float64                `json:"strength,omitempty" validate:"omitempty,min=0,max=1"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
