package config

// DomainConfig holds all configurable business rules and constraints for
// the memory engine: fusion weights, decay rates, and the assorted
// ranking/retention thresholds.
type DomainConfig struct {
	// Embedding
	EmbeddingDimension int

	// BM25 (Okapi)
	BM25K1 float64
	BM25B  float64

	// Deduplication
	SemanticDuplicateThreshold float64
	SemanticNeighborCandidates int

	// Signal dynamics
	EngramReinforceBoost float64
	SynapseReinforceBoost float64
	MinSignal             float64
	DecayRates            map[Strand]float64

	// Association engine
	SynapseInitialWeight float64
	SynapseUpsertBoost    float64
	BFSMaxDepth           int
	BFSDecayFactor        float64

	// Retrieval fusion weights (must sum to 1.00)
	WeightVector  float64
	WeightKeyword float64
	WeightRecency float64
	WeightSignal  float64
	WeightSynapse float64

	// Retrieval defaults
	DefaultLimit         int
	DefaultMinScore      float64
	DefaultMinFinalScore float64
	VectorCandidateMultiplier int
	ChronicleMatchTopK   int

	// Engram defaults
	DefaultEngramSignal    float64
	DefaultEngramPulseRate float64
}

// Strand classifies an engram's decay behavior.
type Strand string

const (
	StrandFactual      Strand = "factual"
	StrandExperiential Strand = "experiential"
	StrandProcedural   Strand = "procedural"
	StrandPreferential Strand = "preferential"
	StrandRelational   Strand = "relational"
	StrandGeneral      Strand = "general"
)

// IsValidStrand reports whether s is one of the six known strands.
func IsValidStrand(s string) bool {
	switch Strand(s) {
	case StrandFactual, StrandExperiential, StrandProcedural, StrandPreferential, StrandRelational, StrandGeneral:
		return true
	default:
		return false
	}
}

// DefaultDomainConfig returns the default configuration.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		EmbeddingDimension: 384,

		BM25K1: 1.5,
		BM25B:  0.75,

		SemanticDuplicateThreshold: 0.92,
		SemanticNeighborCandidates: 5,

		EngramReinforceBoost:  0.1,
		SynapseReinforceBoost: 0.05,
		MinSignal:             0.01,
		DecayRates: map[Strand]float64{
			StrandFactual:      0.95,
			StrandExperiential: 0.90,
			StrandProcedural:   0.97,
			StrandPreferential: 0.93,
			StrandRelational:   0.92,
			StrandGeneral:      0.88,
		},

		SynapseInitialWeight: 0.5,
		SynapseUpsertBoost:   0.5,
		BFSMaxDepth:          2,
		BFSDecayFactor:       0.8,

		WeightVector:  0.30,
		WeightKeyword: 0.30,
		WeightRecency: 0.10,
		WeightSignal:  0.15,
		WeightSynapse: 0.15,

		DefaultLimit:               10,
		DefaultMinScore:            0,
		DefaultMinFinalScore:       0.35,
		VectorCandidateMultiplier:  3,
		ChronicleMatchTopK:         5,

		DefaultEngramSignal:    0.5,
		DefaultEngramPulseRate: 0.1,
	}
}

// LoadDomainConfig loads domain configuration. The memory engine has no
// environment-specific variant since every tunable here is a fixed
// ranking/decay constant rather than an environment-scaled limit.
func LoadDomainConfig(_ string) *DomainConfig {
	return DefaultDomainConfig()
}

// Validate checks that the fusion weights sum to 1.00 (within 0.001),
// minSignal is in [0,1], and every decay rate is in (0,1].
func (c *DomainConfig) Validate() error {
	sum := c.WeightVector + c.WeightKeyword + c.WeightRecency + c.WeightSignal + c.WeightSynapse
	if sum < 0.999 || sum > 1.001 {
		return errInvalidConfig("fusion weights must sum to 1.00")
	}
	if c.MinSignal < 0 || c.MinSignal > 1 {
		return errInvalidConfig("minSignal must be in [0,1]")
	}
	for strand, rate := range c.DecayRates {
		if rate <= 0 || rate > 1 {
			return errInvalidConfig("decay rate for " + string(strand) + " must be in (0,1]")
		}
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errInvalidConfig(msg string) error { return configError(msg) }
