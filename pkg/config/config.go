package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relgraph/relgraph/internal/util"
	"github.com/relgraph/relgraph/pkg/logger"
)

// SimilarityWeights blends the pairwise similarity components used by
// coreference clustering. The four weights are expected to sum to 1.
type SimilarityWeights struct {
	Name          float64 `yaml:"name"`
	Alias         float64 `yaml:"alias"`
	Context       float64 `yaml:"context"`
	CrossDocument float64 `yaml:"cross_document"`
}

// ConfidenceWeights blends the relationship confidence components.
type ConfidenceWeights struct {
	EvidenceStrength     float64 `yaml:"evidence_strength"`
	ContextQuality       float64 `yaml:"context_quality"`
	EntityReliability    float64 `yaml:"entity_reliability"`
	PatternStrength      float64 `yaml:"pattern_strength"`
	CrossDocumentSupport float64 `yaml:"cross_document_support"`
}

// Config holds every tunable threshold and rule table of a discovery run.
// The scoring constants live here, not in the algorithms, so heuristics
// stay auditable and adjustable per corpus.
type Config struct {
	// Extraction.
	MinReferenceConfidence float64 `yaml:"min_reference_confidence"`
	PronounConfidence      float64 `yaml:"pronoun_confidence"`
	PartialNameConfidence  float64 `yaml:"partial_name_confidence"`
	AuthorConfidence       float64 `yaml:"author_confidence"`

	// Clustering.
	SimilarityThreshold float64           `yaml:"similarity_threshold"`
	Similarity          SimilarityWeights `yaml:"similarity_weights"`
	MaxClusterSizeBonus float64           `yaml:"max_cluster_size_bonus"`

	// Relationship discovery.
	CausalBaseConfidence float64 `yaml:"causal_base_confidence"`
	EvidenceThreshold    float64 `yaml:"evidence_threshold"`
	InfluenceCutoff      float64 `yaml:"influence_cutoff"`
	MaxPathHops          int     `yaml:"max_path_hops"`

	// Classification and merging.
	Confidence        ConfidenceWeights `yaml:"confidence_weights"`
	MergeBonus        float64           `yaml:"merge_bonus"`
	MaxMergedContexts int               `yaml:"max_merged_contexts"`

	// Rule tables.
	Rules RuleSet `yaml:"rules"`
}

// Default returns the configuration tuned for research-literature corpora.
func Default() *Config {
	return &Config{
		MinReferenceConfidence: 0.5,
		PronounConfidence:      0.85,
		PartialNameConfidence:  0.9,
		AuthorConfidence:       0.9,

		SimilarityThreshold: 0.65,
		Similarity: SimilarityWeights{
			Name:          0.4,
			Alias:         0.3,
			Context:       0.2,
			CrossDocument: 0.1,
		},
		MaxClusterSizeBonus: 0.2,

		CausalBaseConfidence: 0.6,
		EvidenceThreshold:    0.3,
		InfluenceCutoff:      0.15,
		MaxPathHops:          4,

		Confidence: ConfidenceWeights{
			EvidenceStrength:     0.3,
			ContextQuality:       0.25,
			EntityReliability:    0.2,
			PatternStrength:      0.15,
			CrossDocumentSupport: 0.1,
		},
		MergeBonus:        0.1,
		MaxMergedContexts: 3,

		Rules: defaultRules(),
	}
}

// LoadFile overlays YAML settings from path on top of the receiver.
// Fields absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads a .env file when one is present, overlays the config file
// named by RELGRAPH_CONFIG_FILE if set, then overrides the most commonly
// tuned knobs from RELGRAPH_* variables.
func (c *Config) ApplyEnv() {
	util.LoadEnv()
	if path := util.GetEnvString("RELGRAPH_CONFIG_FILE", ""); path != "" {
		if err := c.LoadFile(path); err != nil {
			logger.Warn("[Config] Skipping config file from environment", "path", path, "error", err)
		}
	}
	c.SimilarityThreshold = util.GetEnvNumeric("RELGRAPH_SIMILARITY_THRESHOLD", c.SimilarityThreshold)
	c.MinReferenceConfidence = util.GetEnvNumeric("RELGRAPH_MIN_REFERENCE_CONFIDENCE", c.MinReferenceConfidence)
	c.EvidenceThreshold = util.GetEnvNumeric("RELGRAPH_EVIDENCE_THRESHOLD", c.EvidenceThreshold)
	c.InfluenceCutoff = util.GetEnvNumeric("RELGRAPH_INFLUENCE_CUTOFF", c.InfluenceCutoff)
	c.MaxPathHops = util.GetEnvInt("RELGRAPH_MAX_PATH_HOPS", c.MaxPathHops)
}
