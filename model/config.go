package model

import "fmt"

// SimilarityConfig bundles signal weights, relationship thresholds,
// feature toggles and relationship caps. Immutable once constructed.
type SimilarityConfig struct {
	// Weights for the four similarity signals
	Weights SignalWeights `json:"weights"`

	// Thresholds for relationship classification, evaluated in the
	// fixed rule order of the classifier
	HighlyRelatedThreshold       float64 `json:"highly_related_threshold"`
	SemanticallyRelatedThreshold float64 `json:"semantically_related_threshold"`
	TopicallyRelatedThreshold    float64 `json:"topically_related_threshold"`
	StructurallyRelatedThreshold float64 `json:"structurally_related_threshold"`
	KeywordRelatedThreshold      float64 `json:"keyword_related_threshold"`
	LooselyRelatedThreshold      float64 `json:"loosely_related_threshold"`
	WeakRelatedThreshold         float64 `json:"weak_related_threshold"`

	// Advanced analysis settings
	ConceptOverlapThreshold          float64 `json:"concept_overlap_threshold"`
	HierarchicalContainmentThreshold float64 `json:"hierarchical_containment_threshold"`
	SequentialPatternThreshold       int     `json:"sequential_pattern_threshold"`

	// Relationship limits
	MaxRelationshipsPerType int `json:"max_relationships_per_type"`
	MaxTotalRelationships   int `json:"max_total_relationships"`

	// Feature flags
	EnableHierarchicalDetection bool `json:"enable_hierarchical_detection"`
	EnableSequentialDetection   bool `json:"enable_sequential_detection"`
	EnableConceptAnalysis       bool `json:"enable_concept_analysis"`
	EnableWeakRelationships     bool `json:"enable_weak_relationships"`
}

// DefaultSimilarityConfig returns the default configuration
func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		Weights:                          DefaultSignalWeights(),
		HighlyRelatedThreshold:           0.8,
		SemanticallyRelatedThreshold:     0.7,
		TopicallyRelatedThreshold:        0.6,
		StructurallyRelatedThreshold:     0.6,
		KeywordRelatedThreshold:          0.6,
		LooselyRelatedThreshold:          0.5,
		WeakRelatedThreshold:             0.4,
		ConceptOverlapThreshold:          0.3,
		HierarchicalContainmentThreshold: 0.8,
		SequentialPatternThreshold:       2,
		MaxRelationshipsPerType:          5,
		MaxTotalRelationships:            20,
		EnableHierarchicalDetection:      true,
		EnableSequentialDetection:        true,
		EnableConceptAnalysis:            true,
		EnableWeakRelationships:          false,
	}
}

// namedConfigs holds the predefined configurations for different use cases
var namedConfigs = map[string]func() SimilarityConfig{
	"default": DefaultSimilarityConfig,
	"semantic_focused": func() SimilarityConfig {
		c := DefaultSimilarityConfig()
		c.Weights = SignalWeights{Semantic: 0.6, Keyword: 0.2, Structural: 0.1, Topic: 0.1}
		c.SemanticallyRelatedThreshold = 0.6
		return c
	},
	"keyword_focused": func() SimilarityConfig {
		c := DefaultSimilarityConfig()
		c.Weights = SignalWeights{Semantic: 0.2, Keyword: 0.5, Structural: 0.15, Topic: 0.15}
		c.KeywordRelatedThreshold = 0.5
		return c
	},
	"strict": func() SimilarityConfig {
		c := DefaultSimilarityConfig()
		c.HighlyRelatedThreshold = 0.85
		c.SemanticallyRelatedThreshold = 0.75
		c.TopicallyRelatedThreshold = 0.65
		c.LooselyRelatedThreshold = 0.6
		c.MaxRelationshipsPerType = 3
		c.MaxTotalRelationships = 10
		return c
	},
	"permissive": func() SimilarityConfig {
		c := DefaultSimilarityConfig()
		c.HighlyRelatedThreshold = 0.7
		c.SemanticallyRelatedThreshold = 0.6
		c.TopicallyRelatedThreshold = 0.5
		c.LooselyRelatedThreshold = 0.4
		c.WeakRelatedThreshold = 0.3
		c.MaxRelationshipsPerType = 8
		c.MaxTotalRelationships = 30
		c.EnableWeakRelationships = true
		return c
	},
	"academic": func() SimilarityConfig {
		c := DefaultSimilarityConfig()
		c.Weights = SignalWeights{Semantic: 0.35, Keyword: 0.35, Structural: 0.2, Topic: 0.1}
		c.ConceptOverlapThreshold = 0.25
		return c
	},
	"creative": func() SimilarityConfig {
		c := DefaultSimilarityConfig()
		c.Weights = SignalWeights{Semantic: 0.5, Keyword: 0.2, Structural: 0.1, Topic: 0.2}
		c.SemanticallyRelatedThreshold = 0.6
		return c
	},
}

// NamedSimilarityConfig returns a predefined configuration by name.
// Unknown names fall back to the default configuration.
func NamedSimilarityConfig(name string) SimilarityConfig {
	if factory, ok := namedConfigs[name]; ok {
		return factory()
	}
	return DefaultSimilarityConfig()
}

// SimilarityConfigNames returns the names of all predefined configurations
func SimilarityConfigNames() []string {
	names := make([]string, 0, len(namedConfigs))
	for name := range namedConfigs {
		names = append(names, name)
	}
	return names
}

// Validate checks weight and threshold ranges
func (c *SimilarityConfig) Validate() error {
	weights := []float64{c.Weights.Semantic, c.Weights.Keyword, c.Weights.Structural, c.Weights.Topic}
	for _, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("signal weight %v out of range [0, 1]", w)
		}
	}

	thresholds := []float64{
		c.HighlyRelatedThreshold,
		c.SemanticallyRelatedThreshold,
		c.TopicallyRelatedThreshold,
		c.StructurallyRelatedThreshold,
		c.KeywordRelatedThreshold,
		c.LooselyRelatedThreshold,
		c.WeakRelatedThreshold,
		c.ConceptOverlapThreshold,
		c.HierarchicalContainmentThreshold,
	}
	for _, th := range thresholds {
		if th < 0 || th > 1 {
			return fmt.Errorf("threshold %v out of range [0, 1]", th)
		}
	}

	if c.SequentialPatternThreshold < 0 {
		return fmt.Errorf("sequential pattern threshold must not be negative")
	}
	if c.MaxRelationshipsPerType < 0 || c.MaxTotalRelationships < 0 {
		return fmt.Errorf("relationship caps must not be negative")
	}

	return nil
}
