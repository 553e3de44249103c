package model

// SignalWeights holds the weighting of the four similarity signals.
// Callers are responsible for supplying weights that sum to 1.0; the
// scorer does not normalize.
type SignalWeights struct {
	Semantic   float64 `json:"semantic"`
	Keyword    float64 `json:"keyword"`
	Structural float64 `json:"structural"`
	Topic      float64 `json:"topic"`
}

// DefaultSignalWeights returns the default signal weighting
func DefaultSignalWeights() SignalWeights {
	return SignalWeights{
		Semantic:   0.4,
		Keyword:    0.3,
		Structural: 0.15,
		Topic:      0.15,
	}
}

// SimilarityBreakdown holds the per-signal similarity scores for one
// note pair together with the weighted overall score. All scores are
// in [0, 1]. Ephemeral, computed on demand and never persisted.
type SimilarityBreakdown struct {
	Semantic   float64 `json:"semantic"`
	Keyword    float64 `json:"keyword"`
	Structural float64 `json:"structural"`
	Topic      float64 `json:"topic"`
	Overall    float64 `json:"overall"`
}
