package similarity

import (
	"github.com/siherrmann/notegraph/model"
)

// Score computes all four similarity signals for a note pair and
// combines them into a weighted overall score. A nil weights argument
// uses the default weighting; callers overriding a subset should start
// from model.DefaultSignalWeights. Weights are not normalized, summing
// to 1 is the caller's contract.
func Score(textA, textB string, embA, embB []float32, weights *model.SignalWeights) (*model.SimilarityBreakdown, error) {
	w := model.DefaultSignalWeights()
	if weights != nil {
		w = *weights
	}

	semantic, err := Semantic(embA, embB)
	if err != nil {
		return nil, err
	}

	breakdown := &model.SimilarityBreakdown{
		Semantic:   semantic,
		Keyword:    Keyword(textA, textB),
		Structural: Structural(textA, textB),
		Topic:      Topic(textA, textB),
	}

	breakdown.Overall = w.Semantic*breakdown.Semantic +
		w.Keyword*breakdown.Keyword +
		w.Structural*breakdown.Structural +
		w.Topic*breakdown.Topic

	return breakdown, nil
}
