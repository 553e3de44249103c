package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/notegraph/helper"
)

const defaultModelName = "sentence-transformers/all-MiniLM-L6-v2"

// DefaultEmbedder returns an EmbedFunc backed by the all-MiniLM-L6-v2
// sentence transformer, which produces 384-dimensional embeddings.
// The model is downloaded on first use.
func DefaultEmbedder() (EmbedFunc, error) {
	return HugotEmbedder(defaultModelName)
}

// HugotEmbedder builds an EmbedFunc running the named model in a local
// hugot feature extraction pipeline.
func HugotEmbedder(modelName string) (EmbedFunc, error) {
	modelPath, err := helper.PrepareModel(modelName)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "note-embedder",
	}
	extraction, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create extraction pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create extraction pipeline: %w", err)
	}

	return func(text string) ([]float32, error) {
		result, err := extraction.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to embed text: %w", err)
		}
		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("model returned no embedding")
		}
		return result.Embeddings[0], nil
	}, nil
}
