package pipeline

import (
	"fmt"
	"strings"

	"github.com/siherrmann/notegraph/model"
)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline turns raw note text into an embedded note
type Pipeline struct {
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(embedder EmbedFunc) *Pipeline {
	return &Pipeline{Embedder: embedder}
}

// Process embeds the note's title and content and attaches the
// resulting vector to the note
func (p *Pipeline) Process(note *model.Note) error {
	if note == nil {
		return fmt.Errorf("note must not be nil")
	}

	embedding, err := p.Embedder(EmbeddingText(note.Title, note.Content))
	if err != nil {
		return err
	}

	note.Embedding = embedding
	return nil
}

// EmbeddingText joins title and content into the text the embedder
// sees. The title carries topical signal, so it is always included.
func EmbeddingText(title, content string) string {
	if strings.TrimSpace(title) == "" {
		return content
	}
	return title + "\n\n" + content
}
