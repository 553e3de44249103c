package model

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Note represents a short document in the corpus
type Note struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Similarity is only populated by similarity searches
	Similarity float64 `json:"similarity,omitempty"`
}

// NewNoteFromFile reads a file and creates a Note with the file content.
// The title defaults to the filename without extension.
func NewNoteFromFile(filePath string, metadata Metadata) (*Note, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(filePath)
	title := filename[:len(filename)-len(filepath.Ext(filename))]
	if title == "" {
		title = filename
	}

	return &Note{
		Title:    title,
		Content:  string(content),
		Metadata: metadata,
	}, nil
}
