package notegraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/notegraph/core/graph"
	"github.com/siherrmann/notegraph/core/linking"
	"github.com/siherrmann/notegraph/core/pipeline"
	"github.com/siherrmann/notegraph/core/similarity"
	"github.com/siherrmann/notegraph/database"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
	loadSql "github.com/siherrmann/notegraph/sql"
)

// Neighbor queries accept depths in this range
const (
	MinNeighborDepth = 1
	MaxNeighborDepth = 5
)

// NoteGraph provides a unified interface to the note corpus, the
// linking engine and the graph queries
type NoteGraph struct {
	DB        *helper.Database
	Notes     *database.NotesDBHandler
	Relations *database.RelationsDBHandler
	Linker    *linking.Linker
	Pipeline  *pipeline.Pipeline // Optional embedding pipeline
	// Logging
	log *slog.Logger
}

// NewNoteGraph creates a new NoteGraph instance with all handlers initialized
func NewNoteGraph(config *helper.DatabaseConfiguration, embeddingDim int) (*NoteGraph, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("notegraph", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create handlers in the correct order (notes first, relations
	// reference them). force=false to not reload if functions already exist.
	notes, err := database.NewNotesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create notes handler", err)
	}

	relations, err := database.NewRelationsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create relations handler", err)
	}

	linker := linking.NewLinker(notes, relations, logger)

	return &NoteGraph{
		DB:        db,
		Notes:     notes,
		Relations: relations,
		Linker:    linker,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (n *NoteGraph) Close() error {
	if n.DB != nil && n.DB.Instance != nil {
		return n.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the embedding pipeline for note processing
func (n *NoteGraph) SetPipeline(pipeline *pipeline.Pipeline) {
	n.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default embedding pipeline with the
// all-MiniLM-L6-v2 model (384 dimensions)
func (n *NoteGraph) UseDefaultPipeline() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	n.Pipeline = pipeline.NewPipeline(embedder)
	return nil
}

// AddNote embeds the note through the pipeline if it has no embedding
// yet and inserts it
func (n *NoteGraph) AddNote(ctx context.Context, note *model.Note) error {
	if note == nil {
		return helper.NewError("add note", fmt.Errorf("%w: note is nil", model.ErrInvalidInput))
	}

	if len(note.Embedding) == 0 && n.Pipeline != nil {
		if err := n.Pipeline.Process(note); err != nil {
			return helper.NewError("embed note", err)
		}
	}

	if err := n.Notes.InsertNote(ctx, note); err != nil {
		return err
	}

	n.log.Info("Inserted note", slog.String("note_id", note.RID.String()), slog.String("title", note.Title))

	return nil
}

// GetNote retrieves a note by RID
func (n *NoteGraph) GetNote(ctx context.Context, rid uuid.UUID) (*model.Note, error) {
	return n.Notes.SelectNote(ctx, rid)
}

// SearchNotes retrieves notes matching the search term in title or content
func (n *NoteGraph) SearchNotes(ctx context.Context, searchTerm string, limit int) ([]*model.Note, error) {
	return n.Notes.SelectNotesBySearch(ctx, searchTerm, limit)
}

// UpdateNote re-embeds the note when its content changed and updates it
func (n *NoteGraph) UpdateNote(ctx context.Context, note *model.Note) error {
	if note == nil {
		return helper.NewError("update note", fmt.Errorf("%w: note is nil", model.ErrInvalidInput))
	}

	// Content changes invalidate the stored vector
	if n.Pipeline != nil {
		if err := n.Pipeline.Process(note); err != nil {
			return helper.NewError("embed note", err)
		}
	}

	if err := n.Notes.UpdateNote(ctx, note); err != nil {
		return err
	}

	n.log.Info("Updated note", slog.String("note_id", note.RID.String()))

	return nil
}

// DeleteNote deletes a note. Its relations are removed by the store's cascade.
func (n *NoteGraph) DeleteNote(ctx context.Context, rid uuid.UUID) error {
	return n.Notes.DeleteNote(ctx, rid)
}

// SimilarNotes retrieves the notes most similar to the given note by
// embedding, most similar first, excluding the note itself
func (n *NoteGraph) SimilarNotes(ctx context.Context, rid uuid.UUID, limit int) ([]*model.Note, error) {
	note, err := n.Notes.SelectNote(ctx, rid)
	if err != nil {
		return nil, err
	}
	if len(note.Embedding) == 0 {
		return nil, helper.NewError("similar notes", fmt.Errorf("%w: note %s has no embedding", model.ErrInvalidInput, rid))
	}

	// One extra result to account for the note itself
	candidates, err := n.Notes.SelectNotesBySimilarity(ctx, note.Embedding, limit+1, 0.0)
	if err != nil {
		return nil, err
	}

	results := make([]*model.Note, 0, limit)
	for _, candidate := range candidates {
		if candidate.RID == rid {
			continue
		}
		if len(results) == limit {
			break
		}
		results = append(results, candidate)
	}

	return results, nil
}

// ComputeSimilarity scores two texts with their embeddings across all
// four signals. A nil weights uses the default weights.
func (n *NoteGraph) ComputeSimilarity(textA, textB string, embA, embB []float32, weights *model.SignalWeights) (*model.SimilarityBreakdown, error) {
	return similarity.Score(textA, textB, embA, embB, weights)
}

// Classify maps a similarity breakdown to a relationship type. The
// second return value is false when the pair is unrelated.
func (n *NoteGraph) Classify(breakdown *model.SimilarityBreakdown, config *model.SimilarityConfig) (model.RelationType, bool) {
	if config == nil {
		defaults := model.DefaultSimilarityConfig()
		config = &defaults
	}
	return similarity.Classify(breakdown, config)
}

// Link runs the enhanced linking pass for the note. A nil config uses
// the default configuration.
func (n *NoteGraph) Link(ctx context.Context, rid uuid.UUID, config *model.SimilarityConfig) (*model.LinkResult, error) {
	return n.Linker.Link(ctx, rid, config)
}

// LinkSimilar runs the basic semantic-only linking pass for the note
func (n *NoteGraph) LinkSimilar(ctx context.Context, rid uuid.UUID, threshold float64) (int, error) {
	note, err := n.Notes.SelectNote(ctx, rid)
	if err != nil {
		return 0, err
	}

	return n.Linker.LinkSimilar(ctx, rid, note.Embedding, threshold)
}

// RelationsOfNote retrieves the relations originating at the note,
// optionally filtered by type
func (n *NoteGraph) RelationsOfNote(ctx context.Context, rid uuid.UUID, relationType *model.RelationType) ([]*model.Relation, error) {
	return n.Relations.SelectRelationsFromNote(ctx, rid, relationType)
}

// Unlink removes the relation pair between two notes in both
// directions. A nil type removes all relations between them.
func (n *NoteGraph) Unlink(ctx context.Context, a, b uuid.UUID, relationType *model.RelationType) error {
	if err := n.Relations.DeleteRelation(ctx, a, b, relationType); err != nil {
		return err
	}
	return n.Relations.DeleteRelation(ctx, b, a, relationType)
}

// ShortestPath finds the minimum-length path between two notes,
// traversing relations in either direction
func (n *NoteGraph) ShortestPath(ctx context.Context, start, end uuid.UUID, maxDepth int) (*model.PathResult, error) {
	return graph.ShortestPath(ctx, n.graphStore(), start, end, maxDepth)
}

// AllPaths enumerates simple paths between two notes, shortest first
func (n *NoteGraph) AllPaths(ctx context.Context, start, end uuid.UUID, maxDepth, maxPaths int) (*model.PathsResult, error) {
	return graph.AllPaths(ctx, n.graphStore(), start, end, maxDepth, maxPaths)
}

// Neighbors retrieves the notes reachable within depth hops. The depth
// must be between MinNeighborDepth and MaxNeighborDepth.
func (n *NoteGraph) Neighbors(ctx context.Context, rid uuid.UUID, depth int) ([]*model.Neighbor, error) {
	if depth < MinNeighborDepth || depth > MaxNeighborDepth {
		return nil, helper.NewError("neighbors", fmt.Errorf("%w: depth must be in [%d, %d]", model.ErrInvalidInput, MinNeighborDepth, MaxNeighborDepth))
	}

	return graph.Neighbors(ctx, n.graphStore(), rid, depth)
}

// graphStore combines the note and relation handlers into the store
// the traversal algorithms read from
func (n *NoteGraph) graphStore() graph.Store {
	return &combinedStore{notes: n.Notes, relations: n.Relations}
}

type combinedStore struct {
	notes     *database.NotesDBHandler
	relations *database.RelationsDBHandler
}

func (s *combinedStore) HasNote(ctx context.Context, rid uuid.UUID) (bool, error) {
	return s.notes.HasNote(ctx, rid)
}

func (s *combinedStore) ConnectedRelations(ctx context.Context, rid uuid.UUID) ([]*model.Relation, error) {
	return s.relations.ConnectedRelations(ctx, rid)
}
