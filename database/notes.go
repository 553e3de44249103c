package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
	loadSql "github.com/siherrmann/notegraph/sql"
)

// NotesDBHandlerFunctions defines the interface for Notes database operations.
type NotesDBHandlerFunctions interface {
	InsertNote(ctx context.Context, note *model.Note) error
	SelectNote(ctx context.Context, rid uuid.UUID) (*model.Note, error)
	HasNote(ctx context.Context, rid uuid.UUID) (bool, error)
	SelectAllNotes(ctx context.Context) ([]*model.Note, error)
	SelectNotes(ctx context.Context, lastCreatedAt *time.Time, limit int) ([]*model.Note, error)
	SelectNotesBySearch(ctx context.Context, searchTerm string, limit int) ([]*model.Note, error)
	SelectNotesBySimilarity(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, rid uuid.UUID) error
}

// NotesDBHandler handles note-related database operations
type NotesDBHandler struct {
	db *helper.Database
}

// NewNotesDBHandler creates a new notes database handler.
// It initializes the database connection, loads note-related SQL
// functions and creates the notes table with the given embedding
// dimension. If force is true, it will reload the SQL functions even
// if they already exist.
func NewNotesDBHandler(db *helper.Database, embeddingDim int, force bool) (*NotesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim < 1 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be at least 1"))
	}

	notesDbHandler := &NotesDBHandler{
		db: db,
	}

	err := loadSql.LoadNotesSql(notesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load notes sql", err)
	}

	err = notesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized NotesDBHandler")

	return notesDbHandler, nil
}

// CreateTable creates the 'notes' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes and triggers.
func (h *NotesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_notes($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing notes table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table notes")

	return nil
}

// InsertNote inserts a new note
func (h *NotesDBHandler) InsertNote(ctx context.Context, note *model.Note) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_note($1, $2, $3, $4)`,
		note.Title,
		note.Content,
		embeddingParam(note.Embedding),
		note.Metadata,
	)

	err := row.Scan(
		&note.ID,
		&note.RID,
		&note.Title,
		&note.Content,
		pq.Array(&note.Embedding),
		&note.Metadata,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectNote retrieves a note by RID
func (h *NotesDBHandler) SelectNote(ctx context.Context, rid uuid.UUID) (*model.Note, error) {
	note := &model.Note{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_note($1)`,
		rid,
	)

	err := row.Scan(
		&note.ID,
		&note.RID,
		&note.Title,
		&note.Content,
		pq.Array(&note.Embedding),
		&note.Metadata,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("select note", fmt.Errorf("%w: note %s", model.ErrNoteNotFound, rid))
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return note, nil
}

// HasNote checks whether a note with the given RID exists
func (h *NotesDBHandler) HasNote(ctx context.Context, rid uuid.UUID) (bool, error) {
	var exists bool
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM note_exists($1)`,
		rid,
	).Scan(&exists)
	if err != nil {
		return false, helper.NewError("scan", err)
	}

	return exists, nil
}

// SelectAllNotes retrieves the full corpus snapshot
func (h *NotesDBHandler) SelectAllNotes(ctx context.Context) ([]*model.Note, error) {
	return h.SelectNotes(ctx, nil, 0)
}

// SelectNotes retrieves notes with pagination. A nil lastCreatedAt
// starts from the beginning, a limit of 0 means no limit.
func (h *NotesDBHandler) SelectNotes(ctx context.Context, lastCreatedAt *time.Time, limit int) ([]*model.Note, error) {
	var limitParam interface{}
	if limit > 0 {
		limitParam = limit
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_all_notes($1, $2)`,
		lastCreatedAt,
		limitParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// SelectNotesBySearch retrieves notes matching a search term in title or content
func (h *NotesDBHandler) SelectNotesBySearch(ctx context.Context, searchTerm string, limit int) ([]*model.Note, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM search_notes($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// SelectNotesBySimilarity performs vector similarity search over note
// embeddings. Results carry their cosine similarity to the query
// vector and are ordered most similar first.
func (h *NotesDBHandler) SelectNotesBySimilarity(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*model.Note, error) {
	embeddingVector := pgvector.NewVector(embedding)

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_notes_by_similarity($1, $2, $3)`,
		embeddingVector,
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Note
	for rows.Next() {
		note := &model.Note{}
		err := rows.Scan(
			&note.ID,
			&note.RID,
			&note.Title,
			&note.Content,
			pq.Array(&note.Embedding),
			&note.Metadata,
			&note.CreatedAt,
			&note.UpdatedAt,
			&note.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, note)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// UpdateNote updates a note's title, content, embedding and metadata
func (h *NotesDBHandler) UpdateNote(ctx context.Context, note *model.Note) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM update_note($1, $2, $3, $4, $5)`,
		note.RID,
		note.Title,
		note.Content,
		embeddingParam(note.Embedding),
		note.Metadata,
	)

	err := row.Scan(
		&note.ID,
		&note.RID,
		&note.Title,
		&note.Content,
		pq.Array(&note.Embedding),
		&note.Metadata,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return helper.NewError("update note", fmt.Errorf("%w: note %s", model.ErrNoteNotFound, note.RID))
	}
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteNote deletes a note by RID. Relations referencing the note are
// removed by the store's cascade.
func (h *NotesDBHandler) DeleteNote(ctx context.Context, rid uuid.UUID) error {
	var deleted bool
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM delete_note($1)`,
		rid,
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("scan", err)
	}
	if !deleted {
		return helper.NewError("delete note", fmt.Errorf("%w: note %s", model.ErrNoteNotFound, rid))
	}

	return nil
}

// embeddingParam converts an embedding to its query parameter, keeping
// NULL for notes without an embedding
func embeddingParam(embedding []float32) interface{} {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

// scanNotes scans note rows without a similarity column
func scanNotes(rows *sql.Rows) ([]*model.Note, error) {
	var results []*model.Note
	for rows.Next() {
		note := &model.Note{}
		err := rows.Scan(
			&note.ID,
			&note.RID,
			&note.Title,
			&note.Content,
			pq.Array(&note.Embedding),
			&note.Metadata,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, note)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}
