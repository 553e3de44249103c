package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
	loadSql "github.com/siherrmann/notegraph/sql"
)

// RelationsDBHandlerFunctions defines the interface for Relations database operations.
type RelationsDBHandlerFunctions interface {
	UpsertRelation(ctx context.Context, relation *model.Relation) error
	SelectRelationsFromNote(ctx context.Context, rid uuid.UUID, relationType *model.RelationType) ([]*model.Relation, error)
	SelectRelationsToNote(ctx context.Context, rid uuid.UUID, relationType *model.RelationType) ([]*model.Relation, error)
	ConnectedRelations(ctx context.Context, rid uuid.UUID) ([]*model.Relation, error)
	DeleteRelation(ctx context.Context, fromRID, toRID uuid.UUID, relationType *model.RelationType) error
	DeleteRelationsOfNote(ctx context.Context, rid uuid.UUID) (int, error)
	DeleteAllRelations(ctx context.Context) (int, error)
}

// RelationsDBHandler handles relation-related database operations
type RelationsDBHandler struct {
	db *helper.Database
}

// NewRelationsDBHandler creates a new relations database handler.
// It initializes the database connection and loads relation-related
// SQL functions. If force is true, it will reload the SQL functions
// even if they already exist. The notes table must exist first.
func NewRelationsDBHandler(db *helper.Database, force bool) (*RelationsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	relationsDbHandler := &RelationsDBHandler{
		db: db,
	}

	err := loadSql.LoadRelationsSql(relationsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load relations sql", err)
	}

	err = relationsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RelationsDBHandler")

	return relationsDbHandler, nil
}

// CreateTable creates the 'relations' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *RelationsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_relations();`)
	if err != nil {
		log.Panicf("error initializing relations table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table relations")

	return nil
}

// UpsertRelation creates a relation or updates score and metadata of
// the existing one. The (from, to, type) key makes the write
// idempotent, racing writers never duplicate an edge.
func (h *RelationsDBHandler) UpsertRelation(ctx context.Context, relation *model.Relation) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM upsert_relation($1, $2, $3, $4, $5)`,
		relation.FromRID,
		relation.ToRID,
		relation.Type,
		relation.Score,
		relation.Metadata,
	)

	err := row.Scan(
		&relation.ID,
		&relation.FromRID,
		&relation.ToRID,
		&relation.Type,
		&relation.Score,
		&relation.Metadata,
		&relation.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectRelationsFromNote retrieves relations originating at the note,
// optionally filtered by type
func (h *RelationsDBHandler) SelectRelationsFromNote(ctx context.Context, rid uuid.UUID, relationType *model.RelationType) ([]*model.Relation, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_relations_from_note($1, $2)`,
		rid,
		relationTypeParam(relationType),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanRelations(rows)
}

// SelectRelationsToNote retrieves relations pointing at the note,
// optionally filtered by type
func (h *RelationsDBHandler) SelectRelationsToNote(ctx context.Context, rid uuid.UUID, relationType *model.RelationType) ([]*model.Relation, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_relations_to_note($1, $2)`,
		rid,
		relationTypeParam(relationType),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanRelations(rows)
}

// ConnectedRelations retrieves the relations originating at the note.
// Relations are stored as bidirectional pairs, so the from side alone
// covers every connected note exactly once.
func (h *RelationsDBHandler) ConnectedRelations(ctx context.Context, rid uuid.UUID) ([]*model.Relation, error) {
	return h.SelectRelationsFromNote(ctx, rid, nil)
}

// DeleteRelation deletes the relation between two notes. A nil type
// deletes all relations in that direction.
func (h *RelationsDBHandler) DeleteRelation(ctx context.Context, fromRID, toRID uuid.UUID, relationType *model.RelationType) error {
	var deleted bool
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM delete_relation($1, $2, $3)`,
		fromRID,
		toRID,
		relationTypeParam(relationType),
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteRelationsOfNote deletes all relations connected to the note in
// either direction. Returns the number of deleted relations.
func (h *RelationsDBHandler) DeleteRelationsOfNote(ctx context.Context, rid uuid.UUID) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM delete_relations_of_note($1)`,
		rid,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return deleted, nil
}

// DeleteAllRelations clears the relation table. Returns the number of
// deleted relations.
func (h *RelationsDBHandler) DeleteAllRelations(ctx context.Context) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM delete_all_relations()`,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return deleted, nil
}

// relationTypeParam converts an optional relation type to its query parameter
func relationTypeParam(relationType *model.RelationType) interface{} {
	if relationType == nil {
		return nil
	}
	return string(*relationType)
}

// scanRelations scans relation rows
func scanRelations(rows *sql.Rows) ([]*model.Relation, error) {
	var results []*model.Relation
	for rows.Next() {
		relation := &model.Relation{}
		err := rows.Scan(
			&relation.ID,
			&relation.FromRID,
			&relation.ToRID,
			&relation.Type,
			&relation.Score,
			&relation.Metadata,
			&relation.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, relation)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}
