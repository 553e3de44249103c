package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed notes.sql
var notesSQL string

//go:embed relations.sql
var relationsSQL string

// Function lists for verification
var NotesFunctions = []string{
	"init_notes",
	"insert_note",
	"select_note",
	"note_exists",
	"select_all_notes",
	"search_notes",
	"select_notes_by_similarity",
	"update_note",
	"delete_note",
}

var RelationsFunctions = []string{
	"init_relations",
	"upsert_relation",
	"select_relations_from_note",
	"select_relations_to_note",
	"delete_relation",
	"delete_relations_of_note",
	"delete_all_relations",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadNotesSql loads note-related SQL functions
func LoadNotesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, NotesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing notes functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(notesSQL)
	if err != nil {
		return fmt.Errorf("error executing notes SQL: %w", err)
	}

	exist, err := checkFunctions(db, NotesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL notes functions loaded successfully")
	return nil
}

// LoadRelationsSql loads relation-related SQL functions
func LoadRelationsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, RelationsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing relations functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(relationsSQL)
	if err != nil {
		return fmt.Errorf("error executing relations SQL: %w", err)
	}

	exist, err := checkFunctions(db, RelationsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL relations functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadNotesSql(db, force); err != nil {
		return err
	}

	if err := LoadRelationsSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
