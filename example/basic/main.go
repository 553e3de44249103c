package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/notegraph"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
)

var sampleNotes = []struct {
	title   string
	content string
}{
	{
		"Graph Databases",
		`Graph databases store entities as nodes and relationships as edges.
PostgreSQL with pgvector can serve as a capable graph store for note corpora.`,
	},
	{
		"Vector Similarity",
		`Vector similarity search finds semantically related content by comparing embeddings.
pgvector adds cosine distance operators directly to PostgreSQL.`,
	},
	{
		"Sourdough Starter",
		`Feed the starter twice a day with equal parts flour and water.
A mature starter doubles within four to six hours.`,
	},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	n, err := notegraph.NewNoteGraph(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create notegraph: %v", err)
	}
	defer n.Close()

	// Set up the default embedding pipeline
	if err := n.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	ctx := context.Background()

	// Insert and link the sample notes
	var notes []*model.Note
	for _, sample := range sampleNotes {
		note := &model.Note{
			Title:   sample.title,
			Content: sample.content,
		}

		fmt.Printf("Ingesting note %q...\n", note.Title)
		if err := n.AddNote(ctx, note); err != nil {
			log.Fatalf("Failed to add note: %v", err)
		}

		linked, err := n.LinkSimilar(ctx, note.RID, 0.55)
		if err != nil {
			log.Fatalf("Failed to link note: %v", err)
		}
		fmt.Printf("Linked to %d existing note(s)\n", linked)

		notes = append(notes, note)
	}

	// Show what the corpus looks like for the first note
	fmt.Printf("\nNotes similar to %q:\n", notes[0].Title)
	similar, err := n.SimilarNotes(ctx, notes[0].RID, 5)
	if err != nil {
		log.Fatalf("Failed to search similar notes: %v", err)
	}
	for _, note := range similar {
		fmt.Printf("  %.3f  %s\n", note.Similarity, note.Title)
	}

	fmt.Printf("\nRelations of %q:\n", notes[0].Title)
	relations, err := n.RelationsOfNote(ctx, notes[0].RID, nil)
	if err != nil {
		log.Fatalf("Failed to list relations: %v", err)
	}
	for _, relation := range relations {
		fmt.Printf("  %s -> %s (%.3f)\n", relation.Type, relation.ToRID, relation.Score)
	}
}
