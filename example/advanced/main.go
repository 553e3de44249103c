package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/notegraph"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
)

// A small corpus of programming notes with an obvious hierarchy:
// an overview note, two topic notes underneath it and one outlier.
var corpus = []struct {
	title   string
	content string
}{
	{
		"Concurrency in Go",
		`# Concurrency in Go

An overview of concurrent programming with goroutines, channels, select,
sync primitives, worker pools, pipelines and context cancellation.

## Topics

- Goroutines and the scheduler
- Channels and select
- The sync package
- Context and cancellation`,
	},
	{
		"Channels",
		`# Channels

Channels connect goroutines. Before reading this you should first
understand goroutines themselves, this note builds on that introduction.

` + "```go" + `
ch := make(chan int, 8)
go func() { ch <- 42 }()
fmt.Println(<-ch)
` + "```" + `

Buffered channels decouple sender and receiver. Closing a channel
signals that no more values follow.`,
	},
	{
		"Goroutines",
		`# Goroutines

A goroutine is a lightweight thread managed by the Go runtime.

` + "```go" + `
go worker(jobs, results)
` + "```" + `

Goroutines start with the go keyword. The scheduler multiplexes them
onto operating system threads. Next step: learn channels to let
goroutines communicate.`,
	},
	{
		"Tomato Gardening",
		`# Tomato Gardening

Plant seedlings after the last frost. Water deeply twice a week and
pinch out side shoots for larger fruit.`,
	},
}

func main() {
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

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

	if err := n.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	ctx := context.Background()

	// Ingest the corpus without linking, linking happens afterwards
	// per note so every note sees the full corpus as candidates.
	notes := map[string]*model.Note{}
	for _, sample := range corpus {
		note := &model.Note{
			Title:    sample.title,
			Content:  sample.content,
			Metadata: map[string]any{"source": "example"},
		}
		if err := n.AddNote(ctx, note); err != nil {
			log.Fatalf("Failed to add note: %v", err)
		}
		notes[sample.title] = note
	}
	fmt.Printf("Ingested %d notes\n\n", len(notes))

	// Inspect the raw similarity signals before creating any edges
	printHeader("Similarity breakdown")
	overview := notes["Concurrency in Go"]
	channels := notes["Channels"]
	breakdown, err := n.ComputeSimilarity(
		overview.Content, channels.Content,
		overview.Embedding, channels.Embedding,
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to compute similarity: %v", err)
	}
	fmt.Printf("%q vs %q\n", overview.Title, channels.Title)
	fmt.Printf("  semantic:   %.3f\n", breakdown.Semantic)
	fmt.Printf("  keyword:    %.3f\n", breakdown.Keyword)
	fmt.Printf("  structural: %.3f\n", breakdown.Structural)
	fmt.Printf("  topic:      %.3f\n", breakdown.Topic)
	fmt.Printf("  overall:    %.3f\n", breakdown.Overall)

	config := model.NamedSimilarityConfig("permissive")
	if relationType, ok := n.Classify(breakdown, &config); ok {
		fmt.Printf("  classified as %s (permissive)\n\n", relationType)
	} else {
		fmt.Printf("  below every permissive threshold\n\n")
	}

	// Link every note with the enhanced engine. The permissive
	// configuration also records hierarchical and sequential edges.
	printHeader("Enhanced linking")
	for _, note := range notes {
		result, err := n.Link(ctx, note.RID, &config)
		if err != nil {
			log.Fatalf("Failed to link note %q: %v", note.Title, err)
		}
		fmt.Printf("%-20s analyzed %d, created %d", note.Title, result.Analyzed, result.TotalCreated())
		for relationType, count := range result.CreatedByType {
			fmt.Printf("  %s=%d", relationType, count)
		}
		fmt.Println()
	}
	fmt.Println()

	// Show the resulting edges per note
	printHeader("Relations")
	titles := titlesByRID(notes)
	for _, sample := range corpus {
		note := notes[sample.title]
		relations, err := n.RelationsOfNote(ctx, note.RID, nil)
		if err != nil {
			log.Fatalf("Failed to list relations: %v", err)
		}
		fmt.Printf("%s\n", note.Title)
		for _, relation := range relations {
			fmt.Printf("  %-22s -> %-20s %.3f\n", relation.Type, titles[relation.ToRID], relation.Score)
		}
	}
	fmt.Println()

	// Graph queries over the linked corpus
	printHeader("Graph queries")
	goroutines := notes["Goroutines"]
	pathResult, err := n.ShortestPath(ctx, goroutines.RID, overview.RID, 5)
	if err != nil {
		log.Fatalf("Failed to run shortest path: %v", err)
	}
	if pathResult.Found {
		fmt.Printf("Shortest path %q -> %q: %s (length %d)\n",
			goroutines.Title, overview.Title, formatPath(pathResult.Path, titles), pathResult.Path.Length)
	} else {
		fmt.Printf("Shortest path: %s\n", pathResult.Message)
	}

	pathsResult, err := n.AllPaths(ctx, goroutines.RID, overview.RID, 4, 10)
	if err != nil {
		log.Fatalf("Failed to run all paths: %v", err)
	}
	fmt.Printf("All paths %q -> %q: %d\n", goroutines.Title, overview.Title, pathsResult.Count)
	for _, path := range pathsResult.Paths {
		fmt.Printf("  %s\n", formatPath(path, titles))
	}

	neighbors, err := n.Neighbors(ctx, overview.RID, 2)
	if err != nil {
		log.Fatalf("Failed to run neighbors: %v", err)
	}
	fmt.Printf("Neighbors of %q within depth 2:\n", overview.Title)
	for _, neighbor := range neighbors {
		fmt.Printf("  %-20s distance %d\n", titles[neighbor.RID], neighbor.Distance)
	}
	fmt.Println()

	// Text search and similarity search round out the read side
	printHeader("Search")
	found, err := n.SearchNotes(ctx, "goroutine", 10)
	if err != nil {
		log.Fatalf("Failed to search notes: %v", err)
	}
	fmt.Printf("Text search %q: %d note(s)\n", "goroutine", len(found))
	for _, note := range found {
		fmt.Printf("  %s\n", note.Title)
	}

	similar, err := n.SimilarNotes(ctx, overview.RID, 3)
	if err != nil {
		log.Fatalf("Failed to search similar notes: %v", err)
	}
	fmt.Printf("Notes similar to %q:\n", overview.Title)
	for _, note := range similar {
		fmt.Printf("  %.3f  %s\n", note.Similarity, note.Title)
	}
}

func printHeader(title string) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func titlesByRID(notes map[string]*model.Note) map[uuid.UUID]string {
	titles := make(map[uuid.UUID]string, len(notes))
	for title, note := range notes {
		titles[note.RID] = title
	}
	return titles
}

func formatPath(path *model.Path, titles map[uuid.UUID]string) string {
	parts := make([]string, 0, len(path.Nodes))
	for _, rid := range path.Nodes {
		parts = append(parts, titles[rid])
	}
	return strings.Join(parts, " -> ")
}
