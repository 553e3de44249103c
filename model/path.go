package model

import "github.com/google/uuid"

// Path is an ordered sequence of note identifiers together with the
// relationship types of the edges connecting consecutive notes.
// Length is the edge count, so len(Nodes) == Length+1 for a found path.
type Path struct {
	Nodes  []uuid.UUID    `json:"nodes"`
	Types  []RelationType `json:"types"`
	Length int            `json:"length"`
}

// PathResult is the outcome of a shortest path query. Found is false
// when both notes exist but no path of the requested length connects
// them; Message explains the outcome either way.
type PathResult struct {
	Found   bool   `json:"found"`
	Path    *Path  `json:"path,omitempty"`
	Message string `json:"message"`
}

// PathsResult is the outcome of an all-paths query. Paths is empty,
// not nil-with-error, when no path exists.
type PathsResult struct {
	Paths   []*Path `json:"paths"`
	Count   int     `json:"count"`
	Message string  `json:"message"`
}

// Neighbor is a note reachable from the query note, annotated with its
// minimum distance and one witnessing path.
type Neighbor struct {
	RID      uuid.UUID `json:"rid"`
	Distance int       `json:"distance"`
	Path     *Path     `json:"path"`
}
