package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
)

// Store defines the graph store operations the traversal queries need.
// Relations are directed in storage but traversed as undirected here;
// ConnectedRelations returns every relation touching the note in either
// direction, in the store's default order.
type Store interface {
	HasNote(ctx context.Context, rid uuid.UUID) (bool, error)
	ConnectedRelations(ctx context.Context, rid uuid.UUID) ([]*model.Relation, error)
}

// step is one traversal hop: the reached note and the relation type of
// the edge used to reach it
type step struct {
	rid     uuid.UUID
	relType model.RelationType
}

// ShortestPath finds the minimum-length path between two notes up to
// maxDepth edges. Missing notes yield an ErrNoteNotFound error; two
// existing but unconnected notes yield a not-found PathResult, never an
// error. Ties are broken by the store's default relation ordering.
func ShortestPath(ctx context.Context, store Store, start, end uuid.UUID, maxDepth int) (*model.PathResult, error) {
	if maxDepth < 1 {
		return nil, helper.NewError("shortest path", fmt.Errorf("%w: max depth must be at least 1", model.ErrInvalidInput))
	}

	if err := requireNotes(ctx, store, start, end); err != nil {
		return nil, err
	}

	if start == end {
		return &model.PathResult{
			Found:   true,
			Path:    &model.Path{Nodes: []uuid.UUID{start}, Types: []model.RelationType{}, Length: 0},
			Message: "start and end are the same note",
		}, nil
	}

	// BFS with parent tracking; the first time a note is reached is at
	// its minimum distance
	parents := map[uuid.UUID]step{}
	visited := map[uuid.UUID]bool{start: true}
	queue := []uuid.UUID{start}
	depth := 0

	for len(queue) > 0 && depth < maxDepth {
		depth++
		next := make([]uuid.UUID, 0, len(queue))

		for _, current := range queue {
			relations, err := store.ConnectedRelations(ctx, current)
			if err != nil {
				return nil, helper.NewError("load relations", err)
			}

			for _, relation := range relations {
				target := otherEndpoint(relation, current)
				if visited[target] {
					continue
				}
				visited[target] = true
				parents[target] = step{rid: current, relType: relation.Type}

				if target == end {
					return &model.PathResult{
						Found:   true,
						Path:    buildPath(parents, start, end),
						Message: "path found",
					}, nil
				}

				next = append(next, target)
			}
		}

		queue = next
	}

	return &model.PathResult{
		Found:   false,
		Message: fmt.Sprintf("no path found between %s and %s within depth %d", start, end, maxDepth),
	}, nil
}

// AllPaths enumerates simple paths between two notes up to maxDepth
// edges, ordered by ascending length and capped at maxPaths results.
// An empty result carries an explanatory message, not an error.
func AllPaths(ctx context.Context, store Store, start, end uuid.UUID, maxDepth, maxPaths int) (*model.PathsResult, error) {
	if maxDepth < 1 || maxPaths < 1 {
		return nil, helper.NewError("all paths", fmt.Errorf("%w: max depth and max paths must be at least 1", model.ErrInvalidInput))
	}

	if err := requireNotes(ctx, store, start, end); err != nil {
		return nil, err
	}

	if start == end {
		return &model.PathsResult{
			Paths:   []*model.Path{},
			Message: "start and end are the same note",
		}, nil
	}

	var paths []*model.Path
	onPath := map[uuid.UUID]bool{start: true}

	var walk func(current uuid.UUID, nodes []uuid.UUID, types []model.RelationType) error
	walk = func(current uuid.UUID, nodes []uuid.UUID, types []model.RelationType) error {
		if len(types) >= maxDepth {
			return nil
		}

		relations, err := store.ConnectedRelations(ctx, current)
		if err != nil {
			return helper.NewError("load relations", err)
		}

		for _, relation := range relations {
			target := otherEndpoint(relation, current)
			if onPath[target] {
				continue
			}

			nextNodes := append(append([]uuid.UUID{}, nodes...), target)
			nextTypes := append(append([]model.RelationType{}, types...), relation.Type)

			if target == end {
				paths = append(paths, &model.Path{
					Nodes:  nextNodes,
					Types:  nextTypes,
					Length: len(nextTypes),
				})
				continue
			}

			onPath[target] = true
			if err := walk(target, nextNodes, nextTypes); err != nil {
				return err
			}
			delete(onPath, target)
		}

		return nil
	}

	if err := walk(start, []uuid.UUID{start}, nil); err != nil {
		return nil, err
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Length < paths[j].Length
	})
	if len(paths) > maxPaths {
		paths = paths[:maxPaths]
	}

	message := fmt.Sprintf("found %d path(s)", len(paths))
	if len(paths) == 0 {
		message = fmt.Sprintf("no paths found between %s and %s within depth %d", start, end, maxDepth)
		paths = []*model.Path{}
	}

	return &model.PathsResult{
		Paths:   paths,
		Count:   len(paths),
		Message: message,
	}, nil
}

// Neighbors returns the distinct notes reachable within depth hops,
// each annotated with its minimum distance and one witnessing path.
// The query note itself is never included.
func Neighbors(ctx context.Context, store Store, rid uuid.UUID, depth int) ([]*model.Neighbor, error) {
	if depth < 1 {
		return nil, helper.NewError("neighbors", fmt.Errorf("%w: depth must be at least 1", model.ErrInvalidInput))
	}

	exists, err := store.HasNote(ctx, rid)
	if err != nil {
		return nil, helper.NewError("check note", err)
	}
	if !exists {
		return nil, helper.NewError("neighbors", fmt.Errorf("%w: %s", model.ErrNoteNotFound, rid))
	}

	parents := map[uuid.UUID]step{}
	visited := map[uuid.UUID]bool{rid: true}
	queue := []uuid.UUID{rid}
	var neighbors []*model.Neighbor

	for distance := 1; distance <= depth && len(queue) > 0; distance++ {
		next := make([]uuid.UUID, 0, len(queue))

		for _, current := range queue {
			relations, err := store.ConnectedRelations(ctx, current)
			if err != nil {
				return nil, helper.NewError("load relations", err)
			}

			for _, relation := range relations {
				target := otherEndpoint(relation, current)
				if visited[target] {
					continue
				}
				visited[target] = true
				parents[target] = step{rid: current, relType: relation.Type}

				neighbors = append(neighbors, &model.Neighbor{
					RID:      target,
					Distance: distance,
					Path:     buildPath(parents, rid, target),
				})
				next = append(next, target)
			}
		}

		queue = next
	}

	return neighbors, nil
}

// requireNotes checks that both notes exist in the store
func requireNotes(ctx context.Context, store Store, rids ...uuid.UUID) error {
	for _, rid := range rids {
		exists, err := store.HasNote(ctx, rid)
		if err != nil {
			return helper.NewError("check note", err)
		}
		if !exists {
			return helper.NewError("check note", fmt.Errorf("%w: %s", model.ErrNoteNotFound, rid))
		}
	}
	return nil
}

// otherEndpoint resolves the endpoint of a relation that is not current
func otherEndpoint(relation *model.Relation, current uuid.UUID) uuid.UUID {
	if relation.FromRID == current {
		return relation.ToRID
	}
	return relation.FromRID
}

// buildPath reconstructs the path from start to end using the BFS
// parent links
func buildPath(parents map[uuid.UUID]step, start, end uuid.UUID) *model.Path {
	var nodes []uuid.UUID
	var types []model.RelationType

	for current := end; current != start; {
		parent := parents[current]
		nodes = append(nodes, current)
		types = append(types, parent.relType)
		current = parent.rid
	}
	nodes = append(nodes, start)

	// Reverse into start-to-end order
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(types)-1; i < j; i, j = i+1, j-1 {
		types[i], types[j] = types[j], types[i]
	}

	return &model.Path{
		Nodes:  nodes,
		Types:  types,
		Length: len(types),
	}
}
