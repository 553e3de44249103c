package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/notegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStore is an in-memory Store implementation for testing
type MockStore struct {
	notes     map[uuid.UUID]bool
	relations map[uuid.UUID][]*model.Relation
}

func NewMockStore() *MockStore {
	return &MockStore{
		notes:     make(map[uuid.UUID]bool),
		relations: make(map[uuid.UUID][]*model.Relation),
	}
}

func (m *MockStore) AddNote(rid uuid.UUID) {
	m.notes[rid] = true
}

// Link adds a bidirectional relation pair, as the linking engine would
func (m *MockStore) Link(from, to uuid.UUID, relType model.RelationType) {
	m.relations[from] = append(m.relations[from], &model.Relation{FromRID: from, ToRID: to, Type: relType})
	m.relations[to] = append(m.relations[to], &model.Relation{FromRID: to, ToRID: from, Type: relType})
}

func (m *MockStore) HasNote(ctx context.Context, rid uuid.UUID) (bool, error) {
	return m.notes[rid], nil
}

func (m *MockStore) ConnectedRelations(ctx context.Context, rid uuid.UUID) ([]*model.Relation, error) {
	return m.relations[rid], nil
}

// failingStore returns errors on every call to simulate store outage
type failingStore struct{}

func (failingStore) HasNote(ctx context.Context, rid uuid.UUID) (bool, error) {
	return false, errors.New("store unavailable")
}

func (failingStore) ConnectedRelations(ctx context.Context, rid uuid.UUID) ([]*model.Relation, error) {
	return nil, errors.New("store unavailable")
}

func chainStore(t *testing.T) (*MockStore, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := NewMockStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	store.AddNote(a)
	store.AddNote(b)
	store.AddNote(c)
	store.Link(a, b, model.RelationTypeSimilar)
	store.Link(b, c, model.RelationTypeTopicallyRelated)
	return store, a, b, c
}

func TestShortestPath(t *testing.T) {
	ctx := context.Background()

	t.Run("Finds path across a chain", func(t *testing.T) {
		store, a, b, c := chainStore(t)

		result, err := ShortestPath(ctx, store, a, c, 6)

		require.NoError(t, err, "Expected ShortestPath to not return an error")
		require.True(t, result.Found, "Expected a path to be found")
		assert.Equal(t, 2, result.Path.Length, "Expected path length 2")
		assert.Equal(t, []uuid.UUID{a, b, c}, result.Path.Nodes, "Expected node sequence A, B, C")
		assert.Equal(t, []model.RelationType{model.RelationTypeSimilar, model.RelationTypeTopicallyRelated},
			result.Path.Types, "Expected edge types along the path")
	})

	t.Run("Disconnected notes yield a no-path result", func(t *testing.T) {
		store, a, _, _ := chainStore(t)
		isolated := uuid.New()
		store.AddNote(isolated)

		result, err := ShortestPath(ctx, store, a, isolated, 6)

		require.NoError(t, err, "Expected no error for disconnected notes")
		assert.False(t, result.Found, "Expected no path to be found")
		assert.Contains(t, result.Message, "no path found", "Expected an explanatory message")
	})

	t.Run("Missing note yields not-found error", func(t *testing.T) {
		store, a, _, _ := chainStore(t)

		_, err := ShortestPath(ctx, store, a, uuid.New(), 6)

		require.Error(t, err, "Expected an error for a missing note")
		assert.ErrorIs(t, err, model.ErrNoteNotFound, "Expected a note-not-found error")
	})

	t.Run("Depth bound cuts off longer paths", func(t *testing.T) {
		store, a, _, c := chainStore(t)

		result, err := ShortestPath(ctx, store, a, c, 1)

		require.NoError(t, err)
		assert.False(t, result.Found, "Expected no path within depth 1")
	})

	t.Run("Same start and end is a zero-length path", func(t *testing.T) {
		store, a, _, _ := chainStore(t)

		result, err := ShortestPath(ctx, store, a, a, 3)

		require.NoError(t, err)
		require.True(t, result.Found)
		assert.Equal(t, 0, result.Path.Length)
	})

	t.Run("Invalid depth fails", func(t *testing.T) {
		store, a, b, _ := chainStore(t)

		_, err := ShortestPath(ctx, store, a, b, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		_, err := ShortestPath(ctx, failingStore{}, uuid.New(), uuid.New(), 3)

		assert.Error(t, err, "Expected store failure to propagate")
	})
}

func TestAllPaths(t *testing.T) {
	ctx := context.Background()

	// Diamond with a long way round: A-B-C plus A-D-E-C
	diamond := func(t *testing.T) (*MockStore, uuid.UUID, uuid.UUID) {
		t.Helper()
		store := NewMockStore()
		a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
		for _, rid := range []uuid.UUID{a, b, c, d, e} {
			store.AddNote(rid)
		}
		store.Link(a, b, model.RelationTypeSimilar)
		store.Link(b, c, model.RelationTypeSimilar)
		store.Link(a, d, model.RelationTypeSimilar)
		store.Link(d, e, model.RelationTypeSimilar)
		store.Link(e, c, model.RelationTypeSimilar)
		return store, a, c
	}

	t.Run("Finds both paths ordered shortest first", func(t *testing.T) {
		store, a, c := diamond(t)

		result, err := AllPaths(ctx, store, a, c, 4, 5)

		require.NoError(t, err, "Expected AllPaths to not return an error")
		require.Equal(t, 2, result.Count, "Expected exactly two simple paths")
		assert.Equal(t, 2, result.Paths[0].Length, "Expected the shorter path first")
		assert.Equal(t, 3, result.Paths[1].Length, "Expected the longer path second")
	})

	t.Run("Max paths caps the result", func(t *testing.T) {
		store, a, c := diamond(t)

		result, err := AllPaths(ctx, store, a, c, 4, 1)

		require.NoError(t, err)
		require.Equal(t, 1, result.Count, "Expected the cap to apply")
		assert.Equal(t, 2, result.Paths[0].Length, "Expected the shortest path to survive the cap")
	})

	t.Run("No paths is an empty list with message", func(t *testing.T) {
		store, a, _ := diamond(t)
		isolated := uuid.New()
		store.AddNote(isolated)

		result, err := AllPaths(ctx, store, a, isolated, 4, 5)

		require.NoError(t, err, "Expected no error when no paths exist")
		assert.Empty(t, result.Paths, "Expected an empty path list")
		assert.Contains(t, result.Message, "no paths found", "Expected an explanatory message")
	})

	t.Run("Trivial start equals end is excluded", func(t *testing.T) {
		store, a, _ := diamond(t)

		result, err := AllPaths(ctx, store, a, a, 4, 5)

		require.NoError(t, err)
		assert.Empty(t, result.Paths, "Expected no paths for start == end")
	})

	t.Run("Missing note yields not-found error", func(t *testing.T) {
		store, a, _ := diamond(t)

		_, err := AllPaths(ctx, store, a, uuid.New(), 4, 5)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNoteNotFound)
	})

	t.Run("Depth bound excludes the longer path", func(t *testing.T) {
		store, a, c := diamond(t)

		result, err := AllPaths(ctx, store, a, c, 2, 5)

		require.NoError(t, err)
		require.Equal(t, 1, result.Count, "Expected only the two-hop path within depth 2")
		assert.Equal(t, 2, result.Paths[0].Length)
	})
}

func TestNeighbors(t *testing.T) {
	ctx := context.Background()

	t.Run("Chain neighbors carry minimum distances", func(t *testing.T) {
		store, a, b, c := chainStore(t)

		neighbors, err := Neighbors(ctx, store, a, 2)

		require.NoError(t, err, "Expected Neighbors to not return an error")
		require.Len(t, neighbors, 2, "Expected two reachable notes")

		byRID := map[uuid.UUID]*model.Neighbor{}
		for _, neighbor := range neighbors {
			byRID[neighbor.RID] = neighbor
		}

		require.Contains(t, byRID, b)
		require.Contains(t, byRID, c)
		assert.Equal(t, 1, byRID[b].Distance, "Expected B at distance 1")
		assert.Equal(t, 2, byRID[c].Distance, "Expected C at distance 2")
		assert.NotContains(t, byRID, a, "Expected the query note to be excluded")
	})

	t.Run("Witness path leads from source to neighbor", func(t *testing.T) {
		store, a, b, c := chainStore(t)

		neighbors, err := Neighbors(ctx, store, a, 2)

		require.NoError(t, err)
		for _, neighbor := range neighbors {
			if neighbor.RID == c {
				assert.Equal(t, []uuid.UUID{a, b, c}, neighbor.Path.Nodes, "Expected witness path A, B, C")
				assert.Equal(t, 2, neighbor.Path.Length)
			}
		}
	})

	t.Run("Node reachable via two routes reported once", func(t *testing.T) {
		store := NewMockStore()
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		store.AddNote(a)
		store.AddNote(b)
		store.AddNote(c)
		store.Link(a, b, model.RelationTypeSimilar)
		store.Link(a, c, model.RelationTypeSimilar)
		store.Link(b, c, model.RelationTypeSimilar)

		neighbors, err := Neighbors(ctx, store, a, 3)

		require.NoError(t, err)
		assert.Len(t, neighbors, 2, "Expected each note reported once")
		for _, neighbor := range neighbors {
			assert.Equal(t, 1, neighbor.Distance, "Expected minimum distance 1 for both")
		}
	})

	t.Run("Depth bounds the expansion", func(t *testing.T) {
		store, a, b, _ := chainStore(t)

		neighbors, err := Neighbors(ctx, store, a, 1)

		require.NoError(t, err)
		require.Len(t, neighbors, 1, "Expected only the direct neighbor")
		assert.Equal(t, b, neighbors[0].RID)
	})

	t.Run("Missing note yields not-found error", func(t *testing.T) {
		store, _, _, _ := chainStore(t)

		_, err := Neighbors(ctx, store, uuid.New(), 2)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNoteNotFound)
	})

	t.Run("Invalid depth fails", func(t *testing.T) {
		store, a, _, _ := chainStore(t)

		_, err := Neighbors(ctx, store, a, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
