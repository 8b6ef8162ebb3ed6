package hierarchy

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainLookup builds a ParentLookup over an in-memory parent map.
func chainLookup(parents map[uuid.UUID]*uuid.UUID) ParentLookup {
	return func(id uuid.UUID) (*uuid.UUID, bool, error) {
		parentID, ok := parents[id]
		if !ok {
			return nil, false, nil
		}
		return parentID, true, nil
	}
}

func TestWouldCreateCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	// a -> b -> c, roots at c.
	parents := map[uuid.UUID]*uuid.UUID{
		a: &b,
		b: &c,
		c: nil,
	}
	lookup := chainLookup(parents)

	t.Run("move to root is never a cycle", func(t *testing.T) {
		cycle, err := WouldCreateCycle(a, nil, lookup)
		require.NoError(t, err)
		assert.False(t, cycle)
	})

	t.Run("self parent is a cycle", func(t *testing.T) {
		cycle, err := WouldCreateCycle(a, &a, lookup)
		require.NoError(t, err)
		assert.True(t, cycle)
	})

	t.Run("moving under own descendant is a cycle", func(t *testing.T) {
		// c under a would make c its own ancestor through a -> b -> c.
		cycle, err := WouldCreateCycle(c, &a, lookup)
		require.NoError(t, err)
		assert.True(t, cycle)

		cycle, err = WouldCreateCycle(c, &b, lookup)
		require.NoError(t, err)
		assert.True(t, cycle)
	})

	t.Run("moving under unrelated folder is fine", func(t *testing.T) {
		d := uuid.New()
		parents[d] = nil

		cycle, err := WouldCreateCycle(a, &d, chainLookup(parents))
		require.NoError(t, err)
		assert.False(t, cycle)
	})

	t.Run("missing ancestor ends the walk", func(t *testing.T) {
		orphan := uuid.New()
		cycle, err := WouldCreateCycle(a, &orphan, lookup)
		require.NoError(t, err)
		assert.False(t, cycle)
	})

	t.Run("pre-existing cycle in stored data terminates", func(t *testing.T) {
		x := uuid.New()
		y := uuid.New()
		corrupt := map[uuid.UUID]*uuid.UUID{
			x: &y,
			y: &x,
		}

		cycle, err := WouldCreateCycle(uuid.New(), &x, chainLookup(corrupt))
		require.NoError(t, err)
		assert.False(t, cycle)
	})

	t.Run("lookup errors propagate", func(t *testing.T) {
		boom := errors.New("db down")
		failing := func(uuid.UUID) (*uuid.UUID, bool, error) {
			return nil, false, boom
		}

		_, err := WouldCreateCycle(a, &b, failing)
		assert.ErrorIs(t, err, boom)
	})
}

func TestBuildPath(t *testing.T) {
	f1 := uuid.New()
	f2 := uuid.New()
	f3 := uuid.New()

	folders := map[uuid.UUID]PathEntry{
		f1: {Name: "Folder1", ParentID: nil},
		f2: {Name: "Folder2", ParentID: &f1},
		f3: {Name: "Folder3", ParentID: &f2},
	}

	t.Run("root", func(t *testing.T) {
		assert.Equal(t, "Root", BuildPath(folders, nil))
	})

	t.Run("nested chain", func(t *testing.T) {
		assert.Equal(t, "Folder1 / Folder2 / Folder3", BuildPath(folders, &f3))
		assert.Equal(t, "Folder1 / Folder2", BuildPath(folders, &f2))
		assert.Equal(t, "Folder1", BuildPath(folders, &f1))
	})

	t.Run("missing ancestor degrades instead of failing", func(t *testing.T) {
		ghost := uuid.New()
		broken := map[uuid.UUID]PathEntry{
			f2: {Name: "Folder2", ParentID: &ghost},
		}
		assert.Equal(t, "Incomplete path: Folder2", BuildPath(broken, &f2))
	})

	t.Run("cyclic data degrades instead of hanging", func(t *testing.T) {
		x := uuid.New()
		y := uuid.New()
		corrupt := map[uuid.UUID]PathEntry{
			x: {Name: "X", ParentID: &y},
			y: {Name: "Y", ParentID: &x},
		}
		assert.Equal(t, "Cycle detected: Y / X", BuildPath(corrupt, &x))
	})

	t.Run("deterministic", func(t *testing.T) {
		first := BuildPath(folders, &f3)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, BuildPath(folders, &f3))
		}
	})
}
