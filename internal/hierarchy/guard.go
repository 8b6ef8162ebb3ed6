package hierarchy

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RootPath is what BuildPath renders for the tree root (a nil folder id).
const RootPath = "Root"

// ParentLookup resolves a folder's parent pointer. The second return is
// false when the folder does not exist at all.
type ParentLookup func(id uuid.UUID) (parentID *uuid.UUID, found bool, err error)

// PathEntry is the slice of a folder row that path rendering needs.
type PathEntry struct {
	Name     string
	ParentID *uuid.UUID
}

// WouldCreateCycle reports whether reparenting folderID under
// proposedParentID would make the folder its own ancestor. The walk is
// bounded by a visited set so it terminates even when the stored tree
// is already cyclic; stored corruption must never hang a request.
// Callers run this inside the same transaction as the reparent update.
func WouldCreateCycle(folderID uuid.UUID, proposedParentID *uuid.UUID, lookup ParentLookup) (bool, error) {
	if proposedParentID == nil {
		return false, nil
	}
	if *proposedParentID == folderID {
		return true, nil
	}

	visited := map[uuid.UUID]struct{}{}
	current := proposedParentID

	for current != nil {
		if *current == folderID {
			return true, nil
		}
		if _, seen := visited[*current]; seen {
			// Existing cycle above the proposed parent. The reparent
			// itself does not close a loop through folderID, and the
			// walk must not run forever.
			return false, nil
		}
		visited[*current] = struct{}{}

		parentID, found, err := lookup(*current)
		if err != nil {
			return false, fmt.Errorf("failed to walk ancestor chain: %w", err)
		}
		if !found {
			return false, nil
		}
		current = parentID
	}

	return false, nil
}

// BuildPath renders a deterministic human-readable path for a folder,
// walking parent pointers up to the root. It degrades to a marked
// string on cyclic or incomplete data instead of failing the read that
// asked for the path.
func BuildPath(folders map[uuid.UUID]PathEntry, folderID *uuid.UUID) string {
	if folderID == nil {
		return RootPath
	}

	var names []string
	visited := map[uuid.UUID]struct{}{}
	current := folderID

	for current != nil {
		if _, seen := visited[*current]; seen {
			return "Cycle detected: " + joinPath(names)
		}
		visited[*current] = struct{}{}

		entry, ok := folders[*current]
		if !ok {
			return "Incomplete path: " + joinPath(names)
		}

		names = append([]string{entry.Name}, names...)
		current = entry.ParentID
	}

	return joinPath(names)
}

func joinPath(names []string) string {
	return strings.Join(names, " / ")
}
