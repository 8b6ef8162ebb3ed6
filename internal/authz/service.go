package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/models"
	"github.com/ncls-p/notes-sub001/internal/repositories"
)

// GrantSource looks up explicit permission grants. Implementations
// return repositories.ErrNotFound when no grant exists.
type GrantSource interface {
	FolderGrant(ctx context.Context, folderID, userID uuid.UUID) (*models.FolderShare, error)
	NoteGrant(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteShare, error)
}

// Service wraps the pure resolver with the single blocking read it may
// need: the permission-grant lookup. The grant is fetched only when the
// public-read, unauthenticated and ownership rules did not already
// settle the decision.
type Service struct {
	grants GrantSource
}

func NewService(grants GrantSource) *Service {
	return &Service{grants: grants}
}

// AuthorizeFolder decides the action against a folder row the caller
// already fetched. folder may be nil for a missing row.
func (s *Service) AuthorizeFolder(ctx context.Context, identity *auth.Identity, action Action, folder *models.Folder) (Decision, error) {
	var resource *Resource
	if folder != nil {
		resource = &Resource{OwnerID: folder.OwnerID.String(), IsPublic: folder.IsPublic}
	}

	if decision := Authorize(identity, action, resource, nil); decision.Allowed {
		return decision, nil
	}

	if identity == nil || folder == nil || !grantCanMatter(action) {
		return Authorize(identity, action, resource, nil), nil
	}

	share, err := s.grants.FolderGrant(ctx, folder.ID, identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Authorize(identity, action, resource, nil), nil
		}
		return Deny(DenyNotFoundOrForbidden), fmt.Errorf("failed to look up folder grant: %w", err)
	}

	return Authorize(identity, action, resource, &Grant{AccessLevel: share.AccessLevel}), nil
}

// AuthorizeNote decides the action against a note row the caller
// already fetched. note may be nil for a missing row.
func (s *Service) AuthorizeNote(ctx context.Context, identity *auth.Identity, action Action, note *models.Note) (Decision, error) {
	var resource *Resource
	if note != nil {
		resource = &Resource{OwnerID: note.OwnerID.String(), IsPublic: note.IsPublic}
	}

	if decision := Authorize(identity, action, resource, nil); decision.Allowed {
		return decision, nil
	}

	if identity == nil || note == nil || !grantCanMatter(action) {
		return Authorize(identity, action, resource, nil), nil
	}

	share, err := s.grants.NoteGrant(ctx, note.ID, identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Authorize(identity, action, resource, nil), nil
		}
		return Deny(DenyNotFoundOrForbidden), fmt.Errorf("failed to look up note grant: %w", err)
	}

	return Authorize(identity, action, resource, &Grant{AccessLevel: share.AccessLevel}), nil
}

// grantCanMatter reports whether a permission grant could change the
// outcome. Delete and manage are owner-only, so the lookup is skipped.
func grantCanMatter(action Action) bool {
	return action == ActionRead || action == ActionUpdate
}
