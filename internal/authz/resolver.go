package authz

import (
	"github.com/ncls-p/notes-sub001/internal/auth"
	"github.com/ncls-p/notes-sub001/internal/models"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

type ResourceType string

const (
	ResourceNote   ResourceType = "note"
	ResourceFolder ResourceType = "folder"
)

type DenyReason string

const (
	// DenyUnauthenticated means no identity was presented for an action
	// that requires one.
	DenyUnauthenticated DenyReason = "unauthenticated"

	// DenyNotFoundOrForbidden is deliberately the same shape whether the
	// resource is absent or merely inaccessible, so a denial does not
	// reveal that the resource exists.
	DenyNotFoundOrForbidden DenyReason = "not_found_or_forbidden"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Resource carries the only attributes authorization needs from a note
// or folder row. A nil Resource means the row was not found; the
// decision for it is indistinguishable from plain lack of access.
type Resource struct {
	OwnerID  string
	IsPublic bool
}

// Grant carries the access level of an explicit permission grant, or is
// nil when no grant exists for (user, resource).
type Grant struct {
	AccessLevel models.AccessLevel
}

// Authorize is a pure decision function over supplied facts; the caller
// fetches the resource row and any grant row. Rules short-circuit in
// order: public read, unauthenticated, ownership, explicit grant,
// uniform denial. Grants never satisfy delete or manage; those remain
// owner-only.
func Authorize(identity *auth.Identity, action Action, resource *Resource, grant *Grant) Decision {
	if action == ActionRead && resource != nil && resource.IsPublic {
		return Allow()
	}

	if identity == nil {
		return Deny(DenyUnauthenticated)
	}

	if resource != nil && resource.OwnerID == identity.UserID.String() {
		return Allow()
	}

	if grant != nil {
		switch action {
		case ActionRead:
			if grant.AccessLevel == models.View || grant.AccessLevel == models.Edit {
				return Allow()
			}
		case ActionUpdate:
			if grant.AccessLevel == models.Edit {
				return Allow()
			}
		case ActionDelete, ActionManage:
			// owner-only, handled above
		}
	}

	return Deny(DenyNotFoundOrForbidden)
}
