// Package access decides whether a viewer may see or act on a memorial
// and which role they hold while doing so.
package access

import (
	"errors"
	"fmt"

	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// Role is the viewer's relationship to a memorial.
type Role string

const (
	RoleCreator       Role = "creator"
	RoleAdministrator Role = "administrator"
	RoleMember        Role = "member"
	RoleVisitor       Role = "visitor"
	RoleNone          Role = "none"
)

// Denial reasons. AuthRequired tells the caller to prompt sign-in;
// Denied tells it to render not-found so the memorial's existence never
// leaks to users who were not invited.
const (
	ReasonAuthRequired = "auth-required"
	ReasonDenied       = "denied"
)

// AnonymousViewer is the viewer id of an unauthenticated visitor.
const AnonymousViewer uint = 0

// Decision is the outcome of an access resolution.
type Decision struct {
	Allowed bool
	Role    Role
	Reason  string
}

// Resolver answers access questions for memorials. It only reads; it is
// safe to call any number of times for the same request.
type Resolver struct {
	memorials   repositories.MemorialRepository
	memberships repositories.MembershipRepository
}

// NewResolver creates a new Resolver
func NewResolver(memorialRepo repositories.MemorialRepository, membershipRepo repositories.MembershipRepository) *Resolver {
	return &Resolver{
		memorials:   memorialRepo,
		memberships: membershipRepo,
	}
}

// Resolve determines whether viewerID may read memorialID and what role
// they hold. viewerID AnonymousViewer (0) means an unauthenticated
// visitor. Returns apperr.ErrNotFound when the memorial does not exist,
// which callers must keep distinct from a denial in their logs even
// though both render as not-found externally.
func (r *Resolver) Resolve(memorialID, viewerID uint) (Decision, error) {
	memorial, err := r.memorials.GetMemorialByID(memorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, fmt.Errorf("memorial %d: %w", memorialID, apperr.ErrNotFound)
		}
		return Decision{}, err
	}
	return r.ResolveFor(memorial, viewerID)
}

// ResolveFor is Resolve for an already-loaded memorial, sparing callers
// that hold the record a second lookup.
func (r *Resolver) ResolveFor(memorial *models.Memorial, viewerID uint) (Decision, error) {
	role := RoleVisitor
	if viewerID != AnonymousViewer {
		if viewerID == memorial.OwnerID {
			role = RoleCreator
		} else {
			membership, err := r.memberships.GetMembership(memorial.ID, viewerID)
			if err != nil {
				return Decision{}, err
			}
			if membership != nil {
				if membership.Role == models.MembershipRoleAdministrator {
					role = RoleAdministrator
				} else {
					role = RoleMember
				}
			}
		}
	}

	if memorial.Privacy != models.PrivacyPrivate {
		return Decision{Allowed: true, Role: role}, nil
	}

	switch role {
	case RoleCreator, RoleAdministrator, RoleMember:
		return Decision{Allowed: true, Role: role}, nil
	}

	if viewerID == AnonymousViewer {
		return Decision{Allowed: false, Role: RoleNone, Reason: ReasonAuthRequired}, nil
	}
	return Decision{Allowed: false, Role: RoleNone, Reason: ReasonDenied}, nil
}
