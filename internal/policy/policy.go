// Package policy is the single place where role and ownership rules are
// decided. Route middleware asks it about roles; the job service asks it
// about ownership before any state-changing operation.
package policy

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// OwnerFunc reports whether actor owns job.
type OwnerFunc func(actor Actor, job *models.Job) bool

// Rule grants access to the listed roles, optionally narrowed by an ownership predicate.
type Rule struct {
	Roles []models.Role
	Owner OwnerFunc
}

var (
	ClientOnly = Rule{Roles: []models.Role{models.RoleClient}}
	WorkerOnly = Rule{Roles: []models.Role{models.RoleWorker}}
	AnyRole    = Rule{Roles: []models.Role{models.RoleClient, models.RoleWorker}}

	// JobOwner lets only the client who posted the job act on it.
	JobOwner = Rule{
		Roles: []models.Role{models.RoleClient},
		Owner: func(actor Actor, job *models.Job) bool { return job.ClientID == actor.ID },
	}
)

func (r Rule) AllowsRole(role models.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Check returns a Forbidden AppError when actor may not act under r.
// job may be nil for rules without an ownership predicate.
func Check(actor Actor, r Rule, job *models.Job) error {
	if !r.AllowsRole(actor.Role) {
		return apperrors.Forbidden("forbidden: insufficient role")
	}
	if r.Owner != nil && (job == nil || !r.Owner(actor, job)) {
		return apperrors.Forbidden("Not authorized")
	}
	return nil
}

// Roles builds a role-only rule.
func Roles(roles ...models.Role) Rule {
	return Rule{Roles: roles}
}
