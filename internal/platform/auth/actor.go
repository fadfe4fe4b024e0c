package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role names carried in token claims. Roles are a flat set per actor; there
// is no hierarchy beyond admin implying everything in RequireRole.
const (
	RoleAdmin           = "admin"
	RoleManager         = "manager"
	RoleDoctor          = "doctor"
	RoleNurse           = "nurse"
	RolePatient         = "patient"
	RoleAdmissionsClerk = "admissions-clerk"
)

// Actor is the authenticated caller issuing a request. Ledger operations take
// it as an explicit parameter rather than reading ambient request state.
type Actor struct {
	ID    uuid.UUID
	Roles []string
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the actor holds at least one of the given roles.
func (a Actor) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if a.HasRole(r) {
			return true
		}
	}
	return false
}

// IsStaffSupervisor reports whether the actor may see every record regardless
// of ownership (admin and manager).
func (a Actor) IsStaffSupervisor() bool {
	return a.HasAnyRole(RoleAdmin, RoleManager)
}

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
)

// ContextWithActor stores the actor's identity and roles on the context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, actor.ID.String())
	return context.WithValue(ctx, UserRolesKey, actor.Roles)
}

// ActorFromContext reconstructs the actor set by the auth middleware. The
// zero Actor (nil ID, no roles) is returned for unauthenticated contexts.
func ActorFromContext(ctx context.Context) Actor {
	var actor Actor
	if id, err := uuid.Parse(UserIDFromContext(ctx)); err == nil {
		actor.ID = id
	}
	actor.Roles = RolesFromContext(ctx)
	return actor
}

// UserIDFromContext retrieves the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// RolesFromContext retrieves the authenticated user's roles, or nil.
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}
