// Package authz centralizes every permission rule of the console into a
// single pure decision function over (actor role, target role, operation).
// Handlers and services hold no inline role comparisons; they build a
// Request and ask Decide.
package authz

import "admin-console/internal/domain"

// Operation enumerates the account-management actions subject to
// authorization.
type Operation string

const (
	// OpAssignRole covers assigning a role at registration time.
	OpAssignRole Operation = "assign-role"
	// OpList covers listing all accounts.
	OpList Operation = "list-accounts"
	// OpView covers reading a profile.
	OpView Operation = "view-profile"
	// OpUpdate covers modifying a profile's fields (role changes are
	// evaluated separately under OpChangeRole).
	OpUpdate Operation = "update-profile"
	// OpChangeRole covers changing an account's role.
	OpChangeRole Operation = "change-role"
	// OpDelete covers deleting an account.
	OpDelete Operation = "delete-account"
	// OpReveal covers revealing a stored credential.
	OpReveal Operation = "reveal-credential"
)

// Request describes one access request. Target is the role of the account
// being acted on; it is unset for collection-level operations and for
// registration. Self is true when the actor and target are the same
// principal; self-referential requests are evaluated under the own-profile
// rules before any role-pair rule. AssignRole carries the role being granted
// for OpAssignRole and OpChangeRole.
type Request struct {
	Actor      domain.Role
	Target     domain.Role
	Self       bool
	Op         Operation
	AssignRole domain.Role
}

// Decision is the outcome of evaluating a Request. Every denial carries a
// human-readable reason for the caller to surface.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a rejecting decision with the given reason.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into an AccessDeniedError; allowed decisions yield
// nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.ErrAccessDenied("%s", d.Reason)
}

// Decide evaluates a request against the role matrix. It is total and
// deterministic: every (role, role, operation) triple yields exactly Allow
// or Deny. Deletion of the actor's own account is the one self-referential
// case not handled here: it depends on identity equality, not role, and is
// guarded by the orchestrator.
func Decide(req Request) Decision {
	switch req.Op {
	case OpAssignRole:
		return decideAssignRole(req.Actor, req.AssignRole)
	case OpList:
		if req.Actor.AtLeast(domain.RoleAdmin) {
			return Allow()
		}
		return Deny("role '" + string(req.Actor) + "' is not authorized to list accounts")
	case OpView, OpUpdate:
		return decideModify(req)
	case OpChangeRole:
		return decideChangeRole(req.Actor, req.AssignRole)
	case OpDelete:
		if req.Actor == domain.RoleSuperAdmin {
			return Allow()
		}
		return Deny("only SuperAdmin can delete accounts")
	case OpReveal:
		return decideReveal(req)
	default:
		return Deny("unknown operation")
	}
}

func decideAssignRole(actor, assign domain.Role) Decision {
	switch assign {
	case domain.RoleUser:
		return Allow()
	case domain.RoleAdmin:
		if actor.AtLeast(domain.RoleAdmin) {
			return Allow()
		}
		return Deny("only Admin and SuperAdmin can create Admin accounts")
	case domain.RoleSuperAdmin:
		if actor == domain.RoleSuperAdmin {
			return Allow()
		}
		return Deny("Admin cannot create SuperAdmin accounts")
	default:
		return Deny("unknown role '" + string(assign) + "'")
	}
}

// decideModify covers viewing and updating profiles. Own-profile access is
// always permitted; acting on another account follows the role-pair rules.
func decideModify(req Request) Decision {
	if req.Self {
		return Allow()
	}
	switch req.Actor {
	case domain.RoleSuperAdmin:
		return Allow()
	case domain.RoleAdmin:
		switch req.Target {
		case domain.RoleUser:
			return Allow()
		case domain.RoleAdmin:
			return Deny("Admin can only modify User accounts")
		default:
			return Deny("Admin cannot modify SuperAdmin accounts")
		}
	default:
		return Deny("you can only access your own profile")
	}
}

func decideChangeRole(actor, assign domain.Role) Decision {
	if !actor.AtLeast(domain.RoleAdmin) {
		return Deny("only Admin and SuperAdmin can change user roles")
	}
	if assign == domain.RoleSuperAdmin && actor != domain.RoleSuperAdmin {
		return Deny("Admin cannot assign SuperAdmin role")
	}
	return Allow()
}

func decideReveal(req Request) Decision {
	if req.Self {
		return Allow()
	}
	if req.Actor == domain.RoleSuperAdmin {
		return Allow()
	}
	if req.Actor == domain.RoleAdmin && req.Target == domain.RoleUser {
		return Allow()
	}
	return Deny("you do not have permission to view this credential")
}
