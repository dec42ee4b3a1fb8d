// Package policy holds the pure authorization rules gating ticket operations.
// Every function is a side-effect-free predicate over a ticket and the
// requesting user; callers translate a false result into a FORBIDDEN error.
package policy

import "github.com/devanshjhaa/TicketsManage/internal/domain"

// CanAccess reports whether the user may read the ticket and its comments,
// attachments and timeline: admins, the owner, or the current assignee.
func CanAccess(ticket *domain.Ticket, user *domain.User) bool {
	if ticket == nil || user == nil {
		return false
	}
	if user.Role == domain.RoleAdmin {
		return true
	}
	if ticket.OwnerID == user.ID {
		return true
	}
	return ticket.IsAssignee(user.ID)
}

// CanAssign reports whether the user may assign tickets.
func CanAssign(user *domain.User) bool {
	if user == nil {
		return false
	}
	return user.Role == domain.RoleAdmin || user.Role == domain.RoleSupportAgent
}

// Assignable reports whether the user may be set as a ticket assignee.
// Plain USER accounts cannot hold tickets.
func Assignable(user *domain.User) bool {
	if user == nil {
		return false
	}
	return user.Role == domain.RoleAdmin || user.Role == domain.RoleSupportAgent
}

// CanRequestStatus reports whether the user may request a status transition at
// all; whether the requested transition is legal is the state machine's call.
func CanRequestStatus(ticket *domain.Ticket, user *domain.User) bool {
	return CanAccess(ticket, user)
}

// OwnerRestricted reports whether the requester falls under the narrow
// owner-only transition subset: the owner, unless they are also admin or the
// current assignee.
func OwnerRestricted(ticket *domain.Ticket, user *domain.User) bool {
	if ticket == nil || user == nil {
		return false
	}
	if user.Role == domain.RoleAdmin || ticket.IsAssignee(user.ID) {
		return false
	}
	return ticket.OwnerID == user.ID
}

// CanRate reports whether the user may rate the ticket's resolution.
func CanRate(ticket *domain.Ticket, user *domain.User) bool {
	if ticket == nil || user == nil {
		return false
	}
	return ticket.OwnerID == user.ID
}

// CanModerate reports whether the user may soft-delete or restore tickets and
// use the admin surfaces.
func CanModerate(user *domain.User) bool {
	return user != nil && user.Role == domain.RoleAdmin
}
