package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
)

func user(id string, role domain.UserRole) *domain.User {
	return &domain.User{ID: id, Role: role, Active: true}
}

func ticket(ownerID string, assigneeID *string) *domain.Ticket {
	return &domain.Ticket{ID: "t1", OwnerID: ownerID, AssigneeID: assigneeID, Status: domain.TicketStatusOpen}
}

func TestCanAccess(t *testing.T) {
	agentID := "agent-1"
	tk := ticket("owner-1", &agentID)

	assert.True(t, CanAccess(tk, user("owner-1", domain.RoleUser)))
	assert.True(t, CanAccess(tk, user(agentID, domain.RoleSupportAgent)))
	assert.True(t, CanAccess(tk, user("admin-1", domain.RoleAdmin)))
	assert.False(t, CanAccess(tk, user("stranger", domain.RoleUser)))
	assert.False(t, CanAccess(tk, user("other-agent", domain.RoleSupportAgent)))
}

func TestCanAccessUnassignedTicket(t *testing.T) {
	tk := ticket("owner-1", nil)

	assert.True(t, CanAccess(tk, user("owner-1", domain.RoleUser)))
	assert.True(t, CanAccess(tk, user("admin-1", domain.RoleAdmin)))
	assert.False(t, CanAccess(tk, user("agent-1", domain.RoleSupportAgent)))
}

func TestCanAccessNilInputs(t *testing.T) {
	assert.False(t, CanAccess(nil, user("u", domain.RoleAdmin)))
	assert.False(t, CanAccess(ticket("o", nil), nil))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(user("a", domain.RoleAdmin)))
	assert.True(t, CanAssign(user("b", domain.RoleSupportAgent)))
	assert.False(t, CanAssign(user("c", domain.RoleUser)))
	assert.False(t, CanAssign(nil))
}

func TestAssignable(t *testing.T) {
	assert.True(t, Assignable(user("a", domain.RoleSupportAgent)))
	assert.True(t, Assignable(user("b", domain.RoleAdmin)))
	assert.False(t, Assignable(user("c", domain.RoleUser)))
}

func TestOwnerRestricted(t *testing.T) {
	agentID := "agent-1"
	tk := ticket("owner-1", &agentID)

	assert.True(t, OwnerRestricted(tk, user("owner-1", domain.RoleUser)))
	assert.False(t, OwnerRestricted(tk, user("owner-1", domain.RoleAdmin)))
	assert.False(t, OwnerRestricted(tk, user(agentID, domain.RoleSupportAgent)))
	assert.False(t, OwnerRestricted(tk, user("stranger", domain.RoleUser)))

	// owner who is also the assignee follows the general table
	selfAssigned := ticket("owner-1", strPtr("owner-1"))
	assert.False(t, OwnerRestricted(selfAssigned, user("owner-1", domain.RoleUser)))
}

func TestCanRate(t *testing.T) {
	tk := ticket("owner-1", nil)

	assert.True(t, CanRate(tk, user("owner-1", domain.RoleUser)))
	assert.False(t, CanRate(tk, user("admin-1", domain.RoleAdmin)))
	assert.False(t, CanRate(tk, user("stranger", domain.RoleUser)))
}

func TestCanModerate(t *testing.T) {
	assert.True(t, CanModerate(user("a", domain.RoleAdmin)))
	assert.False(t, CanModerate(user("b", domain.RoleSupportAgent)))
	assert.False(t, CanModerate(user("c", domain.RoleUser)))
	assert.False(t, CanModerate(nil))
}

func strPtr(s string) *string { return &s }
