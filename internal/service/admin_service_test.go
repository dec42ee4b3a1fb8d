package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
)

func newAdminService(f *fixture) *AdminService {
	return NewAdminService(f.repos, nil, zap.NewNop())
}

func TestDashboardCounts(t *testing.T) {
	f := newFixture(owner, agent, admin)
	svc := newAdminService(f)
	ctx := context.Background()

	first := createTicket(t, f)
	createTicket(t, f)
	_, err := f.service.Assign(ctx, admin, first.ID, agent.ID)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, agent, first.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, int64(1), stats.ByStatus[domain.TicketStatusInProgress])
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(0), stats.Deleted)
}

func TestDashboardExcludesDeleted(t *testing.T) {
	f := newFixture(owner, admin)
	svc := newAdminService(f)
	ctx := context.Background()

	ticket := createTicket(t, f)
	require.NoError(t, f.service.SoftDelete(ctx, admin, ticket.ID))

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Active)
	assert.Equal(t, int64(1), stats.Deleted)
	assert.Zero(t, stats.ByStatus[domain.TicketStatusOpen])
}

func TestUpdateUserRole(t *testing.T) {
	f := newFixture(owner, admin)
	svc := newAdminService(f)
	ctx := context.Background()

	updated, err := svc.UpdateUserRole(ctx, admin, owner.ID, domain.RoleSupportAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupportAgent, updated.Role)

	_, err = svc.UpdateUserRole(ctx, admin, owner.ID, "SUPERUSER")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.UpdateUserRole(ctx, admin, admin.ID, domain.RoleUser)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err), "admins cannot demote themselves")

	_, err = svc.UpdateUserRole(ctx, admin, "missing", domain.RoleUser)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestSetUserActive(t *testing.T) {
	f := newFixture(owner, admin)
	svc := newAdminService(f)
	ctx := context.Background()

	updated, err := svc.SetUserActive(ctx, admin, owner.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = svc.SetUserActive(ctx, admin, admin.ID, false)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err), "admins cannot suspend themselves")
}

func TestStatsForAgent(t *testing.T) {
	f := newFixture(owner, agent, admin)
	svc := newAdminService(f)
	ctx := context.Background()

	first := createTicket(t, f)
	second := createTicket(t, f)
	for _, id := range []string{first.ID, second.ID} {
		_, err := f.service.Assign(ctx, admin, id, agent.ID)
		require.NoError(t, err)
	}
	_, err := f.service.UpdateStatus(ctx, agent, first.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, agent, first.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	stats, err := svc.StatsForAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Assigned)
	assert.Equal(t, int64(1), stats.Resolved)

	_, err = svc.StatsForAgent(ctx, owner.ID)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err), "plain users have no agent stats")
}

func TestListUsersFilter(t *testing.T) {
	f := newFixture(owner, agent, admin)
	svc := newAdminService(f)

	role := domain.RoleSupportAgent
	agents, err := svc.ListUsers(context.Background(), repository.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, agent.ID, agents[0].ID)
}
