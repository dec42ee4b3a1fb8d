package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
)

func TestTimelineChronology(t *testing.T) {
	f := newFixture(owner, agent, admin)
	svc := NewActivityService(f.repos)
	ticket := createTicket(t, f)
	ctx := context.Background()

	_, err := f.service.Assign(ctx, admin, ticket.ID, agent.ID)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, agent, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	records, err := svc.Timeline(ctx, owner, ticket.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, domain.ActivityCreated, records[0].Action)
	assert.Equal(t, domain.ActivityAssigned, records[1].Action)
	assert.Equal(t, domain.ActivityStatusChanged, records[2].Action)
}

func TestTimelineAccessControl(t *testing.T) {
	f := newFixture(owner, stranger)
	svc := NewActivityService(f.repos)
	ticket := createTicket(t, f)

	_, err := svc.Timeline(context.Background(), stranger, ticket.ID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestTimelineOfDeletedTicket(t *testing.T) {
	f := newFixture(owner, admin)
	svc := NewActivityService(f.repos)
	ticket := createTicket(t, f)
	ctx := context.Background()

	require.NoError(t, f.service.SoftDelete(ctx, admin, ticket.ID))

	// The owner gets the same answer a missing ticket would give.
	_, err := svc.Timeline(ctx, owner, ticket.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	// Admins can still audit it, including the deletion itself.
	records, err := svc.Timeline(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivitySoftDeleted, records[len(records)-1].Action)
}

func TestTimelineUnknownTicket(t *testing.T) {
	f := newFixture(owner)
	svc := NewActivityService(f.repos)

	_, err := svc.Timeline(context.Background(), owner, "missing")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
