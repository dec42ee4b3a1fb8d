package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTable(t *testing.T) {
	allowed := map[[2]TicketStatus]bool{
		{TicketStatusOpen, TicketStatusInProgress}:     true,
		{TicketStatusOpen, TicketStatusClosed}:         true,
		{TicketStatusInProgress, TicketStatusResolved}: true,
		{TicketStatusInProgress, TicketStatusClosed}:   true,
		{TicketStatusResolved, TicketStatusClosed}:     true,
	}

	all := []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}
	for _, from := range all {
		for _, to := range all {
			want := from == to || allowed[[2]TicketStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestClosedIsAbsorbing(t *testing.T) {
	for _, to := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved} {
		assert.False(t, CanTransition(TicketStatusClosed, to))
	}
	assert.True(t, CanTransition(TicketStatusClosed, TicketStatusClosed))
	assert.True(t, TicketStatusClosed.Terminal())
	assert.False(t, TicketStatusResolved.Terminal())
}

func TestOwnerRestrictedSubset(t *testing.T) {
	assert.True(t, CanOwnerTransition(TicketStatusResolved, TicketStatusOpen))
	assert.True(t, CanOwnerTransition(TicketStatusOpen, TicketStatusOpen))
	assert.True(t, CanOwnerTransition(TicketStatusInProgress, TicketStatusInProgress))

	// structurally valid in the general table, still rejected for owners
	assert.False(t, CanOwnerTransition(TicketStatusOpen, TicketStatusInProgress))
	assert.False(t, CanOwnerTransition(TicketStatusOpen, TicketStatusClosed))
	assert.False(t, CanOwnerTransition(TicketStatusInProgress, TicketStatusResolved))
	assert.False(t, CanOwnerTransition(TicketStatusResolved, TicketStatusClosed))
	assert.False(t, CanOwnerTransition(TicketStatusClosed, TicketStatusOpen))
}
