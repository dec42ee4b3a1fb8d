package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/events"
)

func newCommentService(f *fixture) *CommentService {
	return NewCommentService(f.repos, &fakeTxManager{repos: f.repos}, f.dispatcher, f.service)
}

func TestCommentAdd(t *testing.T) {
	f := newFixture(owner, agent, admin)
	svc := newCommentService(f)
	ticket := createTicket(t, f)
	ctx := context.Background()

	comment, err := svc.Add(ctx, owner, ticket.ID, "any updates?")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, comment.AuthorID)
	assert.Equal(t, "any updates?", comment.Content)

	records, _ := f.repos.Activity.ListByTicket(ctx, ticket.ID)
	assert.Equal(t, domain.ActivityCommented, records[len(records)-1].Action)

	published := f.dispatcher.published()
	last := published[len(published)-1]
	assert.Equal(t, events.EventCommentAdded, last.Type)
	payload := last.Payload.(events.CommentAddedPayload)
	assert.Equal(t, owner.Email, payload.AuthorEmail)
	assert.Equal(t, "any updates?", payload.Preview)
}

func TestCommentAccessControl(t *testing.T) {
	f := newFixture(owner, stranger)
	svc := newCommentService(f)
	ticket := createTicket(t, f)
	ctx := context.Background()

	_, err := svc.Add(ctx, stranger, ticket.ID, "let me in")
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	_, err = svc.List(ctx, stranger, ticket.ID)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestCommentRequiresContent(t *testing.T) {
	f := newFixture(owner)
	svc := newCommentService(f)
	ticket := createTicket(t, f)

	_, err := svc.Add(context.Background(), owner, ticket.ID, "   ")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestCommentListOrder(t *testing.T) {
	f := newFixture(owner, agent, admin)
	svc := newCommentService(f)
	ticket := createTicket(t, f)
	ctx := context.Background()

	_, err := svc.Add(ctx, owner, ticket.ID, "first")
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner, ticket.ID, "second")
	require.NoError(t, err)

	comments, err := svc.List(ctx, owner, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestCommentPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := preview(long)
	assert.Len(t, got, commentPreviewLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", preview("short"))
}
