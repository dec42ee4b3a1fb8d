package service

import (
	"context"
	"strings"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/events"
	"github.com/devanshjhaa/TicketsManage/internal/policy"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	apperrors "github.com/devanshjhaa/TicketsManage/pkg/util"
)

const commentPreviewLength = 120

// CommentService manages the conversation thread on a ticket.
type CommentService struct {
	repos      repository.Repositories
	tx         repository.TxManager
	dispatcher events.Dispatcher
	tickets    *TicketService
}

// NewCommentService constructs the service.
func NewCommentService(repos repository.Repositories, tx repository.TxManager, dispatcher events.Dispatcher, tickets *TicketService) *CommentService {
	return &CommentService{repos: repos, tx: tx, dispatcher: dispatcher, tickets: tickets}
}

// Add posts a comment on a ticket the requester can access. The comment and
// its audit record commit together; the notification event follows the
// commit.
func (s *CommentService) Add(ctx context.Context, requester *domain.User, ticketID, content string) (*domain.TicketComment, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content is required", nil)
	}

	comment := &domain.TicketComment{
		TicketID: ticketID,
		AuthorID: requester.ID,
		Content:  content,
	}
	var event events.Event

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		ticket, err := repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return mapTicketLoadError(err)
		}
		if !policy.CanAccess(ticket, requester) {
			return apperrors.NewForbidden("access denied")
		}

		if err := repos.Comments.Create(ctx, comment); err != nil {
			return apperrors.MapError(err)
		}
		if err := s.tickets.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityCommented, "Comment added"); err != nil {
			return err
		}

		owner, err := repos.Users.GetByID(ctx, ticket.OwnerID)
		if err != nil {
			return apperrors.MapError(err)
		}
		event = events.Event{
			Type:     events.EventCommentAdded,
			TicketID: ticket.ID,
			ActorID:  requester.ID,
			Payload: events.CommentAddedPayload{
				CommentID:   comment.ID,
				Title:       ticket.Title,
				AuthorEmail: requester.Email,
				OwnerEmail:  owner.Email,
				Preview:     preview(content),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.tickets.publish(ctx, event)
	return comment, nil
}

// List returns the comment thread in chronological order.
func (s *CommentService) List(ctx context.Context, requester *domain.User, ticketID string) ([]domain.TicketComment, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := s.repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLoadError(err)
	}
	if !policy.CanAccess(ticket, requester) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.repos.Comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= commentPreviewLength {
		return content
	}
	return string(runes[:commentPreviewLength]) + "..."
}
