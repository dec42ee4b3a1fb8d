package service

import (
	"context"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/policy"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	apperrors "github.com/devanshjhaa/TicketsManage/pkg/util"
)

// ActivityService exposes the per-ticket audit timeline. Records are appended
// by the mutating services inside their transactions; this service only reads.
type ActivityService struct {
	repos repository.Repositories
}

// NewActivityService constructs the service.
func NewActivityService(repos repository.Repositories) *ActivityService {
	return &ActivityService{repos: repos}
}

// Timeline returns the full audit trail of a ticket in chronological order.
// Admins can read the timeline of a soft-deleted ticket; everyone else sees
// the same NOT_FOUND a missing ticket would produce.
func (s *ActivityService) Timeline(ctx context.Context, requester *domain.User, ticketID string) ([]domain.ActivityRecord, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := s.repos.Tickets.GetByIDAnyState(ctx, ticketID)
	if err != nil {
		return nil, mapTicketLoadError(err)
	}
	if ticket.Deleted && !policy.CanModerate(requester) {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	if !policy.CanAccess(ticket, requester) {
		return nil, apperrors.NewForbidden("access denied")
	}

	records, err := s.repos.Activity.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}
