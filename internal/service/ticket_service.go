package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
	"github.com/devanshjhaa/TicketsManage/internal/events"
	"github.com/devanshjhaa/TicketsManage/internal/policy"
	"github.com/devanshjhaa/TicketsManage/internal/repository"
	apperrors "github.com/devanshjhaa/TicketsManage/pkg/util"
)

// TicketService orchestrates the ticket lifecycle: every mutation is gated by
// the authorization policy, validated by the status transition table, applied
// together with its audit record in one transaction, and followed by a
// post-commit lifecycle event.
type TicketService struct {
	repos      repository.Repositories
	tx         repository.TxManager
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Repos      repository.Repositories
	Tx         repository.TxManager
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		repos:      deps.Repos,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketSearchQuery describes list/search parameters. Explicit filters compose
// conjunctively on top of the role-scoped default visibility.
type TicketSearchQuery struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Mine     bool
	Assigned bool
	Search   *string
	Limit    int
	Offset   int
}

// Create files a new ticket owned by the requester.
func (s *TicketService) Create(ctx context.Context, requester *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		OwnerID:     requester.ID,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		return s.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityCreated, "Ticket created")
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  requester.ID,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			OwnerEmail: requester.Email,
			Status:     ticket.Status,
			Priority:   ticket.Priority,
		},
	})
	return ticket, nil
}

// Assign sets the ticket's assignee. Only admins and support agents may
// assign, and the assignee must itself be a support agent or admin.
func (s *TicketService) Assign(ctx context.Context, requester *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !policy.CanAssign(requester) {
		return nil, apperrors.NewForbidden("only admins and support agents can assign tickets")
	}

	var ticket *domain.Ticket
	var event events.Event

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return mapTicketLoadError(err)
		}

		assignee, err := repos.Users.GetByID(ctx, assigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
			}
			return apperrors.MapError(err)
		}
		if !policy.Assignable(assignee) {
			return apperrors.NewValidationError("assignee must be a support agent or admin", map[string]any{"user_id": assigneeID})
		}
		if !assignee.Active {
			return apperrors.NewConflict("assignee inactive", map[string]any{"user_id": assigneeID})
		}

		owner, err := repos.Users.GetByID(ctx, ticket.OwnerID)
		if err != nil {
			return apperrors.MapError(err)
		}

		ticket.AssigneeID = &assignee.ID
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return mapTicketWriteError(err)
		}
		if err := s.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityAssigned, "Assigned to "+assignee.Email); err != nil {
			return err
		}

		event = events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  requester.ID,
			Payload: events.TicketAssignedPayload{
				Title:         ticket.Title,
				AssigneeID:    assignee.ID,
				AssigneeEmail: assignee.Email,
				OwnerEmail:    owner.Email,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event)
	return ticket, nil
}

// UpdateStatus applies a status transition. Owners who are neither admin nor
// assignee are held to the owner-restricted subset; everyone else follows the
// general table. A self-transition is a no-op success.
func (s *TicketService) UpdateStatus(ctx context.Context, requester *domain.User, ticketID string, next domain.TicketStatus) (*domain.Ticket, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !domain.ValidStatus(next) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": next})
	}

	var ticket *domain.Ticket
	var event events.Event
	var noop bool

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return mapTicketLoadError(err)
		}
		if !policy.CanRequestStatus(ticket, requester) {
			return apperrors.NewForbidden("only admin, assigned agent, or ticket owner can update status")
		}

		if ticket.Status == next {
			noop = true
			return nil
		}

		if policy.OwnerRestricted(ticket, requester) {
			if !domain.CanOwnerTransition(ticket.Status, next) {
				return apperrors.NewInvalidTransition("invalid status transition for ticket owner",
					transitionDetails(ticket.Status, next))
			}
		} else if !domain.CanTransition(ticket.Status, next) {
			return apperrors.NewInvalidTransition("invalid status transition",
				transitionDetails(ticket.Status, next))
		}

		oldStatus := ticket.Status
		ticket.Status = next
		if next == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
			now := time.Now()
			ticket.ResolvedAt = &now
		}

		owner, err := repos.Users.GetByID(ctx, ticket.OwnerID)
		if err != nil {
			return apperrors.MapError(err)
		}

		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return mapTicketWriteError(err)
		}
		if err := s.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityStatusChanged, "Changed to "+string(next)); err != nil {
			return err
		}

		event = events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  requester.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus:  oldStatus,
				NewStatus:  next,
				Title:      ticket.Title,
				OwnerEmail: owner.Email,
				Priority:   ticket.Priority,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		s.publish(ctx, event)
	}
	return ticket, nil
}

// Rate records the owner's rating of a resolved ticket and closes it. A
// ticket can be rated exactly once.
func (s *TicketService) Rate(ctx context.Context, requester *domain.User, ticketID string, rating int, comment string) (*domain.Ticket, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	var ticket *domain.Ticket

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return mapTicketLoadError(err)
		}
		if !policy.CanRate(ticket, requester) {
			return apperrors.NewForbidden("only ticket owner can rate")
		}
		if ticket.Status != domain.TicketStatusResolved {
			return apperrors.NewValidationError("ticket must be RESOLVED before rating", nil)
		}
		if ticket.Rating != nil {
			return apperrors.NewValidationError("ticket already rated", nil)
		}

		ticket.Rating = &rating
		if trimmed := strings.TrimSpace(comment); trimmed != "" {
			ticket.RatingComment = &trimmed
		}
		ticket.Status = domain.TicketStatusClosed

		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return mapTicketWriteError(err)
		}
		return s.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityRated, fmt.Sprintf("Rating: %d", rating))
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// SoftDelete hides a ticket from every default read path. Admin only, and
// reversible via Restore.
func (s *TicketService) SoftDelete(ctx context.Context, requester *domain.User, ticketID string) error {
	if requester == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !policy.CanModerate(requester) {
		return apperrors.NewForbidden("only admins can delete tickets")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		ticket, err := repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return mapTicketLoadError(err)
		}
		ticket.Deleted = true
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return mapTicketWriteError(err)
		}
		return s.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivitySoftDeleted, "Ticket deleted")
	})
}

// Restore clears the deleted flag. Restoring a live ticket is a no-op.
func (s *TicketService) Restore(ctx context.Context, requester *domain.User, ticketID string) (*domain.Ticket, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !policy.CanModerate(requester) {
		return nil, apperrors.NewForbidden("only admins can restore tickets")
	}

	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		ticket, err = repos.Tickets.GetByIDAnyState(ctx, ticketID)
		if err != nil {
			return mapTicketLoadError(err)
		}
		if !ticket.Deleted {
			return nil
		}
		ticket.Deleted = false
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return mapTicketWriteError(err)
		}
		return s.appendActivity(ctx, repos, ticket.ID, requester.ID, domain.ActivityRestored, "Ticket restored")
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Get fetches one ticket, enforcing read access. Soft-deleted tickets are
// indistinguishable from missing ones.
func (s *TicketService) Get(ctx context.Context, requester *domain.User, ticketID string) (*domain.Ticket, error) {
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
	return ticket, nil
}

// Search lists tickets under role-scoped default visibility: users see their
// own, agents see their assigned, admins see all. Explicit filters narrow
// further.
func (s *TicketService) Search(ctx context.Context, requester *domain.User, query TicketSearchQuery) ([]domain.Ticket, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	filter := repository.TicketFilter{
		SearchTerm: query.Search,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if query.Status != nil {
		filter.Statuses = []domain.TicketStatus{*query.Status}
	}
	if query.Priority != nil {
		filter.Priorities = []domain.TicketPriority{*query.Priority}
	}

	if query.Mine {
		filter.OwnerID = &requester.ID
	}
	if query.Assigned {
		filter.AssigneeID = &requester.ID
	}
	if !query.Mine && !query.Assigned {
		switch requester.Role {
		case domain.RoleUser:
			filter.OwnerID = &requester.ID
		case domain.RoleSupportAgent:
			filter.AssigneeID = &requester.ID
		case domain.RoleAdmin:
			// unrestricted
		}
	}

	tickets, err := s.repos.Tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) appendActivity(ctx context.Context, repos repository.Repositories, ticketID, actorID string, action domain.ActivityAction, details string) error {
	record := &domain.ActivityRecord{
		TicketID: ticketID,
		ActorID:  actorID,
		Action:   action,
		Details:  details,
	}
	if err := repos.Activity.Append(ctx, record); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func transitionDetails(from, to domain.TicketStatus) map[string]any {
	return map[string]any{"from": from, "to": to}
}

func mapTicketLoadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return apperrors.MapError(err)
}

func mapTicketWriteError(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return apperrors.NewConflict("ticket was modified concurrently", nil)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return apperrors.MapError(err)
}
