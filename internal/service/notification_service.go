package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/devanshjhaa/TicketsManage/internal/events"
	"github.com/devanshjhaa/TicketsManage/internal/notify"
)

// NotificationService turns lifecycle events into outbound email. It runs on
// the dispatcher's goroutine; send failures are logged and never retried.
type NotificationService struct {
	sender      notify.EmailSender
	frontendURL string
	logger      *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(sender notify.EmailSender, frontendURL string, logger *zap.Logger) *NotificationService {
	return &NotificationService{sender: sender, frontendURL: frontendURL, logger: logger}
}

// RegisterHandlers subscribes all notification handlers on the dispatcher.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.onTicketCreated)
	dispatcher.Subscribe(events.EventTicketAssigned, s.onTicketAssigned)
	dispatcher.Subscribe(events.EventTicketStatusChanged, s.onStatusChanged)
	dispatcher.Subscribe(events.EventCommentAdded, s.onCommentAdded)
	dispatcher.Subscribe(events.EventAttachmentUploaded, s.onAttachmentUploaded)
}

func (s *NotificationService) onTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}

	subject := "Ticket received: " + payload.Title
	html := fmt.Sprintf(
		`<p>Your ticket <strong>%s</strong> has been created with priority %s.</p>
<p>We will get back to you as soon as possible.</p>
<p><a href="%s">View your ticket</a></p>`,
		payload.Title, payload.Priority, s.ticketURL(event.TicketID))
	return s.sender.Send(ctx, payload.OwnerEmail, subject, html)
}

func (s *NotificationService) onTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}

	subject := "Ticket assigned to you: " + payload.Title
	html := fmt.Sprintf(
		`<p>The ticket <strong>%s</strong> has been assigned to you.</p>
<p><a href="%s">Open the ticket</a></p>`,
		payload.Title, s.ticketURL(event.TicketID))
	return s.sender.Send(ctx, payload.AssigneeEmail, subject, html)
}

func (s *NotificationService) onStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}

	subject := fmt.Sprintf("Ticket update: %s is now %s", payload.Title, payload.NewStatus)
	html := fmt.Sprintf(
		`<p>Your ticket <strong>%s</strong> moved from %s to <strong>%s</strong>.</p>
<p><a href="%s">View the ticket</a></p>`,
		payload.Title, payload.OldStatus, payload.NewStatus, s.ticketURL(event.TicketID))
	return s.sender.Send(ctx, payload.OwnerEmail, subject, html)
}

func (s *NotificationService) onCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}
	// The owner commenting on their own ticket would only notify themselves.
	if payload.AuthorEmail == payload.OwnerEmail {
		return nil
	}

	subject := "New comment on: " + payload.Title
	html := fmt.Sprintf(
		`<p>%s commented on your ticket <strong>%s</strong>:</p>
<blockquote>%s</blockquote>
<p><a href="%s">Reply</a></p>`,
		payload.AuthorEmail, payload.Title, payload.Preview, s.ticketURL(event.TicketID))
	return s.sender.Send(ctx, payload.OwnerEmail, subject, html)
}

func (s *NotificationService) onAttachmentUploaded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AttachmentUploadedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}

	subject := "File attached to: " + payload.Title
	html := fmt.Sprintf(
		`<p>The file <strong>%s</strong> was attached to your ticket <strong>%s</strong>.</p>
<p><a href="%s">View the ticket</a></p>`,
		payload.FileName, payload.Title, s.ticketURL(event.TicketID))
	return s.sender.Send(ctx, payload.OwnerEmail, subject, html)
}

func (s *NotificationService) ticketURL(ticketID string) string {
	return fmt.Sprintf("%s/tickets/%s", s.frontendURL, ticketID)
}
