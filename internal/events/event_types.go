package events

import (
	"time"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventCommentAdded        EventType = "comment_added"
	EventAttachmentUploaded  EventType = "attachment_uploaded"
)

// Event represents a lifecycle fact emitted after a committed operation.
// Payloads carry the snapshot taken at mutation time; consumers must not
// re-read ticket state that may have moved on since.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title      string                `json:"title"`
	OwnerEmail string                `json:"owner_email"`
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Title         string `json:"title"`
	AssigneeID    string `json:"assignee_id"`
	AssigneeEmail string `json:"assignee_email"`
	OwnerEmail    string `json:"owner_email"`
}

// TicketStatusChangedPayload payload. Title, owner email and priority are
// snapshotted at change time.
type TicketStatusChangedPayload struct {
	OldStatus  domain.TicketStatus   `json:"old_status"`
	NewStatus  domain.TicketStatus   `json:"new_status"`
	Title      string                `json:"title"`
	OwnerEmail string                `json:"owner_email"`
	Priority   domain.TicketPriority `json:"priority"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	Title       string `json:"title"`
	AuthorEmail string `json:"author_email"`
	OwnerEmail  string `json:"owner_email"`
	Preview     string `json:"preview"`
}

// AttachmentUploadedPayload payload.
type AttachmentUploadedPayload struct {
	AttachmentID string `json:"attachment_id"`
	Title        string `json:"title"`
	FileName     string `json:"file_name"`
	OwnerEmail   string `json:"owner_email"`
}
