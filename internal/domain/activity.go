package domain

import "time"

// ActivityAction identifies the mutation an audit entry records.
type ActivityAction string

const (
	ActivityCreated         ActivityAction = "CREATED"
	ActivityStatusChanged   ActivityAction = "STATUS_CHANGED"
	ActivityAssigned        ActivityAction = "ASSIGNED"
	ActivityRated           ActivityAction = "RATED"
	ActivitySoftDeleted     ActivityAction = "SOFT_DELETED"
	ActivityRestored        ActivityAction = "RESTORED"
	ActivityCommented       ActivityAction = "COMMENTED"
	ActivityAttachmentAdded ActivityAction = "ATTACHMENT_ADDED"
)

// ActivityRecord is an immutable audit entry. Records are append-only and read
// back in ascending creation order to reconstruct a ticket's timeline.
type ActivityRecord struct {
	ID        string
	TicketID  string
	ActorID   string
	Action    ActivityAction
	Details   string
	CreatedAt time.Time
}
