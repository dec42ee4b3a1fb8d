package domain

import "time"

// Attachment stores metadata for a file attached to a ticket. The blob itself
// lives in the storage backend under StorageKey.
type Attachment struct {
	ID          string
	TicketID    string
	UploadedBy  string
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	Deleted     bool
	CreatedAt   time.Time
}
