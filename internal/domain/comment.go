package domain

import "time"

// TicketComment captures discussion on a ticket.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
