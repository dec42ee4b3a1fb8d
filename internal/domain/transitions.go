package domain

// statusTransitions is the authoritative lifecycle table. A transition absent
// from the table is invalid; CLOSED has no exits and is therefore absorbing.
var statusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// CanTransition reports whether the general lifecycle table allows moving from
// current to next. Self-transitions are always allowed as no-ops.
func CanTransition(current, next TicketStatus) bool {
	if current == next {
		return true
	}
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CanOwnerTransition reports whether a ticket owner who is neither admin nor
// assignee may request the move. Owners may only reopen a RESOLVED ticket or
// repeat the current status.
func CanOwnerTransition(current, next TicketStatus) bool {
	if current == next {
		return true
	}
	return current == TicketStatusResolved && next == TicketStatusOpen
}

// Terminal reports whether the state has no outgoing transitions.
func (s TicketStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0 && ValidStatus(s)
}
