package repository

import (
	"context"

	"github.com/devanshjhaa/TicketsManage/internal/domain"
)

// ActivityRepository stores audit entries. Append-only: no update or delete
// is exposed, and the timeline reads back in ascending creation order.
type ActivityRepository interface {
	Append(ctx context.Context, record *domain.ActivityRecord) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityRecord, error)
}

type activityRepository struct {
	db Querier
}

// NewActivityRepository builds repository.
func NewActivityRepository(db Querier) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, record *domain.ActivityRecord) error {
	const query = `
        INSERT INTO ticket_activity (ticket_id, actor_id, action, details)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		record.TicketID,
		record.ActorID,
		record.Action,
		record.Details,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *activityRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityRecord, error) {
	const query = `
        SELECT id, ticket_id, actor_id, action, details, created_at
        FROM ticket_activity WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityRecord
	for rows.Next() {
		var record domain.ActivityRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.ActorID,
			&record.Action,
			&record.Details,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
