package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository bound to one Querier, so a service can
// hold pool-bound repos for reads and receive tx-bound repos inside WithinTx.
type Repositories struct {
	Tickets     TicketRepository
	Users       UserRepository
	Activity    ActivityRepository
	Comments    CommentRepository
	Attachments AttachmentRepository
}

// NewRepositories binds all repositories to the given Querier.
func NewRepositories(db Querier) Repositories {
	return Repositories{
		Tickets:     NewTicketRepository(db),
		Users:       NewUserRepository(db),
		Activity:    NewActivityRepository(db),
		Comments:    NewCommentRepository(db),
		Attachments: NewAttachmentRepository(db),
	}
}

// TxManager runs a function inside one database transaction. The ticket write
// and its audit append commit or roll back together.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager builds a pgx-backed TxManager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
