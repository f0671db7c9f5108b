package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLUnitOfWork runs closures inside a database transaction, handing them a
// repository bundle bound to that transaction.
type SQLUnitOfWork struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewUnitOfWork(db *sql.DB, lockTimeout time.Duration) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db, lockTimeout: lockTimeout}
}

func (u *SQLUnitOfWork) Execute(ctx context.Context, fn func(tx Tx) error) error {
	if u.db == nil {
		return errors.New("database not initialized")
	}
	sqlTx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	bundle := &txBundle{tx: sqlTx, lockTimeout: u.lockTimeout}
	if err := fn(bundle); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("tx error: %v (rollback error: %w)", err, rbErr)
		}
		return err
	}
	return sqlTx.Commit()
}

type txBundle struct {
	tx          *sql.Tx
	lockTimeout time.Duration
}

func (b *txBundle) Drafts() DraftRepository     { return NewDraftRepository(b.tx) }
func (b *txBundle) Queue() QueueRepository      { return NewQueueRepository(b.tx) }
func (b *txBundle) Products() ProductRepository { return NewProductRepository(b.tx) }
func (b *txBundle) Addresses() AddressRepository {
	return NewAddressRepository(b.tx)
}
func (b *txBundle) Outbox() OutboxRepository { return NewOutboxRepository(b.tx) }

func (b *txBundle) AcquireOwnerLock(ctx context.Context, ownerID uuid.UUID) error {
	millis := int(b.lockTimeout / time.Millisecond)
	return acquireAdvisoryLock(ctx, b.tx, "owner:"+ownerID.String(), millis)
}
