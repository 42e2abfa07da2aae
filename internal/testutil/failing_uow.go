package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/alexanderramin/tempo/internal/db"
)

// FailOnNthExecUoW runs each transaction on DB and makes the FailOn-th write
// inside it return Err, so a multi-write use case can be cut off between two
// statements. Writes are counted per transaction starting at 1; reads pass
// through. After a run, Statements holds the writes attempted in the last
// transaction, including the failing one.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	mu         sync.Mutex
	Statements []string
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	w := &writeCutter{DBTX: tx, owner: u}
	u.mu.Lock()
	u.Statements = nil
	u.mu.Unlock()

	if err := fn(ctx, w); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (u *FailOnNthExecUoW) record(query string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Statements = append(u.Statements, query)
	return len(u.Statements)
}

type writeCutter struct {
	db.DBTX
	owner *FailOnNthExecUoW
}

func (w *writeCutter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if n := w.owner.record(query); n == w.owner.FailOn {
		return nil, w.owner.Err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
