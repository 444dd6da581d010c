// Package credits is the client for the per-user credit ledger. The ledger
// itself lives in the user table; the decrement here is the sole writer.
package credits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoRowsUpdated means the guarded decrement matched no row: either the
// user is gone or a concurrent request spent the last credit first.
var ErrNoRowsUpdated = errors.New("no credit row updated")

type Ledger struct {
	wdb *sql.DB
	rdb *sql.DB
	log *zap.SugaredLogger
}

func NewLedger(wdb *sql.DB, rdb *sql.DB, log *zap.SugaredLogger) *Ledger {
	return &Ledger{wdb: wdb, rdb: rdb, log: log}
}

func (l *Ledger) Balance(ctx context.Context, userID uint64) (uint64, error) {
	var credits uint64
	err := l.rdb.QueryRowContext(ctx, "SELECT credits FROM user WHERE id = ?", userID).Scan(&credits)
	if err != nil {
		return 0, fmt.Errorf("failed to read credit balance: %w", err)
	}
	return credits, nil
}

// DecrementOne spends exactly one credit. The balance guard runs inside the
// store's atomic UPDATE, never as an application-level read-modify-write, so
// concurrent requests for the same user cannot spend below zero.
func (l *Ledger) DecrementOne(ctx context.Context, userID uint64) error {
	res, err := l.wdb.ExecContext(ctx, "UPDATE user SET credits = credits - 1 WHERE id = ? AND credits > 0", userID)
	if err != nil {
		return fmt.Errorf("failed to decrement credits: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read decrement result: %w", err)
	}
	if affected == 0 {
		l.log.Warnw("Credit decrement matched no rows", "user_id", userID)
		return ErrNoRowsUpdated
	}
	return nil
}
