package db

import (
	"context"
	"database/sql"
	"fmt"
)

// RunInTx executes fn inside a transaction. The callback receives a
// DBTX backed by the open *sql.Tx; any error rolls the whole
// transaction back. Series inserts and bulk deletes run through here
// so a multi-task mutation is all-or-nothing.
func RunInTx(ctx context.Context, database *sql.DB, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
