package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Tx is one open transaction. Session settings applied through SetLocal last
// until Commit or Rollback and never leak to other users of the connection.
type Tx interface {
	DBTX
	SetLocal(ctx context.Context, key, value string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWork opens transactions.
type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

type pgxUnitOfWork struct {
	db Beginner
}

func NewUnitOfWork(db Beginner) UnitOfWork {
	return &pgxUnitOfWork{db: db}
}

func (u *pgxUnitOfWork) Begin(ctx context.Context) (Tx, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgxTx{Tx: tx}, nil
}

type pgxTx struct {
	pgx.Tx
}

func (t *pgxTx) SetLocal(ctx context.Context, key, value string) error {
	if _, err := t.Exec(ctx, `SELECT set_config($1, $2, true)`, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// InTx runs fn inside a transaction: commit when fn returns nil, rollback on
// error or panic.
func InTx(ctx context.Context, uow UnitOfWork, fn func(tx Tx) error) (err error) {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
