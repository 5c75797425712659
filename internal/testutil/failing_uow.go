package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/trayflow/internal/db"
)

// FailingUoW runs transactions like the real unit of work but fails the
// first write whose SQL contains Match, so tests can break a multi-write use
// case at one statement and check that everything before it rolled back.
type FailingUoW struct {
	DB    *sql.DB
	Match string
	Err   error

	// Hit reports whether the injected failure fired.
	Hit bool
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, uow: u})
	})
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.uow.Hit && strings.Contains(query, f.uow.Match) {
		f.uow.Hit = true
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
