package postgres

import (
	"context"
	"fmt"
	"regexp"

	repoLedger "image-watermarker/internal/repository/ledger"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LedgerRepository stores ledger names as ordered rows. Save rewrites the
// whole table in one transaction.
type LedgerRepository struct {
	db      *dbpg.DB
	table   string
	retries retry.Strategy
}

func NewLedgerRepository(db *dbpg.DB, table string, retries retry.Strategy) (*LedgerRepository, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", repoLedger.ErrInvalidTable, table)
	}

	return &LedgerRepository{
		db:      db,
		table:   table,
		retries: retries,
	}, nil
}

func (r *LedgerRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position INTEGER NOT NULL,
			name     TEXT PRIMARY KEY
		)
	`, r.table)

	if _, err := r.db.ExecWithRetry(ctx, r.retries, query); err != nil {
		return fmt.Errorf("failed to create ledger table: %w", err)
	}

	return nil
}

func (r *LedgerRepository) Load(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s ORDER BY position`, r.table)

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query ledger: %v", repoLedger.ErrLedgerRead, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: failed to scan ledger row: %v", repoLedger.ErrLedgerRead, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repoLedger.ErrLedgerRead, err)
	}

	return names, nil
}

func (r *LedgerRepository) Save(ctx context.Context, names []string) error {
	err := retry.Do(func() error {
		return r.replace(ctx, names)
	}, r.retries)
	if err != nil {
		return fmt.Errorf("%w: %v", repoLedger.ErrLedgerWrite, err)
	}

	return nil
}

func (r *LedgerRepository) replace(ctx context.Context, names []string) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, r.table)); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (position, name) VALUES ($1, $2)`, r.table)
	for i, name := range names {
		if _, err := tx.ExecContext(ctx, insert, i, name); err != nil {
			return fmt.Errorf("failed to insert ledger row %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}

	return nil
}
