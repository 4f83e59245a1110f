package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Table is one of the tables an admin may refresh.
type Table string

const (
	TableCommissions Table = "commissions"
	TableQuotes      Table = "quotes"
	TableQuestions   Table = "questions"
	TableInvoices    Table = "invoices"
	TableWallets     Table = "wallets"
	TableWithdrawals Table = "withdrawals"
	TableProfiles    Table = "profiles"
	TableEmbeds      Table = "embeds"
)

// Tables is the creation order used by Migrate.
var Tables = []Table{
	TableCommissions, TableQuotes, TableQuestions, TableInvoices,
	TableWallets, TableWithdrawals, TableProfiles, TableEmbeds,
}

var ErrUnknownTable = errors.New("unknown table")

// ParseTable accepts a table name case-insensitively.
func ParseTable(name string) (Table, error) {
	t := Table(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Tables {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func ddl(t Table) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + string(t) + ".sql")
	if err != nil {
		return "", fmt.Errorf("schema for %s: %w", t, err)
	}
	return string(b), nil
}

// Migrate creates every missing table in one transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, t := range Tables {
		stmt, err := ddl(t)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", t, err)
		}
	}
	return tx.Commit(ctx)
}

// RefreshTable drops a single table and recreates it empty.
// The wallet audit trail in wallet_entries is kept when wallets is refreshed.
func RefreshTable(ctx context.Context, pool *pgxpool.Pool, t Table) error {
	stmt, err := ddl(t)
	if err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	// t comes from the closed Tables set, never from raw input.
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+string(t)); err != nil {
		return fmt.Errorf("drop %s: %w", t, err)
	}
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create %s: %w", t, err)
	}
	return tx.Commit(ctx)
}
