package providers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"promod/internal/structures"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "pgx"
)

var ErrOptionNotFound = errors.New("option not found")

// OptionProviderInterface is a persistent key-value settings store.
type OptionProviderInterface interface {
	GetOption(ctx context.Context, name string) (string, error)
	UpdateOption(ctx context.Context, name, value string) error
	DeleteOption(ctx context.Context, name string) (bool, error)
}

// SqlOptionProvider keeps options in a single two-column table. The same
// statements run on SQLite and Postgres; only placeholders differ.
type SqlOptionProvider struct {
	db     *sql.DB
	driver string
}

func NewOptionProvider(conf *structures.Config, logger Logger) (OptionProviderInterface, func(), error) {
	provider, err := OpenOptionProvider(context.Background(), conf.Options.Driver, conf.Options.Dsn)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof(TypeApp, "Option store opened: driver=%s", conf.Options.Driver)

	cleanup := func() {
		if err := provider.Close(); err != nil {
			logger.Errorf(TypeApp, "Option store close error: %s", err)
		}
	}
	return provider, cleanup, nil
}

func OpenOptionProvider(ctx context.Context, driver, dsn string) (*SqlOptionProvider, error) {
	switch driver {
	case DriverSqlite:
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create dirs: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported option driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSqlite {
		// a single connection keeps ":memory:" databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	p := &SqlOptionProvider{db: db, driver: driver}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS options (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create options table: %w", err)
	}
	return p, nil
}

// rebind rewrites '?' placeholders to '$n' for Postgres.
func (p *SqlOptionProvider) rebind(query string) string {
	if p.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *SqlOptionProvider) GetOption(ctx context.Context, name string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx, p.rebind(`SELECT value FROM options WHERE name = ?`), name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOptionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select option %s: %w", name, err)
	}
	return value, nil
}

func (p *SqlOptionProvider) UpdateOption(ctx context.Context, name, value string) error {
	_, err := p.db.ExecContext(ctx, p.rebind(`INSERT INTO options (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value`), name, value)
	if err != nil {
		return fmt.Errorf("upsert option %s: %w", name, err)
	}
	return nil
}

// DeleteOption reports whether a row was removed.
func (p *SqlOptionProvider) DeleteOption(ctx context.Context, name string) (bool, error) {
	res, err := p.db.ExecContext(ctx, p.rebind(`DELETE FROM options WHERE name = ?`), name)
	if err != nil {
		return false, fmt.Errorf("delete option %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *SqlOptionProvider) Close() error {
	return p.db.Close()
}
