package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store gives access to the persisted intake records.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema if it is missing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single connection keeps writers from tripping over SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Debug().Str("driver", driver).Msg("Record store ready")
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping checks that the database still answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the name of the database driver in use.
func (s *Store) Driver() string { return s.driver }

func (s *Store) migrate(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	tsType := "TIMESTAMP"
	boolType := "INTEGER NOT NULL DEFAULT 0"
	if s.driver == DriverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		tsType = "TIMESTAMPTZ"
		boolType = "BOOLEAN NOT NULL DEFAULT FALSE"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS form_values (
			` + idColumn + `,
			form_id INTEGER NOT NULL,
			json TEXT,
			petugas TEXT,
			created_at ` + tsType + `,
			datetime_masuk ` + tsType + `,
			datetime_pengerjaan ` + tsType + `,
			datetime_selesai ` + tsType + `,
			status TEXT,
			is_pending ` + boolType + `
		);`,
		`CREATE INDEX IF NOT EXISTS idx_form_values_form_created ON form_values(form_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_form_values_masuk ON form_values(datetime_masuk);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// sqliteDSN makes timestamps sortable as text so range queries compare correctly.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
