// Package journal keeps a SQL record of executed runs.
package journal

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"ember/internal/session"
)

// Entry is one recorded run.
type Entry struct {
	ID          string
	Name        string
	Fingerprint string
	Status      string
	Error       string
	Statements  int
	Duration    time.Duration
	StartedAt   time.Time
}

// EntryFrom converts a session result into a journal entry.
func EntryFrom(res session.Result) Entry {
	e := Entry{
		ID:          res.RunID.String(),
		Name:        res.Name,
		Fingerprint: Fingerprint(res.Source),
		Status:      string(res.Status()),
		Statements:  res.Stats.Statements,
		Duration:    res.Duration,
		StartedAt:   res.StartedAt,
	}
	if err := res.Err(); err != nil {
		e.Error = err.Error()
	}
	return e
}

// Fingerprint is the hex BLAKE2b-256 digest of source.
func Fingerprint(source string) string {
	sum := blake2b.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

type Journal struct {
	db     *sql.DB
	driver string
}

// Open connects to the journal database and creates the schema if needed.
// driver is one of sqlite, sqlite3, postgres, mysql or sqlserver.
func Open(ctx context.Context, driver, dsn string) (*Journal, error) {
	switch driver {
	case "sqlite", "sqlite3", "postgres", "mysql", "sqlserver":
	default:
		return nil, errors.Errorf("unsupported journal driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping journal")
	}

	// sqlite allows one writer; other drivers get a small pool
	if strings.HasPrefix(driver, "sqlite") {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	j := &Journal{db: db, driver: driver}
	if _, err := db.ExecContext(ctx, j.schema()); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create journal schema")
	}
	return j, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores one entry.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	query := fmt.Sprintf(
		"INSERT INTO ember_runs (id, name, fingerprint, status, error, statements, duration_ns, started_ns) VALUES (%s)",
		j.placeholders(8),
	)
	_, err := j.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Fingerprint, e.Status, e.Error,
		e.Statements, e.Duration.Nanoseconds(), e.StartedAt.UnixNano(),
	)
	return errors.Wrapf(err, "record run %s", e.ID)
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, nil
	}

	columns := "id, name, fingerprint, status, error, statements, duration_ns, started_ns"
	var query string
	if j.driver == "sqlserver" {
		query = fmt.Sprintf("SELECT TOP (%d) %s FROM ember_runs ORDER BY started_ns DESC", limit, columns)
	} else {
		query = fmt.Sprintf("SELECT %s FROM ember_runs ORDER BY started_ns DESC LIMIT %d", columns, limit)
	}

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query journal")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			durationNs int64
			startedNs  int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Fingerprint, &e.Status, &e.Error, &e.Statements, &durationNs, &startedNs); err != nil {
			return nil, errors.Wrap(err, "scan journal row")
		}
		e.Duration = time.Duration(durationNs)
		e.StartedAt = time.Unix(0, startedNs)
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "read journal")
}

func (j *Journal) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		switch j.driver {
		case "postgres":
			parts[i] = fmt.Sprintf("$%d", i+1)
		case "sqlserver":
			parts[i] = fmt.Sprintf("@p%d", i+1)
		default:
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

func (j *Journal) schema() string {
	if j.driver == "sqlserver" {
		return `IF OBJECT_ID('ember_runs', 'U') IS NULL
CREATE TABLE ember_runs (
	id NVARCHAR(36) PRIMARY KEY,
	name NVARCHAR(512) NOT NULL,
	fingerprint NVARCHAR(64) NOT NULL,
	status NVARCHAR(32) NOT NULL,
	error NVARCHAR(MAX) NOT NULL,
	statements INT NOT NULL,
	duration_ns BIGINT NOT NULL,
	started_ns BIGINT NOT NULL
)`
	}
	return `CREATE TABLE IF NOT EXISTS ember_runs (
	id VARCHAR(36) PRIMARY KEY,
	name VARCHAR(512) NOT NULL,
	fingerprint VARCHAR(64) NOT NULL,
	status VARCHAR(32) NOT NULL,
	error TEXT NOT NULL,
	statements INTEGER NOT NULL,
	duration_ns BIGINT NOT NULL,
	started_ns BIGINT NOT NULL
)`
}
