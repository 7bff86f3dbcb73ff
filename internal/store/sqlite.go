package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/petebeckett/ocmetrics/internal/metrics"
)

// Store reads the opencode SQLite database. It is opened, used for a bounded
// set of queries and closed within a single reload cycle; it is never held
// across cycles.
type Store struct {
	db *sql.DB
}

// requiredColumns are the tables and columns the reload queries depend on.
var requiredColumns = map[string][]string{
	"session": {"id", "title"},
	"message": {"id", "session_id", "time_created", "time_updated", "data"},
}

// Open opens the database at path. The file must already exist; this store
// never creates or migrates a database it does not own.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckSchema validates that every required table and column exists. It runs
// before any reload query so a foreign or outdated database fails the cycle
// up front instead of mid-aggregation.
func (s *Store) CheckSchema() error {
	for table, columns := range requiredColumns {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("schema check: missing table %q", table)
		}
		if err != nil {
			return fmt.Errorf("schema check: %w", err)
		}

		present, err := s.tableColumns(table)
		if err != nil {
			return err
		}
		for _, col := range columns {
			if !present[col] {
				return fmt.Errorf("schema check: table %q missing column %q", table, col)
			}
		}
	}
	return nil
}

func (s *Store) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("table info %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// AllRecords returns every stored message with its opaque payload, in one
// round trip.
func (s *Store) AllRecords() ([]metrics.RawRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, time_created, time_updated, data
		FROM message
	`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []metrics.RawRecord
	for rows.Next() {
		var r metrics.RawRecord
		var sessionID sql.NullString
		var created, updated sql.NullInt64
		var data sql.NullString
		if err := rows.Scan(&r.ID, &sessionID, &created, &updated, &data); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		r.SessionID = sessionID.String
		r.TimeCreated = created.Int64
		r.TimeUpdated = updated.Int64
		r.Data = []byte(data.String)
		records = append(records, r)
	}

	return records, rows.Err()
}

// AllSessionLabels returns every session id with its title.
func (s *Store) AllSessionLabels() ([]metrics.SessionLabel, error) {
	rows, err := s.db.Query(`SELECT id, title FROM session`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []metrics.SessionLabel
	for rows.Next() {
		var l metrics.SessionLabel
		var title sql.NullString
		if err := rows.Scan(&l.ID, &title); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		l.Title = title.String
		labels = append(labels, l)
	}

	return labels, rows.Err()
}

// Counts returns the overview totals. The project table is optional in older
// databases; a missing table counts as zero projects.
func (s *Store) Counts() (projects, sessions, messages int, err error) {
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&sessions); err != nil {
		return 0, 0, 0, fmt.Errorf("count sessions: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM message`).Scan(&messages); err != nil {
		return 0, 0, 0, fmt.Errorf("count messages: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM project`).Scan(&projects); err != nil {
		projects = 0
	}
	return projects, sessions, messages, nil
}
