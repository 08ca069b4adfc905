package projectstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

// dialect captures the placeholder style and column types of a backend.
type dialect struct {
	name        string
	placeholder func(n int) string
	jsonType    string
	timeType    string
}

var (
	sqliteDialect = dialect{
		name:        "sqlite",
		placeholder: func(int) string { return "?" },
		jsonType:    "TEXT",
		timeType:    "TEXT",
	}
	postgresDialect = dialect{
		name:        "postgres",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		jsonType:    "JSONB",
		timeType:    "TIMESTAMPTZ",
	}
)

// bind replaces each '?' in q with the dialect's placeholder.
func (d dialect) bind(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore persists projects in SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, sqliteDialect)
}

// OpenPostgres connects to PostgreSQL at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLStore(ctx, db, postgresDialect)
}

// NewPostgresStore wraps an existing connection pool without migrating.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: postgresDialect, now: time.Now}
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the projects table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS projects (
		project_id TEXT PRIMARY KEY,
		project_name TEXT NOT NULL DEFAULT '',
		client_name TEXT NOT NULL DEFAULT '',
		data %s NOT NULL,
		updated_at %s NOT NULL
	)`, s.dialect.jsonType, s.dialect.timeType)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate %s projects table: %w", s.dialect.name, err)
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, p design.ProjectConfiguration) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	query := s.dialect.bind(`
		INSERT INTO projects (project_id, project_name, client_name, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (project_id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			client_name = EXCLUDED.client_name,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`)
	_, err = s.db.ExecContext(ctx, query, p.ProjectID, p.ProjectName, p.ClientName, string(data), s.timeArg(s.now()))
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ProjectID, err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, projectID string) (design.ProjectConfiguration, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.bind("SELECT data FROM projects WHERE project_id = ?"), projectID)
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return design.ProjectConfiguration{}, ErrNotFound
		}
		return design.ProjectConfiguration{}, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	return decode(projectID, []byte(data))
}

func (s *SQLStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT project_id, project_name, client_name, updated_at FROM projects ORDER BY updated_at DESC, project_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var updated any
		if err := rows.Scan(&sum.ProjectID, &sum.ProjectName, &sum.ClientName, &updated); err != nil {
			return nil, err
		}
		sum.UpdatedAt = parseTime(updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, projectID string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.bind("DELETE FROM projects WHERE project_id = ?"), projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

// sqliteTimeLayout is fixed width so text order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *SQLStore) timeArg(t time.Time) any {
	t = t.UTC()
	if s.dialect.name == sqliteDialect.name {
		return t.Format(sqliteTimeLayout)
	}
	return t
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		parsed, _ := time.Parse(time.RFC3339Nano, t)
		return parsed
	case []byte:
		parsed, _ := time.Parse(time.RFC3339Nano, string(t))
		return parsed
	}
	return time.Time{}
}
