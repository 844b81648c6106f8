package taskstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/imamik/nodeforge/internal/provisioning"
)

// timeLayout is RFC3339 with a fixed-width fraction so stored timestamps
// sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteClient implements DBClient backed by a local SQLite database.
type sqliteClient struct {
	db *sql.DB
}

// openSQLite creates or opens <dir>/<name>.db. The directory is created if
// it does not exist.
func openSQLite(dir, name string) (*sqliteClient, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("taskstore: failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".db")
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("taskstore: failed to open database: %w", err)
	}

	c := &sqliteClient{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// migrate creates the task_status table if it doesn't exist.
func (c *sqliteClient) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS task_status (
			id           TEXT PRIMARY KEY,
			service_name TEXT NOT NULL,
			message      TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_task_status_service ON task_status(service_name);
	`
	if _, err := c.db.Exec(ddl); err != nil {
		return fmt.Errorf("taskstore: migration failed: %w", err)
	}
	return nil
}

func (c *sqliteClient) AppendTaskStatus(ctx context.Context, rec provisioning.TaskStatusRecord) error {
	rec, err := normalize(rec)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO task_status (id, service_name, message, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.ServiceName, rec.Message, rec.Timestamp.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("taskstore: insert failed: %w", err)
	}
	return nil
}

func (c *sqliteClient) ListTaskStatus(ctx context.Context, serviceName string) ([]provisioning.TaskStatusRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, service_name, message, created_at
		FROM task_status WHERE service_name = ? ORDER BY created_at, rowid`, serviceName)
	if err != nil {
		return nil, fmt.Errorf("taskstore: query failed: %w", err)
	}
	defer rows.Close()

	var records []provisioning.TaskStatusRecord
	for rows.Next() {
		var rec provisioning.TaskStatusRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.ServiceName, &rec.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("taskstore: scan failed: %w", err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("taskstore: invalid timestamp %q: %w", createdAt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskstore: iteration failed: %w", err)
	}
	return records, nil
}

func (c *sqliteClient) Close() error {
	return c.db.Close()
}
