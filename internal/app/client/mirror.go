package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fieldkeeper/internal/domain/record"
)

// Mirror is the client-side SQLite copy of the reconciled record set. It is
// replaced wholesale after each full sync and read for offline listing; it
// is never a write source.
type Mirror struct {
	db *sql.DB
}

func NewMirror(path string) (*Mirror, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open mirror database: %w", err)
	}

	m := &Mirror{db: db}
	if err := m.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init mirror tables: %w", err)
	}

	return m, nil
}

func (m *Mirror) initTables() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id           TEXT PRIMARY KEY,
			schema_id    TEXT NOT NULL DEFAULT '',
			logged_at    DATETIME NOT NULL,
			field_values TEXT NOT NULL,
			remote_id    TEXT NOT NULL DEFAULT '',
			remote_url   TEXT NOT NULL DEFAULT '',
			synced_at    DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_logged ON records(logged_at);
	`)
	return err
}

// ReplaceAll swaps the mirror contents for the freshly reconciled set in one
// transaction.
func (m *Mirror) ReplaceAll(records []record.Record) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin mirror replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	now := time.Now().UTC()
	for _, rec := range records {
		valuesJSON, err := json.Marshal(rec.Values)
		if err != nil {
			return fmt.Errorf("serialize values for %s: %w", rec.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO records (id, schema_id, logged_at, field_values, remote_id, remote_url, synced_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.SchemaID, rec.LoggedAt.Format(time.RFC3339), string(valuesJSON),
			rec.RemoteID, rec.RemoteURL, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert mirror record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

func (m *Mirror) List() ([]record.Record, error) {
	rows, err := m.db.Query(`
		SELECT id, schema_id, logged_at, field_values, remote_id, remote_url
		FROM records
		ORDER BY logged_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list mirror records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var rec record.Record
		var loggedAt, valuesJSON string

		if err := rows.Scan(&rec.ID, &rec.SchemaID, &loggedAt, &valuesJSON,
			&rec.RemoteID, &rec.RemoteURL); err != nil {
			return nil, fmt.Errorf("scan mirror record: %w", err)
		}
		if err := json.Unmarshal([]byte(valuesJSON), &rec.Values); err != nil {
			return nil, fmt.Errorf("parse values: %w", err)
		}
		rec.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)

		records = append(records, rec)
	}

	return records, rows.Err()
}

func (m *Mirror) Count() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("count mirror records: %w", err)
	}
	return count, nil
}

func (m *Mirror) Close() error {
	return m.db.Close()
}
