package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/domain/record"
)

// RecordRepository is the fast local record store backing reconciliation.
type RecordRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewRecordRepository(db *Storage, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		db:  db,
		log: log.With("component", "record_repository"),
	}
}

func (r *RecordRepository) ListByUser(ctx context.Context, userID int) ([]record.Record, error) {
	const query = `
		SELECT id, user_id, schema_id, logged_at, field_values, remote_id, remote_url,
		       created_at, updated_at
		FROM records
		WHERE user_id = $1
		ORDER BY logged_at DESC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

func (r *RecordRepository) Get(ctx context.Context, userID int, id string) (*record.Record, error) {
	const query = `
		SELECT id, user_id, schema_id, logged_at, field_values, remote_id, remote_url,
		       created_at, updated_at
		FROM records
		WHERE id = $1 AND user_id = $2`

	rec, err := r.scanRecord(r.db.Pool().QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		r.log.Error("failed to get record", "record_id", id, "user_id", userID, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Upsert writes by local id. The remote_id column is never cleared once set:
// a blank incoming remote id keeps the stored one, so partial failures
// cannot orphan a previously synced record.
func (r *RecordRepository) Upsert(ctx context.Context, rec *record.Record) error {
	valuesJSON, err := json.Marshal(rec.Values)
	if err != nil {
		return fmt.Errorf("marshal field values: %w", err)
	}

	const query = `
		INSERT INTO records (id, user_id, schema_id, logged_at, field_values,
		                     remote_id, remote_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			schema_id    = EXCLUDED.schema_id,
			logged_at    = EXCLUDED.logged_at,
			field_values = EXCLUDED.field_values,
			remote_id    = CASE WHEN EXCLUDED.remote_id = '' THEN records.remote_id
			                    ELSE EXCLUDED.remote_id END,
			remote_url   = CASE WHEN EXCLUDED.remote_url = '' THEN records.remote_url
			                    ELSE EXCLUDED.remote_url END,
			updated_at   = EXCLUDED.updated_at`

	_, err = r.db.Pool().Exec(ctx, query,
		rec.ID, rec.UserID, nullable(rec.SchemaID), rec.LoggedAt, valuesJSON,
		rec.RemoteID, rec.RemoteURL, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		r.log.Error("failed to upsert record", "record_id", rec.ID, "error", err)
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, userID int, id string) error {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

func (r *RecordRepository) scanRecords(rows pgx.Rows) ([]record.Record, error) {
	var records []record.Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *RecordRepository) scanRecord(row pgx.Row) (*record.Record, error) {
	var rec record.Record
	var schemaID *string
	var valuesJSON []byte

	if err := row.Scan(&rec.ID, &rec.UserID, &schemaID, &rec.LoggedAt, &valuesJSON,
		&rec.RemoteID, &rec.RemoteURL, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	if schemaID != nil {
		rec.SchemaID = *schemaID
	}
	if err := json.Unmarshal(valuesJSON, &rec.Values); err != nil {
		return nil, fmt.Errorf("parse field values: %w", err)
	}
	return &rec, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
