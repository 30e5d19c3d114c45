package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/domain/schema"
)

type SchemaRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSchemaRepository(db *Storage, log *slog.Logger) *SchemaRepository {
	return &SchemaRepository{
		db:  db,
		log: log.With("component", "schema_repository"),
	}
}

func (r *SchemaRepository) Create(ctx context.Context, s *schema.Schema) error {
	fieldsJSON, err := json.Marshal(s.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	_, err = r.db.Pool().Exec(ctx,
		`INSERT INTO schemas (id, user_id, name, version, fields, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Name, s.Version, fieldsJSON, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		r.log.Error("failed to create schema", "schema_id", s.ID, "error", err)
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *SchemaRepository) Get(ctx context.Context, userID int, schemaID string) (*schema.Schema, error) {
	const query = `
		SELECT id, user_id, name, version, fields, created_at, updated_at
		FROM schemas
		WHERE id = $1 AND user_id = $2`

	s, err := r.scanSchema(r.db.Pool().QueryRow(ctx, query, schemaID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schema.ErrNotFound
		}
		return nil, fmt.Errorf("get schema: %w", err)
	}
	return s, nil
}

func (r *SchemaRepository) ListByUser(ctx context.Context, userID int) ([]schema.Schema, error) {
	const query = `
		SELECT id, user_id, name, version, fields, created_at, updated_at
		FROM schemas
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()

	var schemas []schema.Schema
	for rows.Next() {
		s, err := r.scanSchema(rows)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	return schemas, rows.Err()
}

func (r *SchemaRepository) MostRecent(ctx context.Context, userID int) (*schema.Schema, error) {
	const query = `
		SELECT id, user_id, name, version, fields, created_at, updated_at
		FROM schemas
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`

	s, err := r.scanSchema(r.db.Pool().QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schema.ErrNotFound
		}
		return nil, fmt.Errorf("most recent schema: %w", err)
	}
	return s, nil
}

func (r *SchemaRepository) ActiveID(ctx context.Context, userID int) (string, error) {
	var id *string
	err := r.db.Pool().QueryRow(ctx,
		`SELECT active_schema_id FROM user_settings WHERE user_id = $1`,
		userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("active schema id: %w", err)
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

func (r *SchemaRepository) SetActiveID(ctx context.Context, userID int, schemaID string) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO user_settings (user_id, active_schema_id, updated_at)
         VALUES ($1, $2, NOW())
         ON CONFLICT (user_id) DO UPDATE SET
             active_schema_id = EXCLUDED.active_schema_id,
             updated_at       = NOW()`,
		userID, schemaID)
	if err != nil {
		return fmt.Errorf("set active schema id: %w", err)
	}
	return nil
}

func (r *SchemaRepository) scanSchema(row pgx.Row) (*schema.Schema, error) {
	var s schema.Schema
	var fieldsJSON []byte

	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Version, &fieldsJSON,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fieldsJSON, &s.Fields); err != nil {
		return nil, fmt.Errorf("parse fields: %w", err)
	}
	return &s, nil
}
