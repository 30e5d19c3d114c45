package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/app/server/crypto"
	"fieldkeeper/internal/domain/settings"
)

// SettingsRepository persists per-user docstore connection settings.
// The API key is encrypted at rest with the server encryptor.
type SettingsRepository struct {
	db        *Storage
	encryptor *crypto.Encryptor
	log       *slog.Logger
}

func NewSettingsRepository(db *Storage, encryptor *crypto.Encryptor, log *slog.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:        db,
		encryptor: encryptor,
		log:       log.With("component", "settings_repository"),
	}
}

func (r *SettingsRepository) Get(ctx context.Context, userID int) (*settings.Settings, error) {
	const query = `
		SELECT user_id, api_key_enc, collection_id, parent_page_id, workspace, updated_at
		FROM user_settings
		WHERE user_id = $1`

	var s settings.Settings
	var apiKeyEnc, collectionID, parentPageID, workspace *string

	err := r.db.Pool().QueryRow(ctx, query, userID).Scan(
		&s.UserID, &apiKeyEnc, &collectionID, &parentPageID, &workspace, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, settings.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if apiKeyEnc != nil && *apiKeyEnc != "" {
		plaintext, err := r.encryptor.Decrypt(*apiKeyEnc)
		if err != nil {
			return nil, fmt.Errorf("decrypt api key: %w", err)
		}
		s.APIKey = string(plaintext)
	}
	s.CollectionID = deref(collectionID)
	s.ParentPageID = deref(parentPageID)
	s.Workspace = deref(workspace)

	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	var apiKeyEnc string
	if s.APIKey != "" {
		enc, err := r.encryptor.Encrypt([]byte(s.APIKey))
		if err != nil {
			return fmt.Errorf("encrypt api key: %w", err)
		}
		apiKeyEnc = enc
	}

	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO user_settings (user_id, api_key_enc, collection_id, parent_page_id, workspace, updated_at)
         VALUES ($1, $2, $3, $4, $5, NOW())
         ON CONFLICT (user_id) DO UPDATE SET
             api_key_enc    = CASE WHEN EXCLUDED.api_key_enc = '' THEN user_settings.api_key_enc ELSE EXCLUDED.api_key_enc END,
             collection_id  = EXCLUDED.collection_id,
             parent_page_id = EXCLUDED.parent_page_id,
             workspace      = EXCLUDED.workspace,
             updated_at     = NOW()`,
		s.UserID, apiKeyEnc, s.CollectionID, s.ParentPageID, s.Workspace)
	if err != nil {
		r.log.Error("failed to save settings", "user_id", s.UserID, "error", err)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
