package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Registrar is the schema registry contract consumed by the sync engine and
// the API handlers.
type Registrar interface {
	// GetActive returns the user's active schema. When no active schema is
	// set it falls back to the most recently updated one; when the user has
	// no schemas at all it returns (nil, nil) and callers must treat nil as
	// "use the built-in legacy field set".
	GetActive(ctx context.Context, userID int) (*Schema, error)
	SetActive(ctx context.Context, userID int, schemaID string) error
	InstantiateFromTemplate(ctx context.Context, templateID string, userID int) (*Schema, error)
	List(ctx context.Context, userID int) ([]Schema, error)
}

// Registry stores and serves the active field schema per user.
type Registry struct {
	repo Repository
	log  *slog.Logger
}

func NewRegistry(repo Repository, log *slog.Logger) *Registry {
	return &Registry{
		repo: repo,
		log:  log.With("component", "schema_registry"),
	}
}

func (r *Registry) GetActive(ctx context.Context, userID int) (*Schema, error) {
	activeID, err := r.repo.ActiveID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active schema id: %w", err)
	}

	if activeID != "" {
		s, err := r.repo.Get(ctx, userID, activeID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load active schema: %w", err)
		}
		// Stale pointer; fall through to the most-recent fallback.
		r.log.Warn("active schema id points at a missing schema",
			"user_id", userID, "schema_id", activeID)
	}

	s, err := r.repo.MostRecent(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load most recent schema: %w", err)
	}
	return s, nil
}

func (r *Registry) SetActive(ctx context.Context, userID int, schemaID string) error {
	if _, err := r.repo.Get(ctx, userID, schemaID); err != nil {
		return err
	}
	if err := r.repo.SetActiveID(ctx, userID, schemaID); err != nil {
		return fmt.Errorf("set active schema: %w", err)
	}
	return nil
}

func (r *Registry) InstantiateFromTemplate(ctx context.Context, templateID string, userID int) (*Schema, error) {
	tpl, ok := TemplateByID(templateID)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	now := time.Now().UTC()
	s := &Schema{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      tpl.Name,
		Version:   tpl.Version,
		Fields:    copyFields(tpl.Fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("template %q produced an invalid schema: %w", templateID, err)
	}

	if err := r.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("store schema: %w", err)
	}

	r.log.Info("schema instantiated from template",
		"user_id", userID, "template_id", templateID, "schema_id", s.ID)
	return s, nil
}

func (r *Registry) List(ctx context.Context, userID int) ([]Schema, error) {
	return r.repo.ListByUser(ctx, userID)
}
