package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"fieldkeeper/internal/domain/sync"
)

var ErrNotFound = errors.New("settings not found")

type Repository interface {
	Get(ctx context.Context, userID int) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// Service serves and stores per-user document-store connections.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "settings"),
	}
}

func (s *Service) Get(ctx context.Context, userID int) (*Settings, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) Save(ctx context.Context, st *Settings) error {
	st.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, st); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Binding resolves the stored sync binding. Nil (with no error) means the
// user has not connected a remote collection.
func (s *Service) Binding(ctx context.Context, userID int) (*sync.Binding, error) {
	st, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if st.CollectionID == "" || st.APIKey == "" {
		return nil, nil
	}
	return &sync.Binding{APIKey: st.APIKey, CollectionID: st.CollectionID}, nil
}
