package client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"fieldkeeper/internal/app/client/config"
	"fieldkeeper/internal/domain/record"
)

// App bundles everything a CLI command needs: the server API client, the
// local SQLite mirror, and the keystore.
type App struct {
	*httpClient

	cfg    *config.Config
	log    *slog.Logger
	mirror *Mirror
	keys   *Keystore
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	mirror, err := NewMirror(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open local mirror: %w", err)
	}

	app := &App{
		httpClient: NewHTTPClient(cfg, log),
		cfg:        cfg,
		log:        log,
		mirror:     mirror,
		keys:       NewKeystore(cfg.KeystorePath),
	}

	if token, err := os.ReadFile(cfg.TokenPath); err == nil {
		app.SetToken(strings.TrimSpace(string(token)))
	}

	return app, nil
}

func (a *App) Mirror() *Mirror {
	return a.mirror
}

func (a *App) Keystore() *Keystore {
	return a.keys
}

// IsAuthenticated reports whether a bearer token is loaded.
func (a *App) IsAuthenticated() bool {
	return a.token != ""
}

// SaveToken persists the bearer token and activates it for this process.
func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.cfg.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.SetToken(token)
	return nil
}

// FullSync pulls the reconciled record set from the server and replaces the
// local mirror with it.
func (a *App) FullSync(ctx context.Context) ([]record.Record, error) {
	records, err := a.PullRecords(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.mirror.ReplaceAll(records); err != nil {
		// The sync itself succeeded; a stale mirror is an acceptable state.
		a.log.Warn("failed to refresh local mirror", "error", err)
	}

	return records, nil
}

func (a *App) Close() error {
	return a.mirror.Close()
}

type ctxKey struct{}

// IntoContext attaches the app to a context for cobra commands.
func IntoContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, app)
}

// FromContext retrieves the app attached by IntoContext.
func FromContext(ctx context.Context) (*App, bool) {
	app, ok := ctx.Value(ctxKey{}).(*App)
	return app, ok
}
