// The fieldkeeper server is an authenticated proxy between clients and the
// external document store:
//
//	POST /user/token                          # issue a bearer token (operator-guarded)
//	GET  /api/v1/health                       # liveness
//	GET  /api/schemas                         # list schemas (auth)
//	GET  /api/schemas/templates               # built-in templates (auth)
//	POST /api/schemas                         # instantiate from template (auth)
//	POST /api/schemas/activate                # set active schema (auth)
//	GET  /api/schemas/active                  # resolve active schema (auth)
//	POST /api/remote/exchange-auth-code       # OAuth code -> token (auth)
//	POST /api/remote/collections/search       # search collections (auth)
//	POST /api/remote/collections              # create collection (auth)
//	POST /api/remote/collections/verify       # connection check (auth)
//	POST /api/remote/collections/analyze      # describe columns (auth)
//	POST /api/remote/records                  # push a record (auth)
//	POST /api/remote/records/pull             # reconcile + list (auth)
//	POST /api/remote/records/{id}/archive     # archive a record (auth)
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "fieldkeeper/internal/app/server/api/http/health"
	"fieldkeeper/internal/app/server/api/http/middleware"
	"fieldkeeper/internal/app/server/api/http/middleware/auth"
	loggerMW "fieldkeeper/internal/app/server/api/http/middleware/logger"
	remoteAPI "fieldkeeper/internal/app/server/api/http/remote"
	schemaAPI "fieldkeeper/internal/app/server/api/http/schema"
	tokenAPI "fieldkeeper/internal/app/server/api/http/token"
	"fieldkeeper/internal/app/server/config"
	"fieldkeeper/internal/app/server/crypto"
	"fieldkeeper/internal/domain/schema"
	"fieldkeeper/internal/domain/session"
	"fieldkeeper/internal/domain/settings"
	"fieldkeeper/internal/domain/sync"
	"fieldkeeper/internal/infrastructure/storage/postgres"
	"fieldkeeper/internal/remote"
)

type Handlers struct {
	Health *healthAPI.Handler
	Token  *tokenAPI.Handler
	Schema *schemaAPI.Handler
	Remote *remoteAPI.Handler
}

// New builds the chi mux with every operation registered through huma.
func New(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) (*chi.Mux, error) {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Fieldkeeper API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h, err := handlers(storage, cfg, log)
	if err != nil {
		return nil, err
	}
	h.Health.SetupRoutes(API)
	h.Token.SetupRoutes(API)
	h.Schema.SetupRoutes(API)
	h.Remote.SetupRoutes(API)

	return mux, nil
}

func handlers(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) (*Handlers, error) {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	requestLogger := loggerMW.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(requestLogger.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(requestLogger.Middleware())
	tokenHandler := tokenAPI.NewHandler(sessionService, cfg.Server.Secret, log, middlewares.GetAllAndClear())

	schemaRepo := postgres.NewSchemaRepository(storage, log)
	registry := schema.NewRegistry(schemaRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(requestLogger.Middleware())
	schemaHandler := schemaAPI.NewHandler(registry, log, middlewares.GetAllAndClear())

	encryptor, err := crypto.NewEncryptor(cfg.Server.Secret)
	if err != nil {
		return nil, err
	}
	settingsRepo := postgres.NewSettingsRepository(storage, encryptor, log)
	settingsService := settings.NewService(settingsRepo, log)

	recordRepo := postgres.NewRecordRepository(storage, log)
	docstore := remote.NewClient(cfg.Remote.DocstoreAddress, log)

	syncCfg := sync.Config{
		SourceOfTruth: sync.SourceOfTruth(cfg.Sync.SourceOfTruth),
		PageSize:      cfg.Sync.PageSize,
		MaxPages:      cfg.Sync.MaxPages,
	}
	engine := sync.NewEngine(docstore, recordRepo, log, syncCfg)
	orchestrator := sync.NewOrchestrator(engine, registry, settingsService, docstore, recordRepo, log, syncCfg)

	middlewares.Add(authMW.Middleware())
	middlewares.Add(requestLogger.Middleware())
	remoteHandler := remoteAPI.NewHandler(orchestrator, docstore, settingsService, registry, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Token:  tokenHandler,
		Schema: schemaHandler,
		Remote: remoteHandler,
	}, nil
}
