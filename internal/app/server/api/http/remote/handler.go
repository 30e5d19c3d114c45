package remote

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/app/server/api/http/middleware/auth"
	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
	"fieldkeeper/internal/domain/settings"
	"fieldkeeper/internal/domain/sync"
	"fieldkeeper/internal/remote"
)

// Syncer is the orchestrator surface the proxy needs.
type Syncer interface {
	PullRecords(ctx context.Context, userID int, b *sync.Binding, sc *schema.Schema) ([]record.Record, error)
	PushNewRecord(ctx context.Context, userID int, b *sync.Binding, sc *schema.Schema, raw map[string]any) (*record.Record, error)
	ArchiveRecord(ctx context.Context, userID int, b *sync.Binding, localID string) error
	ResolveBinding(ctx context.Context, userID int) (*sync.Binding, error)
}

// Gateway is the slice of the document-store client used by onboarding
// operations.
type Gateway interface {
	ExchangeAuthCode(ctx context.Context, code string) (*remote.AuthGrant, error)
	Search(ctx context.Context, apiKey, kind string) ([]remote.SearchResult, error)
	CreateCollection(ctx context.Context, apiKey, parentID, name string, props map[string]remote.PropertyDefinition) (string, error)
	FetchCollectionSchema(ctx context.Context, apiKey, collectionID string) (*remote.CollectionSchema, error)
}

// SettingsStore persists the per-user document-store connection.
type SettingsStore interface {
	Get(ctx context.Context, userID int) (*settings.Settings, error)
	Save(ctx context.Context, s *settings.Settings) error
}

type Handler struct {
	syncer     Syncer
	gateway    Gateway
	settings   SettingsStore
	registry   schema.Registrar
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(syncer Syncer, gateway Gateway, store SettingsStore, registry schema.Registrar, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		syncer:     syncer,
		gateway:    gateway,
		settings:   store,
		registry:   registry,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.exchangeOp(), h.exchange)
	huma.Register(api, h.searchOp(), h.search)
	huma.Register(api, h.createCollectionOp(), h.createCollection)
	huma.Register(api, h.verifyOp(), h.verify)
	huma.Register(api, h.analyzeOp(), h.analyze)
	huma.Register(api, h.pushOp(), h.push)
	huma.Register(api, h.pullOp(), h.pull)
	huma.Register(api, h.archiveOp(), h.archive)
}

func (h *Handler) exchange(ctx context.Context, input *exchangeInput) (*exchangeOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	grant, err := h.gateway.ExchangeAuthCode(ctx, input.Body.Code)
	if err != nil {
		return &exchangeOutput{
			Body: exchangeResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	st, err := h.settings.Get(ctx, userID)
	if errors.Is(err, settings.ErrNotFound) {
		st = &settings.Settings{UserID: userID}
	} else if err != nil {
		return &exchangeOutput{
			Body: exchangeResponse{Status: "Error", Error: err.Error()},
		}, nil
	}
	st.APIKey = grant.AccessToken
	st.Workspace = grant.WorkspaceName
	if err := h.settings.Save(ctx, st); err != nil {
		return &exchangeOutput{
			Body: exchangeResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &exchangeOutput{
		Body: exchangeResponse{
			Status:      "Ok",
			AccessToken: grant.AccessToken,
			Workspace:   grant.WorkspaceName,
			BotID:       grant.BotID,
		},
	}, nil
}

func (h *Handler) search(ctx context.Context, input *searchInput) (*searchOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	apiKey, err := h.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	kind := input.Body.Kind
	if kind == "" {
		kind = "collection"
	}

	results, err := h.gateway.Search(ctx, apiKey, kind)
	if err != nil {
		return &searchOutput{
			Body: searchResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &searchOutput{
		Body: searchResponse{Status: "Ok", Databases: results},
	}, nil
}

func (h *Handler) createCollection(ctx context.Context, input *createCollectionInput) (*createCollectionOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	apiKey, err := h.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	sc, err := h.registry.GetActive(ctx, userID)
	if err != nil {
		return &createCollectionOutput{
			Body: createCollectionResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	fields := remote.LegacyFields()
	if sc != nil {
		fields = sc.Fields
	}
	props := make(map[string]remote.PropertyDefinition, len(fields))
	for _, f := range fields {
		props[f.DisplayName] = remote.ToRemoteProperty(f)
	}

	collectionID, err := h.gateway.CreateCollection(ctx, apiKey, input.Body.ParentPageID, input.Body.Name, props)
	if err != nil {
		if errors.Is(err, remote.ErrInvalidParent) {
			return nil, huma.Error422UnprocessableEntity("parent page is missing or inaccessible")
		}
		return &createCollectionOutput{
			Body: createCollectionResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	st, err := h.settings.Get(ctx, userID)
	if errors.Is(err, settings.ErrNotFound) {
		st = &settings.Settings{UserID: userID, APIKey: apiKey}
	} else if err != nil {
		return &createCollectionOutput{
			Body: createCollectionResponse{Status: "Error", Error: err.Error()},
		}, nil
	}
	st.CollectionID = collectionID
	st.ParentPageID = input.Body.ParentPageID
	if err := h.settings.Save(ctx, st); err != nil {
		return &createCollectionOutput{
			Body: createCollectionResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &createCollectionOutput{
		Body: createCollectionResponse{Status: "Ok", CollectionID: collectionID},
	}, nil
}

// verify answers with a boolean. Any failure along the way means "not
// connected", never a 5xx.
func (h *Handler) verify(ctx context.Context, _ *struct{}) (*verifyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	b, err := h.syncer.ResolveBinding(ctx, userID)
	if err != nil || b == nil {
		return &verifyOutput{Body: verifyResponse{Status: "Ok", IsValid: false}}, nil
	}

	if _, err := h.gateway.FetchCollectionSchema(ctx, b.APIKey, b.CollectionID); err != nil {
		h.log.Debug("connection check failed", "user_id", userID, "error", err)
		return &verifyOutput{Body: verifyResponse{Status: "Ok", IsValid: false}}, nil
	}

	return &verifyOutput{Body: verifyResponse{Status: "Ok", IsValid: true}}, nil
}

func (h *Handler) analyze(ctx context.Context, input *analyzeInput) (*analyzeOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	apiKey, err := h.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	collectionID := input.Body.CollectionID
	if collectionID == "" {
		st, err := h.settings.Get(ctx, userID)
		if err != nil || st.CollectionID == "" {
			return nil, huma.Error422UnprocessableEntity("no collection to analyze")
		}
		collectionID = st.CollectionID
	}

	cs, err := h.gateway.FetchCollectionSchema(ctx, apiKey, collectionID)
	if err != nil {
		return &analyzeOutput{
			Body: analyzeResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &analyzeOutput{
		Body: analyzeResponse{Status: "Ok", Title: cs.Title, Columns: cs.Columns},
	}, nil
}

func (h *Handler) push(ctx context.Context, input *pushInput) (*pushOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if len(input.Body.FieldValues) == 0 {
		return nil, huma.Error422UnprocessableEntity("field_values must not be empty")
	}

	b, err := h.syncer.ResolveBinding(ctx, userID)
	if err != nil {
		return &pushOutput{
			Body: pushResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	rec, err := h.syncer.PushNewRecord(ctx, userID, b, nil, input.Body.FieldValues)
	if err != nil {
		// The record stays pending; nothing was cached.
		return &pushOutput{
			Body: pushResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &pushOutput{
		Body: pushResponse{
			Status:    "Ok",
			RecordID:  rec.ID,
			RemoteID:  rec.RemoteID,
			RemoteURL: rec.RemoteURL,
		},
	}, nil
}

func (h *Handler) pull(ctx context.Context, _ *struct{}) (*pullOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	b, err := h.syncer.ResolveBinding(ctx, userID)
	if err != nil {
		return &pullOutput{
			Body: pullResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	records, err := h.syncer.PullRecords(ctx, userID, b, nil)
	if err != nil {
		// Degrade to an empty set; the error message rides along.
		return &pullOutput{
			Body: pullResponse{Status: "Error", Records: []recordDTO{}, Error: err.Error()},
		}, nil
	}

	dtos := make([]recordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, toRecordDTO(r))
	}

	return &pullOutput{
		Body: pullResponse{Status: "Ok", Records: dtos},
	}, nil
}

func (h *Handler) archive(ctx context.Context, input *archiveInput) (*archiveOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	b, err := h.syncer.ResolveBinding(ctx, userID)
	if err != nil {
		return &archiveOutput{
			Body: archiveResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	if err := h.syncer.ArchiveRecord(ctx, userID, b, input.ID); err != nil {
		if errors.Is(err, sync.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("record not found: " + input.ID)
		}
		// ErrRemoteArchiveFailed lands here too: the local record is kept
		// and the caller learns the remote copy still exists.
		return &archiveOutput{
			Body: archiveResponse{Status: "Error", Success: false, Error: err.Error()},
		}, nil
	}

	return &archiveOutput{
		Body: archiveResponse{Status: "Ok", Success: true},
	}, nil
}

// apiKey resolves the stored document-store token, turning its absence
// into a 422 before any remote call is attempted.
func (h *Handler) apiKey(ctx context.Context, userID int) (string, error) {
	st, err := h.settings.Get(ctx, userID)
	if errors.Is(err, settings.ErrNotFound) || (err == nil && st.APIKey == "") {
		return "", huma.Error422UnprocessableEntity("no document-store token; exchange an auth code first")
	}
	if err != nil {
		return "", err
	}
	return st.APIKey, nil
}
