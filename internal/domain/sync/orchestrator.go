package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
	"fieldkeeper/internal/remote"
)

// Orchestrator sequences one sync cycle: schema resolution, reconciliation,
// and the write path for new records. It owns the single source-of-truth
// decision point.
type Orchestrator struct {
	engine   *Engine
	schemas  SchemaSource
	bindings BindingSource
	remote   RemoteGateway
	cache    Cache
	log      *slog.Logger
	cfg      Config
}

func NewOrchestrator(engine *Engine, schemas SchemaSource, bindings BindingSource, gw RemoteGateway, cache Cache, log *slog.Logger, cfg Config) *Orchestrator {
	return &Orchestrator{
		engine:   engine,
		schemas:  schemas,
		bindings: bindings,
		remote:   gw,
		cache:    cache,
		log:      log.With("component", "sync_orchestrator"),
		cfg:      cfg.withDefaults(),
	}
}

// RunFullSync resolves the active schema and stored binding, then produces
// the record set the caller should display. Invoked on session start and on
// manual refresh. There is no cancellation primitive beyond ctx: a cycle
// runs to completion or failure.
func (o *Orchestrator) RunFullSync(ctx context.Context, userID int) ([]record.Record, error) {
	sc, err := o.schemas.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve active schema: %w", err)
	}

	if o.cfg.SourceOfTruth == SourceLocal {
		// Local authority: the cache is what the user sees; no remote fetch.
		return o.cache.ListByUser(ctx, userID)
	}

	b, err := o.bindings.Binding(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve remote binding: %w", err)
	}

	return o.engine.Reconcile(ctx, userID, b, sc)
}

// PullRecords reconciles against an explicitly supplied binding and schema,
// bypassing stored settings. This is the proxy-facing variant.
func (o *Orchestrator) PullRecords(ctx context.Context, userID int, b *Binding, sc *schema.Schema) ([]record.Record, error) {
	if sc == nil {
		stored, err := o.schemas.GetActive(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve active schema: %w", err)
		}
		sc = stored
	}
	return o.engine.Reconcile(ctx, userID, b, sc)
}

// PushNewRecord coerces UI-collected field values, creates the record
// remotely, and only then inserts it into the cache with the returned remote
// id attached. A remote failure surfaces to the caller with nothing cached,
// so the attempt stays visibly pending instead of being marked synced.
func (o *Orchestrator) PushNewRecord(ctx context.Context, userID int, b *Binding, sc *schema.Schema, raw map[string]any) (*record.Record, error) {
	if sc == nil {
		stored, err := o.schemas.GetActive(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve active schema: %w", err)
		}
		sc = stored
	}

	fields := fieldsFor(sc)
	values := make(record.Values, len(fields))
	for _, f := range fields {
		rawVal, ok := raw[f.ID]
		if !ok {
			if f.DefaultValue == "" {
				continue
			}
			rawVal = f.DefaultValue
		}
		values[f.ID] = remote.Coerce(f, rawVal)
	}

	now := time.Now().UTC()
	rec := &record.Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Values:    values,
		LoggedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sc != nil {
		rec.SchemaID = sc.ID
	}
	if ms := dateMillis(fields, values); ms != nil {
		rec.LoggedAt = time.UnixMilli(*ms).UTC()
	}

	if b == nil || b.CollectionID == "" {
		// No remote reachable: the record stays local-only. There is no
		// retry path for it; while a collection is bound it will not appear
		// in the displayed set.
		if err := o.cache.Upsert(ctx, rec); err != nil {
			return nil, fmt.Errorf("store local record: %w", err)
		}
		o.log.Warn("record created without a remote binding", "user_id", userID, "record_id", rec.ID)
		return rec, nil
	}

	props := make(map[string]remote.PropertyValue, len(fields))
	for _, f := range fields {
		v, ok := values[f.ID]
		if !ok {
			continue
		}
		if pv, write := remote.ToRemoteValue(f, v); write {
			props[f.DisplayName] = pv
		}
	}

	created, err := o.remote.CreateRecord(ctx, b.APIKey, b.CollectionID, props)
	if err != nil {
		return nil, fmt.Errorf("create remote record: %w", err)
	}

	rec.RemoteID = created.ID
	rec.RemoteURL = created.URL
	if err := o.cache.Upsert(ctx, rec); err != nil {
		// The remote copy exists; surface the cache failure but keep the
		// remote id so a later reconcile re-adopts the record.
		return nil, fmt.Errorf("cache record %s after remote create: %w", rec.ID, err)
	}

	return rec, nil
}

// ArchiveRecord soft-deletes the remote counterpart, then removes the local
// record. When the remote archive fails the local record is kept and the
// failure is reported distinctly, so the caller knows the remote copy still
// exists.
func (o *Orchestrator) ArchiveRecord(ctx context.Context, userID int, b *Binding, localID string) error {
	rec, err := o.cache.Get(ctx, userID, localID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, localID)
	}

	if rec.RemoteID != "" {
		if b == nil {
			return fmt.Errorf("%w: no remote binding", ErrRemoteArchiveFailed)
		}
		if err := o.remote.ArchiveRecord(ctx, b.APIKey, rec.RemoteID); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteArchiveFailed, err)
		}
	}

	if err := o.cache.Delete(ctx, userID, localID); err != nil {
		return fmt.Errorf("delete local record: %w", err)
	}
	return nil
}

// ResolveBinding exposes the stored binding for callers that accept
// per-request overrides.
func (o *Orchestrator) ResolveBinding(ctx context.Context, userID int) (*Binding, error) {
	return o.bindings.Binding(ctx, userID)
}
