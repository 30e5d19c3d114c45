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

// Engine fetches the full remote record set, matches it against the local
// cache by remote id, and applies the upsert plan. Matching by remote id is
// authoritative and exclusive — there is no secondary heuristic such as
// timestamp+title, because two different entries can legitimately share both.
type Engine struct {
	remote RemoteGateway
	cache  Cache
	log    *slog.Logger
	cfg    Config
}

func NewEngine(gw RemoteGateway, cache Cache, log *slog.Logger, cfg Config) *Engine {
	return &Engine{
		remote: gw,
		cache:  cache,
		log:    log.With("component", "reconciliation_engine"),
		cfg:    cfg.withDefaults(),
	}
}

// fieldsFor resolves the field set in effect: the active schema's fields, or
// the built-in legacy set when the user has no schema.
func fieldsFor(sc *schema.Schema) []schema.FieldConfig {
	if sc == nil {
		return remote.LegacyFields()
	}
	return sc.Fields
}

// Reconcile produces the authoritative record set for the user. With no
// binding it returns the cache unchanged and attempts no sync. With a
// binding, the result is the remote-derived set: local records never pushed
// remotely are not part of it. A failed remote fetch degrades to no records
// plus the surfaced error, never to stale partial data.
func (e *Engine) Reconcile(ctx context.Context, userID int, b *Binding, sc *schema.Schema) ([]record.Record, error) {
	cached, err := e.cache.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load local records: %w", err)
	}

	if b == nil || b.CollectionID == "" {
		return cached, nil
	}

	remoteRecs, err := e.fetchAll(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("fetch remote records: %w", err)
	}

	byRemoteID := make(map[string]*record.Record, len(cached))
	for i := range cached {
		if cached[i].RemoteID != "" {
			byRemoteID[cached[i].RemoteID] = &cached[i]
		}
	}

	fields := fieldsFor(sc)
	var schemaID string
	if sc != nil {
		schemaID = sc.ID
	}

	now := time.Now().UTC()
	dropped := 0

	result := make([]record.Record, 0, len(remoteRecs))
	for _, rr := range remoteRecs {
		// A record without a stable remote id cannot be matched or cached
		// and must never be shown.
		if rr.ID == "" {
			dropped++
			continue
		}

		values := make(record.Values, len(fields))
		for _, f := range fields {
			values[f.ID] = remote.FromRemoteValue(f, rr.Properties[f.DisplayName])
		}

		var rec record.Record
		if local, ok := byRemoteID[rr.ID]; ok {
			// Match: remote values win, local identity survives.
			rec = *local
		} else {
			rec = record.Record{
				ID:        uuid.NewString(),
				UserID:    userID,
				SchemaID:  schemaID,
				RemoteID:  rr.ID,
				CreatedAt: now,
				LoggedAt:  now,
			}
		}
		rec.Values = values
		if rr.URL != "" {
			rec.RemoteURL = rr.URL
		}
		if ms := dateMillis(fields, values); ms != nil {
			rec.LoggedAt = time.UnixMilli(*ms).UTC()
		}
		rec.UpdatedAt = now

		// Each upsert completes before the next record is evaluated, keeping
		// cache writes free of races within the cycle.
		if err := e.cache.Upsert(ctx, &rec); err != nil {
			return nil, fmt.Errorf("upsert record %s: %w", rec.ID, err)
		}
		result = append(result, rec)
	}

	if dropped > 0 {
		e.log.Warn("dropped remote records without a stable id",
			"user_id", userID, "count", dropped)
	}

	// Defensive double-check: nothing in the final set may lack a remote id.
	clean := result[:0]
	for _, rec := range result {
		if rec.RemoteID == "" {
			e.log.Error("record without remote id survived reconciliation",
				"user_id", userID, "record_id", rec.ID)
			continue
		}
		clean = append(clean, rec)
	}

	return clean, nil
}

// fetchAll walks the collection's cursor pagination sequentially: page N+1
// is requested only once page N's cursor is known, because cursors are
// opaque. The page ceiling bounds worst-case latency on a misbehaving store.
// Soft-archived records are filtered per page since the store does not
// reliably exclude them itself.
func (e *Engine) fetchAll(ctx context.Context, b *Binding) ([]remote.Record, error) {
	var all []remote.Record
	cursor := ""

	for page := 0; page < e.cfg.MaxPages; page++ {
		res, err := e.remote.QueryRecords(ctx, b.APIKey, b.CollectionID, cursor, e.cfg.PageSize)
		if err != nil {
			return nil, err
		}

		for _, rr := range res.Results {
			if rr.Archived {
				continue
			}
			all = append(all, rr)
		}

		if !res.HasMore {
			return all, nil
		}
		cursor = res.NextCursor
	}

	e.log.Warn("pagination ceiling reached, truncating remote fetch",
		"collection_id", b.CollectionID, "max_pages", e.cfg.MaxPages)
	return all, nil
}

func dateMillis(fields []schema.FieldConfig, values record.Values) *int64 {
	for _, f := range fields {
		if f.Kind != schema.KindDate {
			continue
		}
		if v, ok := values[f.ID]; ok && v.TimeMillis != nil {
			return v.TimeMillis
		}
	}
	return nil
}
