package sync

import (
	"context"

	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
	"fieldkeeper/internal/remote"
)

// Cache is the fast local record store. All state is scoped per user id;
// there is no shared mutable state across sessions.
type Cache interface {
	ListByUser(ctx context.Context, userID int) ([]record.Record, error)
	Get(ctx context.Context, userID int, id string) (*record.Record, error)
	Upsert(ctx context.Context, rec *record.Record) error
	Delete(ctx context.Context, userID int, id string) error
}

// RemoteGateway is the slice of the document-store client the engine needs.
type RemoteGateway interface {
	QueryRecords(ctx context.Context, apiKey, collectionID, cursor string, pageSize int) (*remote.QueryResult, error)
	CreateRecord(ctx context.Context, apiKey, collectionID string, props map[string]remote.PropertyValue) (*remote.CreatedRecord, error)
	ArchiveRecord(ctx context.Context, apiKey, remoteID string) error
}

// Binding is a user's connection to one remote collection.
type Binding struct {
	APIKey       string
	CollectionID string
}

// BindingSource resolves the stored binding for a user; nil means the user
// has not connected a remote collection.
type BindingSource interface {
	Binding(ctx context.Context, userID int) (*Binding, error)
}

// SchemaSource is the slice of the schema registry the orchestrator needs.
type SchemaSource interface {
	GetActive(ctx context.Context, userID int) (*schema.Schema, error)
}
