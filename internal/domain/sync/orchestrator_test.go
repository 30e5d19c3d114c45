package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/remote"
)

func newTestOrchestrator(gw *MockGateway, cache *MockCache, schemas *MockSchemaSource, bindings *MockBindingSource, cfg Config) *Orchestrator {
	log := testLogger()
	engine := NewEngine(gw, cache, log, cfg)
	return NewOrchestrator(engine, schemas, bindings, gw, cache, log, cfg)
}

func TestOrchestrator_RunFullSync_RemoteSource(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{SourceOfTruth: SourceRemote})

	schemas.On("GetActive", mock.Anything, 1).Return(testSchema(), nil)
	bindings.On("Binding", mock.Anything, 1).Return(testBinding(), nil)
	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: []remote.Record{
			{ID: "rem-1", Properties: map[string]remote.PropertyValue{"Name": titleProp("entry")}},
		}}, nil)

	got, err := o.RunFullSync(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rem-1", got[0].RemoteID)
}

func TestOrchestrator_RunFullSync_LocalSourceSkipsRemote(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{SourceOfTruth: SourceLocal})

	cached := []record.Record{{ID: "loc-1", UserID: 1}, {ID: "loc-2", UserID: 1}}
	schemas.On("GetActive", mock.Anything, 1).Return(testSchema(), nil)
	cache.On("ListByUser", mock.Anything, 1).Return(cached, nil)

	got, err := o.RunFullSync(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	bindings.AssertNotCalled(t, "Binding", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "QueryRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_RunFullSync_SchemaResolutionFailure(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	schemas.On("GetActive", mock.Anything, 1).Return(nil, errors.New("db unavailable"))

	got, err := o.RunFullSync(context.Background(), 1)

	require.Error(t, err)
	assert.Nil(t, got)
}

func TestOrchestrator_PushNewRecord_Success(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	var props map[string]remote.PropertyValue
	gw.On("CreateRecord", mock.Anything, "secret-key", "col-1", mock.Anything).
		Run(func(args mock.Arguments) {
			props = args.Get(3).(map[string]remote.PropertyValue)
		}).
		Return(&remote.CreatedRecord{ID: "rem-new", URL: "https://docstore.example/rem-new"}, nil)

	var upserted *record.Record
	cache.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(1).(*record.Record)
	}).Return(nil)

	raw := map[string]any{"title": "Bench press", "reps": "35"}
	rec, err := o.PushNewRecord(context.Background(), 1, testBinding(), testSchema(), raw)

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "rem-new", rec.RemoteID)
	assert.Equal(t, "https://docstore.example/rem-new", rec.RemoteURL)
	assert.Equal(t, "sch-1", rec.SchemaID)
	assert.Equal(t, 35.0, rec.Values["reps"].Number)

	require.NotNil(t, upserted)
	assert.Equal(t, "rem-new", upserted.RemoteID)

	// Properties are keyed by display name, and the absent date field is not
	// written at all.
	require.NotNil(t, props)
	assert.Contains(t, props, "Name")
	assert.Contains(t, props, "Reps")
	assert.NotContains(t, props, "Time")
}

func TestOrchestrator_PushNewRecord_RemoteFailureCachesNothing(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	gw.On("CreateRecord", mock.Anything, "secret-key", "col-1", mock.Anything).
		Return(nil, errors.New("store rejected the write"))

	rec, err := o.PushNewRecord(context.Background(), 1, testBinding(), testSchema(), map[string]any{"title": "Bench press"})

	require.Error(t, err)
	assert.Nil(t, rec)
	cache.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestOrchestrator_PushNewRecord_NoBindingStaysLocal(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	rec, err := o.PushNewRecord(context.Background(), 1, nil, testSchema(), map[string]any{"title": "Offline entry"})

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.RemoteID)
	gw.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestOrchestrator_PushNewRecord_ResolvesStoredSchema(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	schemas.On("GetActive", mock.Anything, 1).Return(testSchema(), nil)
	gw.On("CreateRecord", mock.Anything, "secret-key", "col-1", mock.Anything).
		Return(&remote.CreatedRecord{ID: "rem-new"}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	rec, err := o.PushNewRecord(context.Background(), 1, testBinding(), nil, map[string]any{"title": "Bench press"})

	require.NoError(t, err)
	assert.Equal(t, "sch-1", rec.SchemaID)
	schemas.AssertCalled(t, "GetActive", mock.Anything, 1)
}

func TestOrchestrator_PushNewRecord_AppliesDefaults(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	sc := testSchema()
	sc.Fields[2].DefaultValue = "10"

	gw.On("CreateRecord", mock.Anything, "secret-key", "col-1", mock.Anything).
		Return(&remote.CreatedRecord{ID: "rem-new"}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	rec, err := o.PushNewRecord(context.Background(), 1, testBinding(), sc, map[string]any{"title": "Bench press"})

	require.NoError(t, err)
	assert.Equal(t, 10.0, rec.Values["reps"].Number)
}

func TestOrchestrator_ArchiveRecord_RemoteFailureKeepsLocal(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	rec := &record.Record{ID: "loc-1", UserID: 1, RemoteID: "rem-1"}
	cache.On("Get", mock.Anything, 1, "loc-1").Return(rec, nil)
	gw.On("ArchiveRecord", mock.Anything, "secret-key", "rem-1").Return(errors.New("store is down"))

	err := o.ArchiveRecord(context.Background(), 1, testBinding(), "loc-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteArchiveFailed)
	cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_ArchiveRecord_NotFound(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	cache.On("Get", mock.Anything, 1, "missing").Return(nil, errors.New("no rows"))

	err := o.ArchiveRecord(context.Background(), 1, testBinding(), "missing")

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestOrchestrator_ArchiveRecord_LocalOnlySkipsRemote(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	rec := &record.Record{ID: "loc-1", UserID: 1}
	cache.On("Get", mock.Anything, 1, "loc-1").Return(rec, nil)
	cache.On("Delete", mock.Anything, 1, "loc-1").Return(nil)

	err := o.ArchiveRecord(context.Background(), 1, testBinding(), "loc-1")

	require.NoError(t, err)
	gw.AssertNotCalled(t, "ArchiveRecord", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertCalled(t, "Delete", mock.Anything, 1, "loc-1")
}

func TestOrchestrator_ArchiveRecord_SyncedWithoutBinding(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	schemas := new(MockSchemaSource)
	bindings := new(MockBindingSource)
	o := newTestOrchestrator(gw, cache, schemas, bindings, Config{})

	rec := &record.Record{ID: "loc-1", UserID: 1, RemoteID: "rem-1"}
	cache.On("Get", mock.Anything, 1, "loc-1").Return(rec, nil)

	err := o.ArchiveRecord(context.Background(), 1, nil, "loc-1")

	assert.ErrorIs(t, err, ErrRemoteArchiveFailed)
	cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
