package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
	"fieldkeeper/internal/remote"
)

// MockGateway is a mock implementation of the RemoteGateway interface for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) QueryRecords(ctx context.Context, apiKey, collectionID, cursor string, pageSize int) (*remote.QueryResult, error) {
	args := m.Called(ctx, apiKey, collectionID, cursor, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.QueryResult), args.Error(1)
}

func (m *MockGateway) CreateRecord(ctx context.Context, apiKey, collectionID string, props map[string]remote.PropertyValue) (*remote.CreatedRecord, error) {
	args := m.Called(ctx, apiKey, collectionID, props)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.CreatedRecord), args.Error(1)
}

func (m *MockGateway) ArchiveRecord(ctx context.Context, apiKey, remoteID string) error {
	args := m.Called(ctx, apiKey, remoteID)
	return args.Error(0)
}

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) ListByUser(ctx context.Context, userID int) ([]record.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]record.Record), args.Error(1)
}

func (m *MockCache) Get(ctx context.Context, userID int, id string) (*record.Record, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.Record), args.Error(1)
}

func (m *MockCache) Upsert(ctx context.Context, rec *record.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, userID int, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockSchemaSource is a mock implementation of the SchemaSource interface for testing
type MockSchemaSource struct {
	mock.Mock
}

func (m *MockSchemaSource) GetActive(ctx context.Context, userID int) (*schema.Schema, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Schema), args.Error(1)
}

// MockBindingSource is a mock implementation of the BindingSource interface for testing
type MockBindingSource struct {
	mock.Mock
}

func (m *MockBindingSource) Binding(ctx context.Context, userID int) (*Binding, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Binding), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func titleProp(s string) remote.PropertyValue {
	return remote.PropertyValue{Title: []remote.RichTextSpan{{PlainText: s}}}
}

func testSchema() *schema.Schema {
	return &schema.Schema{
		ID:     "sch-1",
		UserID: 1,
		Name:   "Workout",
		Fields: []schema.FieldConfig{
			{ID: "title", DisplayName: "Name", Kind: schema.KindTitle},
			{ID: "when", DisplayName: "Time", Kind: schema.KindDate},
			{ID: "reps", DisplayName: "Reps", Kind: schema.KindNumber},
		},
	}
}

func testBinding() *Binding {
	return &Binding{APIKey: "secret-key", CollectionID: "col-1"}
}

func TestEngine_Reconcile_NoBinding(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	cached := []record.Record{{ID: "loc-1", UserID: 1}}
	cache.On("ListByUser", mock.Anything, 1).Return(cached, nil)

	got, err := engine.Reconcile(context.Background(), 1, nil, testSchema())

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	gw.AssertNotCalled(t, "QueryRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Reconcile_Pagination(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{PageSize: 100})

	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	firstPage := make([]remote.Record, 0, 100)
	for i := 0; i < 100; i++ {
		firstPage = append(firstPage, remote.Record{
			ID:         fmt.Sprintf("rem-%d", i),
			Properties: map[string]remote.PropertyValue{"Name": titleProp(fmt.Sprintf("entry %d", i))},
		})
	}
	secondPage := make([]remote.Record, 0, 12)
	for i := 100; i < 112; i++ {
		secondPage = append(secondPage, remote.Record{
			ID:         fmt.Sprintf("rem-%d", i),
			Properties: map[string]remote.PropertyValue{"Name": titleProp(fmt.Sprintf("entry %d", i))},
		})
	}

	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: firstPage, HasMore: true, NextCursor: "cur-2"}, nil).Once()
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "cur-2", 100).
		Return(&remote.QueryResult{Results: secondPage, HasMore: false}, nil).Once()

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), testSchema())

	require.NoError(t, err)
	assert.Len(t, got, 112)
	gw.AssertNumberOfCalls(t, "QueryRecords", 2)
	cache.AssertNumberOfCalls(t, "Upsert", 112)
}

func TestEngine_Reconcile_FiltersArchivedAndMissingIDs(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	page := []remote.Record{
		{ID: "rem-1", Properties: map[string]remote.PropertyValue{"Name": titleProp("keep")}},
		{ID: "rem-2", Archived: true, Properties: map[string]remote.PropertyValue{"Name": titleProp("archived")}},
		{ID: "", Properties: map[string]remote.PropertyValue{"Name": titleProp("no id")}},
		{ID: "rem-3", Properties: map[string]remote.PropertyValue{"Name": titleProp("keep too")}},
	}
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: page}, nil)

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), testSchema())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rem-1", got[0].RemoteID)
	assert.Equal(t, "rem-3", got[1].RemoteID)
	for _, rec := range got {
		assert.NotEmpty(t, rec.RemoteID)
	}
}

func TestEngine_Reconcile_RemoteWinsKeepsLocalIdentity(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	local := record.Record{
		ID:        "loc-1",
		UserID:    1,
		SchemaID:  "sch-1",
		RemoteID:  "rem-1",
		CreatedAt: created,
		Values:    record.Values{"title": record.TitleValue("old local title")},
	}
	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{local}, nil)

	var upserted *record.Record
	cache.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(1).(*record.Record)
	}).Return(nil)

	reps := 35.0
	page := []remote.Record{{
		ID:  "rem-1",
		URL: "https://docstore.example/rem-1",
		Properties: map[string]remote.PropertyValue{
			"Name": titleProp("fresh remote title"),
			"Reps": {Number: &reps},
		},
	}}
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: page}, nil)

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), testSchema())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "loc-1", got[0].ID)
	assert.Equal(t, created, got[0].CreatedAt)
	assert.Equal(t, "fresh remote title", got[0].Values["title"].Text)
	assert.Equal(t, 35.0, got[0].Values["reps"].Number)
	assert.Equal(t, "https://docstore.example/rem-1", got[0].RemoteURL)
	require.NotNil(t, upserted)
	assert.Equal(t, "loc-1", upserted.ID)
}

func TestEngine_Reconcile_SameTitleDifferentIDsStaySeparate(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	when := "2026-03-01T07:30:00Z"
	page := []remote.Record{
		{ID: "rem-a", Properties: map[string]remote.PropertyValue{
			"Name": titleProp("Morning run"),
			"Time": {Date: &remote.DateValue{Start: when}},
		}},
		{ID: "rem-b", Properties: map[string]remote.PropertyValue{
			"Name": titleProp("Morning run"),
			"Time": {Date: &remote.DateValue{Start: when}},
		}},
	}
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: page}, nil)

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), testSchema())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.NotEqual(t, got[0].RemoteID, got[1].RemoteID)
}

func TestEngine_Reconcile_LoggedAtFromDateField(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{}, nil)
	cache.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	page := []remote.Record{{
		ID: "rem-1",
		Properties: map[string]remote.PropertyValue{
			"Name": titleProp("dated"),
			"Time": {Date: &remote.DateValue{Start: "2026-05-04T12:00:00Z"}},
		},
	}}
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: page}, nil)

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), testSchema())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC), got[0].LoggedAt)
}

func TestEngine_Reconcile_FetchFailureCachesNothing(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{{ID: "loc-1"}}, nil)
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(nil, errors.New("store is down"))

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), testSchema())

	require.Error(t, err)
	assert.Nil(t, got)
	cache.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestEngine_Reconcile_NilSchemaUsesLegacyFields(t *testing.T) {
	gw := new(MockGateway)
	cache := new(MockCache)
	engine := NewEngine(gw, cache, testLogger(), Config{})

	cache.On("ListByUser", mock.Anything, 1).Return([]record.Record{}, nil)

	var upserted *record.Record
	cache.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(1).(*record.Record)
	}).Return(nil)

	page := []remote.Record{{
		ID: "rem-1",
		Properties: map[string]remote.PropertyValue{
			"Name":  titleProp("legacy entry"),
			"Notes": {RichText: []remote.RichTextSpan{{PlainText: "some notes"}}},
		},
	}}
	gw.On("QueryRecords", mock.Anything, "secret-key", "col-1", "", 100).
		Return(&remote.QueryResult{Results: page}, nil)

	got, err := engine.Reconcile(context.Background(), 1, testBinding(), nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].SchemaID)
	require.NotNil(t, upserted)

	names := make(map[string]bool, len(upserted.Values))
	for id := range upserted.Values {
		names[id] = true
	}
	for _, f := range remote.LegacyFields() {
		assert.True(t, names[f.ID], "expected legacy field %q in values", f.ID)
	}
}
