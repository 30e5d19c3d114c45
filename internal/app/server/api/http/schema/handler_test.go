package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldkeeper/internal/app/server/api/http/middleware/auth"
	"fieldkeeper/internal/domain/schema"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) GetActive(ctx context.Context, userID int) (*schema.Schema, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Schema), args.Error(1)
}

func (m *MockRegistrar) SetActive(ctx context.Context, userID int, schemaID string) error {
	args := m.Called(ctx, userID, schemaID)
	return args.Error(0)
}

func (m *MockRegistrar) InstantiateFromTemplate(ctx context.Context, templateID string, userID int) (*schema.Schema, error) {
	args := m.Called(ctx, templateID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Schema), args.Error(1)
}

func (m *MockRegistrar) List(ctx context.Context, userID int) ([]schema.Schema, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.Schema), args.Error(1)
}

func TestHandler_List(t *testing.T) {
	userID := 42
	authCtx := auth.WithUserID(context.Background(), userID)

	t.Run("Success", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		schemas := []schema.Schema{{ID: "sch-1", Name: "Meal Log"}}
		reg.On("List", mock.Anything, userID).Return(schemas, nil)

		resp, err := h.list(authCtx, nil)

		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		assert.Equal(t, schemas, resp.Body.Schemas)
	})

	t.Run("Unauthorized_NoUserInContext", func(t *testing.T) {
		h := NewHandler(nil, nil, nil)

		resp, err := h.list(context.Background(), nil)

		assert.Nil(t, resp)
		assert.Error(t, err)
	})
}

func TestHandler_Templates(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	authCtx := auth.WithUserID(context.Background(), 1)

	resp, err := h.templates(authCtx, nil)

	require.NoError(t, err)
	assert.Equal(t, "Ok", resp.Body.Status)
	assert.Equal(t, schema.Templates(), resp.Body.Templates)
}

func TestHandler_Instantiate(t *testing.T) {
	userID := 42
	authCtx := auth.WithUserID(context.Background(), userID)

	t.Run("Success", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		created := &schema.Schema{ID: "sch-new", UserID: userID, Name: "Workout Log"}
		reg.On("InstantiateFromTemplate", mock.Anything, "workout-log", userID).Return(created, nil)

		input := &instantiateInput{}
		input.Body.TemplateID = "workout-log"

		resp, err := h.instantiate(authCtx, input)

		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		assert.Equal(t, created, resp.Body.Schema)
	})

	t.Run("UnknownTemplate_422", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		reg.On("InstantiateFromTemplate", mock.Anything, "bogus", userID).
			Return(nil, schema.ErrTemplateNotFound)

		input := &instantiateInput{}
		input.Body.TemplateID = "bogus"

		resp, err := h.instantiate(authCtx, input)

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown template")
	})
}

func TestHandler_Activate(t *testing.T) {
	userID := 42
	authCtx := auth.WithUserID(context.Background(), userID)

	t.Run("Success", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		reg.On("SetActive", mock.Anything, userID, "sch-1").Return(nil)

		input := &activateInput{}
		input.Body.SchemaID = "sch-1"

		resp, err := h.activate(authCtx, input)

		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
	})

	t.Run("UnknownSchema_422", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		reg.On("SetActive", mock.Anything, userID, "sch-gone").Return(schema.ErrNotFound)

		input := &activateInput{}
		input.Body.SchemaID = "sch-gone"

		resp, err := h.activate(authCtx, input)

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown schema")
	})
}

func TestHandler_GetActive(t *testing.T) {
	userID := 42
	authCtx := auth.WithUserID(context.Background(), userID)

	t.Run("Success", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		active := &schema.Schema{ID: "sch-1", Name: "Meal Log"}
		reg.On("GetActive", mock.Anything, userID).Return(active, nil)

		resp, err := h.getActive(authCtx, nil)

		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		assert.Equal(t, active, resp.Body.Schema)
	})

	t.Run("NoSchemas_NilIsOk", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		reg.On("GetActive", mock.Anything, userID).Return(nil, nil)

		resp, err := h.getActive(authCtx, nil)

		require.NoError(t, err)
		assert.Equal(t, "Ok", resp.Body.Status)
		assert.Nil(t, resp.Body.Schema)
	})

	t.Run("RepoFailure_StatusError", func(t *testing.T) {
		reg := new(MockRegistrar)
		h := NewHandler(reg, nil, nil)

		reg.On("GetActive", mock.Anything, userID).Return(nil, errors.New("db unavailable"))

		resp, err := h.getActive(authCtx, nil)

		require.NoError(t, err)
		assert.Equal(t, "Error", resp.Body.Status)
		assert.Contains(t, resp.Body.Error, "db unavailable")
	})
}
