package settings

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, userID int) (*Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, s *Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func newTestService(repo *MockRepository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Save_StampsUpdatedAt(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	st := &Settings{UserID: 1, APIKey: "tok"}
	err := svc.Save(context.Background(), st)

	require.NoError(t, err)
	assert.False(t, st.UpdatedAt.IsZero())
}

func TestService_Binding(t *testing.T) {
	tests := []struct {
		name    string
		stored  *Settings
		err     error
		want    *struct{ apiKey, collectionID string }
		wantErr bool
	}{
		{
			name:   "connected user",
			stored: &Settings{UserID: 1, APIKey: "tok", CollectionID: "col-1"},
			want:   &struct{ apiKey, collectionID string }{"tok", "col-1"},
		},
		{
			name: "no settings row means no binding",
			err:  ErrNotFound,
		},
		{
			name:   "token without collection means no binding",
			stored: &Settings{UserID: 1, APIKey: "tok"},
		},
		{
			name:   "collection without token means no binding",
			stored: &Settings{UserID: 1, CollectionID: "col-1"},
		},
		{
			name:    "storage failure surfaces",
			err:     errors.New("db unavailable"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo)

			if tt.stored != nil {
				repo.On("Get", mock.Anything, 1).Return(tt.stored, nil)
			} else {
				repo.On("Get", mock.Anything, 1).Return(nil, tt.err)
			}

			b, err := svc.Binding(context.Background(), 1)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, b)
				return
			}
			require.NotNil(t, b)
			assert.Equal(t, tt.want.apiKey, b.APIKey)
			assert.Equal(t, tt.want.collectionID, b.CollectionID)
		})
	}
}
