package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	args := m.Called(ctx, tokenHash)
	return args.Int(0), args.Error(1)
}

func newTestService(repo *MockRepository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Create_StoresOnlyHash(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	var storedHash string
	repo.On("Create", mock.Anything, 42, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).Return(nil)

	token, err := svc.Create(context.Background(), 42)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, storedHash)

	sum := sha256.Sum256([]byte(token))
	assert.Equal(t, hex.EncodeToString(sum[:]), storedHash)
}

func TestService_Create_TokensAreUnique(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, 42, mock.Anything, mock.Anything).Return(nil)

	first, err := svc.Create(context.Background(), 42)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), 42)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestService_Validate(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	token := "presented-token"
	sum := sha256.Sum256([]byte(token))
	repo.On("Validate", mock.Anything, hex.EncodeToString(sum[:])).Return(42, nil)

	userID, err := svc.Validate(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestService_Validate_Expired(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("Validate", mock.Anything, mock.Anything).Return(0, ErrInvalidSession)

	userID, err := svc.Validate(context.Background(), "stale-token")

	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Zero(t, userID)
}
