// File: internal/service/mocks_test.go
package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*models.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	args := m.Called(ctx, userID)
	if conns, ok := args.Get(0).([]*models.PlatformConnection); ok {
		return conns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConnectionRepository) GetByID(ctx context.Context, userID, id int64) (*models.PlatformConnection, error) {
	args := m.Called(ctx, userID, id)
	if conn, ok := args.Get(0).(*models.PlatformConnection); ok {
		return conn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockConnectionRepository) Upsert(ctx context.Context, conn *models.PlatformConnection) (int64, error) {
	args := m.Called(ctx, conn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConnectionRepository) UpdateTokens(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	args := m.Called(ctx, id, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

func (m *MockConnectionRepository) RecordSyncResult(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error {
	args := m.Called(ctx, id, syncedAt, syncErr)
	return args.Error(0)
}

func (m *MockConnectionRepository) Delete(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Save(ctx context.Context, state string, flow models.OAuthState, ttl time.Duration) error {
	args := m.Called(ctx, state, flow, ttl)
	return args.Error(0)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (*models.OAuthState, error) {
	args := m.Called(ctx, state)
	if flow, ok := args.Get(0).(*models.OAuthState); ok {
		return flow, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOAuthProvider struct {
	mock.Mock
	name models.Provider
}

func (m *MockOAuthProvider) Name() models.Provider { return m.name }

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (*models.ProviderToken, error) {
	args := m.Called(ctx, code)
	if token, ok := args.Get(0).(*models.ProviderToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOAuthProvider) FetchAccounts(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error) {
	args := m.Called(ctx, token)
	if accounts, ok := args.Get(0).([]models.ProviderAccount); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOAuthProvider) Refresh(ctx context.Context, refreshToken string) (*models.ProviderToken, error) {
	args := m.Called(ctx, refreshToken)
	if token, ok := args.Get(0).(*models.ProviderToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOAuthProvider) Sync(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error) {
	args := m.Called(ctx, conn, accessToken)
	return args.Int(0), args.Error(1)
}
