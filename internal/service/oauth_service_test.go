// File: internal/service/oauth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/interfaces"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

type oauthFixture struct {
	svc        *OAuthService
	provider   *MockOAuthProvider
	stateStore *MockStateStore
	connRepo   *MockConnectionRepository
}

func newOAuthFixture(t *testing.T) *oauthFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.OAuthStateTTL = 10 * time.Minute

	provider := &MockOAuthProvider{name: models.ProviderFacebook}
	providers := map[models.Provider]interfaces.OAuthProvider{models.ProviderFacebook: provider}
	stateStore := new(MockStateStore)

	connRepo := new(MockConnectionRepository)
	activityRepo := new(MockActivityLogRepository)
	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()
	connections := NewConnectionService(zap.NewNop(), connRepo, activityRepo, newTestCipher(t), providers, nil)

	return &oauthFixture{
		svc:        NewOAuthService(cfg, zap.NewNop(), providers, stateStore, connections),
		provider:   provider,
		stateStore: stateStore,
		connRepo:   connRepo,
	}
}

func TestOAuthService_Initiate(t *testing.T) {
	f := newOAuthFixture(t)

	var savedState string
	f.stateStore.On("Save", mock.Anything, mock.AnythingOfType("string"),
		models.OAuthState{UserID: 1, Provider: models.ProviderFacebook}, 10*time.Minute).
		Run(func(args mock.Arguments) { savedState = args.String(1) }).Return(nil)
	f.provider.On("AuthCodeURL", mock.AnythingOfType("string")).
		Return("https://provider.example/authorize")

	authURL, state, err := f.svc.Initiate(context.Background(), 1, models.ProviderFacebook)
	require.NoError(t, err)
	assert.Equal(t, "https://provider.example/authorize", authURL)
	assert.NotEmpty(t, state)
	assert.Equal(t, savedState, state)
}

func TestOAuthService_Initiate_UnknownProvider(t *testing.T) {
	f := newOAuthFixture(t)

	_, _, err := f.svc.Initiate(context.Background(), 1, models.ProviderTwitter)
	assert.ErrorIs(t, err, domainErrors.ErrProviderNotFound)
	f.stateStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOAuthService_HandleCallback(t *testing.T) {
	f := newOAuthFixture(t)
	token := &models.ProviderToken{AccessToken: "user-token"}

	f.stateStore.On("Consume", mock.Anything, "state-1").
		Return(&models.OAuthState{UserID: 1, Provider: models.ProviderFacebook}, nil)
	f.provider.On("Exchange", mock.Anything, "code-1").Return(token, nil)
	f.provider.On("FetchAccounts", mock.Anything, token).Return([]models.ProviderAccount{
		{AccountID: "page-1", AccountName: "Page One", Token: models.ProviderToken{AccessToken: "t1"}},
		{AccountID: "page-2", AccountName: "Page Two", Token: models.ProviderToken{AccessToken: "t2"}},
	}, nil)
	f.connRepo.On("Upsert", mock.Anything, mock.Anything).Return(int64(1), nil).Twice()

	err := f.svc.HandleCallback(context.Background(), 1, models.ProviderFacebook, "code-1", "state-1")
	require.NoError(t, err)
	// Every discovered account becomes its own connection row.
	f.connRepo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestOAuthService_HandleCallback_StateMismatch(t *testing.T) {
	f := newOAuthFixture(t)
	f.stateStore.On("Consume", mock.Anything, "bogus").Return(nil, domainErrors.ErrStateMismatch)

	err := f.svc.HandleCallback(context.Background(), 1, models.ProviderFacebook, "code-1", "bogus")
	assert.ErrorIs(t, err, domainErrors.ErrStateMismatch)

	// State is checked before any provider traffic.
	f.provider.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
	f.provider.AssertNotCalled(t, "FetchAccounts", mock.Anything, mock.Anything)
}

func TestOAuthService_HandleCallback_StateForOtherUser(t *testing.T) {
	f := newOAuthFixture(t)
	f.stateStore.On("Consume", mock.Anything, "state-1").
		Return(&models.OAuthState{UserID: 99, Provider: models.ProviderFacebook}, nil)

	err := f.svc.HandleCallback(context.Background(), 1, models.ProviderFacebook, "code-1", "state-1")
	assert.ErrorIs(t, err, domainErrors.ErrStateMismatch)
	f.provider.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestOAuthService_HandleCallback_StateForOtherProvider(t *testing.T) {
	f := newOAuthFixture(t)
	f.stateStore.On("Consume", mock.Anything, "state-1").
		Return(&models.OAuthState{UserID: 1, Provider: models.ProviderGoogleBusiness}, nil)

	err := f.svc.HandleCallback(context.Background(), 1, models.ProviderFacebook, "code-1", "state-1")
	assert.ErrorIs(t, err, domainErrors.ErrStateMismatch)
	f.provider.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestOAuthService_HandleCallback_NoCode(t *testing.T) {
	f := newOAuthFixture(t)

	err := f.svc.HandleCallback(context.Background(), 1, models.ProviderFacebook, "", "state-1")
	assert.ErrorIs(t, err, domainErrors.ErrNoAuthCode)
	// The state is left untouched so a retry with a code can still succeed.
	f.stateStore.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestOAuthService_HandleCallback_ExchangeFails(t *testing.T) {
	f := newOAuthFixture(t)
	f.stateStore.On("Consume", mock.Anything, "state-1").
		Return(&models.OAuthState{UserID: 1, Provider: models.ProviderFacebook}, nil)
	f.provider.On("Exchange", mock.Anything, "bad-code").Return(nil, domainErrors.ErrProvider)

	err := f.svc.HandleCallback(context.Background(), 1, models.ProviderFacebook, "bad-code", "state-1")
	assert.ErrorIs(t, err, domainErrors.ErrProvider)
	f.connRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
