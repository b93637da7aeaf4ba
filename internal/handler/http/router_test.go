// File: internal/handler/http/router_test.go
package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/interfaces"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/repository"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/infrastructure/security"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.TTL = time.Hour
	cfg.JWT.CookieName = "abk_token"
	cfg.JWT.StateSecret = "router-test-state-secret"
	cfg.JWT.OAuthStateTTL = 10 * time.Minute
	cfg.Crypto.Key = "0123456789abcdef0123456789abcdef"
	cfg.Crypto.IV = "abcdef0123456789"
	cfg.App.ConnectionsURL = "https://dashboard.example/connections"
	cfg.App.LoginURL = "https://dashboard.example/login"
	cfg.App.AllowedOrigin = "https://dashboard.example"
	cfg.App.DemoEmail = "demo@abk-review.com"
	cfg.App.DemoPassword = "demo123"
	return cfg
}

type routerFixture struct {
	router     *gin.Engine
	cfg        *config.Config
	jwt        *security.JWTService
	userRepo   *fakeUserRepo
	connRepo   *fakeConnRepo
	stateStore *fakeStateStore
	provider   *fakeProvider
	cipher     *security.TokenCipher
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()

	cipher, err := security.NewTokenCipher(cfg.Crypto.Key, cfg.Crypto.IV)
	require.NoError(t, err)
	jwtService := security.NewJWTService(cfg.JWT.Secret, cfg.JWT.TTL)

	userRepo := &fakeUserRepo{}
	connRepo := &fakeConnRepo{}
	stateStore := newFakeStateStore()
	provider := &fakeProvider{name: models.ProviderFacebook}
	providers := map[models.Provider]interfaces.OAuthProvider{models.ProviderFacebook: provider}

	authService := service.NewAuthService(cfg, logger, userRepo, jwtService)
	connectionService := service.NewConnectionService(logger, connRepo, fakeActivityRepo{}, cipher, providers, nil)
	oauthService := service.NewOAuthService(cfg, logger, providers, repository.StateStore(stateStore), connectionService)

	router := NewRouter(RouterDeps{
		Config:      cfg,
		Logger:      logger,
		JWT:         jwtService,
		Auth:        NewAuthHandler(cfg, logger, authService),
		Connections: NewConnectionHandler(logger, connectionService),
		OAuth:       NewOAuthHandler(cfg, logger, oauthService),
		Health:      NewHealthHandler(nil, nil),
	})

	return &routerFixture{
		router:     router,
		cfg:        cfg,
		jwt:        jwtService,
		userRepo:   userRepo,
		connRepo:   connRepo,
		stateStore: stateStore,
		provider:   provider,
		cipher:     cipher,
	}
}

func (f *routerFixture) bearerToken(t *testing.T, userID int64, isAdmin bool) string {
	t.Helper()
	token, err := f.jwt.Issue(&models.User{ID: userID, Email: "u@example.com", IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
