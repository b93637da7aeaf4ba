// File: internal/handler/http/handler_fakes_test.go
package http

import (
	"context"
	"time"

	domainErrors "github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/errors"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
)

// Function-field fakes keep each test explicit about the repository
// behavior it depends on; anything a test does not set panics on use.

type fakeUserRepo struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	listFn       func(ctx context.Context) ([]*models.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	panic("GetByID not stubbed")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listFn(ctx)
}

type fakeConnRepo struct {
	listByUserFn func(ctx context.Context, userID int64) ([]*models.PlatformConnection, error)
	getByIDFn    func(ctx context.Context, userID, id int64) (*models.PlatformConnection, error)
	upsertFn     func(ctx context.Context, conn *models.PlatformConnection) (int64, error)
	recordSyncFn func(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error
	deleteFn     func(ctx context.Context, userID, id int64) error
}

func (f *fakeConnRepo) ListByUser(ctx context.Context, userID int64) ([]*models.PlatformConnection, error) {
	return f.listByUserFn(ctx, userID)
}

func (f *fakeConnRepo) GetByID(ctx context.Context, userID, id int64) (*models.PlatformConnection, error) {
	return f.getByIDFn(ctx, userID, id)
}

func (f *fakeConnRepo) Upsert(ctx context.Context, conn *models.PlatformConnection) (int64, error) {
	return f.upsertFn(ctx, conn)
}

func (f *fakeConnRepo) UpdateTokens(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	panic("UpdateTokens not stubbed")
}

func (f *fakeConnRepo) RecordSyncResult(ctx context.Context, id int64, syncedAt time.Time, syncErr *string) error {
	return f.recordSyncFn(ctx, id, syncedAt, syncErr)
}

func (f *fakeConnRepo) Delete(ctx context.Context, userID, id int64) error {
	return f.deleteFn(ctx, userID, id)
}

type fakeActivityRepo struct{}

func (fakeActivityRepo) Insert(ctx context.Context, entry *models.ActivityLog) error { return nil }

type fakeStateStore struct {
	flows map[string]models.OAuthState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{flows: make(map[string]models.OAuthState)}
}

func (f *fakeStateStore) Save(ctx context.Context, state string, flow models.OAuthState, ttl time.Duration) error {
	f.flows[state] = flow
	return nil
}

func (f *fakeStateStore) Consume(ctx context.Context, state string) (*models.OAuthState, error) {
	flow, ok := f.flows[state]
	if !ok {
		return nil, domainErrors.ErrStateMismatch
	}
	delete(f.flows, state)
	return &flow, nil
}

type fakeProvider struct {
	name            models.Provider
	authCodeURLFn   func(state string) string
	exchangeFn      func(ctx context.Context, code string) (*models.ProviderToken, error)
	fetchAccountsFn func(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error)
	refreshFn       func(ctx context.Context, refreshToken string) (*models.ProviderToken, error)
	syncFn          func(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error)
}

func (f *fakeProvider) Name() models.Provider { return f.name }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return f.authCodeURLFn(state)
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (*models.ProviderToken, error) {
	return f.exchangeFn(ctx, code)
}

func (f *fakeProvider) FetchAccounts(ctx context.Context, token *models.ProviderToken) ([]models.ProviderAccount, error) {
	return f.fetchAccountsFn(ctx, token)
}

func (f *fakeProvider) Refresh(ctx context.Context, refreshToken string) (*models.ProviderToken, error) {
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeProvider) Sync(ctx context.Context, conn *models.PlatformConnection, accessToken string) (int, error) {
	return f.syncFn(ctx, conn, accessToken)
}
