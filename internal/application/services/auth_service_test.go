package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	config "github.com/hoangit2k2/lovepink/configs"
	impl "github.com/hoangit2k2/lovepink/internal/application/services"
	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	tmocks "github.com/hoangit2k2/lovepink/test/mocks"
)

func newAuthFixture(t *testing.T, blacklist *tmocks.SessionBlacklistMock) *impl.AuthService {
	t.Helper()
	repo := &tmocks.AccountRepositoryMock{GetByUsernameFn: func(ctx context.Context, username string) (*account.Account, error) {
		if username == "alice" {
			return &account.Account{Username: "alice", PasswordHash: mustHash(t, "strongpass1")}, nil
		}
		return nil, account.ErrNotFound
	}}
	jwtCfg := &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour}
	return impl.NewAuthService(repo, blacklist, jwtCfg, testLogger())
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc := newAuthFixture(t, &tmocks.SessionBlacklistMock{})

	pair, err := svc.Login(context.Background(), &account.LoginRequest{Username: "alice", Password: "strongpass1"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	claims, err := svc.ValidateToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthFixture(t, &tmocks.SessionBlacklistMock{})
	ctx := context.Background()

	_, err := svc.Login(ctx, &account.LoginRequest{Username: "alice", Password: "wrongpass1"})
	require.Error(t, err)

	// Unknown username maps to the same generic failure.
	_, err = svc.Login(ctx, &account.LoginRequest{Username: "nobody", Password: "strongpass1"})
	require.Error(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	revoked := map[string]bool{}
	blacklist := &tmocks.SessionBlacklistMock{
		RevokeFn: func(ctx context.Context, tokenHash string, expiresAt time.Time) error {
			revoked[tokenHash] = true
			return nil
		},
		IsRevokedFn: func(ctx context.Context, tokenHash string) (bool, error) {
			return revoked[tokenHash], nil
		},
	}
	svc := newAuthFixture(t, blacklist)
	ctx := context.Background()

	pair, err := svc.Login(ctx, &account.LoginRequest{Username: "alice", Password: "strongpass1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	_, err = svc.ValidateToken(ctx, pair.AccessToken)
	require.Error(t, err)
}

func TestLogout_GarbageTokenIsNoop(t *testing.T) {
	blacklist := &tmocks.SessionBlacklistMock{RevokeFn: func(ctx context.Context, tokenHash string, expiresAt time.Time) error {
		t.Fatalf("an unusable token must not be stored")
		return nil
	}}
	svc := newAuthFixture(t, blacklist)

	require.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := newAuthFixture(t, &tmocks.SessionBlacklistMock{})
	pair, err := issuer.Login(context.Background(), &account.LoginRequest{Username: "alice", Password: "strongpass1"})
	require.NoError(t, err)

	verifier := impl.NewAuthService(&tmocks.AccountRepositoryMock{}, &tmocks.SessionBlacklistMock{},
		&config.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Hour}, testLogger())

	_, err = verifier.ValidateToken(context.Background(), pair.AccessToken)
	require.Error(t, err)
}
