package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hoangit2k2/lovepink/internal/application/services"
	"github.com/hoangit2k2/lovepink/internal/core/domain/account"
	"github.com/hoangit2k2/lovepink/internal/core/domain/token"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/httpserver"
	"github.com/hoangit2k2/lovepink/test/mocks"
)

func newTestServer(securityMock *mocks.SecurityServiceMock, authMock *mocks.AuthServiceMock) *httpserver.Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return httpserver.NewServer(&httpserver.ServerConfig{
		Host:      "127.0.0.1",
		Port:      "0",
		CookieTTL: 10 * time.Minute,
	}, logger, httpserver.ServerDeps{
		SecurityService: securityMock,
		AuthService:     authMock,
	})
}

func postJSON(t *testing.T, srv *httpserver.Server, path string, body map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func recoveryCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestStartRecovery_GenericAckAndCookie(t *testing.T) {
	securityMock := &mocks.SecurityServiceMock{StartRecoveryFn: func(ctx context.Context, address string) (string, error) {
		return "handle-1", nil
	}}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/start", map[string]string{"address": "alice@example.com"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	cookie := recoveryCookie(rec, "recovery_handle")
	require.NotNil(t, cookie)
	require.Equal(t, "handle-1", cookie.Value)
	require.True(t, cookie.HttpOnly)

	// The handle travels in the cookie, never in the response body.
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotContains(t, body["message"], "handle-1")
}

func TestStartRecovery_DeliveryFailureIsBadGateway(t *testing.T) {
	securityMock := &mocks.SecurityServiceMock{StartRecoveryFn: func(ctx context.Context, address string) (string, error) {
		return "", services.ErrDelivery
	}}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/start", map[string]string{"address": "alice@example.com"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStartRecovery_InvalidAddress(t *testing.T) {
	srv := newTestServer(&mocks.SecurityServiceMock{}, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/start", map[string]string{"address": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyRecoveryCode_HandleFromCookie(t *testing.T) {
	var seenHandle string
	securityMock := &mocks.SecurityServiceMock{VerifyRecoveryCodeFn: func(ctx context.Context, handle, code string) (string, error) {
		seenHandle = handle
		return "grant-1", nil
	}}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/verify",
		map[string]string{"code": "LP-AAAA1111"},
		&http.Cookie{Name: "recovery_handle", Value: "handle-1"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "handle-1", seenHandle)

	cookie := recoveryCookie(rec, "recovery_grant")
	require.NotNil(t, cookie)
	require.Equal(t, "grant-1", cookie.Value)
}

func TestVerifyRecoveryCode_AllTokenFailuresLookAlike(t *testing.T) {
	for _, cause := range []error{token.ErrNotFound, token.ErrExpired, token.ErrAlreadyConsumed, token.ErrCodeMismatch} {
		securityMock := &mocks.SecurityServiceMock{VerifyRecoveryCodeFn: func(ctx context.Context, handle, code string) (string, error) {
			return "", cause
		}}
		srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

		rec := postJSON(t, srv, "/api/v1/security/recovery/verify",
			map[string]string{"handle": "handle-1", "code": "LP-AAAA1111"})

		require.Equal(t, http.StatusBadRequest, rec.Code, "cause: %v", cause)
		require.Contains(t, rec.Body.String(), "invalid or expired verification code", "cause: %v", cause)
	}
}

func TestVerifyRecoveryCode_TooManyAttempts(t *testing.T) {
	securityMock := &mocks.SecurityServiceMock{VerifyRecoveryCodeFn: func(ctx context.Context, handle, code string) (string, error) {
		return "", services.ErrTooManyAttempts
	}}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/verify",
		map[string]string{"handle": "handle-1", "code": "LP-AAAA1111"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVerifyRecoveryCode_MissingHandle(t *testing.T) {
	srv := newTestServer(&mocks.SecurityServiceMock{}, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/verify", map[string]string{"code": "LP-AAAA1111"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteRecovery_ClearsCookies(t *testing.T) {
	securityMock := &mocks.SecurityServiceMock{}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/complete",
		map[string]string{"new_password": "newpass12", "confirm_password": "newpass12"},
		&http.Cookie{Name: "recovery_handle", Value: "handle-1"},
		&http.Cookie{Name: "recovery_grant", Value: "grant-1"})

	require.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{"recovery_handle", "recovery_grant"} {
		cookie := recoveryCookie(rec, name)
		require.NotNil(t, cookie)
		require.Less(t, cookie.MaxAge, 0)
	}
}

func TestCompleteRecovery_ConfirmationMismatchIsSpecific(t *testing.T) {
	securityMock := &mocks.SecurityServiceMock{CompleteRecoveryFn: func(ctx context.Context, handle, grant, newPassword, confirmPassword string) error {
		return account.ErrConfirmationMismatch
	}}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/recovery/complete",
		map[string]string{"handle": "handle-1", "grant": "grant-1", "new_password": "newpass12", "confirm_password": "newpass13"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "confirmation")
}

func TestChangePassword_RequiresAuth(t *testing.T) {
	srv := newTestServer(&mocks.SecurityServiceMock{}, &mocks.AuthServiceMock{})

	rec := postJSON(t, srv, "/api/v1/security/password",
		map[string]string{"old_password": "oldpass99", "new_password": "newpass12", "confirm_password": "newpass12"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_AuthenticatedFlow(t *testing.T) {
	var seenUsername string
	securityMock := &mocks.SecurityServiceMock{ChangePasswordFn: func(ctx context.Context, username string, req *account.ChangePasswordRequest) error {
		seenUsername = username
		return nil
	}}
	srv := newTestServer(securityMock, &mocks.AuthServiceMock{})

	b, err := json.Marshal(map[string]string{"old_password": "oldpass99", "new_password": "newpass12", "confirm_password": "newpass12"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/security/password", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", seenUsername)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	authMock := &mocks.AuthServiceMock{LoginFn: func(ctx context.Context, req *account.LoginRequest) (*account.TokenPair, error) {
		return nil, account.ErrNotFound
	}}
	srv := newTestServer(&mocks.SecurityServiceMock{}, authMock)

	rec := postJSON(t, srv, "/api/v1/auth/login", map[string]string{"username": "alice", "password": "wrongpass1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
