package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventvite/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuthService returns canned Login results.
type fakeAuthService struct {
	token string
	user  *domain.User
	err   error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestAuthController_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeAuthService
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"max@example.com","password":"password123"}`,
			svc: &fakeAuthService{
				token: "signed-token",
				user:  &domain.User{ID: "u1", Email: "max@example.com", FirstName: "Max", LastName: "Muster"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid credentials",
			body:       `{"email":"max@example.com","password":"wrong"}`,
			svc:        &fakeAuthService{err: domain.ErrInvalidCredentials},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "inactive account",
			body:       `{"email":"max@example.com","password":"password123"}`,
			svc:        &fakeAuthService{err: domain.ErrAccountNotActive},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "missing fields",
			body:       `{}`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewAuthController(testLogger(), tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/api/users/authenticate", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			c.Authenticate(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			body := decodeBody(t, rr)
			if tt.wantCode != "" {
				errObj, ok := body["error"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, errObj["code"])
				return
			}
			data, ok := body["data"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "signed-token", data["token"])
			assert.Equal(t, "Bearer", data["token_type"])
			user, ok := data["user"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "u1", user["id"])
			assert.NotContains(t, user, "password_hash")
			assert.NotContains(t, user, "activation_token")
		})
	}
}
