// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/event-backend/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	tokens := newTestTokenManager(t)
	users := newMemoryUsers()
	gate := NewGate(tokens, users, nil)

	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewHandler(NewService(tokens, users, false)).
		RegisterRoutes(r, middleware.Authenticator(gate), passthrough)
	return r
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandler_SignupLoginMe(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec, env := do(t, h, jsonRequest(http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "password")

	rec, env = do(t, h, jsonRequest(http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ADA@example.com","password":"secret1"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	form := url.Values{"username": {"ada@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, env = do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var tok TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec, env = do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"role":"normal"`)
	assert.Contains(t, string(env.Data), `"email":"ada@example.com"`)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			req:        jsonRequest(http.MethodPost, "/auth/signup", `{"name":`),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name: "invalid email",
			req: jsonRequest(http.MethodPost, "/auth/signup",
				`{"name":"Ada","email":"nope","password":"secret1"}`),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "admin signup closed",
			req: jsonRequest(http.MethodPost, "/auth/signup",
				`{"name":"Eve","email":"eve@example.com","password":"secret1","role":"admin"}`),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name: "unknown login",
			req: jsonRequest(http.MethodPost, "/auth/login",
				`{"email":"ghost@example.com","password":"secret1"}`),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "me without token",
			req:        httptest.NewRequest(http.MethodGet, "/auth/me", nil),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		rec, env := do(t, h, tt.req)
		assert.Equal(t, tt.wantStatus, rec.Code, tt.name)
		require.NotNil(t, env.Error, tt.name)
		assert.Equal(t, tt.wantCode, env.Error.Code, tt.name)
	}
}
