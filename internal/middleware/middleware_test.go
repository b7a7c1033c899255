package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lotto-happy/internal/models"
	"lotto-happy/internal/session"
)

const secret = "test-secret"

func signToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(exp)},
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// echoSession reports the session the handler saw.
var echoSession = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	s, ok := session.From(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = json.NewEncoder(w).Encode(s)
})

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct{ Code string } `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticate(t *testing.T) {
	h := NewAuthenticator(secret, zap.NewNop()).Handler(echoSession)
	valid := signToken(t, "u1", "player", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		user   string
	}{
		{"anonymous", func(*http.Request) {}, http.StatusNoContent, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, http.StatusOK, "u1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: valid}) }, http.StatusOK, "u1"},
		{"expired", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "player", time.Now().Add(-time.Minute)))
		}, http.StatusUnauthorized, ""},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)
			if tt.user != "" {
				var s session.Session
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
				assert.Equal(t, tt.user, s.UserID)
				assert.Equal(t, models.RolePlayer, s.Role)
				assert.Equal(t, valid, s.Token)
				assert.True(t, s.Verified)
			}
		})
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	h := NewAuthenticator("other-secret", zap.NewNop()).Handler(echoSession)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "player", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
}

func TestAuthenticateUnverified(t *testing.T) {
	h := NewAuthenticator("", zap.NewNop()).Handler(echoSession)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "r9", "reseller", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var s session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, models.RoleReseller, s.Role)
	assert.False(t, s.Verified)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleReseller)(echoSession)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.With(req.Context(), session.Session{UserID: "u1", Role: models.RolePlayer}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	req = req.WithContext(session.With(req.Context(), session.Session{UserID: "r1", Role: models.RoleReseller}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func signedInitData(botToken string, userJSON string) string {
	dataCheck := "auth_date=1700000000\nuser=" + userJSON
	v := url.Values{}
	v.Set("auth_date", "1700000000")
	v.Set("user", userJSON)
	v.Set("hash", SignInitData(dataCheck, botToken))
	return v.Encode()
}

func basicAuth(user, pass string) func(*http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		r.SetBasicAuth(user, pass)
		return r
	}
}

func initDataHeader(data string) func(*http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		r.Header.Set("X-Telegram-Init-Data", data)
		return r
	}
}

func initDataCookie(data string) func(*http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		r.AddCookie(&http.Cookie{Name: "tg_init_data", Value: url.QueryEscape(data)})
		return r
	}
}

func TestAdminAuth(t *testing.T) {
	a := &AdminAuth{Password: "s3cret", BotToken: "bot-token", AdminIDs: []int64{111}, ServiceToken: "svc", Log: zap.NewNop()}
	h := a.Handler(echoSession)

	serve := func(setup func(r *http.Request) *http.Request) *httptest.ResponseRecorder {
		req := setup(httptest.NewRequest(http.MethodGet, "/api/admin/draws", nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(func(r *http.Request) *http.Request { return r })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	rec = serve(basicAuth("admin", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(basicAuth("admin", "s3cret"))
	require.Equal(t, http.StatusOK, rec.Code)
	var s session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "svc", s.Token)
	assert.Equal(t, models.RoleAdmin, s.Role)
	assert.True(t, s.Verified)

	admin := signedInitData("bot-token", `{"id":111,"first_name":"Ama","username":"ama"}`)
	rec = serve(initDataHeader(admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(initDataCookie(admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	stranger := signedInitData("bot-token", `{"id":222,"first_name":"Kofi"}`)
	rec = serve(initDataHeader(stranger))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged := signedInitData("other-bot", `{"id":111}`)
	rec = serve(initDataHeader(forged))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(func(r *http.Request) *http.Request {
		return r.WithContext(session.With(r.Context(), session.Session{Token: "jwt", UserID: "a1", Role: models.RoleFinance, Verified: true}))
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(func(r *http.Request) *http.Request {
		return r.WithContext(session.With(r.Context(), session.Session{Token: "jwt", UserID: "a2", Role: models.RoleAdmin}))
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthNeedsVerifiedToken(t *testing.T) {
	a := &AdminAuth{Password: "s3cret", ServiceToken: "svc", Log: zap.NewNop()}

	forgedTok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "attacker", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	forged, err := forgedTok.SignedString([]byte("anything"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
		status int
	}{
		{"decoded only", "", forged, http.StatusUnauthorized},
		{"verified admin", secret, signToken(t, "a1", "admin", time.Now().Add(time.Hour)), http.StatusOK},
		{"verified player", secret, signToken(t, "u1", "player", time.Now().Add(time.Hour)), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthenticator(tt.secret, zap.NewNop()).Handler(a.Handler(echoSession))
			req := httptest.NewRequest(http.MethodPost, "/api/admin/local/balances/attacker", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestValidateInitDataNeedsToken(t *testing.T) {
	_, err := ValidateInitData(signedInitData("x", `{"id":1}`), "")
	assert.ErrorIs(t, err, errBotTokenMissing)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, zap.NewNop())
	h := rl.Handler(echoSession)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, "buckets are per client")

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 2, rl.Cleanup(-time.Second))
}
