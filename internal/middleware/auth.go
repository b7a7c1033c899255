// Package middleware holds the HTTP middleware shared by the routes.
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"lotto-happy/internal/models"
	"lotto-happy/internal/session"
)

// TokenCookie is where the web app keeps the backend token.
const TokenCookie = "lotto_token"

// Claims are the fields read from backend-issued tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator attaches a session for requests carrying a backend token.
// Requests without a token pass through anonymous; RequireRole decides.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
	log    *zap.Logger
}

// NewAuthenticator verifies HS256 signatures when secret is set. Without it
// claims are only decoded and the session is left unverified: good for
// routing to the backend, which checks the token itself, and nothing else.
func NewAuthenticator(secret string, log *zap.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
		log:    log.Named("auth"),
	}
}

func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFrom(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := a.parse(raw)
		if err != nil {
			a.log.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Session expirée, veuillez vous reconnecter")
			return
		}
		ctx := session.With(r.Context(), session.Session{
			Token:  raw,
			UserID: claims.Subject,
			Role:   models.Role(claims.Role),

			Verified: len(a.secret) > 0,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	if len(a.secret) == 0 {
		if _, _, err := a.parser.ParseUnverified(raw, claims); err != nil {
			return nil, err
		}
		if claims.ExpiresAt != nil && !claims.ExpiresAt.After(timeNow()) {
			return nil, jwt.ErrTokenExpired
		}
	} else {
		_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return a.secret, nil })
		if err != nil {
			return nil, err
		}
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireRole answers 401 without a session and 403 when the session's
// role is not listed. No roles means any authenticated caller.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.From(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Connexion requise")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, s.Role) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Accès refusé")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var timeNow = time.Now

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]map[string]string{"error": {"code": code, "message": message}}
	_ = json.NewEncoder(w).Encode(body)
}
