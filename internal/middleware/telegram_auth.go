package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"lotto-happy/internal/models"
	"lotto-happy/internal/session"
)

var (
	errNoInitData      = errors.New("no telegram init data")
	errInitDataHash    = errors.New("telegram init data hash mismatch")
	errInitDataNoUser  = errors.New("telegram init data has no user")
	errBotTokenMissing = errors.New("telegram bot token not configured")
)

type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// AdminAuth admits back-office callers. A request passes when it already
// carries a verified admin session, when it presents the admin BasicAuth password,
// or when it comes from a whitelisted Telegram Mini App user. The last two
// act on the backend with the service token.
type AdminAuth struct {
	Password     string
	BotToken     string
	AdminIDs     []int64
	ServiceToken string
	Log          *zap.Logger
}

func (a *AdminAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := session.From(r.Context()); ok && s.Role.IsAdmin() {
			if s.Verified {
				next.ServeHTTP(w, r)
				return
			}
			a.Log.Warn("unverified admin token refused", zap.String("user_id", s.UserID))
		}

		if a.checkBasicAuth(r) {
			next.ServeHTTP(w, r.WithContext(a.adminSession(r, "admin")))
			return
		}

		user, err := a.telegramUser(r)
		switch {
		case err == nil && slices.Contains(a.AdminIDs, user.ID):
			a.Log.Info("telegram admin authenticated", zap.Int64("telegram_id", user.ID), zap.String("name", user.FirstName))
			next.ServeHTTP(w, r.WithContext(a.adminSession(r, "tg:"+user.Username)))
			return
		case err == nil:
			a.Log.Warn("telegram user is not an admin", zap.Int64("telegram_id", user.ID))
		case !errors.Is(err, errNoInitData):
			a.Log.Warn("telegram init data rejected", zap.Error(err))
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="Lotto Happy Admin"`)
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Accès refusé")
	})
}

func (a *AdminAuth) adminSession(r *http.Request, who string) context.Context {
	return session.With(r.Context(), session.Session{Token: a.ServiceToken, UserID: who, Role: models.RoleAdmin, Verified: true})
}

func (a *AdminAuth) checkBasicAuth(r *http.Request) bool {
	if a.Password == "" {
		return false
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	return user == "admin" && subtle.ConstantTimeCompare([]byte(pass), []byte(a.Password)) == 1
}

// telegramUser finds init data in the header, the query string or the
// tg_init_data cookie and verifies it.
func (a *AdminAuth) telegramUser(r *http.Request) (TelegramUser, error) {
	initData := r.Header.Get("X-Telegram-Init-Data")
	if initData == "" {
		initData = r.URL.Query().Get("tg_init_data")
	}
	if initData == "" {
		if c, err := r.Cookie("tg_init_data"); err == nil {
			if decoded, err := url.QueryUnescape(c.Value); err == nil {
				initData = decoded
			}
		}
	}
	if initData == "" {
		return TelegramUser{}, errNoInitData
	}
	return ValidateInitData(initData, a.BotToken)
}

// ValidateInitData checks a Telegram Web App init data string against the
// bot token and returns the user it describes.
func ValidateInitData(initData, botToken string) (TelegramUser, error) {
	if botToken == "" {
		return TelegramUser{}, errBotTokenMissing
	}
	params, err := url.ParseQuery(initData)
	if err != nil {
		return TelegramUser{}, err
	}
	hash := params.Get("hash")
	if hash == "" {
		return TelegramUser{}, errInitDataHash
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + params.Get(k)
	}

	if !hmac.Equal([]byte(SignInitData(strings.Join(lines, "\n"), botToken)), []byte(hash)) {
		return TelegramUser{}, errInitDataHash
	}

	raw := params.Get("user")
	if raw == "" {
		return TelegramUser{}, errInitDataNoUser
	}
	var user TelegramUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return TelegramUser{}, err
	}
	return user, nil
}

// SignInitData computes the hex hash Telegram attaches to a data-check string.
func SignInitData(dataCheck, botToken string) string {
	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	h := hmac.New(sha256.New, secret.Sum(nil))
	h.Write([]byte(dataCheck))
	return hex.EncodeToString(h.Sum(nil))
}
