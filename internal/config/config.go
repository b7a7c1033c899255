package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	BackendURL        string
	BackendTimeout    time.Duration
	BackendMaxRetries int
	BackendRPS        float64
	ServiceToken      string

	UseLocalFallback bool
	DBURL            string
	DBAuthToken      string

	TelegramToken       string
	TelegramAdminChatID int64
	AdminTelegramIDs    []int64
	AdminPassword       string
	JWTSecret           string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OperatorsFile  string
	MinWithdrawal  int64
	MinRecharge    int64
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}
	cfg := &Config{
		Port:     p.getString("PORT", "8080"),
		LogLevel: p.getString("LOG_LEVEL", "info"),

		BackendURL:        p.getString("BACKEND_URL", ""),
		BackendTimeout:    p.getDuration("BACKEND_TIMEOUT", 15*time.Second),
		BackendMaxRetries: p.getInt("BACKEND_MAX_RETRIES", 2),
		BackendRPS:        p.getFloat("BACKEND_RPS", 50),
		ServiceToken:      p.getString("BACKEND_SERVICE_TOKEN", ""),

		UseLocalFallback: p.getBool("USE_LOCAL_FALLBACK", false),
		DBURL:            p.getString("DB_URL", p.getString("TURSO_DATABASE_URL", "")),
		DBAuthToken:      p.getString("DB_AUTH_TOKEN", p.getString("TURSO_AUTH_TOKEN", "")),

		TelegramToken:       p.getString("TELEGRAM_TOKEN", ""),
		TelegramAdminChatID: int64(p.getInt("TELEGRAM_ADMIN_CHAT_ID", 0)),
		AdminTelegramIDs:    p.getIDs("ADMIN_TELEGRAM_IDS"),
		AdminPassword:       p.getString("ADMIN_PASSWORD", ""),
		JWTSecret:           p.getString("JWT_SECRET", ""),

		RedisAddr:     p.getString("REDIS_ADDR", ""),
		RedisPassword: p.getString("REDIS_PASSWORD", ""),
		RedisDB:       p.getInt("REDIS_DB", 0),
		CacheTTL:      p.getDuration("CACHE_TTL", 30*time.Second),

		OperatorsFile:  p.getString("OPERATORS_FILE", ""),
		MinWithdrawal:  int64(p.getInt("MIN_WITHDRAWAL", 500)),
		MinRecharge:    int64(p.getInt("MIN_RECHARGE", 500)),
		RateLimitRPS:   p.getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: p.getInt("RATE_LIMIT_BURST", 20),
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("BACKEND_URL must be set"))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must be positive"))
	}
	if c.BackendMaxRetries < 0 {
		errs = append(errs, errors.New("BACKEND_MAX_RETRIES must not be negative"))
	}
	if c.MinWithdrawal <= 0 || c.MinRecharge <= 0 {
		errs = append(errs, errors.New("MIN_WITHDRAWAL and MIN_RECHARGE must be positive"))
	}
	if c.UseLocalFallback && c.DBURL == "" {
		errs = append(errs, errors.New("USE_LOCAL_FALLBACK requires DB_URL"))
	}
	if c.UseLocalFallback && c.JWTSecret == "" {
		errs = append(errs, errors.New("USE_LOCAL_FALLBACK requires JWT_SECRET"))
	}
	return errors.Join(errs...)
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) getString(key, fallback string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (p *parser) getInt(key string, fallback int) int {
	v := p.getString(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p *parser) getFloat(key string, fallback float64) float64 {
	v := p.getString(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func (p *parser) getBool(key string, fallback bool) bool {
	v := p.getString(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func (p *parser) getDuration(key string, fallback time.Duration) time.Duration {
	v := p.getString(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

// getIDs parses a comma-separated list of Telegram user ids.
func (p *parser) getIDs(key string) []int64 {
	var out []int64
	for _, f := range strings.Split(p.getString(key, ""), ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		out = append(out, id)
	}
	return out
}
