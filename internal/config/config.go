package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// MemoryDSN selects the in-process store instead of Postgres.
const MemoryDSN = "memory://"

type AppCfg struct {
	Env         string
	Port        string
	CORSOrigins []string
}

type DBCfg struct{ DSN string }

type RedisCfg struct {
	Addr     string
	CacheTTL time.Duration
}

type SecurityCfg struct {
	RateLimitPerMin int
	AdminToken      string // guards onboarding APIs
}

// ListCfg bounds page sizes on every list endpoint.
type ListCfg struct {
	DefaultPageSize int
	MaxPageSize     int
}

// ClientCfg is read by the CLI.
type ClientCfg struct {
	BaseURL string
	APIKey  string
}

type LogCfg struct{ Level string }

type Cfg struct {
	App    AppCfg
	DB     DBCfg
	Redis  RedisCfg
	Sec    SecurityCfg
	List   ListCfg
	Client ClientCfg
	Log    LogCfg
}

// LoadDotenv copies .env entries into the process environment. Missing files
// are ignored and existing variables win.
func LoadDotenv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load reads the server configuration and exits on invalid settings.
func Load() Cfg {
	LoadDotenv()
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

// FromEnv reads configuration from environment variables, applying defaults.
func FromEnv() Cfg {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "sandbox")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_PER_MIN", 300)
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("CACHE_TTL", 30*time.Second)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LIST_DEFAULT_PAGE_SIZE", 25)
	v.SetDefault("LIST_MAX_PAGE_SIZE", 100)
	v.SetDefault("API_BASE_URL", "http://localhost:8080")

	return Cfg{
		App: AppCfg{
			Env:         v.GetString("APP_ENV"),
			Port:        v.GetString("APP_PORT"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		DB: DBCfg{DSN: strings.TrimSpace(v.GetString("DB_DSN"))},
		Redis: RedisCfg{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		Sec: SecurityCfg{
			RateLimitPerMin: v.GetInt("RATE_LIMIT_PER_MIN"),
			AdminToken:      strings.TrimSpace(v.GetString("ADMIN_TOKEN")),
		},
		List: ListCfg{
			DefaultPageSize: v.GetInt("LIST_DEFAULT_PAGE_SIZE"),
			MaxPageSize:     v.GetInt("LIST_MAX_PAGE_SIZE"),
		},
		Client: ClientCfg{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			APIKey:  strings.TrimSpace(v.GetString("API_KEY")),
		},
		Log: LogCfg{Level: v.GetString("LOG_LEVEL")},
	}
}

// Validate checks the settings the API server cannot start without.
func (c Cfg) Validate() error {
	var errs []error
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if c.List.DefaultPageSize < 1 {
		errs = append(errs, errors.New("LIST_DEFAULT_PAGE_SIZE must be at least 1"))
	}
	if c.List.MaxPageSize < c.List.DefaultPageSize {
		errs = append(errs, errors.New("LIST_MAX_PAGE_SIZE must not be below LIST_DEFAULT_PAGE_SIZE"))
	}
	if c.Redis.CacheTTL < 0 {
		errs = append(errs, errors.New("CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
