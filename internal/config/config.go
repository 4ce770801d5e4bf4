package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultRequestTimeout    = 30 * time.Second
	defaultTemplatesDir      = "templates"
	defaultPublicDir         = "public"
	defaultLocalesDir        = "locales"
	defaultLang              = "ru"
	defaultDataSource        = "data/divisions.json"
	defaultFetchTimeout      = 10 * time.Second
	defaultPageTTL           = 30 * time.Minute
	defaultMaxPages          = 1000
	defaultTimezone          = "Europe/Moscow"
	defaultIconSprite        = "/assets/icons.svg"
	defaultLogLevel          = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Paths    PathsConfig
	Locale   LocaleConfig
	Roster   RosterConfig
	LogLevel string
}

// ServerConfig configures the HTTP server and session cookies.
type ServerConfig struct {
	Port              string        `validate:"required,numeric"`
	Dev               bool
	Production        bool
	SessionSigningKey string
	BaseURL           string        `validate:"omitempty,url"`
	ReadHeaderTimeout time.Duration `validate:"gt=0"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	IdleTimeout       time.Duration `validate:"gt=0"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`
	RequestTimeout    time.Duration `validate:"gt=0"`
}

// PathsConfig locates templates, static assets and translations on disk.
type PathsConfig struct {
	Templates string `validate:"required"`
	Public    string `validate:"required"`
	Locales   string `validate:"required"`
}

// LocaleConfig lists the page languages.
type LocaleConfig struct {
	Default   string   `validate:"required"`
	Supported []string `validate:"required,min=1,dive,required"`
}

// RosterConfig controls where roster data comes from and how long pages stay live.
type RosterConfig struct {
	DataSource   string        `validate:"required"`
	FetchTimeout time.Duration `validate:"gt=0"`
	PageTTL      time.Duration `validate:"gt=0"`
	MaxPages     int           `validate:"gte=1,lte=100000"`
	Timezone     string        `validate:"required"`
	IconSprite   string        `validate:"required"`
	Location     *time.Location
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides and environment
// variables (dotenv < OS env < explicit env map).
func Load(ctx context.Context, opts ...Option) (Config, error) {
	_ = ctx
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "ROSTER_WEB_PORT", "")
	if port == "" {
		// Cloud Run style
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:              port,
			Dev:               boolWithDefault(lookup, "ROSTER_WEB_DEV", false),
			Production:        strings.EqualFold(stringWithDefault(lookup, "ROSTER_WEB_ENV", ""), "prod"),
			SessionSigningKey: stringWithDefault(lookup, "ROSTER_WEB_SESSION_SIGNING_KEY", ""),
			BaseURL:           strings.TrimRight(stringWithDefault(lookup, "ROSTER_WEB_BASE_URL", ""), "/"),
			ReadHeaderTimeout: durationWithDefault(lookup, "ROSTER_WEB_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout),
			ReadTimeout:       durationWithDefault(lookup, "ROSTER_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, "ROSTER_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "ROSTER_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout:   durationWithDefault(lookup, "ROSTER_WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			RequestTimeout:    durationWithDefault(lookup, "ROSTER_WEB_REQUEST_TIMEOUT", defaultRequestTimeout),
		},
		Paths: PathsConfig{
			Templates: stringWithDefault(lookup, "ROSTER_TEMPLATES_DIR", defaultTemplatesDir),
			Public:    stringWithDefault(lookup, "ROSTER_PUBLIC_DIR", defaultPublicDir),
			Locales:   stringWithDefault(lookup, "ROSTER_LOCALES_DIR", defaultLocalesDir),
		},
		Locale: LocaleConfig{
			Default:   strings.ToLower(stringWithDefault(lookup, "ROSTER_DEFAULT_LANG", defaultLang)),
			Supported: csvWithDefault(lookup, "ROSTER_LANGS", []string{"ru", "en"}),
		},
		Roster: RosterConfig{
			DataSource:   stringWithDefault(lookup, "ROSTER_DATA_SOURCE", defaultDataSource),
			FetchTimeout: durationWithDefault(lookup, "ROSTER_FETCH_TIMEOUT", defaultFetchTimeout),
			PageTTL:      durationWithDefault(lookup, "ROSTER_PAGE_TTL", defaultPageTTL),
			MaxPages:     intWithDefault(lookup, "ROSTER_MAX_PAGES", defaultMaxPages),
			Timezone:     stringWithDefault(lookup, "ROSTER_TIMEZONE", defaultTimezone),
			IconSprite:   stringWithDefault(lookup, "ROSTER_ICON_SPRITE", defaultIconSprite),
		},
		LogLevel: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

func validateConfig(cfg *Config) error {
	var invalid []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: validate: %w", err)
		}
		for _, fe := range verrs {
			invalid = append(invalid, strings.TrimPrefix(fe.StructNamespace(), "Config."))
		}
	}

	if !contains(cfg.Locale.Supported, cfg.Locale.Default) {
		invalid = append(invalid, "Locale.Default")
	}

	if cfg.Roster.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Roster.Timezone)
		if err != nil {
			invalid = append(invalid, "Roster.Timezone")
		} else {
			cfg.Roster.Location = loc
		}
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return parsed
		}
		switch strings.ToLower(value) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
