package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/estopia/gatekeeper/pkg/httpx"
)

type Config struct {
	DiscordClientID     string `env:"CLIENT_ID"`     // Required
	DiscordClientSecret string `env:"CLIENT_SECRET"` // Required
	DiscordRedirectURI  string `env:"REDIRECT_URI"`  // Required: must match the URI registered with Discord

	// Overrides for Discord's endpoints, used to point at a stub in tests.
	DiscordAuthURL     string        `env:"DISCORD_AUTH_URL"`
	DiscordTokenURL    string        `env:"DISCORD_TOKEN_URL"`
	DiscordAPIBaseURL  string        `env:"DISCORD_API_BASE_URL"`
	DiscordHTTPTimeout time.Duration `env:"DISCORD_HTTP_TIMEOUT" envDefault:"10s"`

	CookieDomain string        `env:"COOKIE_DOMAIN" envDefault:".estopia.net"`
	CORSOrigins  []string      `env:"CORS_ORIGIN" envSeparator:"," envDefault:"https://test.estopia.net,https://restore.estopia.net"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	DatabaseFile        string        `env:"DATABASE_FILE" envDefault:"gatekeeper.db"`
	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"2999"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// Unset fields keep the httpx defaults, e.g. RATE_LIMIT_STRICT_REQUESTS=20.
	StrictLimit  httpx.RateLimitConfig `envPrefix:"RATE_LIMIT_STRICT_"`
	LenientLimit httpx.RateLimitConfig `envPrefix:"RATE_LIMIT_LENIENT_"`
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{})
}

func loadConfig(opts env.Options) (Config, error) {
	cfg := Config{
		StrictLimit:  httpx.StrictLimit,
		LenientLimit: httpx.LenientLimit,
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing or out of range setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.DiscordClientID == "" {
		errs = append(errs, errors.New("CLIENT_ID is required"))
	}
	if c.DiscordClientSecret == "" {
		errs = append(errs, errors.New("CLIENT_SECRET is required"))
	}
	if c.DiscordRedirectURI == "" {
		errs = append(errs, errors.New("REDIRECT_URI is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.DiscordHTTPTimeout <= 0 {
		errs = append(errs, errors.New("DISCORD_HTTP_TIMEOUT must be positive"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}

	return errors.Join(errs...)
}
