package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teemow/meetbridge/internal/google"
	"github.com/teemow/meetbridge/internal/server"
	"github.com/teemow/meetbridge/internal/state"
)

// Config is the resolved runtime configuration. Values are layered as
// defaults, then the YAML file, then environment variables, then flags.
type Config struct {
	Google  GoogleConfig  `yaml:"google"`
	HTTP    HTTPConfig    `yaml:"http"`
	State   StateConfig   `yaml:"state"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GoogleConfig groups Google client settings.
type GoogleConfig struct {
	OAuth OAuthConfig `yaml:"oauth"`

	// MeetEndpoint overrides the Meet API base URL (proxies, tests)
	MeetEndpoint string `yaml:"meet-endpoint"`
}

// OAuthConfig holds the OAuth client identity as written in the config file.
type OAuthConfig struct {
	ClientID     string        `yaml:"client-id"`
	ClientSecret string        `yaml:"client-secret"`
	RedirectURI  string        `yaml:"redirect-uri"`
	TokenURL     string        `yaml:"token-url"`
	AuthURL      string        `yaml:"auth-url"`
	Scopes       []string      `yaml:"scopes"`
	Timeout      time.Duration `yaml:"timeout"`
}

// HTTPConfig holds public server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`

	// AllowUnverifiedState skips state verification on the callback and
	// issues the static placeholder state instead.
	AllowUnverifiedState bool `yaml:"allow-unverified-state"`
}

// StateConfig selects the OAuth state store backend.
type StateConfig struct {
	Type  string        `yaml:"type"`
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig holds the Redis connection used by the redis state store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool `yaml:"enabled"`

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string `yaml:"addr"`
}

func defaultConfig() Config {
	oauthDefaults := google.DefaultOAuthConfig()
	return Config{
		Google: GoogleConfig{
			OAuth: OAuthConfig{
				TokenURL: oauthDefaults.TokenURL,
				AuthURL:  oauthDefaults.AuthURL,
				Scopes:   oauthDefaults.Scopes,
				Timeout:  oauthDefaults.HTTPTimeout,
			},
		},
		HTTP: HTTPConfig{
			Addr: server.DefaultAddr,
		},
		State: StateConfig{
			Type: state.TypeMemory,
			TTL:  google.DefaultStateTTL,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    server.DefaultMetricsAddr,
		},
	}
}

// loadConfig resolves the configuration for cmd. path may be empty.
func loadConfig(cmd *cobra.Command, path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}

	applyFlags(cmd, &cfg)

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with any non-empty environment variables.
func applyEnv(cfg *Config, getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString("GOOGLE_CLIENT_ID", &cfg.Google.OAuth.ClientID)
	setString("GOOGLE_CLIENT_SECRET", &cfg.Google.OAuth.ClientSecret)
	setString("GOOGLE_REDIRECT_URI", &cfg.Google.OAuth.RedirectURI)
	setString("GOOGLE_TOKEN_URL", &cfg.Google.OAuth.TokenURL)
	setString("GOOGLE_AUTH_URL", &cfg.Google.OAuth.AuthURL)
	setString("GOOGLE_MEET_ENDPOINT", &cfg.Google.MeetEndpoint)
	if scopes := parseCommaSeparatedList(getenv("GOOGLE_OAUTH_SCOPES")); len(scopes) > 0 {
		cfg.Google.OAuth.Scopes = scopes
	}

	setString("MEETBRIDGE_HTTP_ADDR", &cfg.HTTP.Addr)
	if v := getenv("MEETBRIDGE_ALLOW_UNVERIFIED_STATE"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MEETBRIDGE_ALLOW_UNVERIFIED_STATE value %q: %w", v, err)
		}
		cfg.HTTP.AllowUnverifiedState = allow
	}

	setString("STATE_STORE_TYPE", &cfg.State.Type)
	setString("REDIS_ADDR", &cfg.State.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.State.Redis.Password)
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		cfg.State.Redis.DB = db
	}

	if v := getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED value %q: %w", v, err)
		}
		cfg.Metrics.Enabled = enabled
	}
	setString("METRICS_ADDR", &cfg.Metrics.Addr)

	return nil
}

// applyFlags copies explicitly set flags into cfg. Flags a command does not
// define are ignored.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	if cmd == nil {
		return
	}
	flags := cmd.Flags()

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"google-client-id", &cfg.Google.OAuth.ClientID},
		{"google-client-secret", &cfg.Google.OAuth.ClientSecret},
		{"google-redirect-uri", &cfg.Google.OAuth.RedirectURI},
		{"google-token-url", &cfg.Google.OAuth.TokenURL},
		{"meet-endpoint", &cfg.Google.MeetEndpoint},
		{"http-addr", &cfg.HTTP.Addr},
		{"state-store", &cfg.State.Type},
		{"redis-addr", &cfg.State.Redis.Addr},
		{"metrics-addr", &cfg.Metrics.Addr},
	}
	for _, f := range stringFlags {
		if flags.Lookup(f.name) == nil || !flags.Changed(f.name) {
			continue
		}
		if v, err := flags.GetString(f.name); err == nil {
			*f.dst = v
		}
	}

	if flags.Lookup("redis-db") != nil && flags.Changed("redis-db") {
		if v, err := flags.GetInt("redis-db"); err == nil {
			cfg.State.Redis.DB = v
		}
	}
	if flags.Lookup("metrics-enabled") != nil && flags.Changed("metrics-enabled") {
		if v, err := flags.GetBool("metrics-enabled"); err == nil {
			cfg.Metrics.Enabled = v
		}
	}
	if flags.Lookup("allow-unverified-state") != nil && flags.Changed("allow-unverified-state") {
		if v, err := flags.GetBool("allow-unverified-state"); err == nil {
			cfg.HTTP.AllowUnverifiedState = v
		}
	}
}

// oauthConfig converts the file/env representation into the OAuth client config.
func (c Config) oauthConfig() google.OAuthConfig {
	o := c.Google.OAuth
	return google.OAuthConfig{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		RedirectURI:  o.RedirectURI,
		TokenURL:     o.TokenURL,
		AuthURL:      o.AuthURL,
		Scopes:       o.Scopes,
		HTTPTimeout:  o.Timeout,
	}
}

func (c Config) stateConfig() state.Config {
	return state.Config{
		Type:          c.State.Type,
		RedisAddr:     c.State.Redis.Addr,
		RedisPassword: c.State.Redis.Password,
		RedisDB:       c.State.Redis.DB,
	}
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
