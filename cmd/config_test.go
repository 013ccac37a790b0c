package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetbridge/internal/google"
	"github.com/teemow/meetbridge/internal/server"
	"github.com/teemow/meetbridge/internal/state"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "meetings",
			expected: []string{"meetings"},
		},
		{
			name:     "multiple values",
			input:    "meetings,calendar",
			expected: []string{"meetings", "calendar"},
		},
		{
			name:     "values with spaces around comma",
			input:    "meetings, calendar",
			expected: []string{"meetings", "calendar"},
		},
		{
			name:     "values with leading/trailing spaces",
			input:    "  meetings  ,  calendar  ",
			expected: []string{"meetings", "calendar"},
		},
		{
			name:     "trailing comma",
			input:    "meetings,calendar,",
			expected: []string{"meetings", "calendar"},
		},
		{
			name:     "leading comma",
			input:    ",meetings,calendar",
			expected: []string{"meetings", "calendar"},
		},
		{
			name:     "multiple consecutive commas",
			input:    "meetings,,calendar",
			expected: []string{"meetings", "calendar"},
		},
		{
			name:     "only commas and spaces",
			input:    ",  , , ",
			expected: []string{},
		},
		{
			name:     "single value with surrounding whitespace",
			input:    "  meetings  ",
			expected: []string{"meetings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommaSeparatedList(tt.input)

			// Handle nil vs empty slice comparison
			if tt.expected == nil {
				if result != nil {
					t.Errorf("parseCommaSeparatedList(%q) = %v, want nil", tt.input, result)
				}
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("parseCommaSeparatedList(%q) = %v (len %d), want %v (len %d)",
					tt.input, result, len(result), tt.expected, len(tt.expected))
				return
			}

			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("parseCommaSeparatedList(%q)[%d] = %q, want %q",
						tt.input, i, v, tt.expected[i])
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, server.DefaultAddr, cfg.HTTP.Addr)
	assert.Equal(t, state.TypeMemory, cfg.State.Type)
	assert.Equal(t, google.DefaultStateTTL, cfg.State.TTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, server.DefaultMetricsAddr, cfg.Metrics.Addr)
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.Google.OAuth.TokenURL)
	assert.Equal(t, google.DefaultOAuthScopes, cfg.Google.OAuth.Scopes)
	assert.False(t, cfg.HTTP.AllowUnverifiedState)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetbridge.yaml")
	content := `
google:
  oauth:
    client-id: file-client
    client-secret: file-secret
    redirect-uri: https://bridge.example.com/api/master/google-meet/create-space
    timeout: 5s
http:
  addr: ":9000"
state:
  type: redis
  ttl: 2m
  redis:
    addr: redis:6379
    db: 3
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(path, &cfg))

	assert.Equal(t, "file-client", cfg.Google.OAuth.ClientID)
	assert.Equal(t, "file-secret", cfg.Google.OAuth.ClientSecret)
	assert.Equal(t, "https://bridge.example.com/api/master/google-meet/create-space", cfg.Google.OAuth.RedirectURI)
	assert.Equal(t, 5*time.Second, cfg.Google.OAuth.Timeout)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, state.TypeRedis, cfg.State.Type)
	assert.Equal(t, 2*time.Minute, cfg.State.TTL)
	assert.Equal(t, "redis:6379", cfg.State.Redis.Addr)
	assert.Equal(t, 3, cfg.State.Redis.DB)
	assert.False(t, cfg.Metrics.Enabled)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.Google.OAuth.TokenURL)
	assert.Equal(t, server.DefaultMetricsAddr, cfg.Metrics.Addr)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	cfg := defaultConfig()
	assert.Error(t, loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("google: [unterminated"), 0o600))
	assert.Error(t, loadConfigFile(path, &cfg))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GOOGLE_CLIENT_ID":                  "env-client",
		"GOOGLE_CLIENT_SECRET":              "env-secret",
		"GOOGLE_REDIRECT_URI":               "https://env.example.com/cb",
		"GOOGLE_TOKEN_URL":                  "https://token.example.com",
		"GOOGLE_OAUTH_SCOPES":               "a, b",
		"MEETBRIDGE_HTTP_ADDR":              ":7000",
		"MEETBRIDGE_ALLOW_UNVERIFIED_STATE": "true",
		"STATE_STORE_TYPE":                  "redis",
		"REDIS_ADDR":                        "localhost:6379",
		"REDIS_PASSWORD":                    "pw",
		"REDIS_DB":                          "2",
		"METRICS_ENABLED":                   "false",
		"METRICS_ADDR":                      ":9191",
	}

	cfg := defaultConfig()
	require.NoError(t, applyEnv(&cfg, func(key string) string { return env[key] }))

	assert.Equal(t, "env-client", cfg.Google.OAuth.ClientID)
	assert.Equal(t, "env-secret", cfg.Google.OAuth.ClientSecret)
	assert.Equal(t, "https://env.example.com/cb", cfg.Google.OAuth.RedirectURI)
	assert.Equal(t, "https://token.example.com", cfg.Google.OAuth.TokenURL)
	assert.Equal(t, []string{"a", "b"}, cfg.Google.OAuth.Scopes)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.AllowUnverifiedState)
	assert.Equal(t, "redis", cfg.State.Type)
	assert.Equal(t, "localhost:6379", cfg.State.Redis.Addr)
	assert.Equal(t, "pw", cfg.State.Redis.Password)
	assert.Equal(t, 2, cfg.State.Redis.DB)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9191", cfg.Metrics.Addr)
}

func TestApplyEnv_EmptyValuesKeepConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Google.OAuth.ClientID = "from-file"

	require.NoError(t, applyEnv(&cfg, func(string) string { return "" }))
	assert.Equal(t, "from-file", cfg.Google.OAuth.ClientID)
	assert.Equal(t, google.DefaultOAuthScopes, cfg.Google.OAuth.Scopes)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	for _, key := range []string{"REDIS_DB", "METRICS_ENABLED", "MEETBRIDGE_ALLOW_UNVERIFIED_STATE"} {
		t.Run(key, func(t *testing.T) {
			cfg := defaultConfig()
			err := applyEnv(&cfg, func(k string) string {
				if k == key {
					return "not-a-value"
				}
				return ""
			})
			assert.Error(t, err)
		})
	}
}

func TestApplyFlags_OnlyChangedFlagsWin(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("google-client-id", "", "")
	cmd.Flags().String("http-addr", server.DefaultAddr, "")
	cmd.Flags().Int("redis-db", 0, "")
	cmd.Flags().Bool("allow-unverified-state", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--google-client-id", "flag-client", "--redis-db", "5", "--allow-unverified-state"}))

	cfg := defaultConfig()
	cfg.Google.OAuth.ClientID = "env-client"
	cfg.HTTP.Addr = ":7000"

	applyFlags(cmd, &cfg)

	assert.Equal(t, "flag-client", cfg.Google.OAuth.ClientID)
	assert.Equal(t, ":7000", cfg.HTTP.Addr, "unchanged flag must not override env")
	assert.Equal(t, 5, cfg.State.Redis.DB)
	assert.True(t, cfg.HTTP.AllowUnverifiedState)
}

func TestConfigConversions(t *testing.T) {
	cfg := defaultConfig()
	cfg.Google.OAuth.ClientID = "id"
	cfg.Google.OAuth.ClientSecret = "secret"
	cfg.Google.OAuth.RedirectURI = "https://bridge.example.com/cb"
	cfg.State.Type = state.TypeRedis
	cfg.State.Redis = RedisConfig{Addr: "redis:6379", Password: "pw", DB: 1}

	oauthCfg := cfg.oauthConfig()
	assert.NoError(t, oauthCfg.Validate())
	assert.Equal(t, google.DefaultHTTPTimeout, oauthCfg.HTTPTimeout)

	assert.Equal(t, state.Config{
		Type:          state.TypeRedis,
		RedisAddr:     "redis:6379",
		RedisPassword: "pw",
		RedisDB:       1,
	}, cfg.stateConfig())
}
