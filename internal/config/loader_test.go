package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/yogastudio/yoga/pkg/model"
)

func newTestLoader(t *testing.T, args ...string) *Loader {
	flags := pflag.NewFlagSet(t.Name(), pflag.ContinueOnError)
	l := NewLoader(flags)
	defaults := DefaultConfig()
	l.String(Key{"api", "url"}, defaults.API.URL, "")
	l.Bool(Key{"console", "prompt"}, defaults.Console.Prompt, "")
	l.Int(Key{"devserver", "port"}, defaults.Devserver.Port, "")
	l.String(Key{"devserver", "security", "token-ttl"},
		time.Duration(defaults.Devserver.Security.TokenTTL).String(), "")
	require.NoError(t, flags.Parse(args))
	return l
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestKey(t *testing.T) {
	k := Key{"devserver", "security", "token-ttl"}
	require.Equal(t, "devserver-security-token-ttl", k.FlagName())
	require.Equal(t, "YOGA_DEVSERVER_SECURITY_TOKEN_TTL", k.EnvName())
	require.Equal(t, "devserver..security..token_ttl", k.AccessPath())
}

func TestLoadDefaults(t *testing.T) {
	config, err := newTestLoader(t).Load()
	require.NoError(t, err)
	require.Equal(t, DefaultAPIURL, config.API.URL)
	require.True(t, config.Console.Prompt)
	require.Equal(t, model.Duration(DefaultTokenTTL), config.Devserver.Security.TokenTTL)
	require.NotEmpty(t, config.Devserver.Security.JWTSecret)
	require.Len(t, config.Devserver.Seed.Users, 1)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "yoga.yaml", `
api:
    url: http://from-file:8080/
console:
    prompt: false
devserver:
    port: 9000
    security:
        token_ttl: 2h
    seed:
        teachers:
          - first_name: Only
            last_name: ONE
`)
	t.Setenv("YOGA_DEVSERVER_PORT", "9100")

	config, err := newTestLoader(t, "--config-file", path, "--api-url", "https://from-flag").Load()
	require.NoError(t, err)
	require.Equal(t, "https://from-flag", config.API.URL)
	require.False(t, config.Console.Prompt)
	require.Equal(t, 9100, config.Devserver.Port)
	require.Equal(t, model.Duration(2*time.Hour), config.Devserver.Security.TokenTTL)
	require.Len(t, config.Devserver.Seed.Teachers, 1)
	require.Len(t, config.Devserver.Seed.Users, 1, "sections absent from the file keep their defaults")
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "YOGA_API_URL=http://from-dotenv:1234\nYOGA_CONSOLE_PROMPT=false\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("YOGA_API_URL")
		_ = os.Unsetenv("YOGA_CONSOLE_PROMPT")
	})

	config, err := newTestLoader(t, "--env-file", path).Load()
	require.NoError(t, err)
	require.Equal(t, "http://from-dotenv:1234", config.API.URL)
	require.False(t, config.Console.Prompt)
}

func TestLoadErrors(t *testing.T) {
	_, err := newTestLoader(t, "--config-file", filepath.Join(t.TempDir(), "missing.yaml")).Load()
	require.ErrorContains(t, err, "error finding configuration file")

	_, err = newTestLoader(t, "--env-file", filepath.Join(t.TempDir(), "missing.env")).Load()
	require.ErrorContains(t, err, "error finding env file")

	path := writeFile(t, "yoga.yaml", "api:\n    uri: http://typo\n")
	_, err = newTestLoader(t, "--config-file", path).Load()
	require.ErrorContains(t, err, "cannot unmarshal configuration")

	_, err = newTestLoader(t, "--api-url", "localhost").Load()
	require.ErrorContains(t, err, "api url scheme")
}
