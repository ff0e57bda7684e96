// Package config holds the configuration shared by the yoga console and the devserver.
package config

import (
	"encoding/json"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/yogastudio/yoga/internal/devserver"
	"github.com/yogastudio/yoga/pkg/check"
	"github.com/yogastudio/yoga/pkg/logger"
	"github.com/yogastudio/yoga/pkg/model"
)

const (
	// DefaultAPIURL is where the devserver listens by default.
	DefaultAPIURL = "http://localhost:8080"
	// DefaultPort is the devserver port when none is configured.
	DefaultPort = 8080
	// DefaultTokenTTL matches the validity of the tokens issued by the studio backend.
	DefaultTokenTTL = 24 * time.Hour

	hiddenValue = "********"
)

// Config is the configuration of both binaries. Each reads the sections it needs.
type Config struct {
	ConfigFile string        `json:"config_file"`
	EnvFile    string        `json:"env_file"`
	Log        logger.Config `json:"log"`

	API       APIConfig       `json:"api"`
	Console   ConsoleConfig   `json:"console"`
	Devserver DevserverConfig `json:"devserver"`
}

// APIConfig locates the studio backend.
type APIConfig struct {
	URL string `json:"url"`
}

// Validate implements the check.Validatable interface.
func (a APIConfig) Validate() []error {
	u, err := url.Parse(a.URL)
	if err != nil {
		return []error{errors.Wrap(err, "invalid api url")}
	}
	return []error{
		check.In(u.Scheme, []string{"http", "https"}, "api url scheme"),
		check.NotEmpty(u.Host, "api url must have a host"),
	}
}

// ConsoleConfig tunes the interactive console.
type ConsoleConfig struct {
	Prompt bool `json:"prompt"`
	Color  bool `json:"color"`
}

// DevserverConfig configures the in-memory backend.
type DevserverConfig struct {
	Host     string         `json:"host"`
	Port     int            `json:"port"`
	Metrics  bool           `json:"metrics"`
	Security SecurityConfig `json:"security"`
	Seed     devserver.Seed `json:"seed"`
}

// ListenAddr is the host:port the devserver binds.
func (d DevserverConfig) ListenAddr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// Validate implements the check.Validatable interface.
func (d DevserverConfig) Validate() []error {
	errs := []error{
		check.True(d.Port > 0 && d.Port <= 65535, "devserver port %d out of range", d.Port),
	}
	for i, u := range d.Seed.Users {
		errs = append(errs,
			check.NotEmpty(u.Email, "seed user %d needs an email", i),
			check.NotEmpty(u.Password, "seed user %d needs a password", i),
		)
	}
	return errs
}

// SecurityConfig holds the token settings of the devserver.
type SecurityConfig struct {
	JWTSecret string         `json:"jwt_secret"`
	TokenTTL  model.Duration `json:"token_ttl"`
}

// Validate implements the check.Validatable interface.
func (s SecurityConfig) Validate() []error {
	return []error{
		check.NotEmpty(s.JWTSecret, "jwt secret must be provided"),
		check.True(s.TokenTTL > 0, "token ttl must be positive"),
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: *logger.DefaultConfig(),
		API: APIConfig{URL: DefaultAPIURL},
		Console: ConsoleConfig{
			Prompt: true,
			Color:  true,
		},
		Devserver: DevserverConfig{
			Host: "localhost",
			Port: DefaultPort,
			Security: SecurityConfig{
				TokenTTL: model.Duration(DefaultTokenTTL),
			},
			Seed: devserver.DefaultSeed(),
		},
	}
}

// Resolve fills in dynamic defaults. A missing jwt secret is replaced by a random one, which
// invalidates issued tokens on every restart.
func (c *Config) Resolve() {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	if c.Devserver.Port == 0 {
		c.Devserver.Port = DefaultPort
	}
	if c.Devserver.Security.JWTSecret == "" {
		c.Devserver.Security.JWTSecret = uuid.NewString()
	}
}

// DevserverOptions converts the devserver section into server options.
func (c Config) DevserverOptions() devserver.Options {
	return devserver.Options{
		JWTSecret: c.Devserver.Security.JWTSecret,
		TokenTTL:  time.Duration(c.Devserver.Security.TokenTTL),
		Metrics:   c.Devserver.Metrics,
		Seed:      c.Devserver.Seed,
	}
}

// Printable returns the configuration as JSON with secrets hidden.
func (c Config) Printable() ([]byte, error) {
	if c.Devserver.Security.JWTSecret != "" {
		c.Devserver.Security.JWTSecret = hiddenValue
	}
	users := make([]devserver.SeedUser, 0, len(c.Devserver.Seed.Users))
	for _, u := range c.Devserver.Seed.Users {
		u.Password = hiddenValue
		users = append(users, u)
	}
	c.Devserver.Seed.Users = users

	bs, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert config to JSON")
	}
	return bs, nil
}
