package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yogastudio/yoga/pkg/check"
)

const (
	// EnvPrefix prefixes the environment variable of every registered key.
	EnvPrefix = "YOGA_"
	// DefaultConfigPath is read when no config file is given; it may be absent.
	DefaultConfigPath = "yoga.yaml"
	// DefaultEnvPath is loaded when no env file is given; it may be absent.
	DefaultEnvPath = ".env"

	// viperKeyDelimiter marks nested values. ".." leaves "." usable inside keys.
	viperKeyDelimiter = ".."
)

// Key names a configuration value by its path, e.g. Key{"api", "url"}.
type Key []string

// EnvName is the environment variable bound to the key.
func (k Key) EnvName() string {
	return EnvPrefix + strings.ReplaceAll(strings.ToUpper(k.FlagName()), "-", "_")
}

// AccessPath is the viper path of the key.
func (k Key) AccessPath() string {
	return strings.ReplaceAll(strings.Join(k, viperKeyDelimiter), "-", "_")
}

// FlagName is the command line flag bound to the key.
func (k Key) FlagName() string {
	return strings.Join(k, "-")
}

// Loader layers flags, environment, an optional .env file and an optional YAML file over
// DefaultConfig. Precedence is flag > env > file > default.
type Loader struct {
	v     *viper.Viper
	flags *pflag.FlagSet
}

// NewLoader returns a loader that registers its flags on flags. The config-file, env-file and
// log keys are registered for every binary.
func NewLoader(flags *pflag.FlagSet) *Loader {
	v := viper.NewWithOptions(viper.KeyDelimiter(viperKeyDelimiter))
	v.SetTypeByDefaultValue(true)
	l := &Loader{v: v, flags: flags}

	defaults := DefaultConfig()
	l.String(Key{"config-file"}, defaults.ConfigFile, "location of config file")
	l.String(Key{"env-file"}, defaults.EnvFile, "location of a dotenv file")
	l.String(Key{"log", "level"}, defaults.Log.Level,
		"choose logging level from [trace, debug, info, warn, error, fatal]")
	l.Bool(Key{"log", "color"}, defaults.Log.Color, "output logs in color")
	l.Bool(Key{"log", "structured"}, defaults.Log.Structured, "output logs as JSON")
	return l
}

// String registers a string key.
func (l *Loader) String(name Key, value string, usage string) {
	l.flags.String(name.FlagName(), value, usage)
	l.bind(name, value)
}

// Bool registers a bool key.
func (l *Loader) Bool(name Key, value bool, usage string) {
	l.flags.Bool(name.FlagName(), value, usage)
	l.bind(name, value)
}

// Int registers an int key.
func (l *Loader) Int(name Key, value int, usage string) {
	l.flags.Int(name.FlagName(), value, usage)
	l.bind(name, value)
}

func (l *Loader) bind(name Key, value interface{}) {
	_ = l.v.BindEnv(name.AccessPath(), name.EnvName())
	_ = l.v.BindPFlag(name.AccessPath(), l.flags.Lookup(name.FlagName()))
	l.v.SetDefault(name.AccessPath(), value)
}

// Load returns the resolved and validated configuration.
func (l *Loader) Load() (*Config, error) {
	initial, err := l.decode()
	if err != nil {
		return nil, err
	}
	if err = loadEnvFile(initial.EnvFile); err != nil {
		return nil, err
	}

	// The env file may name the config file.
	if initial, err = l.decode(); err != nil {
		return nil, err
	}
	bs, err := readConfigFile(initial.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err = l.merge(bs); err != nil {
		return nil, err
	}

	config, err := l.decode()
	if err != nil {
		return nil, err
	}
	config.Resolve()
	if err := check.Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) decode() (*Config, error) {
	config := DefaultConfig()
	bs, err := json.Marshal(l.v.AllSettings())
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal configuration map into json bytes")
	}
	if err = yaml.Unmarshal(bs, config, yaml.DisallowUnknownFields); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal configuration")
	}
	return config, nil
}

func (l *Loader) merge(bs []byte) error {
	var configMap map[string]interface{}
	if err := yaml.Unmarshal(bs, &configMap); err != nil {
		return errors.Wrap(err, "error unmarshal yaml configuration file")
	}
	if err := l.v.MergeConfigMap(configMap); err != nil {
		return errors.Wrap(err, "error merge configuration to viper")
	}
	return nil
}

func readConfigFile(configPath string) ([]byte, error) {
	isDefault := configPath == ""
	if isDefault {
		configPath = DefaultConfigPath
	}

	var err error
	if _, err = os.Stat(configPath); err != nil {
		if isDefault && os.IsNotExist(err) {
			log.Debugf("no configuration file at %s, skipping", configPath)
			return nil, nil
		}
		return nil, errors.Wrap(err, "error finding configuration file")
	}
	bs, err := os.ReadFile(configPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading configuration file")
	}
	return bs, nil
}

// loadEnvFile exports the variables of a dotenv file. Variables already set win.
func loadEnvFile(envPath string) error {
	isDefault := envPath == ""
	if isDefault {
		envPath = DefaultEnvPath
	}
	if _, err := os.Stat(envPath); err != nil {
		if isDefault && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "error finding env file")
	}
	return errors.Wrapf(godotenv.Load(envPath), "error loading env file %s", envPath)
}
