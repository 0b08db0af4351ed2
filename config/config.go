package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/luca-patrignani/hcoin/hashing"
)

const EnvPrefix = "HCOIN"

// Keys shared by viper, environment variables (HCOIN_LOG_LEVEL, ...) and
// command line flags.
const (
	KeyDifficulty = "difficulty"
	KeyAlgorithm  = "algorithm"
	KeyGenesis    = "genesis"
	KeyPayloads   = "payloads"
	KeyTimeout    = "timeout"
	KeyLogLevel   = "log.level"
	KeyLogFormat  = "log.format"
)

type Config struct {
	Difficulty int
	Algorithm  string

	Genesis  string   // payload of the first block
	Payloads []string // payloads chained after the genesis block

	// Timeout bounds the mining of a single block. Zero means no bound.
	Timeout time.Duration

	Log LogConfig
}

type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // pretty|json|text
}

func Default() Config {
	return Config{
		Difficulty: 5,
		Algorithm:  hashing.SHA256,
		Genesis:    "I'm the first",
		Payloads:   []string{"I'm the second", "I'm the third"},
		Timeout:    0,
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
	}
}

// NewViper returns a viper instance preloaded with defaults and bound to
// HCOIN_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(KeyDifficulty, def.Difficulty)
	v.SetDefault(KeyAlgorithm, def.Algorithm)
	v.SetDefault(KeyGenesis, def.Genesis)
	v.SetDefault(KeyPayloads, def.Payloads)
	v.SetDefault(KeyTimeout, def.Timeout)
	v.SetDefault(KeyLogLevel, def.Log.Level)
	v.SetDefault(KeyLogFormat, def.Log.Format)
	return v
}

// ReadFile merges a config file (yaml, json, toml, ...) into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	return nil
}

// Load reads the configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Difficulty: v.GetInt(KeyDifficulty),
		Algorithm:  strings.TrimSpace(v.GetString(KeyAlgorithm)),
		Genesis:    v.GetString(KeyGenesis),
		Payloads:   v.GetStringSlice(KeyPayloads),
		Timeout:    v.GetDuration(KeyTimeout),
		Log: LogConfig{
			Level:  strings.TrimSpace(v.GetString(KeyLogLevel)),
			Format: strings.TrimSpace(v.GetString(KeyLogFormat)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.WithMessage(err, "invalid configuration")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Difficulty < 0 {
		return errors.Errorf("difficulty must not be negative: %d", c.Difficulty)
	}

	h, err := hashing.New(c.Algorithm)
	if err != nil {
		return err
	}
	if c.Difficulty > h.HexLen() {
		return errors.Errorf("difficulty %d exceeds %s digest width %d", c.Difficulty, h.Algorithm(), h.HexLen())
	}

	if c.Timeout < 0 {
		return errors.Errorf("timeout must not be negative: %s", c.Timeout)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Errorf("invalid log.level: %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "pretty", "json", "text":
	default:
		return errors.Errorf("invalid log.format: %q", c.Log.Format)
	}
	return nil
}
