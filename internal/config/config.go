// Package config resolves runtime settings for the server and CLI.
//
// Precedence, lowest to highest: flag defaults, --config YAML file, .env,
// process environment, explicit flags. Every flag is also read from the
// environment variable named by upper-casing it and replacing "-" with "_"
// (--storage-backend → STORAGE_BACKEND).
package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robalobadob/wordle-registry/internal/storage"
	"github.com/robalobadob/wordle-registry/internal/words"
)

// Config is the resolved runtime configuration.
type Config struct {
	Port           int
	Bind           string
	ClientOrigin   string
	RequestTimeout time.Duration

	LogLevel     string
	LogFormat    string // console | json
	LogFile      string
	LogMaxSizeMB int

	AnswersFile string
	AllowedFile string
	DailySalt   string
	Seed        uint64 // 0 seeds from the clock

	StorageBackend string
	StoragePath    string
	RedisAddr      string
	RedisNamespace string

	ConfigFile string
}

// RegisterFlags adds every setting to fs with its default, binding into c.
func RegisterFlags(fs *pflag.FlagSet, c *Config) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.IntVarP(&c.Port, "port", "p", 5175, "port to listen on (env: PORT)")
	fs.StringVarP(&c.Bind, "bind", "b", "", "address to bind to, empty for all interfaces (env: BIND)")
	fs.StringVar(&c.ClientOrigin, "client-origin", "http://localhost:5173", "origin allowed by CORS (env: CLIENT_ORIGIN)")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", 10*time.Second, "per-request handler timeout (env: REQUEST_TIMEOUT)")

	fs.StringVar(&c.LogLevel, "log-level", "info", "trace|debug|info|warn|error (env: LOG_LEVEL)")
	fs.StringVar(&c.LogFormat, "log-format", "console", "console|json (env: LOG_FORMAT)")
	fs.StringVar(&c.LogFile, "log-file", "", "also write JSON logs to this rolling file (env: LOG_FILE)")
	fs.IntVar(&c.LogMaxSizeMB, "log-max-size-mb", 50, "rotate the log file at this size (env: LOG_MAX_SIZE_MB)")

	fs.StringVar(&c.AnswersFile, "words-answers-file", "", "answer list, one word per line; empty uses the built-in list (env: WORDS_ANSWERS_FILE)")
	fs.StringVar(&c.AllowedFile, "words-allowed-file", "", "extra allowed guesses (env: WORDS_ALLOWED_FILE)")
	fs.StringVar(&c.DailySalt, "daily-salt", "local_dev_salt", "key for the daily word choice (env: DAILY_SALT)")
	fs.Uint64Var(&c.Seed, "seed", 0, "random seed for word choice, 0 for time-based (env: SEED)")

	fs.StringVar(&c.StorageBackend, "storage-backend", "file", strings.Join(storage.Backends, "|")+" (env: STORAGE_BACKEND)")
	fs.StringVar(&c.StoragePath, "storage-path", "", "file or sqlite path; empty uses "+storage.DefaultPath+" or "+storage.DefaultSQLitePath+" (env: STORAGE_PATH)")
	fs.StringVar(&c.RedisAddr, "redis-addr", "", "host:port of the redis server (env: REDIS_ADDR)")
	fs.StringVar(&c.RedisNamespace, "redis-namespace", "default", "key namespace inside redis (env: REDIS_NAMESPACE)")

	fs.StringVar(&c.ConfigFile, "config", "", "optional YAML config file (env: CONFIG)")
}

// Resolve overlays the config file, .env and environment onto every flag the
// user did not set explicitly. envFiles default to ".env"; a missing file is
// not an error.
func Resolve(fs *pflag.FlagSet, envFiles ...string) error {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		bindErr = errors.Join(bindErr, v.BindPFlag(f.Name, f), v.BindEnv(f.Name))
	})
	if bindErr != nil {
		return fmt.Errorf("config: bind flags: %w", bindErr)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var setErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			if err := fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				setErr = errors.Join(setErr, fmt.Errorf("%s: %w", f.Name, err))
			}
		}
	})
	if setErr != nil {
		return fmt.Errorf("config: %w", setErr)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q (want console or json)", c.LogFormat)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive: %s", c.RequestTimeout)
	}
	if !slices.Contains(storage.Backends, c.StorageBackend) {
		return fmt.Errorf("invalid storage backend %q (want one of %s)", c.StorageBackend, strings.Join(storage.Backends, ", "))
	}
	if c.StorageBackend == "redis" && c.RedisAddr == "" {
		return errors.New("storage backend redis requires --redis-addr")
	}
	if c.AnswersFile != "" && c.AllowedFile == "" {
		return errors.New("--words-answers-file requires --words-allowed-file")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// Storage returns the gateway settings.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Backend:        c.StorageBackend,
		Path:           c.StoragePath,
		RedisAddr:      c.RedisAddr,
		RedisNamespace: c.RedisNamespace,
	}
}

// Words returns the word list locations.
func (c *Config) Words() words.Files {
	return words.Files{Answers: c.AnswersFile, Allowed: c.AllowedFile}
}

// WordOptions returns the word source options implied by the config.
func (c *Config) WordOptions() []words.Option {
	if c.Seed == 0 {
		return nil
	}
	return []words.Option{words.WithSeed(c.Seed)}
}
