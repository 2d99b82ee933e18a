// Package config reads the server configuration from the environment, an
// optional .env file and command-line flags, in increasing order of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Addr      string        `env:"ADDR" envDefault:":8080"`
	DBPath    string        `env:"DB_PATH" envDefault:"./data/ledger.db"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`

	// AMQP is optional. Without a URL, ledger events go to the log.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"gopayurself.events"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"gopayurself.notifications"`
}

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Parse builds the configuration from the environment, then applies flags
// from args (without the program name).
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("gopayurself", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "a", cfg.Addr, "address for the HTTP server")
	flags.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the SQLite database")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "session token lifetime")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "AMQP broker URL for ledger events")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path must not be empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		errs = append(errs, errors.New("AMQP exchange and queue are required when AMQP_URL is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
