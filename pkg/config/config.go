package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EngineNative = "native"
	EngineDuckDB = "duckdb"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings for a single load run.
// Values come from environment variables first; command line flags override them.
type Config struct {
	// Input is the CSV file path, or an http(s) URL that is downloaded first.
	Input string `env:"CSV_LOADER_INPUT" env-default:"steam_games.csv"`

	// Output is the destination database. A plain path is a local SQLite file,
	// libsql:// and http(s):// DSNs target a libsql server.
	Output string `env:"CSV_LOADER_OUTPUT" env-default:"steam.db"`

	Table  string `env:"CSV_LOADER_TABLE" env-default:"steam_games"`
	Engine string `env:"CSV_LOADER_ENGINE" env-default:"native"`

	// Verify re-reads the destination row count after the write.
	Verify bool `env:"CSV_LOADER_VERIFY" env-default:"true"`

	NoColor bool `env:"NO_COLOR" env-default:"false"`
	Verbose bool `env:"CSV_LOADER_VERBOSE" env-default:"false"`
}

// Load reads the configuration from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input path is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("%w: table name is empty", ErrInvalidConfig)
	}
	switch c.Engine {
	case EngineNative, EngineDuckDB:
	default:
		return fmt.Errorf("%w: unknown engine %q (want %q or %q)", ErrInvalidConfig, c.Engine, EngineNative, EngineDuckDB)
	}
	return nil
}

// IsRemoteInput reports whether Input should be downloaded before loading.
func (c Config) IsRemoteInput() bool {
	return strings.HasPrefix(c.Input, "http://") || strings.HasPrefix(c.Input, "https://")
}
