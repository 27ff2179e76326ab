package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	appDir          = "gophvault"
	defaultFileName = "config.yaml"
)

// Config holds runtime settings for the gophvault CLI.
type Config struct {
	KDF KDF `yaml:"kdf" json:"kdf"`
	Log Log `yaml:"log" json:"log"`
}

// KDF holds the key-stretching cost parameters. Memory and ChunkSize are
// in KiB.
type KDF struct {
	Iterations  uint32 `yaml:"iterations" json:"iterations"`
	Memory      uint32 `yaml:"memory" json:"memory"`
	Parallelism uint32 `yaml:"parallelism" json:"parallelism"`
	ChunkSize   uint32 `yaml:"chunk_size" json:"chunk_size"`
}

// Log selects the logger level and output format.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	p := cryptox.DefaultParams()
	c.KDF = KDF{
		Iterations:  p.Iterations,
		Memory:      p.Memory,
		Parallelism: p.Parallelism,
		ChunkSize:   p.ChunkSize,
	}
	c.Log = Log{Level: "info", Format: "text"}
}

// Params converts the KDF section into cryptox parameters.
func (c *Config) Params() cryptox.Params {
	return cryptox.Params{
		Iterations:  c.KDF.Iterations,
		Memory:      c.KDF.Memory,
		Parallelism: c.KDF.Parallelism,
		ChunkSize:   c.KDF.ChunkSize,
	}
}

func (k KDF) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.Iterations, validation.Required, validation.Max(uint32(cryptox.MaxIterations))),
		validation.Field(&k.Memory, validation.Required, validation.Max(uint32(cryptox.MaxMemory))),
		validation.Field(&k.Parallelism, validation.Required, validation.Max(uint32(cryptox.MaxParallelism))),
		validation.Field(&k.ChunkSize, validation.Required, validation.Max(uint32(cryptox.MaxChunkSize))),
	)
}

func (l Log) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.KDF),
		validation.Field(&c.Log),
	)
	if err != nil {
		return fmt.Errorf("%w: config: %v", common.ErrInvalidInput, err)
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, defaultFileName), nil
}

// Load builds a Config by applying defaults, then the file at path (when it
// exists), then the environment. The result is validated. An empty path
// means DefaultPath.
func Load(path string) (*Config, string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, path); err != nil {
		return nil, path, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
