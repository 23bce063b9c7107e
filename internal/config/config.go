package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Env type for environment
type Env string

const (
	// Dev is the development environment
	Dev Env = "dev"
	// Prod is the production environment
	Prod Env = "prod"
)

// Metadata sync modes
const (
	MetadataSyncAlways = "always"
	MetadataSyncNever  = "never"
)

// ErrInvalidMetadataSync is returned for an unknown wal.metadata_sync value
var ErrInvalidMetadataSync = errors.New("invalid metadata sync mode")

// Config is the configuration for the application
type Config struct {
	Env      Env            `yaml:"env" env:"ENV" env-default:"dev"`
	Logging  LoggingConfig  `yaml:"logging"`
	WAL      WALConfig      `yaml:"wal"`
	Memtable MemtableConfig `yaml:"memtable"`
}

// LoggingConfig is the configuration for the logging
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// WALConfig configures the Write-Ahead Log
type WALConfig struct {
	DataDirectory string `yaml:"data_directory" env:"WAL_DATA_DIRECTORY" env-default:"./data/wal"`
	// MetadataSync is "always" to fsync the metadata file on every new segment, or "never"
	MetadataSync string `yaml:"metadata_sync" env:"WAL_METADATA_SYNC" env-default:"always"`
	SyncMetadata bool   `yaml:"-"` // calculated field
	// MaxSegmentSize is the size after which the engine starts a new segment, "0" disables it
	MaxSegmentSize      string `yaml:"max_segment_size" env:"WAL_MAX_SEGMENT_SIZE" env-default:"10MB"`
	MaxSegmentSizeBytes uint64 `yaml:"-"` // calculated field
}

// MemtableConfig is the configuration for the memtable
type MemtableConfig struct {
	Type string `yaml:"type" env:"MEMTABLE_TYPE" env-default:"vector"`
}

// NewConfig creates a new instance of Config. A missing file at path is not an
// error: values then come from the environment and defaults.
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}

	fileExists := false
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			fileExists = true
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if fileExists {
		// Load configuration from yaml file
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Load environment variables
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read env variables: %w", err)
	}

	size, err := parseSize(cfg.WAL.MaxSegmentSize)
	if err != nil {
		return nil, fmt.Errorf("invalid wal.max_segment_size: %w", err)
	}
	cfg.WAL.MaxSegmentSizeBytes = size

	switch cfg.WAL.MetadataSync {
	case MetadataSyncAlways:
		cfg.WAL.SyncMetadata = true
	case MetadataSyncNever:
		cfg.WAL.SyncMetadata = false
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetadataSync, cfg.WAL.MetadataSync)
	}

	return cfg, nil
}
