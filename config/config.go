// Package config loads litestore settings from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jordanwade90/litestore/record"
	"github.com/jordanwade90/litestore/value"
	"gopkg.in/yaml.v3"
)

// RecordConfig holds record codec settings.
type RecordConfig struct {
	FileFormat int    `yaml:"file_format"`
	Encoding   string `yaml:"encoding"`
	MaxColumns int    `yaml:"max_columns"`
	MaxLength  int    `yaml:"max_length"`
}

// DatabaseConfig holds database writer settings.
type DatabaseConfig struct {
	// Workers bounds how many TableStreams WriteParallel runs at once.
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
}

// Config is the top-level configuration.
type Config struct {
	Record   RecordConfig   `yaml:"record"`
	Database DatabaseConfig `yaml:"database"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Record: RecordConfig{
			FileFormat: record.DefaultFileFormat,
			Encoding:   "UTF-8",
			MaxColumns: record.DefaultMaxColumns,
			MaxLength:  record.DefaultMaxLength,
		},
		Database: DatabaseConfig{
			Workers:  4,
			LogLevel: "info",
		},
	}
}

// Load reads YAML from r over the defaults. A nil reader yields the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path.
// A missing file is not an error; the defaults are returned instead.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Record.FileFormat < 1 || c.Record.FileFormat > 4 {
		return fmt.Errorf("record.file_format must be between 1 and 4, got %d", c.Record.FileFormat)
	}
	if _, ok := value.ParseEncoding(c.Record.Encoding); !ok {
		return fmt.Errorf("record.encoding: unknown encoding %q", c.Record.Encoding)
	}
	if c.Record.MaxLength < 1 || c.Record.MaxLength > value.MaxLength {
		return fmt.Errorf("record.max_length must be between 1 and %d, got %d", value.MaxLength, c.Record.MaxLength)
	}
	if c.Record.MaxColumns < 1 {
		return fmt.Errorf("record.max_columns must be positive, got %d", c.Record.MaxColumns)
	}
	if c.Database.Workers < 1 {
		return fmt.Errorf("database.workers must be positive, got %d", c.Database.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RecordOptions converts the record settings for the record package.
func (c *Config) RecordOptions() record.Options {
	enc, _ := value.ParseEncoding(c.Record.Encoding)
	return record.Options{
		FileFormat: c.Record.FileFormat,
		Encoding:   enc,
		MaxColumns: c.Record.MaxColumns,
		MaxLength:  c.Record.MaxLength,
	}
}

// Level parses database.log_level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Database.LogLevel)); err != nil {
		return 0, fmt.Errorf("database.log_level: %w", err)
	}
	return level, nil
}
