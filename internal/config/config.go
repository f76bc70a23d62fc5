package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/course-submit/internal/domain/quiz"
	"github.com/oshokin/course-submit/internal/logger"
)

// Config holds the settings shared by the course-submit commands.
type Config struct {
	// Course is the course identifier passed to the submission sink.
	Course string `yaml:"course"`
	// ManifestFile is the well-known name of the checksum manifest.
	ManifestFile string `yaml:"manifest_file"`
	// OutboxDir is where the outbox sink deposits archives and receipts.
	OutboxDir string `yaml:"outbox_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Quizzes overrides the built-in quiz catalog when not empty.
	Quizzes quiz.Catalog `yaml:"quizzes,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "course-submit.yaml"

	// DefaultManifestFilename is the name the checksum manifest is written to.
	DefaultManifestFilename = "sum19-cksum.txt"

	// DefaultOutboxDir is the default outbox directory.
	DefaultOutboxDir = "submissions"

	// DefaultFilePermissions is the permission of files written by the tool.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadManifestName is returned when the manifest name is not a plain file name.
	errBadManifestName = errors.New("manifest file must be a plain file name")
	// errBadLogLevel is returned for unknown log level names.
	errBadLogLevel = errors.New("unknown log level")
)

// Default returns a validated configuration with built-in values.
func Default() *Config {
	cfg := new(Config)

	// Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.Course) == "" {
		cfg.Course = quiz.DefaultCourse
	}

	if cfg.ManifestFile == "" {
		cfg.ManifestFile = DefaultManifestFilename
	}

	if filepath.Base(cfg.ManifestFile) != cfg.ManifestFile || cfg.ManifestFile == "." || cfg.ManifestFile == ".." {
		return fmt.Errorf("%w: %q", errBadManifestName, cfg.ManifestFile)
	}

	if cfg.OutboxDir == "" {
		cfg.OutboxDir = DefaultOutboxDir
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errBadLogLevel, cfg.LogLevel)
	}

	if len(cfg.Quizzes) == 0 {
		cfg.Quizzes = quiz.DefaultCatalog()
	}

	if err := cfg.Quizzes.Validate(); err != nil {
		return fmt.Errorf("quizzes: %w", err)
	}

	return nil
}
