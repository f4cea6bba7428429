package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. FACESTORE_DB_PATH.
// Leaf fields use split_words rather than explicit envconfig names so that
// envconfig does not fall back to unprefixed variables such as PATH or PORT.
const EnvPrefix = "FACESTORE"

const (
	envDevelopment = "development"
	envProduction  = "production"
)

type Config struct {
	Env         string            `yaml:"env" split_words:"true"`
	Database    DatabaseConfig    `yaml:"database" envconfig:"DB"`
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Uploads     UploadsConfig     `yaml:"uploads" envconfig:"UPLOADS"`
	Recognition RecognitionConfig `yaml:"recognition" envconfig:"RECOGNITION"`
	Batch       BatchConfig       `yaml:"batch" envconfig:"BATCH"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

type ServerConfig struct {
	Host          string `yaml:"host" split_words:"true"`
	Port          int    `yaml:"port" split_words:"true"`
	MaxUploadSize int64  `yaml:"max_upload_size" split_words:"true"`
}

type UploadsConfig struct {
	Dir string `yaml:"dir" split_words:"true"`
}

// KnownDir is where uploads of known faces are kept.
func (c UploadsConfig) KnownDir() string {
	return filepath.Join(c.Dir, "knownfaces")
}

// UnknownDir is where uploads of faces to identify are kept.
func (c UploadsConfig) UnknownDir() string {
	return filepath.Join(c.Dir, "unknownfaces")
}

// LiveDir holds the latest live camera frame.
func (c UploadsConfig) LiveDir() string {
	return filepath.Join(c.Dir, "live")
}

// Dirs lists every directory uploads are written to.
func (c UploadsConfig) Dirs() []string {
	return []string{c.KnownDir(), c.UnknownDir(), c.LiveDir()}
}

type RecognitionConfig struct {
	ModelsDir    string  `yaml:"models_dir" split_words:"true"`
	Tolerance    float64 `yaml:"tolerance" split_words:"true"`
	UseCNN       bool    `yaml:"use_cnn" split_words:"true"`
	MaxImageSize int     `yaml:"max_image_size" split_words:"true"` // 0 keeps the original size
}

type BatchConfig struct {
	KnownDir   string `yaml:"known_dir" split_words:"true"`
	UnknownDir string `yaml:"unknown_dir" split_words:"true"`
}

func Default() *Config {
	return &Config{
		Env: envDevelopment,
		Database: DatabaseConfig{
			Path: "faces.db",
		},
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8000,
			MaxUploadSize: 32 << 20,
		},
		Uploads: UploadsConfig{
			Dir: "uploads",
		},
		Recognition: RecognitionConfig{
			ModelsDir:    "face-recognition-models",
			Tolerance:    0.6,
			MaxImageSize: 1600,
		},
		Batch: BatchConfig{
			KnownDir:   "knownfaces",
			UnknownDir: "unknownfaces",
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then FACESTORE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid max upload size %d", c.Server.MaxUploadSize))
	}
	if c.Recognition.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("invalid recognition tolerance %v", c.Recognition.Tolerance))
	}
	if c.Recognition.MaxImageSize < 0 {
		errs = append(errs, fmt.Errorf("invalid max image size %d", c.Recognition.MaxImageSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == envDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}
