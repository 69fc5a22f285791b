package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	MinIO       MinIOConfig       `yaml:"minio"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// StorageConfig selects and bounds the upload store.
// Backend is "local" (filesystem under UploadDir) or "s3" (MinIO).
type StorageConfig struct {
	Backend      string   `yaml:"backend"`
	UploadDir    string   `yaml:"upload_dir"`
	MaxFileSize  int64    `yaml:"max_file_size"`
	AllowedTypes []string `yaml:"allowed_types"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// RecognitionConfig configures the clothing-recognition step.
// Service is "mock" or "local"; anything else falls back to mock.
// LocalCommand is a command template with an {image} placeholder.
type RecognitionConfig struct {
	Enabled                  bool          `yaml:"enabled"`
	Service                  string        `yaml:"service"`
	LocalCommand             string        `yaml:"local_command"`
	LocalTimeout             time.Duration `yaml:"local_timeout"`
	LocalConfidenceThreshold float64       `yaml:"local_confidence_threshold"`
	MaxImages                int           `yaml:"max_images"`
}

// UnmarshalYAML parses local_timeout from a duration string ("30s", "2m").
func (r *RecognitionConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled                  bool    `yaml:"enabled"`
		Service                  string  `yaml:"service"`
		LocalCommand             string  `yaml:"local_command"`
		LocalTimeout             string  `yaml:"local_timeout"`
		LocalConfidenceThreshold float64 `yaml:"local_confidence_threshold"`
		MaxImages                int     `yaml:"max_images"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	r.Enabled = raw.Enabled
	r.Service = raw.Service
	r.LocalCommand = raw.LocalCommand
	r.LocalConfidenceThreshold = raw.LocalConfidenceThreshold
	r.MaxImages = raw.MaxImages
	if raw.LocalTimeout != "" {
		d, err := time.ParseDuration(raw.LocalTimeout)
		if err != nil {
			return fmt.Errorf("parse local_timeout: %w", err)
		}
		r.LocalTimeout = d
	}
	return nil
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "uploads"
	}
	if cfg.Storage.MaxFileSize == 0 {
		cfg.Storage.MaxFileSize = 10 * 1024 * 1024
	}
	if len(cfg.Storage.AllowedTypes) == 0 {
		cfg.Storage.AllowedTypes = []string{
			"image/jpeg",
			"image/jpg",
			"image/png",
			"image/webp",
		}
	}
	if cfg.Recognition.Service == "" {
		cfg.Recognition.Service = "mock"
	}
	if cfg.Recognition.LocalTimeout == 0 {
		cfg.Recognition.LocalTimeout = 30 * time.Second
	}
	if cfg.Recognition.LocalConfidenceThreshold == 0 {
		cfg.Recognition.LocalConfidenceThreshold = 0.3
	}
	if cfg.Recognition.MaxImages == 0 {
		cfg.Recognition.MaxImages = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WARDROBE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WARDROBE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WARDROBE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WARDROBE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WARDROBE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WARDROBE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WARDROBE_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("WARDROBE_UPLOAD_DIR"); v != "" {
		cfg.Storage.UploadDir = v
	}
	if v := os.Getenv("WARDROBE_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Storage.MaxFileSize = n
		}
	}
	if v := os.Getenv("WARDROBE_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("WARDROBE_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("WARDROBE_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("WARDROBE_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("WARDROBE_RECOGNITION_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Recognition.Enabled = b
		}
	}
	if v := os.Getenv("WARDROBE_RECOGNITION_SERVICE"); v != "" {
		cfg.Recognition.Service = v
	}
	if v := os.Getenv("WARDROBE_RECOGNITION_COMMAND"); v != "" {
		cfg.Recognition.LocalCommand = v
	}
	if v := os.Getenv("WARDROBE_RECOGNITION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Recognition.LocalTimeout = d
		}
	}
}
