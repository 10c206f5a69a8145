package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	S3         S3Config         `mapstructure:"s3"`
	Thumbnails ThumbnailsConfig `mapstructure:"thumbnails"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"` // empty means no log file
	Stdout bool   `mapstructure:"stdout"`
	JSON   bool   `mapstructure:"json"`
}

// StorageConfig selects the KV backend for programs, routines and the
// thumbnail index.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // memory | file | redis | mongo
	Path    string `mapstructure:"path"`    // directory for the file backend
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	ThumbnailPrefix string `mapstructure:"thumbnail_prefix"`
}

type ThumbnailsConfig struct {
	Dir          string        `mapstructure:"dir"`
	Size         int           `mapstructure:"size"`
	Quality      int           `mapstructure:"quality"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchDelay   time.Duration `mapstructure:"batch_delay"`
	AssetBaseURL string        `mapstructure:"asset_base_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	AdminUser     string        `mapstructure:"admin_user"`
	AdminPassHash string        `mapstructure:"admin_password_hash"` // bcrypt
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// LoadConfig reads config.yaml from path, overlaid with environment
// variables (server.address -> SERVER_ADDRESS).
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// every key needs a default so env-only overrides are seen by Unmarshal
	v.SetDefault("server.address", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.stdout", true)
	v.SetDefault("logging.json", false)

	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.path", "./data/kv")

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitprogram")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fitprogram::")

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "exercise-gifs")
	v.SetDefault("s3.thumbnail_prefix", "thumbnails/")

	v.SetDefault("thumbnails.dir", "./data")
	v.SetDefault("thumbnails.size", 120)
	v.SetDefault("thumbnails.quality", 80)
	v.SetDefault("thumbnails.max_age", "720h")
	v.SetDefault("thumbnails.batch_size", 3)
	v.SetDefault("thumbnails.batch_delay", "100ms")
	v.SetDefault("thumbnails.asset_base_url", "")
	v.SetDefault("thumbnails.fetch_timeout", "15s")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration", "1h")
	v.SetDefault("auth.admin_user", "admin")
	v.SetDefault("auth.admin_password_hash", "")

	v.SetDefault("metrics.namespace", "fitprogram")
	v.SetDefault("metrics.subsystem", "server")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, config.Validate()
}

var ErrInvalidConfig = errors.New("invalid config")

// Validate checks values that have no usable fallback.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return errors.Join(ErrInvalidConfig, errors.New("unknown storage backend "+c.Storage.Backend))
	}
	if c.Thumbnails.Size <= 0 || c.Thumbnails.Quality <= 0 || c.Thumbnails.Quality > 100 {
		return errors.Join(ErrInvalidConfig, errors.New("thumbnail size and quality must be positive, quality at most 100"))
	}
	if c.Thumbnails.BatchSize <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("thumbnail batch size must be positive"))
	}
	return nil
}
