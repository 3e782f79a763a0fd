package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Database DatabaseConfig `yaml:"database"`

	JWTSecret   string `yaml:"jwt_secret"`
	AdminAPIKey string `yaml:"admin_api_key"`

	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Backup  BackupConfig  `yaml:"backup"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"` // local | cloudinary
	UploadDir     string `yaml:"upload_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	CloudinaryURL string `yaml:"cloudinary_url"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type BackupConfig struct {
	Dir       string        `yaml:"dir"`
	Retention time.Duration `yaml:"retention"`
	Hour      int           `yaml:"hour"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Port:        "8080",
		Environment: "development",
		LogLevel:    "info",
		Database: DatabaseConfig{
			Driver:  "postgres",
			Port:    "5432",
			SSLMode: "disable",
		},
		Storage: StorageConfig{
			Backend:   "local",
			UploadDir: "./uploads",
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		Backup: BackupConfig{
			Retention: 4 * 24 * time.Hour,
			Hour:      2,
		},
	}
}

// Load reads the optional YAML file at path, then .env, then the process
// environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AdminAPIKey = getEnv("ADMIN_API_KEY", c.AdminAPIKey)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.UploadDir = getEnv("UPLOAD_DIR", c.Storage.UploadDir)
	c.Storage.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.Storage.PublicBaseURL)
	c.Storage.CloudinaryURL = getEnv("CLOUDINARY_URL", c.Storage.CloudinaryURL)

	c.Redis.Addr = getEnv("REDIS_URL", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)
	c.Redis.TTL = getEnvAsDuration("PRODUCT_CACHE_TTL", c.Redis.TTL)

	c.Backup.Dir = getEnv("BACKUP_DIR", c.Backup.Dir)
	c.Backup.Retention = getEnvAsDuration("BACKUP_RETENTION", c.Backup.Retention)
	c.Backup.Hour = getEnvAsInt("BACKUP_HOUR", c.Backup.Hour)
}

// Validate reports the first setting that would keep the server from starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.UploadDir == "" {
			return errors.New("UPLOAD_DIR is required for local storage")
		}
	case "cloudinary":
		if c.Storage.CloudinaryURL == "" {
			return errors.New("CLOUDINARY_URL is required for cloudinary storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Backup.Hour < 0 || c.Backup.Hour > 23 {
		return fmt.Errorf("backup hour %d out of range", c.Backup.Hour)
	}
	return nil
}

// DSN returns the connection string for the configured driver. DATABASE_URL
// wins over the individual DB_* parts.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Driver == "sqlite" {
		return "storefront.db"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.Port, c.Database.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
