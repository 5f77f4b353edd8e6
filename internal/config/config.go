package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	// Mongo - документное хранилище вакансий и пользователей.
	// Пустой URI вне production включает in-memory репозитории.
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`

	// Database - реляционное хранилище прототипа склада (PostgreSQL).
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // часы
	} `yaml:"jwt"`

	SerpAPI struct {
		APIKey             string `yaml:"api_key"`
		BaseURL            string `yaml:"base_url"`
		DefaultQuery       string `yaml:"default_query"`
		Location           string `yaml:"location"`
		Timeout            int    `yaml:"timeout"`   // секунды
		CacheTTL           int    `yaml:"cache_ttl"` // секунды, 0 - без кэша
		BreakerMaxFailures uint32 `yaml:"breaker_max_failures"`
	} `yaml:"serpapi"`

	Storage struct {
		Type      string `yaml:"type"`      // local, s3, cloudflare_r2
		BasePath  string `yaml:"base_path"` // For local storage
		BaseURL   string `yaml:"base_url"`  // Public URL base
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize int64 `yaml:"max_size"` // байты
	} `yaml:"upload"`

	Janitor struct {
		Schedule    string `yaml:"schedule"`     // cron-выражение, пусто - выключен
		GracePeriod int    `yaml:"grace_period"` // часы
	} `yaml:"janitor"`
}

var AppConfig *Config

// devJWTSecret подставляется только вне production.
const devJWTSecret = "dev-insecure-jwt-secret"

// LoadConfig читает .env, затем YAML (если есть), затем переменные окружения.
// Переменные окружения всегда побеждают файл.
func LoadConfig() (*Config, error) {
	// .env опционален
	_ = godotenv.Load()

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := loadFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

// Default возвращает конфигурацию с дефолтами для локального запуска.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.CORSOrigins = []string{"*"}

	cfg.Mongo.Database = "jobboard"

	cfg.JWT.TTL = 24

	cfg.SerpAPI.BaseURL = "https://serpapi.com"
	cfg.SerpAPI.DefaultQuery = "software developer"
	cfg.SerpAPI.Location = "United States"
	cfg.SerpAPI.Timeout = 10

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Job Board"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 5 * 1024 * 1024 // 5MB

	cfg.Janitor.GracePeriod = 24

	return &cfg
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "ENV")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Mongo.URI, "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGO_DATABASE")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL_HOURS")

	setString(&cfg.SerpAPI.APIKey, "SERP_API_KEY")
	setString(&cfg.SerpAPI.BaseURL, "SERP_API_URL")
	setInt(&cfg.SerpAPI.CacheTTL, "SERP_CACHE_TTL")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.BasePath, "STORAGE_BASE_PATH")
	setString(&cfg.Storage.BaseURL, "STORAGE_BASE_URL")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	if v := os.Getenv("UPLOAD_MAX_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxSize = n
		}
	}

	setString(&cfg.Janitor.Schedule, "JANITOR_SCHEDULE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate проверяет то, без чего сервис не должен стартовать.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWT.Secret == "" {
			return errors.New("jwt secret is required in production")
		}
		if c.Mongo.URI == "" {
			return errors.New("mongo uri is required in production")
		}
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("upload.max_size must be positive")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Hour
}

func (c *Config) ExternalTimeout() time.Duration {
	return time.Duration(c.SerpAPI.Timeout) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func GetConfig() *Config {
	if AppConfig == nil {
		cfg, err := LoadConfig()
		if err != nil {
			panic(err)
		}
		AppConfig = cfg
	}
	return AppConfig
}
