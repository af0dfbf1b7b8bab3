package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret            string `yaml:"secret"`
		Algorithm         string `yaml:"algorithm"`
		AccessTTLMinutes  int    `yaml:"access_ttl_minutes"`
		RefreshTTLMinutes int    `yaml:"refresh_ttl_minutes"`
	} `yaml:"jwt"`

	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`

	API struct {
		BaseURL     string `yaml:"base_url"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"api"`

	Storage struct {
		Type      string `yaml:"type"` // local, s3
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"storage"`

	Upload struct {
		Dir               string   `yaml:"dir"`
		MaxSize           int64    `yaml:"max_size"`
		AllowedExtensions []string `yaml:"allowed_extensions"`
		ImageQuality      int      `yaml:"image_quality"`
	} `yaml:"upload"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		AdminEmail   string `yaml:"admin_email"`
	} `yaml:"email"`

	RateLimit struct {
		MaxRequests   int `yaml:"max_requests"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`

	Maintenance struct {
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"maintenance"`
}

const (
	defaultConfigPath = "config/config.yaml"
	minSecretLength   = 32
)

// Load собирает конфигурацию: .env -> yaml (если есть) -> переменные окружения -> значения по умолчанию.
// path перекрывает CONFIG_PATH, пустая строка - взять из окружения.
func Load(path string) (*Config, error) {
	// .env не обязателен, в проде переменные приходят из окружения
	_ = godotenv.Load()

	var cfg Config

	if path == "" {
		path = getEnv("CONFIG_PATH", defaultConfigPath)
	}
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
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

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "HS256"
	}
	if c.JWT.AccessTTLMinutes == 0 {
		c.JWT.AccessTTLMinutes = 30
	}
	if c.JWT.RefreshTTLMinutes == 0 {
		c.JWT.RefreshTTLMinutes = 60 * 24 * 7
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"http://localhost:5173"}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8000"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "backend/uploads"
	}
	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = 10 * 1024 * 1024
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	}
	if c.Upload.ImageQuality == 0 {
		c.Upload.ImageQuality = 85
	}
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = "smtp.gmail.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = 3
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 3600
	}
	if c.Maintenance.IntervalMinutes == 0 {
		c.Maintenance.IntervalMinutes = 60
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("DATABASE_URL is required")
	}
	if len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters long", minSecretLength)
	}
	if c.JWT.Algorithm != "HS256" && c.JWT.Algorithm != "HS384" && c.JWT.Algorithm != "HS512" {
		return fmt.Errorf("unsupported JWT algorithm: %s", c.JWT.Algorithm)
	}
	if c.JWT.AccessTTLMinutes < 0 || c.JWT.RefreshTTLMinutes < 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.Upload.MaxSize < 0 {
		return errors.New("MAX_FILE_SIZE must be positive")
	}
	if c.RateLimit.MaxRequests < 0 || c.RateLimit.WindowSeconds < 0 {
		return errors.New("rate limit settings must be positive")
	}
	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.Type == "s3" && c.Storage.Bucket == "" {
		return errors.New("S3_BUCKET is required for s3 storage")
	}
	return nil
}
